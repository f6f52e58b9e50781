package domain

import (
	"fmt"
	"math"
)

// MoodLevel is the five-bucket ordinal classification of a mood value.
// NoMood marks a day without an entry. The ordinal of every other level is
// also its chart weight.
type MoodLevel int

const (
	NoMood MoodLevel = iota
	MoodBad
	MoodLow
	MoodOkay
	MoodGood
	MoodGreat
)

// MoodInfo holds the display attributes of a MoodLevel.
type MoodInfo struct {
	Key        string `json:"key"`
	Label      string `json:"label"`
	ColorToken string `json:"colorToken"`
	Emoji      string `json:"emoji"`
	Weight     int    `json:"weight"`
}

var moodTable = [...]MoodInfo{
	NoMood:    {Key: "", Label: "", ColorToken: "mood-none", Emoji: "", Weight: 0},
	MoodBad:   {Key: "bad", Label: "Rough", ColorToken: "mood-bad", Emoji: "🌧️", Weight: 1},
	MoodLow:   {Key: "low", Label: "Low", ColorToken: "mood-low", Emoji: "😔", Weight: 2},
	MoodOkay:  {Key: "okay", Label: "Okay", ColorToken: "mood-okay", Emoji: "😐", Weight: 3},
	MoodGood:  {Key: "good", Label: "Good", ColorToken: "mood-good", Emoji: "😊", Weight: 4},
	MoodGreat: {Key: "great", Label: "Wonderful", ColorToken: "mood-great", Emoji: "✨", Weight: 5},
}

// MoodLevels returns the real levels from best to worst, the order a legend
// lists them in.
func MoodLevels() []MoodLevel {
	return []MoodLevel{MoodGreat, MoodGood, MoodOkay, MoodLow, MoodBad}
}

// Info returns the lookup-table row for l. Unknown values map to NoMood.
func (l MoodLevel) Info() MoodInfo {
	if l < NoMood || l > MoodGreat {
		return moodTable[NoMood]
	}
	return moodTable[l]
}

// Weight is the numeric chart height of l, 0 for NoMood.
func (l MoodLevel) Weight() int { return l.Info().Weight }

// Label is the human-facing name of l.
func (l MoodLevel) Label() string { return l.Info().Label }

// Valid reports whether l is one of the five real levels.
func (l MoodLevel) Valid() bool { return l >= MoodBad && l <= MoodGreat }

func (l MoodLevel) String() string {
	if !l.Valid() {
		return "none"
	}
	return moodTable[l].Key
}

// MarshalText encodes l as its key ("great", "good", ...).
func (l MoodLevel) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return []byte{}, nil
	}
	return []byte(moodTable[l].Key), nil
}

// UnmarshalText accepts a level key; the empty string decodes to NoMood.
func (l *MoodLevel) UnmarshalText(b []byte) error {
	lvl, err := ParseMoodLevel(string(b))
	if err != nil {
		return err
	}
	*l = lvl
	return nil
}

// ParseMoodLevel maps a key back to its level.
func ParseMoodLevel(s string) (MoodLevel, error) {
	if s == "" || s == "none" {
		return NoMood, nil
	}
	for _, l := range MoodLevels() {
		if moodTable[l].Key == s {
			return l, nil
		}
	}
	return NoMood, fmt.Errorf("unknown mood level %q", s)
}

// Classify maps a mood value on the 1-5 scale to a MoodLevel. Values outside
// the scale clamp to the nearest bucket; NaN is treated as the bottom bucket.
func Classify(v float64) MoodLevel {
	switch {
	case v >= 4.5:
		return MoodGreat
	case v >= 3.5:
		return MoodGood
	case v >= 2.5:
		return MoodOkay
	case v >= 1.5:
		return MoodLow
	default:
		return MoodBad
	}
}

// Normalize rescales a value on scale s onto the 1-5 scale used by Classify.
func Normalize(v float64, s Scale) float64 {
	if math.IsNaN(v) {
		return 1
	}
	top := float64(s.Max())
	if v < 1 {
		v = 1
	}
	if v > top {
		v = top
	}
	return 1 + (v-1)*4/(top-1)
}
