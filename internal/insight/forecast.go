package insight

import (
	"math"
	"sort"

	"mindspace/internal/domain"
)

// ForecastWindow is how many of the most recent entries feed a forecast.
const ForecastWindow = 7

// Trend directions reported by Forecast.
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendSteady = "steady"
)

// MoodForecast is a naive next-day projection on the 1-10 pulse scale.
type MoodForecast struct {
	Predicted float64   `json:"predicted"`
	Trend     float64   `json:"trend"`
	Direction string    `json:"direction"`
	Declining bool      `json:"declining"`
	Volatile  bool      `json:"volatile"`
	Recent    []float64 `json:"recent"`
}

// Forecast projects tomorrow's mood from the last ForecastWindow dated
// entries. It reports false when there are not enough entries.
func Forecast(entries []domain.JournalEntry) (MoodForecast, bool) {
	dated := make([]domain.JournalEntry, 0, len(entries))
	for _, e := range entries {
		if !e.Date.IsZero() {
			dated = append(dated, e)
		}
	}
	if len(dated) < ForecastWindow {
		return MoodForecast{}, false
	}
	sort.SliceStable(dated, func(i, j int) bool { return dated[i].Date.Before(dated[j].Date) })
	dated = dated[len(dated)-ForecastWindow:]

	moods := make([]float64, len(dated))
	for i, e := range dated {
		moods[i] = tenPoint(e.Pulse)
	}

	half := len(moods) / 2
	firstAvg := mean(moods[:half])
	secondAvg := mean(moods[half:])
	trend := secondAvg - firstAvg
	current := moods[len(moods)-1]

	f := MoodForecast{
		Predicted: math.Max(1, math.Min(10, current+trend*0.5)),
		Trend:     trend,
		Direction: TrendSteady,
		Declining: trend < -1 && secondAvg < 5,
		Recent:    moods,
	}
	switch {
	case trend > 0.5:
		f.Direction = TrendUp
	case trend < -0.5:
		f.Direction = TrendDown
	}
	for i := 1; i < len(moods); i++ {
		if math.Abs(moods[i]-moods[i-1]) > 3 {
			f.Volatile = true
			break
		}
	}
	return f, true
}

// tenPoint expresses a pulse mood on the 1-10 scale.
func tenPoint(p domain.Pulse) float64 {
	five := domain.Normalize(p.Mood, p.Scale)
	return 1 + (five-1)*9/4
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
