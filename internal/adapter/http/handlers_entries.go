package adapthttp

import (
	"net/http"
	"time"

	"mindspace/internal/domain"
)

// entryRequest is the body of POST /api/entries.
type entryRequest struct {
	Date         *time.Time      `json:"date"`
	Mood         float64         `json:"mood"`
	Energy       float64         `json:"energy"`
	Scale        domain.Scale    `json:"scale"`
	Content      string          `json:"content"`
	Tags         []string        `json:"tags"`
	Gratitudes   []string        `json:"gratitudes"`
	Worries      string          `json:"worries"`
	SleepHours   *float64        `json:"sleepHours"`
	SleepQuality *int            `json:"sleepQuality"`
	Reframe      *domain.Reframe `json:"reframe"`
}

func (req entryRequest) draft() domain.JournalEntry {
	e := domain.JournalEntry{
		Pulse:        domain.Pulse{Mood: req.Mood, Energy: req.Energy, Scale: req.Scale},
		Content:      req.Content,
		Tags:         req.Tags,
		Gratitudes:   req.Gratitudes,
		Worries:      req.Worries,
		SleepHours:   req.SleepHours,
		SleepQuality: req.SleepQuality,
		Reframe:      req.Reframe,
	}
	if req.Date != nil {
		e.Date = *req.Date
	}
	return e
}

// entryView adds the derived mood level to an entry.
type entryView struct {
	domain.JournalEntry
	Level domain.MoodLevel `json:"level"`
}

func viewOf(e domain.JournalEntry) entryView {
	return entryView{JournalEntry: e, Level: e.Pulse.Level()}
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		limit := min(intQuery(r, "limit", 20), 200)
		items, err := s.journal.ListRecent(ctx, user.ID, limit)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		views := make([]entryView, len(items))
		for i, e := range items {
			views[i] = viewOf(e)
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": views})

	case http.MethodPost:
		var body entryRequest
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		entry, err := s.journal.RecordEntry(ctx, user.ID, body.draft())
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"entry": viewOf(*entry)})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleEntry(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	id := r.PathValue("id")

	switch r.Method {
	case http.MethodGet:
		entry, err := s.journal.Get(ctx, user.ID, id)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"entry": viewOf(*entry)})

	case http.MethodDelete:
		if err := s.journal.Delete(ctx, user.ID, id); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleEntryUndoLast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	deleted, id, err := s.journal.UndoLast(r.Context(), user.ID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "deleted": deleted, "id": id})
}
