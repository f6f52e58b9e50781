package adapthttp

import (
	"net/http"
	"strconv"

	"mindspace/internal/app"
)

func (s *Server) handleChartsMood(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	today := s.charts.Today()
	days := app.ClampChartDays(intQuery(r, "days", 14))

	points, err := s.charts.MoodSeries(r.Context(), user.ID, days, today)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"days":  days,
		"today": dayString(today),
		"items": points,
		"empty": len(points) == 0,
	})
}

func (s *Server) handleChartsPixels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	today := s.charts.Today()
	year := today.Year()
	if v := r.URL.Query().Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 9999 {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid year"})
			return
		}
		year = n
	}

	pixels, err := s.charts.PixelCalendar(r.Context(), user.ID, year, today)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"year":  year,
		"today": dayString(today),
		"items": pixels,
	})
}

func (s *Server) handleChartsRecentPixels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	today := s.charts.Today()
	days := app.ClampChartDays(intQuery(r, "days", 90))

	pixels, err := s.charts.RecentPixels(r.Context(), user.ID, days, today)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"days":  days,
		"today": dayString(today),
		"items": pixels,
	})
}

func (s *Server) handleChartsWeek(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	today := s.charts.Today()
	pixels, err := s.charts.Week(r.Context(), user.ID, today)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"today": dayString(today),
		"items": pixels,
	})
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	st, err := s.charts.Streak(r.Context(), user.ID, boolQuery(r, "flexible"), s.charts.Today())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	f, available, err := s.charts.Forecast(r.Context(), user.ID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if !available {
		writeJSON(w, http.StatusOK, map[string]any{"available": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"available": true, "forecast": f})
}
