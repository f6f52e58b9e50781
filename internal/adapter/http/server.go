package adapthttp

import (
	"log/slog"
	"net/http"

	"mindspace/internal/app"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// OIDCConfig holds the SSO provider wiring. A zero value disables SSO.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config oauth2.Config
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	journal     *app.JournalService
	charts      *app.ChartsService
	authSvc     *app.AuthService
	oidcConfig  OIDCConfig
	logger      *slog.Logger
	webDir      string
	disableAuth bool
	forwardAuth bool
}

// New creates a Server wired to the given application services.
func New(js *app.JournalService, cs *app.ChartsService, as *app.AuthService, webDir string) *Server {
	return &Server{
		journal: js,
		charts:  cs,
		authSvc: as,
		logger:  slog.Default(),
		webDir:  webDir,
	}
}

// WithOIDC enables SSO login through the given provider.
func (s *Server) WithOIDC(cfg OIDCConfig) *Server {
	s.oidcConfig = cfg
	return s
}

// WithLogger sets the request logger.
func (s *Server) WithLogger(l *slog.Logger) *Server {
	if l != nil {
		s.logger = l
	}
	return s
}

// WithoutAuth disables authentication; every request acts as localUser.
// Only for tests and single-user local runs.
func (s *Server) WithoutAuth() *Server {
	s.disableAuth = true
	return s
}

// WithForwardAuth makes the Remote-User header set by an authenticating
// reverse proxy identify the caller. Enable it only when every request
// passes through that proxy.
func (s *Server) WithForwardAuth(trust bool) *Server {
	s.forwardAuth = trust
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	public := http.NewServeMux()
	public.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	public.HandleFunc("/config", s.handleConfig)
	public.HandleFunc("/moods", s.handleMoods)
	public.HandleFunc("/auth/login", s.handleLogin)
	public.HandleFunc("/auth/logout", s.handleLogout)
	public.HandleFunc("/auth/setup", s.handleSetupUser)
	public.HandleFunc("/auth/sso/login", s.handleSSOLogin)
	public.HandleFunc("/auth/sso/callback", s.handleSSOCallback)

	private := http.NewServeMux()
	private.HandleFunc("/entries", s.handleEntries)
	private.HandleFunc("/entries/undo-last", s.handleEntryUndoLast)
	private.HandleFunc("/entries/{id}", s.handleEntry)

	private.HandleFunc("/charts/mood", s.handleChartsMood)
	private.HandleFunc("/charts/pixels", s.handleChartsPixels)
	private.HandleFunc("/charts/recent-pixels", s.handleChartsRecentPixels)
	private.HandleFunc("/charts/week", s.handleChartsWeek)
	private.HandleFunc("/streak", s.handleStreak)
	private.HandleFunc("/forecast", s.handleForecast)

	public.Handle("/", s.authMiddleware(private))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", public))
	root.Handle("/", spaFromDisk(s.webDir))

	return s.loggingMiddleware(withNoCache(root))
}
