package app

import (
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/klabast/wb-services/study-diary/internal/auth"
	"github.com/klabast/wb-services/study-diary/internal/diary"
)

// Server wires the diary, the login gateway and the sessions to HTTP
type Server struct {
	cfg      *Config
	diary    *diary.Diary
	gateway  auth.Gateway
	sessions *auth.Sessions
	views    *Views
	logger   *log.Logger
	now      func() time.Time

	// Embedded files (set by main)
	IndexHTML   []byte
	StaticFiles fs.FS
}

// NewServer returns a server; the gateway is initialized here
func NewServer(cfg *Config, d *diary.Diary, gateway auth.Gateway, sessions *auth.Sessions, logger *log.Logger) (*Server, error) {
	if err := gateway.EnsureInitialized(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		cfg:      cfg,
		diary:    d,
		gateway:  gateway,
		sessions: sessions,
		views:    NewViews(sessions.Lifetime()),
		logger:   logger,
		now:      time.Now,
	}, nil
}

// NewGateway picks Kakao when a key is configured, the dev gateway otherwise
func NewGateway(cfg *Config, logger *log.Logger) auth.Gateway {
	if cfg.DevMode() {
		return &auth.DevGateway{Nickname: cfg.DevNickname, CallbackURL: "/auth/callback", Logger: logger}
	}
	return &auth.Kakao{
		AppKey:       cfg.KakaoRESTKey,
		ClientSecret: cfg.KakaoClientSecret,
		RedirectURL:  cfg.KakaoRedirectURL,
	}
}

// Routes returns the HTTP handler
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware(s.logger))

	r.HandleFunc("/", s.ServeIndex).Methods(http.MethodGet)
	if s.StaticFiles != nil {
		r.PathPrefix("/static/").Handler(http.FileServer(http.FS(s.StaticFiles)))
	}

	// Login flow
	r.HandleFunc("/auth/login", s.HandleLogin).Methods(http.MethodGet)
	r.HandleFunc("/auth/callback", s.HandleCallback).Methods(http.MethodGet)
	r.HandleFunc("/auth/logout", s.HandleLogout).Methods(http.MethodPost)

	// Session routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.RequireSession)
	api.HandleFunc("/me", s.GetMe).Methods(http.MethodGet)
	api.HandleFunc("/calendar", s.GetCalendar).Methods(http.MethodGet)
	api.HandleFunc("/calendar/previous", s.PreviousMonth).Methods(http.MethodPost)
	api.HandleFunc("/calendar/next", s.NextMonth).Methods(http.MethodPost)
	api.HandleFunc("/calendar/today", s.CurrentMonth).Methods(http.MethodPost)
	api.HandleFunc("/calendar/select", s.SelectDate).Methods(http.MethodPost)
	api.HandleFunc("/progress/toggle", s.TogglePeriod).Methods(http.MethodPost)
	api.HandleFunc("/stats", s.GetStats).Methods(http.MethodGet)
	api.HandleFunc("/export", s.HandleExport).Methods(http.MethodGet)

	return r
}
