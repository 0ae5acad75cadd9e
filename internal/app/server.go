package app

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/klabast/wb-services/trash-calendar/internal/holidays"
	"github.com/klabast/wb-services/trash-calendar/internal/schedule"
)

// Assets are the embedded front-end files
type Assets struct {
	IndexHTML []byte
	Static    fs.FS
}

// Server wires the street schedule and holiday tables into HTTP handlers
type Server struct {
	cfg      Config
	streets  *StreetStore
	holidays *holidays.Provider
	engine   *schedule.Engine
	auth     *Auth
	assets   Assets
	loc      *time.Location
	now      func() time.Time
}

// NewServer creates a server. auth may be nil outside edit mode.
func NewServer(cfg Config, streets *StreetStore, provider *holidays.Provider, auth *Auth, assets Assets) *Server {
	return &Server{
		cfg:      cfg,
		streets:  streets,
		holidays: provider,
		engine:   schedule.NewEngine(provider),
		auth:     auth,
		assets:   assets,
		loc:      cfg.Location(),
		now:      time.Now,
	}
}

// today returns the current civil date in the town's timezone
func (s *Server) today() time.Time {
	now := s.now().In(s.loc)
	return schedule.Date(now.Year(), now.Month(), now.Day())
}

// Routes registers all endpoints on a new router
func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", s.ServeIndex).Methods(http.MethodGet)
	r.HandleFunc("/api/config", s.GetConfig).Methods(http.MethodGet)
	r.HandleFunc("/api/streets", s.ListStreets).Methods(http.MethodGet)
	r.HandleFunc("/api/schedule", s.GetSchedule).Methods(http.MethodGet)
	r.HandleFunc("/api/calendar/{month:[0-9]+}", s.GetMonth).Methods(http.MethodGet)
	r.HandleFunc("/api/events", s.GetEvents).Methods(http.MethodGet)
	r.HandleFunc("/api/download", s.HandleDownload).Methods(http.MethodGet)
	r.HandleFunc("/api/print", s.HandlePrint).Methods(http.MethodGet)
	r.HandleFunc("/api/subscribe/{street}", s.HandleSubscribe).Methods(http.MethodGet)

	// Edit mode routes (protected with Basic Auth)
	if s.cfg.EditMode {
		r.HandleFunc("/api/streets/add", s.auth.Require(s.AddStreet)).Methods(http.MethodPost)
		r.HandleFunc("/api/streets/delete", s.auth.Require(s.DeleteStreet)).Methods(http.MethodPost)
		r.HandleFunc("/api/streets/commit", s.auth.Require(s.HandleStreetsCommit)).Methods(http.MethodPost)
		r.HandleFunc("/api/streets/revert", s.auth.Require(s.HandleStreetsRevert)).Methods(http.MethodPost)
		r.HandleFunc("/api/streets/status", s.auth.Require(s.HandleStreetsStatus)).Methods(http.MethodGet)
	}

	if s.assets.Static != nil {
		r.PathPrefix("/static/").Handler(http.FileServer(http.FS(s.assets.Static)))
	}

	return r
}
