package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/lnkday/page-engine/internal/analytics"
	"github.com/lnkday/page-engine/internal/experiment"
	"github.com/lnkday/page-engine/internal/seo"
	"github.com/lnkday/page-engine/internal/store"
)

type Server struct {
	store     store.Store
	manager   *experiment.Manager
	selector  *experiment.Selector
	recorder  analytics.Recorder
	head      seo.HeadProvider
	port      int
	router    *http.ServeMux
	startTime time.Time
}

func New(s store.Store, recorder analytics.Recorder, head seo.HeadProvider, port int) *Server {
	srv := &Server{
		store:     s,
		manager:   experiment.NewManager(s),
		selector:  experiment.NewSelector(),
		recorder:  recorder,
		head:      head,
		port:      port,
		router:    http.NewServeMux(),
		startTime: time.Now(),
	}

	srv.setupRoutes()
	return srv
}

func (s *Server) setupRoutes() {
	// Visitor-facing endpoints
	s.router.HandleFunc("GET /p/{slug}", s.handleRender)
	s.router.HandleFunc("/b", s.handleBeacon)
	s.router.HandleFunc("GET /health", s.handleHealth)

	// Administrative API
	s.router.HandleFunc("GET /api/pages/{slug}", s.handleGetPage)
	s.router.HandleFunc("PUT /api/pages/{slug}/experiment", s.handleConfigureExperiment)
	s.router.HandleFunc("POST /api/pages/{slug}/winner", s.handleDeclareWinner)
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)

	fmt.Println()
	fmt.Printf("page-engine running on http://localhost:%d\n", s.port)
	fmt.Printf("Pages served at http://localhost:%d/p/<slug>\n", s.port)
	fmt.Println()
	fmt.Println("Press Ctrl+C to stop")

	return http.ListenAndServe(addr, s.router)
}

func (s *Server) Store() store.Store {
	return s.store
}

func (s *Server) StartTime() time.Time {
	return s.startTime
}

func (s *Server) Handler() http.Handler {
	return s.router
}
