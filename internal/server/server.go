// Package server hosts the classfund HTTP surface and lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	campaignservice "github.com/classfund/classfund/internal/campaign/service"
	"github.com/classfund/classfund/internal/contribution"
	"github.com/classfund/classfund/internal/faculty"
	"github.com/classfund/classfund/internal/hierarchy"
	"github.com/classfund/classfund/internal/platform/timeouts"
	"github.com/classfund/classfund/internal/server/adminauth"
	"github.com/classfund/classfund/internal/server/httpx"
)

// Config defines startup inputs for the HTTP service.
type Config struct {
	HTTPAddr      string
	Hierarchy     *hierarchy.Service
	Faculty       *faculty.Service
	Campaigns     *campaignservice.Service
	Contributions *contribution.Service
	AdminAuth     adminauth.Config
}

// Server hosts the HTTP surface and lifecycle.
type Server struct {
	httpAddr   string
	httpServer *http.Server
}

// handlers bundles the services the HTTP handlers call.
type handlers struct {
	hierarchy     *hierarchy.Service
	faculty       *faculty.Service
	campaigns     *campaignservice.Service
	contributions *contribution.Service
}

// NewHandler builds the root handler: the auth-gated admin API, the
// public contribution funnel, and the read-only nested API.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.Hierarchy == nil {
		return nil, errors.New("hierarchy service is required")
	}
	if cfg.Faculty == nil {
		return nil, errors.New("faculty service is required")
	}
	if cfg.Campaigns == nil {
		return nil, errors.New("campaign service is required")
	}
	if cfg.Contributions == nil {
		return nil, errors.New("contribution service is required")
	}

	h := &handlers{
		hierarchy:     cfg.Hierarchy,
		faculty:       cfg.Faculty,
		campaigns:     cfg.Campaigns,
		contributions: cfg.Contributions,
	}

	rootMux := http.NewServeMux()
	rootMux.Handle("/admin/", adminauth.Middleware(cfg.AdminAuth)(h.adminRoutes()))
	h.publicRoutes(rootMux)

	return httpx.Chain(rootMux,
		httpx.RecoverPanic(),
		httpx.RequestID(),
		httpx.RequestLogger(log.Default()),
	), nil
}

func (h *handlers) adminRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /admin/states", h.listStates)
	mux.HandleFunc("POST /admin/states", h.createState)
	mux.HandleFunc("GET /admin/states/{id}", h.getState)
	mux.HandleFunc("PUT /admin/states/{id}", h.updateState)
	mux.HandleFunc("DELETE /admin/states/{id}", h.deleteState)

	mux.HandleFunc("GET /admin/districts", h.listDistricts)
	mux.HandleFunc("POST /admin/districts", h.createDistrict)
	mux.HandleFunc("GET /admin/districts/{id}", h.getDistrict)
	mux.HandleFunc("PUT /admin/districts/{id}", h.updateDistrict)
	mux.HandleFunc("DELETE /admin/districts/{id}", h.deleteDistrict)

	mux.HandleFunc("GET /admin/schools", h.listSchools)
	mux.HandleFunc("POST /admin/schools", h.createSchool)
	mux.HandleFunc("GET /admin/schools/{id}", h.getSchool)
	mux.HandleFunc("PUT /admin/schools/{id}", h.updateSchool)
	mux.HandleFunc("DELETE /admin/schools/{id}", h.deleteSchool)

	mux.HandleFunc("GET /admin/teachers", h.listTeachers)
	mux.HandleFunc("POST /admin/teachers", h.createTeacher)
	mux.HandleFunc("GET /admin/teachers/{id}", h.getTeacher)
	mux.HandleFunc("PUT /admin/teachers/{id}", h.updateTeacher)
	mux.HandleFunc("DELETE /admin/teachers/{id}", h.deleteTeacher)

	mux.HandleFunc("GET /admin/campaigns", h.listCampaigns)
	mux.HandleFunc("POST /admin/campaigns", h.createCampaign)
	mux.HandleFunc("POST /admin/campaigns/validate", h.validateCampaign)
	mux.HandleFunc("GET /admin/campaigns/{id}", h.getCampaign)
	mux.HandleFunc("PATCH /admin/campaigns/{id}", h.updateCampaign)
	mux.HandleFunc("DELETE /admin/campaigns/{id}", h.destroyCampaign)

	return mux
}

func (h *handlers) publicRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.healthz)

	mux.HandleFunc("GET /c/{slug}", h.campaignLanding)
	mux.HandleFunc("POST /c/{slug}/contributions", h.recordContribution)

	mux.HandleFunc("GET /api/v1/districts", h.apiListDistricts)
	mux.HandleFunc("GET /api/v1/districts/{district_id}/schools", h.apiListSchools)
	mux.HandleFunc("GET /api/v1/districts/{district_id}/schools/{school_id}/campaigns", h.apiListCampaigns)
}

func (h *handlers) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NewServer validates config and constructs the HTTP server.
func NewServer(cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, fmt.Errorf("compose handler: %w", err)
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
	}, nil
}

// ListenAndServe serves HTTP traffic until context cancellation or
// server stop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	log.Printf("server listening at %s", s.httpAddr)
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil || s.httpServer == nil {
		return
	}
	_ = s.httpServer.Close()
}
