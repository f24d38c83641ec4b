// Package httpapp wires the echo server for the onboarding JSON API.
package httpapp

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/onboardops/onboardops/internal/config"
	"github.com/onboardops/onboardops/internal/dataset"
	"github.com/onboardops/onboardops/internal/http/handlers"
)

// EchoServer is the HTTP server wrapper.
type EchoServer struct {
	h   *handlers.Handlers
	e   *echo.Echo
	srv *http.Server
}

// NewEchoServer creates a new HTTP server.
func NewEchoServer(cfg config.Config, dir handlers.DirectoryLister, ds *dataset.Dataset) (*EchoServer, error) {
	h := &handlers.Handlers{Cfg: cfg, Directory: dir, Dataset: ds}
	es := &EchoServer{h: h, e: echo.New()}
	es.registerRoutes()
	return es, nil
}

func (es *EchoServer) registerRoutes() {
	es.e.GET("/healthz", es.h.HandleHealthz)

	api := es.e.Group("/api")
	api.GET("/directory/users", es.h.HandleDirectoryUsers)
	api.GET("/directory/teams", es.h.HandleDirectoryTeams)
	api.GET("/directory/services", es.h.HandleDirectoryServices)

	api.POST("/dataset/load", es.h.HandleDatasetLoad)
	api.GET("/dataset/export", es.h.HandleDatasetExport)
	api.GET("/dataset/rows", es.h.HandleDatasetRows)
	api.POST("/dataset/rows", es.h.HandleDatasetAddRow)
	api.PATCH("/dataset/rows/:id", es.h.HandleDatasetUpdateCell)
	api.DELETE("/dataset/rows/:id", es.h.HandleDatasetDeleteRow)
	api.POST("/dataset/rows/:id/duplicate", es.h.HandleDatasetDuplicateRow)
	api.POST("/dataset/reset", es.h.HandleDatasetReset)
	api.GET("/dataset/progress", es.h.HandleDatasetProgress)
	api.GET("/dataset/validation", es.h.HandleDatasetValidation)
	api.GET("/dataset/status", es.h.HandleDatasetStatus)
}

// Handler exposes the routed handler, mainly for tests.
func (es *EchoServer) Handler() http.Handler {
	return es.e
}

// StartServer starts the HTTP server with a custom http.Server.
func (es *EchoServer) StartServer(server *http.Server) error {
	server.Handler = es.e
	es.srv = server
	return server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (es *EchoServer) Shutdown(ctx context.Context) error {
	if es.srv == nil {
		return nil
	}
	return es.srv.Shutdown(ctx)
}
