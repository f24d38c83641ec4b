// Package handlers contains the JSON API handlers split by domain.
package handlers

import (
	"context"
	"net/http"
	"sync"

	"github.com/labstack/echo/v5"

	"github.com/onboardops/onboardops/internal/config"
	"github.com/onboardops/onboardops/internal/dataset"
	"github.com/onboardops/onboardops/internal/directory"
)

// DirectoryLister is the slice of the directory client the handlers need.
type DirectoryLister interface {
	ListUsers(ctx context.Context, opts directory.ListOptions) ([]directory.User, error)
	ListTeams(ctx context.Context, opts directory.ListOptions) ([]directory.Team, error)
	ListServices(ctx context.Context, opts directory.ListOptions) ([]directory.Service, error)
}

// Handlers groups all HTTP handlers and shared dependencies. The mutex
// serializes access to the dataset: the engine is single-threaded by contract
// and concurrent load/save triggers are the caller's job to prevent.
type Handlers struct {
	Cfg       config.Config
	Directory DirectoryLister
	Dataset   *dataset.Dataset

	mu sync.Mutex
}

type errorResponse struct {
	Error string `json:"error"`
}

func jsonError(c *echo.Context, code int, msg string) error {
	return c.JSON(code, errorResponse{Error: msg})
}

// HandleHealthz reports liveness.
func (h *Handlers) HandleHealthz(c *echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
