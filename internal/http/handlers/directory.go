package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/onboardops/onboardops/internal/directory"
	"github.com/onboardops/onboardops/internal/metrics"
)

func listOptionsFromQuery(c *echo.Context) directory.ListOptions {
	q := c.Request().URL.Query()
	return directory.ListOptions{
		Query:   c.QueryParam("query"),
		TeamIDs: q["team_ids[]"],
		SortBy:  c.QueryParam("sort_by"),
	}
}

// HandleDirectoryUsers returns every directory user.
func (h *Handlers) HandleDirectoryUsers(c *echo.Context) error {
	users, err := fetchResource(c, "users", h.Directory.ListUsers)
	if err != nil {
		return jsonError(c, http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{"users": users})
}

// HandleDirectoryTeams returns every directory team.
func (h *Handlers) HandleDirectoryTeams(c *echo.Context) error {
	teams, err := fetchResource(c, "teams", h.Directory.ListTeams)
	if err != nil {
		return jsonError(c, http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{"teams": teams})
}

// HandleDirectoryServices returns every directory service.
func (h *Handlers) HandleDirectoryServices(c *echo.Context) error {
	services, err := fetchResource(c, "services", h.Directory.ListServices)
	if err != nil {
		return jsonError(c, http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{"services": services})
}

func fetchResource[T any](c *echo.Context, resource string, list func(ctx context.Context, opts directory.ListOptions) ([]T, error)) ([]T, error) {
	start := time.Now()
	items, err := list(c.Request().Context(), listOptionsFromQuery(c))
	metrics.DirectoryFetchDuration.WithLabelValues(resource).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DirectoryFetchesTotal.WithLabelValues(resource, "error").Inc()
		return nil, err
	}
	metrics.DirectoryFetchesTotal.WithLabelValues(resource, "ok").Inc()
	return items, nil
}
