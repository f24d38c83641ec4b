package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/onboardops/onboardops/internal/metrics"
)

const (
	defaultTimeout   = 120 * time.Second
	maxRetriesOn429  = 3
	maxErrorBodySize = 1 << 20 // 1 MiB
)

// Client speaks the incident-management directory REST API.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// ListOptions carries opaque passthrough filters for list endpoints. Values
// are forwarded to the transport unmodified; the client never interprets them.
type ListOptions struct {
	Query   string
	TeamIDs []string
	SortBy  string
}

func (o ListOptions) apply(q url.Values) {
	if v := strings.TrimSpace(o.Query); v != "" {
		q.Set("query", v)
	}
	for _, id := range o.TeamIDs {
		if id = strings.TrimSpace(id); id != "" {
			q.Add("team_ids[]", id)
		}
	}
	if v := strings.TrimSpace(o.SortBy); v != "" {
		q.Set("sort_by", v)
	}
}

// New creates a new directory client. It validates that baseURL and token are provided.
func New(baseURL, token string) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	token = strings.TrimSpace(token)

	if base == "" {
		return nil, errors.New("directory base URL is required")
	}
	if token == "" {
		return nil, errors.New("directory api token is required")
	}

	return &Client{
		BaseURL: base,
		Token:   token,
		HTTP:    &http.Client{Timeout: defaultTimeout},
	}, nil
}

func (c *Client) ensureClient() error {
	if c.BaseURL == "" {
		return errors.New("directory base URL is required")
	}
	if c.Token == "" {
		return errors.New("directory api token is required")
	}
	if c.HTTP == nil {
		return errors.New("directory http client is not configured")
	}
	return nil
}

// ListUsers returns every user in the directory, in server order.
func (c *Client) ListUsers(ctx context.Context, opts ListOptions) ([]User, error) {
	if err := c.ensureClient(); err != nil {
		return nil, err
	}
	return FetchAll(ctx, "users", func(ctx context.Context, limit, offset int) (Page[User], error) {
		var payload struct {
			Users  []User `json:"users"`
			More   bool   `json:"more"`
			Offset int    `json:"offset"`
			Limit  int    `json:"limit"`
		}
		if err := c.getPage(ctx, "/users", "users", limit, offset, opts, &payload); err != nil {
			return Page[User]{}, err
		}
		return Page[User]{Items: payload.Users, More: payload.More, Offset: payload.Offset, Limit: payload.Limit}, nil
	})
}

// ListTeams returns every team in the directory, in server order.
func (c *Client) ListTeams(ctx context.Context, opts ListOptions) ([]Team, error) {
	if err := c.ensureClient(); err != nil {
		return nil, err
	}
	return FetchAll(ctx, "teams", func(ctx context.Context, limit, offset int) (Page[Team], error) {
		var payload struct {
			Teams  []Team `json:"teams"`
			More   bool   `json:"more"`
			Offset int    `json:"offset"`
			Limit  int    `json:"limit"`
		}
		if err := c.getPage(ctx, "/teams", "teams", limit, offset, opts, &payload); err != nil {
			return Page[Team]{}, err
		}
		return Page[Team]{Items: payload.Teams, More: payload.More, Offset: payload.Offset, Limit: payload.Limit}, nil
	})
}

// ListServices returns every service in the directory, in server order.
func (c *Client) ListServices(ctx context.Context, opts ListOptions) ([]Service, error) {
	if err := c.ensureClient(); err != nil {
		return nil, err
	}
	return FetchAll(ctx, "services", func(ctx context.Context, limit, offset int) (Page[Service], error) {
		var payload struct {
			Services []Service `json:"services"`
			More     bool      `json:"more"`
			Offset   int       `json:"offset"`
			Limit    int       `json:"limit"`
		}
		if err := c.getPage(ctx, "/services", "services", limit, offset, opts, &payload); err != nil {
			return Page[Service]{}, err
		}
		return Page[Service]{Items: payload.Services, More: payload.More, Offset: payload.Offset, Limit: payload.Limit}, nil
	})
}

func (c *Client) getPage(ctx context.Context, path, resource string, limit, offset int, opts ListOptions, payload any) error {
	endpoint, err := c.endpoint(path, limit, offset, opts)
	if err != nil {
		return err
	}
	metrics.DirectoryPagesTotal.WithLabelValues(resource).Inc()
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, payload)
}

func (c *Client) endpoint(path string, limit, offset int, opts ListOptions) (string, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", err
	}
	u.Path = strings.TrimRight(u.Path, "/") + path
	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	opts.apply(q)
	u.RawQuery = q.Encode()
	u.Fragment = ""
	return u.String(), nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetriesOn429; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Token token="+c.Token)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "onboardops")

		resp, err := c.HTTP.Do(req)
		if err != nil {
			return nil, err
		}
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		resp.Body.Close()
		if readErr != nil {
			return nil, readErr
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = formatAPIError("directory api rate limited", endpoint, resp, body)
			if attempt == maxRetriesOn429 {
				return nil, lastErr
			}
			wait, ok := retryAfterDuration(resp.Header.Get("Retry-After"))
			if !ok {
				wait = time.Second
			}
			if err := sleep(ctx, wait); err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, formatAPIError("directory api failed", endpoint, resp, body)
		}
		return body, nil
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, errors.New("directory request failed")
}

func retryAfterDuration(header string) (time.Duration, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(header)
	if err != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func formatAPIError(prefix, reqURL string, resp *http.Response, body []byte) error {
	message := extractAPIErrorMessage(body)
	details := safeURL(reqURL)
	if v := strings.TrimSpace(resp.Header.Get("Retry-After")); v != "" {
		details += ", retry_after=" + v
	}

	if message != "" {
		return fmt.Errorf("%s: %s: %s (url=%s)", prefix, resp.Status, message, details)
	}
	return fmt.Errorf("%s: %s (url=%s)", prefix, resp.Status, details)
}

func extractAPIErrorMessage(body []byte) string {
	var payload struct {
		Error struct {
			Message string   `json:"message"`
			Errors  []string `json:"errors"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg := strings.TrimSpace(payload.Error.Message); msg != "" {
			return msg
		}
		if len(payload.Error.Errors) > 0 {
			if first := strings.TrimSpace(payload.Error.Errors[0]); first != "" {
				return first
			}
		}
		if msg := strings.TrimSpace(payload.Message); msg != "" {
			return msg
		}
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" || strings.HasPrefix(msg, "<!DOCTYPE html") || strings.HasPrefix(msg, "<html") {
		return ""
	}
	msg = strings.Join(strings.Fields(msg), " ")
	const maxLen = 300
	if len(msg) > maxLen {
		msg = msg[:maxLen] + "…"
	}
	return msg
}

func safeURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if u.RawQuery != "" {
		return u.Scheme + "://" + u.Host + u.Path + "?" + u.RawQuery
	}
	return u.Scheme + "://" + u.Host + u.Path
}
