package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gregjones/httpcache"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/hrroster/internal/command"
)

// Config holds common client configuration
type Config struct {
	ServerURL string
	Timeout   time.Duration
	CacheDir  string
	Debug     bool

	// Transport overrides the underlying round tripper, mainly for tests.
	Transport http.RoundTripper
}

// DefaultConfig returns a default client configuration
func DefaultConfig() Config {
	return Config{
		ServerURL: "http://localhost:8080",
		Timeout:   30 * time.Second,
	}
}

// StatusError is returned for any non-2xx response. Result holds the decoded body when there was one.
type StatusError struct {
	StatusCode int
	Result     *command.Result
}

func (e *StatusError) Error() string {
	if msg := e.Result.Message(); msg != "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

// Client talks to the roster HTTP API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	debug   bool
}

// New creates a client whose GET requests go through an HTTP cache.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(cfg.ServerURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid server url %q", cfg.ServerURL)
	}

	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: newCachingTransport(cfg.CacheDir, transport),
		},
		debug: cfg.Debug,
	}, nil
}

// Health checks the server is up.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/health", nil, nil)
	return err
}

// CreateOrganization creates an organization. The result carries "id" and "clientId".
func (c *Client) CreateOrganization(ctx context.Context, name string) (*command.Result, error) {
	return c.do(ctx, http.MethodPost, "/organizations", nil, map[string]string{"name": name})
}

// Organization fetches the organization summary for a client id.
func (c *Client) Organization(ctx context.Context, cid string) (*command.Result, error) {
	return c.do(ctx, http.MethodGet, "/organization", url.Values{"cid": {cid}}, nil)
}

// RenameOrganization changes an organization's name.
func (c *Client) RenameOrganization(ctx context.Context, cid, name string) (*command.Result, error) {
	return c.do(ctx, http.MethodPatch, "/organization", url.Values{"cid": {cid}}, map[string]string{"name": name})
}

// Department fetches a department with its employees.
func (c *Client) Department(ctx context.Context, cid string, departmentID int64) (*command.Result, error) {
	params := url.Values{"cid": {cid}, "departmentId": {strconv.FormatInt(departmentID, 10)}}
	return c.do(ctx, http.MethodGet, "/department", params, nil)
}

// DepartmentStats fetches one of the "budget", "performance" or "positions" statistics.
func (c *Client) DepartmentStats(ctx context.Context, cid string, departmentID int64, kind string) (*command.Result, error) {
	params := url.Values{"cid": {cid}, "departmentId": {strconv.FormatInt(departmentID, 10)}}
	return c.do(ctx, http.MethodGet, "/department/stats/"+url.PathEscape(kind), params, nil)
}

// Employee fetches a single employee.
func (c *Client) Employee(ctx context.Context, cid string, employeeID int64) (*command.Result, error) {
	params := url.Values{"cid": {cid}, "employeeId": {strconv.FormatInt(employeeID, 10)}}
	return c.do(ctx, http.MethodGet, "/employee", params, nil)
}

// Shifts lists the roster. Without filters the result holds "schedule" and "availableSlots".
func (c *Client) Shifts(ctx context.Context, cid string, day *int, employeeID *int64) (*command.Result, error) {
	params := url.Values{"cid": {cid}}
	if day != nil {
		params.Set("dayOfWeek", strconv.Itoa(*day))
	}
	if employeeID != nil {
		params.Set("employeeId", strconv.FormatInt(*employeeID, 10))
	}
	return c.do(ctx, http.MethodGet, "/shift", params, nil)
}

// AddShift books an employee into a (day, slot) pair.
func (c *Client) AddShift(ctx context.Context, cid string, employeeID int64, day, slot int) (*command.Result, error) {
	return c.do(ctx, http.MethodPost, "/shift", shiftParams(cid, employeeID, day, slot), nil)
}

// RemoveShift frees a (day, slot) pair.
func (c *Client) RemoveShift(ctx context.Context, cid string, employeeID int64, day, slot int) (*command.Result, error) {
	return c.do(ctx, http.MethodDelete, "/shift", shiftParams(cid, employeeID, day, slot), nil)
}

func shiftParams(cid string, employeeID int64, day, slot int) url.Values {
	return url.Values{
		"cid":        {cid},
		"employeeId": {strconv.FormatInt(employeeID, 10)},
		"dayOfWeek":  {strconv.Itoa(day)},
		"timeSlot":   {strconv.Itoa(slot)},
	}
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body any) (*command.Result, error) {
	target := c.baseURL.JoinPath(path)
	target.RawQuery = params.Encode()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if c.debug {
		log.Debug().
			Str("method", method).
			Str("url", target.String()).
			Int("status", resp.StatusCode).
			Bool("cached", resp.Header.Get(httpcache.XFromCache) != "").
			Msg("API request")
	}

	var res command.Result
	err = json.NewDecoder(resp.Body).Decode(&res)
	// httpcache stores a response once its body has been read to EOF
	_, _ = io.Copy(io.Discard, resp.Body)
	if err != nil {
		if resp.StatusCode >= 300 {
			return nil, &StatusError{StatusCode: resp.StatusCode}
		}
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return &res, &StatusError{StatusCode: resp.StatusCode, Result: &res}
	}

	return &res, nil
}
