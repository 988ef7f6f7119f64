// Package gateway is the typed HTTP client for the UR Smart REST backend.
// One method per backend endpoint; every response goes through the shared
// checkResponse step that normalizes error bodies and detects expired
// sessions.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ursmart/webapp/internal/app/models"
	"github.com/ursmart/webapp/internal/pkg/apperrors"
)

// bypassHeader is required by the tunnel in front of the backend. It is
// unrelated to application auth.
const bypassHeader = "ngrok-skip-browser-warning"

// AuthAPI groups the unauthenticated endpoints.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (models.TokenResponse, error)
	Register(ctx context.Context, name, email, password string) (models.UserProfile, error)
}

// UserAPI exposes the current-user endpoint.
type UserAPI interface {
	CurrentUser(ctx context.Context, token string) (models.UserProfile, error)
}

// CourseAPI exposes course listing and search.
type CourseAPI interface {
	SearchCourses(ctx context.Context, token, query string) ([]models.Course, error)
	ListCourses(ctx context.Context, token string) ([]models.Course, error)
}

// MaterialAPI exposes material CRUD and file upload.
type MaterialAPI interface {
	CreateMaterial(ctx context.Context, token string, payload models.MaterialPayload) (models.Material, error)
	MaterialsByCourse(ctx context.Context, token string, courseID int64) ([]models.Material, error)
	Material(ctx context.Context, token string, materialID int64) (models.Material, error)
	UpdateMaterial(ctx context.Context, token string, materialID int64, payload models.MaterialPayload) (models.Material, error)
	DeleteMaterial(ctx context.Context, token string, materialID int64) error
	UploadFile(ctx context.Context, token string, materialID int64, filename string, file io.Reader) (models.Material, error)
}

// ChatAPI exposes the course chatbot.
type ChatAPI interface {
	Chat(ctx context.Context, token string, req models.ChatRequest) (models.ChatResponse, error)
}

// Client talks to the backend REST API.
type Client struct {
	baseURL     string
	bypassValue string
	httpClient  *http.Client
	logger      zerolog.Logger

	// onUnauthorized is invoked once per request that comes back 401.
	// Registered at bootstrap, before the client handles any traffic.
	onUnauthorized func()
}

var (
	_ AuthAPI     = (*Client)(nil)
	_ UserAPI     = (*Client)(nil)
	_ CourseAPI   = (*Client)(nil)
	_ MaterialAPI = (*Client)(nil)
	_ ChatAPI     = (*Client)(nil)
)

// NewClient creates a backend client for the given origin.
func NewClient(baseURL, bypassValue string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:     baseURL,
		bypassValue: bypassValue,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

// OnUnauthorized registers the session invalidation callback. This is the
// only cross-cutting behavior of the gateway: any call that sees a 401
// triggers it before failing.
func (c *Client) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

// newRequest builds a request with the headers every backend call carries.
func (c *Client) newRequest(ctx context.Context, method, path, token, contentType string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set(bypassHeader, c.bypassValue)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

// do executes the request and decodes the JSON response body into out when
// out is non-nil.
func (c *Client) do(req *http.Request, op, fallback string, out interface{}) error {
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("op", op).Msg("Backend request failed")
		return fmt.Errorf("%w: %s: %v", apperrors.ErrBackendUnreachable, op, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("op", op).
		Str("requestID", req.Header.Get("X-Request-ID")).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Backend call")

	if err := c.checkResponse(op, fallback, resp); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// checkResponse turns a non-2xx response into an APIError carrying the
// backend's detail string. A 401 additionally fires the registered session
// invalidation callback.
func (c *Client) checkResponse(op, fallback string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	detail := fallback
	var errBody struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil && errBody.Detail != "" {
		detail = errBody.Detail
	}

	apiErr := apperrors.NewAPIError(op, resp.StatusCode, detail)
	if resp.StatusCode == http.StatusUnauthorized {
		apiErr.Err = apperrors.ErrUnauthorized
		if c.onUnauthorized != nil {
			c.logger.Warn().Str("op", op).Msg("Backend rejected the session token, logging out")
			c.onUnauthorized()
		}
	}
	return apiErr
}

// sendJSON marshals payload and issues a JSON POST/PUT.
func (c *Client) sendJSON(ctx context.Context, method, path, token string, payload interface{}, op, fallback string, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: encode payload: %w", op, err)
	}

	req, err := c.newRequest(ctx, method, path, token, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	return c.do(req, op, fallback, out)
}

// getJSON issues an authenticated GET.
func (c *Client) getJSON(ctx context.Context, path, token, op, fallback string, out interface{}) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, token, "", nil)
	if err != nil {
		return err
	}
	return c.do(req, op, fallback, out)
}
