package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lingoplay/internal/metrics"
	"lingoplay/internal/models"
)

const (
	// RefreshPath is the endpoint that trades the refresh cookie for a new access token
	RefreshPath = "/auth/refresh-token"
	// RefreshCookieName carries the refresh credential
	RefreshCookieName = "refreshToken"

	maxResponseBytes = 10 << 20
)

// Request describes one call to the REST backend
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{} // encoded as JSON
	File   *File       // encoded as multipart/form-data
	Public bool        // no bearer header and no refresh-and-retry
}

// File is an upload sent as multipart form data
type File struct {
	Field   string
	Name    string
	Content io.Reader
	Fields  map[string]string
}

// Response carries the envelope metadata of a successful call
type Response struct {
	Status     int
	Message    string
	Pagination *models.Pagination
	Cookies    []*http.Cookie
}

// Cookie returns the named response cookie value
func (r *Response) Cookie(name string) string {
	for _, c := range r.Cookies {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

type envelope struct {
	Success    *bool              `json:"success"`
	Message    string             `json:"message"`
	Data       json.RawMessage    `json:"data"`
	Pagination *models.Pagination `json:"pagination"`
}

// Client wraps outbound calls to the REST backend
type Client struct {
	baseURL string
	http    *http.Client
	Debug   bool
}

// New creates a client for baseURL
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Do sends req and decodes the envelope's data into out (when non-nil).
//
// The bearer token comes from the TokenStore bound to ctx. A 403 on a
// non-public request triggers exactly one refresh call and one replay; a 403
// on the replay is returned as an *APIError. If the refresh fails the access
// token is cleared and ErrSessionExpired is returned.
func (c *Client) Do(ctx context.Context, req Request, out interface{}) (*Response, error) {
	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	var tokens TokenStore
	if !req.Public {
		tokens = TokensFrom(ctx)
	}

	resp, err := c.send(ctx, req, body, contentType, tokens)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusForbidden && tokens != nil {
		drain(resp)
		if err := c.refresh(ctx, tokens); err != nil {
			log.Printf("Token refresh failed for %s %s: %v", req.Method, req.Path, err)
			if clearErr := tokens.ClearAccessToken(); clearErr != nil {
				log.Printf("Error clearing access token: %v", clearErr)
			}
			return nil, fmt.Errorf("%w: %v", ErrSessionExpired, err)
		}

		resp, err = c.send(ctx, req, body, contentType, tokens)
		if err != nil {
			return nil, err
		}
	}

	return c.decode(resp, out)
}

func (c *Client) send(ctx context.Context, req Request, body []byte, contentType string, tokens TokenStore) (*http.Response, error) {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if tokens != nil {
		if token := tokens.AccessToken(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	metrics.APIRequestDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.APIRequests.WithLabelValues(req.Method, "error").Inc()
		return nil, fmt.Errorf("request %s %s failed: %w", req.Method, req.Path, err)
	}
	metrics.APIRequests.WithLabelValues(req.Method, strconv.Itoa(resp.StatusCode)).Inc()

	if c.Debug {
		log.Printf("[DEBUG] %s %s -> %d (%s)", req.Method, req.Path, resp.StatusCode, time.Since(start))
	}
	return resp, nil
}

// refresh exchanges the refresh cookie for a new access token and stores it
func (c *Client) refresh(ctx context.Context, tokens TokenStore) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+RefreshPath, nil)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Accept", "application/json")
	if refresh := tokens.RefreshToken(); refresh != "" {
		httpReq.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: refresh})
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		metrics.TokenRefreshes.WithLabelValues("failure").Inc()
		return err
	}

	var payload struct {
		AccessToken string `json:"accessToken"`
	}
	result, err := c.decode(resp, &payload)
	if err == nil && payload.AccessToken == "" {
		err = errors.New("refresh response carried no access token")
	}
	if err != nil {
		metrics.TokenRefreshes.WithLabelValues("failure").Inc()
		return err
	}

	if err := tokens.SetAccessToken(payload.AccessToken); err != nil {
		return fmt.Errorf("failed to store access token: %w", err)
	}
	if rotated := result.Cookie(RefreshCookieName); rotated != "" {
		if err := tokens.SetRefreshToken(rotated); err != nil {
			return fmt.Errorf("failed to store refresh token: %w", err)
		}
	}

	metrics.TokenRefreshes.WithLabelValues("success").Inc()
	return nil
}

func (c *Client) decode(resp *http.Response, out interface{}) (*Response, error) {
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	parsed := len(bytes.TrimSpace(raw)) > 0 && json.Unmarshal(raw, &env) == nil

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if ok && env.Success != nil && !*env.Success {
		ok = false
	}
	if !ok {
		message := env.Message
		if !parsed || message == "" {
			message = GenericMessage
		}
		return nil, &APIError{Status: resp.StatusCode, Message: message}
	}

	result := &Response{
		Status:     resp.StatusCode,
		Message:    env.Message,
		Pagination: env.Pagination,
		Cookies:    resp.Cookies(),
	}

	if out == nil || !parsed {
		return result, nil
	}

	data := []byte(env.Data)
	if len(data) == 0 {
		// Endpoints that skip the envelope return the payload directly
		data = raw
	}
	if string(data) == "null" {
		return result, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return result, nil
}

func encodeBody(req Request) ([]byte, string, error) {
	switch {
	case req.File != nil:
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		for key, value := range req.File.Fields {
			if err := writer.WriteField(key, value); err != nil {
				return nil, "", err
			}
		}
		part, err := writer.CreateFormFile(req.File.Field, req.File.Name)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, req.File.Content); err != nil {
			return nil, "", fmt.Errorf("failed to read upload: %w", err)
		}
		if err := writer.Close(); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), writer.FormDataContentType(), nil
	case req.Body != nil:
		body, err := json.Marshal(req.Body)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode request: %w", err)
		}
		return body, "application/json", nil
	default:
		return nil, "", nil
	}
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
	resp.Body.Close()
}
