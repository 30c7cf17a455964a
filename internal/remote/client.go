// Package remote is the HTTP client for the Fleet Navigator settings backend.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fleetnavigator/internal/models"
)

const (
	VersionPath          = "/api/system/version"
	ShowWelcomeTilesPath = "/api/settings/show-welcome-tiles"
	ShowTopBarPath       = "/api/settings/show-top-bar"
	UIThemePath          = "/api/settings/ui-theme"
	ModelSelectionPath   = "/api/settings/model-selection"
	SelectedModelPath    = "/api/settings/selected-model"
)

var (
	ErrNoBaseURL = errors.New("remote: base url is not set")
	// ErrNullValue is returned when a boolean endpoint answers with JSON null.
	ErrNullValue = errors.New("remote: null value")
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

type Client struct {
	BaseURL string

	httpClient *http.Client
}

// New builds a client for baseURL. A zero timeout leaves requests bounded
// only by the transport and the caller's context.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout < 0 {
		timeout = 0
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CurrentVersion reads the backend's build marker.
func (c *Client) CurrentVersion(ctx context.Context) (string, error) {
	var info models.VersionInfo
	if err := c.getJSON(ctx, VersionPath, &info); err != nil {
		return "", err
	}
	return info.Version, nil
}

func (c *Client) ShowWelcomeTiles(ctx context.Context) (bool, error) {
	return c.getBool(ctx, ShowWelcomeTilesPath)
}

func (c *Client) SetShowWelcomeTiles(ctx context.Context, show bool) error {
	return c.sendJSON(ctx, http.MethodPost, ShowWelcomeTilesPath, show, nil)
}

func (c *Client) ShowTopBar(ctx context.Context) (bool, error) {
	return c.getBool(ctx, ShowTopBarPath)
}

func (c *Client) SetShowTopBar(ctx context.Context, show bool) error {
	return c.sendJSON(ctx, http.MethodPost, ShowTopBarPath, show, nil)
}

// UITheme accepts plain or JSON-quoted text and falls back to
// models.DefaultUITheme when the body is blank.
func (c *Client) UITheme(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodGet, UIThemePath, "", nil)
	if err != nil {
		return "", err
	}
	return CleanTheme(string(body)), nil
}

func (c *Client) SetUITheme(ctx context.Context, theme string) error {
	_, err := c.do(ctx, http.MethodPost, UIThemePath, "text/plain", strings.NewReader(theme))
	return err
}

func (c *Client) ModelSelection(ctx context.Context) (*models.ModelSelectionSettings, error) {
	var out models.ModelSelectionSettings
	if err := c.getJSON(ctx, ModelSelectionPath, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateModelSelection(ctx context.Context, in models.ModelSelectionSettings) (*models.ModelSelectionSettings, error) {
	var out models.ModelSelectionSettings
	if err := c.sendJSON(ctx, http.MethodPut, ModelSelectionPath, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SelectedModel reports ok=false when the backend has nothing stored (204).
func (c *Client) SelectedModel(ctx context.Context) (string, bool, error) {
	body, err := c.do(ctx, http.MethodGet, SelectedModelPath, "", nil)
	if err != nil {
		return "", false, err
	}
	if len(body) == 0 {
		return "", false, nil
	}
	return string(body), true, nil
}

func (c *Client) SetSelectedModel(ctx context.Context, model string) error {
	_, err := c.do(ctx, http.MethodPost, SelectedModelPath, "text/plain", strings.NewReader(model))
	return err
}

// CleanTheme strips quotes and surrounding whitespace from a theme value.
func CleanTheme(raw string) string {
	theme := strings.TrimSpace(strings.ReplaceAll(raw, `"`, ""))
	if theme == "" {
		return models.DefaultUITheme
	}
	return theme
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// getBool rejects a null body so callers never mistake it for false.
func (c *Client) getBool(ctx context.Context, path string) (bool, error) {
	var value *bool
	if err := c.getJSON(ctx, path, &value); err != nil {
		return false, err
	}
	if value == nil {
		return false, fmt.Errorf("%w from %s", ErrNullValue, path)
	}
	return *value, nil
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	body, err := c.do(ctx, method, path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) ([]byte, error) {
	if c.BaseURL == "" {
		return nil, ErrNoBaseURL
	}
	if body == nil {
		body = http.NoBody
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json, text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}
	return data, nil
}
