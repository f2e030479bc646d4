// Package client is the Go API client for the catalog service, covering the
// marker editor's persistence needs: hydrate a family, save it back in one
// update, and push image assets afterwards with a base64 fallback.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mandoxxdev/crm-catalog/internal/markers"
)

// Errors the editor UI distinguishes. Anything else surfaces verbatim.
var (
	// ErrUnavailable maps a not-found family endpoint: the API is absent or
	// stale, the user's edits stay local for the session.
	ErrUnavailable = errors.New("catalog API unavailable")
	// ErrSessionExpired maps authorization failures; re-login required.
	ErrSessionExpired = errors.New("session expired")
)

// Family is the client-side view of one family record.
type Family struct {
	FamilyID      uint64              `json:"familyId"`
	Name          string              `json:"name"`
	DisplayOrder  int                 `json:"displayOrder"`
	Version       uint64              `json:"version"`
	Markers       *markers.Collection `json:"markers"`
	PhotoFile     string              `json:"photoFile,omitempty"`
	SchematicFile string              `json:"schematicFile,omitempty"`
}

// ImageUpload is one pending asset push, sequenced after the record save.
type ImageUpload struct {
	Slot     string // "photo" or "schematic"
	Filename string
	Content  []byte
}

// Client talks to the catalog REST API. No call is retried automatically;
// retries are user-initiated.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Session    string // cookie_session value
}

// New builds a client with a default HTTP client.
func New(baseURL, session string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Session:    session,
	}
}

// Variables fetches the active technical-variable registry.
func (c *Client) Variables(ctx context.Context) (*markers.Registry, error) {
	var vars []markers.Variable
	if err := c.getJSON(ctx, "/api/catalog/variables", &vars); err != nil {
		return nil, err
	}
	return markers.NewRegistry(vars), nil
}

// LoadFamily hydrates one family. The marker field decodes tolerantly on
// the server; a malformed collection never fails the load.
func (c *Client) LoadFamily(ctx context.Context, familyID uint64) (*Family, error) {
	var fam Family
	if err := c.getJSON(ctx, fmt.Sprintf("/api/catalog/families/%d", familyID), &fam); err != nil {
		return nil, err
	}
	if fam.Markers == nil {
		fam.Markers = markers.New()
	}
	return &fam, nil
}

// SaveFamily submits the family's scalar fields and marker collection as
// one update, then pushes image assets one request each, only after the
// record write resolved. A multipart upload rejected with a client-error
// status is re-sent as a base64 data URL to the -base64 twin endpoint;
// this is best-effort degradation for proxies that corrupt multipart
// bodies, not a guaranteed retry.
func (c *Client) SaveFamily(ctx context.Context, fam *Family, images ...ImageUpload) (uint64, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"name":         fam.Name,
		"displayOrder": fam.DisplayOrder,
		"version":      fam.Version,
		"markers":      fam.Markers,
	})
	if err != nil {
		return 0, err
	}

	var result struct {
		NewVersion string `json:"newVersion"`
	}
	err = c.doJSON(ctx, http.MethodPut,
		fmt.Sprintf("/api/catalog/families/%d", fam.FamilyID), payload, &result)
	if err != nil {
		return 0, err
	}

	newVersion, err := strconv.ParseUint(result.NewVersion, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected newVersion %q in save response: %w", result.NewVersion, err)
	}

	for _, img := range images {
		if err := c.uploadImage(ctx, fam.FamilyID, img); err != nil {
			return newVersion, err
		}
	}
	return newVersion, nil
}

// Options fetches the per-family option map, keyed by variable key.
func (c *Client) Options(ctx context.Context, familyID uint64) (map[string][]OptionItem, error) {
	var out map[string][]OptionItem
	err := c.getJSON(ctx, fmt.Sprintf("/api/catalog/families/%d/options", familyID), &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// OptionItem mirrors the server's option shape.
type OptionItem struct {
	ID    uint64 `json:"id"`
	Value string `json:"value"`
}

// AddOption appends an allowed value to a (family, variable) pair. A blank
// or whitespace-only value is rejected locally; no request is issued.
func (c *Client) AddOption(ctx context.Context, familyID uint64, variableKey, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("option value must not be blank")
	}
	payload, _ := json.Marshal(map[string]string{"value": value})
	return c.doJSON(ctx, http.MethodPost,
		fmt.Sprintf("/api/catalog/families/%d/options/%s", familyID, variableKey), payload, nil)
}

// RemoveOption deletes one option by id.
func (c *Client) RemoveOption(ctx context.Context, familyID uint64, variableKey string, optionID uint64) error {
	return c.doJSON(ctx, http.MethodDelete,
		fmt.Sprintf("/api/catalog/families/%d/options/%s/%d", familyID, variableKey, optionID), nil, nil)
}

// uploadImage tries the multipart endpoint, falling back to base64 on any
// client-error status.
func (c *Client) uploadImage(ctx context.Context, familyID uint64, img ImageUpload) error {
	status, err := c.postMultipart(ctx, familyID, img)
	if err != nil {
		return err
	}
	if status < 400 {
		return nil
	}
	if status >= 500 {
		return fmt.Errorf("upload failed with status %d", status)
	}
	return c.postDataURL(ctx, familyID, img)
}

func (c *Client) postMultipart(ctx context.Context, familyID uint64, img ImageUpload) (int, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", img.Filename)
	if err != nil {
		return 0, err
	}
	if _, err := part.Write(img.Content); err != nil {
		return 0, err
	}
	if err := w.Close(); err != nil {
		return 0, err
	}

	req, err := c.newRequest(ctx, http.MethodPost,
		fmt.Sprintf("/api/catalog/families/%d/%s", familyID, img.Slot), &buf)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return resp.StatusCode, ErrSessionExpired
	}
	return resp.StatusCode, nil
}

func (c *Client) postDataURL(ctx context.Context, familyID uint64, img ImageUpload) error {
	dataURL := "data:application/octet-stream;base64," +
		base64.StdEncoding.EncodeToString(img.Content)
	payload, _ := json.Marshal(map[string]string{
		"filename": img.Filename,
		"data":     dataURL,
	})
	return c.doJSON(ctx, http.MethodPost,
		fmt.Sprintf("/api/catalog/families/%d/%s-base64", familyID, img.Slot), payload, nil)
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := mapStatus(resp); err != nil {
		return err
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	if c.Session != "" {
		req.AddCookie(&http.Cookie{Name: "cookie_session", Value: c.Session})
	}
	return req, nil
}

// mapStatus converts response codes to the editor's error taxonomy.
func mapStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode < 400:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return ErrUnavailable
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrSessionExpired
	}

	// Surface the server-provided message when the envelope parses.
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Message != "" {
		return fmt.Errorf("%s", envelope.Message)
	}
	return fmt.Errorf("request failed with status %d", resp.StatusCode)
}
