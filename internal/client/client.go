// Package client is an HTTP implementation of notepad.Gateway that talks to
// the notepad REST API served by `notepad serve`.
package client

import (
	"bytes"
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

	"github.com/starford/notepad/internal/apperr"
	"github.com/starford/notepad/internal/models"
)

const defaultTimeout = 10 * time.Second

// Client calls the notepad REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d, Transport: c.http.Transport}
		}
	}
}

// New creates a client for the API at baseURL. token is sent as a Bearer
// token when non-empty.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type noteList struct {
	Notes []models.Note `json:"notes"`
}

type reminderState struct {
	Exists bool `json:"exists"`
}

type lookupResult struct {
	IDs map[string]string `json:"ids"`
}

// ListNotes returns the notes selected by q.
func (c *Client) ListNotes(ctx context.Context, q models.ListQuery) ([]models.Note, error) {
	v := url.Values{}
	if q.ParentID != "" {
		v.Set("parent_id", q.ParentID)
	}
	if q.ParentType != "" {
		v.Set("parent_type", q.ParentType)
	}
	if q.OwnerID != "" {
		v.Set("owner_id", q.OwnerID)
	}
	if q.IncludeCompleted {
		v.Set("include_completed", "true")
	}
	if q.MaxRecords != 0 {
		v.Set("max_records", strconv.Itoa(q.MaxRecords))
	}
	path := "/notes"
	if enc := v.Encode(); enc != "" {
		path += "?" + enc
	}

	var resp noteList
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Notes == nil {
		resp.Notes = []models.Note{}
	}
	return resp.Notes, nil
}

// CreateNote creates a note and returns it as stored.
func (c *Client) CreateNote(ctx context.Context, n models.NewNote) (models.Note, error) {
	var out models.Note
	if err := c.doJSON(ctx, http.MethodPost, "/notes", n, &out); err != nil {
		return models.Note{}, err
	}
	return out, nil
}

// UpdateNoteText replaces the text of a note.
func (c *Client) UpdateNoteText(ctx context.Context, noteID, text string) error {
	body := map[string]string{"text": text}
	return c.doJSON(ctx, http.MethodPut, "/notes/"+url.PathEscape(noteID)+"/text", body, nil)
}

// DeleteNote deletes a note.
func (c *Client) DeleteNote(ctx context.Context, noteID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/notes/"+url.PathEscape(noteID), nil, nil)
}

// SetCompletion sets the completed flag of a note.
func (c *Client) SetCompletion(ctx context.Context, noteID string, completed bool) error {
	body := map[string]bool{"completed": completed}
	return c.doJSON(ctx, http.MethodPut, "/notes/"+url.PathEscape(noteID)+"/completion", body, nil)
}

// ReminderExists reports whether userID has a reminder on noteID.
func (c *Client) ReminderExists(ctx context.Context, userID, noteID string) (bool, error) {
	var resp reminderState
	if err := c.doJSON(ctx, http.MethodGet, reminderPath(userID, noteID), nil, &resp); err != nil {
		return false, err
	}
	return resp.Exists, nil
}

// CreateReminder subscribes userID to noteID.
func (c *Client) CreateReminder(ctx context.Context, userID, noteID string) error {
	return c.doJSON(ctx, http.MethodPut, reminderPath(userID, noteID), nil, nil)
}

// RemoveReminder unsubscribes userID from noteID.
func (c *Client) RemoveReminder(ctx context.Context, userID, noteID string) error {
	return c.doJSON(ctx, http.MethodDelete, reminderPath(userID, noteID), nil, nil)
}

// LookupRecordIDsByNames resolves company names to record IDs. Keys of the
// result are the stored names.
func (c *Client) LookupRecordIDsByNames(ctx context.Context, names []string) (map[string]string, error) {
	if names == nil {
		names = []string{}
	}
	var resp lookupResult
	if err := c.doJSON(ctx, http.MethodPost, "/companies/lookup", map[string][]string{"names": names}, &resp); err != nil {
		return nil, err
	}
	if resp.IDs == nil {
		resp.IDs = map[string]string{}
	}
	return resp.IDs, nil
}

// CreateCompany registers a company by name.
func (c *Client) CreateCompany(ctx context.Context, name string) (models.Company, error) {
	var out models.Company
	if err := c.doJSON(ctx, http.MethodPost, "/companies", map[string]string{"name": name}, &out); err != nil {
		return models.Company{}, err
	}
	return out, nil
}

func reminderPath(userID, noteID string) string {
	return "/reminders/" + url.PathEscape(userID) + "/" + url.PathEscape(noteID)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeAPIError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	msg := payload.Error
	if msg == "" {
		msg = resp.Status
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}

// APIError is a non-2xx response. It unwraps to the apperr sentinel matching
// its status code so callers can use errors.Is across the wire.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return apperr.ErrNotFound
	case http.StatusBadRequest:
		return apperr.ErrInvalid
	case http.StatusConflict:
		return apperr.ErrConflict
	}
	return nil
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}
