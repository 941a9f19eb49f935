// Package client is a small Go client for the diary API. Callers hold an
// explicit Session value and pass it to every mutating call; there is no
// ambient login state inside the package.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const sessionHeader = "X-Session-Token"

// Session is the capability returned by Login.
type Session struct {
	Token    string
	Username string
}

// Entry mirrors the entry wire format. Tags are a slice on the client side;
// the server stores them comma-joined.
type Entry struct {
	ID      string   `json:"id"`
	Date    string   `json:"date"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Mood    string   `json:"mood"`
	Tags    []string `json:"tags"`
}

// Media is one attachment payload.
type Media struct {
	ID        uint   `json:"id,omitempty"`
	SortOrder int    `json:"sort_order"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Data      string `json:"data"` // base64
}

// APIError is a non-2xx response decoded from the {"error": ...} body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// PartialSaveError reports a save where the entry write succeeded but the
// media re-upload stopped partway. The stored media set is inconsistent until
// the caller retries the save.
type PartialSaveError struct {
	Uploaded int
	Total    int
	Err      error
}

func (e *PartialSaveError) Error() string {
	return fmt.Sprintf("entry saved but only %d of %d media uploaded: %v", e.Uploaded, e.Total, e.Err)
}

func (e *PartialSaveError) Unwrap() error { return e.Err }

// Client talks to one diary server.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// do sends a JSON request and decodes the JSON response into out (when out is
// non-nil). Non-2xx statuses come back as *APIError.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(sessionHeader, token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// Login exchanges credentials for a Session.
func (c *Client) Login(ctx context.Context, username, password string) (Session, error) {
	var resp struct {
		Token    string `json:"token"`
		Username string `json:"username"`
	}
	err := c.do(ctx, http.MethodPost, "/api/login", "", map[string]string{
		"username": username,
		"password": password,
	}, &resp)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: resp.Token, Username: resp.Username}, nil
}

// Logout invalidates the session on the server. Safe to call twice.
func (c *Client) Logout(ctx context.Context, sess Session) error {
	return c.do(ctx, http.MethodPost, "/api/logout", sess.Token, map[string]string{
		"token": sess.Token,
	}, nil)
}

// ListEntries fetches every entry, newest first. No session needed.
func (c *Client) ListEntries(ctx context.Context) ([]Entry, error) {
	var raw []struct {
		ID      string `json:"id"`
		Date    string `json:"date"`
		Title   string `json:"title"`
		Content string `json:"content"`
		Mood    string `json:"mood"`
		Tags    string `json:"tags"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/entries", "", nil, &raw); err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(raw))
	for _, e := range raw {
		var tags []string
		if e.Tags != "" {
			tags = strings.Split(e.Tags, ",")
		}
		entries = append(entries, Entry{
			ID:      e.ID,
			Date:    e.Date,
			Title:   e.Title,
			Content: e.Content,
			Mood:    e.Mood,
			Tags:    tags,
		})
	}
	return entries, nil
}

// GetMedia fetches the media rows of one entry in display order.
func (c *Client) GetMedia(ctx context.Context, entryID string) ([]Media, error) {
	var media []Media
	path := "/api/media?entry_id=" + url.QueryEscape(entryID)
	if err := c.do(ctx, http.MethodGet, path, "", nil, &media); err != nil {
		return nil, err
	}
	return media, nil
}

// SaveEntry writes the entry metadata, then replaces its media: delete all
// rows, then upload one file per request in ascending order. Files go up one
// at a time so each request stays below the server's payload ceiling. If an
// upload fails partway the entry stays saved and a *PartialSaveError reports
// how far the sequence got.
func (c *Client) SaveEntry(ctx context.Context, sess Session, entry Entry, media []Media) error {
	body := map[string]any{
		"id":      entry.ID,
		"date":    entry.Date,
		"title":   entry.Title,
		"content": entry.Content,
		"mood":    entry.Mood,
		"tags":    entry.Tags,
	}
	if err := c.do(ctx, http.MethodPost, "/api/entries", sess.Token, body, nil); err != nil {
		return err
	}

	delPath := "/api/media?entry_id=" + url.QueryEscape(entry.ID)
	if err := c.do(ctx, http.MethodDelete, delPath, sess.Token, nil, nil); err != nil {
		return &PartialSaveError{Uploaded: 0, Total: len(media), Err: err}
	}

	for i, m := range media {
		payload := map[string]any{
			"entry_id":   entry.ID,
			"sort_order": i,
			"name":       m.Name,
			"type":       m.Type,
			"data":       m.Data,
		}
		if err := c.do(ctx, http.MethodPost, "/api/media", sess.Token, payload, nil); err != nil {
			return &PartialSaveError{Uploaded: i, Total: len(media), Err: err}
		}
	}
	return nil
}

// DeleteEntry removes an entry and its media.
func (c *Client) DeleteEntry(ctx context.Context, sess Session, id string) error {
	return c.do(ctx, http.MethodPost, "/api/delete", sess.Token, map[string]string{
		"id": id,
	}, nil)
}
