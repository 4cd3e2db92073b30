// Package api is the typed client for the Matcha backend REST API.
//
// Every response uses one envelope, {success, message, data}; anything that
// does not parse into the expected shape is an error at this boundary rather
// than a silent fallthrough. All business logic lives server-side; this
// package only moves JSON.
package api

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
	"time"

	"go.uber.org/zap"

	"github.com/matcha-app/matcha-tui/internal/types"
)

// ErrBadShape marks a response that parsed as JSON but not as the documented
// envelope or payload.
var ErrBadShape = errors.New("unexpected response shape")

// Error is a non-2xx answer from the backend, or a success=false envelope.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

// TokenSource supplies the bearer token for each request. Empty means
// unauthenticated.
type TokenSource interface {
	Token() string
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     *zap.Logger
	offline OfflineDetector
}

func New(baseURL string, timeout time.Duration, tokens TokenSource, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log.Named("api"),
	}
}

// Offline exposes the reachability detector for the UI modal.
func (c *Client) Offline() *OfflineDetector { return &c.offline }

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do performs one request and decodes the envelope's data into out (when out
// is non-nil). It also feeds the offline detector.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.offline.markDown()
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		c.offline.markDown()
		c.log.Warn("server error", zap.String("path", path), zap.Int("status", resp.StatusCode))
		return &Error{Status: resp.StatusCode}
	}
	// The server answered; whatever it said, we are not offline.
	c.offline.markUp()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrBadShape, err)
	}

	if resp.StatusCode >= 400 {
		return &Error{Status: resp.StatusCode, Message: env.Message}
	}
	if !env.Success {
		return &Error{Status: resp.StatusCode, Message: env.Message}
	}
	if out == nil {
		return nil
	}
	if len(env.Data) == 0 {
		return fmt.Errorf("%s %s: %w: missing data", method, path, ErrBadShape)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrBadShape, err)
	}
	return nil
}

// BrowseParams are the browse filters. Zero values are omitted from the
// query string; Limit falls back server-side when 0.
type BrowseParams struct {
	Limit          int
	Offset         int
	Sort           string
	MinAge         int
	MaxAge         int
	MinDistance    int
	MaxDistance    int
	OnlyCommonTags bool
	FameRatingMin  float64
}

func (p BrowseParams) query() url.Values {
	q := url.Values{}
	setInt := func(key string, v int) {
		if v != 0 {
			q.Set(key, strconv.Itoa(v))
		}
	}
	setInt("limit", p.Limit)
	setInt("offset", p.Offset)
	setInt("minAge", p.MinAge)
	setInt("maxAge", p.MaxAge)
	setInt("minDistance", p.MinDistance)
	setInt("maxDistance", p.MaxDistance)
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}
	if p.OnlyCommonTags {
		q.Set("onlyCommonTags", "true")
	}
	if p.FameRatingMin != 0 {
		q.Set("fameRatingMin", strconv.FormatFloat(p.FameRatingMin, 'f', -1, 64))
	}
	return q
}

// Browse fetches a page of candidate profiles.
func (c *Client) Browse(ctx context.Context, p BrowseParams) ([]types.CandidateProfile, error) {
	var data struct {
		Profiles []types.CandidateProfile `json:"profiles"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/browse", p.query(), nil, &data); err != nil {
		return nil, err
	}
	if data.Profiles == nil {
		return nil, fmt.Errorf("browse: %w: profiles missing", ErrBadShape)
	}
	return data.Profiles, nil
}

// Like sends a like for the given user. A mutual like becomes a connection.
func (c *Client) Like(ctx context.Context, userID int) error {
	return c.do(ctx, http.MethodPost, "/api/like/"+strconv.Itoa(userID), nil, nil, nil)
}

// Unlike withdraws a like.
func (c *Client) Unlike(ctx context.Context, userID int) error {
	return c.do(ctx, http.MethodDelete, "/api/like/"+strconv.Itoa(userID), nil, nil, nil)
}

// Profile fetches the authenticated user's own profile.
func (c *Client) Profile(ctx context.Context) (types.OwnProfile, error) {
	var data struct {
		Profile types.OwnProfile `json:"profile"`
	}
	err := c.do(ctx, http.MethodGet, "/api/profile", nil, nil, &data)
	return data.Profile, err
}

// UpdateProfile replaces the editable profile fields.
func (c *Client) UpdateProfile(ctx context.Context, p types.OwnProfile) error {
	return c.do(ctx, http.MethodPost, "/api/profile", nil, p, nil)
}

// Tags lists the user's interest tags.
func (c *Client) Tags(ctx context.Context) ([]types.Tag, error) {
	var data struct {
		Tags []types.Tag `json:"tags"`
	}
	err := c.do(ctx, http.MethodGet, "/api/tags", nil, nil, &data)
	return data.Tags, err
}

// AddTag attaches a tag to the user's profile.
func (c *Client) AddTag(ctx context.Context, name string) error {
	body := map[string]string{"name": name}
	return c.do(ctx, http.MethodPost, "/api/tags", nil, body, nil)
}

// RemoveTag detaches a tag.
func (c *Client) RemoveTag(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/api/tags/"+strconv.Itoa(id), nil, nil, nil)
}

// Notifications lists the user's notifications, newest first.
func (c *Client) Notifications(ctx context.Context) ([]types.Notification, error) {
	var data struct {
		Notifications []types.Notification `json:"notifications"`
	}
	err := c.do(ctx, http.MethodGet, "/api/notifications", nil, nil, &data)
	return data.Notifications, err
}

// MarkNotificationsRead flags everything as seen.
func (c *Client) MarkNotificationsRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/notifications/read", nil, nil, nil)
}

// Messages fetches the conversation with the given user.
func (c *Client) Messages(ctx context.Context, userID int) ([]types.Message, error) {
	var data struct {
		Messages []types.Message `json:"messages"`
	}
	err := c.do(ctx, http.MethodGet, "/api/messages/"+strconv.Itoa(userID), nil, nil, &data)
	return data.Messages, err
}

// SendMessage posts a chat message and returns the stored copy.
func (c *Client) SendMessage(ctx context.Context, userID int, content string) (types.Message, error) {
	var data struct {
		Message types.Message `json:"message"`
	}
	body := map[string]string{"content": content}
	err := c.do(ctx, http.MethodPost, "/api/messages/"+strconv.Itoa(userID), nil, body, &data)
	return data.Message, err
}

// Connections lists mutual likes.
func (c *Client) Connections(ctx context.Context) ([]types.Connection, error) {
	var data struct {
		Connections []types.Connection `json:"connections"`
	}
	err := c.do(ctx, http.MethodGet, "/api/connections", nil, nil, &data)
	return data.Connections, err
}

// User fetches another user's public profile (and registers a visit
// server-side).
func (c *Client) User(ctx context.Context, id int) (types.CandidateProfile, error) {
	var data struct {
		User types.CandidateProfile `json:"user"`
	}
	err := c.do(ctx, http.MethodGet, "/api/user/"+strconv.Itoa(id), nil, nil, &data)
	return data.User, err
}

// Ping is the manual retry probe behind the offline modal. Any answer from
// the server clears the offline flag via do.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil, nil)
}
