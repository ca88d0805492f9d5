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
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/humanbelnik/kinoswap/duo/internal/model"
)

var ErrBadShareLink = errors.New("malformed share link")

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

type createSessionRequest struct {
	Services []string `json:"services,omitempty"`
}

type nextResponse struct {
	Candidate *model.Candidate `json:"candidate"`
	Done      bool             `json:"done"`
}

type voteRequest struct {
	FilmID model.CandidateID `json:"film_id"`
	Vote   bool              `json:"vote"`
}

type matchesResponse struct {
	Matches []model.Candidate `json:"matches"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Client talks to the duo HTTP API. baseURL includes the /api/v1 prefix.
type Client struct {
	baseURL    string
	httpClient *http.Client
	dialer     *websocket.Dialer
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		dialer:     websocket.DefaultDialer,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) CreateSession(ctx context.Context, services ...string) (model.Invitation, error) {
	var inv model.Invitation
	err := c.do(ctx, http.MethodPost, "/sessions", createSessionRequest{Services: services}, http.StatusCreated, &inv)
	return inv, err
}

// Next returns false once nothing is left to judge.
func (c *Client) Next(ctx context.Context, id model.SessionID, role model.Role) (model.Candidate, bool, error) {
	var resp nextResponse
	path := fmt.Sprintf("/sessions/%s/participants/%s/next", url.PathEscape(id), role)
	if err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &resp); err != nil {
		return model.Candidate{}, false, err
	}
	if resp.Done || resp.Candidate == nil {
		return model.Candidate{}, false, nil
	}
	return *resp.Candidate, true, nil
}

func (c *Client) Vote(ctx context.Context, id model.SessionID, role model.Role, cid model.CandidateID, liked bool) error {
	path := fmt.Sprintf("/sessions/%s/participants/%s/votes", url.PathEscape(id), role)
	return c.do(ctx, http.MethodPost, path, voteRequest{FilmID: cid, Vote: liked}, http.StatusOK, nil)
}

func (c *Client) Matches(ctx context.Context, id model.SessionID) ([]model.Candidate, error) {
	var resp matchesResponse
	path := fmt.Sprintf("/sessions/%s/matches", url.PathEscape(id))
	if err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return resp.Matches, nil
}

func (c *Client) do(ctx context.Context, method, path string, in any, want int, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)
	apiErr := &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
	var er errorResponse
	if json.Unmarshal(raw, &er) == nil && er.Message != "" {
		apiErr.Message = er.Message
	}
	return apiErr
}

// ParseShareLink extracts the session and role from a link such as
// http://host/sessions/<id>/second.
func ParseShareLink(link string) (model.SessionID, model.Role, error) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return "", "", errors.Join(ErrBadShareLink, err)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 3 || parts[len(parts)-3] != "sessions" {
		return "", "", fmt.Errorf("%w: %q", ErrBadShareLink, link)
	}
	role, err := model.ParseRole(parts[len(parts)-1])
	if err != nil {
		return "", "", errors.Join(ErrBadShareLink, err)
	}
	id := parts[len(parts)-2]
	if id == model.EmptySessionID {
		return "", "", fmt.Errorf("%w: %q", ErrBadShareLink, link)
	}
	return id, role, nil
}

// Subscription delivers update_matches events until closed.
type Subscription struct {
	conn   *websocket.Conn
	events chan model.MatchesEvent
	err    error

	once    sync.Once
	closing chan struct{}
	done    chan struct{}
}

// Watch opens the session's notification socket. The subscription ends
// when ctx is cancelled, Close is called or the server hangs up.
func (c *Client) Watch(ctx context.Context, id model.SessionID) (*Subscription, error) {
	wsURL, err := c.wsURL(id)
	if err != nil {
		return nil, err
	}

	conn, resp, err := c.dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			defer resp.Body.Close()
			return nil, decodeAPIError(resp)
		}
		return nil, fmt.Errorf("websocket connection failed: %w", err)
	}

	sub := &Subscription{
		conn:   conn,
		events:  make(chan model.MatchesEvent, 16),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go sub.listen()
	go func() {
		select {
		case <-ctx.Done():
			sub.Close()
		case <-sub.done:
		}
	}()
	return sub, nil
}

func (c *Client) wsURL(id model.SessionID) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/sessions/" + url.PathEscape(id) + "/ws"
	return u.String(), nil
}

func (s *Subscription) listen() {
	defer close(s.events)
	defer close(s.done)

	for {
		var event model.MatchesEvent
		if err := s.conn.ReadJSON(&event); err != nil {
			select {
			case <-s.closing:
				return
			default:
			}
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.err = err
			}
			return
		}
		if event.Type != model.EventUpdateMatches {
			continue
		}
		select {
		case s.events <- event:
		case <-s.closing:
			return
		}
	}
}

// Events is closed when the subscription ends.
func (s *Subscription) Events() <-chan model.MatchesEvent {
	return s.events
}

// Err reports why the stream ended. Valid after Events is closed.
func (s *Subscription) Err() error {
	<-s.done
	return s.err
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		close(s.closing)
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = s.conn.Close()
	})
}
