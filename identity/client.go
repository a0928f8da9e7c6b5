package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/realtime"
	"github.com/MrEthical07/goSession/session"
)

// Config holds the connection settings for one identity-service project.
type Config struct {
	// BaseURL is the identity endpoint root, e.g. https://proj.example.com/auth/v1.
	BaseURL string
	// APIKey is sent as the apikey header on every request.
	APIKey string
	// FeedURL is the websocket change-feed endpoint. Empty disables the
	// remote stream; OnSessionChange then only sees this client's own
	// sign-in/sign-out transitions.
	FeedURL string
	// HTTPClient overrides http.DefaultClient.
	HTTPClient *http.Client
}

// Client is an IdentityProvider backed by a GoTrue-style REST identity
// service. It tracks the session it last issued so GetCurrentSession can
// answer locally while the token is live and refresh it when it is not.
type Client struct {
	cfg  Config
	http *http.Client

	mu        sync.Mutex
	current   *session.Session
	callbacks map[string]func(*session.Session)
}

var _ goSession.IdentityProvider = (*Client)(nil)

// NewClient validates cfg and returns a Client. No I/O happens here.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("identity: base URL is required")
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		cfg:       cfg,
		http:      httpClient,
		callbacks: make(map[string]func(*session.Session)),
	}, nil
}

// tokenResponse is the payload of a successful token grant.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID string `json:"id"`
	} `json:"user"`
}

func (t *tokenResponse) session(now time.Time) *session.Session {
	if t.AccessToken == "" {
		return nil
	}
	s := &session.Session{
		UserID:       t.User.ID,
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
		ExpiresAt:    t.ExpiresAt,
		IssuedAt:     now.Unix(),
	}
	if s.ExpiresAt == 0 && t.ExpiresIn > 0 {
		s.ExpiresAt = now.Add(time.Duration(t.ExpiresIn) * time.Second).Unix()
	}
	return s.Hydrate()
}

func (c *Client) post(ctx context.Context, path string, body any, bearer string) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("apikey", c.cfg.APIKey)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return c.http.Do(req)
}

// grant runs a token-issuing request and installs the resulting session.
func (c *Client) grant(ctx context.Context, path string, body any) error {
	resp, err := c.post(ctx, path, body, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return err
	}

	// Signup without auto-confirm answers with a user object and no token;
	// a session then arrives later through the change feed.
	if next := token.session(time.Now()); next != nil {
		c.setSession(next)
	}
	return nil
}

// SignInWithPassword performs the password grant. The new session is
// installed locally and fanned out to change subscribers.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) error {
	return c.grant(ctx, "/token?grant_type=password", map[string]string{
		"email":    email,
		"password": password,
	})
}

// SignUp creates an account. Whether a session is issued immediately is
// service policy (email confirmation may be pending).
func (c *Client) SignUp(ctx context.Context, email, password string) error {
	return c.grant(ctx, "/signup", map[string]string{
		"email":    email,
		"password": password,
	})
}

// SignOut revokes the current session remotely, then clears the local copy
// and notifies subscribers with nil.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	bearer := ""
	if c.current != nil {
		bearer = c.current.AccessToken
	}
	c.mu.Unlock()

	resp, err := c.post(ctx, "/logout", nil, bearer)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp)
	}

	c.setSession(nil)
	return nil
}

// ResetPasswordForEmail fires a recovery mail request. It never touches the
// current session.
func (c *Client) ResetPasswordForEmail(ctx context.Context, email string) error {
	resp, err := c.post(ctx, "/recover", map[string]string{"email": email}, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp)
	}
	return nil
}

// GetCurrentSession returns the session this client holds, refreshing it
// through the refresh-token grant when the access token has expired.
// Returns (nil, nil) when no session is held.
func (c *Client) GetCurrentSession(ctx context.Context) (*session.Session, error) {
	c.mu.Lock()
	current := c.current.Clone()
	c.mu.Unlock()

	if current == nil {
		return nil, nil
	}
	if !current.Expired(time.Now()) {
		return current, nil
	}
	if current.RefreshToken == "" {
		// Expired and unrefreshable: the service considers it gone.
		c.setSession(nil)
		return nil, nil
	}

	if err := c.grant(ctx, "/token?grant_type=refresh_token", map[string]string{
		"refresh_token": current.RefreshToken,
	}); err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
			// The refresh token was rejected; the session is dead.
			c.setSession(nil)
			return nil, nil
		}
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current.Clone(), nil
}

// OnSessionChange registers a callback for session transitions: this
// client's own grants and sign-outs, plus the remote change feed when a
// FeedURL is configured.
func (c *Client) OnSessionChange(callback func(*session.Session)) (goSession.Subscription, error) {
	if callback == nil {
		return nil, errors.New("identity: nil callback")
	}

	id := uuid.NewString()
	c.mu.Lock()
	c.callbacks[id] = callback
	c.mu.Unlock()

	var feed *realtime.Listener
	if c.cfg.FeedURL != "" {
		header := http.Header{}
		if c.cfg.APIKey != "" {
			header.Set("apikey", c.cfg.APIKey)
		}
		var err error
		feed, err = realtime.SubscribeWithHeader(c.cfg.FeedURL, header, func(s *session.Session) {
			c.setSession(s)
		})
		if err != nil {
			c.mu.Lock()
			delete(c.callbacks, id)
			c.mu.Unlock()
			return nil, err
		}
	}

	return &clientSubscription{client: c, id: id, feed: feed}, nil
}

// setSession installs the new session and fans it out to subscribers.
func (c *Client) setSession(next *session.Session) {
	c.mu.Lock()
	c.current = next.Clone()
	callbacks := make([]func(*session.Session), 0, len(c.callbacks))
	for _, cb := range c.callbacks {
		callbacks = append(callbacks, cb)
	}
	c.mu.Unlock()

	for _, cb := range callbacks {
		cb(next.Clone())
	}
}

type clientSubscription struct {
	client *Client
	id     string
	feed   *realtime.Listener
	once   sync.Once
}

func (s *clientSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.client.mu.Lock()
		delete(s.client.callbacks, s.id)
		s.client.mu.Unlock()
		if s.feed != nil {
			s.feed.Unsubscribe()
		}
	})
}
