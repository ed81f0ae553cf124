// Package fimcp is a client for the Fi MCP backend.
//
// The backend does not issue sessions: the client makes up a session token,
// probes the backend with it (which creates the server side session), submits
// the login form with the same token, and then presents that token on every
// tool call. Each tool returns one financial record.
package fimcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/etnz/fiadvisor"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// SessionHeader carries the session token on stream calls.
	SessionHeader = "Mcp-Session-Id"
	// DefaultPasscode is the passcode accepted by the development backend for every persona.
	DefaultPasscode = "1234"
	// DefaultTimeout bounds every request.
	DefaultTimeout = 8 * time.Second
	// DefaultBaseURL is where the development backend listens.
	DefaultBaseURL = "http://localhost:8080"

	streamPath  = "/mcp/stream"
	loginPath   = "/login"
	tokenPrefix = "mcp-session-"

	// probeRecord is the tool called before login.
	probeRecord = fiadvisor.NetWorth
)

// State of a Session.
type State int

const (
	Unauthenticated State = iota // no call made yet
	Probed                       // the backend knows the token
	Authenticated                // login accepted, tool calls allowed
	Failed                       // the handshake failed, the session is unusable
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Probed:
		return "probed"
	case Authenticated:
		return "authenticated"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Client opens sessions on one backend.
type Client struct {
	baseURL  string
	timeout  time.Duration
	base     http.RoundTripper
	logger   *zap.Logger
	passcode string
	newToken func() string
}

// Option configures a Client.
type Option func(*Client)

// WithTransport sets the round tripper used by every session.
func WithTransport(rt http.RoundTripper) Option { return func(c *Client) { c.base = rt } }

// WithTimeout sets the per request timeout.
func WithTimeout(d time.Duration) Option { return func(c *Client) { c.timeout = d } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.logger = l } }

// WithPasscode overrides DefaultPasscode.
func WithPasscode(p string) Option { return func(c *Client) { c.passcode = p } }

// WithTokenSource overrides the session token generator.
func WithTokenSource(f func() string) Option { return func(c *Client) { c.newToken = f } }

// NewClient returns a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		timeout:  DefaultTimeout,
		base:     http.DefaultTransport,
		logger:   zap.NewNop(),
		passcode: DefaultPasscode,
		newToken: NewToken,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewToken returns a fresh, globally unique, session token.
func NewToken() string { return tokenPrefix + uuid.NewString() }

// Session is one authenticated context on the backend. It is bound to a
// single fetch cycle and must not be shared.
type Session struct {
	Token string
	Phone string
	State State

	client *Client
	http   *http.Client
	logger *zap.Logger
	nextID int
}

// newSession creates the session with its own cookie jar, so that cookies set
// by the backend during the handshake are presented on later calls.
func (c *Client) newSession(phone string) *Session {
	jar, _ := cookiejar.New(nil) // never fails with nil options
	token := c.newToken()
	return &Session{
		Token:  token,
		Phone:  phone,
		State:  Unauthenticated,
		client: c,
		http: &http.Client{
			Transport: &loggingTransport{base: c.base, logger: c.logger},
			Timeout:   c.timeout,
			Jar:       jar,
		},
		logger: c.logger.With(zap.String("session", token), zap.String("phone", phone)),
		nextID: 1,
	}
}

// AcquireSession performs the handshake for phone: probe, then login.
//
// The order matters, the backend only accepts the login form for a session it
// has seen on the stream endpoint. Nothing is retried: any failure ends the
// handshake and the session is discarded.
func (c *Client) AcquireSession(ctx context.Context, phone string) (*Session, error) {
	s := c.newSession(phone)
	s.logger.Debug("session created")

	if err := s.probe(ctx); err != nil {
		s.State = Failed
		return nil, err
	}
	s.State = Probed

	if err := s.login(ctx); err != nil {
		s.State = Failed
		return nil, err
	}
	s.State = Authenticated
	s.logger.Debug("session authenticated")
	return s, nil
}

// probe sends the first tool call. Its body is only inspected for the login url, for debug purpose.
func (s *Session) probe(ctx context.Context) error {
	status, body, err := s.callTool(ctx, "probe", probeRecord)
	if err != nil {
		return err
	}
	if status.code != http.StatusOK {
		return &StatusError{Step: "probe", StatusCode: status.code, Status: status.text, kind: ErrProbeFailed}
	}
	if data, err := DecodeToolResult(body); err == nil {
		var hint struct {
			LoginURL string `json:"login_url"`
		}
		if json.Unmarshal(data, &hint) == nil && hint.LoginURL != "" {
			s.logger.Debug("login required", zap.String("login_url", hint.LoginURL))
		}
	}
	return nil
}

func (s *Session) login(ctx context.Context) error {
	form := EncodeLogin(s.Token, s.Phone, s.client.passcode)
	uri := s.client.baseURL + loginPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("cannot create login request %q: %w", uri, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	status, _, err := s.do(req, "login")
	if err != nil {
		return err
	}
	if status.code != http.StatusOK {
		return &StatusError{Step: "login", StatusCode: status.code, Status: status.text, kind: ErrAuthenticationFailed}
	}
	return nil
}

// Call fetches record type t and returns the decoded inner record.
func (s *Session) Call(ctx context.Context, t fiadvisor.RecordType) (json.RawMessage, error) {
	if s.State != Authenticated {
		return nil, fmt.Errorf("cannot call %s on %s session: %w", t, s.State, ErrNotAuthenticated)
	}
	status, body, err := s.callTool(ctx, string(t), t)
	if err != nil {
		return nil, err
	}
	if status.code != http.StatusOK {
		return nil, &StatusError{Step: string(t), StatusCode: status.code, Status: status.text, kind: ErrRecordFetchFailed}
	}
	data, err := DecodeToolResult(body)
	if err != nil {
		return nil, fmt.Errorf("cannot decode %s: %w", t, err)
	}
	return data, nil
}

// callTool posts a tools/call for t with the session header.
func (s *Session) callTool(ctx context.Context, step string, t fiadvisor.RecordType) (httpStatus, []byte, error) {
	payload, err := EncodeToolCall(NewToolCall(s.nextID, t))
	if err != nil {
		return httpStatus{}, nil, err
	}
	s.nextID++

	uri := s.client.baseURL + streamPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, bytes.NewReader(payload))
	if err != nil {
		return httpStatus{}, nil, fmt.Errorf("cannot create http request %q: %w", uri, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SessionHeader, s.Token)
	return s.do(req, step)
}

type httpStatus struct {
	code int
	text string
}

// do executes req and reads the whole body.
func (s *Session) do(req *http.Request, step string) (httpStatus, []byte, error) {
	resp, err := s.http.Do(req)
	if err != nil {
		return httpStatus{}, nil, &TransportError{Step: step, URL: req.URL.Redacted(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return httpStatus{}, nil, &TransportError{Step: step, URL: req.URL.Redacted(), Err: fmt.Errorf("cannot read response body: %w", err)}
	}
	return httpStatus{code: resp.StatusCode, text: resp.Status}, body, nil
}
