// Package fimcptest provides an in-process Fi MCP backend for tests.
//
// It reproduces the handshake of the development backend: a tool call with an
// unknown session id registers the session and answers with a login url, the
// login form is only accepted for a registered session, and tool calls return
// the persona records once the session is logged in.
package fimcptest

import (
	"embed"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/etnz/fiadvisor"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed testdata/*.json
var testdata embed.FS

// Phones of the built-in datasets.
const (
	FullPhone          = "2222222222" // every record type
	NoCreditScorePhone = "5555555555" // the credit report is missing
	DebtHeavyPhone     = "7777777777" // poor credit score, liabilities above assets
	Passcode           = "1234"
)

// Dataset holds the records of one persona. A missing record type is answered with 404.
type Dataset map[fiadvisor.RecordType]json.RawMessage

// Record returns a sample record of type t.
func Record(t fiadvisor.RecordType) json.RawMessage {
	return mustRead(string(t) + ".json")
}

// FullDataset returns a dataset with every record type.
func FullDataset() Dataset {
	ds := make(Dataset)
	for _, t := range fiadvisor.RecordTypes() {
		ds[t] = Record(t)
	}
	return ds
}

// Datasets returns the built-in datasets keyed by phone.
func Datasets() map[string]Dataset {
	noCredit := FullDataset()
	delete(noCredit, fiadvisor.CreditReport)

	debt := FullDataset()
	debt[fiadvisor.NetWorth] = mustRead("debt_heavy_net_worth.json")
	debt[fiadvisor.CreditReport] = mustRead("debt_heavy_credit_report.json")

	return map[string]Dataset{
		FullPhone:          FullDataset(),
		NoCreditScorePhone: noCredit,
		DebtHeavyPhone:     debt,
	}
}

func mustRead(name string) json.RawMessage {
	data, err := testdata.ReadFile("testdata/" + name)
	if err != nil {
		panic(err)
	}
	return data
}

// Call is a request received by the server.
type Call struct {
	Path          string
	SessionID     string
	Tool          fiadvisor.RecordType // for stream calls
	Phone         string               // for login calls
	Authenticated bool                 // whether the session was logged in when the call arrived
}

// Server is a fake Fi MCP backend.
type Server struct {
	*httptest.Server

	datasets    map[string]Dataset
	probeStatus int
	loginStatus int
	toolStatus  map[fiadvisor.RecordType]int
	toolBody    map[fiadvisor.RecordType]string

	mu       sync.Mutex
	sessions map[string]string // session id -> phone, "" until logged in
	calls    []Call
}

// Option configures a Server.
type Option func(*Server)

// WithDataset adds or replaces the dataset of phone.
func WithDataset(phone string, ds Dataset) Option {
	return func(s *Server) { s.datasets[phone] = ds }
}

// WithProbeStatus makes the server answer the unauthenticated call with code.
func WithProbeStatus(code int) Option { return func(s *Server) { s.probeStatus = code } }

// WithLoginStatus makes the server answer every login with code.
func WithLoginStatus(code int) Option { return func(s *Server) { s.loginStatus = code } }

// WithToolStatus makes the server answer authorized calls of t with code.
func WithToolStatus(t fiadvisor.RecordType, code int) Option {
	return func(s *Server) { s.toolStatus[t] = code }
}

// WithRawToolBody makes the server answer authorized calls of t with a 200 and body, verbatim.
func WithRawToolBody(t fiadvisor.RecordType, body string) Option {
	return func(s *Server) { s.toolBody[t] = body }
}

// NewServer starts a server with the built-in datasets. The caller must Close it.
func NewServer(opts ...Option) *Server {
	s := &Server{
		datasets:   Datasets(),
		toolStatus: make(map[fiadvisor.RecordType]int),
		toolBody:   make(map[fiadvisor.RecordType]string),
		sessions:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/mcp/stream", s.stream)
	r.Post("/login", s.login)
	s.Server = httptest.NewServer(r)
	return s
}

// Calls returns the requests received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// ToolCalls returns the stream requests received once authenticated.
func (s *Server) ToolCalls() []Call {
	var calls []Call
	for _, c := range s.Calls() {
		if c.Path == "/mcp/stream" && c.Authenticated {
			calls = append(calls, c)
		}
	}
	return calls
}

func (s *Server) record(c Call) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, c)
}

type toolCall struct {
	ID     int    `json:"id"`
	Method string `json:"method"`
	Params struct {
		Name fiadvisor.RecordType `json:"name"`
	} `json:"params"`
}

func (s *Server) stream(w http.ResponseWriter, r *http.Request) {
	sid := r.Header.Get("Mcp-Session-Id")
	var call toolCall
	if err := json.NewDecoder(r.Body).Decode(&call); err != nil || call.Method != "tools/call" {
		http.Error(w, "invalid json-rpc request", http.StatusBadRequest)
		return
	}
	if sid == "" {
		http.Error(w, "missing session id", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	phone, known := s.sessions[sid]
	if !known {
		s.sessions[sid] = ""
	}
	s.mu.Unlock()

	authenticated := phone != ""
	s.record(Call{Path: r.URL.Path, SessionID: sid, Tool: call.Params.Name, Authenticated: authenticated})

	if !authenticated {
		if s.probeStatus != 0 && s.probeStatus != http.StatusOK {
			http.Error(w, "probe rejected", s.probeStatus)
			return
		}
		loginRequired := fmt.Sprintf(`{"status":"login_required","login_url":"%s/mockWebPage?sessionId=%s","message":"Needs to login first by going to the login url."}`, s.URL, sid)
		writeResult(w, call.ID, json.RawMessage(loginRequired))
		return
	}

	if code, ok := s.toolStatus[call.Params.Name]; ok {
		http.Error(w, "tool failure", code)
		return
	}
	if body, ok := s.toolBody[call.Params.Name]; ok {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
		return
	}
	record, ok := s.datasets[phone][call.Params.Name]
	if !ok {
		http.Error(w, "no data for "+string(call.Params.Name), http.StatusNotFound)
		return
	}
	writeResult(w, call.ID, record)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sid, phone, passcode := r.PostForm.Get("sessionId"), r.PostForm.Get("phoneNumber"), r.PostForm.Get("passcode")
	s.record(Call{Path: r.URL.Path, SessionID: sid, Phone: phone})

	if s.loginStatus != 0 && s.loginStatus != http.StatusOK {
		http.Error(w, "login rejected", s.loginStatus)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, known := s.sessions[sid]; !known {
		http.Error(w, "unknown session", http.StatusBadRequest)
		return
	}
	if _, ok := s.datasets[phone]; !ok || passcode != Passcode {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	s.sessions[sid] = phone
	fmt.Fprint(w, "<html><body>Login successful</body></html>")
}

// ResultBody returns the double encoded response carrying record.
func ResultBody(id int, record json.RawMessage) []byte {
	text, _ := json.Marshal(string(record))
	return fmt.Appendf(nil, `{"jsonrpc":"2.0","id":%d,"result":{"content":[{"type":"text","text":%s}]}}`, id, text)
}

func writeResult(w http.ResponseWriter, id int, record json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(ResultBody(id, record))
}
