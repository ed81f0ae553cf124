package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/etnz/fiadvisor"
	"github.com/etnz/fiadvisor/agent"
	"github.com/etnz/fiadvisor/fimcp"
	"github.com/etnz/fiadvisor/fimcp/fimcptest"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"
)

// newTestServer serves the api over a fake backend, the narrator echoes the persona.
func newTestServer(t *testing.T, backendOpts ...fimcptest.Option) *httptest.Server {
	t.Helper()
	backend := fimcptest.NewServer(backendOpts...)
	t.Cleanup(backend.Close)

	tr := &http.Transport{}
	t.Cleanup(tr.CloseIdleConnections)
	client := fimcp.NewClient(backend.URL, fimcp.WithTransport(tr), fimcp.WithLogger(zaptest.NewLogger(t)))

	narrator := agent.NarratorFunc(func(ctx context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, "fail please") {
			return "", errors.New("quota exceeded")
		}
		return "narrative", nil
	})
	h := NewHandler(client, agent.NewAdvisor(narrator, nil), zaptest.NewLogger(t))
	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestListPersonas(t *testing.T) {
	srv := newTestServer(t)
	code, body := get(t, srv.URL+"/personas")
	if code != http.StatusOK {
		t.Fatalf("GET /personas = %d, want 200", code)
	}
	var got []fiadvisor.Persona
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("invalid body %q: %v", body, err)
	}
	if diff := cmp.Diff(fiadvisor.Personas(), got); diff != "" {
		t.Errorf("GET /personas mismatch (-want +got):\n%s", diff)
	}
}

func TestGetProfile(t *testing.T) {
	srv := newTestServer(t)
	code, body := get(t, srv.URL+"/profiles/"+fimcptest.NoCreditScorePhone)
	if code != http.StatusOK {
		t.Fatalf("GET /profiles = %d, want 200: %s", code, body)
	}
	var got struct {
		Persona fiadvisor.Persona  `json:"persona"`
		Profile *fiadvisor.Profile `json:"profile"`
	}
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("invalid body %q: %v", body, err)
	}
	if got.Persona.Phone != fimcptest.NoCreditScorePhone {
		t.Errorf("persona = %v, want phone %s", got.Persona, fimcptest.NoCreditScorePhone)
	}
	if got.Profile.Len() != 4 {
		t.Errorf("profile has %d entries, want 4", got.Profile.Len())
	}
	if diff := cmp.Diff([]fiadvisor.RecordType{fiadvisor.CreditReport}, got.Profile.Failed()); diff != "" {
		t.Errorf("failed records mismatch (-want +got):\n%s", diff)
	}
}

func TestGetProfileHandshakeFailure(t *testing.T) {
	srv := newTestServer(t, fimcptest.WithLoginStatus(http.StatusUnauthorized))
	code, body := get(t, srv.URL+"/profiles/"+fimcptest.FullPhone)
	if code != http.StatusBadGateway {
		t.Errorf("GET /profiles = %d, want 502", code)
	}
	if !strings.Contains(body, `"error"`) {
		t.Errorf("GET /profiles body = %q, want an error object", body)
	}
}

func TestGetSnapshot(t *testing.T) {
	srv := newTestServer(t)
	code, body := get(t, srv.URL+"/profiles/Debt-Heavy%20Low%20Performer/snapshot")
	if code != http.StatusOK {
		t.Fatalf("GET /snapshot = %d, want 200: %s", code, body)
	}
	if !strings.Contains(body, "| Credit Score | 612 (poor) |") {
		t.Errorf("GET /snapshot =\n%s", body)
	}
}

func TestAsk(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		opts     []fimcptest.Option
		code     int
		answer   string
		hasError bool
	}{
		{
			name:   "answer",
			body:   `{"persona":"7777777777","question":"Can I afford a ₹50L home loan?"}`,
			code:   http.StatusOK,
			answer: "narrative",
		},
		{
			name:     "narrator failure",
			body:     `{"persona":"7777777777","question":"fail please"}`,
			code:     http.StatusOK,
			answer:   "An error occurred with the AI model: quota exceeded",
			hasError: true,
		},
		{
			name:     "no profile",
			body:     `{"persona":"7777777777","question":"hi"}`,
			opts:     []fimcptest.Option{fimcptest.WithProbeStatus(http.StatusInternalServerError)},
			code:     http.StatusOK,
			answer:   "Could not get AI insights due to missing financial data.",
			hasError: true,
		},
		{name: "missing question", body: `{"persona":"7777777777"}`, code: http.StatusBadRequest},
		{name: "invalid body", body: `{`, code: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.opts...)
			resp, err := http.Post(srv.URL+"/ask", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("POST /ask: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.code {
				t.Fatalf("POST /ask = %d, want %d", resp.StatusCode, tt.code)
			}
			if tt.code != http.StatusOK {
				return
			}
			var got AskResponse
			if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
				t.Fatalf("invalid response: %v", err)
			}
			if got.Answer != tt.answer {
				t.Errorf("answer = %q, want %q", got.Answer, tt.answer)
			}
			if (got.Error != "") != tt.hasError {
				t.Errorf("error = %q, want error: %v", got.Error, tt.hasError)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	if code, _ := get(t, srv.URL+"/health"); code != http.StatusOK {
		t.Errorf("GET /health = %d, want 200", code)
	}
}
