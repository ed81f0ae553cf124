package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestConfigFrom(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
		want *Config
	}{
		{
			name: "defaults",
			vars: nil,
			want: &Config{
				FiURL:    "http://localhost:8080",
				Model:    "gemini-2.5-flash",
				Timeout:  8 * time.Second,
				CacheTTL: 5 * time.Minute,
				Addr:     "localhost:8501",
			},
		},
		{
			name: "overrides",
			vars: map[string]string{
				envFiURL:        "https://fi.example.com/",
				envGoogleAPIKey: "google-key",
				envModel:        "gemini-2.5-pro",
				envTimeout:      "2s",
				envCacheTTL:     "1m",
				envAddr:         ":9000",
			},
			want: &Config{
				FiURL:    "https://fi.example.com/",
				APIKey:   "google-key",
				Model:    "gemini-2.5-pro",
				Timeout:  2 * time.Second,
				CacheTTL: time.Minute,
				Addr:     ":9000",
			},
		},
		{
			name: "gemini key first",
			vars: map[string]string{envAPIKey: "gemini-key", envGoogleAPIKey: "google-key"},
			want: &Config{
				FiURL:    "http://localhost:8080",
				APIKey:   "gemini-key",
				Model:    "gemini-2.5-flash",
				Timeout:  8 * time.Second,
				CacheTTL: 5 * time.Minute,
				Addr:     "localhost:8501",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := configFrom(env(tt.vars))
			if err != nil {
				t.Fatalf("configFrom() unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("configFrom() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConfigFromInvalid(t *testing.T) {
	for _, vars := range []map[string]string{
		{envFiURL: "localhost:8080"},
		{envFiURL: "ftp://host"},
		{envTimeout: "soon"},
		{envTimeout: "-1s"},
		{envCacheTTL: "0s"},
	} {
		if _, err := configFrom(env(vars)); err == nil {
			t.Errorf("configFrom(%v) should fail", vars)
		}
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("FIA_MODEL=from-file\nFIA_ADDR=:7000\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(envModel, "")
	t.Setenv(envAddr, ":6000")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() unexpected error: %v", err)
	}
	if cfg.Addr != ":6000" {
		t.Errorf("LoadConfig() Addr = %q, want the environment to win", cfg.Addr)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Errorf("LoadConfig(missing file) should fail")
	}
}
