package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentionscli/internal/config"
)

const prawINI = `[mentionbot]
client_id = cid
client_secret = csecret
username = movebot
password = pw
user_agent = mentions-test/1.0
`

const constituents = `Symbol,Security,Sector
AAPL,Apple,Information Technology
TSLA,Tesla,Consumer Discretionary
NVDA,Nvidia,Information Technology
`

// newRedditServer serves a hot listing with the daily thread pinned second
// and three comments on it.
func newRedditServer(t *testing.T, withThread bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/access_token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"tok","token_type":"bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/api/v1/me", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"name": "MoveBot"})
	})
	mux.HandleFunc("/r/wallstreetbets/hot", func(w http.ResponseWriter, r *http.Request) {
		children := []any{
			map[string]any{"kind": "t3", "data": map[string]any{"id": "rules", "name": "t3_rules", "title": "Rules", "stickied": true}},
		}
		if withThread {
			children = append(children, map[string]any{"kind": "t3", "data": map[string]any{
				"id": "daily", "name": "t3_daily", "title": "What Are Your Moves Tomorrow, May 02, 2024", "stickied": true,
			}})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"kind": "Listing", "data": map[string]any{"children": children}})
	})
	mux.HandleFunc("/comments/daily", func(w http.ResponseWriter, r *http.Request) {
		comment := func(id, body string) map[string]any {
			return map[string]any{"kind": "t1", "data": map[string]any{"id": id, "parent_id": "t3_daily", "body": body, "replies": ""}}
		}
		_ = json.NewEncoder(w).Encode([]any{
			map[string]any{"kind": "Listing", "data": map[string]any{"children": []any{}}},
			map[string]any{"kind": "Listing", "data": map[string]any{"children": []any{
				comment("a", "Apple and AAPL both up"),
				comment("b", "TSLA puts, tesla is done"),
				comment("c", "nvda"),
			}}},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// setupBase lays out a base directory and returns it with a config file
// pointing the client at srv.
func setupBase(t *testing.T, srv *httptest.Server, extra string) (string, string) {
	t.Helper()
	base := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(base, ".config"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(base, "data"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(base, ".config", "praw.ini"), []byte(prawINI), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(base, ".config", "reddit_name"), []byte("mentionbot\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(base, "data", "constituents.csv"), []byte(constituents), 0644))

	cfgFile := filepath.Join(base, "config.yaml")
	yml := fmt.Sprintf(`paths:
  base_dir: %s
reddit:
  token_url: %s/api/v1/access_token
  api_base_url: %s
logging:
  output: both
%s`, base, srv.URL, srv.URL, extra)
	require.NoError(t, os.WriteFile(cfgFile, []byte(yml), 0644))
	return base, cfgFile
}

func TestRun_Success(t *testing.T) {
	srv := newRedditServer(t, true)
	base, cfgFile := setupBase(t, srv, "")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-config", cfgFile}, &stdout, &stderr)
	require.Equal(t, 0, code, "stderr: %s", stderr.String())

	reports, err := filepath.Glob(filepath.Join(base, config.DefaultResultsDir, "equity_mentions_*.csv"))
	require.NoError(t, err)
	require.Len(t, reports, 1)

	content, err := os.ReadFile(reports[0])
	require.NoError(t, err)
	assert.Equal(t, "Ticker,Mentions\naapl,2\ntsla,2\nnvda,1\n", string(content))

	logs, err := filepath.Glob(filepath.Join(base, config.DefaultLogsDir, "*.log"))
	require.NoError(t, err)
	require.Len(t, logs, 1)
	logContent, err := os.ReadFile(logs[0])
	require.NoError(t, err)
	assert.Contains(t, string(logContent), `"msg":"Stage completed"`)
	assert.Contains(t, string(logContent), `"run_id"`)

	// Console receives the same records
	assert.Contains(t, stdout.String(), "Logging to: ")
	assert.Contains(t, stdout.String(), `"msg":"Comments fetched"`)
	assert.Contains(t, stdout.String(), "Report written to: ")

	assert.FileExists(t, filepath.Join(base, config.DefaultResultsDir, config.DefaultMetricsFile))
}

func TestRun_FlagsOverrideConfig(t *testing.T) {
	srv := newRedditServer(t, true)
	base, cfgFile := setupBase(t, srv, "telemetry:\n  metrics: false\n  tracing: true\n")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{
		"-config", cfgFile,
		"-format", "xlsx",
		"-out", "custom",
		"-hot-limit", "5",
	}, &stdout, &stderr)
	require.Equal(t, 0, code, "stderr: %s", stderr.String())

	reports, err := filepath.Glob(filepath.Join(base, "custom", "equity_mentions_*.xlsx"))
	require.NoError(t, err)
	assert.Len(t, reports, 1)

	assert.NoFileExists(t, filepath.Join(base, "custom", config.DefaultMetricsFile))
	// Spans are exported to the log sink
	assert.Contains(t, stdout.String(), `"Name":"stage.fetch_comments"`)
}

func TestRun_FlagReplacesInvalidConfigValue(t *testing.T) {
	srv := newRedditServer(t, true)
	base, cfgFile := setupBase(t, srv, "report:\n  format: pdf\n")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-config", cfgFile, "-format", "csv"}, &stdout, &stderr)
	require.Equal(t, 0, code, "stderr: %s", stderr.String())

	reports, err := filepath.Glob(filepath.Join(base, config.DefaultResultsDir, "equity_mentions_*.csv"))
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}

func TestRun_Failures(t *testing.T) {
	t.Run("missing daily thread", func(t *testing.T) {
		srv := newRedditServer(t, false)
		base, cfgFile := setupBase(t, srv, "")

		var stdout, stderr bytes.Buffer
		code := run(context.Background(), []string{"-config", cfgFile}, &stdout, &stderr)
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr.String(), "not found")

		reports, _ := filepath.Glob(filepath.Join(base, config.DefaultResultsDir, "equity_mentions_*"))
		assert.Empty(t, reports)
	})

	t.Run("missing lexicon", func(t *testing.T) {
		srv := newRedditServer(t, true)
		_, cfgFile := setupBase(t, srv, "")

		var stdout, stderr bytes.Buffer
		code := run(context.Background(), []string{"-config", cfgFile, "-lexicon", "data/missing.csv"}, &stdout, &stderr)
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr.String(), "DATA")
	})

	t.Run("invalid format flag", func(t *testing.T) {
		srv := newRedditServer(t, true)
		_, cfgFile := setupBase(t, srv, "")

		var stdout, stderr bytes.Buffer
		code := run(context.Background(), []string{"-config", cfgFile, "-format", "pdf"}, &stdout, &stderr)
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr.String(), "Invalid configuration")
	})

	t.Run("unknown flag", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := run(context.Background(), []string{"-nope"}, &stdout, &stderr)
		assert.Equal(t, 1, code)
	})
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-version"}, &stdout, &stderr)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "mentions v")
}
