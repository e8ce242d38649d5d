package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
	"github.com/baalimago/pplx/internal/perplexity"
)

type goldenFileTestCase struct {
	expect          string
	givenArgs       []string
	givenEnvs       map[string]string
	wantOutExactly  string
	wantOutContains string
	wantStatusCode  int
	wantRequests    int64
}

const okBody = `{"id":"1","model":"sonar-pro","choices":[{"index":0,"message":{"role":"assistant","content":"Stockholm."},"finish_reason":"stop"}],"usage":{"prompt_tokens":12,"completion_tokens":3,"total_tokens":15}}`

// newPerplexityServer answers like the chat completions endpoint. The bearer
// token 'good' is accepted, everything else gets a 401.
func newPerplexityServer(t *testing.T, requests *atomic.Int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unauthorized"))
			return
		}
		b, _ := io.ReadAll(r.Body)
		var body perplexity.RequestBody
		if err := json.Unmarshal(b, &body); err != nil || len(body.Messages) != 2 {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("bad request"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(okBody))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func Test_goldenFile(t *testing.T) {
	wantReport := `=== API Response ===
Model: sonar-pro

=== Message ===
Stockholm.

=== Other Details ===
Finish Reason: stop

=== Usage ===
Prompt_tokens: 12
Completion_tokens: 3
Total_tokens: 15
`
	tcs := []goldenFileTestCase{
		{
			expect:         "query prints sectioned report",
			givenArgs:      []string{"-q", "What is the capital of Sweden?"},
			givenEnvs:      map[string]string{"PERPLEXITY_API_KEY": "good"},
			wantOutExactly: wantReport,
			wantStatusCode: 0,
			wantRequests:   1,
		},
		{
			expect:         "positional query",
			givenArgs:      []string{"-m", "sonar", "What", "is", "the", "capital?"},
			givenEnvs:      map[string]string{"PERPLEXITY_API_KEY": "good"},
			wantOutExactly: wantReport,
			wantStatusCode: 0,
			wantRequests:   1,
		},
		{
			expect:          "raw prints json",
			givenArgs:       []string{"-r", "-q", "hi"},
			givenEnvs:       map[string]string{"PERPLEXITY_API_KEY": "good"},
			wantOutContains: `"finish_reason": "stop"`,
			wantStatusCode:  0,
			wantRequests:    1,
		},
		{
			expect:          "list models needs no credential",
			givenArgs:       []string{"-l"},
			givenEnvs:       map[string]string{"PERPLEXITY_API_KEY": ""},
			wantOutContains: "Available models:\n- sonar-reasoning-pro\n",
			wantStatusCode:  0,
			wantRequests:    0,
		},
		{
			expect:          "help",
			givenArgs:       []string{"-h"},
			givenEnvs:       map[string]string{"PERPLEXITY_API_KEY": ""},
			wantOutContains: "Usage: pplx [flags] [query]",
			wantStatusCode:  0,
			wantRequests:    0,
		},
		{
			expect:          "version",
			givenArgs:       []string{"-version"},
			givenEnvs:       map[string]string{"PERPLEXITY_API_KEY": ""},
			wantOutContains: "version: ",
			wantStatusCode:  0,
			wantRequests:    0,
		},
		{
			expect:         "missing credential",
			givenArgs:      []string{"-q", "hi"},
			givenEnvs:      map[string]string{"PERPLEXITY_API_KEY": ""},
			wantStatusCode: 1,
			wantRequests:   0,
		},
		{
			expect:         "rejected credential",
			givenArgs:      []string{"-q", "hi"},
			givenEnvs:      map[string]string{"PERPLEXITY_API_KEY": "bad"},
			wantStatusCode: 1,
			wantRequests:   1,
		},
		{
			expect:         "unknown model",
			givenArgs:      []string{"-m", "gpt-4", "-q", "hi"},
			givenEnvs:      map[string]string{"PERPLEXITY_API_KEY": "good"},
			wantStatusCode: 1,
			wantRequests:   0,
		},
		{
			expect:         "unknown model without validation",
			givenArgs:      []string{"-nv", "-m", "gpt-4", "-q", "hi"},
			givenEnvs:      map[string]string{"PERPLEXITY_API_KEY": "good"},
			wantOutExactly: wantReport,
			wantStatusCode: 0,
			wantRequests:   1,
		},
		{
			expect:         "no query",
			givenArgs:      []string{"-m", "sonar"},
			givenEnvs:      map[string]string{"PERPLEXITY_API_KEY": "good"},
			wantStatusCode: 1,
			wantRequests:   0,
		},
		{
			expect:         "non positive tokens",
			givenArgs:      []string{"-t", "0", "-q", "hi"},
			givenEnvs:      map[string]string{"PERPLEXITY_API_KEY": "good"},
			wantStatusCode: 1,
			wantRequests:   0,
		},
		{
			expect:         "conflicting flags",
			givenArgs:      []string{"-m", "sonar", "-model", "sonar-pro", "-q", "hi"},
			givenEnvs:      map[string]string{"PERPLEXITY_API_KEY": "good"},
			wantStatusCode: 1,
			wantRequests:   0,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.expect, func(t *testing.T) {
			var requests atomic.Int64
			srv := newPerplexityServer(t, &requests)
			confDir := t.TempDir()
			t.Setenv("PPLX_CONFIG_DIR", confDir)
			t.Setenv("NO_COLOR", "true")
			for k, v := range tc.givenEnvs {
				t.Setenv(k, v)
			}

			args := append([]string{"-u", srv.URL}, tc.givenArgs...)
			var gotStatusCode int
			gotStdout := testboil.CaptureStdout(t, func(t *testing.T) {
				gotStatusCode = run(args)
			})

			testboil.FailTestIfDiff(t, gotStatusCode, tc.wantStatusCode)
			testboil.FailTestIfDiff(t, requests.Load(), tc.wantRequests)
			if tc.wantOutContains != "" {
				testboil.AssertStringContains(t, gotStdout, tc.wantOutContains)
			}
			if tc.wantOutExactly != "" {
				testboil.FailTestIfDiff(t, gotStdout, tc.wantOutExactly)
			}
		})
	}
}

func Test_goldenFile_listModels_isStable(t *testing.T) {
	t.Setenv("PPLX_CONFIG_DIR", t.TempDir())
	t.Setenv("NO_COLOR", "true")
	first := testboil.CaptureStdout(t, func(t *testing.T) {
		testboil.FailTestIfDiff(t, run([]string{"-l"}), 0)
	})
	second := testboil.CaptureStdout(t, func(t *testing.T) {
		testboil.FailTestIfDiff(t, run([]string{"-list-models"}), 0)
	})
	testboil.FailTestIfDiff(t, first, second)
}

func Test_goldenFile_usesConfigDefaults(t *testing.T) {
	var gotModel string
	var gotMaxTokens int
	var gotSystem string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body perplexity.RequestBody
		b, _ := io.ReadAll(r.Body)
		json.Unmarshal(b, &body)
		gotModel = body.Model
		gotMaxTokens = body.MaxTokens
		if len(body.Messages) > 0 {
			gotSystem = body.Messages[0].Content
		}
		w.Write([]byte(okBody))
	}))
	t.Cleanup(srv.Close)

	confDir := t.TempDir()
	conf := `{"model":"sonar","max-tokens":4000,"system-prompt":"You are an AI assistant.","url":"` + srv.URL + `"}`
	if err := os.WriteFile(filepath.Join(confDir, "config.json"), []byte(conf), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("PPLX_CONFIG_DIR", confDir)
	t.Setenv("PERPLEXITY_API_KEY", "good")
	t.Setenv("NO_COLOR", "true")

	var gotStatusCode int
	out := testboil.CaptureStdout(t, func(t *testing.T) {
		gotStatusCode = run(strings.Split("-q hello", " "))
	})
	testboil.FailTestIfDiff(t, gotStatusCode, 0)
	testboil.AssertStringContains(t, out, "Stockholm.")
	testboil.FailTestIfDiff(t, gotModel, "sonar")
	testboil.FailTestIfDiff(t, gotMaxTokens, 4000)
	testboil.FailTestIfDiff(t, gotSystem, "You are an AI assistant.")
}
