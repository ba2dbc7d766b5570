package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/yourorg/rest2mcp/pkg/types"
)

func fakeLLMServer(t *testing.T, responses ...string) *httptest.Server {
	t.Helper()
	var calls int32
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(atomic.AddInt32(&calls, 1)) - 1
		if n >= len(responses) {
			t.Errorf("unexpected llm call %d", n+1)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": responses[n]}},
			},
		})
	}))
}

func writeTestConfig(t *testing.T, dir, baseURL string) string {
	t.Helper()
	cfgPath := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf(`project:
  name: demo-mcp
  version: 1.0.0
  package: com.example.demo
server:
  port: 8080
llm:
  provider: openai
  api_key: sk-test
  base_url: %s
  model: gpt-4o
history:
  path: %s
log:
  level: error
`, baseURL, filepath.Join(dir, "rest2mcp.db"))
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return cfgPath
}

func TestConvertCommandEndToEnd(t *testing.T) {
	srv := fakeLLMServer(t,
		`{"methods":["GET"],"params":["id"]}`,
		"endpoints:\n  - path: /users/{id}\n    method: GET\n",
	)
	defer srv.Close()

	tmp := t.TempDir()
	cfgPath := writeTestConfig(t, tmp, srv.URL)
	outDir := filepath.Join(tmp, "out")

	root := newRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"convert", "GET /users/{id}", outDir, "--config", cfgPath})
	if err := root.Execute(); err != nil {
		t.Fatalf("convert command error: %v", err)
	}

	var res types.Result
	if err := json.Unmarshal(buf.Bytes(), &res); err != nil {
		t.Fatalf("stdout is not a JSON result: %v\n%s", err, buf.String())
	}
	if res.Status != types.StatusSuccess {
		t.Fatalf("expected success result, got %+v", res)
	}
	if _, err := os.Stat(filepath.Join(outDir, "pom.xml")); err != nil {
		t.Fatalf("expected scaffolded pom.xml: %v", err)
	}
}

func TestConvertCommandConfigErrorPrintsErrorResult(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "config.yaml")
	// project.name missing: validation fails before any model call.
	if err := os.WriteFile(cfgPath, []byte("server:\n  port: 8080\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	root := newRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"convert", "GET /users", filepath.Join(tmp, "out"), "--config", cfgPath})
	if err := root.Execute(); err != nil {
		t.Fatalf("convert must exit normally on config errors, got %v", err)
	}

	var res types.Result
	if err := json.Unmarshal(buf.Bytes(), &res); err != nil {
		t.Fatalf("stdout is not a JSON result: %v\n%s", err, buf.String())
	}
	if res.Status != types.StatusError {
		t.Fatalf("expected error result, got %+v", res)
	}
	if _, err := os.Stat(filepath.Join(tmp, "out")); !os.IsNotExist(err) {
		t.Fatalf("no output may be written on config failure")
	}
}
