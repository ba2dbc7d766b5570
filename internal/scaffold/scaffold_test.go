package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func testSettings() Settings {
	return Settings{Name: "demo-mcp", Version: "1.0.0", Package: "com.example.demo", ServerPort: 8080}
}

func testController() map[string]any {
	return map[string]any{
		"endpoints": []any{
			map[string]any{"path": "/users/{id}", "method": "GET"},
		},
		"security": map[string]any{"type": "none"},
	}
}

func TestGenerateWritesFourFiles(t *testing.T) {
	outDir := t.TempDir()
	written, err := Generate(testSettings(), testController(), outDir)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	want := []string{
		"pom.xml",
		"src/main/resources/application.yml",
		"src/main/java/com/example/demo/MainApplication.java",
		"src/main/java/com/example/demo/McpRestController.java",
	}
	if len(written) != len(want) {
		t.Fatalf("expected %d files, got %v", len(want), written)
	}
	for i, rel := range want {
		if written[i] != rel {
			t.Fatalf("expected %s at position %d, got %s", rel, i, written[i])
		}
		if _, err := os.Stat(filepath.Join(outDir, filepath.FromSlash(rel))); err != nil {
			t.Fatalf("expected file %s: %v", rel, err)
		}
	}
}

func TestGenerateSubstitutesValues(t *testing.T) {
	outDir := t.TempDir()
	if _, err := Generate(testSettings(), testController(), outDir); err != nil {
		t.Fatal(err)
	}

	pom, _ := os.ReadFile(filepath.Join(outDir, "pom.xml"))
	if !strings.Contains(string(pom), "<artifactId>demo-mcp</artifactId>") {
		t.Fatalf("pom.xml missing project name:\n%s", pom)
	}
	if !strings.Contains(string(pom), "<version>1.0.0</version>") {
		t.Fatalf("pom.xml missing version")
	}

	appYml, _ := os.ReadFile(filepath.Join(outDir, "src", "main", "resources", "application.yml"))
	var parsed map[string]any
	if err := yaml.Unmarshal(appYml, &parsed); err != nil {
		t.Fatalf("application.yml is not valid YAML: %v\n%s", err, appYml)
	}
	srv, _ := parsed["server"].(map[string]any)
	if srv["port"] != 8080 {
		t.Fatalf("expected server.port 8080, got %v", srv["port"])
	}
	mcp, _ := parsed["mcp"].(map[string]any)
	if _, ok := mcp["endpoints"]; !ok {
		t.Fatalf("expected controller config under mcp key:\n%s", appYml)
	}

	main, _ := os.ReadFile(filepath.Join(outDir, "src", "main", "java", "com", "example", "demo", "MainApplication.java"))
	if !strings.Contains(string(main), "package com.example.demo;") {
		t.Fatalf("MainApplication.java missing package:\n%s", main)
	}

	ctrl, _ := os.ReadFile(filepath.Join(outDir, "src", "main", "java", "com", "example", "demo", "McpRestController.java"))
	if !strings.Contains(string(ctrl), `value = "/users/{id}"`) {
		t.Fatalf("controller missing endpoint path:\n%s", ctrl)
	}
	if !strings.Contains(string(ctrl), "RequestMethod.GET") {
		t.Fatalf("controller missing method:\n%s", ctrl)
	}
	if !strings.Contains(string(ctrl), "getUsersId()") {
		t.Fatalf("controller missing derived handler name:\n%s", ctrl)
	}
}

func TestGenerateOverwritesOnSecondRun(t *testing.T) {
	// Re-running against the same directory is not guarded: files are
	// simply rewritten in place.
	outDir := t.TempDir()
	if _, err := Generate(testSettings(), testController(), outDir); err != nil {
		t.Fatal(err)
	}
	marker := filepath.Join(outDir, "pom.xml")
	if err := os.WriteFile(marker, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Generate(testSettings(), testController(), outDir); err != nil {
		t.Fatal(err)
	}
	pom, _ := os.ReadFile(marker)
	if string(pom) == "stale" {
		t.Fatalf("expected pom.xml rewritten on second run")
	}
}

func TestGenerateFailsWithoutEndpoints(t *testing.T) {
	outDir := t.TempDir()
	if _, err := Generate(testSettings(), map[string]any{"security": "none"}, outDir); err == nil {
		t.Fatalf("expected error for controller config without endpoints")
	}
}

func TestHandlerName(t *testing.T) {
	if got := handlerName("GET", "/users/{id}", 0); got != "getUsersId" {
		t.Fatalf("unexpected handler name %q", got)
	}
	if got := handlerName("POST", "/users", 2); got != "postUsers2" {
		t.Fatalf("unexpected handler name %q", got)
	}
}
