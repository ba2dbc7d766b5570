// Package scaffold renders a Spring Boot project skeleton from a
// controller configuration produced by the model.
package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"

	"gopkg.in/yaml.v3"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Settings carries the values substituted into the templates.
type Settings struct {
	Name       string
	Version    string
	Package    string
	ServerPort int
}

type endpointData struct {
	Method  string
	Path    string
	Handler string
}

// Generate writes the project skeleton under outDir: a Maven build
// descriptor, an application.yml carrying the controller configuration,
// and the two Java sources. Directories are created as needed and
// existing files are overwritten. Writes are sequential with no
// rollback, so a failure can leave earlier files in place.
func Generate(settings Settings, controller map[string]any, outDir string) ([]string, error) {
	endpoints, err := endpointsFrom(controller)
	if err != nil {
		return nil, err
	}
	controllerYAML, err := marshalIndented(controller)
	if err != nil {
		return nil, fmt.Errorf("marshal controller config: %w", err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}

	javaDir := filepath.Join("src", "main", "java", filepath.FromSlash(strings.ReplaceAll(settings.Package, ".", "/")))

	files := []struct {
		tmpl string
		rel  string
		data any
	}{
		{"pom.xml.tmpl", "pom.xml", settings},
		{"application.yml.tmpl", filepath.Join("src", "main", "resources", "application.yml"), struct {
			Settings
			ControllerYAML string
		}{settings, controllerYAML}},
		{"MainApplication.java.tmpl", filepath.Join(javaDir, "MainApplication.java"), settings},
		{"RestController.java.tmpl", filepath.Join(javaDir, "McpRestController.java"), struct {
			Settings
			Endpoints []endpointData
		}{settings, endpoints}},
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		content, err := render(f.tmpl, f.data)
		if err != nil {
			return written, err
		}
		abs := filepath.Join(outDir, f.rel)
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return written, err
		}
		if err := os.WriteFile(abs, content, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", f.rel, err)
		}
		written = append(written, filepath.ToSlash(f.rel))
	}
	return written, nil
}

func render(name string, data any) ([]byte, error) {
	raw, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		return nil, fmt.Errorf("load template %s: %w", name, err)
	}
	tmpl, err := template.New(name).Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// endpointsFrom pulls the endpoint list out of the otherwise unvalidated
// controller configuration. The list is the one piece the controller
// template cannot do without.
func endpointsFrom(controller map[string]any) ([]endpointData, error) {
	raw, ok := controller["endpoints"]
	if !ok {
		return nil, fmt.Errorf("controller config has no endpoints")
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("controller config endpoints is not a list")
	}
	out := make([]endpointData, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		ep := endpointData{
			Method: strings.ToUpper(stringField(m, "method", "GET")),
			Path:   stringField(m, "path", "/"),
		}
		ep.Handler = handlerName(ep.Method, ep.Path, i)
		out = append(out, ep)
	}
	return out, nil
}

func stringField(m map[string]any, key, fallback string) string {
	if v, ok := m[key].(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

// handlerName derives a Java method name like getUsersId from the
// method and path; the index keeps names unique when derivation
// collapses two endpoints to the same name.
func handlerName(method, path string, index int) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(method))
	for _, seg := range strings.Split(path, "/") {
		seg = strings.Trim(seg, "{}")
		up := true
		for _, r := range seg {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				up = true
				continue
			}
			if up {
				b.WriteRune(unicode.ToUpper(r))
				up = false
			} else {
				b.WriteRune(r)
			}
		}
	}
	name := b.String()
	if index > 0 {
		name = fmt.Sprintf("%s%d", name, index)
	}
	return name
}

// marshalIndented renders the controller config as YAML indented to sit
// under the mcp key of application.yml.
func marshalIndented(controller map[string]any) (string, error) {
	data, err := yaml.Marshal(controller)
	if err != nil {
		return "", err
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = "  " + line
		}
	}
	return strings.Join(lines, "\n"), nil
}
