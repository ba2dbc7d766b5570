package sanitize

import (
	"strings"
	"testing"

	"github.com/yourorg/rest2mcp/internal/config"
)

func testCfg() config.SanitizeConfig {
	c := &config.Config{}
	c.SetDefaults()
	return c.Sanitize
}

func TestRedactHeaderLines(t *testing.T) {
	desc := "GET /users/{id}\nAuthorization: Bearer abc123\nAccept: application/json"
	got := Redact(desc, testCfg())
	if strings.Contains(got, "abc123") {
		t.Fatalf("expected bearer token redacted, got %q", got)
	}
	if !strings.Contains(got, "Authorization: ***REDACTED***") {
		t.Fatalf("expected replacement marker, got %q", got)
	}
	if !strings.Contains(got, "Accept: application/json") {
		t.Fatalf("non-sensitive header must survive, got %q", got)
	}
}

func TestRedactQueryValues(t *testing.T) {
	desc := "GET https://api.example.com/users?api_key=supersecret&page=2"
	got := Redact(desc, testCfg())
	if strings.Contains(got, "supersecret") {
		t.Fatalf("expected api_key value redacted, got %q", got)
	}
	if !strings.Contains(got, "page=2") {
		t.Fatalf("expected page param untouched, got %q", got)
	}
}

func TestRedactJSONBody(t *testing.T) {
	desc := `{"path":"/login","body":{"username":"u","password":"hunter2"}}`
	got := Redact(desc, testCfg())
	if strings.Contains(got, "hunter2") {
		t.Fatalf("expected nested password redacted, got %q", got)
	}
	if !strings.Contains(got, `"username":"u"`) {
		t.Fatalf("expected username untouched, got %q", got)
	}
}

func TestRedactPlainURLUntouched(t *testing.T) {
	desc := "GET https://api.example.com/users/{id}"
	if got := Redact(desc, testCfg()); got != desc {
		t.Fatalf("expected plain URL unchanged, got %q", got)
	}
}
