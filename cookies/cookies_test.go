package cookies

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-rod/rod/lib/proto"

	"github.com/use-agent/sitepdf/models"
)

func f64(v float64) *float64 { return &v }

func TestNormalize_ExpirationDateTranslation(t *testing.T) {
	records := []models.Cookie{
		{Name: "sid", Value: "abc", Domain: ".google.com", ExpirationDate: f64(1755555555.789)},
	}

	out := Normalize(records)
	if len(out) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(out))
	}
	if got, want := out[0].Expires, proto.TimeSinceEpoch(1755555555); got != want {
		t.Errorf("Expires = %v, want integer-truncated %v", got, want)
	}
}

func TestNormalize_NoExpiryStaysSessionCookie(t *testing.T) {
	records := []models.Cookie{
		{Name: "sid", Value: "abc", Domain: ".google.com"},
	}

	out := Normalize(records)
	if len(out) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(out))
	}
	if out[0].Expires != 0 {
		t.Errorf("Expires = %v, want zero for a session cookie", out[0].Expires)
	}
}

func TestNormalize_ExplicitExpiresWins(t *testing.T) {
	records := []models.Cookie{
		{Name: "sid", Value: "abc", Domain: ".google.com", Expires: f64(100), ExpirationDate: f64(200)},
	}

	out := Normalize(records)
	if got, want := out[0].Expires, proto.TimeSinceEpoch(100); got != want {
		t.Errorf("Expires = %v, want %v (expires takes precedence)", got, want)
	}
}

func TestNormalize_Defaults(t *testing.T) {
	records := []models.Cookie{
		{Name: "sid", Value: "abc", Domain: ".google.com"},
	}

	out := Normalize(records)
	c := out[0]
	if c.Path != "/" {
		t.Errorf("Path = %q, want %q", c.Path, "/")
	}
	if c.Secure || c.HTTPOnly {
		t.Errorf("Secure/HTTPOnly = %v/%v, want false/false", c.Secure, c.HTTPOnly)
	}
}

func TestNormalize_DropsUnusableRecords(t *testing.T) {
	records := []models.Cookie{
		{Name: "", Value: "v", Domain: "d"},
		{Name: "n", Value: "", Domain: "d"},
		{Name: "n", Value: "v", Domain: ""},
		{Name: "ok", Value: "v", Domain: ".google.com"},
	}

	out := Normalize(records)
	if len(out) != 1 {
		t.Fatalf("expected 1 usable cookie, got %d", len(out))
	}
	if out[0].Name != "ok" {
		t.Errorf("kept cookie %q, want %q", out[0].Name, "ok")
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	data := `[
		{"name": "SID", "value": "xyz", "domain": ".google.com", "path": "/", "secure": true, "httpOnly": true, "expirationDate": 1999999999.5},
		{"name": "SSID", "value": "uvw", "domain": ".google.com"}
	]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 cookies, got %d", len(out))
	}
	if out[0].Expires != proto.TimeSinceEpoch(1999999999) {
		t.Errorf("Expires = %v, want 1999999999", out[0].Expires)
	}
	if !out[0].Secure || !out[0].HTTPOnly {
		t.Errorf("Secure/HTTPOnly not preserved: %v/%v", out[0].Secure, out[0].HTTPOnly)
	}
}

func TestLoad_MissingFileIsFatalConfigError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected an error for a missing cookie file")
	}
	var exportErr *models.ExportError
	if !errors.As(err, &exportErr) || exportErr.Code != models.ErrCodeConfig {
		t.Errorf("error = %v, want code %s", err, models.ErrCodeConfig)
	}
}

func TestLoad_InvalidJSONIsFatalConfigError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
	var exportErr *models.ExportError
	if !errors.As(err, &exportErr) || exportErr.Code != models.ErrCodeConfig {
		t.Errorf("error = %v, want code %s", err, models.ErrCodeConfig)
	}
}
