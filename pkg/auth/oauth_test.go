package auth

import (
	"path/filepath"
	"testing"
)

func TestRedirectURL(t *testing.T) {
	local := "http://localhost:" + LocalhostAuthPort + "/oauth2callback"
	tests := []struct {
		configured string
		want       string
	}{
		{"", local},
		{"urn:ietf:wg:oauth:2.0:oob", local},
		{"http://localhost", "http://localhost:" + LocalhostAuthPort},
		{"http://localhost:8080/callback", "http://localhost:" + LocalhostAuthPort + "/callback"},
		{"http://127.0.0.1/cb", "http://127.0.0.1:" + LocalhostAuthPort + "/cb"},
		{"https://example.com/cb", "https://example.com/cb"},
	}
	for _, tt := range tests {
		if got := redirectURL(tt.configured); got != tt.want {
			t.Errorf("redirectURL(%q): expected %q, got %q", tt.configured, tt.want, got)
		}
	}
}

func TestTokenPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := TokenPath()
	if err != nil {
		t.Fatalf("TokenPath failed: %v", err)
	}
	want := filepath.Join(home, ".config", xdgAppName, TokenFile)
	if path != want {
		t.Errorf("Expected %s, got %s", want, path)
	}
}

func TestResetTokenWithoutToken(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if err := ResetToken(); err != nil {
		t.Errorf("Expected no error when there is no token, got %v", err)
	}
}

func TestGetConfigWithoutSecrets(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if _, err := GetConfig(SheetsScopes); err == nil {
		t.Error("Expected an error when the client secrets file is missing")
	}
}
