package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/joseggch15/inboundoutbound-sub000/config"
)

func newTestManager(ttl time.Duration) *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-at-least-16-chars",
		AccessTokenTTL: ttl,
	})
}

func TestManager_GenerateAndParse(t *testing.T) {
	m := newTestManager(time.Hour)

	tok, err := m.GenerateAccessToken("admin", "admin", "RGM")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	claims, err := m.ParseToken(tok)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.Username != "admin" || claims.Role != "admin" || claims.Source != "RGM" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.ID == "" {
		t.Error("expected a jti on the token")
	}
}

func TestManager_ParseExpired(t *testing.T) {
	m := newTestManager(-time.Minute)

	tok, err := m.GenerateAccessToken("admin", "admin", "RGM")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := m.ParseToken(tok); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got: %v", err)
	}
}

func TestManager_ParseGarbage(t *testing.T) {
	m := newTestManager(time.Hour)

	if _, err := m.ParseToken("not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got: %v", err)
	}
}
