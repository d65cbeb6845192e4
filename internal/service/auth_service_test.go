package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/joseggch15/inboundoutbound-sub000/config"
	"github.com/joseggch15/inboundoutbound-sub000/internal/dto"
	"github.com/joseggch15/inboundoutbound-sub000/internal/model"
	pkgjwt "github.com/joseggch15/inboundoutbound-sub000/pkg/jwt"
)

func newAuthFixture() (AuthService, *testRepos, *pkgjwt.Manager) {
	repos := newTestRepos()
	jwtMgr := pkgjwt.NewManager(&config.AuthConfig{
		JWTSecret:      "unit-test-secret-key",
		AccessTokenTTL: time.Hour,
	})
	svc := NewAuthService(newTestConfig(), repos.repo, jwtMgr, nil, zap.NewNop())
	return svc, repos, jwtMgr
}

func seedAccount(t *testRepos, username, password, role, source string) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	_ = t.account.Create(context.Background(), &model.Account{
		Username: username, PasswordHash: string(hash), Role: role, Source: source,
	})
}

func TestLoginIssuesTokenWithSourceClaim(t *testing.T) {
	svc, repos, jwtMgr := newAuthFixture()
	seedAccount(repos, "planner", "s3cret-pass", "admin", "RGM")

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "planner", Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Source != "RGM" || resp.Role != "admin" {
		t.Fatalf("resp = %+v", resp)
	}

	claims, err := jwtMgr.ParseToken(resp.Token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Username != "planner" || claims.Source != "RGM" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestLoginRejectsWrongPasswordAndUnknownUserAlike(t *testing.T) {
	svc, repos, _ := newAuthFixture()
	seedAccount(repos, "planner", "s3cret-pass", "admin", "RGM")

	_, errWrong := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "planner", Password: "nope",
	})
	_, errUnknown := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "ghost", Password: "nope",
	})

	if !errors.Is(errWrong, ErrInvalidCredentials) || !errors.Is(errUnknown, ErrInvalidCredentials) {
		t.Fatalf("errs = %v / %v, want ErrInvalidCredentials for both", errWrong, errUnknown)
	}
}

func TestLogoutWithoutRedisIsNoOp(t *testing.T) {
	svc, repos, jwtMgr := newAuthFixture()
	seedAccount(repos, "planner", "s3cret-pass", "admin", "RGM")

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "planner", Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, _ := jwtMgr.ParseToken(resp.Token)

	if err := svc.Logout(context.Background(), claims); err != nil {
		t.Fatalf("Logout without redis: %v", err)
	}
}

func TestCreateAccountRejectsDuplicateUsername(t *testing.T) {
	svc, _, _ := newAuthFixture()

	req := &dto.CreateAccountRequest{
		Username: "planner", Password: "longenough1", Role: "operator", Source: "RGM",
	}
	if err := svc.CreateAccount(context.Background(), testActor, req); err != nil {
		t.Fatalf("first CreateAccount: %v", err)
	}
	if err := svc.CreateAccount(context.Background(), testActor, req); !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("err = %v, want ErrUsernameExists", err)
	}
}

func TestEnsureBootstrapAccount(t *testing.T) {
	svc, repos, _ := newAuthFixture()

	if err := svc.EnsureBootstrapAccount(context.Background()); err != nil {
		t.Fatalf("EnsureBootstrapAccount: %v", err)
	}

	admin, err := repos.account.GetByUsername(context.Background(), "admin")
	if err != nil {
		t.Fatalf("bootstrap admin missing: %v", err)
	}
	if admin.Role != "admin" {
		t.Fatalf("role = %q", admin.Role)
	}
	if admin.PasswordHash == "" {
		t.Fatal("bootstrap admin has no password hash")
	}

	// second call leaves the existing account alone
	hash := admin.PasswordHash
	if err := svc.EnsureBootstrapAccount(context.Background()); err != nil {
		t.Fatalf("second EnsureBootstrapAccount: %v", err)
	}
	again, _ := repos.account.GetByUsername(context.Background(), "admin")
	if again.PasswordHash != hash {
		t.Fatal("bootstrap rewrote the existing admin password")
	}
}

func TestGenerateTempPassword(t *testing.T) {
	p, err := generateTempPassword(16)
	if err != nil {
		t.Fatalf("generateTempPassword: %v", err)
	}
	if len(p) != 16 {
		t.Fatalf("len = %d, want 16", len(p))
	}
	q, _ := generateTempPassword(16)
	if p == q {
		t.Fatal("two generated passwords are identical")
	}
}
