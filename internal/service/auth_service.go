package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/joseggch15/inboundoutbound-sub000/config"
	"github.com/joseggch15/inboundoutbound-sub000/internal/dto"
	"github.com/joseggch15/inboundoutbound-sub000/internal/model"
	"github.com/joseggch15/inboundoutbound-sub000/internal/repository"
	pkgjwt "github.com/joseggch15/inboundoutbound-sub000/pkg/jwt"
	"github.com/joseggch15/inboundoutbound-sub000/pkg/redis"
)

// ── auth module errors ──

var (
	ErrInvalidCredentials = errors.New("username or password is wrong")
	ErrUsernameExists     = errors.New("username already taken")
)

// AuthService handles operator sessions and account provisioning.
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	// Logout blacklists the token's jti until its natural expiry. A nil
	// Redis client makes logout a no-op; tokens then expire on their own.
	Logout(ctx context.Context, claims *pkgjwt.Claims) error
	Me(claims *pkgjwt.Claims) *dto.MeResponse
	CreateAccount(ctx context.Context, actor Identity, req *dto.CreateAccountRequest) error
	// EnsureBootstrapAccount creates the first admin with a random password
	// when the accounts table is empty, so a fresh deployment is reachable.
	EnsureBootstrapAccount(ctx context.Context) error
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *pkgjwt.Manager
	rdb    *redis.Client
	logger *zap.Logger
}

// NewAuthService creates the AuthService.
func NewAuthService(cfg *config.Config, repo *repository.Repository, jwtMgr *pkgjwt.Manager, rdb *redis.Client, logger *zap.Logger) AuthService {
	return &authService{cfg: cfg, repo: repo, jwtMgr: jwtMgr, rdb: rdb, logger: logger}
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	account, err := s.repo.Account.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// same error as a wrong password so usernames cannot be probed
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("lookup account failed", zap.String("username", req.Username), zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtMgr.GenerateAccessToken(account.Username, account.Role, account.Source)
	if err != nil {
		s.logger.Error("sign token failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("operator logged in",
		zap.String("username", account.Username),
		zap.String("source", account.Source))

	return &dto.LoginResponse{
		Token:    token,
		Username: account.Username,
		Role:     account.Role,
		Source:   account.Source,
	}, nil
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, claims *pkgjwt.Claims) error {
	if s.rdb == nil {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.rdb.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		s.logger.Warn("blacklist token failed", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Me ──────────────────────

func (s *authService) Me(claims *pkgjwt.Claims) *dto.MeResponse {
	return &dto.MeResponse{
		Username: claims.Username,
		Role:     claims.Role,
		Source:   claims.Source,
	}
}

// ────────────────────── CreateAccount ──────────────────────

func (s *authService) CreateAccount(ctx context.Context, actor Identity, req *dto.CreateAccountRequest) error {
	if _, err := s.repo.Account.GetByUsername(ctx, req.Username); err == nil {
		return fmt.Errorf("%w: %s", ErrUsernameExists, req.Username)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	account := &model.Account{
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         req.Role,
		Source:       req.Source,
	}
	if err := s.repo.Account.Create(ctx, account); err != nil {
		s.logger.Error("create account failed", zap.String("username", req.Username), zap.Error(err))
		return err
	}

	s.audit(ctx, actor, "CREATE_ACCOUNT",
		fmt.Sprintf("username=%s role=%s source=%s", req.Username, req.Role, req.Source))

	return nil
}

// ────────────────────── EnsureBootstrapAccount ──────────────────────

const bootstrapUsername = "admin"

func (s *authService) EnsureBootstrapAccount(ctx context.Context) error {
	if _, err := s.repo.Account.GetByUsername(ctx, bootstrapUsername); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	password, err := generateTempPassword(16)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	account := &model.Account{
		Username:     bootstrapUsername,
		PasswordHash: string(hash),
		Role:         "admin",
		Source:       "DEFAULT",
	}
	if err := s.repo.Account.Create(ctx, account); err != nil {
		return err
	}

	// printed once at first startup; change it after logging in
	s.logger.Warn("bootstrap admin account created",
		zap.String("username", bootstrapUsername),
		zap.String("password", password))

	return nil
}

// ── internal helpers ──

const tempPasswordCharset = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generateTempPassword draws from a charset without look-alike characters.
func generateTempPassword(length int) (string, error) {
	buf := make([]byte, length)
	max := big.NewInt(int64(len(tempPasswordCharset)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = tempPasswordCharset[n.Int64()]
	}
	return string(buf), nil
}

func (s *authService) audit(ctx context.Context, actor Identity, actionType, detail string) {
	entry := &model.AuditLog{
		Username:   actor.Username,
		Source:     actor.Source,
		ActionType: actionType,
		Detail:     detail,
	}
	if err := s.repo.Audit.Append(ctx, entry); err != nil {
		s.logger.Warn("append audit entry failed", zap.Error(err))
	}
}
