package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/moklab/auth-service/internal/core/domain"
	"github.com/moklab/auth-service/internal/core/ports"
	"github.com/moklab/auth-service/internal/core/token"
)

// AuthService implements registration and credential verification.
type AuthService struct {
	repo     ports.UserRepository
	codec    *token.Codec
	throttle ports.LoginThrottle
	audit    ports.AuditSink
}

// NewAuthService wires the service. throttle and audit are optional; pass nil
// to disable login throttling or audit recording.
func NewAuthService(repo ports.UserRepository, codec *token.Codec, throttle ports.LoginThrottle, audit ports.AuditSink) *AuthService {
	return &AuthService{repo: repo, codec: codec, throttle: throttle, audit: audit}
}

// Register creates a new account with the default role and enabled flag.
// The duplicate pre-checks give precise errors on the common path; the store's
// unique indexes remain authoritative under concurrent registrations.
func (s *AuthService) Register(ctx context.Context, username, password, email string) (*domain.User, error) {
	if username == "" || password == "" || email == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if taken, err := s.repo.ExistsByUsername(ctx, username); err != nil {
		return nil, err
	} else if taken {
		return nil, domain.ErrUsernameTaken
	}
	if taken, err := s.repo.ExistsByEmail(ctx, email); err != nil {
		return nil, err
	} else if taken {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.record(username, domain.AuditActionRegister, domain.AuditOutcomeSuccess)
	return created, nil
}

// Login verifies credentials and issues a bearer token for the account.
// Absent users and password mismatches are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		// A throttle backend failure must not lock everyone out; treat it
		// as allowed and let the audit trail surface the gap.
		if allowed, err := s.throttle.Allow(ctx, username); err == nil && !allowed {
			s.record(username, domain.AuditActionLogin, domain.AuditOutcomeThrottle)
			return "", nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return "", nil, s.loginFailed(ctx, username)
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, s.loginFailed(ctx, username)
	}

	if !user.Enabled {
		s.record(username, domain.AuditActionLogin, domain.AuditOutcomeDenied)
		return "", nil, domain.ErrUserDisabled
	}

	signed, err := s.codec.Issue(user.Username, time.Now().UTC())
	if err != nil {
		return "", nil, err
	}

	if s.throttle != nil {
		_ = s.throttle.Reset(ctx, username)
	}
	s.record(username, domain.AuditActionLogin, domain.AuditOutcomeSuccess)
	return signed, user, nil
}

func (s *AuthService) loginFailed(ctx context.Context, username string) error {
	if s.throttle != nil {
		_ = s.throttle.RecordFailure(ctx, username)
	}
	s.record(username, domain.AuditActionLogin, domain.AuditOutcomeDenied)
	return domain.ErrInvalidCredentials
}

func (s *AuthService) record(username string, action domain.AuditAction, outcome string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuditEntry{
		Username: username,
		Action:   action,
		Outcome:  outcome,
		At:       time.Now().UTC(),
	})
}
