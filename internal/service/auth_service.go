package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/logiscore/logiscore-backend/internal/config"
	"github.com/logiscore/logiscore-backend/internal/domain"
	"github.com/logiscore/logiscore-backend/internal/observability"
	"github.com/logiscore/logiscore-backend/internal/repository"
	"github.com/logiscore/logiscore-backend/internal/security"
)

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidCode        = errors.New("invalid verification code")
	ErrExpiredCode        = errors.New("verification code expired")
	ErrInvalidResetToken  = errors.New("invalid reset token")
	ErrExpiredResetToken  = errors.New("reset token expired")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailDelivery      = errors.New("email delivery failed")
)

// AuthResult is the token payload every successful auth flow returns.
type AuthResult struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *domain.User `json:"user"`
}

type AuthService struct {
	cfg    *config.Config
	users  repository.UserRepository
	jwtMgr *security.JWTManager
	mailer Mailer
	logger *slog.Logger
}

func NewAuthService(cfg *config.Config, users repository.UserRepository, jwtMgr *security.JWTManager, mailer Mailer, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{cfg: cfg, users: users, jwtMgr: jwtMgr, mailer: mailer, logger: logger}
}

func (s *AuthService) Signup(ctx context.Context, email, password, fullName, companyName, userType string) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}
	if userType != domain.UserTypeForwarder {
		userType = domain.UserTypeShipper
	}

	if _, err := s.users.FindByEmail(email); err == nil {
		observability.RecordAuthFlow(ctx, "signup", "duplicate")
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &domain.User{
		Email:            email,
		Username:         emailLocalPart(email),
		FullName:         strings.TrimSpace(fullName),
		CompanyName:      strings.TrimSpace(companyName),
		UserType:         userType,
		SubscriptionTier: domain.TierFree,
		PasswordHash:     hash,
		IsVerified:       false,
		IsActive:         true,
	}
	if err := s.users.Create(user); err != nil {
		// Concurrent signups for one email race to the unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			observability.RecordAuthFlow(ctx, "signup", "duplicate")
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	observability.RecordAuthFlow(ctx, "signup", "success")
	return s.issue(user)
}

func (s *AuthService) Signin(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			observability.RecordAuthFlow(ctx, "signin", "failure")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive || !security.VerifyPassword(password, user.PasswordHash) {
		observability.RecordAuthFlow(ctx, "signin", "failure")
		return nil, ErrInvalidCredentials
	}
	observability.RecordAuthFlow(ctx, "signin", "success")
	return s.issue(user)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrWeakPassword
	}
	user, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if !security.VerifyPassword(currentPassword, user.PasswordHash) {
		observability.RecordAuthFlow(ctx, "change_password", "failure")
		return ErrInvalidCredentials
	}
	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(user); err != nil {
		return err
	}
	observability.RecordAuthFlow(ctx, "change_password", "success")
	return nil
}

// ForgotPassword always acks, whether or not the email exists. Mail
// failures are logged rather than returned for the same reason.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			observability.RecordAuthFlow(ctx, "forgot_password", "unknown_email")
			return nil
		}
		return err
	}

	token, err := security.NewRandomString(32)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	expires := time.Now().UTC().Add(s.cfg.PasswordResetTTL)
	user.ResetToken = token
	user.ResetTokenExpires = &expires
	if err := s.users.Update(user); err != nil {
		return err
	}

	body := fmt.Sprintf("<p>Use this token to reset your LogiScore password:</p><p><strong>%s</strong></p><p>It expires in %d minutes.</p>",
		token, int(s.cfg.PasswordResetTTL.Minutes()))
	if err := s.mailer.Send(ctx, user.Email, "Reset your LogiScore password", body); err != nil {
		observability.RecordEmailDelivery(ctx, "password_reset", "failure")
		s.logger.ErrorContext(ctx, "password reset email failed", "error", err)
		return nil
	}
	observability.RecordEmailDelivery(ctx, "password_reset", "success")
	observability.RecordAuthFlow(ctx, "forgot_password", "success")
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrWeakPassword
	}
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if !user.HasResetToken() || user.ResetToken != token {
		observability.RecordAuthFlow(ctx, "reset_password", "invalid_token")
		return ErrInvalidResetToken
	}
	if time.Now().UTC().After(*user.ResetTokenExpires) {
		observability.RecordAuthFlow(ctx, "reset_password", "expired_token")
		return ErrExpiredResetToken
	}
	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash
	user.ResetToken = ""
	user.ResetTokenExpires = nil
	if err := s.users.Update(user); err != nil {
		return err
	}
	observability.RecordAuthFlow(ctx, "reset_password", "success")
	return nil
}

// SendCode issues a one-time signin code. The code is persisted before
// dispatch and is NOT rolled back when the email fails; the caller sees
// ErrEmailDelivery but a retry of verify-code with the mailed-later or
// resent code still works.
func (s *AuthService) SendCode(ctx context.Context, email string) (int, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := validateEmail(email); err != nil {
		return 0, err
	}

	code, err := security.NewVerificationCode()
	if err != nil {
		return 0, fmt.Errorf("generate code: %w", err)
	}
	expires := time.Now().UTC().Add(s.cfg.VerificationCodeTTL)

	user, err := s.users.FindByEmail(email)
	switch {
	case err == nil:
		user.VerificationCode = code
		user.VerificationCodeExpires = &expires
		if err := s.users.Update(user); err != nil {
			return 0, err
		}
	case errors.Is(err, repository.ErrUserNotFound):
		user = &domain.User{
			Email:                   email,
			Username:                emailLocalPart(email),
			UserType:                domain.UserTypeShipper,
			SubscriptionTier:        domain.TierFree,
			VerificationCode:        code,
			VerificationCodeExpires: &expires,
			IsActive:                true,
		}
		if err := s.users.Create(user); err != nil {
			return 0, err
		}
	default:
		return 0, err
	}

	expiresIn := int(s.cfg.VerificationCodeTTL.Minutes())
	body := fmt.Sprintf("<p>Your LogiScore sign-in code is:</p><h2>%s</h2><p>It expires in %d minutes.</p>", code, expiresIn)
	if err := s.mailer.Send(ctx, email, "Your LogiScore verification code", body); err != nil {
		observability.RecordEmailDelivery(ctx, "verification_code", "failure")
		observability.RecordAuthFlow(ctx, "send_code", "delivery_error")
		return 0, fmt.Errorf("%w: %v", ErrEmailDelivery, err)
	}
	observability.RecordEmailDelivery(ctx, "verification_code", "success")
	observability.RecordAuthFlow(ctx, "send_code", "success")
	return expiresIn, nil
}

func (s *AuthService) VerifyCode(ctx context.Context, email, code string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.HasVerificationCode() || user.VerificationCode != code {
		observability.RecordAuthFlow(ctx, "verify_code", "invalid_code")
		return nil, ErrInvalidCode
	}
	if time.Now().UTC().After(*user.VerificationCodeExpires) {
		observability.RecordAuthFlow(ctx, "verify_code", "expired_code")
		return nil, ErrExpiredCode
	}
	user.VerificationCode = ""
	user.VerificationCodeExpires = nil
	user.IsVerified = true
	if err := s.users.Update(user); err != nil {
		return nil, err
	}
	observability.RecordAuthFlow(ctx, "verify_code", "success")
	return s.issue(user)
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	token, err := s.jwtMgr.Sign(user.ID, s.cfg.JWTAccessTTL)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{AccessToken: token, TokenType: "bearer", User: user}, nil
}

func validateEmail(email string) error {
	if email == "" {
		return ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}

func emailLocalPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
