package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"dokan-backend/internal/apperr"
	"dokan-backend/internal/db/repository"
	"dokan-backend/internal/metric"
	"dokan-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository stores registered accounts.
//
//go:generate mockery --name=UserRepository --output=./mocks --case=underscore
type UserRepository interface {
	Create(ctx context.Context, user models.User) error
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByPhone(ctx context.Context, phone string) (models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

type SignupInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,len=11,numeric,startswith=01"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	OTP      string `json:"otp" validate:"required,len=6,numeric"`
}

type LoginInput struct {
	Identifier string `json:"emailOrPhone" validate:"required,max=100"`
	Password   string `json:"password" validate:"required"`
}

type ResetPasswordInput struct {
	Phone       string `json:"phone" validate:"required,len=11,numeric,startswith=01"`
	OTP         string `json:"otp" validate:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

// Session is what a successful authentication returns.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      models.User `json:"user"`
}

// VerifyOTPResult reports a verify call. Session is set only for the
// login purpose, where a verified code logs the account in directly.
type VerifyOTPResult struct {
	Verified bool
	Session  *Session
}

// AuthService orchestrates signup, login and password reset on top of
// the OTP flow.
type AuthService struct {
	users    UserRepository
	otp      *OTPService
	tokens   *TokenManager
	validate *validator.Validate
	log      *slog.Logger
}

func NewAuthService(users UserRepository, otp *OTPService, tokens *TokenManager, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		otp:      otp,
		tokens:   tokens,
		validate: newValidator(),
		log:      log,
	}
}

// Signup registers an account for a phone that holds a valid signup
// code. The code is consumed before the account is created, and the
// account starts with the phone marked verified.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (Session, error) {
	tr := otel.Tracer("authService")
	ctx, span := tr.Start(ctx, "Signup")
	defer span.End()

	if err := s.validate.Struct(in); err != nil {
		return Session{}, invalidInput(err)
	}
	email := strings.ToLower(in.Email)

	// Duplicate checks run before the code is consumed so a rejected
	// signup does not burn a still-valid OTP.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return Session{}, apperr.Conflict("email_exists", "email already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		span.RecordError(err)
		return Session{}, apperr.Internal(err)
	}
	if _, err := s.users.GetByPhone(ctx, in.Phone); err == nil {
		return Session{}, apperr.Conflict("phone_exists", "phone already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		span.RecordError(err)
		return Session{}, apperr.Internal(err)
	}

	if err := s.otp.Consume(ctx, in.Phone, in.OTP, models.OTPPurposeSignup); err != nil {
		return Session{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, apperr.Internal(fmt.Errorf("hashing password: %w", err))
	}

	now := time.Now()
	user := models.User{
		ID:            uuid.NewString(),
		Name:          in.Name,
		Email:         email,
		Phone:         in.Phone,
		PasswordHash:  string(hash),
		Role:          models.RoleCustomer,
		PhoneVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	start := time.Now()
	err = s.users.Create(ctx, user)
	metric.ObserveDb("user_create", start, err)
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		return Session{}, apperr.Conflict("email_exists", "email already registered")
	case errors.Is(err, repository.ErrDuplicatePhone):
		return Session{}, apperr.Conflict("phone_exists", "phone already registered")
	case err != nil:
		span.RecordError(err)
		return Session{}, apperr.Internal(err)
	}

	s.log.Info("account created", slog.String("user_id", user.ID))
	return s.session(user)
}

// Login authenticates by email or phone plus password.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (Session, error) {
	tr := otel.Tracer("authService")
	ctx, span := tr.Start(ctx, "Login")
	defer span.End()

	if err := s.validate.Struct(in); err != nil {
		return Session{}, invalidInput(err)
	}

	user, err := s.lookupIdentifier(ctx, in.Identifier)
	if errors.Is(err, repository.ErrNotFound) {
		return Session{}, apperr.Auth("invalid_credentials", "wrong email, phone or password")
	}
	if err != nil {
		span.RecordError(err)
		return Session{}, apperr.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return Session{}, apperr.Auth("invalid_credentials", "wrong email, phone or password")
	}
	return s.session(user)
}

// VerifyOTP runs the verify step and, for the login purpose, exchanges
// the verified code for a session belonging to the phone's account.
func (s *AuthService) VerifyOTP(ctx context.Context, in VerifyOTPInput) (VerifyOTPResult, error) {
	if err := s.otp.Verify(ctx, in); err != nil {
		return VerifyOTPResult{}, err
	}
	if models.OTPPurpose(in.Purpose) != models.OTPPurposeLogin {
		return VerifyOTPResult{Verified: true}, nil
	}

	user, err := s.users.GetByPhone(ctx, in.Phone)
	if errors.Is(err, repository.ErrNotFound) {
		return VerifyOTPResult{}, apperr.NotFound("account")
	}
	if err != nil {
		return VerifyOTPResult{}, apperr.Internal(err)
	}

	if err := s.otp.ConsumeVerified(ctx, in.Phone, models.OTPPurposeLogin); err != nil {
		return VerifyOTPResult{}, err
	}
	sess, err := s.session(user)
	if err != nil {
		return VerifyOTPResult{}, err
	}
	return VerifyOTPResult{Verified: true, Session: &sess}, nil
}

// ResetPassword stores a new password hash for a phone that holds a
// valid reset code.
func (s *AuthService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	if err := s.validate.Struct(in); err != nil {
		return invalidInput(err)
	}

	user, err := s.users.GetByPhone(ctx, in.Phone)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("account")
	}
	if err != nil {
		return apperr.Internal(err)
	}

	if err := s.otp.Consume(ctx, in.Phone, in.OTP, models.OTPPurposeReset); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Internal(fmt.Errorf("hashing password: %w", err))
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return apperr.Internal(err)
	}

	s.log.Info("password reset", slog.String("user_id", user.ID))
	return nil
}

func (s *AuthService) session(user models.User) (Session, error) {
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return Session{}, apperr.Internal(err)
	}
	return Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *AuthService) lookupIdentifier(ctx context.Context, identifier string) (models.User, error) {
	if strings.Contains(identifier, "@") {
		return s.users.GetByEmail(ctx, strings.ToLower(identifier))
	}
	return s.users.GetByPhone(ctx, identifier)
}
