package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"dokan-backend/internal/apperr"
	"dokan-backend/internal/db/repository"
	"dokan-backend/internal/logger/sl"
	"dokan-backend/internal/metric"
	"dokan-backend/internal/models"
	"dokan-backend/internal/notify"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	otpTTL = 5 * time.Minute
	// A record survives this many wrong guesses; the next one destroys it.
	maxOTPAttempts = 3
)

// OTPRepository stores one-time codes, at most one live record per
// (phone, purpose) pair.
//
//go:generate mockery --name=OTPRepository --output=./mocks --case=underscore
type OTPRepository interface {
	Replace(ctx context.Context, otp models.OTP) error
	Find(ctx context.Context, phone string, purpose models.OTPPurpose) (models.OTP, error)
	IncrementAttempts(ctx context.Context, id string) (int, error)
	MarkVerified(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

type IssueOTPInput struct {
	Phone   string `json:"phone" validate:"required,len=11,numeric,startswith=01"`
	Purpose string `json:"purpose" validate:"required,oneof=signup login reset"`
}

type VerifyOTPInput struct {
	Phone   string `json:"phone" validate:"required,len=11,numeric,startswith=01"`
	Code    string `json:"otp" validate:"required,len=6,numeric"`
	Purpose string `json:"purpose" validate:"required,oneof=signup login reset"`
}

// OTPService issues and checks the one-time codes gating signup, OTP
// login and password reset.
type OTPService struct {
	otps     OTPRepository
	sms      notify.Sender
	validate *validator.Validate
	log      *slog.Logger
}

func NewOTPService(otps OTPRepository, sms notify.Sender, log *slog.Logger) *OTPService {
	return &OTPService{
		otps:     otps,
		sms:      sms,
		validate: newValidator(),
		log:      log,
	}
}

// Issue replaces any previous code for the pair with a fresh one and
// hands it to the SMS sender. Delivery is best-effort; the code is
// returned so non-production handlers can expose it.
func (s *OTPService) Issue(ctx context.Context, in IssueOTPInput) (models.OTP, error) {
	tr := otel.Tracer("otpService")
	ctx, span := tr.Start(ctx, "Issue")
	defer span.End()

	if err := s.validate.Struct(in); err != nil {
		return models.OTP{}, invalidInput(err)
	}
	span.SetAttributes(attribute.String("purpose", in.Purpose))

	code, err := randomOTPCode()
	if err != nil {
		return models.OTP{}, apperr.Internal(err)
	}

	now := time.Now()
	otp := models.OTP{
		ID:        uuid.NewString(),
		Phone:     in.Phone,
		Code:      code,
		Purpose:   models.OTPPurpose(in.Purpose),
		ExpiresAt: now.Add(otpTTL),
		CreatedAt: now,
	}

	start := time.Now()
	err = s.otps.Replace(ctx, otp)
	metric.ObserveDb("otp_replace", start, err)
	if err != nil {
		span.RecordError(err)
		return models.OTP{}, apperr.Internal(fmt.Errorf("storing otp: %w", err))
	}
	metric.OtpIssuedTotal.Inc()

	msg := notify.Message{
		ID:        uuid.NewString(),
		Event:     notify.EventOTPIssued,
		Channel:   notify.ChannelSMS,
		Recipient: in.Phone,
		Body:      fmt.Sprintf("Your Dokan verification code is %s. It expires in 5 minutes.", code),
		CreatedAt: now,
	}
	if err := s.sms.Send(ctx, msg); err != nil {
		s.log.Warn("otp sms delivery failed", sl.Err(err), slog.String("phone", in.Phone))
	}
	return otp, nil
}

// Verify checks the submitted code against the live record for the
// pair and marks it verified on success. A verified code never
// verifies again; wrong guesses are counted and destroy the record
// once they exceed the ceiling.
func (s *OTPService) Verify(ctx context.Context, in VerifyOTPInput) error {
	tr := otel.Tracer("otpService")
	ctx, span := tr.Start(ctx, "Verify")
	defer span.End()

	if err := s.validate.Struct(in); err != nil {
		return invalidInput(err)
	}
	span.SetAttributes(attribute.String("purpose", in.Purpose))

	rec, err := s.otps.Find(ctx, in.Phone, models.OTPPurpose(in.Purpose))
	if errors.Is(err, repository.ErrNotFound) {
		metric.OtpVerifyTotal.WithLabelValues("invalid").Inc()
		return apperr.Invalid("invalid_otp", "invalid or expired code")
	}
	if err != nil {
		span.RecordError(err)
		return apperr.Internal(err)
	}

	if rec.Verified || rec.Expired(time.Now()) {
		metric.OtpVerifyTotal.WithLabelValues("invalid").Inc()
		return apperr.Invalid("invalid_otp", "invalid or expired code")
	}
	if rec.Code != in.Code {
		return s.failedAttempt(ctx, rec)
	}

	if err := s.otps.MarkVerified(ctx, rec.ID); err != nil {
		span.RecordError(err)
		return apperr.Internal(err)
	}
	metric.OtpVerifyTotal.WithLabelValues("ok").Inc()
	return nil
}

// Consume validates the code like Verify and then deletes the record,
// binding it to exactly one signup or password reset. A code already
// verified through the verify endpoint is accepted here once.
func (s *OTPService) Consume(ctx context.Context, phone, code string, purpose models.OTPPurpose) error {
	rec, err := s.otps.Find(ctx, phone, purpose)
	if errors.Is(err, repository.ErrNotFound) {
		metric.OtpVerifyTotal.WithLabelValues("invalid").Inc()
		return apperr.Invalid("invalid_otp", "invalid or expired code")
	}
	if err != nil {
		return apperr.Internal(err)
	}

	if rec.Expired(time.Now()) {
		metric.OtpVerifyTotal.WithLabelValues("invalid").Inc()
		return apperr.Invalid("invalid_otp", "invalid or expired code")
	}
	if rec.Code != code {
		return s.failedAttempt(ctx, rec)
	}

	if err := s.otps.Delete(ctx, rec.ID); err != nil {
		return apperr.Internal(err)
	}
	metric.OtpVerifyTotal.WithLabelValues("ok").Inc()
	return nil
}

// ConsumeVerified deletes a code the verify endpoint already accepted
// for the pair. Used by the OTP login flow after issuing the session.
func (s *OTPService) ConsumeVerified(ctx context.Context, phone string, purpose models.OTPPurpose) error {
	rec, err := s.otps.Find(ctx, phone, purpose)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.Invalid("invalid_otp", "invalid or expired code")
	}
	if err != nil {
		return apperr.Internal(err)
	}
	if !rec.Verified || rec.Expired(time.Now()) {
		return apperr.Invalid("invalid_otp", "invalid or expired code")
	}
	if err := s.otps.Delete(ctx, rec.ID); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// failedAttempt counts one wrong guess. The record is destroyed once
// guesses exceed the ceiling, so the real code cannot be brute-forced.
func (s *OTPService) failedAttempt(ctx context.Context, rec models.OTP) error {
	attempts, err := s.otps.IncrementAttempts(ctx, rec.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return apperr.Internal(err)
	}

	if attempts > maxOTPAttempts {
		if err := s.otps.Delete(ctx, rec.ID); err != nil {
			s.log.Warn("deleting exhausted otp", sl.Err(err))
		}
		metric.OtpVerifyTotal.WithLabelValues("too_many_attempts").Inc()
		return apperr.Invalid("too_many_attempts", "too many attempts, request a new code")
	}

	metric.OtpVerifyTotal.WithLabelValues("invalid").Inc()
	return apperr.Invalid("invalid_otp", "invalid or expired code")
}

// PurgeLoop deletes expired codes on every tick until ctx is done.
func (s *OTPService) PurgeLoop(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			n, err := s.otps.PurgeExpired(ctx, time.Now())
			if err != nil {
				s.log.Warn("purging expired otps", sl.Err(err))
				continue
			}
			if n > 0 {
				s.log.Debug("purged expired otps", slog.Int64("count", n))
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// randomOTPCode draws six uniform digits from crypto/rand.
func randomOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generating otp code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
