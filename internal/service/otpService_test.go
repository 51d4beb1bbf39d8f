package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"dokan-backend/internal/apperr"
	"dokan-backend/internal/db/repository"
	"dokan-backend/internal/models"
	"dokan-backend/internal/notify"
	notifymocks "dokan-backend/internal/notify/mocks"
	"dokan-backend/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupOTP(t *testing.T) (*mocks.OTPRepository, *notifymocks.Sender, *OTPService) {
	repo := mocks.NewOTPRepository(t)
	sms := notifymocks.NewSender(t)
	svc := NewOTPService(repo, sms, testLogger())
	return repo, sms, svc
}

func liveOTP(phone, code string, purpose models.OTPPurpose) models.OTP {
	now := time.Now()
	return models.OTP{
		ID:        "otp-1",
		Phone:     phone,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: now.Add(5 * time.Minute),
		CreatedAt: now,
	}
}

// Issuing stores a fresh six-digit code and hands it to the SMS sender.
func TestOTPService_Issue_StoresAndSends(t *testing.T) {
	repo, sms, svc := setupOTP(t)
	phone := "01712345678"

	repo.On("Replace", mock.Anything, mock.MatchedBy(func(o models.OTP) bool {
		return o.Phone == phone && len(o.Code) == 6 && o.Purpose == models.OTPPurposeSignup
	})).Return(nil)
	sms.On("Send", mock.Anything, mock.MatchedBy(func(m notify.Message) bool {
		return m.Channel == notify.ChannelSMS && m.Recipient == phone
	})).Return(nil)

	otp, err := svc.Issue(context.Background(), IssueOTPInput{Phone: phone, Purpose: "signup"})

	assert.NoError(t, err)
	assert.Len(t, otp.Code, 6)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), otp.ExpiresAt, 2*time.Second)

	repo.AssertExpectations(t)
	sms.AssertExpectations(t)
}

// A failed SMS delivery does not fail the issue call.
func TestOTPService_Issue_SenderFailureIgnored(t *testing.T) {
	repo, sms, svc := setupOTP(t)

	repo.On("Replace", mock.Anything, mock.Anything).Return(nil)
	sms.On("Send", mock.Anything, mock.Anything).Return(assert.AnError)

	_, err := svc.Issue(context.Background(), IssueOTPInput{Phone: "01712345678", Purpose: "login"})

	assert.NoError(t, err)
}

func TestOTPService_Issue_InvalidPhone(t *testing.T) {
	repo, _, svc := setupOTP(t)

	_, err := svc.Issue(context.Background(), IssueOTPInput{Phone: "12345", Purpose: "signup"})

	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	repo.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)
}

func TestOTPService_Verify_Success(t *testing.T) {
	repo, _, svc := setupOTP(t)
	rec := liveOTP("01712345678", "483920", models.OTPPurposeLogin)

	repo.On("Find", mock.Anything, rec.Phone, models.OTPPurposeLogin).Return(rec, nil)
	repo.On("MarkVerified", mock.Anything, rec.ID).Return(nil)

	err := svc.Verify(context.Background(), VerifyOTPInput{Phone: rec.Phone, Code: "483920", Purpose: "login"})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestOTPService_Verify_WrongCode(t *testing.T) {
	repo, _, svc := setupOTP(t)
	rec := liveOTP("01712345678", "483920", models.OTPPurposeLogin)

	repo.On("Find", mock.Anything, rec.Phone, models.OTPPurposeLogin).Return(rec, nil)
	repo.On("IncrementAttempts", mock.Anything, rec.ID).Return(1, nil)

	err := svc.Verify(context.Background(), VerifyOTPInput{Phone: rec.Phone, Code: "000000", Purpose: "login"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid or expired code")
	repo.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything)
}

// Three wrong guesses still leave the record alive; the fourth destroys
// it, and after that even the real code no longer verifies.
func TestOTPService_Verify_ExhaustsAttempts(t *testing.T) {
	repo, _, svc := setupOTP(t)
	rec := liveOTP("01712345678", "483920", models.OTPPurposeLogin)

	repo.On("Find", mock.Anything, rec.Phone, models.OTPPurposeLogin).Return(rec, nil).Times(4)
	repo.On("Find", mock.Anything, rec.Phone, models.OTPPurposeLogin).Return(models.OTP{}, repository.ErrNotFound).Once()
	repo.On("IncrementAttempts", mock.Anything, rec.ID).Return(1, nil).Once()
	repo.On("IncrementAttempts", mock.Anything, rec.ID).Return(2, nil).Once()
	repo.On("IncrementAttempts", mock.Anything, rec.ID).Return(3, nil).Once()
	repo.On("IncrementAttempts", mock.Anything, rec.ID).Return(4, nil).Once()
	repo.On("Delete", mock.Anything, rec.ID).Return(nil).Once()

	wrong := VerifyOTPInput{Phone: rec.Phone, Code: "000000", Purpose: "login"}
	for i := 0; i < 3; i++ {
		err := svc.Verify(context.Background(), wrong)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid or expired code")
	}

	err := svc.Verify(context.Background(), wrong)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "too many attempts")

	err = svc.Verify(context.Background(), VerifyOTPInput{Phone: rec.Phone, Code: "483920", Purpose: "login"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid or expired code")

	repo.AssertExpectations(t)
}

func TestOTPService_Verify_Expired(t *testing.T) {
	repo, _, svc := setupOTP(t)
	rec := liveOTP("01712345678", "483920", models.OTPPurposeSignup)
	rec.ExpiresAt = time.Now().Add(-time.Minute)

	repo.On("Find", mock.Anything, rec.Phone, models.OTPPurposeSignup).Return(rec, nil)

	err := svc.Verify(context.Background(), VerifyOTPInput{Phone: rec.Phone, Code: "483920", Purpose: "signup"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid or expired code")
	repo.AssertNotCalled(t, "IncrementAttempts", mock.Anything, mock.Anything)
}

// A code already verified once never verifies a second time.
func TestOTPService_Verify_AlreadyVerified(t *testing.T) {
	repo, _, svc := setupOTP(t)
	rec := liveOTP("01712345678", "483920", models.OTPPurposeLogin)
	rec.Verified = true

	repo.On("Find", mock.Anything, rec.Phone, models.OTPPurposeLogin).Return(rec, nil)

	err := svc.Verify(context.Background(), VerifyOTPInput{Phone: rec.Phone, Code: "483920", Purpose: "login"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid or expired code")
	repo.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything)
}

// A code issued for signup does not exist under the reset purpose.
func TestOTPService_Verify_WrongPurpose(t *testing.T) {
	repo, _, svc := setupOTP(t)

	repo.On("Find", mock.Anything, "01712345678", models.OTPPurposeReset).Return(models.OTP{}, repository.ErrNotFound)

	err := svc.Verify(context.Background(), VerifyOTPInput{Phone: "01712345678", Code: "483920", Purpose: "reset"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid or expired code")
}

// Consume deletes the record, so a second use of the same code fails.
func TestOTPService_Consume_SingleUse(t *testing.T) {
	repo, _, svc := setupOTP(t)
	rec := liveOTP("01712345678", "483920", models.OTPPurposeSignup)

	repo.On("Find", mock.Anything, rec.Phone, models.OTPPurposeSignup).Return(rec, nil).Once()
	repo.On("Delete", mock.Anything, rec.ID).Return(nil).Once()
	repo.On("Find", mock.Anything, rec.Phone, models.OTPPurposeSignup).Return(models.OTP{}, repository.ErrNotFound).Once()

	err := svc.Consume(context.Background(), rec.Phone, "483920", models.OTPPurposeSignup)
	assert.NoError(t, err)

	err = svc.Consume(context.Background(), rec.Phone, "483920", models.OTPPurposeSignup)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid or expired code")

	repo.AssertExpectations(t)
}

func TestOTPService_ConsumeVerified_RequiresVerifiedFlag(t *testing.T) {
	repo, _, svc := setupOTP(t)
	rec := liveOTP("01712345678", "483920", models.OTPPurposeLogin)

	repo.On("Find", mock.Anything, rec.Phone, models.OTPPurposeLogin).Return(rec, nil)

	err := svc.ConsumeVerified(context.Background(), rec.Phone, models.OTPPurposeLogin)

	assert.Error(t, err)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
