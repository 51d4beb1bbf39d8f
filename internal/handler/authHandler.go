package handler

import (
	"context"
	"net/http"

	"dokan-backend/internal/apperr"
	"dokan-backend/internal/models"
	"dokan-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// OTPProvider issues one-time codes.
//
//go:generate mockery --name=OTPProvider --output=./mocks --case=underscore
type OTPProvider interface {
	Issue(ctx context.Context, in service.IssueOTPInput) (models.OTP, error)
}

// AuthProvider is the slice of the auth service the HTTP layer needs.
//
//go:generate mockery --name=AuthProvider --output=./mocks --case=underscore
type AuthProvider interface {
	Signup(ctx context.Context, in service.SignupInput) (service.Session, error)
	Login(ctx context.Context, in service.LoginInput) (service.Session, error)
	VerifyOTP(ctx context.Context, in service.VerifyOTPInput) (service.VerifyOTPResult, error)
	ResetPassword(ctx context.Context, in service.ResetPasswordInput) error
}

type AuthHandler struct {
	auth AuthProvider
	otp  OTPProvider
	// exposeCodes puts the issued OTP into the response when no SMS
	// gateway is configured. Never enabled in production.
	exposeCodes bool
}

func NewAuthHandler(auth AuthProvider, otp OTPProvider, exposeCodes bool) *AuthHandler {
	return &AuthHandler{auth: auth, otp: otp, exposeCodes: exposeCodes}
}

// SendOTPHandler issues a fresh code for a phone and purpose.
func (h *AuthHandler) SendOTPHandler(c *gin.Context) {
	var in service.IssueOTPInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("", "malformed JSON body"))
		return
	}

	otp, err := h.otp.Issue(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}

	payload := gin.H{"message": "OTP sent", "expiresAt": otp.ExpiresAt}
	if h.exposeCodes {
		payload["otp"] = otp.Code
	}
	ok(c, http.StatusOK, payload)
}

// VerifyOTPHandler checks a code. For the login purpose a valid code
// also returns a session.
func (h *AuthHandler) VerifyOTPHandler(c *gin.Context) {
	var in service.VerifyOTPInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("", "malformed JSON body"))
		return
	}

	res, err := h.auth.VerifyOTP(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}

	payload := gin.H{"verified": res.Verified}
	if res.Session != nil {
		payload["token"] = res.Session.Token
		payload["expiresAt"] = res.Session.ExpiresAt
		payload["user"] = res.Session.User
	}
	ok(c, http.StatusOK, payload)
}

func (h *AuthHandler) SignupHandler(c *gin.Context) {
	var in service.SignupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("", "malformed JSON body"))
		return
	}

	session, err := h.auth.Signup(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, sessionPayload(session))
}

func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var in service.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("", "malformed JSON body"))
		return
	}

	session, err := h.auth.Login(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, sessionPayload(session))
}

func (h *AuthHandler) ResetPasswordHandler(c *gin.Context) {
	var in service.ResetPasswordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Validation("", "malformed JSON body"))
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), in); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "password updated"})
}

func sessionPayload(s service.Session) gin.H {
	return gin.H{"token": s.Token, "expiresAt": s.ExpiresAt, "user": s.User}
}
