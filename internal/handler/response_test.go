package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"dokan-backend/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// envelope mirrors the response body every endpoint writes.
type envelope struct {
	Success bool `json:"success"`
	Error   *struct {
		Code       string `json:"code"`
		Message    string `json:"message"`
		Field      string `json:"field"`
		RetryAfter int    `json:"retryAfter"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	raw, err := json.Marshal(v)
	assert.NoError(t, err)
	return bytes.NewBuffer(raw)
}

// Every error kind maps to its HTTP status; an error outside the
// taxonomy is hidden behind an opaque 500.
func TestFail_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", apperr.Validation("phone", "fails the \"len\" rule"), http.StatusBadRequest, "validation_failed"},
		{"not found", apperr.NotFound("order"), http.StatusNotFound, "not_found"},
		{"conflict", apperr.Conflict("email_exists", "email already registered"), http.StatusConflict, "email_exists"},
		{"auth", apperr.Auth("expired", "session expired, log in again"), http.StatusUnauthorized, "expired"},
		{"forbidden", apperr.Forbidden("admin access required"), http.StatusForbidden, "forbidden"},
		{"rate limited", apperr.RateLimited(42), http.StatusTooManyRequests, "rate_limited"},
		{"untyped", errors.New("pq: connection refused"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			fail(c, tc.err)

			assert.Equal(t, tc.status, w.Code)
			env := decodeEnvelope(t, w)
			assert.False(t, env.Success)
			assert.Equal(t, tc.code, env.Error.Code)
		})
	}
}

// The raw cause of an untyped error never reaches the response body.
func TestFail_HidesInternalDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	fail(c, errors.New("dial tcp 10.0.0.5:5432: connect: connection refused"))

	assert.NotContains(t, w.Body.String(), "10.0.0.5")
	env := decodeEnvelope(t, w)
	assert.Equal(t, "something went wrong", env.Error.Message)
}

// Field and retryAfter only appear when set.
func TestFail_OptionalFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	fail(c, apperr.Validation("email", "fails the \"email\" rule"))

	env := decodeEnvelope(t, w)
	assert.Equal(t, "email", env.Error.Field)
	assert.NotContains(t, w.Body.String(), "retryAfter")

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	fail(c, apperr.RateLimited(120))

	env = decodeEnvelope(t, w)
	assert.Equal(t, 120, env.Error.RetryAfter)
	assert.NotContains(t, w.Body.String(), "field")
}

func TestPagination_Pages(t *testing.T) {
	assert.Equal(t, 3, pagination(1, 5, 12)["pages"])
	assert.Equal(t, 1, pagination(1, 10, 10)["pages"])
	assert.Equal(t, 0, pagination(1, 10, 0)["pages"])
}

// pageArgs clamps whatever arrives on the query string.
func TestPageArgs(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		query string
		page  int
		limit int
	}{
		{"", 1, 10},
		{"?page=3&limit=20", 3, 20},
		{"?page=0&limit=999", 1, 50},
		{"?page=-2&limit=abc", 1, 10},
	}

	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request, _ = http.NewRequest("GET", "/"+tc.query, nil)

		page, limit := pageArgs(c)
		assert.Equal(t, tc.page, page, tc.query)
		assert.Equal(t, tc.limit, limit, tc.query)
	}
}
