package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"dokan-backend/internal/apperr"
	"dokan-backend/internal/handler/mocks"
	"dokan-backend/internal/models"
	"dokan-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestReviewHandler_CreateReviewHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("submitted into moderation", func(t *testing.T) {
		mockService := mocks.NewReviewProvider(t)
		mockService.On("Create", mock.Anything, "u-1", mock.MatchedBy(func(in service.CreateReviewInput) bool {
			return in.Rating == 5 && in.Comment == "Fresh and well packed."
		})).Return(models.Review{ID: "rev-1", Status: models.ReviewStatusPending}, nil)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request, _ = http.NewRequest("POST", "/", jsonBody(t, gin.H{
			"productId": "7c9e6679-7425-40de-944b-e07fc1f90ae7",
			"rating":    5,
			"comment":   "Fresh and well packed.",
		}))
		c.Set(ctxUserID, "u-1")

		h := NewReviewHandler(mockService)
		h.CreateReviewHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"pending"`)
	})

	t.Run("second review maps to 409", func(t *testing.T) {
		mockService := mocks.NewReviewProvider(t)
		mockService.On("Create", mock.Anything, "u-1", mock.Anything).
			Return(models.Review{}, apperr.Conflict("duplicate_review", "you already reviewed this product"))

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request, _ = http.NewRequest("POST", "/", jsonBody(t, gin.H{
			"productId": "7c9e6679-7425-40de-944b-e07fc1f90ae7",
			"rating":    4,
			"comment":   "Again.",
		}))
		c.Set(ctxUserID, "u-1")

		h := NewReviewHandler(mockService)
		h.CreateReviewHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "duplicate_review", decodeEnvelope(t, w).Error.Code)
	})
}

func TestReviewHandler_ModerateReviewHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := mocks.NewReviewProvider(t)
	mockService.On("Moderate", mock.Anything, "rev-1", service.ModerateReviewInput{
		Status:        "approved",
		AdminResponse: "Thanks for the feedback!",
	}).Return(models.Review{ID: "rev-1", Status: models.ReviewStatusApproved}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("PATCH", "/", jsonBody(t, gin.H{
		"status":        "approved",
		"adminResponse": "Thanks for the feedback!",
	}))
	c.Params = []gin.Param{{Key: "id", Value: "rev-1"}}

	h := NewReviewHandler(mockService)
	h.ModerateReviewHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"approved"`)
}

func TestReviewHandler_ListProductReviewsHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := mocks.NewReviewProvider(t)
	mockService.On("ListByProduct", mock.Anything, "7c9e6679-7425-40de-944b-e07fc1f90ae7", 1, 10).
		Return([]models.Review{{ID: "rev-1", Status: models.ReviewStatusApproved}}, 1, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/", nil)
	c.Params = []gin.Param{{Key: "productId", Value: "7c9e6679-7425-40de-944b-e07fc1f90ae7"}}

	h := NewReviewHandler(mockService)
	h.ListProductReviewsHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
}
