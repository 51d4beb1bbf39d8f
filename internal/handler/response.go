package handler

import (
	"net/http"
	"strconv"

	"dokan-backend/internal/apperr"
	"dokan-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// ok writes the success envelope shared by every endpoint.
func ok(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// fail maps a service error onto the error envelope and aborts the
// chain. Anything that is not an *apperr.Error turns into an opaque
// 500; the cause stays server-side.
func fail(c *gin.Context, err error) {
	e := apperr.From(err)
	if e == nil {
		e = apperr.Internal(err)
	}

	detail := gin.H{"code": e.Code, "message": e.Message}
	if e.Field != "" {
		detail["field"] = e.Field
	}
	if e.RetryAfter > 0 {
		detail["retryAfter"] = e.RetryAfter
	}
	c.AbortWithStatusJSON(statusOf(e.Kind), gin.H{"success": false, "error": detail})
}

func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindAuth:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// pageArgs reads page and limit off the query string, already clamped,
// so the pagination block echoes the values actually applied.
func pageArgs(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return service.ClampPage(page, limit)
}

func pagination(page, limit, total int) gin.H {
	pages := 0
	if total > 0 {
		pages = (total + limit - 1) / limit
	}
	return gin.H{"page": page, "limit": limit, "total": total, "pages": pages}
}
