// Package respond implements the normalized JSON envelope every API endpoint
// returns:
//
//	{"success": bool, "messageKey": "...", "message": "...", "data": ...}
//
// messageKey is always one of the closed i18n catalog keys; message carries the
// key resolved into the caller's language so simple clients can show it
// directly. Handlers never build response JSON by hand.
package respond

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vijana-portal/vijana-portal/internal/i18n"
)

// Lang resolves the caller's language: the lang query parameter wins, then the
// first Accept-Language entry, then the portal default (Swahili).
func Lang(c *gin.Context) string {
	if lang := c.Query("lang"); lang == i18n.LangEnglish || lang == i18n.LangSwahili {
		return lang
	}
	accept := c.GetHeader("Accept-Language")
	if strings.HasPrefix(accept, "en") {
		return i18n.LangEnglish
	}
	return i18n.LangSwahili
}

func envelope(c *gin.Context, success bool, key string, data interface{}) gin.H {
	body := gin.H{
		"success":    success,
		"messageKey": key,
		"message":    i18n.Resolve(key, Lang(c)),
	}
	if data != nil {
		body["data"] = data
	}
	return body
}

// Success writes a success envelope with the given status and optional data
func Success(c *gin.Context, status int, key string, data interface{}) {
	c.JSON(status, envelope(c, true, key, data))
}

// OK writes a 200 success envelope with the generic fetch key
func OK(c *gin.Context, data interface{}) {
	Success(c, http.StatusOK, "FETCH_SUCCESS", data)
}

// Error writes a failure envelope and aborts the request
func Error(c *gin.Context, status int, key string) {
	c.AbortWithStatusJSON(status, envelope(c, false, key, nil))
}

// Paginated wraps a page of items with its pagination metadata for list endpoints
func Paginated(items interface{}, page, perPage, total int) gin.H {
	return gin.H{
		"items": items,
		"pagination": gin.H{
			"page":     page,
			"per_page": perPage,
			"total":    total,
		},
	}
}

// PageParams parses page/per_page query parameters with the portal defaults
// (page 1, 20 per page, capped at 100) and returns them with the derived offset.
func PageParams(c *gin.Context) (page, perPage, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	return page, perPage, (page - 1) * perPage
}
