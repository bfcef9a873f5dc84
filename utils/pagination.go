package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ParsePage reads ?page= and ?limit= the same way for every list endpoint.
// Missing or invalid values fall back to the defaults.
func ParsePage(c *gin.Context) (page, limit int) {
	page, limit = DefaultPage, DefaultLimit
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		limit = l
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}
