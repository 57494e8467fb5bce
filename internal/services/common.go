package service

import (
	"html"
	"strings"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/microcosm-cc/bluemonday"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

var (
	strictPolicy = bluemonday.StrictPolicy()
	ugcPolicy    = bluemonday.UGCPolicy()
)

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}

	if size < 1 {
		size = defaultPageSize
	}

	if size > maxPageSize {
		size = maxPageSize
	}

	return page, size
}

func requireAdmin(actor models.Actor) error {
	if !actor.IsAdmin {
		return appErrors.ForbiddenError("Admin access required")
	}

	return nil
}

// sanitize strips markup from free text, leaving plain characters such as
// "&" or "+" intact.
func sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

func sanitizeRich(s string) string {
	return strings.TrimSpace(ugcPolicy.Sanitize(s))
}
