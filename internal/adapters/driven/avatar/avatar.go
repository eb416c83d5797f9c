// Package avatar builds profile picture URLs for new employees.
package avatar

import (
	"net/url"
	"strings"

	"github.com/custodia-labs/payroll/internal/core/ports/driven"
)

// Ensure URLBuilder implements the interface.
var _ driven.AvatarURLBuilder = (*URLBuilder)(nil)

// DefaultBaseURL is the ui-avatars.com endpoint.
const DefaultBaseURL = "https://ui-avatars.com/api/"

// URLBuilder renders initials avatars from a hosted template.
type URLBuilder struct {
	baseURL string
}

// NewURLBuilder creates a builder. An empty baseURL uses DefaultBaseURL.
func NewURLBuilder(baseURL string) *URLBuilder {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &URLBuilder{baseURL: baseURL}
}

// URL returns the avatar URL for name with a random background colour.
func (b *URLBuilder) URL(name string) string {
	sep := "?"
	if strings.Contains(b.baseURL, "?") {
		sep = "&"
	}
	return b.baseURL + sep + "name=" + url.QueryEscape(name) + "&background=random"
}
