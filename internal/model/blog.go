package model

import (
	"strings"
	"time"
)

type Blog struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	WebsiteURL   string    `json:"websiteUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	IsMembership bool      `json:"isMembership"`
}

// BlogInput is the body of POST and PUT /blogs.
type BlogInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	WebsiteURL  string `json:"websiteUrl"`
}

// BlogPatch holds the fields an update may change. A nil or blank field
// keeps the stored value.
type BlogPatch struct {
	Name        *string
	Description *string
	WebsiteURL  *string
}

// Patch turns a full input into a patch.
func (in BlogInput) Patch() BlogPatch {
	return BlogPatch{Name: &in.Name, Description: &in.Description, WebsiteURL: &in.WebsiteURL}
}

// Apply writes every present, non-blank field onto b.
func (p BlogPatch) Apply(b *Blog) {
	setIfPresent(&b.Name, p.Name)
	setIfPresent(&b.Description, p.Description)
	setIfPresent(&b.WebsiteURL, p.WebsiteURL)
}

// BlogFilter narrows GET /blogs by a case-insensitive name substring.
type BlogFilter struct {
	SearchNameTerm string
}

func setIfPresent(dst *string, v *string) {
	if v == nil {
		return
	}
	if s := strings.TrimSpace(*v); s != "" {
		*dst = s
	}
}
