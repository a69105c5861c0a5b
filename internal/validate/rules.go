package validate

import "regexp"

// Input limits for every resource. Lengths count runes after trimming.
const (
	BlogNameMax        = 15
	BlogDescriptionMax = 500
	BlogWebsiteURLMax  = 100

	PostTitleMax            = 30
	PostShortDescriptionMax = 100
	PostContentMax          = 1000

	CommentContentMin = 20
	CommentContentMax = 300

	LoginMin    = 3
	LoginMax    = 10
	PasswordMin = 6
	PasswordMax = 20

	VideoTitleMax  = 40
	VideoAuthorMax = 20
	MinAgeMin      = 1
	MinAgeMax      = 18
)

var (
	loginPattern      = regexp.MustCompile(`^[a-zA-Z0-9_-]*$`)
	emailPattern      = regexp.MustCompile(`^[\w.-]+@([\w-]+\.)+[\w-]{2,4}$`)
	websiteURLPattern = regexp.MustCompile(`^https://([a-zA-Z0-9_-]+\.)+[a-zA-Z0-9_-]+(/[a-zA-Z0-9_-]+)*/?$`)
)

// Login checks length and the allowed character set.
func (v *Validator) Login(field, value string) *Validator {
	return v.Length(field, value, LoginMin, LoginMax).
		Match(field, value, loginPattern, "login is not valid")
}

// Password checks length only.
func (v *Validator) Password(field, value string) *Validator {
	return v.Length(field, value, PasswordMin, PasswordMax)
}

// WebsiteURL checks an https URL.
func (v *Validator) WebsiteURL(field, value string) *Validator {
	return v.Required(field, value).
		MaxLen(field, value, BlogWebsiteURLMax).
		Match(field, value, websiteURLPattern, "websiteUrl is not valid")
}
