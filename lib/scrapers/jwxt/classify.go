package jwxt

import "regexp"

type PageKind int

const (
	DataPage PageKind = iota
	AuthWall
)

func (k PageKind) String() string {
	if k == AuthWall {
		return "auth_wall"
	}
	return "data_page"
}

var (
	loginRedirectMarker = regexp.MustCompile(`(?i)LoginToXkLdap`)
	userInputMarker     = regexp.MustCompile(`(?i)name\s*=\s*['"]userAccount['"]`)
	captchaInputMarker  = regexp.MustCompile(`(?i)name\s*=\s*['"]RANDOMCODE['"]`)
)

// Classify reports whether a fetched page is a grade listing or the
// login wall the site serves once a session lapses. Empty content
// classifies as an auth wall so a blank response forces the user to
// re-authenticate instead of passing as "no data". A page mentioning
// only one of the login form inputs is still a data page, the site's
// login form always carries both the account and the captcha input.
func Classify(html string) PageKind {
	if html == "" {
		return AuthWall
	}
	if loginRedirectMarker.MatchString(html) {
		return AuthWall
	}
	if userInputMarker.MatchString(html) && captchaInputMarker.MatchString(html) {
		return AuthWall
	}
	return DataPage
}
