package conversion

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/lazarspasic96/clip2fit-sub001/internal/models"
)

// Validation is the result of classifying pasted share-sheet text.
type Validation struct {
	CleanURL string
	Platform models.Platform
	IsValid  bool
}

// platformHosts is the fixed ordered pattern list; the first matching entry
// wins.
var platformHosts = []struct {
	platform models.Platform
	hosts    []string
}{
	{models.PlatformInstagram, []string{"instagram.com"}},
	{models.PlatformTikTok, []string{"tiktok.com"}},
	{models.PlatformYouTube, []string{"youtube.com", "youtu.be"}},
	{models.PlatformFacebook, []string{"facebook.com", "fb.watch"}},
	{models.PlatformTwitter, []string{"twitter.com", "x.com"}},
}

var (
	schemeURLPattern = regexp.MustCompile(`https?://\S+`)
	bareHostPattern  = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9.-]*\.[A-Za-z]{2,}(/\S*)?$`)
)

// ValidateWorkoutURL extracts the first well-formed URL from arbitrary
// pasted text (share sheets wrap the link in prose), normalizes it, and
// classifies the hostname. Input with no usable URL yields IsValid=false,
// platform unknown, and the trimmed original as CleanURL.
func ValidateWorkoutURL(raw string) Validation {
	trimmed := strings.TrimSpace(raw)

	candidate := extractURL(trimmed)
	if candidate == "" {
		return Validation{CleanURL: trimmed, Platform: models.PlatformUnknown}
	}
	if !strings.HasPrefix(candidate, "http://") && !strings.HasPrefix(candidate, "https://") {
		candidate = "https://" + candidate
	}

	u, err := url.Parse(candidate)
	if err != nil || u.Hostname() == "" {
		return Validation{CleanURL: trimmed, Platform: models.PlatformUnknown}
	}

	host := strings.ToLower(u.Hostname())
	for _, entry := range platformHosts {
		for _, h := range entry.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return Validation{CleanURL: candidate, Platform: entry.platform, IsValid: true}
			}
		}
	}

	return Validation{CleanURL: candidate, Platform: models.PlatformUnknown}
}

// extractURL returns the first token that looks like a URL, scheme-full
// first, then bare hosts like vm.tiktok.com/xyz.
func extractURL(text string) string {
	if m := schemeURLPattern.FindString(text); m != "" {
		return trimTrailingPunct(m)
	}
	for _, tok := range strings.Fields(text) {
		tok = trimTrailingPunct(tok)
		if bareHostPattern.MatchString(tok) {
			return tok
		}
	}
	return ""
}

// trimTrailingPunct drops punctuation that share sheets glue onto the end of
// a link ("...watch this: https://x.com/a/1!").
func trimTrailingPunct(s string) string {
	return strings.TrimRight(s, ".,;:!?)'\"")
}
