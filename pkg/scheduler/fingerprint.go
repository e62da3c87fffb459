package scheduler

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
	"unicode"
)

// Fingerprint returns a stable finding id derived from the title and url.
// Case, punctuation and cosmetic url differences don't change it.
func Fingerprint(title, link string) string {
	h := sha256.Sum256([]byte(normalizeTitle(title) + "\n" + canonicalURL(link)))
	return hex.EncodeToString(h[:])[:40]
}

// normalizeTitle keeps lowercase letters and digits only
func normalizeTitle(title string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// canonicalURL lowercases scheme and host, drops www prefix, fragment and trailing slash
func canonicalURL(link string) string {
	link = strings.TrimSpace(link)
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return strings.ToLower(link)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	u.Fragment, u.RawFragment = "", ""
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	return u.String()
}
