package model

import (
	"regexp"
	"strings"
)

var (
	emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,6}$`)
	// Ten digits starting with the national mobile prefix.
	mobileRe = regexp.MustCompile(`^04\d{8}$`)
	digitsRe = regexp.MustCompile(`^\d+$`)
)

// ValidEmail reports whether addr looks like a deliverable email address.
func ValidEmail(addr string) bool {
	return emailRe.MatchString(strings.TrimSpace(addr))
}

// NormalizeMobile strips spacing from nbr and applies the dropped-zero
// correction: a 9-digit number starting with "4" is treated as if the
// leading zero had been present. Returns the normalized number, or the
// cleaned input unchanged when no correction applies.
func NormalizeMobile(nbr string) string {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(nbr))
	if len(cleaned) == 9 && strings.HasPrefix(cleaned, "4") && digitsRe.MatchString(cleaned) {
		return "0" + cleaned
	}
	return cleaned
}

// ValidMobile reports whether nbr normalizes to a valid national mobile
// number: ten digits beginning with the mobile prefix.
func ValidMobile(nbr string) bool {
	return mobileRe.MatchString(NormalizeMobile(nbr))
}
