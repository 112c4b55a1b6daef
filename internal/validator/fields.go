// Package validator checks user, restaurant and product payloads. Field-level
// helpers are plain predicates; the aggregate validators collect every
// violated rule instead of stopping at the first.
package validator

import (
	"regexp"
	"strings"
)

var (
	emailRegex      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	postalCodeRegex = regexp.MustCompile(`^\d{5}-?\d{3}$`)
	nonDigitRegex   = regexp.MustCompile(`\D`)
	letterRegex     = regexp.MustCompile(`[A-Za-z]`)
	digitRegex      = regexp.MustCompile(`\d`)
)

const (
	msgPasswordTooShort = "password must have at least 6 characters"
	msgPasswordLetter   = "password must contain at least one letter"
	msgPasswordDigit    = "password must contain at least one number"
)

// ValidEmail is a deliberately loose format check: something@something.tld.
func ValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// Digits strips everything but 0-9.
func Digits(s string) string {
	return nonDigitRegex.ReplaceAllString(s, "")
}

// ValidTaxID accepts any formatting as long as there are exactly 14 digits
// and they are not all the same.
func ValidTaxID(taxID string) bool {
	d := Digits(taxID)
	if len(d) != 14 {
		return false
	}
	return strings.Count(d, d[:1]) != len(d)
}

// ValidPostalCode accepts 12345-678 and 12345678.
func ValidPostalCode(cep string) bool {
	return postalCodeRegex.MatchString(cep)
}

func ValidCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

func ValidPrice(price float64) bool {
	return price > 0
}

// ValidURL reports whether s parses as an absolute URL.
func ValidURL(s string) bool {
	return validate.Var(s, "url") == nil
}

// CheckPassword returns whether the password is strong enough and, when it
// is not, the first rule it breaks.
func CheckPassword(password string) (bool, string) {
	if len(password) < 6 {
		return false, msgPasswordTooShort
	}
	if !letterRegex.MatchString(password) {
		return false, msgPasswordLetter
	}
	if !digitRegex.MatchString(password) {
		return false, msgPasswordDigit
	}
	return true, "valid password"
}

// FormatTaxID renders 14 digits as 00.000.000/0000-00. Anything else is
// returned unchanged.
func FormatTaxID(taxID string) string {
	d := Digits(taxID)
	if len(d) != 14 {
		return taxID
	}
	return d[0:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:14]
}

// FormatPostalCode renders 8 digits as 00000-000.
func FormatPostalCode(cep string) string {
	d := Digits(cep)
	if len(d) != 8 {
		return cep
	}
	return d[:5] + "-" + d[5:]
}
