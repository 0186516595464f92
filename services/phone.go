package services

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// PhoneUnavailable is the sentinel stored in place of a phone number that
// could not be validated.
const PhoneUnavailable = "Not Available"

// nonPhoneChars matches everything except digits and a leading '+'.
var nonPhoneChars = regexp.MustCompile(`[^\d+]`)

// Only reachable line types count as usable contact numbers.
var allowedPhoneTypes = map[phonenumbers.PhoneNumberType]struct{}{
	phonenumbers.MOBILE:               {},
	phonenumbers.FIXED_LINE:           {},
	phonenumbers.FIXED_LINE_OR_MOBILE: {},
}

// NormalizePhone parses free-text phone input for the given region (ISO
// 3166-1 alpha-2, e.g. "IN") and returns the E.164 form. A single parse
// attempt is made; any failure yields (PhoneUnavailable, false), never an
// error.
func NormalizePhone(raw, region string) (string, bool) {
	cleaned := nonPhoneChars.ReplaceAllString(strings.TrimSpace(raw), "")
	if cleaned == "" || cleaned == "+" {
		return PhoneUnavailable, false
	}

	parsed, err := phonenumbers.Parse(cleaned, region)
	if err != nil {
		return PhoneUnavailable, false
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return PhoneUnavailable, false
	}
	if _, ok := allowedPhoneTypes[phonenumbers.GetNumberType(parsed)]; !ok {
		return PhoneUnavailable, false
	}

	return phonenumbers.Format(parsed, phonenumbers.E164), true
}
