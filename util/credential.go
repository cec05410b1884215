package util

import (
	"strings"
	"unicode/utf8"
)

// DeriveUsername builds the default login for a patient: the lowercase first
// letter of the first name, a dot, then the lowercase last name.
// No suffix is added when two patients share the result.
func DeriveUsername(firstName, lastName string) string {
	first := strings.TrimSpace(firstName)
	initial := ""
	if r, size := utf8.DecodeRuneInString(first); size > 0 && r != utf8.RuneError {
		initial = strings.ToLower(string(r))
	}
	return initial + "." + strings.ToLower(NormalizeName(lastName))
}

// DeriveDefaultPassword concatenates the lowercase last name with the compact
// DDMMYYYY birth date. Inner runs of whitespace in the name count as one space.
func DeriveDefaultPassword(lastName, compactDOB string) string {
	return strings.ToLower(NormalizeName(lastName)) + compactDOB
}
