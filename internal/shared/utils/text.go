package utils

import "strings"

// TrimFields trims surrounding whitespace from every given string in place.
// Nil pointers are skipped, so optional update fields can be passed directly.
func TrimFields(fields ...*string) {
	for _, f := range fields {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}
