// Package util provides common utility functions used across the recorder.
package util

import "strings"

// TrimQuotes removes leading and trailing double quotes from a string.
// Some spreadsheet exports quote every CSV header cell.
func TrimQuotes(s string) string {
	return strings.Trim(s, `"`)
}

// SanitizeName makes a run name safe for use in a file name by replacing
// spaces and colons with underscores.
func SanitizeName(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ReplaceAll(s, ":", "_")
}

// Contains checks if a string slice contains a specific string.
func Contains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
