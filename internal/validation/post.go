// Package validation contains input validation rules for request bodies.
package validation

import "strings"

const (
	postTextMin = 10
	postTextMax = 300
)

// ValidatePostInput checks the text body of a new post or comment. It returns
// a map of field name to message for every failed check and whether the input
// passed as a whole.
func ValidatePostInput(text string) (map[string]string, bool) {
	errors := make(map[string]string)

	trimmed := strings.TrimSpace(text)
	switch {
	case trimmed == "":
		errors["text"] = "Text field is required"
	case len(trimmed) < postTextMin || len(trimmed) > postTextMax:
		errors["text"] = "Post must be between 10 and 300 characters"
	}

	return errors, len(errors) == 0
}
