package schema

import "strings"

// ValidAPIName reports whether s is a usable field or type identifier: a
// snake_case token starting with a letter.
func ValidAPIName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		case r == '_':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// DeriveAPIName turns a display name like "Phone Number" into a snake_case
// identifier: lower-case, non-alphanumeric runs collapsed to a single
// underscore, leading/trailing underscores trimmed. Collision suffixing
// (_2, _3, ...) is the caller's job since it needs store knowledge.
func DeriveAPIName(name string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(name) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if isAlnum {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore && b.Len() > 0 {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	derived := strings.Trim(b.String(), "_")
	if derived == "" {
		return "field"
	}
	// Identifiers cannot start with a digit.
	if derived[0] >= '0' && derived[0] <= '9' {
		derived = "f_" + derived
	}
	return derived
}
