package domain

const (
	MinNameLength = 3
	MaxNameLength = 64
)

// ValidateName accepts 3 to 64 bytes of ASCII letters, digits, space, '.', '-' and '_'.
func ValidateName(name string) error {
	length := len(name)
	if length < MinNameLength {
		return NameTooShortError{Length: length, Min: MinNameLength}
	}

	if length > MaxNameLength {
		return NameTooLongError{Length: length, Max: MaxNameLength}
	}

	for _, c := range name {
		if !validNameChar(c) {
			return InvalidCharacterError{Char: c}
		}
	}

	return nil
}

func validNameChar(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == ' ', c == '.', c == '-', c == '_':
		return true
	default:
		return false
	}
}
