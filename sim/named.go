package sim

import (
	"fmt"
	"strings"
	"unicode"
)

// Named describes an object that has a name.
type Named interface {
	// Name returns the name of the object.
	Name() string
}

// NamedBase is a base implementation of Named.
type NamedBase struct {
	name string
}

// Name returns the name of the object.
func (b NamedBase) Name() string {
	return b.name
}

// MakeNamedBase creates a new NamedBase. It panics if the name is not valid.
func MakeNamedBase(name string) NamedBase {
	NameMustBeValid(name)

	return NamedBase{name: name}
}

// NameMustBeValid panics if the name does not follow the naming convention.
// A name is a series of dot separated tokens, for example "Array.Bank". Each
// token starts with a capital letter, contains only letters and digits, and
// may end with square-bracket indices such as "Disk[3]".
func NameMustBeValid(name string) {
	if err := validateName(name); err != nil {
		panic(fmt.Sprintf("name %q is not valid: %v", name, err))
	}
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("name must not be empty")
	}

	for _, token := range strings.Split(name, ".") {
		if err := validateNameToken(token); err != nil {
			return err
		}
	}

	return nil
}

func validateNameToken(token string) error {
	elem, indices, _ := strings.Cut(token, "[")
	if indices != "" {
		indices = "[" + indices
	}

	if elem == "" {
		return fmt.Errorf("tokens must not be empty")
	}

	for i, r := range elem {
		switch {
		case i == 0 && !unicode.IsUpper(r):
			return fmt.Errorf("token %q must start with a capital letter", elem)
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			return fmt.Errorf("token %q must only contain letters and digits",
				elem)
		}
	}

	for indices != "" {
		end := strings.IndexByte(indices, ']')
		if indices[0] != '[' || end < 2 {
			return fmt.Errorf("bad index in %q", token)
		}

		for _, r := range indices[1:end] {
			if !unicode.IsDigit(r) {
				return fmt.Errorf("index in %q must be an integer", token)
			}
		}

		indices = indices[end+1:]
	}

	return nil
}
