package model

import (
	"errors"
	"fmt"
	"unicode"
)

const MaxNameLength = 32

var ErrNameEmpty = errors.New("display name must not be empty")
var ErrNameTooLong = fmt.Errorf("display name must not exceed %d characters", MaxNameLength)
var ErrNameInvalidChars = errors.New("display name must not contain ':', ',', or control characters")

// ValidateName checks that a display name can be carried safely in the wire
// format. Names appear inside colon-delimited messages and the comma-joined
// roster, so ':' and ',' would corrupt framing for every connected client.
func ValidateName(name string) error {
	if len(name) == 0 {
		return ErrNameEmpty
	}
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	for _, r := range name {
		if r == ':' || r == ',' || unicode.IsControl(r) {
			return ErrNameInvalidChars
		}
	}
	return nil
}
