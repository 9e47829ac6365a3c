// Package apperr defines the error kinds surfaced by the inventory builder.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCard   = errors.New("missing info card")
	ErrMalformedCard = errors.New("malformed info card")
)

// DefaultHint tells the author where to look for a conforming card.
const DefaultHint = "See one of the other report notebooks for what the card should look like."

// MissingCardError is returned when no markdown cell of a notebook carries the
// margin/card/identifier header.
type MissingCardError struct {
	Path string // notebook path relative to the repository root
	Hint string
}

func (e *MissingCardError) Error() string {
	msg := fmt.Sprintf("Technical report %s does not contain an info card.", e.Path)
	if e.Hint != "" {
		msg += " " + e.Hint
	}
	return msg
}

// Is lets errors.Is(err, ErrMissingCard) match any MissingCardError.
func (e *MissingCardError) Is(target error) bool {
	return target == ErrMissingCard
}
