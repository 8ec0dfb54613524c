package simulator

import (
	"context"
	"errors"

	"github.com/xtding233/roic-sim/internal/roic"
	"github.com/xtding233/roic-sim/internal/scenario"
)

// Kind buckets errors for transport status mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalid
	KindNotFound
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindNotFound:
		return "not_found"
	case KindCanceled:
		return "canceled"
	default:
		return "error"
	}
}

// Classify maps err onto a Kind.
func Classify(err error) Kind {
	switch {
	case errors.Is(err, scenario.ErrNotFound):
		return KindNotFound
	case errors.Is(err, scenario.ErrInvalidConfig),
		errors.Is(err, scenario.ErrBadName),
		errors.Is(err, roic.ErrInvalidInputs),
		errors.Is(err, roic.ErrInvalidFraction),
		errors.Is(err, roic.ErrInvalidParams),
		errors.Is(err, roic.ErrNonFinite),
		errors.Is(err, ErrOverLimit):
		return KindInvalid
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindInternal
	}
}
