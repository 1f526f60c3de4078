package conformance

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// BoundPolicy selects how the sequence length bound is applied.
type BoundPolicy string

const (
	// BoundFixed searches exactly up to Options.MaxLength.
	BoundFixed BoundPolicy = "fixed"
	// BoundAdaptive grows the bound from 1 until the result is complete or
	// Options.AdaptiveLimit is reached.
	BoundAdaptive BoundPolicy = "adaptive"
)

// DefaultMaxLength is the search bound for distinguishing sequences.
const DefaultMaxLength = 4

// MaxSearchSequences caps the number of sequences a single distinguishing
// search may enumerate and cache.
const MaxSearchSequences = 1 << 22

// ErrInvalidOptions is wrapped by Options.Validate failures.
var ErrInvalidOptions = errors.New("invalid options")

// Options bounds the exhaustive searches. The zero value is not valid; start
// from DefaultOptions.
type Options struct {
	// MaxLength bounds the distinguishing, characterizing and identifying
	// searches under BoundFixed.
	MaxLength int

	// CoverLength bounds the state cover search. Zero means the number of
	// states.
	CoverLength int

	// Bound selects the bound policy for distinguishing searches.
	Bound BoundPolicy

	// AdaptiveLimit caps BoundAdaptive. Zero means states × inputs.
	AdaptiveLimit int

	// RequireComplete makes suite synthesis fail with *IncompleteError
	// instead of building a suite from incomplete artifacts.
	RequireComplete bool

	// Logger receives debug and warning messages. Nil discards them.
	Logger *log.Logger
}

// DefaultOptions returns the reference bounds: length 4, fixed policy,
// cover bounded by the number of states.
func DefaultOptions() Options {
	return Options{
		MaxLength: DefaultMaxLength,
		Bound:     BoundFixed,
	}
}

// Validate reports whether the options are usable.
func (o Options) Validate() error {
	if o.MaxLength <= 0 {
		return fmt.Errorf("%w: max length must be positive, got %d", ErrInvalidOptions, o.MaxLength)
	}
	if o.CoverLength < 0 {
		return fmt.Errorf("%w: cover length must not be negative, got %d", ErrInvalidOptions, o.CoverLength)
	}
	if o.AdaptiveLimit < 0 {
		return fmt.Errorf("%w: adaptive limit must not be negative, got %d", ErrInvalidOptions, o.AdaptiveLimit)
	}
	switch o.Bound {
	case BoundFixed, BoundAdaptive:
	default:
		return fmt.Errorf("%w: unknown bound policy %q", ErrInvalidOptions, o.Bound)
	}
	return nil
}

var discard = log.New(io.Discard)

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return discard
	}
	return o.Logger
}

// searchBounds returns the lengths to try, in order. Fixed yields MaxLength
// once; adaptive yields 1, 2, ... up to the limit, stopping early at the
// last length whose enumeration fits in MaxSearchSequences. A fixed bound
// over the cap is an error.
func (o Options) searchBounds(states, inputs int) ([]int, error) {
	if o.Bound != BoundAdaptive {
		if n := Count(inputs, o.MaxLength); n > MaxSearchSequences {
			return nil, fmt.Errorf("%w: max length %d over %d inputs enumerates more than %d sequences",
				ErrInvalidOptions, o.MaxLength, inputs, MaxSearchSequences)
		}
		return []int{o.MaxLength}, nil
	}
	limit := o.AdaptiveLimit
	if limit == 0 {
		limit = states * inputs
	}
	limit = max(limit, 1)

	var out []int
	for l := 1; l <= limit; l++ {
		if Count(inputs, l) > MaxSearchSequences {
			o.logger().Warn("adaptive bound capped", "limit", limit, "capped", l-1)
			break
		}
		out = append(out, l)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %d inputs exceed the search cap of %d sequences",
			ErrInvalidOptions, inputs, MaxSearchSequences)
	}
	return out, nil
}

func (o Options) coverLength(states int) int {
	if o.CoverLength > 0 {
		return o.CoverLength
	}
	return states
}
