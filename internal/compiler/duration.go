package compiler

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"browserflow/internal/entity"
	"browserflow/pkg/apperr"
)

var ErrInvalidDuration = errors.New("invalid duration")

// ParseDuration reads a recorded wait length. Numbers, including bare digit
// strings, are milliseconds; anything else goes through time.ParseDuration
// ("500ms", "2s", "1m").
func ParseDuration(d entity.Duration) (time.Duration, error) {
	const op = "ParseDuration"

	if d.Millis != nil {
		return fromMillis(op, *d.Millis)
	}

	text := strings.TrimSpace(d.Text)
	if text == "" {
		return 0, apperr.InvalidReqError(op, "duration", fmt.Errorf("%w: empty", ErrInvalidDuration))
	}

	if ms, err := strconv.ParseFloat(text, 64); err == nil {
		return fromMillis(op, ms)
	}

	parsed, err := time.ParseDuration(text)
	if err != nil {
		return 0, apperr.InvalidReqError(op, "duration", fmt.Errorf("%w: %q", ErrInvalidDuration, text))
	}

	if parsed < 0 {
		return 0, apperr.InvalidReqError(op, "duration", fmt.Errorf("%w: negative %q", ErrInvalidDuration, text))
	}

	return parsed, nil
}

// maxMillis is the longest wait time.Duration can hold.
const maxMillis = float64(math.MaxInt64) / float64(time.Millisecond)

func fromMillis(op string, ms float64) (time.Duration, error) {
	switch {
	case math.IsNaN(ms) || math.IsInf(ms, 0):
		return 0, apperr.InvalidReqError(op, "duration", fmt.Errorf("%w: %vms", ErrInvalidDuration, ms))
	case ms < 0:
		return 0, apperr.InvalidReqError(op, "duration", fmt.Errorf("%w: negative %vms", ErrInvalidDuration, ms))
	case ms > maxMillis:
		return 0, apperr.InvalidReqError(op, "duration", fmt.Errorf("%w: %vms out of range", ErrInvalidDuration, ms))
	}

	return time.Duration(ms * float64(time.Millisecond)), nil
}
