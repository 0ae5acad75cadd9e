package schedule

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidInput is returned for weekdays, months or holidays the engine cannot work with.
var ErrInvalidInput = errors.New("invalid input")

func validateWeekday(w time.Weekday) error {
	if w < time.Sunday || w > time.Saturday {
		return fmt.Errorf("%w: weekday %d out of range", ErrInvalidInput, int(w))
	}
	return nil
}

func validateMonth(m time.Month) error {
	if m < time.January || m > time.December {
		return fmt.Errorf("%w: month %d out of range", ErrInvalidInput, int(m))
	}
	return nil
}
