package layout

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidWindow is returned when a Window fails validation.
var ErrInvalidWindow = errors.New("invalid visible window")

var validate = validator.New()

// Window is the visible part of the day and the pixel height it is scaled onto.
type Window struct {
	StartHour    int     `json:"startHour" validate:"gte=0,lte=23"`
	EndHour      int     `json:"endHour" validate:"gtfield=StartHour,lte=24"`
	ScreenHeight float64 `json:"screenHeight" validate:"gt=0"`
}

// DefaultWindow returns the 09:00-21:00 window at the given height.
func DefaultWindow(screenHeight float64) Window {
	return Window{StartHour: 9, EndHour: 21, ScreenHeight: screenHeight}
}

// Validate checks 0 <= StartHour < EndHour <= 24 and ScreenHeight > 0.
func (w Window) Validate() error {
	if err := validate.Struct(w); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidWindow, err)
	}
	return nil
}

// Minutes returns the length of the window in minutes.
func (w Window) Minutes() int {
	return (w.EndHour - w.StartHour) * 60
}

// PixelsPerMinute returns the vertical scale of the window.
func (w Window) PixelsPerMinute() float64 {
	return w.ScreenHeight / float64(w.Minutes())
}
