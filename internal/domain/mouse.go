package domain

import "fmt"

// Mouse button bits carried in MouseState.Buttons.
const (
	MouseLeft  uint8 = 1
	MouseRight uint8 = 2
)

// MouseState carries one sample of mouse input.
// X, Y and Scroll are deltas since the previous sample; Buttons is absolute.
type MouseState struct {
	X       int8  `json:"x"`
	Y       int8  `json:"y"`
	Buttons uint8 `json:"buttons"`
	Scroll  int8  `json:"scroll"`
}

// Moved reports whether the sample carries any relative displacement.
func (m MouseState) Moved() bool {
	return m.X != 0 || m.Y != 0 || m.Scroll != 0
}

func (m MouseState) String() string {
	return fmt.Sprintf("mouse{x:%d y:%d buttons:%#02x scroll:%d}", m.X, m.Y, m.Buttons, m.Scroll)
}

// SaturatingAdd adds two int8 deltas, clamping at the int8 range instead of
// wrapping.
func SaturatingAdd(a, b int8) int8 {
	s := int16(a) + int16(b)
	switch {
	case s > 127:
		return 127
	case s < -128:
		return -128
	default:
		return int8(s)
	}
}
