package domain

import "fmt"

// XInput button bits carried in GamepadState.Buttons.
const (
	ButtonUp     uint16 = 0x0001
	ButtonDown   uint16 = 0x0002
	ButtonLeft   uint16 = 0x0004
	ButtonRight  uint16 = 0x0008
	ButtonStart  uint16 = 0x0010
	ButtonBack   uint16 = 0x0020
	ButtonLThumb uint16 = 0x0040
	ButtonRThumb uint16 = 0x0080
	ButtonLB     uint16 = 0x0100
	ButtonRB     uint16 = 0x0200
	ButtonGuide  uint16 = 0x0400
	ButtonA      uint16 = 0x1000
	ButtonB      uint16 = 0x2000
	ButtonX      uint16 = 0x4000
	ButtonY      uint16 = 0x8000
)

// GamepadState is an absolute snapshot of the controller.
// Scaling from raw analog input into these fixed-width fields is the
// sampler's job.
type GamepadState struct {
	Buttons      uint16 `json:"buttons"`
	LeftTrigger  uint8  `json:"left_trigger"`
	RightTrigger uint8  `json:"right_trigger"`
	ThumbLX      int16  `json:"thumb_lx"`
	ThumbLY      int16  `json:"thumb_ly"`
	ThumbRX      int16  `json:"thumb_rx"`
	ThumbRY      int16  `json:"thumb_ry"`
}

// Pressed reports whether every bit in mask is set.
func (g GamepadState) Pressed(mask uint16) bool {
	return g.Buttons&mask == mask
}

func (g GamepadState) String() string {
	return fmt.Sprintf("gamepad{buttons:%#04x lt:%d rt:%d l:(%d,%d) r:(%d,%d)}",
		g.Buttons, g.LeftTrigger, g.RightTrigger, g.ThumbLX, g.ThumbLY, g.ThumbRX, g.ThumbRY)
}
