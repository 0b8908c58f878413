// Package frame implements the fixed 16-byte wire format.
//
// Every frame starts with a tag byte selecting the event kind, followed by
// the little-endian payload for that kind and zero padding:
//
//	tag 0  Timestamp  bytes 1..9   u64
//	tag 1  Gamepad    bytes 1..13  u16 buttons, u8 lt, u8 rt, i16 lx, ly, rx, ry
//	tag 2  Mouse      bytes 1..5   i8 x, i8 y, u8 buttons, i8 scroll
//
// There is no length prefix. Readers always consume exactly Size bytes, so a
// frame with an unknown tag can be skipped without losing alignment.
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/bft-labs/padship/internal/domain"
)

// Size is the length of every frame on the wire.
const Size = 16

// Payload sizes per kind.
const (
	TimestampSize = 8
	GamepadSize   = 12
	MouseSize     = 4
)

// Frame is one encoded event.
type Frame [Size]byte

// Tag returns the frame's tag byte.
func (f *Frame) Tag() uint8 { return f[0] }

// ErrUnknownTag matches any *UnknownTagError via errors.Is.
var ErrUnknownTag = errors.New("frame: unknown tag")

// UnknownTagError is returned by Decode for a tag outside the known set.
// It is a per-frame condition; the stream stays usable.
type UnknownTagError struct {
	Tag uint8
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("frame: unknown tag %d", e.Tag)
}

// Is reports whether target is ErrUnknownTag.
func (e *UnknownTagError) Is(target error) bool {
	return target == ErrUnknownTag
}

// Encode serializes ev into a frame. Bytes past the payload are zero.
// An event with a kind outside the known set gets its kind as tag and an
// empty payload.
func Encode(ev domain.Event) Frame {
	var f Frame
	f[0] = uint8(ev.Kind)
	p := f[1:]
	switch ev.Kind {
	case domain.KindTimestamp:
		binary.LittleEndian.PutUint64(p[0:8], ev.Timestamp)
	case domain.KindGamepad:
		putGamepad(p, ev.Gamepad)
	case domain.KindMouse:
		putMouse(p, ev.Mouse)
	}
	return f
}

// Decode parses a frame. Unknown tags yield *UnknownTagError.
func Decode(f Frame) (domain.Event, error) {
	p := f[1:]
	switch domain.EventKind(f[0]) {
	case domain.KindTimestamp:
		return domain.TimestampEvent(binary.LittleEndian.Uint64(p[0:8])), nil
	case domain.KindGamepad:
		return domain.GamepadEvent(gamepad(p)), nil
	case domain.KindMouse:
		return domain.MouseEvent(mouse(p)), nil
	default:
		return domain.Event{}, &UnknownTagError{Tag: f[0]}
	}
}

func putGamepad(b []byte, g domain.GamepadState) {
	binary.LittleEndian.PutUint16(b[0:2], g.Buttons)
	b[2] = g.LeftTrigger
	b[3] = g.RightTrigger
	binary.LittleEndian.PutUint16(b[4:6], uint16(g.ThumbLX))
	binary.LittleEndian.PutUint16(b[6:8], uint16(g.ThumbLY))
	binary.LittleEndian.PutUint16(b[8:10], uint16(g.ThumbRX))
	binary.LittleEndian.PutUint16(b[10:12], uint16(g.ThumbRY))
}

func gamepad(b []byte) domain.GamepadState {
	return domain.GamepadState{
		Buttons:      binary.LittleEndian.Uint16(b[0:2]),
		LeftTrigger:  b[2],
		RightTrigger: b[3],
		ThumbLX:      int16(binary.LittleEndian.Uint16(b[4:6])),
		ThumbLY:      int16(binary.LittleEndian.Uint16(b[6:8])),
		ThumbRX:      int16(binary.LittleEndian.Uint16(b[8:10])),
		ThumbRY:      int16(binary.LittleEndian.Uint16(b[10:12])),
	}
}

func putMouse(b []byte, m domain.MouseState) {
	b[0] = byte(m.X)
	b[1] = byte(m.Y)
	b[2] = m.Buttons
	b[3] = byte(m.Scroll)
}

func mouse(b []byte) domain.MouseState {
	return domain.MouseState{
		X:       int8(b[0]),
		Y:       int8(b[1]),
		Buttons: b[2],
		Scroll:  int8(b[3]),
	}
}

// ReadFrame reads exactly one frame from r, completing short reads.
// A stream that ends mid-frame yields io.ErrUnexpectedEOF; one that ends on
// a frame boundary yields io.EOF.
func ReadFrame(r io.Reader, f *Frame) error {
	_, err := io.ReadFull(r, f[:])
	return err
}

// WriteFrame writes all Size bytes of f to w, retrying short writes until
// the frame is complete or w reports an error.
func WriteFrame(w io.Writer, f Frame) error {
	buf := f[:]
	for len(buf) > 0 {
		n, err := w.Write(buf)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		buf = buf[n:]
	}
	return nil
}
