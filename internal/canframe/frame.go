// Package canframe converts decoded J1939 frames to the classic CAN frame type
// of github.com/brutella/can and back to candump text.
package canframe

import (
	"fmt"
	"strings"

	"github.com/brutella/can"

	"github.com/farouk15160/j1939-decoder/internal/j1939"
)

const (
	// MaxDataLength is the payload limit of a classic CAN frame.
	MaxDataLength = 8

	// SocketCAN flag bits carried in can.Frame.ID.
	effFlag = 0x80000000
	rtrFlag = 0x40000000
	errFlag = 0x20000000
	effMask = 0x1FFFFFFF
)

// ToCAN builds an extended-format can.Frame from f. Payloads longer than a
// classic frame, or invalid payload text, are rejected.
func ToCAN(f j1939.Frame) (can.Frame, error) {
	data, err := f.Payload()
	if err != nil {
		return can.Frame{}, err
	}
	if len(data) > MaxDataLength {
		return can.Frame{}, fmt.Errorf("frame %s: payload of %d bytes exceeds %d", f.Token, len(data), MaxDataLength)
	}
	cf := can.Frame{
		ID:     f.ID&effMask | effFlag,
		Length: uint8(len(data)),
	}
	copy(cf.Data[:], data)
	return cf, nil
}

// Format renders cf in candump frame notation, e.g. "18FEE000#1BC9A800".
func Format(cf can.Frame) string {
	length := int(cf.Length)
	if length > MaxDataLength {
		length = MaxDataLength
	}
	var b strings.Builder
	if cf.ID&effFlag != 0 {
		fmt.Fprintf(&b, "%08X#", cf.ID&effMask)
	} else {
		fmt.Fprintf(&b, "%03X#", cf.ID&0x7FF)
	}
	for _, d := range cf.Data[:length] {
		fmt.Fprintf(&b, "%02X", d)
	}
	return b.String()
}

// IsExtended reports whether cf carries a 29-bit identifier and is a plain
// data frame.
func IsExtended(cf can.Frame) bool {
	return cf.ID&effFlag != 0 && cf.ID&(rtrFlag|errFlag) == 0
}
