package j1939

import "math"

// maxSignalBits bounds an SPN so its raw value fits in a uint64.
const maxSignalBits = 64

// SignalDefinition locates and scales one SPN within a payload. Bit positions
// count from the most significant bit of the first payload byte.
type SignalDefinition struct {
	SPN                   uint32  `json:"spn"`
	Name                  string  `json:"name"`
	Description           string  `json:"description,omitempty"`
	BitPositionStart      int     `json:"bit_position_start"`
	SPNLength             int     `json:"spn_length"`
	ResolutionNumerator   float64 `json:"resolution_numerator"`
	ResolutionDenominator float64 `json:"resolution_denominator"`
	Offset                float64 `json:"offset"`
	Units                 string  `json:"units,omitempty"`
}

// Scale returns the resolution as a real number. It is infinite or NaN when
// the denominator is zero; DecodeSignal rejects such definitions.
func (d SignalDefinition) Scale() float64 {
	return d.ResolutionNumerator / d.ResolutionDenominator
}

// DecodedSignal is the raw and scaled value of one SPN.
type DecodedSignal struct {
	SPN   uint32  `json:"spn"`
	Name  string  `json:"name,omitempty"`
	Raw   uint64  `json:"raw"`
	Value float64 `json:"value"`
	Units string  `json:"units,omitempty"`
}

// DecodeSignal extracts def's bit window from payload and applies
// value = raw * numerator / denominator + offset.
//
// A window reaching past the payload fails with ErrSignalOutOfRange; it is
// never truncated. Unusable metadata fails with ErrSignalDecode.
func DecodeSignal(payload []byte, def SignalDefinition) (DecodedSignal, error) {
	start, length := def.BitPositionStart, def.SPNLength
	if start < 0 {
		return DecodedSignal{}, signalErrorf(ErrSignalDecode, def.SPN, "negative bit position %d", start)
	}
	if length <= 0 {
		return DecodedSignal{}, signalErrorf(ErrSignalDecode, def.SPN, "non-positive length %d", length)
	}
	bits := len(payload) * 8
	if start > bits || length > bits-start {
		return DecodedSignal{}, signalErrorf(ErrSignalOutOfRange, def.SPN,
			"bits [%d,%d) exceed payload of %d bits", start, start+length, bits)
	}
	if length > maxSignalBits {
		return DecodedSignal{}, signalErrorf(ErrSignalDecode, def.SPN, "length %d exceeds %d bits", length, maxSignalBits)
	}
	if def.ResolutionDenominator == 0 {
		return DecodedSignal{}, signalErrorf(ErrSignalDecode, def.SPN, "zero resolution denominator")
	}

	raw := extractBits(payload, start, length)
	value := float64(raw)*def.Scale() + def.Offset
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return DecodedSignal{}, signalErrorf(ErrSignalDecode, def.SPN, "scaled value is not finite")
	}

	return DecodedSignal{
		SPN:   def.SPN,
		Name:  def.Name,
		Raw:   raw,
		Value: value,
		Units: def.Units,
	}, nil
}

// extractBits reads length bits starting at start as a big-endian unsigned
// integer. The caller guarantees the window is inside payload.
func extractBits(payload []byte, start, length int) uint64 {
	var raw uint64
	for i := start; i < start+length; i++ {
		bit := payload[i/8] >> (7 - uint(i%8)) & 1
		raw = raw<<1 | uint64(bit)
	}
	return raw
}
