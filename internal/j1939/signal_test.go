package j1939

import (
	"errors"
	"testing"
)

var testPayload = []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

func TestDecodeSignalScenarios(t *testing.T) {
	cases := []struct {
		name  string
		def   SignalDefinition
		raw   uint64
		value float64
	}{
		{
			name:  "identity scale",
			def:   SignalDefinition{SPN: 1, BitPositionStart: 0, SPNLength: 8, ResolutionNumerator: 1, ResolutionDenominator: 1},
			raw:   1,
			value: 1.0,
		},
		{
			name:  "half scale with offset",
			def:   SignalDefinition{SPN: 2, BitPositionStart: 0, SPNLength: 8, ResolutionNumerator: 5, ResolutionDenominator: 10, Offset: -40},
			raw:   1,
			value: -39.5,
		},
		{
			name:  "last byte",
			def:   SignalDefinition{SPN: 3, BitPositionStart: 56, SPNLength: 8, ResolutionNumerator: 1, ResolutionDenominator: 1},
			raw:   8,
			value: 8,
		},
		{
			name:  "two bytes big endian",
			def:   SignalDefinition{SPN: 4, BitPositionStart: 8, SPNLength: 16, ResolutionNumerator: 1, ResolutionDenominator: 8},
			raw:   0x0203,
			value: float64(0x0203) / 8,
		},
		{
			name:  "unaligned window",
			def:   SignalDefinition{SPN: 5, BitPositionStart: 6, SPNLength: 4, ResolutionNumerator: 1, ResolutionDenominator: 1},
			raw:   0x4, // bits 6..9: 01 | 00
			value: 4,
		},
		{
			name:  "whole payload",
			def:   SignalDefinition{SPN: 6, BitPositionStart: 0, SPNLength: 64, ResolutionNumerator: 1, ResolutionDenominator: 1},
			raw:   0x0102030405060708,
			value: float64(uint64(0x0102030405060708)),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeSignal(testPayload, tc.def)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Raw != tc.raw {
				t.Fatalf("raw = %#x, want %#x", got.Raw, tc.raw)
			}
			if got.Value != tc.value {
				t.Fatalf("value = %v, want %v", got.Value, tc.value)
			}
			if got.SPN != tc.def.SPN {
				t.Fatalf("spn = %d", got.SPN)
			}
		})
	}
}

func TestDecodeSignalScale(t *testing.T) {
	def := SignalDefinition{ResolutionNumerator: 5, ResolutionDenominator: 10}
	if def.Scale() != 0.5 {
		t.Fatalf("scale = %v", def.Scale())
	}
}

func TestDecodeSignalOutOfRange(t *testing.T) {
	def := SignalDefinition{SPN: 190, BitPositionStart: 60, SPNLength: 8, ResolutionNumerator: 1, ResolutionDenominator: 1}
	_, err := DecodeSignal(testPayload, def)
	if !errors.Is(err, ErrSignalOutOfRange) {
		t.Fatalf("err = %v, want out of range", err)
	}
	var se *SignalError
	if !errors.As(err, &se) || se.SPN != 190 {
		t.Fatalf("expected SignalError for SPN 190, got %#v", err)
	}
}

func TestDecodeSignalWindowCheckIsExact(t *testing.T) {
	bits := len(testPayload) * 8
	for start := 0; start <= bits+4; start++ {
		for length := 1; length <= 16; length++ {
			def := SignalDefinition{BitPositionStart: start, SPNLength: length, ResolutionNumerator: 1, ResolutionDenominator: 1}
			_, err := DecodeSignal(testPayload, def)
			overflow := start+length > bits
			if overflow != errors.Is(err, ErrSignalOutOfRange) {
				t.Fatalf("start=%d length=%d: err = %v", start, length, err)
			}
			if !overflow && err != nil {
				t.Fatalf("start=%d length=%d: unexpected err %v", start, length, err)
			}
		}
	}
}

func TestDecodeSignalEmptyPayload(t *testing.T) {
	def := SignalDefinition{BitPositionStart: 0, SPNLength: 1, ResolutionNumerator: 1, ResolutionDenominator: 1}
	if _, err := DecodeSignal(nil, def); !errors.Is(err, ErrSignalOutOfRange) {
		t.Fatalf("err = %v", err)
	}
}

func TestDecodeSignalBadMetadata(t *testing.T) {
	long := make([]byte, 16)
	cases := []struct {
		name    string
		payload []byte
		def     SignalDefinition
	}{
		{"zero denominator", testPayload, SignalDefinition{SPNLength: 8, ResolutionNumerator: 1}},
		{"zero length", testPayload, SignalDefinition{SPNLength: 0, ResolutionNumerator: 1, ResolutionDenominator: 1}},
		{"negative start", testPayload, SignalDefinition{BitPositionStart: -1, SPNLength: 8, ResolutionNumerator: 1, ResolutionDenominator: 1}},
		{"too wide", long, SignalDefinition{SPNLength: 65, ResolutionNumerator: 1, ResolutionDenominator: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeSignal(tc.payload, tc.def)
			if !errors.Is(err, ErrSignalDecode) {
				t.Fatalf("err = %v, want signal decode error", err)
			}
		})
	}
}
