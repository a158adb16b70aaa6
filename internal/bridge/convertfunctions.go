package bridge

import (
	"github.com/farouk15160/j1939-decoder/internal/j1939"
	"github.com/farouk15160/j1939-decoder/internal/logging"
	"github.com/farouk15160/j1939-decoder/internal/metadata"
)

// SignalResult is the outcome of decoding one SPN. Exactly one of Signal and
// Err is set.
type SignalResult struct {
	SPN    uint32               `json:"spn"`
	Signal *j1939.DecodedSignal `json:"signal,omitempty"`
	Err    error                `json:"-"`
	Error  string               `json:"error,omitempty"`
}

// Result is a decoded frame: the header always, plus the SPNs of its PGN when
// metadata is known.
type Result struct {
	Line       int               `json:"line,omitempty"`
	Frame      j1939.Frame       `json:"frame"`
	Group      *metadata.PGNInfo `json:"group,omitempty"`
	Signals    []SignalResult    `json:"signals,omitempty"`
	PayloadErr error             `json:"-"`
	Payload    string            `json:"payload_error,omitempty"`
}

// SignalErrors counts SPNs that failed to decode.
func (r Result) SignalErrors() int {
	n := 0
	for _, s := range r.Signals {
		if s.Err != nil {
			n++
		}
	}
	return n
}

// DecodeFrame decodes the SPNs listed for the frame's PGN. A failing SPN is
// recorded in its SignalResult and does not stop the others. An invalid
// payload is only an error when there are SPNs to decode.
func DecodeFrame(frame j1939.Frame, lookup Lookup) Result {
	res := Result{Frame: frame}
	if lookup == nil {
		return res
	}
	info, ok := lookup.PGN(frame.Header.PGN)
	if !ok {
		return res
	}
	res.Group = &info
	if len(info.SPNs) == 0 {
		return res
	}

	payload, err := frame.Payload()
	if err != nil {
		res.PayloadErr = err
		res.Payload = err.Error()
		return res
	}

	res.Signals = make([]SignalResult, 0, len(info.SPNs))
	for _, spn := range info.SPNs {
		res.Signals = append(res.Signals, decodeSPN(payload, spn, lookup))
	}
	return res
}

func decodeSPN(payload []byte, spn uint32, lookup Lookup) SignalResult {
	out := SignalResult{SPN: spn}
	def, err := lookup.Signal(spn)
	if err == nil {
		var sig j1939.DecodedSignal
		sig, err = j1939.DecodeSignal(payload, def)
		if err == nil {
			out.Signal = &sig
			return out
		}
	}
	logging.Debugf("Decode Warning: %v", err)
	out.Err = err
	out.Error = err.Error()
	return out
}
