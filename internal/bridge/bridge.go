package bridge

import (
	"context"
	"errors"
	"io"

	"github.com/farouk15160/j1939-decoder/internal/candump"
	"github.com/farouk15160/j1939-decoder/internal/j1939"
	"github.com/farouk15160/j1939-decoder/internal/logging"
)

// Stats summarises a run.
type Stats struct {
	Frames       int // tokens read
	Decoded      int // frames whose header decoded
	Failed       int // malformed lines, frames or payloads
	SignalErrors int // SPNs that failed to decode
	SinkErrors   int
}

// Bridge feeds frame tokens through the decoder and hands each result to its
// sinks.
type Bridge struct {
	lookup Lookup
	sinks  []Sink
}

func New(lookup Lookup, sinks ...Sink) *Bridge {
	return &Bridge{lookup: lookup, sinks: sinks}
}

// Process decodes a single token and emits the result. A malformed frame is
// returned as an error and nothing is emitted.
func (b *Bridge) Process(line int, token string) (Result, error) {
	frame, err := j1939.ParseFrame(token)
	if err != nil {
		return Result{}, err
	}
	res := DecodeFrame(frame, b.lookup)
	res.Line = line
	b.emit(res)
	return res, nil
}

// emit returns the number of sinks that failed.
func (b *Bridge) emit(res Result) int {
	failed := 0
	for _, s := range b.sinks {
		if err := s.Emit(res); err != nil {
			logging.Logf("Sink Error: frame %s: %v", res.Frame.Token, err)
			failed++
		}
	}
	return failed
}

// Run drains src. Malformed lines and frames are reported and skipped;
// only a read failure of the source or cancellation ends the run early.
func (b *Bridge) Run(ctx context.Context, src Source) (Stats, error) {
	var st Stats
	for {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		line, err := src.Next()
		if errors.Is(err, io.EOF) {
			return st, nil
		}
		var lineErr *candump.LineError
		if errors.As(err, &lineErr) {
			logging.Logf("ERROR: %v", err)
			st.Failed++
			continue
		}
		if err != nil {
			return st, err
		}

		st.Frames++
		frame, err := j1939.ParseFrame(line.Token)
		if err != nil {
			logging.Logf("ERROR: line %d: %v", line.Number, err)
			st.Failed++
			continue
		}
		res := DecodeFrame(frame, b.lookup)
		res.Line = line.Number
		st.Decoded++
		if res.PayloadErr != nil {
			logging.Logf("ERROR: line %d: %v", line.Number, res.PayloadErr)
			st.Failed++
		}
		st.SignalErrors += res.SignalErrors()
		st.SinkErrors += b.emit(res)
	}
}

// Close closes every sink and returns the first error.
func (b *Bridge) Close() error {
	var first error
	for _, s := range b.sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
