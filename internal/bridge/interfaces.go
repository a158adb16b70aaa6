package bridge

import (
	"github.com/farouk15160/j1939-decoder/internal/candump"
	"github.com/farouk15160/j1939-decoder/internal/j1939"
	"github.com/farouk15160/j1939-decoder/internal/metadata"
)

// Lookup supplies PGN and SPN metadata. *metadata.Tables implements it.
type Lookup interface {
	PGN(pgn uint32) (metadata.PGNInfo, bool)
	Signal(spn uint32) (j1939.SignalDefinition, error)
}

// Sink receives every decoded frame. Console printers, JSON writers, MQTT
// publishers and CAN replayers all sit behind it.
type Sink interface {
	Emit(res Result) error
	Close() error
}

// Source yields frame tokens, typically a *candump.Reader.
type Source interface {
	Next() (candump.Line, error)
}
