// Package metadata holds the PGN and SPN lookup tables consumed by the decoder.
//
// Tables are built once and never mutated, so a single value can be shared by
// any number of concurrent decoders.
package metadata

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/cockroachdb/errors"

	"github.com/farouk15160/j1939-decoder/internal/j1939"
)

// PGNInfo describes one parameter group and the SPNs it carries, in order.
type PGNInfo struct {
	PGN     uint32   `json:"pgn"`
	Label   string   `json:"label"`
	Acronym string   `json:"acronym"`
	SPNs    []uint32 `json:"spns"`
}

// Tables maps PGNs and SPNs to their metadata.
type Tables struct {
	pgns    map[uint32]PGNInfo
	spns    map[uint32]j1939.SignalDefinition
	invalid map[uint32]error
}

// New builds Tables from already converted records. The maps are copied.
func New(pgns map[uint32]PGNInfo, spns map[uint32]j1939.SignalDefinition) *Tables {
	t := &Tables{
		pgns:    make(map[uint32]PGNInfo, len(pgns)),
		spns:    make(map[uint32]j1939.SignalDefinition, len(spns)),
		invalid: make(map[uint32]error),
	}
	for k, v := range pgns {
		v.PGN = k
		v.SPNs = slices.Clone(v.SPNs)
		t.pgns[k] = v
	}
	for k, v := range spns {
		v.SPN = k
		t.spns[k] = v
	}
	return t
}

// PGN returns the parameter group registered for pgn.
func (t *Tables) PGN(pgn uint32) (PGNInfo, bool) {
	if t == nil {
		return PGNInfo{}, false
	}
	info, ok := t.pgns[pgn]
	return info, ok
}

// Signal returns the definition of spn. Unknown SPNs and definitions that
// could not be converted at load time both fail with j1939.ErrSignalDecode.
func (t *Tables) Signal(spn uint32) (j1939.SignalDefinition, error) {
	if t == nil {
		return j1939.SignalDefinition{}, j1939.NewSignalDecodeError(spn, errors.New("no metadata loaded"))
	}
	if err, bad := t.invalid[spn]; bad {
		return j1939.SignalDefinition{}, j1939.NewSignalDecodeError(spn, err)
	}
	def, ok := t.spns[spn]
	if !ok {
		return j1939.SignalDefinition{}, j1939.NewSignalDecodeError(spn, errors.New("unknown SPN"))
	}
	return def, nil
}

// PGNs lists the known PGNs in ascending order.
func (t *Tables) PGNs() []uint32 {
	if t == nil {
		return nil
	}
	keys := maps.Keys(t.pgns)
	slices.Sort(keys)
	return keys
}

// Len reports the number of PGN and SPN entries, invalid SPNs included.
func (t *Tables) Len() (pgns, spns int) {
	if t == nil {
		return 0, 0
	}
	return len(t.pgns), len(t.spns) + len(t.invalid)
}

// IsEmpty reports whether no metadata is present.
func (t *Tables) IsEmpty() bool {
	p, s := t.Len()
	return p == 0 && s == 0
}

// Merge returns a new Tables holding the entries of t and other. Entries in
// other win on conflict.
func (t *Tables) Merge(other *Tables) *Tables {
	out := New(nil, nil)
	for _, src := range []*Tables{t, other} {
		if src == nil {
			continue
		}
		for k, v := range src.pgns {
			out.pgns[k] = v
		}
		for k, v := range src.spns {
			out.spns[k] = v
			delete(out.invalid, k)
		}
		for k, err := range src.invalid {
			out.invalid[k] = err
			delete(out.spns, k)
		}
	}
	return out
}
