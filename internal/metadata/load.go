package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/farouk15160/j1939-decoder/internal/j1939"
	"github.com/farouk15160/j1939-decoder/internal/logging"
)

// Document is the on-disk shape of a metadata file. Either section may be
// absent, so PGN and SPN tables can live in separate files.
type Document struct {
	PGNs map[string]PGNRecord `json:"pgns" yaml:"pgns"`
	SPNs map[string]SPNRecord `json:"spns" yaml:"spns"`
}

type PGNRecord struct {
	Label   string   `json:"label" yaml:"label"`
	Acronym string   `json:"acronym" yaml:"acronym"`
	SPNs    []uint32 `json:"spns" yaml:"spns"`
}

// SPNRecord keeps the numeric fields untyped: a record with a non-numeric
// value is loaded as invalid instead of failing the whole file.
type SPNRecord struct {
	Name                  string      `json:"name" yaml:"name"`
	Description           string      `json:"description" yaml:"description"`
	BitPositionStart      interface{} `json:"bit_position_start" yaml:"bit_position_start"`
	SPNLength             interface{} `json:"spn_length" yaml:"spn_length"`
	ResolutionNumerator   interface{} `json:"resolution_numerator" yaml:"resolution_numerator"`
	ResolutionDenominator interface{} `json:"resolution_denominator" yaml:"resolution_denominator"`
	Offset                interface{} `json:"offset" yaml:"offset"`
	Units                 string      `json:"units" yaml:"units"`
}

// Load reads one metadata file. Files ending in .yaml or .yml are parsed as
// YAML, anything else as JSON.
func Load(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&doc)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decode metadata %s", path)
	}
	t := FromDocument(doc)
	p, s := t.Len()
	logging.Debugf("Loaded metadata from %s: %d PGNs, %d SPNs", path, p, s)
	return t, nil
}

// LoadFiles loads the PGN and SPN files concurrently and merges them. An
// empty path is skipped; when both paths name the same file it is read once.
func LoadFiles(ctx context.Context, pgnPath, spnPath string) (*Tables, error) {
	if pgnPath == spnPath {
		spnPath = ""
	}
	paths := []string{pgnPath, spnPath}
	results := make([]*Tables, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		if path == "" {
			continue
		}
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := Load(path)
			if err != nil {
				return err
			}
			results[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results[0].Merge(results[1]), nil
}

// FromDocument converts a decoded document. Keys that are not decimal
// integers are skipped.
func FromDocument(doc Document) *Tables {
	t := New(nil, nil)
	for key, rec := range doc.PGNs {
		pgn, ok := numericKey("pgn", key)
		if !ok {
			continue
		}
		t.pgns[pgn] = PGNInfo{
			PGN:     pgn,
			Label:   strings.TrimSpace(rec.Label),
			Acronym: strings.TrimSpace(rec.Acronym),
			SPNs:    rec.SPNs,
		}
	}
	for key, rec := range doc.SPNs {
		spn, ok := numericKey("spn", key)
		if !ok {
			continue
		}
		def, err := rec.definition(spn)
		if err != nil {
			logging.Debugf("SPN %d: unusable definition: %v", spn, err)
			t.invalid[spn] = err
			continue
		}
		t.spns[spn] = def
	}
	return t
}

func numericKey(kind, key string) (uint32, bool) {
	v, err := strconv.ParseUint(strings.TrimSpace(key), 10, 32)
	if err != nil {
		logging.Debugf("Skipping non-numeric %s key %q", kind, key)
		return 0, false
	}
	return uint32(v), true
}

func (r SPNRecord) definition(spn uint32) (j1939.SignalDefinition, error) {
	start, err := integer("bit_position_start", r.BitPositionStart)
	if err != nil {
		return j1939.SignalDefinition{}, err
	}
	length, err := integer("spn_length", r.SPNLength)
	if err != nil {
		return j1939.SignalDefinition{}, err
	}
	num, err := number("resolution_numerator", r.ResolutionNumerator)
	if err != nil {
		return j1939.SignalDefinition{}, err
	}
	den, err := number("resolution_denominator", r.ResolutionDenominator)
	if err != nil {
		return j1939.SignalDefinition{}, err
	}
	offset := 0.0
	if r.Offset != nil {
		if offset, err = number("offset", r.Offset); err != nil {
			return j1939.SignalDefinition{}, err
		}
	}
	return j1939.SignalDefinition{
		SPN:                   spn,
		Name:                  strings.TrimSpace(r.Name),
		Description:           strings.TrimSpace(r.Description),
		BitPositionStart:      start,
		SPNLength:             length,
		ResolutionNumerator:   num,
		ResolutionDenominator: den,
		Offset:                offset,
		Units:                 strings.TrimSpace(r.Units),
	}, nil
}

// number accepts the value types produced by the JSON (UseNumber) and YAML
// decoders, plus numeric strings.
func number(field string, v interface{}) (float64, error) {
	switch n := v.(type) {
	case nil:
		return 0, errors.Newf("%s: missing", field)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, errors.Newf("%s: %q is not a number", field, n.String())
		}
		return f, nil
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, errors.Newf("%s: %q is not a number", field, n)
		}
		return f, nil
	default:
		return 0, errors.Newf("%s: unsupported value %v (%T)", field, v, v)
	}
}

func integer(field string, v interface{}) (int, error) {
	f, err := number(field, v)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, errors.Newf("%s: %v is not an integer", field, f)
	}
	return int(f), nil
}
