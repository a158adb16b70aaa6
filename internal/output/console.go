// Package output renders decoded frames for people and for other programs.
package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/farouk15160/j1939-decoder/internal/bridge"
)

const ruleWidth = 40

// Console prints a human readable summary per frame.
type Console struct {
	mu      sync.Mutex
	w       io.Writer
	signals bool
}

// NewConsole writes summaries to w. When signals is false the SPN section is
// left out even if metadata decoded it.
func NewConsole(w io.Writer, signals bool) *Console {
	return &Console{w: w, signals: signals}
}

func (c *Console) Emit(res bridge.Result) error {
	var b strings.Builder
	writeSummary(&b, res, c.signals)
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := io.WriteString(c.w, b.String())
	return err
}

func (c *Console) Close() error { return nil }

func writeSummary(b *strings.Builder, res bridge.Result, signals bool) {
	h := res.Frame.Header
	fmt.Fprintf(b, "CAN Frame: %s\n", res.Frame.Token)
	fmt.Fprintf(b, "Source Address: %d (0x%X)\n", h.SourceAddress, h.SourceAddress)
	fmt.Fprintf(b, "PGN: %d (0x%X)\n", h.PGN, h.PGN)
	if res.Group != nil {
		fmt.Fprintf(b, "Group: %s (%s)\n", res.Group.Label, res.Group.Acronym)
	}
	b.WriteString(strings.Repeat("*", ruleWidth) + "\n")
	fmt.Fprintf(b, "Priority: %d\n", h.Priority)
	fmt.Fprintf(b, "Reserved: %d\n", h.Reserved)
	fmt.Fprintf(b, "Data Page: %d\n", h.DataPage)
	fmt.Fprintf(b, "PDU Format: %d (0x%X)\n", h.PDUFormat, h.PDUFormat)
	fmt.Fprintf(b, "PDU Specific: %d (0x%X)\n", h.PDUSpecific, h.PDUSpecific)
	if signals {
		if res.PayloadErr != nil {
			fmt.Fprintf(b, "Payload: ERROR: %v\n", res.PayloadErr)
		}
		for _, s := range res.Signals {
			writeSignal(b, s)
		}
	}
	b.WriteString(strings.Repeat("-", ruleWidth) + "\n\n")
}

func writeSignal(b *strings.Builder, s bridge.SignalResult) {
	if s.Err != nil {
		fmt.Fprintf(b, "SPN %d: ERROR: %v\n", s.SPN, s.Err)
		return
	}
	sig := s.Signal
	value := strconv.FormatFloat(sig.Value, 'f', -1, 64)
	if sig.Units != "" {
		value += " " + sig.Units
	}
	fmt.Fprintf(b, "SPN %d %s: %s (raw %d)\n", sig.SPN, sig.Name, value, sig.Raw)
}

// JSONLines writes one JSON object per frame.
type JSONLines struct {
	mu  sync.Mutex
	buf *bufio.Writer
	enc *json.Encoder
}

func NewJSONLines(w io.Writer) *JSONLines {
	buf := bufio.NewWriter(w)
	return &JSONLines{buf: buf, enc: json.NewEncoder(buf)}
}

func (j *JSONLines) Emit(res bridge.Result) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.enc.Encode(res); err != nil {
		return err
	}
	return j.buf.Flush()
}

func (j *JSONLines) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.buf.Flush()
}
