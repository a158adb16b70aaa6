package canbus

import (
	"errors"
	"testing"

	"github.com/brutella/can"

	"github.com/farouk15160/j1939-decoder/internal/bridge"
	"github.com/farouk15160/j1939-decoder/internal/canframe"
	"github.com/farouk15160/j1939-decoder/internal/j1939"
)

type fakeBus struct {
	frames       []can.Frame
	failures     int
	disconnected bool
}

func (b *fakeBus) Publish(frame can.Frame) error {
	if b.failures > 0 {
		b.failures--
		return errors.New("no buffer space")
	}
	b.frames = append(b.frames, frame)
	return nil
}

func (b *fakeBus) Disconnect() error {
	b.disconnected = true
	return nil
}

func result(t *testing.T, token string) bridge.Result {
	t.Helper()
	f, err := j1939.ParseFrame(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return bridge.Result{Frame: f}
}

func TestReplayerPublishes(t *testing.T) {
	bus := &fakeBus{failures: 1}
	r := NewReplayer(bus, "vcan0", 0)

	if err := r.Emit(result(t, "18FEE000#1BC9A800")); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(bus.frames) != 1 || canframe.Format(bus.frames[0]) != "18FEE000#1BC9A800" {
		t.Fatalf("frames = %+v", bus.frames)
	}
	if err := r.Close(); err != nil || !bus.disconnected {
		t.Fatalf("close: %v", err)
	}
	if err := r.Emit(result(t, "18FEE000#00")); err == nil {
		t.Fatalf("emit after close should fail")
	}
	if err := r.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestReplayerGivesUp(t *testing.T) {
	bus := &fakeBus{failures: publishAttempts}
	r := NewReplayer(bus, "vcan0", 0)
	if err := r.Emit(result(t, "18FEE000#00")); err == nil {
		t.Fatalf("expected error after %d failures", publishAttempts)
	}
}

func TestReplayerSkipsOversizedFrames(t *testing.T) {
	bus := &fakeBus{}
	r := NewReplayer(bus, "vcan0", 0)
	if err := r.Emit(result(t, "18FEE000#000102030405060708")); err == nil {
		t.Fatalf("expected error")
	}
	if len(bus.frames) != 0 {
		t.Fatalf("oversized frame published")
	}
}
