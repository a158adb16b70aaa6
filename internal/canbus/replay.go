// Package canbus replays decoded frames onto a SocketCAN interface.
package canbus

import (
	"fmt"
	"sync"
	"time"

	"github.com/avast/retry-go"
	"github.com/brutella/can"

	"github.com/farouk15160/j1939-decoder/internal/bridge"
	"github.com/farouk15160/j1939-decoder/internal/canframe"
	"github.com/farouk15160/j1939-decoder/internal/logging"
)

const (
	openAttempts    = 5
	openDelay       = 500 * time.Millisecond
	publishAttempts = 3
	publishDelay    = 10 * time.Millisecond
)

// Publisher is the part of *can.Bus the replayer needs.
type Publisher interface {
	Publish(frame can.Frame) error
	Disconnect() error
}

// Replayer is a bridge.Sink that writes every frame it sees back onto a bus.
type Replayer struct {
	mu    sync.Mutex
	bus   Publisher
	iface string
	sleep time.Duration
}

// Open activates the named interface (e.g. vcan0), retrying while it comes up.
func Open(iface string, sleep time.Duration) (*Replayer, error) {
	var bus *can.Bus
	err := retry.Do(func() error {
		var err error
		bus, err = can.NewBusForInterfaceWithName(iface)
		return err
	},
		retry.Attempts(openAttempts),
		retry.Delay(openDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logging.Logf("CAN Replay: opening %s failed (attempt %d): %v", iface, n+1, err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("activate CAN interface %s: %w", iface, err)
	}
	logging.Logf("CAN Replay: publishing on %s", iface)
	return NewReplayer(bus, iface, sleep), nil
}

func NewReplayer(bus Publisher, iface string, sleep time.Duration) *Replayer {
	return &Replayer{bus: bus, iface: iface, sleep: sleep}
}

func (r *Replayer) Emit(res bridge.Result) error {
	cf, err := canframe.ToCAN(res.Frame)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bus == nil {
		return fmt.Errorf("CAN bus %s is closed", r.iface)
	}

	err = retry.Do(func() error { return r.bus.Publish(cf) },
		retry.Attempts(publishAttempts),
		retry.Delay(publishDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return fmt.Errorf("publish %s on %s: %w", canframe.Format(cf), r.iface, err)
	}
	logging.Debugf("CAN Replay: sent %s", canframe.Format(cf))
	if r.sleep > 0 {
		time.Sleep(r.sleep)
	}
	return nil
}

func (r *Replayer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bus == nil {
		return nil
	}
	err := r.bus.Disconnect()
	r.bus = nil
	logging.Logf("CAN Replay: disconnected from %s", r.iface)
	return err
}
