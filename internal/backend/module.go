package backend

import (
	"time"

	"go.uber.org/fx"
)

// Settings selects and tunes the transport.
type Settings struct {
	Transport TransportKind
	Timeout   time.Duration
}

func newTransportFromSettings(s Settings) (Transport, error) {
	return NewTransport(s.Transport, s.Timeout)
}

// newLifecycleQueue creates the completion queue and waits for it to drain on shutdown.
func newLifecycleQueue(lc fx.Lifecycle) Dispatcher {
	q := NewSerialQueue()
	lc.Append(fx.StopHook(q.Close))
	return q
}

// Module provides the backend dependencies. It needs a ConfigProvider and
// Settings from the surrounding application.
var Module = fx.Module("backend",
	fx.Provide(
		NewBaseConfiguration,
		NewRequestBuilder,
		newTransportFromSettings,
		newLifecycleQueue,
		NewExecutor,
	),
)
