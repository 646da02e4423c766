package broker

import (
	"errors"
	"fmt"
	"log/slog"

	mochi "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/listeners"

	"github.com/meteolink/meteolink-core/internal/infrastructure/config"
)

// ErrDisabled indicates the embedded broker is disabled in config.
var ErrDisabled = errors.New("broker: disabled in configuration")

// Broker is an embedded MQTT broker for deployments without an external
// Mosquitto. It listens on the configured local port and allows anonymous
// connections; it is meant for the loopback or a trusted LAN only.
type Broker struct {
	server *mochi.Server
	port   int
}

// Start launches the embedded broker on its configured port.
//
// The broker runs on background goroutines until Close is called.
//
// Parameters:
//   - cfg: Embedded broker configuration from config.yaml
//   - log: Logger for broker internals (may be nil)
//
// Returns:
//   - *Broker: Running broker
//   - error: ErrDisabled when turned off in config, or a listener failure
func Start(cfg config.BrokerConfig, log *slog.Logger) (*Broker, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	server := mochi.New(&mochi.Options{
		Logger: log,
	})

	// Anonymous access: the embedded broker serves the local segment only.
	if err := server.AddHook(new(auth.AllowHook), nil); err != nil {
		return nil, fmt.Errorf("broker: adding auth hook: %w", err)
	}

	tcp := listeners.NewTCP(listeners.Config{
		ID:      "local",
		Address: fmt.Sprintf(":%d", cfg.Port),
	})
	if err := server.AddListener(tcp); err != nil {
		return nil, fmt.Errorf("broker: adding listener on port %d: %w", cfg.Port, err)
	}

	go func() {
		if err := server.Serve(); err != nil {
			server.Log.Error("embedded broker stopped", "error", err)
		}
	}()

	return &Broker{server: server, port: cfg.Port}, nil
}

// Port returns the listening port.
func (b *Broker) Port() int {
	return b.port
}

// Close shuts the broker down, disconnecting all clients.
func (b *Broker) Close() error {
	return b.server.Close()
}
