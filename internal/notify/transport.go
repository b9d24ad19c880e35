package notify

import (
	"fmt"
	"time"

	"github.com/ukydev/municipal-assets/internal/client"
	"github.com/ukydev/municipal-assets/internal/config"
)

// mqttConnectTimeout bounds the initial broker handshake.
const mqttConnectTimeout = 10 * time.Second

// NewTransport builds the notifier selected by cfg.Notifications.Transport.
// The returned close function releases the transport and is never nil.
func NewTransport(cfg *config.Config, doer client.Doer) (AssetNotifier, func(), error) {
	switch cfg.Notifications.Transport {
	case config.TransportREST:
		return client.NewAssetClient(cfg.Backends.AssetsURL, cfg.Backends.ServiceToken, doer), func() {}, nil
	case config.TransportMQTT:
		conn, err := ConnectMQTT(cfg.MQTT, mqttConnectTimeout)
		if err != nil {
			return nil, func() {}, err
		}
		return NewMQTTNotifier(conn, cfg.MQTT.TopicPrefix), func() { conn.Disconnect(250) }, nil
	case config.TransportNone, "":
		return Discard{}, func() {}, nil
	default:
		return nil, func() {}, fmt.Errorf("unknown notification transport: %q", cfg.Notifications.Transport)
	}
}
