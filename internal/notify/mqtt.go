package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/municipal-assets/internal/config"
	"github.com/ukydev/municipal-assets/internal/models"
)

// qosAtLeastOnce makes the broker acknowledge every publication.
const qosAtLeastOnce byte = 1

// Publisher is the part of mqtt.Client the notifier uses.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTNotifier publishes asset-status changes to {prefix}/{assetId}/status.
type MQTTNotifier struct {
	client Publisher
	prefix string
}

// NewMQTTNotifier publishes through client under topic prefix.
func NewMQTTNotifier(client Publisher, prefix string) *MQTTNotifier {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = "assets"
	}
	return &MQTTNotifier{client: client, prefix: prefix}
}

// ConnectMQTT opens a broker connection with automatic reconnects.
func ConnectMQTT(cfg config.MQTTConfig, timeout time.Duration) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(timeout).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.WithError(err).Warn("MQTT connection lost")
		}).
		SetOnConnectHandler(func(mqtt.Client) {
			log.WithField("broker", cfg.Broker).Info("connected to MQTT broker")
		})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(timeout) {
		return nil, fmt.Errorf("mqtt connect to %s: timed out after %s", cfg.Broker, timeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", cfg.Broker, err)
	}
	return client, nil
}

// statusMessage is the published payload.
type statusMessage struct {
	AssetID        models.ID          `json:"asset_id"`
	From           models.AssetStatus `json:"from"`
	Status         models.AssetStatus `json:"status"`
	MaintenanceID  models.ID          `json:"maintenance_id,omitempty"`
	Reason         string             `json:"reason,omitempty"`
	UpdatedBy      models.ID          `json:"updated_by,omitempty"`
	MunicipalityID models.ID          `json:"municipality_id,omitempty"`
	Timestamp      time.Time          `json:"timestamp"`
}

// Topic is where changes for assetID are published.
func (n *MQTTNotifier) Topic(assetID models.ID) string {
	return n.prefix + "/" + assetID.String() + "/status"
}

// NotifyAssetStatus implements AssetNotifier. It waits for the broker's
// acknowledgement or for ctx to end.
func (n *MQTTNotifier) NotifyAssetStatus(ctx context.Context, _ string, change models.AssetStatusChange) error {
	ts := change.CreatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	payload, err := json.Marshal(statusMessage{
		AssetID:        change.AssetID,
		From:           change.From,
		Status:         change.To,
		MaintenanceID:  change.MaintenanceID,
		Reason:         change.Reason,
		UpdatedBy:      change.UpdatedBy,
		MunicipalityID: change.MunicipalityID,
		Timestamp:      ts,
	})
	if err != nil {
		return fmt.Errorf("encode asset status: %w", err)
	}

	token := n.client.Publish(n.Topic(change.AssetID), qosAtLeastOnce, false, payload)
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("publish asset status: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("publish asset status: %w", ctx.Err())
	}
}
