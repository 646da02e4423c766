package relay

import (
	"context"
	"errors"
	"fmt"

	"github.com/meteolink/meteolink-core/internal/infrastructure/mqtt"
	"github.com/meteolink/meteolink-core/internal/message"
	"github.com/meteolink/meteolink-core/internal/notify"
	"github.com/meteolink/meteolink-core/internal/state"
	"github.com/meteolink/meteolink-core/internal/subscriber"
	"github.com/meteolink/meteolink-core/internal/weather"
)

// User-facing reply texts. The deployment's audience is Ukrainian-speaking;
// the welcome wording is kept exactly as shipped.
const (
	welcomeText   = "Привіт, тепер ти будеш отримуати опис змін показників!"
	helpText      = "Команди:\n/start — підписатися на сповіщення\n/list — список пристроїв\n/info — дані обраного пристрою"
	emptyListText = "Список пристроїв порожній."
)

// Dispatcher routes classified bus messages and chat commands to the
// correct store, composer and outbound sink.
//
// It owns the measurement history and the subscriber registry; handlers
// receive them through the Dispatcher rather than as package globals so
// the routing logic is independently testable. Requests never block
// waiting for their replies: request and reply are decoupled through the
// registry's FIFO queues, so a burst of N list requests is answered in
// strict arrival order as N device-list replies arrive, even interleaved
// with other traffic.
//
// No error escaping a handler is fatal: malformed payloads, orphan
// replies, generation failures and persistence failures are logged and
// the process carries on.
type Dispatcher struct {
	cfg        Config
	classifier *message.Classifier
	history    *weather.History
	subs       *subscriber.Registry
	composer   *notify.Composer
	bus        Bus
	chat       Chat
	store      Snapshots
	sink       MeasurementSink
	logger     Logger
}

// NewDispatcher wires a dispatcher from its collaborators.
// sink may be nil when no time-series export is configured.
func NewDispatcher(
	cfg Config,
	history *weather.History,
	subs *subscriber.Registry,
	composer *notify.Composer,
	bus Bus,
	chat Chat,
	store Snapshots,
) *Dispatcher {
	return &Dispatcher{
		cfg:        cfg,
		classifier: message.NewClassifier(cfg.Schema),
		history:    history,
		subs:       subs,
		composer:   composer,
		bus:        bus,
		chat:       chat,
		store:      store,
		logger:     noopLogger{},
	}
}

// SetLogger sets the logger for the dispatcher.
func (d *Dispatcher) SetLogger(logger Logger) {
	d.logger = logger
}

// SetMeasurementSink attaches an optional side-channel store for admitted
// measurements.
func (d *Dispatcher) SetMeasurementSink(sink MeasurementSink) {
	d.sink = sink
}

// Schema returns the configured payload schema tag. The chat transport
// uses it to decide whether device commands are registered.
func (d *Dispatcher) Schema() string {
	return d.cfg.Schema
}

// HandleBusMessage processes one inbound bus payload.
//
// Classification failures and unrecognized payloads are logged and
// dropped; the returned error is always nil so the bus client never
// treats routing problems as transport problems.
func (d *Dispatcher) HandleBusMessage(ctx context.Context, topic string, payload []byte) error {
	inbound, err := d.classifier.Classify(payload)
	if err != nil {
		if errors.Is(err, message.ErrMalformedPayload) {
			d.logger.Warn("dropping malformed payload", "topic", topic, "error", err)
			return nil
		}
		d.logger.Error("classification failed", "topic", topic, "error", err)
		return nil
	}

	switch inbound.Kind {
	case message.KindMeasurement:
		d.handleMeasurement(ctx, topic, inbound)
	case message.KindDeviceList:
		d.handleDeviceList(inbound.Devices)
	case message.KindDeviceInfo:
		d.handleDeviceInfo(inbound.Info)
	default:
		d.logger.Warn("dropping unrecognized payload", "topic", topic, "payload", string(payload))
	}
	return nil
}

// handleMeasurement stores the record, composes the notification,
// broadcasts it, republishes it on the bus and persists the new state.
func (d *Dispatcher) handleMeasurement(ctx context.Context, topic string, inbound message.Inbound) {
	d.history.Add(inbound.Measurement)

	text, err := d.composer.Compose(ctx, inbound.Raw)
	if err != nil {
		// Compose already substituted the fallback text; the notification
		// still goes out.
		d.logger.Warn("notification enrichment failed, using fallback", "error", err)
	}

	targets := d.subs.BroadcastTargets()
	d.logger.Info("broadcasting notification", "subscribers", len(targets), "topic", topic)
	for _, id := range targets {
		if err := d.chat.SendText(id, text); err != nil {
			d.logger.Error("notification delivery failed", "chat_id", id, "error", err)
		}
	}

	d.republish(text)

	if d.sink != nil {
		d.sink.WriteWeatherPoint(topic, inbound.Measurement)
	}

	d.persist()
}

// republish forwards the notification onto the bus for non-chat observers.
func (d *Dispatcher) republish(text string) {
	req := message.Request{
		Sender:         d.cfg.Sender,
		RequestCommand: message.CommandSendMessage,
		Data:           text,
	}
	payload, err := req.Encode()
	if err != nil {
		d.logger.Error("encoding notification republish failed", "error", err)
		return
	}
	if err := d.bus.Publish(mqtt.Topics{}.RequestSetting(), payload, d.cfg.QoS, false); err != nil {
		d.logger.Error("notification republish failed", "error", err)
	}
}

// handleDeviceList pairs a device-list reply with the oldest pending
// requester. With nobody waiting the reply is discarded.
func (d *Dispatcher) handleDeviceList(devices []weather.DeviceInfo) {
	id, ok := d.subs.DequeueListRequest()
	if !ok {
		d.logger.Warn("discarded device-list reply, no pending requester")
		return
	}

	if len(devices) == 0 {
		if err := d.chat.SendText(id, emptyListText); err != nil {
			d.logger.Error("empty-list reply delivery failed", "chat_id", id, "error", err)
		}
		return
	}

	if err := d.chat.SendDeviceChoices(id, devices); err != nil {
		d.logger.Error("device-choice prompt delivery failed", "chat_id", id, "error", err)
	}
}

// handleDeviceInfo pairs an info reply with the oldest pending requester.
func (d *Dispatcher) handleDeviceInfo(info weather.CommonInfo) {
	id, ok := d.subs.DequeueInfoRequest()
	if !ok {
		d.logger.Warn("discarded device-info reply, no pending requester")
		return
	}

	if err := d.chat.SendText(id, formatInfo(info)); err != nil {
		d.logger.Error("device-info reply delivery failed", "chat_id", id, "error", err)
	}
}

// formatInfo renders the fixed-field report for the selected device.
func formatInfo(info weather.CommonInfo) string {
	return fmt.Sprintf(
		"Пристрій: %s\nСтатус: %s\nАбсолютний тиск: %v гПа\nВисота: %v м\nRSSI: %d дБм\nЧас: %s",
		info.SelectedDevice, info.Status, info.AbsolutePressure, info.Altitude, info.RSSI, info.Timestamp,
	)
}

// HandleStart registers the invoking user as a subscriber and returns the
// welcome reply. Idempotent; state is persisted only when the user is new.
func (d *Dispatcher) HandleStart(id subscriber.ID) string {
	if d.subs.Subscribe(id) {
		d.logger.Info("new subscriber", "chat_id", id)
		d.persist()
	}
	return welcomeText
}

// HandleHelp returns the static help reply.
func (d *Dispatcher) HandleHelp() string {
	return helpText
}

// HandleListCommand enqueues the invoking user for the next device-list
// reply and publishes a listDevices request onto the bus.
func (d *Dispatcher) HandleListCommand(id subscriber.ID) error {
	d.subs.EnqueueListRequest(id)
	return d.publishRequest(message.CommandListDevices, "")
}

// HandleInfoCommand enqueues the invoking user for the next device-info
// reply and publishes an information request onto the bus.
func (d *Dispatcher) HandleInfoCommand(id subscriber.ID) error {
	d.subs.EnqueueInfoRequest(id)
	return d.publishRequest(message.CommandInformation, "")
}

// HandleDeviceSelection publishes a changeDevice request for the device
// picked from the choice prompt and returns the acknowledgement text.
func (d *Dispatcher) HandleDeviceSelection(id subscriber.ID, device string) (string, error) {
	if err := d.publishRequest(message.CommandChangeDevice, device); err != nil {
		return "", err
	}
	d.logger.Info("device selection requested", "chat_id", id, "device", device)
	return "Обрано пристрій: " + device, nil
}

// publishRequest sends a control envelope onto the request topic.
func (d *Dispatcher) publishRequest(command, data string) error {
	req := message.Request{
		Sender:         d.cfg.Sender,
		RequestCommand: command,
		Data:           data,
	}
	payload, err := req.Encode()
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", command, err)
	}
	if err := d.bus.Publish(mqtt.Topics{}.RequestSetting(), payload, d.cfg.QoS, false); err != nil {
		return fmt.Errorf("publishing %s request: %w", command, err)
	}
	return nil
}

// persist rewrites the state blob. A failed write is logged and otherwise
// ignored: the next mutation rewrites the full state anyway.
func (d *Dispatcher) persist() {
	snap := state.Snapshot{
		WeatherHistory: d.history.Snapshot(),
		Users:          d.subs.BroadcastTargets(),
	}
	if err := d.store.Save(snap); err != nil {
		d.logger.Error("persistence write failed", "error", err)
	}
}

// LoadState merges a previously persisted snapshot into the live state:
// subscribers are unioned, history is replaced wholesale.
func (d *Dispatcher) LoadState(snap *state.Snapshot) {
	d.subs.Load(snap.Users)
	d.history.Replace(snap.WeatherHistory)
	d.logger.Info("state loaded", "subscribers", len(snap.Users), "records", len(snap.WeatherHistory))
}
