package relay

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/meteolink/meteolink-core/internal/infrastructure/config"
	"github.com/meteolink/meteolink-core/internal/notify"
	"github.com/meteolink/meteolink-core/internal/state"
	"github.com/meteolink/meteolink-core/internal/subscriber"
	"github.com/meteolink/meteolink-core/internal/weather"
)

// fakeBus records published messages.
type fakeBus struct {
	mu        sync.Mutex
	published []publishedMsg
	err       error
}

type publishedMsg struct {
	topic   string
	payload string
}

func (b *fakeBus) Publish(topic string, payload []byte, _ byte, _ bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.published = append(b.published, publishedMsg{topic: topic, payload: string(payload)})
	return nil
}

func (b *fakeBus) messages() []publishedMsg {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]publishedMsg, len(b.published))
	copy(out, b.published)
	return out
}

// fakeChat records sent texts and choice prompts.
type fakeChat struct {
	mu      sync.Mutex
	texts   []sentText
	choices []sentChoices
}

type sentText struct {
	id   subscriber.ID
	text string
}

type sentChoices struct {
	id      subscriber.ID
	devices []weather.DeviceInfo
}

func (c *fakeChat) SendText(id subscriber.ID, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.texts = append(c.texts, sentText{id: id, text: text})
	return nil
}

func (c *fakeChat) SendDeviceChoices(id subscriber.ID, devices []weather.DeviceInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.choices = append(c.choices, sentChoices{id: id, devices: devices})
	return nil
}

// fakeStore records saved snapshots.
type fakeStore struct {
	mu    sync.Mutex
	saved []state.Snapshot
	err   error
}

func (s *fakeStore) Save(snap state.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, snap)
	return nil
}

// failingGenerator always fails, forcing the composer fallback.
type failingGenerator struct{}

func (failingGenerator) Generate(context.Context, string) (string, error) {
	return "", errors.New("generation unavailable")
}

type fixture struct {
	dispatcher *Dispatcher
	history    *weather.History
	subs       *subscriber.Registry
	bus        *fakeBus
	chat       *fakeChat
	store      *fakeStore
}

func newFixture(enrichment bool, gen notify.Generator) *fixture {
	history := weather.NewHistory()
	subs := subscriber.NewRegistry()
	bus := &fakeBus{}
	chat := &fakeChat{}
	store := &fakeStore{}

	d := NewDispatcher(
		Config{Schema: config.SchemaEnvelope, Sender: "test-bot", QoS: 1},
		history,
		subs,
		notify.NewComposer(enrichment, history, gen),
		bus,
		chat,
		store,
	)

	return &fixture{dispatcher: d, history: history, subs: subs, bus: bus, chat: chat, store: store}
}

func TestMeasurement_EndToEnd(t *testing.T) {
	f := newFixture(false, nil)
	f.subs.Subscribe(100)
	f.subs.Subscribe(200)

	payload := `{"temperature":20,"humidity":50,"pressure":1010}`
	if err := f.dispatcher.HandleBusMessage(context.Background(), "measurements", []byte(payload)); err != nil {
		t.Fatalf("HandleBusMessage() error = %v", err)
	}

	// Both subscribers receive the raw-mode text.
	if len(f.chat.texts) != 2 {
		t.Fatalf("sent %d texts, want 2", len(f.chat.texts))
	}
	for _, sent := range f.chat.texts {
		if sent.text != payload {
			t.Errorf("notification text = %q, want verbatim payload", sent.text)
		}
	}

	// History grew by exactly one.
	if f.history.Len() != 1 {
		t.Errorf("history length = %d, want 1", f.history.Len())
	}

	// The notification was republished in a sendMessage envelope.
	msgs := f.bus.messages()
	if len(msgs) != 1 {
		t.Fatalf("published %d bus messages, want 1", len(msgs))
	}
	if msgs[0].topic != "measurements/RequestSetting" {
		t.Errorf("republish topic = %q, want measurements/RequestSetting", msgs[0].topic)
	}
	if !strings.Contains(msgs[0].payload, `"requestCommand":"sendMessage"`) {
		t.Errorf("republish payload = %q, want sendMessage envelope", msgs[0].payload)
	}

	// Persistence reflects the new record.
	if len(f.store.saved) != 1 {
		t.Fatalf("saved %d snapshots, want 1", len(f.store.saved))
	}
	snap := f.store.saved[0]
	if len(snap.WeatherHistory) != 1 || snap.WeatherHistory[0].Temperature != 20 {
		t.Errorf("persisted history = %+v, want the new record", snap.WeatherHistory)
	}
	if len(snap.Users) != 2 {
		t.Errorf("persisted %d users, want 2", len(snap.Users))
	}
}

func TestMeasurement_EnrichmentFailureStillNotifies(t *testing.T) {
	f := newFixture(true, failingGenerator{})
	f.subs.Subscribe(100)

	payload := `{"temperature":21.5,"humidity":48,"pressure":1013.2}`
	if err := f.dispatcher.HandleBusMessage(context.Background(), "measurements", []byte(payload)); err != nil {
		t.Fatalf("HandleBusMessage() error = %v", err)
	}

	if len(f.chat.texts) != 1 {
		t.Fatalf("sent %d texts, want 1", len(f.chat.texts))
	}
	if !strings.Contains(f.chat.texts[0].text, payload) {
		t.Errorf("fallback notification %q does not contain the raw values", f.chat.texts[0].text)
	}
}

func TestMalformedAndUnrecognized_Dropped(t *testing.T) {
	f := newFixture(false, nil)
	f.subs.Subscribe(100)

	for _, payload := range []string{"not json", `{"foo":1}`} {
		if err := f.dispatcher.HandleBusMessage(context.Background(), "measurements", []byte(payload)); err != nil {
			t.Errorf("HandleBusMessage(%q) error = %v, want nil", payload, err)
		}
	}

	if len(f.chat.texts) != 0 {
		t.Errorf("dropped payloads produced %d notifications, want 0", len(f.chat.texts))
	}
	if f.history.Len() != 0 {
		t.Errorf("dropped payloads grew history to %d, want 0", f.history.Len())
	}
}

func TestDeviceList_PairsWithOldestRequester(t *testing.T) {
	f := newFixture(false, nil)

	if err := f.dispatcher.HandleListCommand(10); err != nil {
		t.Fatalf("HandleListCommand() error = %v", err)
	}
	if err := f.dispatcher.HandleListCommand(20); err != nil {
		t.Fatalf("HandleListCommand() error = %v", err)
	}

	// Each command published a listDevices request.
	msgs := f.bus.messages()
	if len(msgs) != 2 {
		t.Fatalf("published %d requests, want 2", len(msgs))
	}
	for _, msg := range msgs {
		if !strings.Contains(msg.payload, `"requestCommand":"listDevices"`) {
			t.Errorf("request payload = %q, want listDevices", msg.payload)
		}
	}

	// Replies arrive interleaved with other traffic; FIFO pairing holds.
	list1 := `{"list_devices":[{"name":"roof","status":"Online"}]}`
	f.dispatcher.HandleBusMessage(context.Background(), "measurements", []byte(list1))
	f.dispatcher.HandleBusMessage(context.Background(), "measurements", []byte(`{"foo":1}`))
	list2 := `{"list_devices":[{"name":"garden","status":"Offline"}]}`
	f.dispatcher.HandleBusMessage(context.Background(), "measurements", []byte(list2))

	if len(f.chat.choices) != 2 {
		t.Fatalf("sent %d choice prompts, want 2", len(f.chat.choices))
	}
	if f.chat.choices[0].id != 10 || f.chat.choices[1].id != 20 {
		t.Errorf("choice prompt recipients = %d, %d; want 10, 20", f.chat.choices[0].id, f.chat.choices[1].id)
	}
	if f.chat.choices[0].devices[0].Name != "roof" {
		t.Errorf("first requester got %q, want roof list", f.chat.choices[0].devices[0].Name)
	}
}

func TestDeviceList_Empty(t *testing.T) {
	f := newFixture(false, nil)
	f.dispatcher.HandleListCommand(10)

	f.dispatcher.HandleBusMessage(context.Background(), "measurements", []byte(`{"list_devices":[]}`))

	if len(f.chat.choices) != 0 {
		t.Errorf("empty list produced a choice prompt")
	}
	if len(f.chat.texts) != 1 || f.chat.texts[0].id != 10 {
		t.Fatalf("empty list reply = %+v, want one text to 10", f.chat.texts)
	}
}

func TestDeviceList_NoRequester_Dropped(t *testing.T) {
	f := newFixture(false, nil)

	err := f.dispatcher.HandleBusMessage(context.Background(), "measurements",
		[]byte(`{"list_devices":[{"name":"roof","status":"Online"}]}`))
	if err != nil {
		t.Fatalf("HandleBusMessage() error = %v, want nil (drop, not fatal)", err)
	}

	if len(f.chat.choices) != 0 || len(f.chat.texts) != 0 {
		t.Error("orphan device-list reply was delivered, want dropped")
	}
}

func TestDeviceInfo_PairsAndFormats(t *testing.T) {
	f := newFixture(false, nil)
	f.dispatcher.HandleInfoCommand(30)

	payload := `{"selected_device":"roof","absolut_pressure":1001.5,"altitude":98.2,"rssi":-71,"timestep":"10:00","status":"ok"}`
	f.dispatcher.HandleBusMessage(context.Background(), "measurements", []byte(payload))

	if len(f.chat.texts) != 1 {
		t.Fatalf("sent %d texts, want 1", len(f.chat.texts))
	}
	report := f.chat.texts[0]
	if report.id != 30 {
		t.Errorf("report recipient = %d, want 30", report.id)
	}
	for _, want := range []string{"roof", "1001.5", "98.2", "-71", "10:00", "ok"} {
		if !strings.Contains(report.text, want) {
			t.Errorf("report %q missing %q", report.text, want)
		}
	}
}

func TestDeviceInfo_NoRequester_Dropped(t *testing.T) {
	f := newFixture(false, nil)

	f.dispatcher.HandleBusMessage(context.Background(), "measurements", []byte(`{"selected_device":"roof"}`))

	if len(f.chat.texts) != 0 {
		t.Error("orphan device-info reply was delivered, want dropped")
	}
}

func TestHandleStart(t *testing.T) {
	f := newFixture(false, nil)

	reply := f.dispatcher.HandleStart(42)
	if reply != welcomeText {
		t.Errorf("HandleStart() = %q, want welcome text", reply)
	}
	if len(f.store.saved) != 1 {
		t.Fatalf("new subscriber triggered %d persists, want 1", len(f.store.saved))
	}

	// Second /start from the same user: no growth, no persist.
	f.dispatcher.HandleStart(42)
	if f.subs.Len() != 1 {
		t.Errorf("subscriber count = %d after repeated /start, want 1", f.subs.Len())
	}
	if len(f.store.saved) != 1 {
		t.Errorf("repeated /start triggered %d persists, want 1", len(f.store.saved))
	}
}

func TestHandleDeviceSelection(t *testing.T) {
	f := newFixture(false, nil)

	ack, err := f.dispatcher.HandleDeviceSelection(42, "garden")
	if err != nil {
		t.Fatalf("HandleDeviceSelection() error = %v", err)
	}
	if !strings.Contains(ack, "garden") {
		t.Errorf("ack = %q, want it to name the device", ack)
	}

	msgs := f.bus.messages()
	if len(msgs) != 1 {
		t.Fatalf("published %d messages, want 1", len(msgs))
	}
	want := `{"sender":"test-bot","requestCommand":"changeDevice","data":"garden"}`
	if msgs[0].payload != want {
		t.Errorf("request payload = %s, want %s", msgs[0].payload, want)
	}
}

func TestHandleDeviceSelection_PublishFailure(t *testing.T) {
	f := newFixture(false, nil)
	f.bus.err = errors.New("broker gone")

	if _, err := f.dispatcher.HandleDeviceSelection(42, "garden"); err == nil {
		t.Error("HandleDeviceSelection() error = nil, want publish failure")
	}
}

func TestPersistFailure_NotFatal(t *testing.T) {
	f := newFixture(false, nil)
	f.store.err = errors.New("disk full")
	f.subs.Subscribe(100)

	err := f.dispatcher.HandleBusMessage(context.Background(), "measurements",
		[]byte(`{"temperature":1,"humidity":2,"pressure":3}`))
	if err != nil {
		t.Errorf("HandleBusMessage() error = %v, want nil despite persist failure", err)
	}
	if len(f.chat.texts) != 1 {
		t.Errorf("persist failure suppressed the notification")
	}
}

func TestLoadState_Merge(t *testing.T) {
	f := newFixture(false, nil)
	f.subs.Subscribe(1)
	f.history.Add(weather.Record{Temperature: 99, Humidity: 1, Pressure: 1})

	f.dispatcher.LoadState(&state.Snapshot{
		WeatherHistory: []weather.Record{{Temperature: 5, Humidity: 5, Pressure: 5}},
		Users:          []int64{1, 2},
	})

	// Subscribers union, history replaced wholesale.
	if f.subs.Len() != 2 {
		t.Errorf("subscriber count = %d, want 2", f.subs.Len())
	}
	if f.history.Len() != 1 {
		t.Fatalf("history length = %d, want 1", f.history.Len())
	}
	if got := f.history.LastN(1)[0].Temperature; got != 5 {
		t.Errorf("history record = %v, want loaded record 5", got)
	}
}
