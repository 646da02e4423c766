package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/meteolink/meteolink-core/internal/infrastructure/config"
	"github.com/meteolink/meteolink-core/internal/weather"
)

// callbackPrefix tags device-selection callback payloads. The full data is
// choose_device_<name>; the pattern is a wire contract with older bot
// generations, so keyboards and parser must stay in sync.
const callbackPrefix = "choose_device_"

// selectionFailedText is sent when a device-selection request could not be
// forwarded to the bus.
const selectionFailedText = "Не вдалося надіслати запит, спробуй ще раз."

// Handler receives chat commands and callbacks.
// Satisfied by the relay.Dispatcher.
type Handler interface {
	// Schema reports the payload schema tag; device commands are only
	// registered under config.SchemaEnvelope.
	Schema() string

	HandleStart(id int64) string
	HandleHelp() string
	HandleListCommand(id int64) error
	HandleInfoCommand(id int64) error
	HandleDeviceSelection(id int64, device string) (string, error)
}

// Logger defines the logging interface used by the Bot.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Bot is the Telegram chat transport.
//
// It long-polls for updates on its own goroutine, routes commands and
// device-selection callbacks to the Handler, and exposes the outbound
// send primitives the dispatcher broadcasts through.
type Bot struct {
	api     *tgbotapi.BotAPI
	cfg     config.TelegramConfig
	handler Handler
	logger  Logger
	done    chan struct{}
}

// New authenticates against the Telegram Bot API.
func New(cfg config.TelegramConfig) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram: authenticating bot: %w", err)
	}

	return &Bot{
		api:    api,
		cfg:    cfg,
		logger: noopLogger{},
		done:   make(chan struct{}),
	}, nil
}

// SetLogger sets the logger for the bot.
func (b *Bot) SetLogger(logger Logger) {
	b.logger = logger
}

// Username returns the authenticated bot account name.
func (b *Bot) Username() string {
	return b.api.Self.UserName
}

// Start attaches the handler and begins consuming updates on a background
// goroutine. Call Close to stop.
func (b *Bot) Start(handler Handler) {
	b.handler = handler

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.PollTimeout
	updates := b.api.GetUpdatesChan(u)

	go func() {
		defer close(b.done)
		for update := range updates {
			b.handleUpdate(update)
		}
	}()
}

// Close stops the update loop and waits for in-flight handling to finish.
func (b *Bot) Close() error {
	b.api.StopReceivingUpdates()
	<-b.done
	return nil
}

// SendText delivers a plain text message to one chat.
func (b *Bot) SendText(id int64, text string) error {
	if _, err := b.api.Send(tgbotapi.NewMessage(id, text)); err != nil {
		return fmt.Errorf("telegram: sending message to %d: %w", id, err)
	}
	return nil
}

// SendDeviceChoices renders a one-button-per-device selection prompt.
func (b *Bot) SendDeviceChoices(id int64, devices []weather.DeviceInfo) error {
	msg := tgbotapi.NewMessage(id, "Обери пристрій:")
	msg.ReplyMarkup = deviceKeyboard(devices)
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("telegram: sending device choices to %d: %w", id, err)
	}
	return nil
}

// handleUpdate routes one update. Panics in the handler chain are not
// possible here (handlers return errors), but routing never terminates the
// loop on failure.
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(update.Message)
	}
}

// handleCommand routes a /command message.
func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	id := msg.Chat.ID
	envelopeMode := b.handler.Schema() == config.SchemaEnvelope

	switch msg.Command() {
	case "start":
		b.reply(id, b.handler.HandleStart(id))
	case "help":
		b.reply(id, b.handler.HandleHelp())
	case "list":
		if !envelopeMode {
			return
		}
		if err := b.handler.HandleListCommand(id); err != nil {
			b.logger.Error("list command failed", "chat_id", id, "error", err)
		}
	case "info":
		if !envelopeMode {
			return
		}
		if err := b.handler.HandleInfoCommand(id); err != nil {
			b.logger.Error("info command failed", "chat_id", id, "error", err)
		}
	default:
		b.logger.Debug("ignoring unknown command", "command", msg.Command(), "chat_id", id)
	}
}

// handleCallback routes an inline-button callback.
func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	id := cb.Message.Chat.ID

	device, ok := parseDeviceCallback(cb.Data)
	if !ok {
		b.logger.Debug("ignoring unknown callback", "data", cb.Data, "chat_id", id)
		return
	}

	ack, err := b.handler.HandleDeviceSelection(id, device)
	if err != nil {
		b.logger.Error("device selection failed", "chat_id", id, "device", device, "error", err)
		ack = selectionFailedText
	}

	// Acknowledge the interaction so the client stops its spinner.
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, ack)); err != nil {
		b.logger.Error("callback acknowledgement failed", "chat_id", id, "error", err)
	}
}

// reply sends text, logging delivery failures.
func (b *Bot) reply(id int64, text string) {
	if err := b.SendText(id, text); err != nil {
		b.logger.Error("reply delivery failed", "chat_id", id, "error", err)
	}
}

// parseDeviceCallback extracts the device name from a
// choose_device_<name> callback payload.
func parseDeviceCallback(data string) (string, bool) {
	if !strings.HasPrefix(data, callbackPrefix) {
		return "", false
	}
	name := strings.TrimPrefix(data, callbackPrefix)
	if name == "" {
		return "", false
	}
	return name, true
}
