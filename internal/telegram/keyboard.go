package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/meteolink/meteolink-core/internal/weather"
)

// Availability markers shown on device buttons.
const (
	markerOnline  = "🟢"
	markerOffline = "🔴"
)

// deviceKeyboard builds the inline keyboard for a device-list reply: one
// button per device, labelled with its availability marker, callback data
// choose_device_<name>.
func deviceKeyboard(devices []weather.DeviceInfo) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(devices))
	for _, dev := range devices {
		marker := markerOffline
		if dev.Online() {
			marker = markerOnline
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(marker+" "+dev.Name, callbackPrefix+dev.Name),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
