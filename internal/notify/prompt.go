package notify

import (
	"fmt"

	"github.com/meteolink/meteolink-core/internal/weather"
)

// promptBase asks for a Ukrainian-language summary; the station's users
// are Ukrainian speakers and the wording is a tuned prompt, so it stays
// verbatim.
const promptBase = "Please provide a short weather update and a suggestion for the day in Ukrainian language. "

// promptLengthHint is a soft output budget requested of the generation
// service; the reply is not mechanically truncated.
const promptLengthHint = " Keep the response under 200 characters."

// buildPrompt renders the generation prompt from the most recent records.
//
// With one record it describes the current conditions; with two it asks
// for a before/after comparison. records is expected to be the LastN(2)
// window, oldest first.
func buildPrompt(records []weather.Record) string {
	prompt := promptBase

	switch {
	case len(records) == 1:
		r := records[0]
		prompt += fmt.Sprintf(
			"The current weather data is: temperature %v°C, humidity %v%%, and pressure %v hPa.",
			r.Temperature, r.Humidity, r.Pressure,
		)
	case len(records) > 1:
		prev, cur := records[0], records[1]
		prompt += fmt.Sprintf(
			"Previously, the weather was: temperature %v°C, humidity %v%%, and pressure %v hPa. "+
				"Now, the temperature is %v°C, the humidity is %v%%, and the pressure is %v hPa. "+
				"Describe the changes in weather conditions and provide a forecast for the upcoming changes.",
			prev.Temperature, prev.Humidity, prev.Pressure,
			cur.Temperature, cur.Humidity, cur.Pressure,
		)
	}

	return prompt + promptLengthHint
}
