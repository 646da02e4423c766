package mqtt

import "testing"

func TestTopics(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"shared measurements", topics.Measurements(""), "measurements"},
		{"per-bot measurements", topics.Measurements("weather-bot"), "measurements/weather-bot"},
		{"request setting", topics.RequestSetting(), "measurements/RequestSetting"},
		{"system status", topics.SystemStatus(), "measurements/status"},
		{"all measurements", topics.AllMeasurements(), "measurements/#"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
