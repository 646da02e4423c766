package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/meteolink/meteolink-core/internal/weather"
)

// stubGenerator is a test implementation of Generator.
type stubGenerator struct {
	text       string
	err        error
	lastPrompt string
	calls      int
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	return s.text, s.err
}

func histWith(records ...weather.Record) *weather.History {
	h := weather.NewHistory()
	for _, r := range records {
		h.Add(r)
	}
	return h
}

func TestCompose_RawMode(t *testing.T) {
	gen := &stubGenerator{text: "should not be called"}
	c := NewComposer(false, histWith(), gen)

	raw := []byte(`{"temperature":20,"humidity":50,"pressure":1010}`)
	got, err := c.Compose(context.Background(), raw)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if got != string(raw) {
		t.Errorf("Compose() = %q, want verbatim payload", got)
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times in raw mode, want 0", gen.calls)
	}
}

func TestCompose_Enriched(t *testing.T) {
	gen := &stubGenerator{text: "Сьогодні тепло і сонячно."}
	h := histWith(weather.Record{Temperature: 20, Humidity: 50, Pressure: 1010})
	c := NewComposer(true, h, gen)

	got, err := c.Compose(context.Background(), []byte(`raw`))
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if got != gen.text {
		t.Errorf("Compose() = %q, want generated text", got)
	}
}

func TestCompose_EnrichedFailureFallsBack(t *testing.T) {
	raw := `{"temperature":21.5,"humidity":48,"pressure":1013.2}`

	tests := []struct {
		name string
		gen  *stubGenerator
	}{
		{"generator error", &stubGenerator{err: errors.New("api down")}},
		{"empty result", &stubGenerator{text: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := histWith(weather.Record{Temperature: 21.5, Humidity: 48, Pressure: 1013.2})
			c := NewComposer(true, h, tt.gen)

			got, err := c.Compose(context.Background(), []byte(raw))
			if err == nil {
				t.Error("Compose() error = nil, want degradation error")
			}
			if got == "" {
				t.Fatal("Compose() returned empty fallback")
			}
			if !strings.Contains(got, raw) {
				t.Errorf("fallback %q does not contain the raw measurement values", got)
			}
		})
	}
}

func TestBuildPrompt_SingleRecord(t *testing.T) {
	prompt := buildPrompt([]weather.Record{
		{Temperature: 20, Humidity: 50, Pressure: 1010},
	})

	for _, want := range []string{
		"Ukrainian language",
		"The current weather data is",
		"temperature 20°C",
		"humidity 50%",
		"pressure 1010 hPa",
		"under 200 characters",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildPrompt_TwoRecords(t *testing.T) {
	prompt := buildPrompt([]weather.Record{
		{Temperature: 18, Humidity: 60, Pressure: 1005},
		{Temperature: 22, Humidity: 45, Pressure: 1012},
	})

	for _, want := range []string{
		"Previously, the weather was",
		"temperature 18°C",
		"Now, the temperature is 22°C",
		"forecast for the upcoming changes",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestCompose_PromptUsesLastTwoRecords(t *testing.T) {
	gen := &stubGenerator{text: "ok"}
	h := histWith(
		weather.Record{Temperature: 1, Humidity: 1, Pressure: 1},
		weather.Record{Temperature: 2, Humidity: 2, Pressure: 2},
		weather.Record{Temperature: 3, Humidity: 3, Pressure: 3},
	)
	c := NewComposer(true, h, gen)

	if _, err := c.Compose(context.Background(), []byte(`raw`)); err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	if strings.Contains(gen.lastPrompt, "temperature 1°C") {
		t.Errorf("prompt included record outside the last-two window:\n%s", gen.lastPrompt)
	}
	if !strings.Contains(gen.lastPrompt, "temperature 2°C") || !strings.Contains(gen.lastPrompt, "the temperature is 3°C") {
		t.Errorf("prompt missing the last two records:\n%s", gen.lastPrompt)
	}
}
