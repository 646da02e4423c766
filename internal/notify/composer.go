package notify

import (
	"context"
	"fmt"

	"github.com/meteolink/meteolink-core/internal/weather"
)

// Generator produces natural-language text from a prompt.
// Implementations may fail or return empty output; callers must be
// prepared to fall back.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Composer builds the notification text for a new measurement.
//
// In raw mode the notification is the verbatim inbound payload. In
// enriched mode a prompt is built from the most recent one or two history
// records and handed to the Generator; if generation fails or comes back
// empty, the composer falls back to the raw payload prefixed with an
// explanatory note. Enrichment must never prevent a notification from
// reaching subscribers.
type Composer struct {
	enrichment bool
	history    *weather.History
	gen        Generator
}

// NewComposer creates a composer over the given history.
// gen may be nil when enrichment is disabled.
func NewComposer(enrichment bool, history *weather.History, gen Generator) *Composer {
	return &Composer{
		enrichment: enrichment,
		history:    history,
		gen:        gen,
	}
}

// Compose returns the notification text for the measurement whose verbatim
// payload is raw. The returned string is always usable; a non-nil error
// reports that enrichment failed and the fallback text was used, so the
// caller can log the degradation.
func (c *Composer) Compose(ctx context.Context, raw []byte) (string, error) {
	if !c.enrichment {
		return string(raw), nil
	}

	prompt := buildPrompt(c.history.LastN(2))

	text, err := c.gen.Generate(ctx, prompt)
	if err != nil {
		return fallbackText(raw), fmt.Errorf("generating notification: %w", err)
	}
	if text == "" {
		return fallbackText(raw), fmt.Errorf("generating notification: empty result")
	}
	return text, nil
}

// fallbackText prefixes the raw measurement data with a note explaining
// that the generated description is unavailable.
func fallbackText(raw []byte) string {
	return "Не вдалося створити опис погоди. Поточні дані: " + string(raw)
}
