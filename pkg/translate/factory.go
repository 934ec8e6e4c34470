package translate

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Mode selects how prompts are built.
type Mode string

const (
	// ModePair translates both ways between the session's language pair.
	ModePair Mode = "pair"
	// ModeAutoDetect translates Japanese to English and anything else to Japanese.
	ModeAutoDetect Mode = "autodetect"
)

// Config holds configuration for creating a Translator instance.
type Config struct {
	// Mode specifies which prompt strategy to use.
	Mode Mode
	// BaseURL is the base URL for the Gemini API.
	// Defaults to DefaultGeminiURL if not specified.
	BaseURL string
	// APIKey authenticates against the Gemini API.
	APIKey string
	// Model is the Gemini model name. Defaults to DefaultGeminiModel.
	Model string
	// Timeout bounds each API call. Zero disables the timeout.
	Timeout time.Duration
	// Logger is the logger instance to use. If nil, a default logger is created.
	Logger *logrus.Logger
}

// New creates a Translator backed by Gemini. pairs is only consulted in
// ModePair.
func New(cfg Config, pairs PairReader) (*Translator, error) {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}

	strategy, err := NewStrategy(cfg.Mode, pairs)
	if err != nil {
		cfg.Logger.WithFields(logrus.Fields{
			"mode": cfg.Mode,
		}).Error("Unknown translation mode")
		return nil, err
	}

	generator := NewGeminiClient(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Timeout, cfg.Logger)

	cfg.Logger.WithFields(logrus.Fields{
		"mode":    cfg.Mode,
		"model":   generator.Model(),
		"timeout": cfg.Timeout.String(),
	}).Info("Creating translator instance")

	return NewTranslator(strategy, generator, cfg.Logger), nil
}

// NewStrategy returns the prompt strategy for mode.
func NewStrategy(mode Mode, pairs PairReader) (Strategy, error) {
	switch mode {
	case ModePair:
		if pairs == nil {
			return nil, fmt.Errorf("pair mode requires a language pair source")
		}
		return NewPairStrategy(pairs), nil
	case ModeAutoDetect:
		return NewAutoDetectStrategy(), nil
	default:
		return nil, fmt.Errorf("unknown translation mode: %s", mode)
	}
}

// ParseMode parses a string into a Mode.
// Returns an error if the string is not a valid mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pair", "bidirectional":
		return ModePair, nil
	case "autodetect", "auto-detect", "auto":
		return ModeAutoDetect, nil
	default:
		return "", fmt.Errorf("unknown translation mode: %s (supported: pair, autodetect)", s)
	}
}
