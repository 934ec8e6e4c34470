// Package translate turns chat text into translation prompts and relays them
// to a text-generation backend.
package translate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrorPrefix starts the rendering of every failed Result.
const ErrorPrefix = "Translation error: "

// Generator is the text-generation backend: one prompt in, one completion out.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)

	// CheckHealth verifies that the backend is reachable and usable.
	CheckHealth(ctx context.Context) error
}

// Result is either a translation or an error, never both.
type Result struct {
	Text string
	Err  error
}

// OK reports whether the translation succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// String renders the result as reply text. Failures render as
// "Translation error: <details>".
func (r Result) String() string {
	if r.Err != nil {
		return ErrorPrefix + r.Err.Error()
	}
	return r.Text
}

// Translator combines a prompt strategy with a generator. It never returns
// an error: backend failures are carried in the Result.
type Translator struct {
	strategy  Strategy
	generator Generator
	metrics   *MetricsCollector
	logger    *logrus.Logger
}

// NewTranslator creates a Translator.
func NewTranslator(strategy Strategy, generator Generator, logger *logrus.Logger) *Translator {
	if logger == nil {
		logger = logrus.New()
	}
	return &Translator{
		strategy:  strategy,
		generator: generator,
		metrics:   NewMetricsCollector(string(strategy.Mode())),
		logger:    logger,
	}
}

// Mode returns the mode of the configured strategy.
func (t *Translator) Mode() Mode {
	return t.strategy.Mode()
}

// CheckHealth delegates to the generator.
func (t *Translator) CheckHealth(ctx context.Context) error {
	return t.generator.CheckHealth(ctx)
}

// Translate builds the prompt for text and sends it to the generator.
func (t *Translator) Translate(ctx context.Context, text string) (result Result) {
	requestID := uuid.New().String()
	log := t.logger.WithFields(logrus.Fields{
		"request_id":  requestID,
		"mode":        t.strategy.Mode(),
		"text_length": len(text),
	})
	startTime := time.Now()

	defer func() {
		t.metrics.RecordTranslationRequest(time.Since(startTime), result.OK(), len(text), len(result.Text))
	}()

	prompt, err := t.strategy.Prompt(text)
	if err != nil {
		log.WithError(err).Error("Failed to build translation prompt")
		return Result{Err: fmt.Errorf("build prompt: %w", err)}
	}

	out, err := t.generator.Generate(ctx, prompt)
	if err != nil {
		log.WithError(err).Warn("Translation failed")
		return Result{Err: err}
	}

	log.WithFields(logrus.Fields{
		"duration_ms": time.Since(startTime).Milliseconds(),
	}).Info("Translation completed successfully")

	return Result{Text: out}
}
