package translate

import (
	"fmt"

	"github.com/dasmlab/kotoba/pkg/language"
)

// Strategy builds the prompt sent to the text generator for one input.
type Strategy interface {
	// Mode identifies the strategy in logs and metrics.
	Mode() Mode
	// Prompt returns the full prompt for text.
	Prompt(text string) (string, error)
}

// PairReader exposes the current language pair.
type PairReader interface {
	Pair() (from, to string)
}

// PairStrategy translates in either direction between the session's
// current language pair.
type PairStrategy struct {
	pairs PairReader
}

// NewPairStrategy returns a strategy reading its pair from pairs on every call.
func NewPairStrategy(pairs PairReader) *PairStrategy {
	return &PairStrategy{pairs: pairs}
}

// Mode implements Strategy.
func (s *PairStrategy) Mode() Mode { return ModePair }

// Prompt implements Strategy.
func (s *PairStrategy) Prompt(text string) (string, error) {
	fromCode, toCode := s.pairs.Pair()
	from, err := language.NameOf(fromCode)
	if err != nil {
		return "", err
	}
	to, err := language.NameOf(toCode)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("You are a bidirectional translator between %[1]s and %[2]s. "+
		"When you receive %[1]s text, translate it to %[2]s. "+
		"When you receive %[2]s text, translate it to %[1]s. "+
		"Always respond with only the translated text, no explanations. Input: %[3]s",
		from, to, text), nil
}

// AutoDetectStrategy picks a fixed Japanese/English direction from the
// script of the input.
type AutoDetectStrategy struct{}

// NewAutoDetectStrategy returns the Japanese/English auto-detect strategy.
func NewAutoDetectStrategy() *AutoDetectStrategy {
	return &AutoDetectStrategy{}
}

// Mode implements Strategy.
func (s *AutoDetectStrategy) Mode() Mode { return ModeAutoDetect }

// Prompt implements Strategy.
func (s *AutoDetectStrategy) Prompt(text string) (string, error) {
	from, to := "English", "Japanese"
	if language.Detect(text) == language.ScriptJapanese {
		from, to = "Japanese", "English"
	}
	return fmt.Sprintf("Translate the following %s text to %s. "+
		"Respond with only the translation, no explanations.\n\n%s",
		from, to, text), nil
}
