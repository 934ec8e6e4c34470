package bot

import "strings"

// DefaultTriggers are the inline prefixes that request a translation
// without the command prefix.
var DefaultTriggers = []string{"translate:", "翻訳:"}

// TriggerSet is an ordered list of inline trigger prefixes. The first
// matching prefix wins.
type TriggerSet struct {
	prefixes []string
}

// NewTriggerSet builds a TriggerSet, dropping blank prefixes.
func NewTriggerSet(prefixes []string) *TriggerSet {
	ts := &TriggerSet{}
	for _, p := range prefixes {
		if strings.TrimSpace(p) == "" {
			continue
		}
		ts.prefixes = append(ts.prefixes, p)
	}
	return ts
}

// Prefixes returns the trigger prefixes in evaluation order.
func (ts *TriggerSet) Prefixes() []string {
	out := make([]string, len(ts.prefixes))
	copy(out, ts.prefixes)
	return out
}

// Match returns the trimmed remainder of content after the first matching
// trigger. matched is false when no trigger applies; text may be empty
// when one does.
func (ts *TriggerSet) Match(content string) (text string, matched bool) {
	for _, p := range ts.prefixes {
		if rest, ok := strings.CutPrefix(content, p); ok {
			return strings.TrimSpace(rest), true
		}
	}
	return "", false
}
