// Package bot implements the chat-side behavior: per-message handling,
// inline translation triggers, prefixed commands, and the Discord gateway
// that feeds them.
package bot

import (
	"context"

	"github.com/dasmlab/kotoba/pkg/translate"
)

// Message is an inbound chat message, independent of the platform.
type Message struct {
	ID            string
	ChannelID     string
	GuildID       string
	AuthorID      string
	AuthorName    string
	AuthorMention string
	Content       string
	// FromSelf is set when the bot itself authored the message.
	FromSelf bool
}

// Replier sends text to a channel.
type Replier interface {
	Reply(ctx context.Context, channelID, text string) error
}

// ReplierFunc adapts a function to the Replier interface.
type ReplierFunc func(ctx context.Context, channelID, text string) error

// Reply implements Replier.
func (f ReplierFunc) Reply(ctx context.Context, channelID, text string) error {
	return f(ctx, channelID, text)
}

// Translator translates a single piece of text. Failures are carried in the
// returned Result rather than as an error.
type Translator interface {
	Translate(ctx context.Context, text string) translate.Result
}
