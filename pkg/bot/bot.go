package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/dasmlab/kotoba/pkg/session"
	"github.com/dasmlab/kotoba/pkg/translate"
	"github.com/sirupsen/logrus"
)

// DefaultPrefix is the command prefix used when none is configured.
const DefaultPrefix = "!"

// Config holds everything a Bot needs.
type Config struct {
	// Prefix is the single-character command prefix. Defaults to DefaultPrefix.
	Prefix string
	// Mode selects the command set (lang in pair mode, hello in auto-detect mode).
	Mode translate.Mode
	// Triggers are the inline translation prefixes. nil means DefaultTriggers.
	Triggers []string
	// Session is the shared translation state.
	Session *session.State
	// Translator performs the translations.
	Translator Translator
	// Logger is the logger instance to use. If nil, a default logger is created.
	Logger *logrus.Logger
}

// Bot decides what to do with every inbound message.
type Bot struct {
	mode       translate.Mode
	session    *session.State
	translator Translator
	triggers   *TriggerSet
	dispatcher *Dispatcher
	logger     *logrus.Logger
}

// New creates a Bot and registers its commands.
func New(cfg Config) (*Bot, error) {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if cfg.Triggers == nil {
		cfg.Triggers = DefaultTriggers
	}
	if cfg.Session == nil {
		return nil, fmt.Errorf("session state is required")
	}
	if cfg.Translator == nil {
		return nil, fmt.Errorf("translator is required")
	}

	dispatcher, err := NewDispatcher(cfg.Prefix, cfg.Logger)
	if err != nil {
		return nil, err
	}

	b := &Bot{
		mode:       cfg.Mode,
		session:    cfg.Session,
		translator: cfg.Translator,
		triggers:   NewTriggerSet(cfg.Triggers),
		dispatcher: dispatcher,
		logger:     cfg.Logger,
	}
	if err := b.registerBuiltins(); err != nil {
		return nil, err
	}
	return b, nil
}

// Commands returns the registered commands.
func (b *Bot) Commands() []*Command {
	return b.dispatcher.Commands()
}

// HandleMessage processes one inbound message in this order:
//  1. messages from the bot itself are dropped;
//  2. with auto-translate on, unprefixed text is translated;
//  3. otherwise an inline trigger translates the rest of the line;
//  4. the message is always offered to the command dispatcher.
//
// A panic while handling is logged and swallowed.
func (b *Bot) HandleMessage(ctx context.Context, msg Message, r Replier) {
	log := b.logger.WithFields(logrus.Fields{
		"message_id": msg.ID,
		"channel_id": msg.ChannelID,
		"author_id":  msg.AuthorID,
	})
	defer func() {
		if p := recover(); p != nil {
			log.WithField("panic", p).Error("Recovered from panic while handling message")
		}
	}()

	if msg.FromSelf {
		messagesTotal.WithLabelValues(actionIgnoredSelf).Inc()
		return
	}

	action := actionNone
	prefixed := strings.HasPrefix(msg.Content, b.dispatcher.Prefix())

	if b.session.AutoTranslate() && !prefixed {
		if strings.TrimSpace(msg.Content) == "" {
			log.Debug("Skipping auto-translation of empty message")
		} else {
			action = actionAutoTranslate
			b.translateAndReply(ctx, log, msg, msg.Content, r)
		}
	} else if text, ok := b.triggers.Match(msg.Content); ok && text != "" {
		action = actionInline
		b.translateAndReply(ctx, log, msg, text, r)
	}

	if b.dispatcher.Dispatch(ctx, msg, r) {
		action = actionCommand
	}
	messagesTotal.WithLabelValues(action).Inc()
}

func (b *Bot) translateAndReply(ctx context.Context, log *logrus.Entry, msg Message, text string, r Replier) {
	res := b.translator.Translate(ctx, text)
	if err := r.Reply(ctx, msg.ChannelID, QuotePrefix+res.String()); err != nil {
		repliesFailedTotal.Inc()
		log.WithError(err).Error("Failed to send translation reply")
	}
}
