package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dasmlab/kotoba/pkg/language"
	"github.com/dasmlab/kotoba/pkg/session"
	"github.com/dasmlab/kotoba/pkg/translate"
)

// QuotePrefix decorates every translation reply as a Discord quote line.
const QuotePrefix = "> "

const msgEmptyTranslate = "Please provide text to translate."

// registerBuiltins installs the command set for the bot's mode: lang in
// pair mode, hello in auto-detect mode, the rest in both.
func (b *Bot) registerBuiltins() error {
	cmds := []*Command{
		{
			Name:        "translate",
			Aliases:     []string{"t"},
			Usage:       "translate <text>",
			Description: "Translate the given text",
			Run:         b.cmdTranslate,
		},
		{
			Name:        "translation",
			Usage:       "translation",
			Description: "Turn automatic translation of every message on or off",
			Run:         b.cmdToggle,
		},
	}

	switch b.mode {
	case translate.ModePair:
		cmds = append(cmds, &Command{
			Name:        "lang",
			Usage:       "lang [from-to]",
			Description: "Show or change the language pair, e.g. ja-en",
			Run:         b.cmdLang,
		})
	case translate.ModeAutoDetect:
		cmds = append(cmds, &Command{
			Name:        "hello",
			Usage:       "hello",
			Description: "Say hello",
			Run:         b.cmdHello,
		})
	}

	cmds = append(cmds, &Command{
		Name:        "help",
		Usage:       "help",
		Description: "List the available commands",
		Run:         b.cmdHelp,
	})

	for _, cmd := range cmds {
		if err := b.dispatcher.Register(cmd); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) cmdTranslate(ctx context.Context, c *CommandContext) error {
	if strings.TrimSpace(c.Args) == "" {
		return c.Reply(ctx, msgEmptyTranslate)
	}
	res := b.translator.Translate(ctx, c.Args)
	return c.Reply(ctx, QuotePrefix+res.String())
}

func (b *Bot) cmdToggle(ctx context.Context, c *CommandContext) error {
	status := "OFF"
	if b.session.ToggleAutoTranslate() {
		status = "ON"
	}
	b.logger.WithField("auto_translate", status).Info("Auto-translation toggled")
	return c.Reply(ctx, fmt.Sprintf("> Auto-translation: **%s**", status))
}

func (b *Bot) cmdLang(ctx context.Context, c *CommandContext) error {
	fields := strings.Fields(c.Args)
	if len(fields) == 0 {
		from, to := b.session.Pair()
		return c.Reply(ctx, currentPairText(from, to))
	}

	from, to, ok := language.ParsePair(fields[0])
	if !ok {
		return c.Reply(ctx, fmt.Sprintf("> Invalid format: `%slang ja-en`", b.dispatcher.Prefix()))
	}

	if err := b.session.SetPair(from, to); err != nil {
		if errors.Is(err, session.ErrInvalidLanguageCode) {
			return c.Reply(ctx, "> Invalid language code.\n"+availabilityText())
		}
		return err
	}

	b.logger.WithField("pair", from+"-"+to).Info("Language pair changed")
	fromName, _ := language.NameOf(from)
	toName, _ := language.NameOf(to)
	return c.Reply(ctx, fmt.Sprintf("> Language settings changed: %s ↔ %s", fromName, toName))
}

func (b *Bot) cmdHello(ctx context.Context, c *CommandContext) error {
	return c.Reply(ctx, fmt.Sprintf("Hello, %s!", c.Message.AuthorMention))
}

func (b *Bot) cmdHelp(ctx context.Context, c *CommandContext) error {
	var sb strings.Builder
	sb.WriteString("**Commands:**")
	for _, cmd := range b.dispatcher.Commands() {
		fmt.Fprintf(&sb, "\n`%s%s`", b.dispatcher.Prefix(), cmd.Usage)
		for _, alias := range cmd.Aliases {
			fmt.Fprintf(&sb, " (`%s%s`)", b.dispatcher.Prefix(), alias)
		}
		sb.WriteString(": " + cmd.Description)
	}
	if prefixes := b.triggers.Prefixes(); len(prefixes) > 0 {
		sb.WriteString("\n**Inline:** start a message with ")
		quoted := make([]string, len(prefixes))
		for i, p := range prefixes {
			quoted[i] = "`" + p + "`"
		}
		sb.WriteString(strings.Join(quoted, " or "))
	}
	return c.Reply(ctx, sb.String())
}

func currentPairText(from, to string) string {
	fromName, _ := language.NameOf(from)
	toName, _ := language.NameOf(to)
	return fmt.Sprintf("> Current Language: **%s ↔ %s**\n%s", fromName, toName, availabilityText())
}

func availabilityText() string {
	var sb strings.Builder
	sb.WriteString("**Availability:**")
	for _, l := range language.All() {
		fmt.Fprintf(&sb, "\n`%s`: %s", l.Code, l.Name)
	}
	return sb.String()
}
