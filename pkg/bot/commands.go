package bot

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// CommandFunc runs a command.
type CommandFunc func(ctx context.Context, c *CommandContext) error

// Command is a named chat command triggered by prefix + name.
type Command struct {
	Name        string
	Aliases     []string
	Usage       string
	Description string
	Run         CommandFunc
}

// CommandContext is what a command sees of the invoking message.
type CommandContext struct {
	Message Message
	// Invoked is the name or alias the user typed.
	Invoked string
	// Args is everything after the command name, trimmed.
	Args string

	replier Replier
}

// Reply sends text to the channel the command came from.
func (c *CommandContext) Reply(ctx context.Context, text string) error {
	return c.replier.Reply(ctx, c.Message.ChannelID, text)
}

// Dispatcher routes prefixed messages to registered commands.
type Dispatcher struct {
	prefix   string
	commands []*Command
	lookup   map[string]*Command
	logger   *logrus.Logger
}

// NewDispatcher creates a dispatcher for a single-character prefix.
func NewDispatcher(prefix string, logger *logrus.Logger) (*Dispatcher, error) {
	if utf8.RuneCountInString(prefix) != 1 {
		return nil, fmt.Errorf("command prefix must be a single character, got %q", prefix)
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Dispatcher{
		prefix: prefix,
		lookup: make(map[string]*Command),
		logger: logger,
	}, nil
}

// Prefix returns the command prefix.
func (d *Dispatcher) Prefix() string {
	return d.prefix
}

// Register adds a command under its name and aliases.
func (d *Dispatcher) Register(cmd *Command) error {
	names := append([]string{cmd.Name}, cmd.Aliases...)
	for _, name := range names {
		if _, exists := d.lookup[name]; exists {
			return fmt.Errorf("command %q already registered", name)
		}
	}
	for _, name := range names {
		d.lookup[name] = cmd
	}
	d.commands = append(d.commands, cmd)
	return nil
}

// Commands returns the registered commands in registration order.
func (d *Dispatcher) Commands() []*Command {
	out := make([]*Command, len(d.commands))
	copy(out, d.commands)
	return out
}

// Dispatch runs the command named in msg, if any. It reports whether a
// registered command matched.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message, r Replier) bool {
	name, args, ok := d.parse(msg.Content)
	if !ok {
		return false
	}

	cmd, found := d.lookup[name]
	if !found {
		d.logger.WithFields(logrus.Fields{
			"command":    name,
			"message_id": msg.ID,
		}).Debug("Unknown command")
		commandsTotal.WithLabelValues("unknown", "ignored").Inc()
		return false
	}

	log := d.logger.WithFields(logrus.Fields{
		"command":    cmd.Name,
		"invoked":    name,
		"author_id":  msg.AuthorID,
		"channel_id": msg.ChannelID,
	})
	log.Debug("Running command")

	cc := &CommandContext{Message: msg, Invoked: name, Args: args, replier: r}
	if err := cmd.Run(ctx, cc); err != nil {
		log.WithError(err).Error("Command failed")
		commandsTotal.WithLabelValues(cmd.Name, "error").Inc()
		return true
	}
	commandsTotal.WithLabelValues(cmd.Name, "ok").Inc()
	return true
}

// parse splits "!name rest of line" into name and trimmed args. A prefix
// followed by whitespace or nothing is not a command.
func (d *Dispatcher) parse(content string) (name, args string, ok bool) {
	if !strings.HasPrefix(content, d.prefix) {
		return "", "", false
	}
	rest := content[len(d.prefix):]
	end := strings.IndexFunc(rest, unicode.IsSpace)
	if end == 0 || rest == "" {
		return "", "", false
	}
	if end < 0 {
		return rest, "", true
	}
	return rest[:end], strings.TrimSpace(rest[end:]), true
}
