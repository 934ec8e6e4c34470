package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

// MaxMessageLength is the Discord limit on characters in a single message.
const MaxMessageLength = 2000

// Gateway connects a Bot to Discord. It receives message events and
// implements Replier on top of the session.
type Gateway struct {
	session *discordgo.Session
	bot     *Bot
	logger  *logrus.Logger

	selfID    atomic.Value // string
	connected atomic.Bool

	listenersMu sync.Mutex
	listeners   []func(connected bool)
}

// NewGateway creates a Discord session for token and routes its messages to b.
// No connection is made until Open.
func NewGateway(token string, b *Bot, logger *logrus.Logger) (*Gateway, error) {
	if logger == nil {
		logger = logrus.New()
	}

	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	g := &Gateway{session: s, bot: b, logger: logger}
	g.selfID.Store("")

	s.AddHandler(g.onReady)
	s.AddHandler(g.onConnect)
	s.AddHandler(g.onDisconnect)
	s.AddHandler(g.onMessageCreate)
	return g, nil
}

// Open connects to the Discord gateway.
func (g *Gateway) Open() error {
	if err := g.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	return nil
}

// Close disconnects from the Discord gateway.
func (g *Gateway) Close() error {
	err := g.session.Close()
	g.setConnected(false)
	return err
}

// Connected reports whether the gateway connection is currently up.
func (g *Gateway) Connected() bool {
	return g.connected.Load()
}

// OnStatusChange registers fn to be called whenever the connection goes up or down.
func (g *Gateway) OnStatusChange(fn func(connected bool)) {
	g.listenersMu.Lock()
	defer g.listenersMu.Unlock()
	g.listeners = append(g.listeners, fn)
}

// Reply sends text to channelID, split into as many messages as the
// Discord length limit requires.
func (g *Gateway) Reply(ctx context.Context, channelID, text string) error {
	for _, chunk := range SplitMessage(text, MaxMessageLength) {
		if _, err := g.session.ChannelMessageSend(channelID, chunk, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("send message to channel %s: %w", channelID, err)
		}
	}
	return nil
}

func (g *Gateway) onReady(s *discordgo.Session, r *discordgo.Ready) {
	if r.User != nil {
		g.selfID.Store(r.User.ID)
		g.logger.WithFields(logrus.Fields{
			"user_id": r.User.ID,
			"guilds":  len(r.Guilds),
		}).Infof("%s has connected to Discord!", r.User.String())
	}
	g.setConnected(true)
}

func (g *Gateway) onConnect(s *discordgo.Session, _ *discordgo.Connect) {
	g.logger.Debug("Discord gateway connected")
	g.setConnected(true)
}

func (g *Gateway) onDisconnect(s *discordgo.Session, _ *discordgo.Disconnect) {
	g.logger.Warn("Discord gateway disconnected")
	g.setConnected(false)
}

func (g *Gateway) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Message == nil || m.Author == nil {
		return
	}
	selfID, _ := g.selfID.Load().(string)
	if selfID == "" && s.State != nil && s.State.User != nil {
		selfID = s.State.User.ID
	}
	g.bot.HandleMessage(context.Background(), messageFromDiscord(selfID, m.Message), g)
}

func (g *Gateway) setConnected(up bool) {
	if g.connected.Swap(up) == up {
		return
	}
	if up {
		gatewayConnected.Set(1)
	} else {
		gatewayConnected.Set(0)
	}

	g.listenersMu.Lock()
	listeners := make([]func(bool), len(g.listeners))
	copy(listeners, g.listeners)
	g.listenersMu.Unlock()

	for _, fn := range listeners {
		fn(up)
	}
}

func messageFromDiscord(selfID string, m *discordgo.Message) Message {
	return Message{
		ID:            m.ID,
		ChannelID:     m.ChannelID,
		GuildID:       m.GuildID,
		AuthorID:      m.Author.ID,
		AuthorName:    m.Author.Username,
		AuthorMention: m.Author.Mention(),
		Content:       m.Content,
		FromSelf:      selfID != "" && m.Author.ID == selfID,
	}
}

// SplitMessage breaks text into chunks of at most limit runes, cutting at
// the last newline inside the window when there is one.
func SplitMessage(text string, limit int) []string {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return []string{text}
	}

	var chunks []string
	for len(runes) > limit {
		window := string(runes[:limit])
		cut := limit
		skip := 0
		if idx := strings.LastIndex(window, "\n"); idx > 0 {
			cut = len([]rune(window[:idx]))
			skip = 1
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut+skip:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}
