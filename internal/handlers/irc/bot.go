package irc

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/confbot/boardbot/internal/models"
	boardService "github.com/confbot/boardbot/internal/services/board"
	"github.com/ergochat/irc-go/ircevent"
	"github.com/ergochat/irc-go/ircmsg"
)

const (
	// defaultAntiFloodDelay is the minimum spacing between our sends
	defaultAntiFloodDelay = 2 * time.Second

	// defaultQueueSize bounds pending inbound events
	defaultQueueSize = 128
)

// Config holds the configuration for the bot
type Config struct {
	// Server is the host:port of the IRC server
	Server string

	// UseTLS enables a TLS connection
	UseTLS bool

	// Nick is the bot's primary nickname
	Nick string

	// NickservPassword identifies the bot to services; also used to
	// ghost/release the primary nick if it is taken
	NickservPassword string

	// Channels to join after registration
	Channels []string

	// BoardService interprets inbound messages
	BoardService boardService.Service

	// AntiFloodDelay is the minimum spacing between outbound sends
	AntiFloodDelay time.Duration

	// QueueSize bounds the inbound event queue
	QueueSize int
}

// Bot connects the board service to an IRC network. It tracks channel
// membership privileges, queues inbound events, and paces replies.
type Bot struct {
	conn       *ircevent.Connection
	config     *Config
	membership *membership

	events chan *models.ChatEvent
	done   chan struct{}

	stopOnce sync.Once

	sendMu   sync.Mutex
	lastSend time.Time
}

// New creates a new IRC bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Server == "" {
		return nil, errors.New("server cannot be empty")
	}

	if cfg.Nick == "" {
		return nil, errors.New("nick cannot be empty")
	}

	if len(cfg.Channels) == 0 {
		return nil, errors.New("channel list cannot be empty")
	}

	if cfg.BoardService == nil {
		return nil, errors.New("board service cannot be nil")
	}

	if cfg.AntiFloodDelay <= 0 {
		cfg.AntiFloodDelay = defaultAntiFloodDelay
	}

	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}

	conn := &ircevent.Connection{
		Server:   cfg.Server,
		Nick:     cfg.Nick,
		User:     cfg.Nick,
		RealName: cfg.Nick,
		UseTLS:   cfg.UseTLS,
		// account-tag is the identity gate: without it acked we
		// cannot tell identified senders apart, and no message is
		// treated as a command
		RequestCaps: []string{"message-tags", "account-tag", "multi-prefix"},
		QuitMessage: "board is going down",
	}

	if cfg.UseTLS {
		conn.TLSConfig = &tls.Config{ServerName: hostOnly(cfg.Server)}
	}

	bot := &Bot{
		conn:       conn,
		config:     cfg,
		membership: newMembership(),
		events:     make(chan *models.ChatEvent, cfg.QueueSize),
		done:       make(chan struct{}),
	}

	bot.registerCallbacks()

	return bot, nil
}

// hostOnly strips the port from a host:port address
func hostOnly(server string) string {
	if idx := strings.LastIndex(server, ":"); idx >= 0 {
		return server[:idx]
	}
	return server
}

// nickFromSource extracts the sender nick from an IRC source prefix
// like "alice!user@host"
func nickFromSource(source string) string {
	if idx := strings.Index(source, "!"); idx >= 0 {
		return source[:idx]
	}
	return source
}

func (b *Bot) registerCallbacks() {
	b.conn.AddConnectCallback(b.onWelcome)
	b.conn.AddCallback("433", b.onNickInUse)
	b.conn.AddCallback("353", b.onNames)
	b.conn.AddCallback("MODE", b.onMode)
	b.conn.AddCallback("JOIN", b.onJoin)
	b.conn.AddCallback("PART", b.onPart)
	b.conn.AddCallback("KICK", b.onKick)
	b.conn.AddCallback("QUIT", b.onQuit)
	b.conn.AddCallback("NICK", b.onNick)
	b.conn.AddCallback("PRIVMSG", b.onPrivmsg)
}

// Start connects to the server and launches the event loops
func (b *Bot) Start() error {
	if err := b.conn.Connect(); err != nil {
		return fmt.Errorf("failed to connect to IRC: %w", err)
	}

	go b.conn.Loop()
	go b.dispatch()

	log.Printf("irc: connected to %s as %s", b.config.Server, b.config.Nick)
	return nil
}

// Stop disconnects and shuts down the dispatcher. Queued events that
// have not reached the interpreter are dropped.
func (b *Bot) Stop() {
	b.stopOnce.Do(func() {
		close(b.done)
		b.conn.Quit()
	})
}

// onWelcome identifies to nickserv and joins the configured channels,
// spacing the joins to respect server flood limits
func (b *Bot) onWelcome(e ircmsg.Message) {
	if b.config.NickservPassword != "" {
		log.Printf("irc: identifying to nickserv")
		b.send("nickserv", fmt.Sprintf("identify %s", b.config.NickservPassword))
	}

	for _, channel := range b.config.Channels {
		log.Printf("irc: joining %s", channel)
		if err := b.conn.Join(channel); err != nil {
			log.Printf("irc: failed to join %s: %v", channel, err)
		}
		time.Sleep(b.config.AntiFloodDelay)
	}
}

// onNickInUse reclaims the primary nick through nickserv ghost/release
func (b *Bot) onNickInUse(e ircmsg.Message) {
	if b.config.NickservPassword == "" {
		return
	}

	log.Printf("irc: nickname in use, releasing")
	pass := b.config.NickservPassword
	b.send("nickserv", fmt.Sprintf("identify %s", pass))
	b.send("nickserv", fmt.Sprintf("ghost %s %s", b.config.Nick, pass))
	b.send("nickserv", fmt.Sprintf("release %s %s", b.config.Nick, pass))
	if err := b.conn.Send("NICK", b.config.Nick); err != nil {
		log.Printf("irc: failed to reclaim nick: %v", err)
	}
}

// onNames records one RPL_NAMREPLY: params are
// [client, symbol, channel, space-separated prefixed nicks]
func (b *Bot) onNames(e ircmsg.Message) {
	if len(e.Params) < 4 {
		return
	}
	b.membership.setNames(e.Params[2], e.Params[3])
}

func (b *Bot) onMode(e ircmsg.Message) {
	if len(e.Params) < 2 || !strings.HasPrefix(e.Params[0], "#") {
		return
	}
	b.membership.applyMode(e.Params[0], e.Params[1:])
}

func (b *Bot) onJoin(e ircmsg.Message) {
	if len(e.Params) < 1 {
		return
	}
	channel := e.Params[0]
	nick := nickFromSource(e.Source)

	if nick == b.conn.CurrentNick() {
		b.membership.addChannel(channel)
		return
	}
	b.membership.addNick(channel, nick)
}

func (b *Bot) onPart(e ircmsg.Message) {
	if len(e.Params) < 1 {
		return
	}
	channel := e.Params[0]
	nick := nickFromSource(e.Source)

	if nick == b.conn.CurrentNick() {
		b.membership.removeChannel(channel)
		return
	}
	b.membership.removeNick(channel, nick)
}

func (b *Bot) onKick(e ircmsg.Message) {
	if len(e.Params) < 2 {
		return
	}
	b.membership.removeNick(e.Params[0], e.Params[1])
}

func (b *Bot) onQuit(e ircmsg.Message) {
	b.membership.removeEverywhere(nickFromSource(e.Source))
}

func (b *Bot) onNick(e ircmsg.Message) {
	if len(e.Params) < 1 {
		return
	}
	b.membership.rename(nickFromSource(e.Source), e.Params[0])
}

// accountTagActive reports whether the server acked the account-tag
// capability, our stand-in for the sender-identity handshake
func (b *Bot) accountTagActive() bool {
	for _, name := range b.conn.AcknowledgedCaps() {
		if name == "account-tag" {
			return true
		}
	}
	return false
}

// onPrivmsg turns a channel message into a ChatEvent and queues it
// for the dispatcher. The queue is bounded; an overfull queue drops
// the event rather than stalling the connection reader.
func (b *Bot) onPrivmsg(e ircmsg.Message) {
	if len(e.Params) < 2 {
		return
	}

	channel, text := e.Params[0], e.Params[1]
	if !strings.HasPrefix(channel, "#") {
		return
	}

	nick := nickFromSource(e.Source)
	hasAccount, _ := e.GetTag("account")
	p := b.membership.get(channel, nick)

	event := &models.ChatEvent{
		Channel:    channel,
		Nick:       nick,
		Voiced:     p.voiced,
		Operator:   p.operator,
		Identified: b.accountTagActive() && hasAccount,
		Text:       text,
	}

	select {
	case b.events <- event:
	default:
		log.Printf("irc: event queue full, dropping message from %s", nick)
	}
}

// dispatch consumes the inbound queue one event at a time, so every
// message fully pipelines through the interpreter before the next
// starts and replies go out in acceptance order
func (b *Bot) dispatch() {
	for {
		select {
		case <-b.done:
			return
		case event := <-b.events:
			b.handleEvent(event)
		}
	}
}

func (b *Bot) handleEvent(event *models.ChatEvent) {
	output, err := b.config.BoardService.HandleMessage(context.Background(), &boardService.HandleMessageInput{
		Channel:    event.Channel,
		Nick:       event.Nick,
		Voiced:     event.Voiced,
		Operator:   event.Operator,
		Identified: event.Identified,
		Text:       event.Text,
	})
	if err != nil {
		// One bad event must not affect the ones behind it
		log.Printf("irc: failed to handle message from %s: %v", event.Nick, err)
		return
	}

	if output.Reply == "" {
		return
	}

	for _, line := range strings.Split(output.Reply, "\n") {
		b.send(event.Channel, line)
	}
}

// send writes one message to a target, enforcing the minimum
// inter-send spacing
func (b *Bot) send(target, text string) {
	b.sendMu.Lock()
	defer b.sendMu.Unlock()

	if wait := b.config.AntiFloodDelay - time.Since(b.lastSend); wait > 0 {
		time.Sleep(wait)
	}

	if err := b.conn.Privmsg(target, text); err != nil {
		log.Printf("irc: failed to send to %s: %v", target, err)
	}
	b.lastSend = time.Now()
}
