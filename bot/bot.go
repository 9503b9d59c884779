// Package bot connects the trivia engine to Twitch chat. It parses prefix
// commands (!trivia, !answer, !hint, !leaderboard) from channel messages,
// dispatches each one as its own task and sends the engine's reply back to the
// channel. It also hosts the scheduled daily trivia job.
package bot

import (
	"context"
	"log/slog"
	"strings"

	twitch "github.com/gempir/go-twitch-irc/v4"

	"github.com/onnwee/trivia-tender/config"
	"github.com/onnwee/trivia-tender/telemetry"
	"github.com/onnwee/trivia-tender/trivia"
)

type Bot struct {
	cfg    *config.Config
	engine *trivia.Engine
	client *twitch.Client
}

func New(cfg *config.Config, engine *trivia.Engine) *Bot {
	client := twitch.NewClient(cfg.TwitchBotUsername, cfg.TwitchOAuthToken)
	b := &Bot{cfg: cfg, engine: engine, client: client}
	client.OnPrivateMessage(b.onMessage)
	return b
}

// Run joins the configured channel and blocks until the context is cancelled
// or the connection fails. Either way the connect goroutine is reaped before
// Run returns.
func (b *Bot) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		b.client.Join(b.cfg.TwitchChannel)
		slog.Info("joining twitch chat", slog.String("channel", b.cfg.TwitchChannel))
		errc <- b.client.Connect()
	}()

	select {
	case <-ctx.Done():
		if err := b.client.Disconnect(); err != nil {
			slog.Debug("twitch disconnect", slog.Any("err", err))
		}
		<-errc
		return nil
	case err := <-errc:
		return err
	}
}

// Say sends a line to a channel.
func (b *Bot) Say(channel, text string) {
	b.client.Say(channel, text)
}

func (b *Bot) onMessage(msg twitch.PrivateMessage) {
	// Never react to our own messages.
	if strings.EqualFold(msg.User.Name, b.cfg.TwitchBotUsername) {
		return
	}
	cmd, ok := parseCommand(b.cfg.CommandPrefix, msg.Message)
	if !ok {
		return
	}
	// Each command runs as its own task; the engine serializes shared state.
	go func() {
		telemetry.TimeFunc(telemetry.CommandDuration, func() {
			reply := b.handle(context.Background(), msg.Channel, msg.User.Name, cmd)
			if reply != "" {
				b.Say(msg.Channel, reply)
			}
		})
		telemetry.SetActiveSessions(b.engine.Sessions().Active())
	}()
}

// handle maps a parsed command to an engine operation. Unknown commands get no
// reply; chat is full of other bots' prefixes.
func (b *Bot) handle(ctx context.Context, channel, user string, cmd command) string {
	switch cmd.name {
	case "trivia":
		return b.engine.StartTrivia(ctx, channel, cmd.firstArg())
	case "answer":
		if cmd.args == "" {
			return "⚠ Usage: " + b.cfg.CommandPrefix + "answer <your answer>"
		}
		return b.engine.SubmitAnswer(channel, user, cmd.args)
	case "hint":
		return b.engine.Hint(channel)
	case "leaderboard":
		return b.engine.Leaderboard()
	default:
		return ""
	}
}
