package bot

import (
	"context"
	"log/slog"
	"time"

	"github.com/onnwee/trivia-tender/telemetry"
	"github.com/onnwee/trivia-tender/trivia"
)

// StartDailyTriviaJob posts an unprompted trivia question into channel on a
// fixed interval, independent of command handling. Provider failures are
// reported into the channel itself; there is no caller to return them to.
// When no channel is configured the job is disabled.
func StartDailyTriviaJob(ctx context.Context, engine *trivia.Engine, say func(channel, text string), channel string, every time.Duration) {
	if channel == "" {
		slog.Info("daily trivia: no channel configured; job disabled")
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	slog.Info("daily trivia: started", slog.String("channel", channel), slog.Duration("interval", every))
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		broadcastOnce(ctx, engine, say, channel)
	}
}

func broadcastOnce(ctx context.Context, engine *trivia.Engine, say func(channel, text string), channel string) {
	reply := engine.DailyTrivia(ctx, channel)
	say(channel, reply)
	telemetry.SetActiveSessions(engine.Sessions().Active())
}
