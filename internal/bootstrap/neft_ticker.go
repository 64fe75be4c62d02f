package bootstrap

import (
	"context"
	"time"

	"github.com/fernbank/core/common"
	"github.com/fernbank/core/common/mlog"
	"github.com/fernbank/core/internal/ports"
	"github.com/fernbank/core/internal/services/command"
)

// NEFTBatchTicker drives the NEFT engine's hourly batch tick (spec.md §4.3:
// "batches run on the hour, every hour, between FirstBatchHour and
// LastBatchHour"). It is a common.App so it runs alongside the HTTP Server
// under the same Launcher.
type NEFTBatchTicker struct {
	Command *command.UseCase
	Clock   ports.Clock
	Logger  mlog.Logger
}

// Run blocks, waking at the top of every hour to call ProcessNEFTBatch.
// The ticker itself stays unconditional and simple; ProcessNEFTBatch is the
// one that checks the operating window and each leg's BatchTime (spec.md
// §4.3), so a tick outside [FirstBatchHour, LastBatchHour] is a no-op there.
func (t *NEFTBatchTicker) Run(l *common.Launcher) error {
	ctx := context.Background()

	for {
		now := t.Clock.Now()
		next := nextTopOfHour(now)

		timer := time.NewTimer(next.Sub(now))
		<-timer.C

		result, err := t.Command.ProcessNEFTBatch(ctx, t.Clock.Now())
		if err != nil {
			t.Logger.Errorf("NEFT batch tick failed: %v", err)
			continue
		}

		if result != nil {
			t.Logger.Infof("NEFT batch %s processed: %d/%d completed, %d failed",
				result.BatchID, result.Completed, result.Total, result.Failed)
		}
	}
}

func nextTopOfHour(now time.Time) time.Time {
	next := now.Truncate(time.Hour).Add(time.Hour)
	return next
}
