package cli

import (
	"io"
	"sync"

	"github.com/spf13/cobra"

	"github.com/rescale/sheetconv/internal/constants"
	"github.com/rescale/sheetconv/internal/events"
	"github.com/rescale/sheetconv/internal/progress"
	"github.com/rescale/sheetconv/internal/workflow"
)

// newReporter returns the reporter for the current output mode and a
// function that flushes it. With --json the workflow events are written to
// stdout as JSON lines; otherwise a progress bar is drawn on stderr.
func newReporter(cmd *cobra.Command) (workflow.StatusReporter, io.Writer, func()) {
	if !jsonOutput {
		return progress.NewTerminalReporter(cmd.ErrOrStderr(), GetLogger()), cmd.ErrOrStderr(), func() {}
	}

	bus := events.NewEventBus(constants.EventBusDefaultBuffer)
	ch := bus.SubscribeAll()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := progress.WriteJSONLines(cmd.OutOrStdout(), ch); err != nil {
			GetLogger().Error().Err(err).Msg("Failed to write event stream")
		}
	}()

	flush := func() {
		bus.Close()
		wg.Wait()
		if dropped := bus.DroppedEventCount(); dropped > 0 {
			GetLogger().Warn().Int64("dropped", dropped).Msg("Event stream dropped events")
		}
	}
	return progress.NewEventReporter(bus), io.Discard, flush
}
