package actions

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/relloyd/housepipe/logger"
	"github.com/relloyd/housepipe/stats"
)

// cleanupHandler handles CTRL-C and SIGTERM by cancelling the run.
// It returns when a signal has been handled or done is closed.
func cleanupHandler(log logger.Logger, runId string, s *stats.Manager, cancelFunc context.CancelFunc, done <-chan struct{}) {
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(c)
	select {
	case x := <-c: // wait for interrupt.
		if isatty.IsTerminal(os.Stdout.Fd()) {
			fmt.Println() // add new line char for clean CLI look n feel.
		}
		log.Info("Caught ", x.String())
		log.Info("Shutting down run ", runId, "...")
		cancelFunc()
		s.StopDumping()
		log.Info("Shutdown requested for run ", runId)
	case <-done:
	}
}
