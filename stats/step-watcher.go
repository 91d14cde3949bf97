package stats

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	c "github.com/relloyd/housepipe/constants"
	"github.com/relloyd/housepipe/logger"
)

const (
	StatusPending  = "pending"
	StatusRunning  = "running"
	StatusComplete = "complete"
	StatusFailed   = "failed"
	StatusSkipped  = "skipped"
)

var statusEmoji = map[string]string{
	StatusPending:  "\U0001F552", // clock
	StatusRunning:  "\U0000231B", // hour glass
	StatusComplete: "\U00002705", // green tick
	StatusFailed:   "\U0000274C", // cross
	StatusSkipped:  "\U000023ED", // skip
}

// StepWatcher counts rows for one pipeline step and calculates throughput periodically.
// The step calls Start, AddRows as it goes, then Stop or Fail.
type StepWatcher struct {
	log             logger.Logger
	stepName        string
	rowCount        int64
	rowsPerSecDelta int64
	rowsPerSecAvg   int64
	priorRowCount   int64
	mu              sync.Mutex
	status          string
	startTime       time.Time
	endTime         time.Time
	priorTime       time.Time
	ticker          *time.Ticker
	tickerDone      chan struct{}
}

type Stats struct {
	StepName           string `json:"stepName"`
	StatusText         string `json:"statusText"`
	StatusEmoji        string `json:"statusEmoji"`
	ElapsedTimeSec     int    `json:"elapsedTimeSec"`
	TotalRowsProcessed int    `json:"totalRowsProcessed"`
	RowsPerSecondAvg   int    `json:"rowsPerSecondAvg"`
	RowsPerSecondDelta int    `json:"rowsPerSecondDelta"`
}

func NewStepWatcher(log logger.Logger, stepName string) *StepWatcher {
	return &StepWatcher{log: log, stepName: stepName, status: StatusPending}
}

// Start marks the step as running and begins periodic stats calculation.
func (n *StepWatcher) Start() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.status == StatusRunning {
		return
	}
	n.startTime = time.Now()
	n.priorTime = n.startTime
	n.status = StatusRunning
	atomic.StoreInt64(&n.rowCount, 0)
	atomic.StoreInt64(&n.priorRowCount, 0)
	n.ticker = time.NewTicker(time.Second * c.StatsCaptureFrequencySeconds)
	n.tickerDone = make(chan struct{})
	go func(t *time.Ticker, done chan struct{}) {
		for {
			select {
			case <-t.C:
				n.CalculateStats()
			case <-done:
				return
			}
		}
	}(n.ticker, n.tickerDone)
}

// AddRows adds delta to the rows processed.
func (n *StepWatcher) AddRows(delta int) {
	atomic.AddInt64(&n.rowCount, int64(delta))
}

// SetRows replaces the rows processed, for steps that report a running total.
func (n *StepWatcher) SetRows(total int) {
	atomic.StoreInt64(&n.rowCount, int64(total))
}

// Stop marks the step complete.
func (n *StepWatcher) Stop() {
	n.finish(StatusComplete)
}

// Fail marks the step failed.
func (n *StepWatcher) Fail() {
	n.finish(StatusFailed)
}

// Skip marks a step that was not run.
func (n *StepWatcher) Skip() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.status == StatusPending {
		n.status = StatusSkipped
	}
}

func (n *StepWatcher) finish(status string) {
	n.mu.Lock()
	wasRunning := n.status == StatusRunning
	if wasRunning {
		n.ticker.Stop()
		close(n.tickerDone) // stop the goroutine that calculates stats.
		n.endTime = time.Now()
	}
	n.status = status
	n.mu.Unlock()
	if wasRunning {
		n.CalculateStats() // force final stats calculation.
	}
}

// CalculateStats updates the rows per second figures.
func (n *StepWatcher) CalculateStats() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.startTime.IsZero() {
		return
	}
	deltaTime := int64(time.Since(n.priorTime).Seconds())
	if deltaTime < 1 { // if we will cause divide by 0 error...
		deltaTime = 1
	}
	rowCount := atomic.LoadInt64(&n.rowCount)
	deltaRowCount := rowCount - atomic.LoadInt64(&n.priorRowCount)
	atomic.StoreInt64(&n.rowsPerSecDelta, deltaRowCount/deltaTime)
	n.log.Debug("STATS: ", n.stepName, " processing ", deltaRowCount/deltaTime, " rows per sec")
	atomic.StoreInt64(&n.priorRowCount, rowCount)
	n.priorTime = time.Now()
	atomic.StoreInt64(&n.rowsPerSecAvg, rowCount/getNumSecondsOrOne(n.startTime, n.endTime))
}

// RenderStats gets a struct filled with stats at the point of time it is called.
func (n *StepWatcher) RenderStats() Stats {
	n.mu.Lock()
	status := n.status
	elapsed := 0
	if !n.startTime.IsZero() {
		end := n.endTime
		if end.IsZero() {
			end = time.Now()
		}
		elapsed = int(end.Sub(n.startTime).Seconds())
	}
	n.mu.Unlock()
	return Stats{
		StepName:           n.stepName,
		StatusText:         status,
		StatusEmoji:        statusEmoji[status],
		ElapsedTimeSec:     elapsed,
		TotalRowsProcessed: int(atomic.LoadInt64(&n.rowCount)),
		RowsPerSecondAvg:   int(atomic.LoadInt64(&n.rowsPerSecAvg)),
		RowsPerSecondDelta: int(atomic.LoadInt64(&n.rowsPerSecDelta)),
	}
}

// String will format the stats for general logging.
func (s Stats) String() string {
	return fmt.Sprintf(
		"Stats for %v %v %v "+
			"elapsedTimeSec=%v "+
			"totalRowsProcessed=%v "+
			"rowsPerSecondAvg=%v "+
			"rowsPerSecondDelta=%v",
		s.StepName, s.StatusText, s.StatusEmoji,
		s.ElapsedTimeSec,
		s.TotalRowsProcessed,
		s.RowsPerSecondAvg,
		s.RowsPerSecondDelta,
	)
}

func getNumSecondsOrOne(start time.Time, end time.Time) (seconds int64) {
	if end.IsZero() {
		end = time.Now()
	}
	seconds = int64(end.Sub(start).Seconds())
	if seconds < 1 {
		seconds = 1
	}
	return
}
