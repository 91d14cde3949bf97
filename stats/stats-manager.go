package stats

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/cevaris/ordered_map"
	"github.com/relloyd/housepipe/logger"
)

type StatsFetcher interface {
	GetStats() []Stats
}

var DefaultStatsDumpFrequencySeconds = 5

// Manager keeps a StepWatcher per pipeline step in the order the steps were added.
type Manager struct {
	ticker              *time.Ticker
	tickerDone          chan struct{}
	tickerIsRunningFlag int32
	tickerFrequency     int
	mu                  sync.Mutex
	mapMu               sync.RWMutex
	log                 logger.Logger
	mapStepStats        *ordered_map.OrderedMap // step name to *StepWatcher
}

// SetStatsDumpFrequency returns an option for NewManager. Zero disables dumping.
func SetStatsDumpFrequency(seconds int) func(t *Manager) {
	return func(t *Manager) {
		t.tickerFrequency = seconds
	}
}

func NewManager(log logger.Logger, options ...func(t *Manager)) *Manager {
	t := &Manager{log: log, tickerFrequency: DefaultStatsDumpFrequencySeconds}
	for _, option := range options {
		option(t)
	}
	t.tickerDone = make(chan struct{})
	t.mapStepStats = ordered_map.NewOrderedMap()
	return t
}

// AddStepWatcher creates a StepWatcher for stepName, replacing any with the same name.
func (t *Manager) AddStepWatcher(stepName string) *StepWatcher {
	sw := NewStepWatcher(t.log, stepName)
	t.mapMu.Lock()
	t.mapStepStats.Set(stepName, sw)
	t.mapMu.Unlock()
	return sw
}

// GetStepWatcher returns the watcher for stepName or nil.
func (t *Manager) GetStepWatcher(stepName string) *StepWatcher {
	t.mapMu.RLock()
	defer t.mapMu.RUnlock()
	v, ok := t.mapStepStats.Get(stepName)
	if !ok {
		return nil
	}
	return v.(*StepWatcher)
}

func (t *Manager) StartDumping() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if atomic.LoadInt32(&t.tickerIsRunningFlag) == 0 { // if we're not already dumping stats...
		if t.tickerFrequency > 0 {
			t.ticker = time.NewTicker(time.Second * time.Duration(t.tickerFrequency))
			atomic.StoreInt32(&t.tickerIsRunningFlag, 1)
			go func() {
				t.log.Debug("stats dumper ticker started")
				for {
					select {
					case <-t.tickerDone:
						t.log.Debug("stats dumper ticker stopped")
						return
					case <-t.ticker.C:
						t.logStats()
					}
				}
			}()
		} else {
			t.log.Debug("stats dumper disabled")
		}
	} else {
		t.log.Debug("stats dumper ticker already running")
	}
}

// StopDumping will stop the ticker and dump the current stats,
// only if the ticker was already running via a call to StartDumping().
func (t *Manager) StopDumping() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if atomic.LoadInt32(&t.tickerIsRunningFlag) > 0 { // if we started to dump stats...
		atomic.StoreInt32(&t.tickerIsRunningFlag, 0)
		t.ticker.Stop()
		t.tickerDone <- struct{}{} // cause the goroutine to exit (we can't close ticker.C)
		for _, sw := range t.watchers() {
			sw.CalculateStats()
		}
		t.logStats()
	}
}

func (t *Manager) watchers() []*StepWatcher {
	t.mapMu.RLock()
	defer t.mapMu.RUnlock()
	retval := make([]*StepWatcher, 0, t.mapStepStats.Len())
	iter := t.mapStepStats.IterFunc()
	for kv, ok := iter(); ok; kv, ok = iter() {
		retval = append(retval, kv.Value.(*StepWatcher))
	}
	return retval
}

func (t *Manager) logStats() {
	for _, sw := range t.watchers() {
		t.log.Warn(sw.RenderStats().String())
	}
}

// GetStats implements interface StatsFetcher{}.
func (t *Manager) GetStats() []Stats {
	w := t.watchers()
	statsList := make([]Stats, 0, len(w))
	for _, sw := range w {
		statsList = append(statsList, sw.RenderStats())
	}
	return statsList
}
