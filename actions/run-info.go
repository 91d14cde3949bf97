package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/relloyd/housepipe/stats"
)

type Status uint32

const (
	StatusMissing  Status = 0
	StatusStarting Status = iota
	StatusRunning
	StatusComplete
	StatusCompleteWithError
	StatusShutdown
)

func (s Status) MarshalJSON() ([]byte, error) {
	var retval string
	switch s {
	case StatusMissing:
		retval = ""
	case StatusStarting:
		retval = "starting"
	case StatusRunning:
		retval = "running"
	case StatusComplete:
		retval = "complete"
	case StatusCompleteWithError:
		retval = "complete with error"
	case StatusShutdown:
		retval = "shutdown by user"
	default:
		err := fmt.Errorf("unhandled Status value %v in custom MarshalJSON() conversion", uint32(s))
		return nil, err
	}
	return json.Marshal(retval)
}

type RunStatus struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Status    Status    `json:"runStatus"`
	Error     string    `json:"error"`
}

func (r *RunStatus) IsFinished() bool {
	return r.Status != StatusStarting && r.Status != StatusRunning
}

type RunInfo struct {
	Description string
	Cancel      context.CancelFunc
	Status      RunStatus
	Stats       stats.StatsFetcher
}

// SafeMapRunInfo is a register of pipeline runs, keyed by run id, with locking.
type SafeMapRunInfo struct {
	sync.RWMutex
	Internal map[string]RunInfo
	wg       sync.WaitGroup
}

func NewSafeMapRunInfo() *SafeMapRunInfo {
	return &SafeMapRunInfo{Internal: make(map[string]RunInfo)}
}

func (t *SafeMapRunInfo) Load(key string) (ri RunInfo, ok bool) {
	t.RLock()
	ri, ok = t.Internal[key]
	t.RUnlock()
	return
}

func (t *SafeMapRunInfo) Store(key string, value RunInfo) {
	t.Lock()
	t.Internal[key] = value
	t.Unlock()
}

func (t *SafeMapRunInfo) Delete(key string) {
	t.Lock()
	delete(t.Internal, key)
	t.Unlock()
}

// setStatus records a status change for run key.
func (t *SafeMapRunInfo) setStatus(key string, status Status, runErr error) {
	t.Lock()
	defer t.Unlock()
	ri := t.Internal[key]
	ri.Status.Status = status
	switch status {
	case StatusRunning:
		ri.Status.StartTime = time.Now()
	case StatusComplete, StatusCompleteWithError, StatusShutdown:
		ri.Status.EndTime = time.Now()
	}
	if runErr != nil {
		ri.Status.Error = runErr.Error()
	}
	t.Internal[key] = ri
}

// StopAll cancels every run that has not finished.
func (t *SafeMapRunInfo) StopAll() {
	t.RLock()
	defer t.RUnlock()
	for _, ri := range t.Internal {
		if !ri.Status.IsFinished() {
			ri.Cancel()
		}
	}
}

// Wait blocks until all launched runs have returned or the timeout expires.
// It returns false on timeout.
func (t *SafeMapRunInfo) Wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
