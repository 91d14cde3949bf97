package actions

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/relloyd/housepipe/constants"
	"github.com/relloyd/housepipe/helper"
	"github.com/relloyd/housepipe/logger"
)

const (
	urlContextRuns = "/runs"
	runStopTimeout = 15 * time.Second
)

type WebServerConfig struct {
	LogLevel                  string `errorTxt:"log level" mandatory:"yes"`
	Scheme                    string `errorTxt:"scheme" mandatory:"no"`
	Addr                      net.IP `errorTxt:"address" mandatory:"no"`
	Port                      int    `errorTxt:"port" mandatory:"no"`
	Defaults                  PipelineConfig
	StatsDumpFrequencySeconds int
	StackDumpOnPanic          bool
}

// pipelineFactory builds a Pipeline for a launch request.
type pipelineFactory func(log logger.Logger, cfg PipelineConfig, statsDumpFrequencySeconds int) (*Pipeline, error)

func RunWebServer(web *WebServerConfig) error {
	if web == nil {
		return errors.New("nil pointer to web server config supplied")
	}
	web.Defaults.fillShared()
	// Check if we have valid input params.
	if err := helper.ValidateStructIsPopulated(web); err != nil {
		return err
	}
	if err := validateLogLevel(web.LogLevel); err != nil {
		return err
	}
	var runs *SafeMapRunInfo
	log := logger.NewWebLogger(constants.ServiceName, web.LogLevel, web.StackDumpOnPanic, func() {
		if runs != nil { // cancel runs before a fatal exit
			runs.StopAll()
		}
	})
	// Start the web server.
	srv, chanStopServer, runs := runServer(log, web, NewPipeline)
	// Block & wait for completion.
	return waitForServer(log, srv, chanStopServer, runs)
}

func newRouter(log logger.Logger, web *WebServerConfig, runs *SafeMapRunInfo, chanStopServer chan string, fn pipelineFactory) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/stop", GetHandlerStopServer(log, chanStopServer))
	r.Path("/health").HandlerFunc(GetHandlerHealth(log))
	r.Path(urlContextRuns).Methods(http.MethodGet).HandlerFunc(GetHandlerRunList(log, runs))
	r.Path(urlContextRuns).Methods(http.MethodPost).Headers("Content-Type", "application/json").HandlerFunc(
		GetHandlerRunLaunch(log, runs, web.Defaults, fn, web.StatsDumpFrequencySeconds))
	r.Path(urlContextRuns + "/{runId}/stats").HandlerFunc(GetHandlerRunStats(log, runs))
	r.Path(urlContextRuns + "/{runId}/status").HandlerFunc(GetHandlerRunStatus(log, runs))
	r.Path(urlContextRuns + "/{runId}/stop").HandlerFunc(GetHandlerRunStop(log, runs))
	return r
}

// runServer starts a web server and returns:
// 1) the server; and
// 2) a channel that can be used to stop the web server
// 3) the register of runs launched by the server
func runServer(log logger.Logger, web *WebServerConfig, fn pipelineFactory) (*http.Server, chan string, *SafeMapRunInfo) {
	chanStopServer := make(chan string, 1)
	runs := NewSafeMapRunInfo()
	srv := &http.Server{
		Addr:         fmt.Sprintf("%v:%v", web.Addr, web.Port),
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      newRouter(log, web, runs, chanStopServer, fn),
	}
	// Run HTTP server non-blocking.
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			if err == http.ErrServerClosed {
				log.Info(err)
			} else {
				log.Error(err)
				chanStopServer <- "error"
			}
		}
	}()
	log.Info(fmt.Sprintf("Listening on %v://%v:%v", strings.ToLower(web.Scheme), web.Addr, web.Port))
	return srv, chanStopServer, runs
}

func waitForServer(log logger.Logger, srv *http.Server, chanStopServer chan string, runs *SafeMapRunInfo) error {
	// Block & wait for shutdown signals.
	chanOS := make(chan os.Signal, 1)
	signal.Notify(chanOS, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(chanOS)
	select {
	case <-chanStopServer:
	case <-chanOS:
	}
	log.Info("Shutting down web server...")
	// Stop running pipelines first.
	runs.StopAll()
	if !runs.Wait(runStopTimeout) {
		log.Warn("Timed out waiting for runs to stop")
	}
	ctx, cancel := context.WithTimeout(context.Background(), runStopTimeout)
	defer cancel()
	return srv.Shutdown(ctx) // waits for open connections until the deadline.
}

// LaunchPipeline registers p in runs and starts it in a goroutine.
// If block is set it waits for the run to finish and returns its error.
func LaunchPipeline(runs *SafeMapRunInfo, p *Pipeline, block bool) (string, error) {
	ctx, cancel := context.WithCancel(context.Background())
	runs.Store(p.RunId, RunInfo{
		Description: p.Config.Description,
		Cancel:      cancel,
		Status:      RunStatus{Status: StatusStarting},
		Stats:       p.Stats,
	})
	runs.wg.Add(1)
	chanErr := make(chan error, 1)
	go func() {
		defer runs.wg.Done()
		defer cancel()
		runs.setStatus(p.RunId, StatusRunning, nil)
		err := p.Run(ctx)
		switch {
		case err != nil && ctx.Err() == context.Canceled:
			runs.setStatus(p.RunId, StatusShutdown, nil)
		case err != nil:
			runs.setStatus(p.RunId, StatusCompleteWithError, err)
		default:
			runs.setStatus(p.RunId, StatusComplete, nil)
		}
		chanErr <- err
	}()
	if block {
		return p.RunId, <-chanErr
	}
	return p.RunId, nil
}
