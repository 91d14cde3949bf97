package actions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
	"github.com/relloyd/housepipe/constants"
	"github.com/relloyd/housepipe/logger"
)

type PipeConfig struct {
	PipelineFile              string `errorTxt:"file" mandatory:"yes"`
	WithWebService            bool   `errorTxt:"with-server" mandatory:"no"`
	LogLevel                  string
	StackDumpOnPanic          bool
	StatsDumpFrequencySeconds int
}

// RunPipeFromFile runs the pipeline defined in pipe.PipelineFile.
// With pipe.WithWebService the run is launched via a local web server that stays up after the run.
func RunPipeFromFile(pipe *PipeConfig, web *WebServerConfig) error {
	if pipe == nil {
		return fmt.Errorf("nil pointer for pipe config supplied")
	}
	if pipe.PipelineFile == "" {
		return fmt.Errorf("supply a YAML or JSON file name to execute your pipeline")
	}
	if err := validateLogLevel(pipe.LogLevel); err != nil {
		return err
	}
	log := logger.NewLogger(constants.ServiceName, pipe.LogLevel, pipe.StackDumpOnPanic)
	p, err := LoadPipelineFromFile(pipe.PipelineFile)
	if err != nil {
		return err
	}
	if !pipe.WithWebService {
		pl, err := NewPipeline(log, *p, pipe.StatsDumpFrequencySeconds)
		if err != nil {
			return err
		}
		return runWithCleanup(context.Background(), pl)
	}
	web.StatsDumpFrequencySeconds = pipe.StatsDumpFrequencySeconds
	return launchPipeFromFileWithServer(log, pipe.PipelineFile, p, web)
}

// launchPipeFromFileWithServer starts the web server and POSTs the pipeline to it.
// If the initial POST fails then it returns an error.
func launchPipeFromFileWithServer(log logger.Logger, fileName string, p *PipelineConfig, web *WebServerConfig) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	srv, chanStopServer, runs := runServer(log, web, NewPipeline)
	url := "http://localhost:" + strconv.Itoa(web.Port) + urlContextRuns
	log.Debug("posting to url = ", url)
	resp, err := http.Post(url, "application/json", bytes.NewBuffer(b))
	if err != nil { // if the POST failed...
		chanStopServer <- ""
		_ = waitForServer(log, srv, chanStopServer, runs)
		return errors.Wrap(err, "error launching pipeline")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		chanStopServer <- ""
		_ = waitForServer(log, srv, chanStopServer, runs)
		return fmt.Errorf("error launching pipeline, received HTTP status code %v", resp.StatusCode)
	}
	r := ResponseRunLaunch{}
	_ = json.NewDecoder(resp.Body).Decode(&r)
	log.Info("Launched pipeline file ", fileName, " as run ", r.RunId)
	return waitForServer(log, srv, chanStopServer, runs)
}
