package actions

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"sort"

	"github.com/gorilla/mux"
	"github.com/relloyd/housepipe/logger"
)

type WebServerResponse uint32

const (
	Okay WebServerResponse = iota + 1
	Error
)

func (w WebServerResponse) MarshalJSON() ([]byte, error) {
	var retval string
	switch w {
	case Okay:
		retval = "ok"
	case Error:
		retval = "error"
	default:
		err := fmt.Errorf("unhandled WebServerResponse value in MarshalJSON() conversion")
		return nil, err
	}
	return json.Marshal(retval)
}

type ResponseSimple struct {
	ServerStatus WebServerResponse `json:"status"`
}

type ResponseRunList struct {
	Status  WebServerResponse `json:"status"`
	RunList []RunListItem     `json:"runs"`
}

type RunListItem struct {
	RunId          string `json:"runId"`
	RunDescription string `json:"runDescription"`
	RunStatus      Status `json:"runStatus"`
}

type ResponseRunStats struct {
	Status       WebServerResponse `json:"status"`
	Message      string            `json:"message"`
	StatsSummary interface{}       `json:"runStats"`
}

type ResponseRunStatus struct {
	Status    WebServerResponse `json:"status"`
	Message   string            `json:"message"`
	RunStatus RunStatus         `json:"runStatus"`
}

type ResponseRunStop struct {
	Status  WebServerResponse `json:"status"`
	Message string            `json:"message"`
	RunId   string            `json:"runId"`
}

type ResponseRunLaunch struct {
	Status  WebServerResponse `json:"status"`
	Message string            `json:"message"`
	RunId   string            `json:"runId"`
}

func GetHandlerHealth(log logger.Logger) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		respond(log, w, ResponseSimple{ServerStatus: Okay})
	}
}

func GetHandlerStopServer(log logger.Logger, chanStop chan string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case chanStop <- "stop":
			log.Info("Stop signal sent")
		default:
			log.Info("Stop already requested")
		}
		w.WriteHeader(http.StatusOK)
		respond(log, w, ResponseSimple{ServerStatus: Okay})
	}
}

// GetHandlerRunLaunch reads a JSON pipeline definition from the request body.
// Fields in the body override those in defaults.
func GetHandlerRunLaunch(log logger.Logger, runs *SafeMapRunInfo, defaults PipelineConfig, fn pipelineFactory, statsDumpFrequencySeconds int) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := ioutil.ReadAll(r.Body)
		if err != nil {
			logAndRespond(log, err, w, ResponseRunLaunch{Status: Error, Message: fmt.Sprintf("error reading request: %v", err)})
			return
		}
		cfg := defaults
		if defaults.Report.MinSquare != nil {
			// Unmarshal writes through pointers so keep the defaults untouched.
			m := *defaults.Report.MinSquare
			cfg.Report.MinSquare = &m
		}
		if err = json.Unmarshal(b, &cfg); err != nil {
			logAndRespond(log, err, w,
				ResponseRunLaunch{Status: Error, Message: fmt.Sprintf("error unmarshalling JSON: %v", err)})
			return
		}
		p, err := fn(log, cfg, statsDumpFrequencySeconds)
		if err != nil {
			logAndRespond(log, err, w,
				ResponseRunLaunch{Status: Error, Message: fmt.Sprintf("invalid pipeline definition supplied: %v", err)})
			return
		}
		id, _ := LaunchPipeline(runs, p, false)
		log.Info("Launched run ", id)
		w.WriteHeader(http.StatusOK)
		respond(log, w, ResponseRunLaunch{Status: Okay, Message: "run launched", RunId: id})
	}
}

func GetHandlerRunStop(log logger.Logger, runs *SafeMapRunInfo) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["runId"]
		ri, ok := runs.Load(id)
		if !ok { // if the run doesn't exist...
			w.WriteHeader(http.StatusBadRequest)
			log.Info("HTTP request to stop run ", id, " that doesn't exist.")
			respond(log, w, ResponseRunStop{Status: Error, Message: "run does not exist", RunId: id})
			return
		}
		w.WriteHeader(http.StatusOK)
		if ri.Status.IsFinished() { // if the run has already finished...
			log.Info("HTTP request to stop run ", id, " that has already finished.")
			respond(log, w, ResponseRunStop{Status: Error, Message: "run already ended", RunId: id})
		} else {
			log.Info("Stopping run ", id)
			ri.Cancel()
			respond(log, w, ResponseRunStop{Status: Okay, Message: "shutting down", RunId: id})
		}
	}
}

func GetHandlerRunList(log logger.Logger, runs *SafeMapRunInfo) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		runs.RLock()
		list := make([]RunListItem, 0, len(runs.Internal))
		for id, v := range runs.Internal { // for each registered run...
			list = append(list, RunListItem{RunId: id, RunDescription: v.Description, RunStatus: v.Status.Status})
		}
		runs.RUnlock()
		sort.Slice(list, func(i, j int) bool { return list[i].RunId < list[j].RunId }) // xid sorts by creation time
		w.WriteHeader(http.StatusOK)
		respond(log, w, ResponseRunList{Status: Okay, RunList: list})
	}
}

func GetHandlerRunStats(log logger.Logger, runs *SafeMapRunInfo) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["runId"]
		if ri, ok := runs.Load(id); ok { // if the run exists...
			w.WriteHeader(http.StatusOK)
			respond(log, w, ResponseRunStats{Status: Okay, StatsSummary: ri.Stats.GetStats()})
		} else {
			w.WriteHeader(http.StatusBadRequest)
			log.Info("HTTP request to fetch stats for run ", id, " that doesn't exist.")
			respond(log, w, ResponseRunStats{Status: Error, Message: fmt.Sprintf("run %v does not exist", id)})
		}
	}
}

func GetHandlerRunStatus(log logger.Logger, runs *SafeMapRunInfo) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["runId"]
		if ri, ok := runs.Load(id); ok { // if the run exists...
			w.WriteHeader(http.StatusOK)
			respond(log, w, ResponseRunStatus{Status: Okay, RunStatus: ri.Status})
		} else {
			w.WriteHeader(http.StatusBadRequest)
			log.Info("HTTP request for status of run ", id, " that doesn't exist.")
			respond(log, w, ResponseRunStatus{Status: Error, Message: fmt.Sprintf("run %v does not exist", id)})
		}
	}
}

// logAndRespond will log the error, write a http.StatusBadRequest and r to w.
func logAndRespond(log logger.Logger, err error, w http.ResponseWriter, r ResponseRunLaunch) {
	log.Error(err)
	w.WriteHeader(http.StatusBadRequest)
	respond(log, w, r)
}

// respond will marshal i to a string and write it to w.
func respond(log logger.Logger, w http.ResponseWriter, i interface{}) {
	j, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		log.Error(err)
		return
	}
	if _, err = fmt.Fprint(w, string(j)); err != nil {
		log.Error(err)
	}
}
