package actions

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/relloyd/housepipe/logger"
	"github.com/relloyd/housepipe/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *SafeMapRunInfo, chan string, *fakeStore) {
	log := testLogger()
	store := &fakeStore{version: "23.8.2.7"}
	factory := func(log logger.Logger, cfg PipelineConfig, freq int) (*Pipeline, error) {
		cfg.fillShared()
		p := &Pipeline{
			RunId:  "run" + time.Now().Format("150405.000000000"),
			Config: cfg,
			Log:    log,
			Store:  store,
			Prober: fakeProber{version: "PostgreSQL 15.4"},
			Stats:  stats.NewManager(log, stats.SetStatsDumpFrequency(0)),
		}
		p.addStepWatchers()
		return p, nil
	}
	web := &WebServerConfig{LogLevel: "error", Defaults: PipelineConfig{
		ClickHouse: ClickHouseConfig{Url: "http://clickhouse:8123/", Table: "houses"},
	}}
	runs := NewSafeMapRunInfo()
	chanStop := make(chan string, 1)
	srv := httptest.NewServer(newRouter(log, web, runs, chanStop, factory))
	t.Cleanup(srv.Close)
	return srv, runs, chanStop, store
}

func TestWebHealthAndStop(t *testing.T) {
	srv, _, chanStop, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, err = http.Get(srv.URL + "/stop")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "stop", <-chanStop)
}

func TestWebLaunchRun(t *testing.T) {
	srv, runs, _, store := newTestServer(t)
	outputFile, _ := json.Marshal(filepath.Join(t.TempDir(), "top.csv"))
	body := []byte(`{"description": "probe and report", "skipAnalyze": true, "skipLoad": true, "report": {"outputFile": ` +
		string(outputFile) + `}}`)
	resp, err := http.Post(srv.URL+"/runs", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	launched := map[string]interface{}{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&launched))
	id, _ := launched["runId"].(string)
	require.NotEmpty(t, id)
	require.Eventually(t, func() bool {
		ri, ok := runs.Load(id)
		return ok && ri.Status.Status == StatusComplete
	}, 5*time.Second, 20*time.Millisecond)
	ri, _ := runs.Load(id)
	assert.Equal(t, "probe and report", ri.Description)
	store.mu.Lock()
	assert.Len(t, store.queries, 1, "only the report query was expected")
	store.mu.Unlock()
	// Status, stats and list.
	for _, path := range []string{"/runs", "/runs/" + id + "/status", "/runs/" + id + "/stats"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
	// Stopping a finished run is reported as an error.
	resp2, err := http.Get(srv.URL + "/runs/" + id + "/stop")
	require.NoError(t, err)
	defer resp2.Body.Close()
	m := map[string]interface{}{}
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&m))
	assert.Equal(t, "error", m["status"])
}

func TestWebUnknownRun(t *testing.T) {
	srv, _, _, _ := newTestServer(t)
	for _, path := range []string{"/runs/nope/status", "/runs/nope/stats", "/runs/nope/stop"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
	}
}

func TestWebLaunchBadJson(t *testing.T) {
	srv, _, _, _ := newTestServer(t)
	resp, err := http.Post(srv.URL+"/runs", "application/json", bytes.NewReader([]byte(`{bad`)))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatusMarshalJSON(t *testing.T) {
	b, err := json.Marshal(RunStatus{Status: StatusCompleteWithError})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"runStatus":"complete with error"`)
	_, err = json.Marshal(Status(99))
	assert.Error(t, err)
}

func TestWebLaunchKeepsDefaults(t *testing.T) {
	defaults := PipelineConfig{Report: ReportConfig{MinSquare: floatPtr(60)}}
	var got []PipelineConfig
	factory := func(log logger.Logger, cfg PipelineConfig, freq int) (*Pipeline, error) {
		got = append(got, cfg)
		return nil, errors.New("not launched")
	}
	h := GetHandlerRunLaunch(testLogger(), NewSafeMapRunInfo(), defaults, factory, 0)
	for _, body := range []string{`{"report": {"minSquare": 0}}`, `{}`} {
		r := httptest.NewRequest(http.MethodPost, "/runs", bytes.NewReader([]byte(body)))
		h(httptest.NewRecorder(), r)
	}
	require.Len(t, got, 2)
	assert.Equal(t, 0.0, *got[0].Report.MinSquare)
	assert.Equal(t, 60.0, *got[1].Report.MinSquare)
	assert.Equal(t, 60.0, *defaults.Report.MinSquare)
}
