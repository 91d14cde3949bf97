package actions

import (
	"context"
	"errors"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/relloyd/housepipe/clickhouse"
	"github.com/relloyd/housepipe/clickhouse/mocks"
	"github.com/relloyd/housepipe/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPipelineConfig(t *testing.T) PipelineConfig {
	dir := t.TempDir()
	return PipelineConfig{
		ClickHouse: ClickHouseConfig{Url: "http://clickhouse:8123/", Table: "houses"},
		Analyze: AnalyzeConfig{
			InputFile:   writeTestInput(t, dir),
			ExtractFile: filepath.Join(dir, "processed_data.csv"),
		},
		Report: ReportConfig{OutputFile: filepath.Join(dir, "top_25_houses.csv")},
	}
}

func newTestPipeline(cfg PipelineConfig, store clickhouse.Store) *Pipeline {
	log := testLogger()
	return &Pipeline{
		RunId:  "test",
		Config: cfg,
		Log:    log,
		Store:  store,
		Prober: fakeProber{version: "PostgreSQL 15.4"},
		Stats:  stats.NewManager(log, stats.SetStatsDumpFrequency(0)),
	}
}

func statusByStep(s []stats.Stats) map[string]string {
	m := make(map[string]string, len(s))
	for _, v := range s {
		m[v.StepName] = v.StatusText
	}
	return m
}

func TestPipelineRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := mocks.NewMockStore(ctrl)
	gomock.InOrder(
		store.EXPECT().Version(gomock.Any()).Return("23.8.2.7", nil),
		store.EXPECT().Exec(gomock.Any(), clickhouse.TruncateSQL("houses")).Return(nil),
		store.EXPECT().Insert(gomock.Any(), clickhouse.InsertSQL("houses"), gomock.Any()).Return(nil),
		store.EXPECT().Query(gomock.Any(), clickhouse.TopHousesQuery("houses", 60, 25)).Return("house_id\n1\n", nil),
	)
	p := newTestPipeline(testPipelineConfig(t), store)
	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, 3, p.Summary.TotalRows)
	assert.Equal(t, 3, p.Loaded.Rows)
	b, err := ioutil.ReadFile(p.Config.Report.OutputFile)
	require.NoError(t, err)
	assert.Equal(t, "house_id\n1\n", string(b))
	st := p.Stats.GetStats()
	require.Len(t, st, len(PipelineSteps))
	for idx, s := range st {
		assert.Equal(t, PipelineSteps[idx], s.StepName, "steps are kept in run order")
	}
	got := statusByStep(st)
	assert.Equal(t, stats.StatusComplete, got[StepReport])
	assert.Equal(t, stats.StatusSkipped, got[StepPublish])
}

func TestPipelineProbeFailuresDoNotStopRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Version(gomock.Any()).Return("", errors.New("connection refused"))
	cfg := testPipelineConfig(t)
	cfg.SkipLoad = true
	cfg.SkipReport = true
	p := newTestPipeline(cfg, store)
	p.Prober = fakeProber{err: errors.New("psql: command not found")}
	require.NoError(t, p.Run(context.Background()))
	got := statusByStep(p.Stats.GetStats())
	assert.Equal(t, stats.StatusComplete, got[StepProbeRelational])
	assert.Equal(t, stats.StatusComplete, got[StepAnalyze])
	assert.Equal(t, stats.StatusSkipped, got[StepLoad])
}

func TestPipelineLoadFailureStopsRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Exec(gomock.Any(), gomock.Any()).Return(nil)
	store.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any()).Return(&clickhouse.StatusError{StatusCode: 500})
	// No Query expected: the report must not run.
	cfg := testPipelineConfig(t)
	cfg.SkipProbes = true
	p := newTestPipeline(cfg, store)
	err := p.Run(context.Background())
	require.Error(t, err)
	got := statusByStep(p.Stats.GetStats())
	assert.Equal(t, stats.StatusSkipped, got[StepProbeAnalytics])
	assert.Equal(t, stats.StatusFailed, got[StepLoad])
	assert.Equal(t, stats.StatusPending, got[StepReport])
}

func TestPipelineCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := mocks.NewMockStore(ctrl)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := newTestPipeline(testPipelineConfig(t), store)
	assert.ErrorIs(t, p.Run(ctx), context.Canceled)
}

func TestFillShared(t *testing.T) {
	cfg := PipelineConfig{
		ClickHouse: ClickHouseConfig{Table: "houses"},
		Analyze:    AnalyzeConfig{ExtractFile: "x.tsv"},
		Report:     ReportConfig{Table: "other"},
	}
	cfg.fillShared()
	assert.Equal(t, "x.tsv", cfg.Load.ExtractFile)
	assert.Equal(t, "houses", cfg.Load.Table)
	assert.Equal(t, "other", cfg.Report.Table, "explicit values are kept")
}

func TestNewPipeline(t *testing.T) {
	p, err := NewPipeline(testLogger(), testPipelineConfig(t), 0)
	require.NoError(t, err)
	assert.NotEmpty(t, p.RunId)
	assert.Nil(t, p.Publisher)
	assert.Equal(t, "houses", p.Config.Load.Table)
	require.NotNil(t, p.Stats.GetStepWatcher(StepPublish))
	cfg := testPipelineConfig(t)
	cfg.ClickHouse.Url = "not a url"
	_, err = NewPipeline(testLogger(), cfg, 0)
	assert.Error(t, err)
}

func TestPipelineOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Query(gomock.Any(), gomock.Any()).Return("house_id\n", nil)
	p := newTestPipeline(testPipelineConfig(t), store)
	p.Only = StepReport
	require.NoError(t, p.Run(context.Background()))
	got := statusByStep(p.Stats.GetStats())
	assert.Equal(t, stats.StatusSkipped, got[StepAnalyze])
	assert.Equal(t, stats.StatusComplete, got[StepReport])
}

func TestRunStepUnknown(t *testing.T) {
	err := RunStep(context.Background(), &StepConfig{Step: "nope", LogLevel: "info"})
	assert.Error(t, err)
	err = RunStep(context.Background(), &StepConfig{Step: StepReport, LogLevel: "loud"})
	assert.Error(t, err)
}
