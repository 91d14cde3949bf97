package actions

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/relloyd/housepipe/analysis"
	"github.com/relloyd/housepipe/aws/s3"
	"github.com/relloyd/housepipe/clickhouse"
	"github.com/relloyd/housepipe/constants"
	"github.com/relloyd/housepipe/logger"
	"github.com/relloyd/housepipe/rdbms"
	"github.com/relloyd/housepipe/stats"
	"github.com/rs/xid"
)

const (
	StepProbeAnalytics  = "probe-clickhouse"
	StepProbeRelational = "probe-postgres"
	StepAnalyze         = "analyze"
	StepLoad            = "load"
	StepReport          = "report"
	StepPublish         = "publish"
)

// PipelineSteps lists the steps in the order they run.
var PipelineSteps = []string{StepProbeAnalytics, StepProbeRelational, StepAnalyze, StepLoad, StepReport, StepPublish}

// PipelineConfig is the complete definition of a run. It can be saved as YAML or JSON
// and is the body accepted by the web server.
type PipelineConfig struct {
	Description string           `json:"description,omitempty"`
	ClickHouse  ClickHouseConfig `json:"clickhouse"`
	Relational  RelationalConfig `json:"postgres"`
	Analyze     AnalyzeConfig    `json:"analyze"`
	Load        LoadConfig       `json:"load"`
	Report      ReportConfig     `json:"report"`
	Publish     PublishConfig    `json:"publish,omitempty"`
	SkipProbes  bool             `json:"skipProbes,omitempty"`
	SkipAnalyze bool             `json:"skipAnalyze,omitempty"`
	SkipLoad    bool             `json:"skipLoad,omitempty"`
	SkipReport  bool             `json:"skipReport,omitempty"`
}

// fillShared copies values shared between steps where a step has not set its own.
func (c *PipelineConfig) fillShared() {
	if c.Load.ExtractFile == "" {
		c.Load.ExtractFile = c.Analyze.ExtractFile
	}
	if c.Load.Table == "" {
		c.Load.Table = c.ClickHouse.Table
	}
	if c.Report.Table == "" {
		c.Report.Table = c.ClickHouse.Table
	}
}

// Pipeline runs the steps of one PipelineConfig.
type Pipeline struct {
	RunId     string
	Config    PipelineConfig
	Log       logger.Logger
	Store     clickhouse.Store
	Prober    rdbms.VersionProber
	Publisher s3.BasicClient // nil unless publishing is enabled
	Stats     *stats.Manager
	Summary   analysis.Summary
	Loaded    clickhouse.LoadResult
	Only      string // if set, every other step is skipped
	startTime time.Time
	outputs   []string
}

// NewPipeline builds the clients for cfg and registers a StepWatcher per step.
func NewPipeline(log logger.Logger, cfg PipelineConfig, statsDumpFrequencySeconds int) (*Pipeline, error) {
	runId := xid.New().String()
	log = withRunId(log, runId)
	cfg.fillShared()
	store, err := NewClickHouseStore(cfg.ClickHouse)
	if err != nil {
		return nil, err
	}
	log.Debug("ClickHouse endpoint ", store.URL())
	p := &Pipeline{
		RunId:  runId,
		Config: cfg,
		Log:    log,
		Store:  store,
		Prober: NewVersionProber(log, cfg.Relational),
		Stats:  stats.NewManager(log, stats.SetStatsDumpFrequency(statsDumpFrequencySeconds)),
	}
	if cfg.Publish.Enabled() {
		if p.Publisher, err = NewPublisher(cfg.Publish); err != nil {
			return nil, err
		}
	}
	p.addStepWatchers()
	return p, nil
}

func (p *Pipeline) addStepWatchers() {
	for _, s := range PipelineSteps {
		p.Stats.AddStepWatcher(s)
	}
}

type pipelineStep struct {
	name string
	skip bool
	fn   func(ctx context.Context, sw *stats.StepWatcher) error
}

// Run executes the steps in order. The probes never fail; any other failed step stops the run.
func (p *Pipeline) Run(ctx context.Context) error {
	if p.Stats.GetStepWatcher(StepProbeAnalytics) == nil {
		p.addStepWatchers()
	}
	p.Config.fillShared()
	p.startTime = time.Now()
	p.outputs = nil
	cfg := &p.Config
	steps := []pipelineStep{
		{StepProbeAnalytics, cfg.SkipProbes, func(ctx context.Context, sw *stats.StepWatcher) error {
			RunProbeAnalytics(ctx, p.Log, p.Store)
			return nil
		}},
		{StepProbeRelational, cfg.SkipProbes, func(ctx context.Context, sw *stats.StepWatcher) error {
			RunProbeRelational(ctx, p.Log, p.Prober)
			return nil
		}},
		{StepAnalyze, cfg.SkipAnalyze, func(ctx context.Context, sw *stats.StepWatcher) (err error) {
			p.Summary, err = RunAnalyze(ctx, p.Log, &cfg.Analyze, sw)
			if err == nil {
				p.outputs = append(p.outputs, cfg.Analyze.ExtractFile)
			}
			return err
		}},
		{StepLoad, cfg.SkipLoad, func(ctx context.Context, sw *stats.StepWatcher) (err error) {
			p.Loaded, err = RunLoad(ctx, p.Log, p.Store, &cfg.Load, sw)
			return err
		}},
		{StepReport, cfg.SkipReport, func(ctx context.Context, sw *stats.StepWatcher) error {
			res, err := RunReport(ctx, p.Log, p.Store, &cfg.Report)
			if err == nil {
				p.outputs = append(p.outputs, cfg.Report.OutputFile)
				sw.SetRows(countResultRows(res))
			}
			return err
		}},
		{StepPublish, p.Publisher == nil, func(ctx context.Context, sw *stats.StepWatcher) error {
			keys, err := RunPublish(ctx, p.Log, p.Publisher, p.startTime, p.outputs)
			sw.SetRows(len(keys))
			return err
		}},
	}
	p.Log.Info("Starting run ", p.RunId)
	p.Stats.StartDumping()
	defer p.Stats.StopDumping()
	for _, s := range steps {
		sw := p.Stats.GetStepWatcher(s.name)
		if s.skip || (p.Only != "" && p.Only != s.name) {
			p.Log.Info("Skipping step ", s.name)
			sw.Skip()
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		p.Log.Info("Step ", s.name, " started")
		sw.Start()
		if err := s.fn(ctx, sw); err != nil {
			sw.Fail()
			p.Log.Error("Step ", s.name, " failed: ", err)
			return errors.Wrapf(err, "step %v failed", s.name)
		}
		sw.Stop()
		p.Log.Info("Step ", s.name, " complete")
	}
	p.Log.Info("Run ", p.RunId, " complete in ", time.Since(p.startTime).Round(time.Millisecond))
	return nil
}

// countResultRows returns the number of data lines in a result that has a header line.
func countResultRows(res string) int {
	n := strings.Count(strings.TrimRight(res, "\n"), "\n")
	if res == "" {
		return 0
	}
	return n
}

func withRunId(log logger.Logger, runId string) logger.Logger {
	if l, ok := log.(*logger.LoggerImpl); ok {
		return l.WithField("runId", runId)
	}
	return log
}

// RunConfig is used by the run command.
type RunConfig struct {
	Pipeline                  PipelineConfig
	LogLevel                  string `errorTxt:"log level" mandatory:"yes"`
	StackDumpOnPanic          bool
	StatsDumpFrequencySeconds int
	Output                    string // yaml or json to print the definition instead of running it
	IncludeSecrets            bool
}

// RunPipeline runs all steps of cfg.Pipeline, or prints the definition if cfg.Output is set.
func RunPipeline(ctx context.Context, cfg *RunConfig) error {
	if cfg == nil {
		return errors.New("nil pointer for run config supplied")
	}
	if cfg.Output != "" {
		return OutputPipelineDefinition(stdout, &cfg.Pipeline, cfg.Output, cfg.IncludeSecrets)
	}
	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return err
	}
	log := logger.NewLogger(constants.ServiceName, cfg.LogLevel, cfg.StackDumpOnPanic)
	p, err := NewPipeline(log, cfg.Pipeline, cfg.StatsDumpFrequencySeconds)
	if err != nil {
		return err
	}
	return runWithCleanup(ctx, p)
}

// runWithCleanup runs p until it completes or the user interrupts it.
func runWithCleanup(ctx context.Context, p *Pipeline) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan struct{})
	go cleanupHandler(p.Log, p.RunId, p.Stats, cancel, done)
	err := p.Run(ctx)
	close(done)
	return err
}

// StepConfig is used by the commands that run a single step.
type StepConfig struct {
	Step                      string `errorTxt:"step" mandatory:"yes"`
	Pipeline                  PipelineConfig
	LogLevel                  string `errorTxt:"log level" mandatory:"yes"`
	StackDumpOnPanic          bool
	StatsDumpFrequencySeconds int
}

// RunStep runs cfg.Step alone.
func RunStep(ctx context.Context, cfg *StepConfig) error {
	if cfg == nil {
		return errors.New("nil pointer for step config supplied")
	}
	if !isPipelineStep(cfg.Step) {
		return errors.Errorf("unknown step %q", cfg.Step)
	}
	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return err
	}
	if cfg.Pipeline.ClickHouse.Url == "" { // the client is built even for steps that never use it
		cfg.Pipeline.ClickHouse.Url = constants.ClickHouseUrlDefault
	}
	log := logger.NewLogger(constants.ServiceName, cfg.LogLevel, cfg.StackDumpOnPanic)
	p, err := NewPipeline(log, cfg.Pipeline, cfg.StatsDumpFrequencySeconds)
	if err != nil {
		return err
	}
	p.Only = cfg.Step
	return runWithCleanup(ctx, p)
}

func isPipelineStep(name string) bool {
	for _, s := range PipelineSteps {
		if s == name {
			return true
		}
	}
	return false
}
