package actions

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/relloyd/housepipe/clickhouse"
	"github.com/relloyd/housepipe/constants"
	"github.com/relloyd/housepipe/file"
	"github.com/relloyd/housepipe/helper"
	"github.com/relloyd/housepipe/logger"
	"github.com/relloyd/housepipe/stats"
)

// LoadConfig controls step 4: bulk load of the extract.
type LoadConfig struct {
	ExtractFile string `json:"extractFile" errorTxt:"extract file" mandatory:"yes"`
	Table       string `json:"table" errorTxt:"table" mandatory:"yes"`
	BatchSize   int    `json:"batchSize,omitempty"`
	NoTruncate  bool   `json:"noTruncate,omitempty"`
	CreateTable bool   `json:"createTable,omitempty"`
}

// RunLoad sends the extract to the analytics store in batches.
// Any failed batch stops the load and returns an error.
func RunLoad(ctx context.Context, log logger.Logger, store clickhouse.Store, cfg *LoadConfig, sw *stats.StepWatcher) (clickhouse.LoadResult, error) {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return clickhouse.LoadResult{}, err
	}
	if err := clickhouse.ValidateTableName(cfg.Table); err != nil {
		return clickhouse.LoadResult{}, err
	}
	f, err := os.Open(cfg.ExtractFile)
	if err != nil {
		return clickhouse.LoadResult{}, errors.Wrap(err, "unable to open extract")
	}
	defer f.Close()
	// Diagnostics.
	lines, err := file.HeadLines(cfg.ExtractFile, constants.DiagnosticLineCount, constants.DiagnosticLineMaxChars)
	if err != nil {
		return clickhouse.LoadResult{}, errors.Wrap(err, "unable to read extract")
	}
	for idx, l := range lines {
		log.Debug("Extract line ", idx+1, ": ", l)
	}
	if cfg.CreateTable {
		if err = store.Exec(ctx, clickhouse.CreateTableDDL(cfg.Table)); err != nil {
			return clickhouse.LoadResult{}, errors.Wrapf(err, "unable to create table %v", cfg.Table)
		}
		log.Info("Created table ", cfg.Table, " if it did not exist")
	}
	loader := clickhouse.BulkLoader{
		Store:      store,
		Log:        log,
		Table:      cfg.Table,
		BatchSize:  cfg.BatchSize,
		FieldCount: constants.ExtractFieldCount,
		Truncate:   !cfg.NoTruncate,
		OnBatch: func(loaded int) {
			sw.SetRows(loaded)
		},
	}
	log.Info("Loading ", cfg.ExtractFile, " into ", cfg.Table)
	res, err := loader.Load(ctx, f)
	if err != nil {
		return res, err
	}
	log.Info("Loaded ", res.Rows, " rows in ", res.Batches, " batches; skipped ", res.Skipped, " lines")
	return res, nil
}
