package actions

import (
	"context"
	"io/ioutil"

	"github.com/pkg/errors"
	"github.com/relloyd/housepipe/clickhouse"
	"github.com/relloyd/housepipe/constants"
	"github.com/relloyd/housepipe/helper"
	"github.com/relloyd/housepipe/logger"
)

// ReportConfig controls step 5: the summary query.
type ReportConfig struct {
	Table      string   `json:"table" errorTxt:"table" mandatory:"yes"`
	OutputFile string   `json:"outputFile" errorTxt:"report file" mandatory:"yes"`
	MinSquare  *float64 `json:"minSquare,omitempty"` // nil uses the default; zero and negative thresholds are honoured
	Limit      int      `json:"limit,omitempty"`
}

// RunReport runs the top houses query and writes the response to cfg.OutputFile unchanged.
func RunReport(ctx context.Context, log logger.Logger, store clickhouse.Store, cfg *ReportConfig) (string, error) {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return "", err
	}
	if err := clickhouse.ValidateTableName(cfg.Table); err != nil {
		return "", err
	}
	minSquare := float64(constants.ReportMinSquareDefault)
	if cfg.MinSquare != nil {
		minSquare = *cfg.MinSquare
	}
	limit := cfg.Limit
	if limit <= 0 {
		limit = constants.ReportLimitDefault
	}
	q := clickhouse.TopHousesQuery(cfg.Table, minSquare, limit)
	log.Debug("Report query: ", q)
	res, err := store.Query(ctx, q)
	if err != nil {
		return "", errors.Wrap(err, "report query failed")
	}
	log.Info("Report:\n", res)
	if err = ioutil.WriteFile(cfg.OutputFile, []byte(res), 0644); err != nil {
		return res, errors.Wrapf(err, "unable to write report %v", cfg.OutputFile)
	}
	log.Info("Report written to ", cfg.OutputFile)
	return res, nil
}
