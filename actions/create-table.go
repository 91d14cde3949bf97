package actions

import (
	"context"

	"github.com/relloyd/housepipe/clickhouse"
	"github.com/relloyd/housepipe/constants"
	"github.com/relloyd/housepipe/helper"
	"github.com/relloyd/housepipe/logger"
)

type CreateTableConfig struct {
	ClickHouse       ClickHouseConfig
	ExecuteDDL       bool
	LogLevel         string `errorTxt:"log level" mandatory:"yes"`
	StackDumpOnPanic bool
}

// RunCreateTable prints the DDL for the housing table, or executes it when cfg.ExecuteDDL is set.
func RunCreateTable(ctx context.Context, cfg *CreateTableConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	log := logger.NewLogger(constants.ServiceName, cfg.LogLevel, cfg.StackDumpOnPanic)
	var store clickhouse.Store
	if cfg.ExecuteDDL {
		c, err := NewClickHouseStore(cfg.ClickHouse)
		if err != nil {
			return err
		}
		store = c
	}
	return createTable(ctx, log, store, cfg.ClickHouse.Table, cfg.ExecuteDDL)
}

func createTable(ctx context.Context, log logger.Logger, store clickhouse.Store, table string, execute bool) error {
	if err := clickhouse.ValidateTableName(table); err != nil {
		return err
	}
	ddl := clickhouse.CreateTableDDL(table)
	printLog := getPrintLogFunc(log, !execute)
	printLog(ddl)
	if !execute {
		return nil
	}
	log.Info("Executing DDL...")
	if err := store.Exec(ctx, ddl); err != nil {
		return err
	}
	log.Info("DDL succeeded without error.")
	return nil
}
