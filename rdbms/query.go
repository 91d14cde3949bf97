package rdbms

import (
	"database/sql"
	"fmt"

	"github.com/relloyd/housepipe/logger"
	"golang.org/x/net/context"
)

// SqlResultHandler receives the column names and then each row of a query.
type SqlResultHandler interface {
	HandleHeader([]interface{}) error
	HandleRow([]interface{}) error
}

// SqlQuery runs sqltext and sends the header and rows to i.
func SqlQuery(ctx context.Context, log logger.Logger, db *sql.DB, sqltext string, i SqlResultHandler) error {
	rows, err := db.QueryContext(ctx, sqltext)
	if err != nil {
		return fmt.Errorf("error during database query using SQL: '%v': %w", sqltext, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return fmt.Errorf("error fetching column types: %w", err)
	}
	for _, v := range colTypes {
		log.Debug("column scan type = ", v.ScanType())
	}
	// Scan the values dynamically.
	n := len(colTypes)
	scanPtrs := make([]interface{}, n)
	scanVals := make([]interface{}, n)
	for idx := 0; idx < n; idx++ {
		scanPtrs[idx] = &scanVals[idx]
	}
	header := make([]interface{}, n)
	for idx := range colTypes {
		header[idx] = colTypes[idx].Name()
	}
	if err = i.HandleHeader(header); err != nil {
		return err
	}
	for rows.Next() {
		if err = ctx.Err(); err != nil { // quit if asked to...
			return err
		}
		if err = rows.Scan(scanPtrs...); err != nil {
			return fmt.Errorf("error scanning row: %w", err)
		}
		row := make([]interface{}, n)
		copy(row, scanVals)
		if err = i.HandleRow(row); err != nil {
			return err
		}
	}
	return rows.Err()
}
