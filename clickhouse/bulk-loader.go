package clickhouse

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/relloyd/housepipe/constants"
	"github.com/relloyd/housepipe/helper"
	"github.com/relloyd/housepipe/logger"
)

const logLineMaxChars = 200

// BulkLoader sends a tab separated extract to a table in fixed size batches.
type BulkLoader struct {
	Store      Store
	Log        logger.Logger
	Table      string
	BatchSize  int
	FieldCount int
	Truncate   bool
	// OnBatch is called with the total rows loaded after each successful batch.
	OnBatch func(loaded int)
}

// LoadResult describes a completed or aborted load.
type LoadResult struct {
	Rows    int `json:"rows"`
	Skipped int `json:"skipped"`
	Batches int `json:"batches"`
}

// Load reads lines from r and inserts them into b.Table.
// Lines that do not have b.FieldCount tab separated fields are skipped with a warning.
// The first batch that fails stops the load and its error is returned with the rows loaded so far.
func (b *BulkLoader) Load(ctx context.Context, r io.Reader) (LoadResult, error) {
	res := LoadResult{}
	if err := ValidateTableName(b.Table); err != nil {
		return res, err
	}
	batchSize := b.BatchSize
	if batchSize <= 0 {
		batchSize = constants.BulkLoadBatchSizeDefault
	}
	fieldCount := b.FieldCount
	if fieldCount <= 0 {
		fieldCount = constants.ExtractFieldCount
	}
	if b.Truncate {
		if err := b.Store.Exec(ctx, TruncateSQL(b.Table)); err != nil {
			b.Log.Error("Error truncating table ", b.Table, ": ", err)
		} else {
			b.Log.Info("Truncated table ", b.Table)
		}
	}
	insertSQL := InsertSQL(b.Table)
	batch := bytes.Buffer{}
	batchRows := 0
	firstLine := ""
	send := func(final bool) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.Store.Insert(ctx, insertSQL, bytes.NewReader(batch.Bytes())); err != nil {
			b.Log.Error("Error loading batch: ", err)
			b.Log.Error("First line of batch: ", helper.Truncate(firstLine, logLineMaxChars))
			return errors.Wrapf(err, "failed to load data into %v", b.Table)
		}
		res.Rows += batchRows
		res.Batches++
		if final {
			b.Log.Info("Rows loaded: ", res.Rows, " (final batch)")
		} else {
			b.Log.Info("Rows loaded: ", res.Rows)
		}
		if b.OnBatch != nil {
			b.OnBatch(res.Rows)
		}
		batch.Reset()
		batchRows = 0
		return nil
	}
	rd := bufio.NewReader(r)
	lineNum := 0
	for {
		line, readErr := rd.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return res, errors.Wrap(readErr, "error reading extract")
		}
		if line == "" && readErr == io.EOF {
			break
		}
		lineNum++
		if !strings.HasSuffix(line, "\n") {
			line += "\n"
		}
		if n := strings.Count(line, "\t") + 1; n != fieldCount {
			b.Log.Warn("Line ", lineNum, " has ", n, " fields instead of ", fieldCount, ", skipping")
			b.Log.Warn("Content: ", helper.Truncate(strings.TrimRight(line, "\r\n"), logLineMaxChars))
			res.Skipped++
		} else {
			if batchRows == 0 {
				firstLine = line
			}
			batch.WriteString(line)
			batchRows++
			if batchRows >= batchSize {
				if err := send(false); err != nil {
					return res, err
				}
			}
		}
		if readErr == io.EOF {
			break
		}
	}
	if batchRows > 0 {
		if err := send(true); err != nil {
			return res, err
		}
	}
	b.Log.Info("Loaded ", res.Rows, " rows into ", b.Table, " in ", res.Batches, " batches (", res.Skipped, " skipped)")
	return res, nil
}
