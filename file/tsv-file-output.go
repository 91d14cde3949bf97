package file

import (
	"bufio"
	"os"

	"github.com/pkg/errors"
	"github.com/relloyd/housepipe/constants"
	"github.com/relloyd/housepipe/helper"
	"github.com/relloyd/housepipe/houses"
	"github.com/relloyd/housepipe/logger"
)

// TSVFileOutput writes houses.House records to a tab separated extract file.
type TSVFileOutput struct {
	log           logger.Logger
	name          string
	file          *os.File
	fWriter       *bufio.Writer
	rows          int
	progressEvery int
	closed        bool
}

// NewTSVFileOutput creates the extract file at path, removing any existing file first.
func NewTSVFileOutput(log logger.Logger, path string) (*TSVFileOutput, error) {
	if _, err := os.Stat(path); err == nil { // if an old extract exists...
		if err = os.Remove(path); err != nil {
			return nil, errors.Wrapf(err, "unable to remove old extract %v", path)
		}
		log.Info("Removed old extract file ", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to create extract %v", path)
	}
	log.Debug("Created extract file ", path)
	return &TSVFileOutput{
		log:           log,
		name:          path,
		file:          f,
		fWriter:       bufio.NewWriter(f),
		progressEvery: constants.ExportProgressEveryRows,
	}, nil
}

// Write appends h as one line of 12 fields.
func (f *TSVFileOutput) Write(h houses.House) error {
	line := FormatHouse(h)
	if _, err := f.fWriter.WriteString(line); err != nil {
		return errors.Wrap(err, "error writing extract")
	}
	if err := f.fWriter.WriteByte('\n'); err != nil {
		return errors.Wrap(err, "error writing extract")
	}
	f.rows++
	if f.rows == 1 {
		f.log.Info("First line written (first ", constants.DiagnosticLineMaxChars, " characters): ", helper.Truncate(line, constants.DiagnosticLineMaxChars))
	}
	if f.progressEvery > 0 && f.rows%f.progressEvery == 0 {
		f.log.Info("Exported ", f.rows, " rows")
	}
	return nil
}

// Rows returns the number of lines written so far.
func (f *TSVFileOutput) Rows() int {
	return f.rows
}

// Name returns the path of the extract.
func (f *TSVFileOutput) Name() string {
	return f.name
}

// Close flushes buffered lines and closes the file.
// It is safe to call more than once.
func (f *TSVFileOutput) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if err := f.fWriter.Flush(); err != nil {
		_ = f.file.Close()
		return errors.Wrapf(err, "error flushing extract %v", f.name)
	}
	if err := f.file.Close(); err != nil {
		return errors.Wrapf(err, "error closing extract %v", f.name)
	}
	return nil
}

// Size returns the size of the extract in bytes.
// Call it after Close.
func (f *TSVFileOutput) Size() (int64, error) {
	fi, err := os.Stat(f.name)
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}
