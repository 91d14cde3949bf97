package actions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
	"github.com/relloyd/housepipe/analysis"
	"github.com/relloyd/housepipe/constants"
	"github.com/relloyd/housepipe/file"
	"github.com/relloyd/housepipe/helper"
	"github.com/relloyd/housepipe/houses"
	"github.com/relloyd/housepipe/logger"
	"github.com/relloyd/housepipe/stats"
)

// AnalyzeConfig controls step 3: load, clean, analyze and export.
type AnalyzeConfig struct {
	InputFile   string `json:"inputFile" errorTxt:"input file" mandatory:"yes"`
	Encoding    string `json:"encoding,omitempty"`
	ExtractFile string `json:"extractFile" errorTxt:"extract file" mandatory:"yes"`
	SummaryFile string `json:"summaryFile,omitempty"`
	Filter      string `json:"filter,omitempty"` // JSONLogic rule; only matching records are analyzed and exported
	TopN        int    `json:"topN,omitempty"`
	ShowRows    int    `json:"showRows,omitempty"`
}

// RunAnalyze reads cfg.InputFile, coerces each record, accumulates the summary statistics and writes
// every record to the extract file.
// A missing input file is an error.
func RunAnalyze(ctx context.Context, log logger.Logger, cfg *AnalyzeConfig, sw *stats.StepWatcher) (analysis.Summary, error) {
	var summary analysis.Summary
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return summary, err
	}
	topN := cfg.TopN
	if topN <= 0 {
		topN = constants.TopNDefault
	}
	showRows := cfg.ShowRows
	if showRows <= 0 {
		showRows = constants.ShowRowsDefault
	}
	var filter *houses.Filter
	if cfg.Filter != "" {
		var err error
		if filter, err = houses.NewFilter(cfg.Filter); err != nil {
			return summary, err
		}
	}
	// Open the input.
	in, err := os.Open(cfg.InputFile)
	if os.IsNotExist(err) {
		return summary, errors.Errorf("input file %v not found", cfg.InputFile)
	} else if err != nil {
		return summary, errors.Wrap(err, "unable to open input file")
	}
	defer in.Close()
	log.Info("Reading ", cfg.InputFile)
	reader, err := file.NewHouseCSVReader(in, cfg.Encoding)
	if err != nil {
		return summary, errors.Wrapf(err, "unable to read %v", cfg.InputFile)
	}
	log.Debug("Input columns: ", reader.Header())
	if err = checkColumns(log, reader.Header()); err != nil {
		return summary, errors.Wrapf(err, "unable to read %v", cfg.InputFile)
	}
	// Create the extract.
	out, err := file.NewTSVFileOutput(log, cfg.ExtractFile)
	if err != nil {
		return summary, err
	}
	defer out.Close()
	acc := analysis.NewAccumulator()
	filtered := 0
	for {
		if err = ctx.Err(); err != nil {
			return summary, err
		}
		raw, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return summary, errors.Wrapf(err, "error reading %v near line %v", cfg.InputFile, reader.Line())
		}
		h := houses.FromRaw(raw)
		if filter != nil {
			ok, err := filter.Match(h)
			if err != nil {
				return summary, errors.Wrapf(err, "error applying filter at line %v", reader.Line())
			}
			if !ok {
				filtered++
				continue
			}
		}
		acc.Add(h)
		if err = out.Write(h); err != nil {
			return summary, err
		}
		sw.AddRows(1)
	}
	if err = out.Close(); err != nil {
		return summary, err
	}
	if filter != nil {
		log.Info("Records excluded by filter: ", filtered)
	}
	summary = acc.Summary(topN)
	// Log the statistics.
	var b bytes.Buffer
	if err = summary.Render(&b, showRows); err != nil {
		return summary, err
	}
	log.Info("Summary:\n", b.String())
	logExtractDetails(log, out)
	if cfg.SummaryFile != "" {
		if err = writeSummaryFile(cfg.SummaryFile, summary); err != nil {
			return summary, err
		}
		log.Info("Summary written to ", cfg.SummaryFile)
	}
	return summary, nil
}

// checkColumns logs each missing column and returns an error if none are present.
func checkColumns(log logger.Logger, header []string) error {
	found := make(map[string]bool, len(header))
	for _, h := range header {
		found[h] = true
	}
	missing := 0
	for _, c := range houses.Columns {
		if !found[c] {
			log.Warn("Input column ", c, " not found, values will be null")
			missing++
		}
	}
	if missing == len(houses.Columns) {
		return fmt.Errorf("none of the expected columns were found in header %q; check the input encoding", header)
	}
	return nil
}

func logExtractDetails(log logger.Logger, out *file.TSVFileOutput) {
	log.Info("Exported ", out.Rows(), " rows to ", out.Name())
	if size, err := out.Size(); err != nil {
		log.Warn("Unable to stat extract: ", err)
	} else {
		log.Info("Extract size: ", helper.BytesToMegabytes(size), " MB")
	}
	lines, err := file.HeadLines(out.Name(), constants.DiagnosticLineCount, constants.DiagnosticLineMaxChars)
	if err != nil {
		log.Warn("Unable to read extract: ", err)
		return
	}
	for idx, l := range lines {
		log.Info("Extract line ", idx+1, ": ", l)
	}
}

func writeSummaryFile(name string, s analysis.Summary) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return errors.Wrap(ioutil.WriteFile(name, b, 0644), "unable to write summary file")
}
