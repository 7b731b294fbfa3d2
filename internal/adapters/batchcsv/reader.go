// Package batchcsv reads labeled message batches from CSV files with "sms" and "label" columns.
package batchcsv

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/mikey/spam-ensemble/internal/core"
	"go.uber.org/zap"
)

const (
	textColumn  = "sms"
	labelColumn = "label"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// missingValues are the cell spellings read_csv treats as NA
var missingValues = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {}, "-NaN": {}, "-nan": {},
	"1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {},
	"n/a": {}, "nan": {}, "null": {},
}

// row keeps both columns as strings so missing values can be told apart from zero labels
type row struct {
	SMS   string `csv:"sms"`
	Label string `csv:"label"`
}

// Reader parses uploaded batches
type Reader struct {
	logger *zap.Logger
}

// NewReader creates a new Reader
func NewReader(logger *zap.Logger) *Reader {
	return &Reader{logger: logger}
}

// Read parses a CSV batch from r
func (rd *Reader) Read(r io.Reader) ([]core.LabeledSample, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch: %w", err)
	}
	return rd.Parse(data)
}

// ReadFile parses the CSV batch stored at path
func (rd *Reader) ReadFile(path string) ([]core.LabeledSample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return rd.Parse(data)
}

// Parse converts CSV content into samples. Rows missing either value, including short
// rows and NA spellings such as "NaN", are dropped; labels must be 0 or 1.
func (rd *Reader) Parse(data []byte) ([]core.LabeledSample, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	if err := checkHeader(data); err != nil {
		return nil, err
	}

	// short rows leave the trailing columns empty instead of failing the batch
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1

	var rows []*row
	if err := gocsv.UnmarshalCSV(cr, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidBatchFormat, err)
	}

	samples := make([]core.LabeledSample, 0, len(rows))
	dropped := 0
	for i, r := range rows {
		label := strings.TrimSpace(r.Label)
		if isMissing(r.SMS) || isMissing(label) {
			dropped++
			continue
		}
		l, err := parseLabel(label)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", core.ErrInvalidBatchFormat, i+2, err)
		}
		samples = append(samples, core.LabeledSample{Text: r.SMS, Label: l})
	}

	rd.logger.Debug("Batch parsed",
		zap.Int("rows", len(rows)),
		zap.Int("samples", len(samples)),
		zap.Int("dropped", dropped))

	return samples, nil
}

func checkHeader(data []byte) error {
	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: file is empty", core.ErrInvalidBatchFormat)
		}
		return fmt.Errorf("%w: %v", core.ErrInvalidBatchFormat, err)
	}

	var hasText, hasLabel bool
	for _, col := range header {
		switch col {
		case textColumn:
			hasText = true
		case labelColumn:
			hasLabel = true
		}
	}
	if !hasText || !hasLabel {
		return core.ErrMissingColumns
	}
	return nil
}

func isMissing(value string) bool {
	_, ok := missingValues[strings.TrimSpace(value)]
	return ok
}

// parseLabel accepts 0 and 1, including float spellings such as "1.0"
func parseLabel(s string) (int, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("label %q is not a number", s)
	}
	switch f {
	case 0:
		return 0, nil
	case 1:
		return 1, nil
	default:
		return 0, fmt.Errorf("label %q must be 0 or 1", s)
	}
}
