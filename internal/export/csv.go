// Package export writes captured sample sequences to flat CSV and raw PCM
// files and reads them back for offline analysis. I/O failures are
// reported to the caller and never touch in-memory buffer state.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/uartscope/uartscope/pkg/sample"
)

// csvHeader is the two-column header written before the rows.
var csvHeader = []string{"timestamp", "value"}

// WriteCSV writes one row per sample: timestamp as seconds (shortest
// exact decimal, so a round-trip reproduces the float bit-for-bit) and
// the raw decoded integer value.
func WriteCSV(w io.Writer, samples []sample.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, s := range samples {
		row := []string{
			strconv.FormatFloat(s.Timestamp, 'f', -1, 64),
			strconv.FormatInt(s.Value, 10),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes samples to path, creating or truncating the file.
func WriteCSVFile(path string, samples []sample.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteCSV(f, samples); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadCSV parses a two-column timestamp,value file. A header row is
// skipped when present; files captured by other tools may omit it.
func ReadCSV(r io.Reader) ([]sample.Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var samples []sample.Sample
	for line := 1; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			return samples, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV: %w", err)
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("line %d: expected 2 columns, got %d", line, len(record))
		}

		ts, tsErr := strconv.ParseFloat(record[0], 64)
		if tsErr != nil {
			if line == 1 {
				continue // header row
			}
			return nil, fmt.Errorf("line %d: bad timestamp %q: %w", line, record[0], tsErr)
		}
		v, vErr := strconv.ParseInt(record[1], 10, 64)
		if vErr != nil {
			return nil, fmt.Errorf("line %d: bad value %q: %w", line, record[1], vErr)
		}
		samples = append(samples, sample.Sample{Timestamp: ts, Value: v})
	}
}

// ReadCSVFile reads a captured sample file from path.
func ReadCSVFile(path string) ([]sample.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}
