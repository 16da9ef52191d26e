package views

import (
	"encoding/csv"
	"fmt"
	"os"

	"emg-logger/utils"
)

// CSVWriter appends rows to one stream file.
//
// Every row is flushed to the OS as soon as it is written, so a crash loses
// at most the row in flight. A writer whose file could not be created is
// degraded: it drops rows instead of failing, and the caller keeps logging
// the other streams.
type CSVWriter struct {
	path       string
	file       *os.File
	csv        *csv.Writer
	header     []string
	headerDone bool
	rows       uint64
	dropped    uint64
	err        error
}

// NewCSVWriter creates (or truncates) path. The header row is written
// immediately unless lazyHeader is set, in which case it is written just
// before the first row. It never returns nil; check Err for open failures.
func NewCSVWriter(path string, header []string, lazyHeader bool) *CSVWriter {
	w := &CSVWriter{path: path, header: header}

	f, err := os.Create(path)
	if err != nil {
		w.err = fmt.Errorf("csv create %s: %w", path, err)
		utils.L().Warn("%v; rows for this stream will be dropped", w.err)
		return w
	}
	w.file = f
	w.csv = csv.NewWriter(f)

	if !lazyHeader {
		w.writeHeader()
	}
	return w
}

func (w *CSVWriter) writeHeader() {
	w.headerDone = true
	if len(w.header) == 0 {
		return
	}
	w.write(w.header)
}

func (w *CSVWriter) write(row []string) bool {
	if err := w.csv.Write(row); err != nil {
		w.fail(err)
		return false
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		w.fail(err)
		return false
	}
	return true
}

func (w *CSVWriter) fail(err error) {
	if w.err == nil {
		w.err = fmt.Errorf("csv write %s: %w", w.path, err)
		utils.L().Warn("%v", w.err)
	}
}

// WriteRow appends a single row and flushes it.
func (w *CSVWriter) WriteRow(row []string) {
	if w.file == nil {
		w.dropped++
		return
	}
	if !w.headerDone {
		w.writeHeader()
	}
	if w.write(row) {
		w.rows++
	} else {
		w.dropped++
	}
}

// Close flushes remaining data and closes the file. Safe to call more than
// once and on degraded writers.
func (w *CSVWriter) Close() error {
	if w.file == nil {
		return nil
	}
	w.csv.Flush()
	err := w.file.Close()
	w.file = nil
	return err
}

// Path returns the file this writer appends to.
func (w *CSVWriter) Path() string { return w.path }

// Rows returns the number of data rows written (excludes header).
func (w *CSVWriter) Rows() uint64 { return w.rows }

// Dropped returns the number of rows discarded because the file is unusable.
func (w *CSVWriter) Dropped() uint64 { return w.dropped }

// Err returns the first open or write error, if any.
func (w *CSVWriter) Err() error { return w.err }
