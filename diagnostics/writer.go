package diagnostics

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// Writer appends TickStat rows to an underlying CSV stream, writing the
// header on the first row and omitting it on every row after.
type Writer struct {
	out           io.Writer
	headerWritten bool
}

// NewWriter wraps out (typically an *os.File opened by the caller) as a
// TickStat CSV sink. NewWriter itself performs no I/O.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Write appends one tick's statistics as a CSV row.
func (w *Writer) Write(stat TickStat) error {
	rows := []TickStat{stat}
	var err error
	if !w.headerWritten {
		err = gocsv.Marshal(rows, w.out)
		w.headerWritten = true
	} else {
		err = gocsv.MarshalWithoutHeaders(rows, w.out)
	}
	if err != nil {
		return fmt.Errorf("writing tick stat row: %w", err)
	}
	return nil
}
