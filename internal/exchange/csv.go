package exchange

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// utf8BOM is written by Excel and most Windows tools at the start of CSV
// files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readCSV parses data into records. A leading BOM is dropped and invalid
// UTF-8 is replaced, so a single bad byte does not reject the file. Ragged
// rows are allowed.
func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	data = sanitizeUTF8(data)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	return records, nil
}

// writeCSV writes the header followed by every record.
func writeCSV(w io.Writer, t *table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(t.records); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// sanitizeUTF8 replaces invalid UTF-8 sequences with U+FFFD.
func sanitizeUTF8(data []byte) []byte {
	return []byte(strings.ToValidUTF8(string(data), "\uFFFD"))
}
