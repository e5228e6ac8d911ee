// Package table reads and writes the CSV decision tables consumed and
// produced by the scorer.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/tensorplex-labs/topsis/internal/topsis"
)

// MinColumns is one identifier column plus the minimum criteria count.
const MinColumns = 1 + topsis.MinCriteria

// Columns names the two columns appended to a scored table.
type Columns struct {
	Score string
	Rank  string
}

// DefaultColumns matches the header the original command line tool wrote.
var DefaultColumns = Columns{Score: "Topsis Score", Rank: "Rank"}

// Table is a header plus records, first column being the alternative
// identifier and every further column a criterion.
type Table struct {
	Header  []string
	Records [][]string
}

// Read parses CSV from r. The first record is the header.
func Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("%w: %v", topsis.ErrMalformedInput, err)
		}
		return nil, fmt.Errorf("read csv: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty file", topsis.ErrMalformedInput)
	}

	header := records[0]
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	if len(header) < MinColumns {
		return nil, fmt.Errorf("%w: file must have %d or more columns, got %d", topsis.ErrMalformedInput, MinColumns, len(header))
	}
	if len(records) == 1 {
		return nil, fmt.Errorf("%w: no data rows", topsis.ErrMalformedInput)
	}

	return &Table{Header: header, Records: records[1:]}, nil
}

// ReadFile reads a CSV table from path.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("file not found: %s: %w", path, err)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return Read(f)
}

// IDs returns the identifier column.
func (t *Table) IDs() []string {
	ids := make([]string, len(t.Records))
	for i, rec := range t.Records {
		ids[i] = rec[0]
	}
	return ids
}

// CriteriaNames returns the header of every criterion column.
func (t *Table) CriteriaNames() []string {
	return append([]string(nil), t.Header[1:]...)
}

// NumCriteria is the number of criterion columns.
func (t *Table) NumCriteria() int {
	return len(t.Header) - 1
}

// Criteria parses every criterion cell into a rows x criteria matrix.
func (t *Table) Criteria() (*mat.Dense, error) {
	rows, cols := len(t.Records), t.NumCriteria()
	if rows == 0 || cols < topsis.MinCriteria {
		return nil, fmt.Errorf("%w: %d rows, %d criteria", topsis.ErrMalformedInput, rows, cols)
	}

	data := make([]float64, 0, rows*cols)
	for i, rec := range t.Records {
		if len(rec) != len(t.Header) {
			return nil, fmt.Errorf("%w: row %d has %d fields, want %d", topsis.ErrMalformedInput, i+1, len(rec), len(t.Header))
		}
		for j, cell := range rec[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: columns must be numeric, row %d column %q has %q",
					topsis.ErrNonNumericData, i+1, t.Header[j+1], cell)
			}
			data = append(data, v)
		}
	}

	return mat.NewDense(rows, cols, data), nil
}

// WithScores returns a copy of the table with a score and a rank column
// appended. Scores are formatted with precision decimals, or the shortest
// exact representation when precision is negative.
func (t *Table) WithScores(scores []float64, ranks []int, cols Columns, precision int) (*Table, error) {
	if len(scores) != len(t.Records) || len(ranks) != len(t.Records) {
		return nil, fmt.Errorf("%w: %d rows, %d scores, %d ranks",
			topsis.ErrDimensionMismatch, len(t.Records), len(scores), len(ranks))
	}
	if precision < 0 {
		precision = -1
	}

	header := make([]string, 0, len(t.Header)+2)
	header = append(header, t.Header...)
	header = append(header, cols.Score, cols.Rank)

	records := make([][]string, len(t.Records))
	for i, rec := range t.Records {
		out := make([]string, 0, len(rec)+2)
		out = append(out, rec...)
		out = append(out,
			strconv.FormatFloat(scores[i], 'f', precision, 64),
			strconv.Itoa(ranks[i]),
		)
		records[i] = out
	}

	return &Table{Header: header, Records: records}, nil
}

// Write encodes the table as CSV.
func (t *Table) Write(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := writer.WriteAll(t.Records); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	return nil
}

// WriteFile writes the table to path, replacing any existing file.
func (t *Table) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := t.Write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
