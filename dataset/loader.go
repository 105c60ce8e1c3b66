package dataset

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/eslgo/pkg/errors"
	"github.com/YuminosukeSato/eslgo/pkg/log"
)

// Table is a raw delimited table with named columns. Cells stay as text
// until a column is requested, so non-numeric columns (bone "gender") do not
// prevent loading.
type Table struct {
	Header []string
	Rows   [][]string
	// headerRows is 1 when the source had a header line; used for row numbers in errors.
	headerRows int
}

// ReadTable parses a comma- or whitespace-delimited table. The delimiter is
// detected from the first non-empty line. A first line with no numeric cell
// is treated as a header; otherwise columns are named V1..Vn. When the header
// is one field shorter than the rows (R row names), a "row.names" column is
// prepended. Every row must have the header's width.
func ReadTable(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	first, err := br.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, errors.Wrap(err, "dataset.ReadTable")
	}
	firstLine, _, _ := strings.Cut(string(first), "\n")

	var records [][]string
	if strings.Contains(firstLine, ",") {
		cr := csv.NewReader(br)
		cr.TrimLeadingSpace = true
		cr.FieldsPerRecord = -1
		records, err = cr.ReadAll()
		if err != nil {
			return nil, errors.Wrap(err, "dataset.ReadTable")
		}
	} else {
		sc := bufio.NewScanner(br)
		for sc.Scan() {
			fields := strings.Fields(sc.Text())
			if len(fields) == 0 {
				continue
			}
			for i, f := range fields {
				fields[i] = strings.Trim(f, `"`)
			}
			records = append(records, fields)
		}
		if err := sc.Err(); err != nil {
			return nil, errors.Wrap(err, "dataset.ReadTable")
		}
	}
	if len(records) == 0 {
		return nil, errors.NewInsufficientDataError("dataset.ReadTable", "table", 1, 0)
	}

	t := &Table{}
	if isHeader(records[0]) {
		t.Header = records[0]
		t.headerRows = 1
		records = records[1:]
		if len(records) > 0 && len(t.Header) == len(records[0])-1 {
			t.Header = append([]string{"row.names"}, t.Header...)
		}
	} else {
		t.Header = make([]string, len(records[0]))
		for i := range t.Header {
			t.Header[i] = "V" + strconv.Itoa(i+1)
		}
	}
	if len(records) == 0 {
		return nil, errors.NewInsufficientDataError("dataset.ReadTable", "table", 1, 0)
	}
	for i, rec := range records {
		if len(rec) != len(t.Header) {
			return nil, errors.NewParseError(i+1+t.headerRows, "*", strings.Join(rec, " "),
				errors.Newf("expected %d fields, got %d", len(t.Header), len(rec)))
		}
	}
	t.Rows = records
	return t, nil
}

func isHeader(fields []string) bool {
	for _, f := range fields {
		if _, err := strconv.ParseFloat(f, 64); err == nil {
			return false
		}
	}
	return true
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Has reports whether the table has the named column.
func (t *Table) Has(name string) bool { return slices.Contains(t.Header, name) }

func (t *Table) index(name string) (int, error) {
	i := slices.Index(t.Header, name)
	if i < 0 {
		return 0, errors.NewValidationError("column", "no such column", name)
	}
	return i, nil
}

// Strings returns a column as text.
func (t *Table) Strings(name string) ([]string, error) {
	j, err := t.index(name)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[j]
	}
	return out, nil
}

// Column parses a column as float64. A single unparsable cell fails the call.
func (t *Table) Column(name string) ([]float64, error) {
	j, err := t.index(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		v, err := strconv.ParseFloat(row[j], 64)
		if err != nil {
			return nil, errors.NewParseError(i+1+t.headerRows, name, row[j], err)
		}
		out[i] = v
	}
	return out, nil
}

// Filter returns the rows whose column equals value.
func (t *Table) Filter(name, value string) (*Table, error) {
	j, err := t.index(name)
	if err != nil {
		return nil, err
	}
	out := &Table{Header: t.Header, headerRows: t.headerRows}
	for _, row := range t.Rows {
		if row[j] == value {
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}

// Regression extracts a single-predictor regression table.
func (t *Table) Regression(predictor, response string) (*Regression, error) {
	x, err := t.Column(predictor)
	if err != nil {
		return nil, err
	}
	y, err := t.Column(response)
	if err != nil {
		return nil, err
	}
	return NewRegression(x, y)
}

// Classification extracts a labeled feature table. Labels must be integers.
func (t *Table) Classification(label string, features []string) (*Classification, error) {
	raw, err := t.Column(label)
	if err != nil {
		return nil, err
	}
	labels := make([]int, len(raw))
	for i, v := range raw {
		if v != float64(int(v)) {
			return nil, errors.NewParseError(i+1+t.headerRows, label, strconv.FormatFloat(v, 'g', -1, 64),
				errors.New("class label is not an integer"))
		}
		labels[i] = int(v)
	}

	x := make([][]float64, t.Len())
	for i := range x {
		x[i] = make([]float64, len(features))
	}
	for j, name := range features {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		for i, v := range col {
			x[i][j] = v
		}
	}
	return NewClassification(labels, x)
}

// LoadVowel reads the vowel table. With a header the label column is "y"
// and the features are the "x.*" columns; without one, column 0 is the label
// and the remaining columns are features.
func LoadVowel(r io.Reader) (*Classification, error) {
	t, err := ReadTable(r)
	if err != nil {
		return nil, err
	}

	label := t.Header[0]
	if t.Has("y") {
		label = "y"
	}
	var features []string
	for _, name := range t.Header {
		if strings.HasPrefix(name, "x") {
			features = append(features, name)
		}
	}
	if len(features) == 0 {
		for _, name := range t.Header {
			if name != label && name != "row.names" {
				features = append(features, name)
			}
		}
	}

	ds, err := t.Classification(label, features)
	if err != nil {
		return nil, err
	}
	log.GetLoggerWithName("dataset").Debug("Loaded classification table",
		log.OperationKey, log.OperationLoad,
		log.SamplesKey, ds.Len(),
		log.FeaturesKey, ds.Dim(),
		log.ClassesKey, ds.NumClasses(),
	)
	return ds, nil
}

// LoadTableFile opens and parses path with ReadTable.
func LoadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()
	return ReadTable(f)
}

// LoadVowelFile opens and parses path with LoadVowel.
func LoadVowelFile(path string) (*Classification, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()
	return LoadVowel(f)
}
