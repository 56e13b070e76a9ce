package vcf

import (
	"fmt"
	"io"
	"strings"
)

// fixedColumns are the eight mandatory VCF columns, in order.
var fixedColumns = []string{"CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO"}

const (
	// formatColumn separates the fixed columns from the sample columns.
	formatColumn = "FORMAT"
	// formatOffset is the field index of the FORMAT column.
	formatOffset = 8
	// sampleOffset is the field index of the first sample column.
	sampleOffset = 9
)

// Header holds the parsed VCF header: the raw ## meta lines, the validated
// fixed column names and the declared sample identifiers in file order.
type Header struct {
	Columns []string
	Samples []string
	Meta    []string
}

// ParseHeader consumes lines from r up to and including the #CHROM column
// header line.
func ParseHeader(r *LineReader) (*Header, error) {
	var meta []string
	for {
		line, err := r.ReadLine()
		if err != nil {
			if err == io.EOF {
				return nil, &MissingHeaderError{Line: r.LineNumber()}
			}
			return nil, err
		}

		switch {
		case strings.HasPrefix(line, "##"):
			meta = append(meta, line)
		case strings.HasPrefix(line, "#"):
			return parseColumnLine(line, r.LineNumber(), meta)
		case line == "":
			// skip blank lines
		default:
			// data began without a column header
			return nil, &MissingHeaderError{Line: r.LineNumber()}
		}
	}
}

func parseColumnLine(line string, lineNum int, meta []string) (*Header, error) {
	fields := strings.Split(strings.TrimPrefix(line, "#"), "\t")
	if len(fields) < len(fixedColumns) {
		return nil, &MalformedHeaderError{
			Line:    lineNum,
			Message: fmt.Sprintf("expected at least %d columns, found %d", len(fixedColumns), len(fields)),
		}
	}
	for i, want := range fixedColumns {
		if fields[i] != want {
			return nil, &MalformedHeaderError{
				Line:    lineNum,
				Message: fmt.Sprintf("column %d is %q, want %q", i+1, fields[i], want),
			}
		}
	}

	h := &Header{Columns: fields[:len(fixedColumns)], Meta: meta}
	if len(fields) == len(fixedColumns) {
		return h, nil
	}
	if fields[formatOffset] != formatColumn {
		return nil, &MalformedHeaderError{
			Line:    lineNum,
			Message: fmt.Sprintf("column 9 is %q, want %q", fields[formatOffset], formatColumn),
		}
	}
	if len(fields) == sampleOffset {
		return nil, &MalformedHeaderError{
			Line:    lineNum,
			Message: "FORMAT column declared but no sample columns follow",
		}
	}
	h.Samples = fields[sampleOffset:]
	return h, nil
}

// SampleSelection maps requested sample identifiers to their field
// positions. It is resolved once against the header and reused for every
// record.
type SampleSelection struct {
	ids     []string
	columns []int
}

// Select resolves the given sample identifiers, preserving request order.
// Duplicates collapse to their first occurrence.
func (h *Header) Select(ids ...string) (*SampleSelection, error) {
	index := make(map[string]int, len(h.Samples))
	for i, s := range h.Samples {
		index[s] = i
	}

	sel := &SampleSelection{}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		i, ok := index[id]
		if !ok {
			return nil, &UnknownSampleError{Sample: id, Available: h.Samples}
		}
		sel.ids = append(sel.ids, id)
		sel.columns = append(sel.columns, sampleOffset+i)
	}
	return sel, nil
}

// SelectAll selects every declared sample in header order.
func (h *Header) SelectAll() *SampleSelection {
	sel := &SampleSelection{
		ids:     append([]string(nil), h.Samples...),
		columns: make([]int, len(h.Samples)),
	}
	for i := range sel.columns {
		sel.columns[i] = sampleOffset + i
	}
	return sel
}

// Samples returns the selected identifiers in selection order.
func (s *SampleSelection) Samples() []string {
	if s == nil {
		return nil
	}
	return s.ids
}

// Len returns the number of selected samples.
func (s *SampleSelection) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}
