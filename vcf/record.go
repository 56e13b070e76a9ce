package vcf

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/guregu/null.v3"
)

// Record is a single decoded VCF data line. ID, Qual and Filter hold invalid
// nulls where the file carries the missing token. FormatKeys and
// SampleValues are populated only when the decoder carries a selection;
// SampleValues[s] is aligned index-for-index with FormatKeys.
type Record struct {
	Chrom  string
	Pos    int64
	ID     null.String
	Ref    string
	Alt    []string
	Qual   null.Float
	Filter null.String

	Info *Info

	FormatKeys   []string
	SampleValues map[string][]string
}

// Decoder turns VCF data lines into Records. A Decoder is safe for
// concurrent use: it only reads the selection it was built with.
type Decoder struct {
	sel *SampleSelection
}

// NewDecoder creates a decoder. A nil or empty selection decodes the fixed
// columns only.
func NewDecoder(sel *SampleSelection) *Decoder {
	return &Decoder{sel: sel}
}

// Decode parses a single data line. lineNum is the physical line number used
// in error reports.
func (d *Decoder) Decode(line string, lineNum int) (*Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < len(fixedColumns) {
		return nil, &MalformedRecordError{
			Line:    lineNum,
			Message: fmt.Sprintf("expected at least %d columns, found %d", len(fixedColumns), len(fields)),
			Record:  line,
		}
	}

	pos, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return nil, &MalformedRecordError{
			Line:    lineNum,
			Message: fmt.Sprintf("invalid position: %s", fields[1]),
			Record:  line,
		}
	}

	rec := &Record{
		Chrom:  fields[0],
		Pos:    pos,
		ID:     missingString(fields[2]),
		Ref:    fields[3],
		Filter: missingString(fields[6]),
		Info:   ParseInfo(fields[7]),
	}

	if fields[4] != Missing {
		rec.Alt = strings.Split(fields[4], ",")
	}

	if fields[5] != Missing {
		qual, err := strconv.ParseFloat(fields[5], 64)
		if err != nil {
			return nil, &MalformedRecordError{
				Line:    lineNum,
				Message: fmt.Sprintf("invalid quality: %s", fields[5]),
				Record:  line,
			}
		}
		rec.Qual = null.FloatFrom(qual)
	}

	if d.sel.Len() > 0 {
		if err := d.decodeSamples(rec, fields, line, lineNum); err != nil {
			return nil, err
		}
	}

	return rec, nil
}

func (d *Decoder) decodeSamples(rec *Record, fields []string, line string, lineNum int) error {
	if len(fields) <= formatOffset {
		return &MalformedRecordError{
			Line:    lineNum,
			Message: "samples selected but record has no FORMAT column",
			Record:  line,
		}
	}

	rec.FormatKeys = strings.Split(fields[formatOffset], ":")
	rec.SampleValues = make(map[string][]string, d.sel.Len())

	for i, id := range d.sel.ids {
		col := d.sel.columns[i]
		if col >= len(fields) {
			return &MalformedRecordError{
				Line:    lineNum,
				Message: fmt.Sprintf("no column for sample %s", id),
				Record:  line,
			}
		}
		values := splitSampleValues(fields[col], len(rec.FormatKeys))
		if len(values) != len(rec.FormatKeys) {
			return &MalformedRecordError{
				Line:    lineNum,
				Message: fmt.Sprintf("sample %s has %d values for %d FORMAT keys", id, len(values), len(rec.FormatKeys)),
				Record:  line,
			}
		}
		rec.SampleValues[id] = values
	}
	return nil
}

// splitSampleValues splits a sample column on ':'. A bare missing token
// stands in for the whole sample and expands to one missing value per key.
func splitSampleValues(text string, keys int) []string {
	if text == Missing {
		values := make([]string, keys)
		for i := range values {
			values[i] = Missing
		}
		return values
	}
	return strings.Split(text, ":")
}

func missingString(s string) null.String {
	if s == Missing {
		return null.String{}
	}
	return null.StringFrom(s)
}

// NormalizeChrom strips the "chr" prefix and maps the numeric sex chromosome
// aliases 23 and 24 to X and Y.
func NormalizeChrom(chrom string) string {
	c := strings.TrimPrefix(chrom, "chr")
	switch c {
	case "23":
		return "X"
	case "24":
		return "Y"
	}
	return c
}
