package vcf

import (
	"fmt"
	"strings"
)

// UnreadableFileError reports a VCF source that could not be opened or read:
// a missing path, a non-regular file, or a failed decompression.
type UnreadableFileError struct {
	Path string
	Err  error
}

func (e *UnreadableFileError) Error() string {
	return fmt.Sprintf("unreadable vcf %s: %v", e.Path, e.Err)
}

func (e *UnreadableFileError) Unwrap() error {
	return e.Err
}

// MissingHeaderError reports a stream that ended, or reached data lines,
// without a #CHROM column header.
type MissingHeaderError struct {
	Line int
}

func (e *MissingHeaderError) Error() string {
	return fmt.Sprintf("vcf header error at line %d: no #CHROM header line found", e.Line)
}

// MalformedHeaderError reports a #CHROM column header whose layout does not
// match the VCF column contract.
type MalformedHeaderError struct {
	Line    int
	Message string
}

func (e *MalformedHeaderError) Error() string {
	return fmt.Sprintf("vcf header error at line %d: %s", e.Line, e.Message)
}

// UnknownSampleError reports a requested sample identifier that the header
// does not declare.
type UnknownSampleError struct {
	Sample    string
	Available []string
}

func (e *UnknownSampleError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("sample %q not found in this vcf (no sample columns)", e.Sample)
	}
	return fmt.Sprintf("sample %q not found in this vcf (available: %s)",
		e.Sample, strings.Join(e.Available, ", "))
}

// MalformedRecordError reports a data line that could not be decoded.
// Record holds the offending line verbatim.
type MalformedRecordError struct {
	Line    int
	Message string
	Record  string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("vcf parse error at line %d: %s", e.Line, e.Message)
}
