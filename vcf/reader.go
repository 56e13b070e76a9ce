// Package vcf reads Variant Call Format files: transparent decompression,
// header interpretation and per-record decoding.
package vcf

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// Missing is the VCF missing-value token.
const Missing = "."

// gzip streams start with these two magic bytes.
const (
	gzipMagic1 = 0x1f
	gzipMagic2 = 0x8b
)

// LineReader yields the text lines of a VCF source, decompressing gzip
// content transparently. Compression is detected from the leading bytes of
// the stream, never from the file name.
type LineReader struct {
	file *os.File
	gz   *gzip.Reader
	br   *bufio.Reader
	line int
}

// Open opens a VCF file for line-by-line reading.
// Supports both plain and gzipped files.
func Open(path string) (*LineReader, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &UnreadableFileError{Path: path, Err: err}
	}
	if !info.Mode().IsRegular() {
		return nil, &UnreadableFileError{Path: path, Err: fmt.Errorf("not a regular file")}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, &UnreadableFileError{Path: path, Err: err}
	}

	r, err := NewLineReader(file)
	if err != nil {
		file.Close()
		return nil, &UnreadableFileError{Path: path, Err: err}
	}
	r.file = file
	return r, nil
}

// NewLineReader wraps an arbitrary reader (e.g. stdin). The gzip check
// peeks at buffered bytes, so the reader does not need to support seeking.
func NewLineReader(r io.Reader) (*LineReader, error) {
	br := bufio.NewReader(r)

	magic, err := br.Peek(2)
	if err == nil && magic[0] == gzipMagic1 && magic[1] == gzipMagic2 {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		return &LineReader{gz: gz, br: bufio.NewReader(gz)}, nil
	}

	return &LineReader{br: br}, nil
}

// ReadLine returns the next line with trailing line-end characters removed.
// It returns io.EOF after the last line. A final line without a trailing
// newline is still returned.
func (r *LineReader) ReadLine() (string, error) {
	line, err := r.br.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read line: %w", err)
	}
	if line == "" && err == io.EOF {
		return "", io.EOF
	}
	r.line++
	return strings.TrimRight(line, "\r\n"), nil
}

// LineNumber returns the number of physical lines read so far.
func (r *LineReader) LineNumber() int {
	return r.line
}

// Close closes the gzip reader, if any, and the underlying file.
func (r *LineReader) Close() error {
	if r.gz != nil {
		r.gz.Close()
	}
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}
