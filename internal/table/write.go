package table

import (
	"bufio"
	"io"
	"strings"

	"github.com/go-gota/gota/dataframe"
)

// WriteCSV writes the frame as comma-separated values with a header row.
func WriteCSV(df dataframe.DataFrame, w io.Writer) error {
	return df.WriteCSV(w)
}

// WriteTSV writes the frame tab-delimited with a header row. Cells come
// from tab-split input and can never contain a tab, so no quoting is
// applied.
func WriteTSV(df dataframe.DataFrame, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, row := range df.Records() {
		if _, err := bw.WriteString(strings.Join(row, "\t")); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
