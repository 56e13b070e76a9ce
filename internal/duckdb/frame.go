package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	goduckdb "github.com/marcboeker/go-duckdb"
)

// WriteFrame materializes a dataframe as a DuckDB table using the Appender
// API. An existing table with the same name is replaced.
func (s *Store) WriteFrame(table string, df dataframe.DataFrame) error {
	if _, err := s.db.Exec(createTableSQL(table, df)); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}

	records := df.Records()[1:]
	if len(records) == 0 {
		return nil
	}
	types := df.Types()

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	row := make([]driver.Value, len(types))
	for _, record := range records {
		for i, cell := range record {
			row[i] = cellValue(cell, types[i])
		}
		if err := appender.AppendRow(row...); err != nil {
			return fmt.Errorf("append row: %w", err)
		}
	}

	return appender.Flush()
}

// createTableSQL builds a CREATE OR REPLACE statement matching the frame's
// columns and types.
func createTableSQL(table string, df dataframe.DataFrame) string {
	names := df.Names()
	types := df.Types()

	cols := make([]string, len(names))
	for i, name := range names {
		cols[i] = quoteIdent(name) + " " + sqlType(types[i])
	}
	return fmt.Sprintf("CREATE OR REPLACE TABLE %s (%s)",
		quoteIdent(table), strings.Join(cols, ", "))
}

func sqlType(t series.Type) string {
	switch t {
	case series.Int:
		return "BIGINT"
	case series.Float:
		return "DOUBLE"
	case series.Bool:
		return "BOOLEAN"
	default:
		return "VARCHAR"
	}
}

// cellValue converts a Records() cell back to a typed value for the
// appender. Cells that don't parse as their column type become NULL.
func cellValue(cell string, t series.Type) driver.Value {
	switch t {
	case series.Int:
		v, err := strconv.ParseInt(cell, 10, 64)
		if err != nil {
			return nil
		}
		return v
	case series.Float:
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil
		}
		return v
	case series.Bool:
		v, err := strconv.ParseBool(cell)
		if err != nil {
			return nil
		}
		return v
	default:
		return cell
	}
}

// quoteIdent quotes an identifier so sample names survive as column names.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
