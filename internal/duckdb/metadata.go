package duckdb

import (
	"fmt"
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Source describes one registered conversion.
type Source struct {
	Table       string
	Path        string
	Size        int64
	ModTime     time.Time
	Rows        int64
	ConvertedAt time.Time
}

// RecordSource registers where a table's data came from, replacing any
// earlier registration for the same table.
func (s *Store) RecordSource(table string, fp FileFingerprint, rows int) error {
	if _, err := s.db.Exec("DELETE FROM vcf_sources WHERE table_name = ?", table); err != nil {
		return fmt.Errorf("clear source: %w", err)
	}
	_, err := s.db.Exec(
		"INSERT INTO vcf_sources VALUES (?, ?, ?, ?, ?, ?)",
		table, fp.Path, fp.Size, fp.ModTime, int64(rows), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("record source: %w", err)
	}
	return nil
}

// Sources lists the registered conversions, ordered by table name.
func (s *Store) Sources() ([]Source, error) {
	rows, err := s.db.Query(`SELECT table_name, path, size, mod_time, row_count, converted_at
		FROM vcf_sources ORDER BY table_name`)
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		var src Source
		if err := rows.Scan(&src.Table, &src.Path, &src.Size, &src.ModTime,
			&src.Rows, &src.ConvertedAt); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		sources = append(sources, src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sources: %w", err)
	}
	return sources, nil
}
