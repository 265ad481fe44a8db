package record

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// Snapshot writes the current table to a JSONL file, one record per line.
// This is a single-writer local snapshot, not a durable multi-user store.
func (s *Store) Snapshot(path string) error {
	rows := s.All()
	if len(rows) == 0 {
		return nil
	}

	tmpPath := path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot file: %w", err)
	}

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)

	for _, r := range rows {
		if err := encoder.Encode(r); err != nil {
			file.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("failed to encode record: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush writer: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename snapshot file: %w", err)
	}

	log.Info().Str("path", path).Int("count", len(rows)).Msg("Record snapshot saved")
	return nil
}

// Restore replaces the table with the contents of a JSONL snapshot. A missing
// file is not an error; invalid lines are skipped with a warning.
func (s *Store) Restore(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No snapshot yet, not an error
		}
		return fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer file.Close()

	var rows RecordSet
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var r Record
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Skipping invalid JSON line in snapshot")
			continue
		}
		rows = append(rows, r)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading snapshot: %w", err)
	}

	log.Info().Str("path", path).Int("count", len(rows)).Msg("Record snapshot restored")
	s.Replace(rows)
	return nil
}
