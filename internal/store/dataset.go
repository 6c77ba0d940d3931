package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/johannesgottschalk/hadithAnalyzer/internal/scrape"
)

// WriteDataset rewrites the consolidated dataset as one JSON array.
func WriteDataset(path string, records []scrape.Record) error {
	if records == nil {
		records = []scrape.Record{}
	}
	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return fmt.Errorf("write dataset %s: %w", path, err)
	}
	return nil
}
