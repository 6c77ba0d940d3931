package store

import (
	"path/filepath"

	"github.com/johannesgottschalk/hadithAnalyzer/internal/scrape"
)

// Output file locations for one collection, all under a single output
// directory.

// AppendLogPath returns the collection-wide NDJSON stream location.
func AppendLogPath(dir, collection string) string {
	return filepath.Join(dir, collection+"_full.ndjson")
}

// DatasetPath returns the consolidated JSON dataset location.
func DatasetPath(dir, collection string) string {
	return filepath.Join(dir, collection+"_full.json")
}

// ColumnarPath returns the optional parquet dataset location.
func ColumnarPath(dir, collection string) string {
	return filepath.Join(dir, collection+"_full.parquet")
}

// ManifestPath returns the run manifest location.
func ManifestPath(dir string) string {
	return filepath.Join(dir, "manifest.json")
}

// DatasetFiles writes the consolidated outputs for one collection.
type DatasetFiles struct {
	JSONPath    string
	ParquetPath string
}

// WriteJSON rewrites the JSON dataset wholesale.
func (d DatasetFiles) WriteJSON(records []scrape.Record) error {
	return WriteDataset(d.JSONPath, records)
}

// WriteColumnar rewrites the parquet dataset wholesale.
func (d DatasetFiles) WriteColumnar(records []scrape.Record) error {
	return WriteParquet(d.ParquetPath, records)
}
