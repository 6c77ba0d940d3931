package store

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/johannesgottschalk/hadithAnalyzer/internal/scrape"
)

// WriteParquet emits the dataset as a columnar file with the same row shape
// as the JSON dataset. Callers treat failures as non-fatal.
func WriteParquet(path string, records []scrape.Record) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create parquet file %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close parquet file %s: %w", path, cerr)
		}
	}()

	w := parquet.NewGenericWriter[scrape.Record](f)
	if _, werr := w.Write(records); werr != nil {
		return fmt.Errorf("write parquet rows: %w", werr)
	}
	if werr := w.Close(); werr != nil {
		return fmt.Errorf("finalize parquet file: %w", werr)
	}
	return nil
}
