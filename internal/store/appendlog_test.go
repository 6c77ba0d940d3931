package store

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/johannesgottschalk/hadithAnalyzer/internal/scrape"
)

func TestAppendLogWritesOneLinePerRecord(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "muslim_full.ndjson")
	log, err := OpenAppendLog(path)
	require.NoError(t, err)

	require.NoError(t, log.Append(scrape.Record{ID: "muslim_1_1"}))
	require.NoError(t, log.Append(scrape.Record{ID: "muslim_1_2"}))
	require.NoError(t, log.Close())

	ids := readLogIDs(t, path)
	require.Equal(t, []string{"muslim_1_1", "muslim_1_2"}, ids)
}

func TestAppendLogAppendsAcrossOpens(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "muslim_full.ndjson")

	log, err := OpenAppendLog(path)
	require.NoError(t, err)
	require.NoError(t, log.Append(scrape.Record{ID: "muslim_1_1"}))
	require.NoError(t, log.Close())

	log, err = OpenAppendLog(path)
	require.NoError(t, err)
	require.NoError(t, log.Append(scrape.Record{ID: "muslim_2_1"}))
	require.NoError(t, log.Close())

	require.Equal(t, []string{"muslim_1_1", "muslim_2_1"}, readLogIDs(t, path))
}

func TestAppendLogConcurrentAppendsStayIntact(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "muslim_full.ndjson")
	log, err := OpenAppendLog(path)
	require.NoError(t, err)

	const writers, perWriter = 8, 25
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				_ = log.Append(scrape.Record{ID: "r", Volume: w})
			}
		}(w)
	}
	wg.Wait()
	require.NoError(t, log.Close())

	// Every line must decode on its own: no interleaved writes.
	ids := readLogIDs(t, path)
	require.Len(t, ids, writers*perWriter)
}

func readLogIDs(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec scrape.Record
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		ids = append(ids, rec.ID)
	}
	require.NoError(t, scanner.Err())
	return ids
}
