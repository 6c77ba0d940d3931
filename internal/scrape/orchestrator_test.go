package scrape

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	mu      sync.Mutex
	ran     []int
	records map[int][]Record
	errs    map[int]error
}

func (r *fakeRunner) Run(_ context.Context, volume int) ([]Record, error) {
	r.mu.Lock()
	r.ran = append(r.ran, volume)
	r.mu.Unlock()
	return r.records[volume], r.errs[volume]
}

type fakeCheckpoints struct {
	existing map[int][]Record
}

func (c *fakeCheckpoints) Exists(_ string, volume int) bool {
	_, ok := c.existing[volume]
	return ok
}

func (c *fakeCheckpoints) LoadRange(_ string, start, end int) ([]Record, error) {
	var out []Record
	for v := start; v <= end; v++ {
		out = append(out, c.existing[v]...)
	}
	return out, nil
}

type fakeLedger struct {
	inited string
	done   map[int]int
	errors map[int]string
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{done: make(map[int]int), errors: make(map[int]string)}
}

func (l *fakeLedger) Init(collection string) error { l.inited = collection; return nil }
func (l *fakeLedger) SetDone(volume, count int) error {
	l.done[volume] = count
	return nil
}
func (l *fakeLedger) SetError(volume, count int, msg string) error {
	l.errors[volume] = msg
	return nil
}

type fakeDataset struct {
	json        []Record
	columnar    []Record
	columnarErr error
}

func (d *fakeDataset) WriteJSON(records []Record) error { d.json = records; return nil }
func (d *fakeDataset) WriteColumnar(records []Record) error {
	if d.columnarErr != nil {
		return d.columnarErr
	}
	d.columnar = records
	return nil
}

func volumeRecords(volume, n int) []Record {
	out := make([]Record, n)
	for i := range out {
		out[i] = Record{
			ID:         fmt.Sprintf("muslim_%d_%d", volume, i+1),
			Collection: "Muslim",
			Volume:     volume,
		}
	}
	return out
}

func newTestOrchestrator(t *testing.T, cfg RunConfig, runner VolumeRunner, cp CheckpointReader, ledger ManifestLedger, ds DatasetWriter) *Orchestrator {
	t.Helper()
	o := NewOrchestrator(cfg, runner, cp, ledger, ds, testLogger())
	o.pauser = noPauseController{}
	return o
}

func TestOrchestratorSkipsCheckpointedVolumes(t *testing.T) {
	t.Parallel()
	runner := &fakeRunner{records: map[int][]Record{
		2: volumeRecords(2, 2),
	}}
	cp := &fakeCheckpoints{existing: map[int][]Record{
		1: volumeRecords(1, 3),
	}}
	ledger := newFakeLedger()
	dataset := &fakeDataset{}

	cfg := RunConfig{Collection: testCollection, Start: 1, End: 2, Concurrency: 2}
	err := newTestOrchestrator(t, cfg, runner, cp, ledger, dataset).Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, []int{2}, runner.ran, "checkpointed volume must not run again")
	require.Equal(t, "muslim", ledger.inited)
	require.Len(t, dataset.json, 5, "dataset covers preloaded and fresh volumes")
	require.Equal(t, "muslim_1_1", dataset.json[0].ID)
	require.Equal(t, "muslim_2_2", dataset.json[4].ID)
}

func TestOrchestratorRecordsManifestOutcomes(t *testing.T) {
	t.Parallel()
	runner := &fakeRunner{
		records: map[int][]Record{
			1: volumeRecords(1, 2),
			2: volumeRecords(2, 1), // partial progress before the failure
		},
		errs: map[int]error{
			2: fmt.Errorf("%w: tab crashed", ErrSessionFault),
		},
	}
	ledger := newFakeLedger()
	dataset := &fakeDataset{}

	cfg := RunConfig{Collection: testCollection, Start: 1, End: 2, Concurrency: 1}
	err := newTestOrchestrator(t, cfg, runner, &fakeCheckpoints{}, ledger, dataset).Run(context.Background())
	require.NoError(t, err, "a failed volume does not fail the run")

	require.Equal(t, map[int]int{1: 2}, ledger.done)
	require.Contains(t, ledger.errors[2], "tab crashed")
	require.Len(t, dataset.json, 3, "partial records of the failed volume are kept")
}

func TestOrchestratorDeduplicatesById(t *testing.T) {
	t.Parallel()
	dup := volumeRecords(1, 2)
	runner := &fakeRunner{records: map[int][]Record{
		1: append(append([]Record{}, dup...), dup[0]),
	}}
	dataset := &fakeDataset{}

	cfg := RunConfig{Collection: testCollection, Start: 1, End: 1, Concurrency: 1}
	err := newTestOrchestrator(t, cfg, runner, &fakeCheckpoints{}, newFakeLedger(), dataset).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, dup, dataset.json, "first occurrence wins, order preserved")
}

func TestOrchestratorColumnarFailureIsNotFatal(t *testing.T) {
	t.Parallel()
	runner := &fakeRunner{records: map[int][]Record{1: volumeRecords(1, 1)}}
	dataset := &fakeDataset{columnarErr: errors.New("codec unavailable")}

	cfg := RunConfig{Collection: testCollection, Start: 1, End: 1, Concurrency: 1, EmitColumnar: true}
	err := newTestOrchestrator(t, cfg, runner, &fakeCheckpoints{}, newFakeLedger(), dataset).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, dataset.json, 1, "JSON dataset still written")
}

func TestOrchestratorRunsAllVolumesConcurrently(t *testing.T) {
	t.Parallel()
	runner := &fakeRunner{records: map[int][]Record{
		1: volumeRecords(1, 1),
		2: volumeRecords(2, 1),
		3: volumeRecords(3, 1),
	}}
	dataset := &fakeDataset{}

	cfg := RunConfig{Collection: testCollection, Start: 1, End: 3, Concurrency: 3}
	err := newTestOrchestrator(t, cfg, runner, &fakeCheckpoints{}, newFakeLedger(), dataset).Run(context.Background())
	require.NoError(t, err)
	require.ElementsMatch(t, []int{1, 2, 3}, runner.ran)
	require.Len(t, dataset.json, 3)
}
