package scrape

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// volumeDelayBase is the politeness delay applied after a volume finishes,
// before its worker slot accepts new work.
const volumeDelayBase = time.Second

// VolumeRunner abstracts the per-volume worker for the orchestrator.
type VolumeRunner interface {
	Run(ctx context.Context, volume int) ([]Record, error)
}

// CheckpointReader answers resume questions and preloads prior results.
type CheckpointReader interface {
	Exists(collection string, volume int) bool
	LoadRange(collection string, start, end int) ([]Record, error)
}

// ManifestLedger records per-volume terminal status. Implementations persist
// on every update; all calls come from the orchestrator's single consumer
// loop, so no locking is required.
type ManifestLedger interface {
	Init(collection string) error
	SetDone(volume, count int) error
	SetError(volume, count int, msg string) error
}

// DatasetWriter emits the consolidated dataset.
type DatasetWriter interface {
	WriteJSON(records []Record) error
	WriteColumnar(records []Record) error
}

// RunConfig describes one orchestrated extraction run.
type RunConfig struct {
	Collection   Collection
	Start        int
	End          int
	Concurrency  int
	EmitColumnar bool
}

// Orchestrator fans volumes out to a bounded worker pool and owns all shared
// mutable state (manifest, accumulator) in a single consumer loop.
type Orchestrator struct {
	cfg         RunConfig
	runner      VolumeRunner
	checkpoints CheckpointReader
	ledger      ManifestLedger
	dataset     DatasetWriter
	pauser      pauseController
	logger      *zap.Logger
}

// NewOrchestrator builds an orchestrator; each run is tagged with a fresh
// run id on its log fields.
func NewOrchestrator(
	cfg RunConfig,
	runner VolumeRunner,
	checkpoints CheckpointReader,
	ledger ManifestLedger,
	dataset DatasetWriter,
	logger *zap.Logger,
) *Orchestrator {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Orchestrator{
		cfg:         cfg,
		runner:      runner,
		checkpoints: checkpoints,
		ledger:      ledger,
		dataset:     dataset,
		pauser:      &timerPauseController{},
		logger:      logger.With(zap.String("run_id", uuid.NewString())),
	}
}

type volumeResult struct {
	volume  int
	records []Record
	err     error
}

// Run processes the configured volume range and writes the consolidated
// dataset. Volumes with an existing checkpoint are skipped; their records
// are preloaded from disk so the final dataset still covers them.
func (o *Orchestrator) Run(ctx context.Context) error {
	key := o.cfg.Collection.Key
	if err := o.ledger.Init(key); err != nil {
		return err
	}

	var todo []int
	for v := o.cfg.Start; v <= o.cfg.End; v++ {
		if o.checkpoints.Exists(key, v) {
			o.logger.Info("resume: skipping volume with existing checkpoint",
				zap.Int("volume", v))
			continue
		}
		todo = append(todo, v)
	}

	accumulator, err := o.checkpoints.LoadRange(key, o.cfg.Start, o.cfg.End)
	if err != nil {
		return err
	}

	done, failed := 0, 0
	if len(todo) > 0 {
		for res := range o.dispatch(ctx, todo) {
			accumulator = append(accumulator, res.records...)
			if res.err != nil {
				failed++
				ObserveVolume("error")
				o.logger.Error("volume failed",
					zap.Int("volume", res.volume),
					zap.Int("records", len(res.records)),
					zap.Error(res.err),
				)
				if lerr := o.ledger.SetError(res.volume, len(res.records), res.err.Error()); lerr != nil {
					o.logger.Error("manifest update failed", zap.Int("volume", res.volume), zap.Error(lerr))
				}
				continue
			}
			done++
			ObserveVolume("done")
			o.logger.Info("volume done",
				zap.Int("volume", res.volume),
				zap.Int("records", len(res.records)),
				zap.Int("total", len(accumulator)),
			)
			if lerr := o.ledger.SetDone(res.volume, len(res.records)); lerr != nil {
				o.logger.Error("manifest update failed", zap.Int("volume", res.volume), zap.Error(lerr))
			}
		}
	}

	accumulator = DedupByID(accumulator)
	if err := o.dataset.WriteJSON(accumulator); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	if o.cfg.EmitColumnar {
		if err := o.dataset.WriteColumnar(accumulator); err != nil {
			o.logger.Warn("columnar export failed, skipping", zap.Error(err))
		}
	}

	o.logger.Info("run complete",
		zap.String("collection", key),
		zap.Int("volumes_done", done),
		zap.Int("volumes_failed", failed),
		zap.Int("volumes_skipped", o.cfg.End-o.cfg.Start+1-len(todo)),
		zap.Int("records", len(accumulator)),
	)
	return nil
}

// dispatch runs volumes on a bounded pool and returns the completion channel
// consumed by Run. Workers never touch the manifest or accumulator.
func (o *Orchestrator) dispatch(ctx context.Context, todo []int) <-chan volumeResult {
	jobs := make(chan int)
	results := make(chan volumeResult)

	var wg sync.WaitGroup
	for i := 0; i < o.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for v := range jobs {
				records, err := o.runner.Run(ctx, v)
				results <- volumeResult{volume: v, records: records, err: err}
				o.pauser.Pause(ctx, volumeDelayBase)
			}
		}()
	}

	go func() {
		for _, v := range todo {
			jobs <- v
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	return results
}
