package scrape

import (
	"context"

	"go.uber.org/zap"
)

// CheckpointWriter persists one volume's collected records; its existence on
// disk marks the volume done for resume purposes.
type CheckpointWriter interface {
	Write(collection string, volume int, records []Record) error
}

// LogAppender streams records to the collection-wide append log.
type LogAppender interface {
	Append(v any) error
}

// VolumeWorker extracts every record of a single volume. It owns exactly one
// session per run and never shares it.
type VolumeWorker struct {
	collection  Collection
	sessions    SessionFactory
	walker      *Walker
	retry       RetryPolicy
	checkpoints CheckpointWriter
	log         LogAppender
	logger      *zap.Logger
}

// NewVolumeWorker wires a worker for one collection.
func NewVolumeWorker(
	collection Collection,
	sessions SessionFactory,
	walker *Walker,
	retry RetryPolicy,
	checkpoints CheckpointWriter,
	log LogAppender,
	logger *zap.Logger,
) *VolumeWorker {
	return &VolumeWorker{
		collection:  collection,
		sessions:    sessions,
		walker:      walker,
		retry:       retry,
		checkpoints: checkpoints,
		log:         log,
		logger:      logger,
	}
}

// Run walks the volume and returns whatever records it collected, plus the
// walk error if the retry budget was exhausted. The checkpoint is written
// unconditionally: a volume that failed after partial progress is considered
// done and will not be retried on the next run.
func (w *VolumeWorker) Run(ctx context.Context, volume int) ([]Record, error) {
	records := []Record{}
	walkErr := w.walk(ctx, volume, &records)

	if err := w.checkpoints.Write(w.collection.Key, volume, records); err != nil {
		w.logger.Error("checkpoint write failed",
			zap.Int("volume", volume), zap.Error(err))
		if walkErr == nil {
			walkErr = err
		}
	}
	return records, walkErr
}

func (w *VolumeWorker) walk(ctx context.Context, volume int, out *[]Record) error {
	sess, err := w.sessions.NewSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	startURL := w.collection.VolumeURL(volume)
	return w.retry.Do(ctx, func() error {
		// A fresh attempt restarts the walk; discard the previous attempt's
		// partial results so the checkpoint never holds duplicates.
		*out = (*out)[:0]
		sequence := 0
		return w.walker.Walk(ctx, sess, startURL, func(pageURL string, b Block) error {
			sequence++
			rec, perr := ParseBlock(ctx, b, w.collection, volume, sequence, pageURL)
			if perr != nil {
				ObserveBlockParseError()
				w.logger.Warn("block parse failed, skipping",
					zap.Int("volume", volume),
					zap.Int("sequence", sequence),
					zap.String("url", pageURL),
					zap.Error(perr),
				)
				return nil
			}
			ObserveBlock()
			*out = append(*out, rec)
			if aerr := w.log.Append(rec); aerr != nil {
				w.logger.Warn("append log write failed",
					zap.String("id", rec.ID), zap.Error(aerr))
			}
			return nil
		})
	})
}
