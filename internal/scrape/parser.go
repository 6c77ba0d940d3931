package scrape

import (
	"context"
	"fmt"
	"strings"

	"github.com/johannesgottschalk/hadithAnalyzer/internal/arabic"
	"github.com/johannesgottschalk/hadithAnalyzer/internal/isnad"
)

// ParseBlock extracts one Record from a content block. Missing sub-regions
// yield empty fields; only page-access faults (stale handles, dead sessions)
// make the parse fail.
func ParseBlock(ctx context.Context, b Block, col Collection, volume, sequence int, pageURL string) (Record, error) {
	primary, err := b.Text(ctx, primarySelector)
	if err != nil {
		return Record{}, fmt.Errorf("read primary text: %w", err)
	}
	translated, err := b.Text(ctx, translationSelector)
	if err != nil {
		return Record{}, fmt.Errorf("read translation: %w", err)
	}
	reference, err := b.Text(ctx, referenceSelector)
	if err != nil {
		return Record{}, fmt.Errorf("read reference: %w", err)
	}
	grade, err := b.Text(ctx, gradeSelector)
	if err != nil {
		return Record{}, fmt.Errorf("read grade: %w", err)
	}

	normalized := arabic.Normalize(primary)
	chain := isnad.IsolateChain(normalized)
	names := isnad.ExtractTransmitters(chain)

	transmitters := make([]Transmitter, len(names))
	for i, n := range names {
		transmitters[i] = Transmitter{Order: i + 1, Name: n}
	}
	edges := make([]Edge, 0, max(0, len(names)-1))
	for i := 0; i+1 < len(names); i++ {
		edges = append(edges, Edge{From: names[i], To: names[i+1]})
	}

	return Record{
		ID:                    fmt.Sprintf("%s_%d_%d", col.Key, volume, sequence),
		Collection:            col.DisplayName(),
		Volume:                volume,
		SourceURL:             pageURL,
		PrimaryText:           strings.TrimSpace(primary),
		PrimaryTextNormalized: normalized,
		TranslatedText:        strings.TrimSpace(translated),
		Reference:             strings.TrimSpace(reference),
		Grade:                 strings.TrimSpace(grade),
		ChainText:             chain,
		Transmitters:          transmitters,
		TransmitterEdges:      edges,
		SchemaVersion:         SchemaVersion,
	}, nil
}
