// Package scrape implements the hadith extraction pipeline: per-volume page
// walking, block parsing, retries, and run orchestration.
package scrape

// SchemaVersion is stamped on every emitted record.
const SchemaVersion = "1.1"

// Transmitter is one named node of a narration chain, 1-indexed by position.
type Transmitter struct {
	Order int    `json:"order" parquet:"order"`
	Name  string `json:"name" parquet:"name"`
}

// Edge is a directed link between two consecutive transmitters.
type Edge struct {
	From string `json:"from" parquet:"from"`
	To   string `json:"to" parquet:"to"`
}

// Record is one extracted citation unit. Records are immutable once parsed.
type Record struct {
	ID                    string        `json:"id" parquet:"id"`
	Collection            string        `json:"collection" parquet:"collection"`
	Volume                int           `json:"volume" parquet:"volume"`
	SourceURL             string        `json:"source_url" parquet:"source_url"`
	PrimaryText           string        `json:"primary_text" parquet:"primary_text"`
	PrimaryTextNormalized string        `json:"primary_text_normalized" parquet:"primary_text_normalized"`
	TranslatedText        string        `json:"translated_text" parquet:"translated_text"`
	Reference             string        `json:"reference" parquet:"reference"`
	Grade                 string        `json:"grade" parquet:"grade"`
	ChainText             string        `json:"chain_text" parquet:"chain_text"`
	Transmitters          []Transmitter `json:"transmitters" parquet:"transmitters"`
	TransmitterEdges      []Edge        `json:"transmitter_edges" parquet:"transmitter_edges"`
	SchemaVersion         string        `json:"schema_version" parquet:"schema_version"`
}

// DedupByID drops records whose id was already seen, preserving first-seen
// order. It is idempotent: applying it to its own output is a no-op.
func DedupByID(records []Record) []Record {
	seen := make(map[string]struct{}, len(records))
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}
