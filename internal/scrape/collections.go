package scrape

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Collection describes one named source corpus: where its volumes live and
// how many of them exist by default.
type Collection struct {
	Key            string
	BaseURL        string
	DefaultVolumes int
}

// VolumeURL returns the listing URL for one volume of the collection.
func (c Collection) VolumeURL(volume int) string {
	return fmt.Sprintf("%s/%d", strings.TrimRight(c.BaseURL, "/"), volume)
}

// DisplayName returns the display-cased collection name stamped on records.
func (c Collection) DisplayName() string {
	if c.Key == "" {
		return ""
	}
	return strings.ToUpper(c.Key[:1]) + strings.ToLower(c.Key[1:])
}

// LoadCollections builds the collection registry from Viper configuration.
// The registry is explicit state passed into the orchestrator, not a
// process-wide table.
func LoadCollections(v *viper.Viper) (map[string]Collection, error) {
	raw := v.GetStringMap("collections")
	if len(raw) == 0 {
		return nil, fmt.Errorf("no collections configured")
	}
	out := make(map[string]Collection, len(raw))
	for key := range raw {
		c := Collection{
			Key:            key,
			BaseURL:        v.GetString("collections." + key + ".base_url"),
			DefaultVolumes: v.GetInt("collections." + key + ".volumes"),
		}
		if c.BaseURL == "" {
			return nil, fmt.Errorf("collection %q: base_url must be set", key)
		}
		if c.DefaultVolumes <= 0 {
			return nil, fmt.Errorf("collection %q: volumes must be > 0", key)
		}
		out[key] = c
	}
	return out, nil
}
