package scrape

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestVolumeURL(t *testing.T) {
	t.Parallel()
	c := Collection{Key: "muslim", BaseURL: "https://example.org/muslim/"}
	require.Equal(t, "https://example.org/muslim/3", c.VolumeURL(3))
}

func TestDisplayName(t *testing.T) {
	t.Parallel()
	require.Equal(t, "Muslim", Collection{Key: "muslim"}.DisplayName())
	require.Equal(t, "Bukhari", Collection{Key: "BUKHARI"}.DisplayName())
	require.Equal(t, "", Collection{}.DisplayName())
}

func TestLoadCollections(t *testing.T) {
	t.Parallel()
	v := viper.New()
	v.Set("collections.muslim.base_url", "https://example.org/muslim")
	v.Set("collections.muslim.volumes", 56)
	v.Set("collections.bukhari.base_url", "https://example.org/bukhari")
	v.Set("collections.bukhari.volumes", 97)

	got, err := LoadCollections(v)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, Collection{Key: "muslim", BaseURL: "https://example.org/muslim", DefaultVolumes: 56}, got["muslim"])
	require.Equal(t, 97, got["bukhari"].DefaultVolumes)
}

func TestLoadCollectionsRejectsInvalidEntries(t *testing.T) {
	t.Parallel()

	v := viper.New()
	v.Set("collections.muslim.volumes", 56)
	_, err := LoadCollections(v)
	require.ErrorContains(t, err, "base_url")

	v = viper.New()
	v.Set("collections.muslim.base_url", "https://example.org/muslim")
	_, err = LoadCollections(v)
	require.ErrorContains(t, err, "volumes")

	_, err = LoadCollections(viper.New())
	require.ErrorContains(t, err, "no collections")
}
