package tasks

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/minsung-dev/choomup/internal/models"
)

func TestBuildDescription(t *testing.T) {
	t.Run("ArtistAndTitle", func(t *testing.T) {
		desc := BuildDescription(models.String("aespa"), "Whiplash", 3, rand.New(rand.NewSource(1)))

		lines := strings.SplitN(desc, "\n", 2)
		if lines[0] != "aespa - Whiplash" {
			t.Errorf("Expected first line 'aespa - Whiplash', got %q", lines[0])
		}
		if len(lines) != 2 {
			t.Fatal("Expected a hashtag line")
		}
		tags := strings.Fields(lines[1])
		if len(tags) != 3 {
			t.Errorf("Expected 3 hashtags, got %v", tags)
		}
		seen := map[string]bool{}
		for _, tag := range tags {
			if !strings.HasPrefix(tag, "#") {
				t.Errorf("Hashtag missing #: %q", tag)
			}
			if seen[tag] {
				t.Errorf("Duplicate hashtag %q", tag)
			}
			seen[tag] = true
		}
	})

	t.Run("TitleOnlyWhenArtistAbsent", func(t *testing.T) {
		desc := BuildDescription(models.Null(), "Magnetic", 0, rand.New(rand.NewSource(1)))
		if desc != "Magnetic" {
			t.Errorf("Expected title-only description, got %q", desc)
		}
	})

	t.Run("DeterministicForSeed", func(t *testing.T) {
		a := BuildDescription(models.String("IVE"), "Rebel Heart", 5, rand.New(rand.NewSource(42)))
		b := BuildDescription(models.String("IVE"), "Rebel Heart", 5, rand.New(rand.NewSource(42)))
		if a != b {
			t.Errorf("Same seed should give same description:\n%q\n%q", a, b)
		}
	})

	t.Run("ClampsToVocabulary", func(t *testing.T) {
		desc := BuildDescription(models.String("IVE"), "Rebel Heart", 1000, rand.New(rand.NewSource(1)))
		tags := strings.Fields(strings.SplitN(desc, "\n", 2)[1])
		if len(tags) != len(hashtagVocabulary) {
			t.Errorf("Expected %d hashtags, got %d", len(hashtagVocabulary), len(tags))
		}
	})

	t.Run("ZeroHashtags", func(t *testing.T) {
		desc := BuildDescription(models.String("IVE"), "Rebel Heart", 0, rand.New(rand.NewSource(1)))
		if strings.Contains(desc, "\n") || strings.Contains(desc, "#") {
			t.Errorf("Expected no hashtag line, got %q", desc)
		}
	})
}
