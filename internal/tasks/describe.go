package tasks

import (
	"math/rand"
	"strings"

	"github.com/minsung-dev/choomup/internal/models"
)

// hashtagVocabulary is the fixed pool the description builder samples from.
var hashtagVocabulary = []string{
	"#dance", "#dancecover", "#kpop", "#kpopdance", "#choom",
	"#choreography", "#cover", "#dancer", "#dancechallenge", "#shorts",
	"#kpopcover", "#dancepractice",
}

// BuildDescription assembles the upload description: the "Artist - Title"
// line (title-only when the artist is absent) followed by n hashtags sampled
// without replacement from the fixed vocabulary. Deterministic for a given
// rand source, which tests inject.
func BuildDescription(artist models.NullString, title string, n int, rng *rand.Rand) string {
	var b strings.Builder

	if artist.Valid {
		b.WriteString(artist.Value)
		b.WriteString(" - ")
	}
	b.WriteString(title)

	if n > len(hashtagVocabulary) {
		n = len(hashtagVocabulary)
	}
	if n > 0 {
		picks := rng.Perm(len(hashtagVocabulary))[:n]
		b.WriteString("\n")
		for i, p := range picks {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(hashtagVocabulary[p])
		}
	}

	return b.String()
}
