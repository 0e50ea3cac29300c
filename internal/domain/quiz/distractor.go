package quiz

import (
	"math/rand"
	"strings"

	"github.com/flitskaart/flitskaart-api/internal/domain"
)

// GenerateOptions builds a multiple-choice slate around the correct answer.
// The result always contains correct; the rest are definitions sampled
// uniformly without replacement from pool, skipping blanks, duplicates, and
// values equal to correct (compared trimmed and case-insensitively). When
// pool holds fewer distinct definitions than requested the slate is simply
// smaller, down to correct alone. The final order is shuffled so the correct
// answer's position is uniformly distributed.
func GenerateOptions(correct string, pool []domain.Card, count int, rng *rand.Rand) []string {
	seen := map[string]bool{
		strings.ToLower(strings.TrimSpace(correct)): true,
	}

	candidates := make([]string, 0, len(pool))
	for _, card := range pool {
		def := strings.TrimSpace(card.Definition)
		key := strings.ToLower(def)
		if def == "" || seen[key] {
			continue
		}
		seen[key] = true
		candidates = append(candidates, def)
	}

	// A uniform shuffle followed by a prefix take is a uniform sample
	// without replacement.
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	wanted := count - 1
	if wanted < 0 {
		wanted = 0
	}
	if wanted > len(candidates) {
		wanted = len(candidates)
	}

	options := make([]string, 0, wanted+1)
	options = append(options, correct)
	options = append(options, candidates[:wanted]...)

	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}
