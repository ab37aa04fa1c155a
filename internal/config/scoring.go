package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ScoringOverlay holds the scoring knobs a deployment is most likely to
// want to tune without touching the primary KDL config: the per-candidate
// flavortext bonus, whether the fuzzy (Jaro-Winkler) flavortext bonus is
// enabled, and the fuzzy-synonym similarity threshold. These values are
// loaded into Config.Scoring only; the pipeline does not read them and
// scores with its fixed constants (100.0 per count, 1.0 per shared stem).
type ScoringOverlay struct {
	FlavortextBonus   float64 `toml:"flavortext_bonus"`
	FuzzyFlavortext   bool    `toml:"fuzzy_flavortext"`
	SynonymFuzzyMatch float64 `toml:"synonym_fuzzy_threshold"`
}

// DefaultScoringOverlay reproduces the pipeline's built-in scoring
// constants, so an absent scoring.toml changes nothing.
func DefaultScoringOverlay() ScoringOverlay {
	return ScoringOverlay{
		FlavortextBonus:   1.0,
		FuzzyFlavortext:   false,
		SynonymFuzzyMatch: 0.9,
	}
}

// LoadScoringOverlay decodes path's TOML content into overlay, leaving
// fields the file does not mention at their current (default) values.
func LoadScoringOverlay(path string, overlay *ScoringOverlay) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return toml.Unmarshal(content, overlay)
}
