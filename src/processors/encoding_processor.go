package processors

import (
	"sort"

	"github.com/username/fraudscore/src/logger"
	"github.com/username/fraudscore/src/models"
)

// MissingCategory stands in for an absent categorical value (a user with no
// transactions has no most-frequent type) so "missing" is its own category.
const MissingCategory = "NONE"

// Vocabulary is a fixed, ordered category list fit once from training data.
// Encoding always emits exactly Width columns; a value outside the
// vocabulary encodes as all zeros, keeping column alignment intact.
type Vocabulary struct {
	Categories []string `json:"categories"`

	index map[string]int
}

// NewVocabulary builds a vocabulary from observed values: unique, sorted
// lexicographically. Empty values are replaced by MissingCategory.
func NewVocabulary(values []string) Vocabulary {
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if v == "" {
			v = MissingCategory
		}
		seen[v] = true
	}
	categories := make([]string, 0, len(seen))
	for v := range seen {
		categories = append(categories, v)
	}
	sort.Strings(categories)
	return Vocabulary{Categories: categories}
}

func (v *Vocabulary) Width() int {
	return len(v.Categories)
}

// Encode one-hot encodes a value over the fixed vocabulary.
func (v *Vocabulary) Encode(value string) []float64 {
	if v.index == nil {
		v.index = make(map[string]int, len(v.Categories))
		for i, c := range v.Categories {
			v.index[c] = i
		}
	}
	if value == "" {
		value = MissingCategory
	}
	row := make([]float64, len(v.Categories))
	i, ok := v.index[value]
	if !ok {
		logger.L.Warn("Category outside fitted vocabulary, encoding as all zeros", "value", value)
		return row
	}
	row[i] = 1
	return row
}

// LatestTermsVersion returns the lexicographically latest terms version in a
// training batch. Fit once and frozen in the feature artifact; inference
// never recomputes it.
func LatestTermsVersion(users []models.User) string {
	latest := ""
	for _, u := range users {
		if u.TermsVersion > latest {
			latest = u.TermsVersion
		}
	}
	return latest
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// gbIndicator is 1 for users registered in Great Britain.
func gbIndicator(u models.User) float64 {
	return boolFeature(u.Country == "GB")
}
