package processors_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/username/fraudscore/src/models"
	"github.com/username/fraudscore/src/processors"
)

func TestNewVocabulary_SortedUnique(t *testing.T) {
	v := processors.NewVocabulary([]string{"PASSED", "NONE", "PASSED", "FAILED", ""})
	assert.Equal(t, []string{"FAILED", "NONE", "PASSED"}, v.Categories)
}

func TestVocabulary_EncodeFixedWidth(t *testing.T) {
	v := processors.NewVocabulary([]string{"FAILED", "NONE", "PASSED", "PENDING"})

	row := v.Encode("PASSED")
	assert.Equal(t, []float64{0, 0, 1, 0}, row)

	// A batch that only ever contains one category still encodes at the
	// fitted width.
	assert.Len(t, v.Encode("FAILED"), 4)
}

func TestVocabulary_UnseenEncodesAsZeros(t *testing.T) {
	v := processors.NewVocabulary([]string{"A", "B"})
	assert.Equal(t, []float64{0, 0}, v.Encode("C"))
}

func TestVocabulary_MissingIsItsOwnCategory(t *testing.T) {
	v := processors.NewVocabulary([]string{"TOPUP", ""})
	assert.Contains(t, v.Categories, processors.MissingCategory)
	assert.Equal(t, v.Encode(""), v.Encode(processors.MissingCategory))
}

func TestLatestTermsVersion(t *testing.T) {
	users := []models.User{
		{TermsVersion: "2017-01-01"},
		{TermsVersion: models.DefaultTermsVersion},
		{TermsVersion: "2018-09-20"},
	}
	assert.Equal(t, "2018-09-20", processors.LatestTermsVersion(users))
}
