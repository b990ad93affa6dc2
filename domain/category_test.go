package domain_test

import (
	"testing"

	"github.com/gapeval/backend/domain"
	"github.com/stretchr/testify/assert"
)

func TestCategorySnapshotSharesNoMemory(t *testing.T) {
	desc := "Decentralized finance"
	c := domain.Category{
		ID:          "c1",
		Name:        "DeFi",
		Description: &desc,
		Slug:        "defi",
		Evaluators:  []string{"0xA", "0xB"},
	}

	snap := c.Snapshot()
	c.Evaluators[0] = "0xZ"
	c.Evaluators = append(c.Evaluators, "0xC")
	*c.Description = "changed"

	assert.Equal(t, []string{"0xA", "0xB"}, snap.Evaluators)
	assert.Equal(t, "Decentralized finance", *snap.Description)
	assert.True(t, snap.HasEvaluator("0xB"))
	assert.False(t, snap.HasEvaluator("0xZ"))
}
