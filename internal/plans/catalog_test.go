package plans

import (
	"testing"

	"rentify_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	basic, ok := c.Get(models.PlanBasic)
	require.True(t, ok)
	assert.Equal(t, 299.0, basic.Price)
	assert.Equal(t, "INR", basic.Currency)
	assert.Equal(t, 30, basic.DurationDays)

	premium, ok := c.Get(models.PlanPremium)
	require.True(t, ok)
	assert.Equal(t, 799.0, premium.Price)
	assert.Equal(t, 90, premium.DurationDays)

	enterprise, ok := c.Get(models.PlanEnterprise)
	require.True(t, ok)
	assert.Equal(t, 1999.0, enterprise.Price)
	assert.Equal(t, 365, enterprise.DurationDays)

	_, ok = c.Get("gold")
	assert.False(t, ok)

	list := c.List()
	require.Len(t, list, 3)
	assert.Equal(t, []models.PlanTier{models.PlanBasic, models.PlanPremium, models.PlanEnterprise},
		[]models.PlanTier{list[0].Tier, list[1].Tier, list[2].Tier})
}

func TestSnapshotIsDetached(t *testing.T) {
	p, _ := Default().Get(models.PlanBasic)
	snap := p.Snapshot()
	snap.Features[0] = "changed"

	again, _ := Default().Get(models.PlanBasic)
	assert.NotEqual(t, "changed", again.Features[0])
	assert.Equal(t, "Basic", snap.Name)
}

func TestCatalog_ReturnsDetachedFeatures(t *testing.T) {
	c := Default()

	listed := c.List()
	require.NotEmpty(t, listed)
	original := listed[0].Features[0]
	listed[0].Features[0] = "changed"

	assert.Equal(t, original, c.List()[0].Features[0])

	basic, ok := c.Get(models.PlanBasic)
	require.True(t, ok)
	basic.Features[0] = "changed again"

	again, _ := c.Get(models.PlanBasic)
	assert.Equal(t, original, again.Features[0])
}
