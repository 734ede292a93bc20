package curation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/types"
)

func testBuilder() *Builder {
	b := NewBuilder(DefaultConfig())
	b.Now = func() time.Time { return testNow }
	b.Fresh.Now = func() time.Time { return testNow }
	return b
}

func scoredProduct(name string, hot, top, treasure int) *types.Product {
	return &types.Product{
		Name:          name,
		HotScore:      hot,
		TopScore:      top,
		TreasureScore: treasure,
		DiscoveredAt:  daysAgo(1),
	}
}

func TestBuildView_TrendingRanksByHot(t *testing.T) {
	b := testBuilder()
	products := []*types.Product{
		scoredProduct("mid", 50, 90, 10),
		scoredProduct("hottest", 80, 10, 10),
		scoredProduct("cool", 20, 95, 90),
	}

	view, err := b.BuildView(&types.ViewRequest{Name: types.ViewTrending}, products)
	require.NoError(t, err)
	assert.Equal(t, types.ViewTrending, view.Name)
	assert.Equal(t, []string{"hottest", "mid", "cool"}, productNames(view.Products))
}

func TestBuildView_WeeklyTopRanksByTop(t *testing.T) {
	b := testBuilder()
	products := []*types.Product{
		scoredProduct("second", 80, 70, 10),
		scoredProduct("first", 10, 90, 10),
	}

	view, err := b.BuildView(&types.ViewRequest{Name: types.ViewWeeklyTop}, products)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, productNames(view.Products))
}

func TestBuildView_RisingStarsRanksByTreasure(t *testing.T) {
	b := testBuilder()
	products := []*types.Product{
		scoredProduct("known", 90, 90, 20),
		scoredProduct("hidden-gem", 10, 10, 85),
	}

	view, err := b.BuildView(&types.ViewRequest{Name: types.ViewRisingStars}, products)
	require.NoError(t, err)
	assert.Equal(t, []string{"hidden-gem", "known"}, productNames(view.Products))
}

func TestBuildView_DarkHorsesAppliesStickyWindow(t *testing.T) {
	b := testBuilder()
	sticky := &types.Product{
		Name:           "dark-horse",
		DarkHorseIndex: 5,
		FundingTotal:   "$120M",
		DiscoveredAt:   daysAgo(8),
	}

	view, err := b.BuildView(&types.ViewRequest{Name: types.ViewDarkHorses}, []*types.Product{sticky})
	require.NoError(t, err)
	assert.Equal(t, []string{"dark-horse"}, productNames(view.Products))
}

func TestBuildView_RequestTightensQuota(t *testing.T) {
	b := testBuilder()
	products := []*types.Product{
		scoredProduct("a", 90, 0, 0),
		scoredProduct("b", 80, 0, 0),
		scoredProduct("c", 70, 0, 0),
	}

	view, err := b.BuildView(&types.ViewRequest{Name: types.ViewTrending, Limit: 2}, products)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, productNames(view.Products))
}

func TestBuildView_RejectsUnknownName(t *testing.T) {
	b := testBuilder()
	_, err := b.BuildView(&types.ViewRequest{Name: "editor_picks"}, nil)
	assert.Error(t, err)
}

func TestBuildView_RejectsNilRequest(t *testing.T) {
	b := testBuilder()
	_, err := b.BuildView(nil, nil)
	assert.Error(t, err)
}

func TestBuildView_DoesNotReorderInput(t *testing.T) {
	b := testBuilder()
	products := []*types.Product{
		scoredProduct("low", 10, 0, 0),
		scoredProduct("high", 90, 0, 0),
	}

	_, err := b.BuildView(&types.ViewRequest{Name: types.ViewTrending}, products)
	require.NoError(t, err)
	assert.Equal(t, []string{"low", "high"}, productNames(products))
}

func TestBuildAll_ProducesEveryView(t *testing.T) {
	b := testBuilder()
	products := []*types.Product{scoredProduct("only", 50, 50, 50)}

	views, err := b.BuildAll(products)
	require.NoError(t, err)
	require.Len(t, views, len(types.AllViews))
	for i, view := range views {
		assert.Equal(t, types.AllViews[i], view.Name)
		_, parseErr := time.Parse(time.RFC3339, view.GeneratedAt)
		assert.NoError(t, parseErr)
		assert.Equal(t, []string{"only"}, productNames(view.Products))
	}
}
