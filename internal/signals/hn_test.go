package signals

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/types"
)

// newHNServer serves canned Algolia responses: hits per search query
// substring, item trees per story id.
func newHNServer(t *testing.T, hitsByQuery map[string][]hnHit, items map[string]hnItem) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/search_by_date":
			query := r.URL.Query().Get("query")
			hits := hitsByQuery[query]
			require.NoError(t, json.NewEncoder(w).Encode(hnSearchResponse{Hits: hits}))
		case strings.HasPrefix(r.URL.Path, "/items/"):
			id := strings.TrimPrefix(r.URL.Path, "/items/")
			item, ok := items[id]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			require.NoError(t, json.NewEncoder(w).Encode(item))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func testHNCollector(serverURL string) *HNCollector {
	h := NewHNCollector(nil, nil, 7)
	h.baseURL = serverURL
	h.now = func() time.Time { return time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC) }
	return h
}

func TestHNCollect_PicksBestStoryByComments(t *testing.T) {
	server := newHNServer(t,
		map[string][]hnHit{
			"Rabbit R1": {
				{ObjectID: "a1", Title: "Rabbit R1 first impressions", Points: 50, NumComments: 10},
				{ObjectID: "b1", Title: "Rabbit R1 teardown", Points: 30, NumComments: 40},
			},
		},
		map[string]hnItem{
			"b1": {
				ID:   1,
				Type: "story",
				Children: []hnItem{
					{ID: 2, Type: "comment", Text: "parent", Children: []hnItem{
						{ID: 3, Type: "comment", Text: "Great device <i>honestly</i>"},
					}},
					{ID: 4, Type: "comment", Text: "Returned mine after a week"},
				},
			},
		},
	)
	defer server.Close()

	signal := testHNCollector(server.URL).Collect(context.Background(), "Rabbit R1", "")

	assert.Equal(t, types.SignalOK, signal.Status)
	assert.Equal(t, 2, signal.StoryCount)
	assert.Equal(t, 30, signal.Points)
	assert.Equal(t, 40, signal.Comments)
	assert.InDelta(t, 40.0/30.0, signal.EngagementDepthRatio, 0.001)
	assert.True(t, signal.IsControversial)
	assert.Equal(t, []string{"Great device honestly", "Returned mine after a week"}, signal.SampleComments)
}

func TestHNCollect_NotControversialBelowCommentFloor(t *testing.T) {
	server := newHNServer(t,
		map[string][]hnHit{
			"TinyTool": {
				{ObjectID: "a1", Title: "TinyTool launched", Points: 5, NumComments: 12},
			},
		},
		map[string]hnItem{"a1": {ID: 1, Type: "story"}},
	)
	defer server.Close()

	signal := testHNCollector(server.URL).Collect(context.Background(), "TinyTool", "")

	// Ratio is high (12/5) but under 20 comments is just a small thread.
	assert.Equal(t, types.SignalOK, signal.Status)
	assert.False(t, signal.IsControversial)
}

func TestHNCollect_NoMatchingStories(t *testing.T) {
	server := newHNServer(t,
		map[string][]hnHit{
			"Ghost Product": {
				{ObjectID: "x1", Title: "Unrelated launch", URL: "https://elsewhere.io"},
			},
		},
		nil,
	)
	defer server.Close()

	signal := testHNCollector(server.URL).Collect(context.Background(), "Ghost Product", "")

	assert.Equal(t, types.SignalOK, signal.Status)
	assert.Equal(t, 0, signal.StoryCount)
	assert.Equal(t, 0, signal.Comments)
	assert.Empty(t, signal.SampleComments)
	assert.False(t, signal.IsControversial)
}

func TestHNCollect_MatchesByDomainWhenTitleOmitsName(t *testing.T) {
	server := newHNServer(t,
		map[string][]hnHit{
			"Humane": {},
			"humane.com": {
				{ObjectID: "d1", Title: "The AI pin nobody asked for", URL: "https://humane.com/aipin", NumComments: 25, Points: 12},
			},
		},
		map[string]hnItem{"d1": {ID: 9, Type: "story"}},
	)
	defer server.Close()

	signal := testHNCollector(server.URL).Collect(context.Background(), "Humane", "https://www.humane.com")

	assert.Equal(t, types.SignalOK, signal.Status)
	assert.Equal(t, 1, signal.StoryCount)
	assert.Equal(t, 25, signal.Comments)
}

func TestHNCollect_DedupesAcrossNameAndDomainQueries(t *testing.T) {
	shared := hnHit{ObjectID: "s1", Title: "Rewind review", URL: "https://rewind.ai", NumComments: 8, Points: 80}
	server := newHNServer(t,
		map[string][]hnHit{
			"Rewind":    {shared},
			"rewind.ai": {shared, {ObjectID: "s2", Title: "Rewind pricing changes", URL: "https://rewind.ai/pricing", NumComments: 3, Points: 10}},
		},
		map[string]hnItem{"s1": {ID: 1, Type: "story"}},
	)
	defer server.Close()

	signal := testHNCollector(server.URL).Collect(context.Background(), "Rewind", "https://rewind.ai")

	assert.Equal(t, 2, signal.StoryCount)
	assert.Equal(t, 8, signal.Comments)
}

func TestHNCollect_APIFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	signal := testHNCollector(server.URL).Collect(context.Background(), "Anything", "")

	assert.Equal(t, types.SignalError, signal.Status)
	assert.NotEmpty(t, signal.SkippedReason)
}

func TestHNCollect_CapsSampledComments(t *testing.T) {
	var leaves []hnItem
	for i := 0; i < 15; i++ {
		leaves = append(leaves, hnItem{ID: int64(i + 10), Type: "comment", Text: fmt.Sprintf("comment %d", i)})
	}
	server := newHNServer(t,
		map[string][]hnHit{
			"BigThread": {{ObjectID: "big", Title: "BigThread discussion", NumComments: 90, Points: 40}},
		},
		map[string]hnItem{"big": {ID: 1, Type: "story", Children: leaves}},
	)
	defer server.Close()

	signal := testHNCollector(server.URL).Collect(context.Background(), "BigThread", "")

	assert.Len(t, signal.SampleComments, maxSampleComments)
	assert.Equal(t, "comment 0", signal.SampleComments[0])
}

func TestHNCollect_CommentFetchFailureKeepsStoryStats(t *testing.T) {
	server := newHNServer(t,
		map[string][]hnHit{
			"Partial": {{ObjectID: "missing-item", Title: "Partial result", NumComments: 30, Points: 10}},
		},
		nil, // no items served: the tree fetch 404s
	)
	defer server.Close()

	signal := testHNCollector(server.URL).Collect(context.Background(), "Partial", "")

	assert.Equal(t, types.SignalOK, signal.Status)
	assert.Equal(t, 30, signal.Comments)
	assert.Empty(t, signal.SampleComments)
	assert.Contains(t, signal.SkippedReason, "comment fetch failed")
}

func TestDepthRatio_ZeroPointsFloor(t *testing.T) {
	assert.Equal(t, 12.0, depthRatio(12, 0))
	assert.Equal(t, 0.5, depthRatio(1, 2))
}

func TestDomainOf(t *testing.T) {
	assert.Equal(t, "rabbit.tech", domainOf("https://www.rabbit.tech/r1?ref=hn"))
	assert.Equal(t, "humane.com", domainOf("humane.com"))
	assert.Equal(t, "example.com", domainOf("http://example.com:8080/path"))
	assert.Equal(t, "", domainOf(""))
	assert.Equal(t, "", domainOf("localhost"))
}
