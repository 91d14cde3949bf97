package analysis

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/relloyd/housepipe/houses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func house(region, locality, year, square string) houses.House {
	return houses.FromRaw(map[string]string{
		houses.ColHouseId:         "1",
		houses.ColRegion:          region,
		houses.ColLocalityName:    locality,
		houses.ColMaintenanceYear: year,
		houses.ColSquare:          square,
	})
}

func testFrame() []houses.House {
	return []houses.House{
		house("Москва", "Москва", "1950", "100"),
		house("Москва", "Зеленоград", "1961", "40,5"),
		house("Тула", "Тула", "1700", "70"),
		house("Тула", "Алексин", "2030", "70"),
		house("Тула", "Тула", "", "5"),
		house("", "Тверь", "1985", ""),
		houses.FromRaw(map[string]string{houses.ColRegion: "Москва"}),
	}
}

func TestSummarizeCounts(t *testing.T) {
	s := Summarize(testFrame(), 10)
	assert.Equal(t, 7, s.TotalRows)
	assert.Equal(t, 1, s.EmptyRows)
	// 1700, 2030 and two nulls.
	assert.Equal(t, 4, s.InvalidYears)
	require.NotNil(t, s.MeanYear)
	assert.InDelta(t, (1950.0+1961+1700+2030+1985)/5, *s.MeanYear, 1e-9)
	require.NotNil(t, s.MedianYear)
	assert.Equal(t, int64(1961), *s.MedianYear)
}

func TestSummarizeTopGroups(t *testing.T) {
	s := Summarize(testFrame(), 2)
	require.Len(t, s.TopRegions, 2)
	// Москва and Тула both have 3 rows so the key breaks the tie.
	assert.Equal(t, "Москва", *s.TopRegions[0].Key)
	assert.Equal(t, 3, s.TopRegions[0].Count)
	assert.Equal(t, "Тула", *s.TopRegions[1].Key)

	s = Summarize(testFrame(), 10)
	require.Len(t, s.TopRegions, 3)
	assert.Nil(t, s.TopRegions[2].Key)
	assert.Equal(t, 1, s.TopRegions[2].Count)
}

func TestSummarizeSquares(t *testing.T) {
	s := Summarize(testFrame(), 10)
	require.Len(t, s.MaxSquareByRegion, 2)
	assert.Equal(t, "Москва", *s.MaxSquareByRegion[0].Region)
	assert.Equal(t, 100.0, s.MaxSquareByRegion[0].Square)
	// Ties keep the first record seen.
	assert.Equal(t, "Тула", *s.MaxSquareByRegion[1].LocalityName)
	assert.Equal(t, int64(1700), *s.MaxSquareByRegion[1].MaintenanceYear)

	require.Len(t, s.MinSquareByRegion, 2)
	assert.Equal(t, 40.5, s.MinSquareByRegion[0].Square)
	assert.Equal(t, 5.0, s.MinSquareByRegion[1].Square)
	assert.Nil(t, s.MinSquareByRegion[1].MaintenanceYear)
}

func TestSummarizeDecades(t *testing.T) {
	s := Summarize(testFrame(), 10)
	require.Len(t, s.Decades, 6)
	assert.Nil(t, s.Decades[0].Decade)
	assert.Equal(t, 2, s.Decades[0].Count)
	expected := []int64{1700, 1950, 1960, 1980, 2030}
	for idx, d := range expected {
		require.NotNil(t, s.Decades[idx+1].Decade)
		assert.Equal(t, d, *s.Decades[idx+1].Decade)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, 10)
	assert.Equal(t, 0, s.TotalRows)
	assert.Nil(t, s.MeanYear)
	assert.Nil(t, s.MedianYear)
	assert.Empty(t, s.Decades)
}

func TestMedian(t *testing.T) {
	assert.Equal(t, int64(2), Median([]int64{4, 1, 3, 2}))
	assert.Equal(t, int64(3), Median([]int64{5, 1, 3, 2, 4}))
	assert.Equal(t, int64(7), Median([]int64{7}))
}

func TestFloorDiv(t *testing.T) {
	assert.Equal(t, int64(195), floorDiv(1959, 10))
	assert.Equal(t, int64(-1), floorDiv(-5, 10))
}

func TestRender(t *testing.T) {
	s := Summarize(testFrame(), 10)
	var buf bytes.Buffer
	require.NoError(t, s.Render(&buf, 1))
	out := buf.String()
	assert.Contains(t, out, "Total rows in input: 7")
	assert.Contains(t, out, "Median maintenance year: 1961")
	assert.Contains(t, out, "|region|count|")
	assert.Contains(t, out, "only showing top 1 rows")
	assert.True(t, strings.Contains(out, "|null  |"), out)
}

func TestSummaryJson(t *testing.T) {
	s := Summarize(testFrame(), 10)
	b, err := json.Marshal(s)
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, float64(7), m["total_rows"])
	assert.Contains(t, m, "decades")
}
