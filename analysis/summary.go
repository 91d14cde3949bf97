package analysis

import (
	"math"
	"sort"

	"github.com/relloyd/housepipe/houses"
)

// GroupCount is the number of records sharing a key.
// A nil Key groups the records where the key is null.
type GroupCount struct {
	Key   *string `json:"key"`
	Count int     `json:"count"`
}

// DecadeCount is the number of buildings maintained in a decade.
type DecadeCount struct {
	Decade *int64 `json:"decade"`
	Count  int    `json:"count"`
}

// RegionSquare is the building with the largest or smallest area in a region.
type RegionSquare struct {
	Region          *string `json:"region"`
	LocalityName    *string `json:"locality_name"`
	Square          float64 `json:"square"`
	MaintenanceYear *int64  `json:"maintenance_year"`
}

// Summary holds the statistics computed over all records.
type Summary struct {
	TotalRows         int            `json:"total_rows"`
	EmptyRows         int            `json:"empty_rows"`
	InvalidYears      int            `json:"invalid_years"`
	MeanYear          *float64       `json:"mean_year"`
	MedianYear        *int64         `json:"median_year"`
	TopRegions        []GroupCount   `json:"top_regions"`
	TopLocalities     []GroupCount   `json:"top_localities"`
	MaxSquareByRegion []RegionSquare `json:"max_square_by_region"`
	MinSquareByRegion []RegionSquare `json:"min_square_by_region"`
	Decades           []DecadeCount  `json:"decades"`
}

// Accumulator collects statistics one record at a time.
// Only the years and per-group aggregates are kept in memory.
type Accumulator struct {
	total        int
	empty        int
	invalidYears int
	years        []int64
	yearSum      float64
	regions      *counter
	localities   *counter
	decades      map[int64]int
	nullDecades  int
	maxSquare    map[string]*RegionSquare
	minSquare    map[string]*RegionSquare
	nullMax      *RegionSquare
	nullMin      *RegionSquare
}

func NewAccumulator() *Accumulator {
	return &Accumulator{
		regions:    newCounter(),
		localities: newCounter(),
		decades:    make(map[int64]int),
		maxSquare:  make(map[string]*RegionSquare),
		minSquare:  make(map[string]*RegionSquare),
	}
}

// Add includes h in the statistics.
func (a *Accumulator) Add(h houses.House) {
	a.total++
	if h.IsEmpty() {
		a.empty++
	}
	if !houses.YearIsValid(h.MaintenanceYear) {
		a.invalidYears++
	}
	if h.MaintenanceYear != nil {
		y := *h.MaintenanceYear
		a.years = append(a.years, y)
		a.yearSum += float64(y)
		a.decades[floorDiv(y, 10)*10]++
	} else {
		a.nullDecades++
	}
	a.regions.add(h.Region)
	a.localities.add(h.LocalityName)
	if h.Square != nil {
		a.addSquare(h)
	}
}

func (a *Accumulator) addSquare(h houses.House) {
	rs := RegionSquare{Region: h.Region, LocalityName: h.LocalityName, Square: *h.Square, MaintenanceYear: h.MaintenanceYear}
	if h.Region == nil {
		if a.nullMax == nil || rs.Square > a.nullMax.Square {
			c := rs
			a.nullMax = &c
		}
		if a.nullMin == nil || rs.Square < a.nullMin.Square {
			c := rs
			a.nullMin = &c
		}
		return
	}
	key := *h.Region
	if cur, ok := a.maxSquare[key]; !ok || rs.Square > cur.Square {
		c := rs
		a.maxSquare[key] = &c
	}
	if cur, ok := a.minSquare[key]; !ok || rs.Square < cur.Square {
		c := rs
		a.minSquare[key] = &c
	}
}

// Summary returns the statistics with the topN largest region and locality groups.
func (a *Accumulator) Summary(topN int) Summary {
	s := Summary{
		TotalRows:         a.total,
		EmptyRows:         a.empty,
		InvalidYears:      a.invalidYears,
		TopRegions:        a.regions.top(topN),
		TopLocalities:     a.localities.top(topN),
		MaxSquareByRegion: regionSquares(a.nullMax, a.maxSquare),
		MinSquareByRegion: regionSquares(a.nullMin, a.minSquare),
		Decades:           a.decadeCounts(),
	}
	if len(a.years) > 0 {
		mean := a.yearSum / float64(len(a.years))
		s.MeanYear = &mean
		median := Median(a.years)
		s.MedianYear = &median
	}
	return s
}

// Summarize computes a Summary over all records in frame.
func Summarize(frame []houses.House, topN int) Summary {
	a := NewAccumulator()
	for _, h := range frame {
		a.Add(h)
	}
	return a.Summary(topN)
}

// Median returns the smallest value for which at least half of values are less than or equal to it.
// values must not be empty. The slice is sorted in place.
func Median(values []int64) int64 {
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	idx := int(math.Ceil(float64(len(values))*0.5)) - 1
	if idx < 0 {
		idx = 0
	}
	return values[idx]
}

func (a *Accumulator) decadeCounts() []DecadeCount {
	retval := make([]DecadeCount, 0, len(a.decades)+1)
	if a.nullDecades > 0 {
		retval = append(retval, DecadeCount{Count: a.nullDecades})
	}
	keys := make([]int64, 0, len(a.decades))
	for k := range a.decades {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, k := range keys {
		d := k
		retval = append(retval, DecadeCount{Decade: &d, Count: a.decades[k]})
	}
	return retval
}

// regionSquares orders the per region results by region with the null region first.
func regionSquares(null *RegionSquare, m map[string]*RegionSquare) []RegionSquare {
	retval := make([]RegionSquare, 0, len(m)+1)
	if null != nil {
		retval = append(retval, *null)
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		retval = append(retval, *m[k])
	}
	return retval
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// counter counts records per key including a null group.
type counter struct {
	counts map[string]int
	nulls  int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key *string) {
	if key == nil {
		c.nulls++
		return
	}
	c.counts[*key]++
}

// top returns the n largest groups ordered by count descending then key ascending, null first.
func (c *counter) top(n int) []GroupCount {
	all := make([]GroupCount, 0, len(c.counts)+1)
	if c.nulls > 0 {
		all = append(all, GroupCount{Count: c.nulls})
	}
	for k, v := range c.counts {
		key := k
		all = append(all, GroupCount{Key: &key, Count: v})
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Count != all[j].Count {
			return all[i].Count > all[j].Count
		}
		if all[i].Key == nil || all[j].Key == nil {
			return all[i].Key == nil && all[j].Key != nil
		}
		return *all[i].Key < *all[j].Key
	})
	if n >= 0 && len(all) > n {
		all = all[:n]
	}
	return all
}
