package bordertree

import (
	"slices"
	"sync"

	"github.com/paulmach/orb"
	"github.com/tidwall/qtree"
)

// BorderTree indexes region polygons by their bounds and answers
// "within" and "intersects" joins against them.
type BorderTree[Data any] struct {
	mu      sync.RWMutex
	borders []border[Data]
	qt      qtree.QTree
}

func NewBorderTree[Data any]() *BorderTree[Data] {
	return &BorderTree[Data]{}
}

type border[D any] struct {
	Data   D
	Region Region
	Bound  orb.Bound
}

func (bt *BorderTree[Data]) InsertBorder(data Data, b orb.MultiPolygon) {
	bound := b.Bound()

	bt.mu.Lock()
	defer bt.mu.Unlock()

	id := len(bt.borders)
	bt.borders = append(bt.borders, border[Data]{Data: data, Region: NewRegion(b), Bound: bound})
	bt.qt.Insert(bound.Min, bound.Max, id)
}

func (bt *BorderTree[Data]) Len() int {
	bt.mu.RLock()
	defer bt.mu.RUnlock()
	return len(bt.borders)
}

// QueryPoint returns the first inserted border containing the point.
// Points on a border edge belong to no border.
func (bt *BorderTree[Data]) QueryPoint(point orb.Point) (Data, bool) {
	bt.mu.RLock()
	defer bt.mu.RUnlock()

	var out Data
	found := -1

	bt.qt.Search(point, point, func(_, _ [2]float64, data interface{}) bool {
		id := data.(int)

		if (found == -1 || id < found) && bt.borders[id].Region.Contains(point) {
			found = id
		}

		return true
	})

	if found == -1 {
		return out, false
	}
	return bt.borders[found].Data, true
}

func (bt *BorderTree[Data]) Contains(point orb.Point) bool {
	_, ok := bt.QueryPoint(point)
	return ok
}

// QueryLine returns every border the line intersects, in insertion order.
func (bt *BorderTree[Data]) QueryLine(line orb.MultiLineString) []Data {
	bound := line.Bound()

	bt.mu.RLock()
	defer bt.mu.RUnlock()

	ids := []int{}
	bt.qt.Search(bound.Min, bound.Max, func(_, _ [2]float64, data interface{}) bool {
		id := data.(int)
		if bt.borders[id].Region.IntersectsLine(line) {
			ids = append(ids, id)
		}
		return true
	})
	slices.Sort(ids)

	out := make([]Data, len(ids))
	for i, id := range ids {
		out[i] = bt.borders[id].Data
	}
	return out
}
