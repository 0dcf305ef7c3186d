package arena

import (
	"log/slog"
	"math"
	"slices"
)

// Cell is a discrete grid coordinate. Cell{0, 0} is centred on the origin.
type Cell struct {
	X, Y int
}

func (c Cell) Less(o Cell) bool {
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.X < o.X
}

func compareCells(a, b Cell) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	}
	return 0
}

// Geometry fixes how continuous positions map onto cells. Cell width is
// Width/Divisions; the vertical division count is scaled by the aspect ratio
// so cells come out square.
type Geometry struct {
	Width     float64
	Height    float64
	Divisions int
}

func (g Geometry) cellSize() (float64, float64) {
	w := g.Width / float64(g.Divisions)
	vertical := float64(g.Divisions) * (g.Height / g.Width)
	h := g.Height / vertical
	return w, h
}

// CellOf maps a position to its cell. Each axis rounds half-cells away from
// zero and keeps the sign, so the cell layout is symmetric around the origin.
func (g Geometry) CellOf(x, y float64) Cell {
	w, h := g.cellSize()
	return Cell{X: axisCell(x, w), Y: axisCell(y, h)}
}

func axisCell(v, size float64) int {
	n := math.Floor(math.Abs(v)/size + 0.5)
	if v < 0 {
		n = -n
	}
	return int(n)
}

func (g Geometry) Bounds() Bounds {
	return Bounds{HalfW: g.Width / 2, HalfH: g.Height / 2}
}

// Transition records an agent crossing from one cell into another.
type Transition struct {
	Handle Handle
	From   Cell
	To     Cell
}

// Grid buckets agent handles by cell. Buckets are kept sorted by handle so
// every reader sees a reproducible order.
type Grid struct {
	geom    Geometry
	buckets map[Cell][]Handle
	logger  *slog.Logger
}

func NewGrid(geom Geometry, logger *slog.Logger) *Grid {
	if logger == nil {
		logger = slog.Default()
	}
	return &Grid{
		geom:    geom,
		buckets: make(map[Cell][]Handle),
		logger:  logger,
	}
}

func (g *Grid) Geometry() Geometry { return g.geom }

func (g *Grid) CellOf(x, y float64) Cell { return g.geom.CellOf(x, y) }

func (g *Grid) Insert(h Handle, c Cell) {
	bucket := g.buckets[c]
	i, found := slices.BinarySearch(bucket, h)
	if found {
		return
	}
	g.buckets[c] = slices.Insert(bucket, i, h)
}

// Remove drops h from c's bucket, deleting the bucket once empty. It reports
// whether h was present.
func (g *Grid) Remove(h Handle, c Cell) bool {
	bucket := g.buckets[c]
	i, found := slices.BinarySearch(bucket, h)
	if !found {
		return false
	}
	bucket = slices.Delete(bucket, i, i+1)
	if len(bucket) == 0 {
		delete(g.buckets, c)
	} else {
		g.buckets[c] = bucket
	}
	return true
}

// Move relocates h from one bucket to another. A handle missing from the old
// bucket is logged and still inserted into the new one.
func (g *Grid) Move(h Handle, from, to Cell) {
	if !g.Remove(h, from) {
		g.logger.Warn("grid: handle missing from previous cell, only updating new cell",
			"handle", h.String(), "cell_x", from.X, "cell_y", from.Y)
	}
	g.Insert(h, to)
}

func (g *Grid) Apply(ts []Transition) {
	for _, t := range ts {
		g.Move(t.Handle, t.From, t.To)
	}
}

// AgentsIn returns a copy of c's bucket in handle order.
func (g *Grid) AgentsIn(c Cell) []Handle {
	bucket := g.buckets[c]
	if len(bucket) == 0 {
		return []Handle{}
	}
	return slices.Clone(bucket)
}

// NeighborsOf returns the agents in each of the eight cells around c.
func (g *Grid) NeighborsOf(c Cell) map[Cell][]Handle {
	out := make(map[Cell][]Handle, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n := Cell{X: c.X + dx, Y: c.Y + dy}
			out[n] = g.AgentsIn(n)
		}
	}
	return out
}

// Cells lists occupied cells, row-major from the bottom-left.
func (g *Grid) Cells() []Cell {
	out := make([]Cell, 0, len(g.buckets))
	for c := range g.buckets {
		out = append(out, c)
	}
	slices.SortFunc(out, compareCells)
	return out
}

// Contains reports whether h sits in c's bucket.
func (g *Grid) Contains(h Handle, c Cell) bool {
	_, found := slices.BinarySearch(g.buckets[c], h)
	return found
}

// Len counts indexed handles across all buckets.
func (g *Grid) Len() int {
	n := 0
	for _, b := range g.buckets {
		n += len(b)
	}
	return n
}
