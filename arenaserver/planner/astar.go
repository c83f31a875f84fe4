package planner

import (
	"container/heap"
	"context"
	"math"
	"sync"

	"github.com/bytearena/robotworld/arenaserver/geometry"
	"github.com/bytearena/robotworld/arenaserver/state"
	"github.com/bytearena/robotworld/common/utils/trigo"
	"github.com/bytearena/robotworld/common/utils/vector"
)

const DefaultGridStep = 5

// Vertex is a grid node visited by the search. G is the cost from the
// start, H the estimate to the goal.
type Vertex struct {
	geometry.Point
	G float64
	H float64
}

type Path []Vertex

// Points drops the search costs.
func (p Path) Points() []geometry.Point {
	res := make([]geometry.Point, len(p))
	for i, v := range p {
		res[i] = v.Point
	}

	return res
}

func (p Path) Empty() bool {
	return len(p) == 0
}

// AStar searches a grid of GridStep cells anchored on the start point.
// Moves go to the 8 neighbours; a cell is free when a square as wide as the
// footprint diagonal, centred on it, stays in the arena and touches no wall,
// whatever the heading. The heuristic is the straight
// distance to the goal centre.
//
// The open set and path of the last search are kept for observers.
type AStar struct {
	GridStep int

	mutex   sync.Mutex
	openset []Vertex
	path    Path
}

func NewAStar() *AStar {
	return &AStar{GridStep: DefaultGridStep}
}

func (astar *AStar) OpenSet() []Vertex {
	astar.mutex.Lock()
	defer astar.mutex.Unlock()

	res := make([]Vertex, len(astar.openset))
	copy(res, astar.openset)
	return res
}

func (astar *AStar) Path() Path {
	astar.mutex.Lock()
	defer astar.mutex.Unlock()

	res := make(Path, len(astar.path))
	copy(res, astar.path)
	return res
}

type cell struct {
	i int
	j int
}

var moves = []cell{
	{1, 0}, {0, 1}, {-1, 0}, {0, -1},
	{1, 1}, {-1, 1}, {-1, -1}, {1, -1},
}

type node struct {
	cell   cell
	g      float64
	h      float64
	seq    int
	parent *node
	index  int
}

func (n *node) f() float64 {
	return n.g + n.h
}

type openQueue []*node

func (q openQueue) Len() int { return len(q) }
func (q openQueue) Less(i, j int) bool {
	fi, fj := q[i].f(), q[j].f()
	if fi != fj {
		return fi < fj
	}

	if q[i].h != q[j].h {
		return q[i].h < q[j].h
	}

	return q[i].seq < q[j].seq
}
func (q openQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *openQueue) Push(x interface{}) {
	n := x.(*node)
	n.index = len(*q)
	*q = append(*q, n)
}

func (q *openQueue) Pop() interface{} {
	old := *q
	n := len(old)
	x := old[n-1]
	x.index = -1
	*q = old[0 : n-1]
	return x
}

// Search returns the route from start to the first vertex inside goal, or
// an empty path when there is none or ctx ends first.
func (astar *AStar) Search(ctx context.Context, world state.Snapshot, start geometry.Point, goal geometry.Region, footprint geometry.Size) Path {
	step := astar.GridStep
	if step <= 0 {
		step = DefaultGridStep
	}

	if footprint.IsZero() {
		footprint = geometry.DefaultSize
	}

	s := &search{
		world:     world,
		start:     start,
		step:      step,
		clearance: math.Hypot(float64(footprint.X), float64(footprint.Y)) / 2,
		target:    goal.Center(),
		blocked:   make(map[cell]bool),
	}

	path, open := s.run(ctx, goal)

	astar.mutex.Lock()
	astar.path = path
	astar.openset = open
	astar.mutex.Unlock()

	return path
}

// Search runs a one-off search with the default grid.
func Search(ctx context.Context, world state.Snapshot, start geometry.Point, goal geometry.Region, footprint geometry.Size) Path {
	return NewAStar().Search(ctx, world, start, goal, footprint)
}

type search struct {
	world     state.Snapshot
	start     geometry.Point
	step      int
	clearance float64
	target    vector.Vector2
	blocked   map[cell]bool
}

func (s *search) point(c cell) geometry.Point {
	return geometry.MakePoint(s.start.X+c.i*s.step, s.start.Y+c.j*s.step)
}

func (s *search) heuristic(c cell) float64 {
	return s.point(c).Vector().Distance(s.target)
}

func (s *search) isBlocked(c cell) bool {
	if b, ok := s.blocked[c]; ok {
		return b
	}

	b := s.computeBlocked(c)
	s.blocked[c] = b
	return b
}

func (s *search) computeBlocked(c cell) bool {
	p := s.point(c).Vector()
	half := vector.MakeVector2(s.clearance, s.clearance)
	min := p.Sub(half)
	max := p.Add(half)

	if min.GetX() < state.ArenaMin || min.GetY() < state.ArenaMin || max.GetX() > state.ArenaMax || max.GetY() > state.ArenaMax {
		return true
	}

	for _, wall := range s.world.WallsNear(min, max) {
		if trigo.SegmentIntersectsBox(wall.Segment(), min, max) {
			return true
		}
	}

	return false
}

// a move is legal when the target cell is free and, for diagonals, the
// footprint can slide past both corner cells.
func (s *search) canMove(from cell, move cell) bool {
	to := cell{from.i + move.i, from.j + move.j}
	if s.isBlocked(to) {
		return false
	}

	if move.i != 0 && move.j != 0 {
		if s.isBlocked(cell{from.i + move.i, from.j}) || s.isBlocked(cell{from.i, from.j + move.j}) {
			return false
		}
	}

	return true
}

func (s *search) run(ctx context.Context, goal geometry.Region) (Path, []Vertex) {
	origin := cell{0, 0}
	seq := 0

	first := &node{cell: origin, g: 0, h: s.heuristic(origin), seq: seq}
	if goal.Contains(s.start.Vector()) {
		return Path{s.vertex(first)}, nil
	}

	open := &openQueue{}
	heap.Push(open, first)

	best := map[cell]*node{origin: first}
	closed := make(map[cell]bool)

	expansions := 0
	for open.Len() > 0 {
		if expansions%256 == 0 && ctx.Err() != nil {
			return Path{}, s.openVertices(*open)
		}
		expansions++

		current := heap.Pop(open).(*node)
		if closed[current.cell] {
			continue
		}
		closed[current.cell] = true

		if current != first && goal.Contains(s.point(current.cell).Vector()) {
			return s.reconstruct(current), s.openVertices(*open)
		}

		for _, move := range moves {
			next := cell{current.cell.i + move.i, current.cell.j + move.j}
			if closed[next] || !s.canMove(current.cell, move) {
				continue
			}

			cost := float64(s.step)
			if move.i != 0 && move.j != 0 {
				cost *= math.Sqrt2
			}

			g := current.g + cost
			if known, ok := best[next]; ok && known.g <= g {
				continue
			}

			seq++
			n := &node{cell: next, g: g, h: s.heuristic(next), seq: seq, parent: current}
			best[next] = n
			heap.Push(open, n)
		}
	}

	return Path{}, nil
}

func (s *search) vertex(n *node) Vertex {
	return Vertex{Point: s.point(n.cell), G: n.g, H: n.h}
}

func (s *search) reconstruct(n *node) Path {
	var reversed Path
	for cur := n; cur != nil; cur = cur.parent {
		reversed = append(reversed, s.vertex(cur))
	}

	path := make(Path, len(reversed))
	for i, v := range reversed {
		path[len(reversed)-1-i] = v
	}

	return path
}

func (s *search) openVertices(q openQueue) []Vertex {
	res := make([]Vertex, 0, len(q))
	for _, n := range q {
		res = append(res, s.vertex(n))
	}

	return res
}
