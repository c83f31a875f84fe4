package planner

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytearena/robotworld/arenaserver/geometry"
	"github.com/bytearena/robotworld/arenaserver/state"
	"github.com/bytearena/robotworld/common/utils/trigo"
	"github.com/bytearena/robotworld/common/utils/vector"
)

func goalAt(x, y, size int) geometry.Region {
	return geometry.MakeRectRegion(geometry.MakePoint(x, y), geometry.Size{X: size, Y: size})
}

func worldWithWalls(walls ...[4]int) *state.World {
	world := state.NewWorld()
	for _, w := range walls {
		world.AddWall(geometry.MakePoint(w[0], w[1]), geometry.MakePoint(w[2], w[3]))
	}

	return world
}

func assertValidPath(t *testing.T, path Path, start geometry.Point, goal geometry.Region, walls []state.Wall) {
	t.Helper()

	require.False(t, path.Empty())
	assert.Equal(t, start, path[0].Point)
	assert.True(t, goal.Contains(path[len(path)-1].Vector()), "last vertex %s not in goal", path[len(path)-1].Point)

	for i := 1; i < len(path); i++ {
		assert.LessOrEqual(t, path[i-1].Distance(path[i].Point), DefaultGridStep*math.Sqrt2+1e-9)
	}

	half := vector.MakeVector2(10, 10)
	for _, v := range path[1:] {
		for _, w := range walls {
			assert.False(t, trigo.SegmentIntersectsBox(w.Segment(), v.Vector().Sub(half), v.Vector().Add(half)), "vertex %s touches %s", v.Point, w)
		}
	}
}

func TestSearchOpenArena(t *testing.T) {
	world := state.NewWorld()
	start := geometry.MakePoint(50, 50)
	goal := goalAt(400, 400, 40)

	path := Search(context.Background(), world.Snapshot(), start, goal, geometry.DefaultSize)

	assertValidPath(t, path, start, goal, nil)
}

func TestSearchAroundWall(t *testing.T) {
	world := worldWithWalls([4]int{250, 0, 250, 400})
	start := geometry.MakePoint(100, 100)
	goal := goalAt(400, 100, 40)

	path := Search(context.Background(), world.Snapshot(), start, goal, geometry.DefaultSize)

	assertValidPath(t, path, start, goal, world.Walls())

	passed := false
	for _, v := range path {
		if v.Y > 400 {
			passed = true
		}
	}
	assert.True(t, passed, "route must go around the wall end")
}

func TestSearchWalledOffGoal(t *testing.T) {
	world := worldWithWalls(
		[4]int{360, 360, 440, 360},
		[4]int{440, 360, 440, 440},
		[4]int{440, 440, 360, 440},
		[4]int{360, 440, 360, 360},
	)

	astar := NewAStar()
	path := astar.Search(context.Background(), world.Snapshot(), geometry.MakePoint(50, 50), goalAt(400, 400, 40), geometry.DefaultSize)

	assert.True(t, path.Empty())
	assert.True(t, astar.Path().Empty())
}

func TestSearchIsDeterministic(t *testing.T) {
	world := worldWithWalls([4]int{200, 100, 200, 300}, [4]int{100, 200, 300, 200})
	snap := world.Snapshot()
	start := geometry.MakePoint(60, 60)
	goal := goalAt(420, 380, 30)

	first := Search(context.Background(), snap, start, goal, geometry.DefaultSize)
	second := Search(context.Background(), snap, start, goal, geometry.DefaultSize)

	require.False(t, first.Empty())
	assert.Equal(t, first.Points(), second.Points())
}

func TestSearchStartInsideGoal(t *testing.T) {
	path := Search(context.Background(), state.NewWorld().Snapshot(), geometry.MakePoint(400, 400), goalAt(400, 400, 40), geometry.DefaultSize)

	require.Len(t, path, 1)
	assert.Equal(t, geometry.MakePoint(400, 400), path[0].Point)
}

func TestSearchHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := Search(ctx, state.NewWorld().Snapshot(), geometry.MakePoint(50, 50), goalAt(400, 400, 40), geometry.DefaultSize)

	assert.True(t, path.Empty())
}

func TestSearchTelemetry(t *testing.T) {
	astar := NewAStar()
	path := astar.Search(context.Background(), state.NewWorld().Snapshot(), geometry.MakePoint(50, 50), goalAt(200, 50, 20), geometry.DefaultSize)

	require.False(t, path.Empty())
	assert.Equal(t, path.Points(), astar.Path().Points())
	assert.NotEmpty(t, astar.OpenSet())

	// copies are handed out
	telemetry := astar.Path()
	telemetry[0].X = -1
	assert.Equal(t, 50, astar.Path()[0].X)
}
