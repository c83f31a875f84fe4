package state

import (
	"github.com/dhconnelly/rtreego"

	"github.com/bytearena/robotworld/common/utils/vector"
)

// wallIndex is an immutable R-tree over the walls. The world replaces it on
// every insertion so snapshots can keep using the one they captured.
type wallIndex struct {
	tree *rtreego.Rtree
}

type indexedWall struct {
	wall Wall
}

func (iw indexedWall) Bounds() rtreego.Rect {
	return iw.wall.Bounds()
}

func buildWallIndex(walls []Wall) wallIndex {
	tree := rtreego.NewTree(2, 25, 50)
	for _, w := range walls {
		tree.Insert(indexedWall{wall: w})
	}

	return wallIndex{tree: tree}
}

// intersecting returns walls whose bounding box touches [min, max].
func (idx wallIndex) intersecting(min vector.Vector2, max vector.Vector2) []Wall {
	if idx.tree == nil {
		return nil
	}

	width := max.GetX() - min.GetX()
	height := max.GetY() - min.GetY()
	if width <= 0 || height <= 0 {
		return nil
	}

	bb, err := rtreego.NewRect(rtreego.Point{min.GetX(), min.GetY()}, []float64{width, height})
	if err != nil {
		return nil
	}

	matching := idx.tree.SearchIntersect(bb)
	res := make([]Wall, 0, len(matching))
	for _, m := range matching {
		res = append(res, m.(indexedWall).wall)
	}

	return res
}
