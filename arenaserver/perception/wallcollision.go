package perception

import (
	"github.com/bytearena/robotworld/arenaserver/state"
	"github.com/bytearena/robotworld/common/utils/trigo"
)

// WallCollision tests the front and side edges of the robot against every
// wall.
func WallCollision(self state.RobotState, walls []state.Wall) bool {
	body := self.Body()

	for _, wall := range walls {
		seg := wall.Segment()
		if trigo.SegmentsIntersect(body.FrontEdge(), seg) ||
			trigo.SegmentsIntersect(body.LeftEdge(), seg) ||
			trigo.SegmentsIntersect(body.RightEdge(), seg) {
			return true
		}
	}

	return false
}
