package state

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/bytearena/robotworld/arenaserver/geometry"
	"github.com/bytearena/robotworld/common/utils"
)

const (
	recordRobot = "0"
	recordWall  = "1"

	// ShadowPrefix marks robots learned through a world sync.
	ShadowPrefix = "_"
)

var ErrMalformedPayload = errors.New("malformed payload")

// Serialize writes the local robots and every wall as newline separated
// records: "0 name x y" and "1 x1 y1 x2 y2". Shadow robots belong to a peer
// and are left out.
func (world *World) Serialize() string {
	snap := world.Snapshot()

	var sb strings.Builder

	for _, r := range snap.Robots {
		if r.Shadow {
			continue
		}

		sb.WriteString(SerializeRobot(r))
		sb.WriteByte('\n')
	}

	for _, w := range snap.Walls {
		sb.WriteString(recordWall)
		for _, c := range []int{w.P1().X, w.P1().Y, w.P2().X, w.P2().Y} {
			sb.WriteByte(' ')
			sb.WriteString(strconv.Itoa(c))
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}

func SerializeRobot(r RobotState) string {
	return recordRobot + " " + r.Name + " " + strconv.Itoa(r.Position.X) + " " + strconv.Itoa(r.Position.Y)
}

type FillReport struct {
	Robots  int
	Walls   int
	Skipped int
}

// Fill merges a serialized world into this one. Robots are registered as
// shadows under ShadowPrefix+name unless a broadcast already made one; known
// names and known walls are left alone. Lines that cannot be parsed are logged and skipped.
func (world *World) Fill(body string) FillReport {
	report := FillReport{}

	world.mutex.Lock()
	defer world.mutex.Unlock()

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)

		switch fields[0] {
		case recordRobot:
			if len(fields) != 4 {
				report.Skipped++
				utils.Debug("world", "Malformed robot record: "+line)
				continue
			}

			coords, err := atois(fields[2:])
			if err != nil {
				report.Skipped++
				utils.Debug("world", "Malformed robot record: "+line)
				continue
			}

			if _, known := world.shadowFor(fields[1]); known {
				continue
			}

			robot := MakeShadowRobotState(ShadowPrefix+fields[1], geometry.MakePoint(coords[0], coords[1]))
			if world.addRobot(robot) {
				report.Robots++
			}

		case recordWall:
			if len(fields) != 5 {
				report.Skipped++
				utils.Debug("world", "Malformed wall record: "+line)
				continue
			}

			coords, err := atois(fields[1:])
			if err != nil {
				report.Skipped++
				utils.Debug("world", "Malformed wall record: "+line)
				continue
			}

			if _, added := world.addWall(geometry.MakePoint(coords[0], coords[1]), geometry.MakePoint(coords[2], coords[3])); added {
				report.Walls++
			}

		default:
			report.Skipped++
			utils.Debug("world", "Unknown object: "+line)
		}
	}

	return report
}

// Location is the payload of a position broadcast.
type Location struct {
	Name     string
	Position geometry.Point
	Front    geometry.BoundedVector
}

func FormatLocation(r RobotState) string {
	return SerializeRobot(r) + " " + strconv.Itoa(r.Front.X) + " " + strconv.Itoa(r.Front.Y)
}

// ParseLocation reads "0 name x y frontX frontY".
func ParseLocation(body string) (Location, error) {
	fields := strings.Fields(body)
	if len(fields) != 6 || fields[0] != recordRobot {
		return Location{}, errors.Wrapf(ErrMalformedPayload, "location %q", body)
	}

	coords, err := atois(fields[2:])
	if err != nil {
		return Location{}, errors.Wrapf(ErrMalformedPayload, "location %q: %s", body, err)
	}

	return Location{
		Name:     fields[1],
		Position: geometry.MakePoint(coords[0], coords[1]),
		Front:    geometry.BoundedVector{X: coords[2], Y: coords[3]},
	}, nil
}

// shadowFor finds the entry that stands for the peer robot name: the synced
// shadow first, then a shadow of the bare name. Callers hold the lock.
func (world *World) shadowFor(name string) (RobotState, bool) {
	if synced, ok := world.robots[ShadowPrefix+name]; ok && synced.Shadow {
		return synced, true
	}

	if echoed, ok := world.robots[name]; ok && echoed.Shadow {
		return echoed, true
	}

	return RobotState{}, false
}

// ApplyLocation moves the shadow of the broadcasting robot, creating it when
// needed. A shadow learned through a sync is reused. A local robot is never
// moved: the shadow then goes under ShadowPrefix+name, and when that name is
// local too the location is dropped.
func (world *World) ApplyLocation(loc Location) (RobotState, bool) {
	world.mutex.Lock()
	defer world.mutex.Unlock()

	robot, ok := world.shadowFor(loc.Name)
	if !ok {
		name := loc.Name
		if _, taken := world.robots[name]; taken {
			name = ShadowPrefix + loc.Name
		}

		if _, taken := world.robots[name]; taken {
			utils.Debug("world", "No shadow slot for "+loc.Name)
			return RobotState{}, false
		}

		robot = MakeShadowRobotState(name, loc.Position)
		world.robotorder = append(world.robotorder, name)
	}

	robot.Position = loc.Position
	robot.Front = loc.Front
	world.robots[robot.Name] = robot

	return robot, true
}

func atois(fields []string) ([]int, error) {
	res := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}

		res[i] = v
	}

	return res, nil
}
