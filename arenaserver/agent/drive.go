package agent

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"

	"github.com/bytearena/robotworld/arenaserver/geometry"
	"github.com/bytearena/robotworld/arenaserver/perception"
	"github.com/bytearena/robotworld/arenaserver/planner"
	"github.com/bytearena/robotworld/arenaserver/protocol"
	"github.com/bytearena/robotworld/arenaserver/state"
	"github.com/bytearena/robotworld/common/utils"
)

// StartActing sets the robot driving towards its goal. It reports false
// when the robot is already acting.
func (r *Robot) StartActing() bool {
	r.mutex.Lock()
	if r.lifecycle.Acting() {
		r.mutex.Unlock()
		return false
	}

	r.startLocked()
	r.mutex.Unlock()

	r.transition(EventStarted)
	return true
}

func (r *Robot) startLocked() {
	ctx, cancel := context.WithCancel(context.Background())

	r.run++
	run := r.run
	done := make(chan struct{})

	r.cancel = cancel
	r.done = done
	r.lifecycle = Driving
	r.forgetEncounterLocked()
	r.percepts.Clear()

	go func() {
		defer close(done)
		defer cancel()
		r.drive(ctx, run)
	}()
}

// StopActing halts the robot and waits for its driving goroutine.
func (r *Robot) StopActing() {
	r.mutex.Lock()
	cancel, done := r.cancel, r.done
	wasIdle := r.lifecycle == Idle && cancel == nil
	r.cancel, r.done = nil, nil
	r.run++
	r.lifecycle = Idle
	r.forgetEncounterLocked()
	r.mutex.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	if !wasIdle {
		r.transition(EventStopped)
	}
}

// forgetEncounterLocked drops the verdict and the roll of the last
// encounter. Callers hold the lock.
func (r *Robot) forgetEncounterLocked() {
	r.negotiation = Undetermined
	r.pendingRoll = 0
	r.pendingID = uuid.Nil
}

// rollLocked draws the number of the current encounter once, whichever side
// asks first. Callers hold the lock.
func (r *Robot) rollLocked() int {
	if r.pendingRoll == 0 {
		r.pendingRoll = r.config.Roll()
	}

	return r.pendingRoll
}

// halt stops the driving goroutine without waiting for it. Callers hold
// the lock.
func (r *Robot) haltLocked(lifecycle Lifecycle) {
	if r.cancel != nil {
		r.cancel()
	}

	r.cancel, r.done = nil, nil
	r.run++
	r.lifecycle = lifecycle
}

// finish ends run with lifecycle, unless the run was superseded.
func (r *Robot) finish(run int, lifecycle Lifecycle, kind EventKind) {
	r.mutex.Lock()
	current := r.run == run
	if current {
		r.lifecycle = lifecycle
		r.cancel = nil
	}
	r.mutex.Unlock()

	if current {
		r.transition(kind)
	}
}

func (r *Robot) current(run int) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.run == run
}

func (r *Robot) stride() int {
	step := planner.DefaultGridStep
	if r.astar.GridStep > 0 {
		step = r.astar.GridStep
	}

	stride := r.Speed() / step
	if stride < 1 {
		stride = 1
	}

	return stride
}

type routeOutcome int

const (
	routeStopped routeOutcome = iota
	routeDone
	routeResume
)

func (r *Robot) drive(ctx context.Context, run int) {
	defer func() {
		if rec := recover(); rec != nil {
			r.config.Metrics.Failures.Inc()
			utils.Warn("robot", fmt.Errorf("%s driving loop failed: %v", r.config.Name, rec))
			r.finish(run, Idle, EventFailure)
		}
	}()

	goal, ok := r.world.GetGoal(r.config.GoalName)
	if !ok {
		utils.Warn("robot", errors.Wrapf(ErrPlanningFailure, "%s has no goal named %s", r.config.Name, r.config.GoalName))
		r.finish(run, Idle, EventPlanningFailure)
		return
	}

	for {
		self := r.State()

		if self.Region().Intersects(goal.Region()) {
			r.arrive(ctx, run)
			return
		}

		path := r.astar.Search(ctx, r.world.Snapshot(), self.Position, goal.Region(), self.Size)
		if ctx.Err() != nil {
			return
		}

		if path.Empty() {
			utils.Warn("robot", errors.Wrapf(ErrPlanningFailure, "%s found no route from %s to %s", r.config.Name, self.Position, goal.Name))
			r.finish(run, Idle, EventPlanningFailure)
			return
		}

		utils.Debug("robot", r.config.Name+" planned "+strconv.Itoa(len(path))+" vertices to "+goal.Name)

		if r.follow(ctx, run, path, goal) != routeResume {
			return
		}
	}
}

// follow walks path until the robot arrives, stops, or wins a negotiation
// and has to plan again from where it stands.
func (r *Robot) follow(ctx context.Context, run int, path planner.Path, goal state.Goal) routeOutcome {
	stride := r.stride()
	goalRegion := goal.Region()
	index := 0

	for {
		if ctx.Err() != nil {
			return routeStopped
		}

		self := r.State()
		if !self.InArena() {
			utils.Debug("robot", r.config.Name+" left the arena at "+self.Position.String())
			r.finish(run, Idle, EventStopped)
			return routeDone
		}

		if index >= len(path)-1 {
			// the last vertex lies in the goal; only a moved goal gets here
			r.finish(run, Idle, EventStopped)
			return routeDone
		}

		// overshooting lands on the last vertex once
		index += stride
		if index > len(path)-1 {
			index = len(path) - 1
		}

		moved := r.step(path[index].Point, self)
		snap := r.world.Snapshot()

		perception.Sense(r.config.Sensors, moved, snap, r.percepts)
		r.broadcast(ctx, moved)

		if perception.WallCollision(moved, snap.Walls) {
			utils.Debug("robot", r.config.Name+" hit a wall at "+moved.Position.String())
			r.finish(run, Idle, EventWallCollision)
			return routeDone
		}

		if moved.Region().Intersects(goalRegion) {
			r.arrive(ctx, run)
			return routeDone
		}

		if r.collisionAhead() {
			r.config.Metrics.Collisions.Inc()

			if r.Negotiation() == Undetermined {
				if r.negotiate(ctx, run) == Won {
					return routeResume
				}

				return routeStopped
			}
		}

		r.notifier.Step(r.event(EventStep))

		select {
		case <-ctx.Done():
			return routeStopped
		case <-time.After(r.config.StepInterval):
		}
	}
}

func (r *Robot) step(to geometry.Point, self state.RobotState) state.RobotState {
	front := geometry.MakeBoundedVector(to, self.Position)
	if front.IsNull() {
		front = self.Front
	}

	moved, _ := r.world.MoveRobot(r.config.Name, to, front)
	r.config.Metrics.Steps.Inc()

	return moved
}

// collisionAhead consumes this step's percepts.
func (r *Robot) collisionAhead() bool {
	collision := false

	for i := 0; i < len(r.config.Sensors); i++ {
		p, ok := r.percepts.Pop()
		if !ok {
			break
		}

		if cp, ok := p.(perception.CollisionPercept); ok && cp.Collision {
			collision = true
		}
	}

	return collision
}

func (r *Robot) broadcast(ctx context.Context, self state.RobotState) {
	peer := r.peer()
	if peer == "" || !r.config.Broadcast {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, broadcastTimeout)
	defer cancel()

	response, err := r.send(ctx, peer, protocol.NewMessage(protocol.EchoLocation, state.FormatLocation(self)))
	if err != nil {
		utils.Debug("robot", r.config.Name+" could not broadcast its position: "+err.Error())
		return
	}

	r.applyLocation(response.Body)
}

func (r *Robot) applyLocation(body string) {
	loc, err := state.ParseLocation(body)
	if err != nil {
		return
	}

	r.world.ApplyLocation(loc)
}

func (r *Robot) arrive(ctx context.Context, run int) {
	r.mutex.Lock()
	if r.run != run {
		r.mutex.Unlock()
		return
	}

	won := r.negotiation == Won
	r.lifecycle = Arrived
	r.forgetEncounterLocked()
	r.cancel = nil
	r.mutex.Unlock()

	utils.Debug("robot", r.config.Name+" arrived at "+r.Position().String())
	r.transition(EventArrived)

	if !won {
		return
	}

	peer := r.peer()
	if peer == "" {
		return
	}

	response, err := r.send(ctx, peer, protocol.NewMessage(protocol.DriveRequest, r.config.Name))
	if err != nil {
		utils.Warn("robot", errors.Wrapf(err, "%s could not release its peer", r.config.Name))
		return
	}

	utils.Debug("robot", r.config.Name+" released its peer: "+response.Body)
}

// negotiate asks the peer who keeps the right of way and applies the
// outcome. A peer that cannot be reached counts as a win.
func (r *Robot) negotiate(ctx context.Context, run int) Negotiation {
	r.mutex.Lock()
	if r.run != run {
		r.mutex.Unlock()
		return Lost
	}

	// the peer's own request may have settled this encounter meanwhile
	if r.negotiation != Undetermined {
		outcome := r.negotiation
		r.mutex.Unlock()
		return outcome
	}

	roll := r.rollLocked()
	request := protocol.NewMessage(protocol.NegotiateRequest, strconv.Itoa(roll))

	r.lifecycle = Negotiating
	r.pendingID = request.ID
	r.mutex.Unlock()

	r.config.Metrics.Negotiations.Inc()
	r.transition(EventCollision)

	outcome, err := r.askPeer(ctx, request)

	r.mutex.Lock()
	if r.negotiation == Undetermined {
		r.negotiation = outcome
	}
	outcome = r.negotiation

	current := r.run == run
	if current {
		if outcome == Won {
			r.lifecycle = Driving
		} else {
			r.lifecycle = Yielding
			r.cancel = nil
		}
	}
	r.mutex.Unlock()

	if err != nil {
		utils.Warn("robot", errors.Wrapf(err, "%s negotiation", r.config.Name))
	}

	utils.Debug("robot", r.config.Name+" rolled "+strconv.Itoa(roll)+" and "+outcome.String())

	if current {
		r.transition(EventNegotiated)
	}

	return outcome
}

func (r *Robot) askPeer(ctx context.Context, request protocol.Message) (Negotiation, error) {
	peer := r.peer()
	if peer == "" {
		return Won, nil
	}

	response, err := r.send(ctx, peer, request)
	if err != nil {
		return Won, err
	}

	outcome, err := requesterOutcome(response.Body)
	if err != nil {
		return Won, err
	}

	return outcome, nil
}

func (r *Robot) send(ctx context.Context, peer string, msg protocol.Message) (protocol.Message, error) {
	r.config.Metrics.MessagesOut.Inc()
	return r.config.Client.Send(ctx, peer, msg)
}
