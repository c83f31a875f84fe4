package agent

import (
	"context"
	"strconv"

	"github.com/pkg/errors"

	"github.com/bytearena/robotworld/arenaserver/geometry"
	"github.com/bytearena/robotworld/arenaserver/protocol"
	"github.com/bytearena/robotworld/arenaserver/state"
	"github.com/bytearena/robotworld/common/utils"
)

// HandleRequest answers one inbound message. It never fails: anything it
// cannot handle gets the default body back.
func (r *Robot) HandleRequest(msg protocol.Message) protocol.Message {
	r.config.Metrics.MessagesIn.Inc()

	switch msg.Type {
	case protocol.SyncRequest:
		report := r.world.Fill(msg.Body)
		utils.DebugWith("robot", r.config.Name+" synced the world", utils.Context{
			"robots":  report.Robots,
			"walls":   report.Walls,
			"skipped": report.Skipped,
		})
		return msg.Reply(protocol.SyncResponse, r.world.Serialize())

	case protocol.EchoRequest:
		return msg.Reply(protocol.EchoResponse, ": case 1 "+msg.Body)

	case protocol.EchoLocation:
		loc, err := state.ParseLocation(msg.Body)
		if err != nil {
			return r.fallback(msg, err)
		}

		r.world.ApplyLocation(loc)
		return msg.Reply(protocol.EchoLocation, state.FormatLocation(r.State()))

	case protocol.NegotiateRequest:
		roll, err := parseRoll(msg.Body)
		if err != nil {
			return r.fallback(msg, err)
		}

		return msg.Reply(protocol.NegotiateResponse, encodeVerdict(r.respondToNegotiation(roll, msg)))

	case protocol.DriveRequest:
		return msg.Reply(protocol.DriveResponse, strconv.FormatBool(r.resume()))

	case protocol.StartRequest:
		return msg.Reply(protocol.StartResponse, strconv.FormatBool(r.StartActing()))

	case protocol.SendBackRequest:
		return msg.Reply(protocol.SendBackResponse, state.FormatLocation(r.sendBack()))
	}

	return r.fallback(msg, errors.Wrapf(protocol.ErrProtocolViolation, "no handler for %s", msg.Type))
}

func (r *Robot) fallback(msg protocol.Message, err error) protocol.Message {
	utils.Debug("robot", r.config.Name+": default; "+err.Error())
	return msg.Reply(msg.Type, protocol.DefaultBody)
}

// respondToNegotiation settles the round as the responder and reports
// whether this robot won it.
func (r *Robot) respondToNegotiation(requesterRoll int, request protocol.Message) bool {
	r.mutex.Lock()

	if r.negotiation != Undetermined {
		won := r.negotiation == Won
		r.mutex.Unlock()
		return won
	}

	// a robot that is not driving would never release the requester
	if !r.lifecycle.Acting() {
		lifecycle := r.lifecycle
		r.mutex.Unlock()

		utils.Debug("robot", r.config.Name+" is "+lifecycle.String()+" and lets its peer through")
		return false
	}

	var won bool
	if r.lifecycle == Negotiating {
		won = crossedWins(r.pendingRoll, r.pendingID, requesterRoll, request.ID)
	} else {
		won = ResponderWins(requesterRoll, r.rollLocked())
	}

	r.negotiation = outcomeOf(won)

	halted := false
	if !won && r.lifecycle == Driving {
		r.haltLocked(Yielding)
		halted = true
	}
	r.mutex.Unlock()

	r.config.Metrics.Negotiations.Inc()
	utils.Debug("robot", r.config.Name+" answered a negotiation and "+outcomeOf(won).String())

	if halted {
		r.transition(EventNegotiated)
	}

	return won
}

// resume lets a yielding robot drive again.
func (r *Robot) resume() bool {
	r.mutex.Lock()
	if r.lifecycle != Yielding {
		r.mutex.Unlock()
		return false
	}

	r.startLocked()
	r.mutex.Unlock()

	r.transition(EventResumed)
	return true
}

// sendBack moves the robot back along its heading.
func (r *Robot) sendBack() state.RobotState {
	distance := float64(r.config.SendBackDistance)

	moved, _ := r.world.UpdateRobot(r.config.Name, func(robot *state.RobotState) {
		if robot.Front.IsNull() {
			return
		}

		back := robot.Front.Vector().SetMag(distance)
		robot.Position = geometry.PointFromVector(robot.Position.Vector().Sub(back))
	})

	r.transition(EventSentBack)

	return moved
}

// Sync sends the local world to the peer and merges the peer's answer.
func (r *Robot) Sync(ctx context.Context) (state.FillReport, error) {
	response, err := r.request(ctx, protocol.SyncRequest, r.world.Serialize())
	if err != nil {
		return state.FillReport{}, err
	}

	return r.world.Fill(response.Body), nil
}

// Echo probes the peer.
func (r *Robot) Echo(ctx context.Context, body string) (string, error) {
	response, err := r.request(ctx, protocol.EchoRequest, body)
	if err != nil {
		return "", err
	}

	return response.Body, nil
}

// RequestStart asks the peer robot to start acting.
func (r *Robot) RequestStart(ctx context.Context) (bool, error) {
	response, err := r.request(ctx, protocol.StartRequest, r.config.Name)
	if err != nil {
		return false, err
	}

	return strconv.ParseBool(response.Body)
}

// RequestSendBack asks the peer robot to back off.
func (r *Robot) RequestSendBack(ctx context.Context) error {
	response, err := r.request(ctx, protocol.SendBackRequest, r.config.Name)
	if err != nil {
		return err
	}

	r.applyLocation(response.Body)
	return nil
}

func (r *Robot) request(ctx context.Context, t protocol.MessageType, body string) (protocol.Message, error) {
	peer := r.peer()
	if peer == "" {
		return protocol.Message{}, ErrNoPeer
	}

	return r.send(ctx, peer, protocol.NewMessage(t, body))
}
