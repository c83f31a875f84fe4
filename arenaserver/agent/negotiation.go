package agent

import (
	"bytes"
	"math/rand"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"

	"github.com/bytearena/robotworld/arenaserver/protocol"
)

const MaxRoll = 100

// RandomRoll draws in [1, MaxRoll].
func RandomRoll(rng *rand.Rand) int {
	return rng.Intn(MaxRoll) + 1
}

// ResponderWins settles a round from both rolls. The responder keeps the
// right of way on a tie.
func ResponderWins(requesterRoll int, responderRoll int) bool {
	return responderRoll >= requesterRoll
}

// crossedWins settles a round when both robots sent a request at the same
// time and each one answers the other. Both sides must reach the same
// verdict, so a tie goes to the robot whose own request has the smaller ID.
func crossedWins(ownRoll int, ownRequest uuid.UUID, peerRoll int, peerRequest uuid.UUID) bool {
	if ownRoll != peerRoll {
		return ownRoll > peerRoll
	}

	return bytes.Compare(ownRequest.Bytes(), peerRequest.Bytes()) < 0
}

func parseRoll(body string) (int, error) {
	roll, err := strconv.Atoi(strings.TrimSpace(body))
	if err != nil || roll < 1 || roll > MaxRoll {
		return 0, errors.Wrapf(protocol.ErrProtocolViolation, "bad roll %q", body)
	}

	return roll, nil
}

// The negotiate response tells whether the responder won. The requester
// reads its own outcome by inverting it.
func encodeVerdict(responderWon bool) string {
	return strconv.FormatBool(responderWon)
}

func requesterOutcome(body string) (Negotiation, error) {
	responderWon, err := strconv.ParseBool(strings.TrimSpace(body))
	if err != nil {
		return Undetermined, errors.Wrapf(protocol.ErrProtocolViolation, "bad verdict %q", body)
	}

	if responderWon {
		return Lost, nil
	}

	return Won, nil
}

func outcomeOf(won bool) Negotiation {
	if won {
		return Won
	}

	return Lost
}
