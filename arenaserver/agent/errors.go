package agent

import "github.com/pkg/errors"

var (
	ErrPlanningFailure = errors.New("planning failure")
	ErrNoPeer          = errors.New("no peer configured")
)
