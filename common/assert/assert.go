package assert

import (
	"github.com/bytearena/robotworld/common/utils"
	bettererrors "github.com/xtuc/better-errors"
)

// Check returns an assertion chain for msg when cond does not hold, nil
// otherwise. kv are context key/value pairs attached to the chain.
func Check(cond bool, msg string, kv ...string) error {
	if cond {
		return nil
	}

	err := bettererrors.New("Assertion failed").With(bettererrors.New(msg))
	for i := 0; i+1 < len(kv); i += 2 {
		err = err.SetContext(kv[i], kv[i+1])
	}

	return err
}

// Assert exits through utils.FailWith when cond does not hold.
func Assert(cond bool, msg string, kv ...string) {
	if err := Check(cond, msg, kv...); err != nil {
		utils.FailWith(err)
	}
}
