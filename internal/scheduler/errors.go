package scheduler

import (
	"errors"
	"fmt"
)

// ErrMissingDeadline is returned for a block without a deadline.
var ErrMissingDeadline = errors.New("block has no deadline")

// ConfigurationError aborts a scheduling run: a team calendar could not
// produce a working day for some process of some block.
type ConfigurationError struct {
	ProjectNo string
	BlockNo   string
	Process   string
	Team      string
	Err       error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("scheduling %s-%s: process %q (team %q): %v",
		e.ProjectNo, e.BlockNo, e.Process, e.Team, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
