package recording

import (
	"os"

	"github.com/pkg/errors"
)

// Recorder keeps the telemetry lines of a run.
type Recorder interface {
	RecordMetadata(robots []string) error
	Record(robot string, msg string) error
	Close()
}

// touch makes sure path can be written before the run starts, so a bad
// record file fails early instead of on Close.
func touch(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrap(err, "could not create record file")
	}

	return f.Close()
}
