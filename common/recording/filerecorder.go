package recording

import (
	"encoding/json"
	"io/ioutil"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/bytearena/robotworld/common/utils"
)

type RecordMetadata struct {
	Date   string
	Robots []string
}

// FileRecorder buffers JSON lines and writes them to filename on Close. The
// first line holds the RecordMetadata.
type FileRecorder struct {
	filename string

	lock     sync.Mutex
	buffer   strings.Builder
	metadata *RecordMetadata
	closed   bool
}

func MakeFileRecorder(filename string) (*FileRecorder, error) {
	if err := touch(filename); err != nil {
		return nil, err
	}

	return &FileRecorder{filename: filename}, nil
}

func (r *FileRecorder) RecordMetadata(robots []string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.metadata = &RecordMetadata{
		Date:   time.Now().Format(time.RFC3339),
		Robots: robots,
	}

	utils.Debug("FileRecorder", "created RecordMetadata")

	return nil
}

func (r *FileRecorder) Record(robot string, msg string) error {
	if strings.ContainsRune(msg, '\n') {
		return errors.Errorf("record of %s spans several lines", robot)
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	if r.closed {
		return errors.New("recorder is closed")
	}

	r.buffer.WriteString(msg)
	r.buffer.WriteByte('\n')

	return nil
}

func (r *FileRecorder) Close() {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.closed {
		return
	}
	r.closed = true

	metadata := r.metadata
	if metadata == nil {
		metadata = &RecordMetadata{Date: time.Now().Format(time.RFC3339), Robots: []string{}}
	}

	header, err := json.Marshal(metadata)
	utils.Check(err, "Could not serialize RecordMetadata")

	err = ioutil.WriteFile(r.filename, []byte(string(header)+"\n"+r.buffer.String()), 0644)
	if err != nil {
		utils.Warn("FileRecorder", errors.Wrap(err, "could not write record"))
		return
	}

	utils.Debug("FileRecorder", "wrote record to "+r.filename)
}
