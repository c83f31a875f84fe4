package recording

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytearena/robotworld/common/utils"
)

func init() {
	utils.SetQuiet(true)
}

func TestFileRecorder(t *testing.T) {
	dir, err := ioutil.TempDir("", "recording")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	filename := filepath.Join(dir, "run.jsonl")

	fr, err := MakeFileRecorder(filename)
	require.NoError(t, err)

	var r Recorder = fr
	require.NoError(t, r.RecordMetadata([]string{"Alice", "Bob"}))
	require.NoError(t, r.Record("Alice", `{"kind":"started"}`))
	require.NoError(t, r.Record("Bob", `{"kind":"arrived"}`))
	assert.Error(t, r.Record("Bob", "two\nlines"))

	data, err := ioutil.ReadFile(filename)
	require.NoError(t, err)
	assert.Empty(t, data, "nothing is written before Close")

	r.Close()
	r.Close()
	assert.Error(t, r.Record("Alice", "{}"))

	data, err = ioutil.ReadFile(filename)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 3)

	var metadata RecordMetadata
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &metadata))
	assert.Equal(t, []string{"Alice", "Bob"}, metadata.Robots)
	assert.Equal(t, `{"kind":"arrived"}`, lines[2])
}

func TestEmptyRecorder(t *testing.T) {
	var r Recorder = MakeEmptyRecorder()

	assert.NoError(t, r.Record("Alice", "{}"))
	r.Close()
}

func TestFileRecorderBadPath(t *testing.T) {
	dir, err := ioutil.TempDir("", "recording")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	_, err = MakeFileRecorder(filepath.Join(dir, "missing", "run.jsonl"))
	assert.Error(t, err)
}
