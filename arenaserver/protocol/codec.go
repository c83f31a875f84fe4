package protocol

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"github.com/bytearena/robotworld/common/utils"
)

var ErrProtocolViolation = errors.New("protocol violation")

// WriteMessage writes msg as one JSON object followed by a newline.
func WriteMessage(w io.Writer, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", msg.Type)
	}

	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return err
	}

	return nil
}

// ReadMessage reads one line and decodes it. I/O errors are returned as is;
// a line that is not a message is an ErrProtocolViolation.
func ReadMessage(r *bufio.Reader) (Message, error) {
	line, err := utils.ReadFullLine(r)
	if err != nil {
		return Message{}, err
	}

	var msg Message
	if err := json.Unmarshal([]byte(line), &msg); err != nil {
		return Message{}, errors.Wrapf(ErrProtocolViolation, "undecodable frame %q: %s", line, err)
	}

	return msg, nil
}
