package protocol

import (
	"strconv"

	uuid "github.com/satori/go.uuid"
)

type MessageType int

const (
	Stop MessageType = 1

	SyncRequest MessageType = iota + 49
	SyncResponse
	EchoRequest
	EchoResponse
	EchoLocation
	NegotiateRequest
	NegotiateResponse
	SendBackRequest
	SendBackResponse
	DriveRequest
	DriveResponse
	StartRequest
	StartResponse
)

var messageTypeNames = map[MessageType]string{
	Stop:              "Stop",
	SyncRequest:       "SyncRequest",
	SyncResponse:      "SyncResponse",
	EchoRequest:       "EchoRequest",
	EchoResponse:      "EchoResponse",
	EchoLocation:      "EchoLocation",
	NegotiateRequest:  "NegotiateRequest",
	NegotiateResponse: "NegotiateResponse",
	SendBackRequest:   "SendBackRequest",
	SendBackResponse:  "SendBackResponse",
	DriveRequest:      "DriveRequest",
	DriveResponse:     "DriveResponse",
	StartRequest:      "StartRequest",
	StartResponse:     "StartResponse",
}

func (t MessageType) String() string {
	if name, ok := messageTypeNames[t]; ok {
		return name
	}

	return "MessageType(" + strconv.Itoa(int(t)) + ")"
}

func (t MessageType) Known() bool {
	_, ok := messageTypeNames[t]
	return ok
}

// DefaultBody answers any request the receiver has no handler for.
const DefaultBody = " default  Goodbye cruel world!"

const StopBody = "stop"

// Message is one request or response. Body is plain text: space separated
// tokens or newline separated records.
type Message struct {
	ID   uuid.UUID
	Type MessageType
	Body string
}

func NewMessage(t MessageType, body string) Message {
	return Message{
		ID:   uuid.NewV4(),
		Type: t,
		Body: body,
	}
}

// Reply keeps the request ID so both ends log the same exchange.
func (m Message) Reply(t MessageType, body string) Message {
	return Message{
		ID:   m.ID,
		Type: t,
		Body: body,
	}
}

func (m Message) String() string {
	return m.Type.String() + "[" + m.ID.String() + "] " + strconv.Quote(m.Body)
}
