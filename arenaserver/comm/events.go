package comm

type EventLog struct{ Value string }
type EventError struct{ Err error }
type EventWarn struct{ Err error }

// EventStopped is sent once the listener has shut down.
type EventStopped struct{}
