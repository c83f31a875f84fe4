package influxdb

// RobotMetrics counts what a robot did since the last flush.
type RobotMetrics struct {
	Steps        *Counter
	Collisions   *Counter
	Negotiations *Counter
	MessagesIn   *Counter
	MessagesOut  *Counter
	Failures     *Counter
}

func NewRobotMetrics() *RobotMetrics {
	return &RobotMetrics{
		Steps:        NewCounter(),
		Collisions:   NewCounter(),
		Negotiations: NewCounter(),
		MessagesIn:   NewCounter(),
		MessagesOut:  NewCounter(),
		Failures:     NewCounter(),
	}
}

// Fields empties the counters into a point.
func (m *RobotMetrics) Fields() map[string]interface{} {
	return map[string]interface{}{
		"steps":        m.Steps.Flush(),
		"collisions":   m.Collisions.Flush(),
		"negotiations": m.Negotiations.Flush(),
		"messagesin":   m.MessagesIn.Flush(),
		"messagesout":  m.MessagesOut.Flush(),
		"failures":     m.Failures.Flush(),
	}
}

// Report flushes m to c every FlushInterval.
func (m *RobotMetrics) Report(c *Client, name string) {
	c.Loop(func() {
		c.WriteAppMetric(name, m.Fields())
	})
}
