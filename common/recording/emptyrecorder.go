package recording

type EmptyRecorder struct{}

func MakeEmptyRecorder() EmptyRecorder {
	return EmptyRecorder{}
}

func (r EmptyRecorder) RecordMetadata(robots []string) error {
	return nil
}

func (r EmptyRecorder) Record(robot string, msg string) error {
	return nil
}

func (r EmptyRecorder) Close() {}
