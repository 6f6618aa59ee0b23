package task

import "encoding/json"

// Task is a durable queue payload. TaskType names the stream the payload
// travels on; TaskValue is the serialized form stored in the stream entry.
type Task interface {
	TaskType() string
	TaskValue() ([]byte, error)
}

// DefaultTaskValue is the shared JSON serialization used by task types.
func DefaultTaskValue(task interface{}) ([]byte, error) {
	return json.Marshal(task)
}

// UnmarshalTask decodes a stream entry's payload back into its task type.
func UnmarshalTask[T Task](task []byte) (T, error) {
	var t T
	err := json.Unmarshal(task, &t)
	return t, err
}
