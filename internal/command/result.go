package command

import (
	"encoding/json"
	"fmt"
)

// Status is the outcome of a command.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Result is the uniform outcome of every command: a status plus named fields.
// It encodes as a flat JSON object, {"status": "...", <fields>...}.
type Result struct {
	Status Status
	Fields map[string]any
}

// Success builds a successful result carrying fields.
func Success(fields map[string]any) *Result {
	if fields == nil {
		fields = map[string]any{}
	}
	return &Result{Status: StatusSuccess, Fields: fields}
}

// Failed builds a business failure with a human readable message.
func Failed(message string) *Result {
	return &Result{Status: StatusFailed, Fields: map[string]any{"message": message}}
}

// OK reports whether the command succeeded.
func (r *Result) OK() bool {
	return r != nil && r.Status == StatusSuccess
}

// Message returns the "message" field, if any.
func (r *Result) Message() string {
	if r == nil {
		return ""
	}
	msg, _ := r.Fields["message"].(string)
	return msg
}

func (r *Result) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+1)
	for k, v := range r.Fields {
		out[k] = v
	}
	out["status"] = r.Status
	return json.Marshal(out)
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	status, ok := raw["status"].(string)
	if !ok {
		return fmt.Errorf("result has no status")
	}
	delete(raw, "status")

	r.Status = Status(status)
	r.Fields = raw
	return nil
}
