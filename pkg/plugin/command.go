package plugin

import "encoding/json"

// Command is an extra invocation mode a variant exposes. Definition
// documents accept either a bare argument string or the structured form;
// the bare form round-trips back to a plain string.
type Command struct {
	Args        string
	Description *string
	Executable  *string
}

// structured reports whether the command carries more than bare args.
func (c Command) structured() bool {
	return c.Description != nil || c.Executable != nil
}

func (c Command) MarshalJSON() ([]byte, error) {
	if !c.structured() {
		return json.Marshal(c.Args)
	}
	return json.Marshal(struct {
		Args        string  `json:"args"`
		Description *string `json:"description,omitempty"`
		Executable  *string `json:"executable,omitempty"`
	}{c.Args, c.Description, c.Executable})
}
