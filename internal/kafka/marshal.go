package kafka

import "encoding/json"

// MustMarshal is for values the service itself constructs; failing to
// marshal one is a programming error.
func MustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
