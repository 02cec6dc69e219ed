package envelope

import "encoding/json"

// Headers carry the protocol metadata attached to every envelope.
type Headers struct {
	Version    string `json:"version"`
	Compressed bool   `json:"compressed,omitempty"`
}

// Envelope is the versioned wire structure exchanged with the remote scope.
// Payload stays raw so callers can decode it into their own shapes.
type Envelope struct {
	Headers Headers           `json:"headers"`
	Payload json.RawMessage   `json:"payload,omitempty"`
	Context map[string]string `json:"context,omitempty"`
}

func New(version string, payload json.RawMessage, context map[string]string) *Envelope {
	return &Envelope{
		Headers: Headers{Version: version},
		Payload: payload,
		Context: context,
	}
}
