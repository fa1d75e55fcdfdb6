// Package types holds the wire envelopes shared with clients. The league
// state travels as the raw JSON document the server persists, so clients
// and the store agree on one schema.
package types

import "encoding/json"

// ClientMessage is what a websocket client sends.
//
// Supported types: Register, Unregister, Draw, ClaimFranchise.
// Trade building goes through the HTTP API; the socket is for the live
// lottery flow and state fan-out.
type ClientMessage struct {
	Type          string `json:"type"`
	ParticipantID string `json:"participant_id,omitempty"`
	FranchiseID   string `json:"franchise_id,omitempty"`
}

// ServerMessage is the envelope for everything the server pushes.
// Type is "StateSnapshot" or "Error".
type ServerMessage struct {
	Type    string          `json:"type"`
	Version int64           `json:"version,omitempty"`
	State   json.RawMessage `json:"state,omitempty"`
	Error   string          `json:"error,omitempty"`
}
