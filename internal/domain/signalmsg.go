package domain

import "encoding/json"

const (
	MsgJoinRoom     = "join-room"
	MsgJoinAck      = "join-ack"
	MsgOffer        = "offer"
	MsgAnswer       = "answer"
	MsgICECandidate = "ice-candidate"
	MsgNewFile      = "new-file"
	MsgPeerJoined   = "peer-joined"
	MsgPeerLeft     = "peer-left"
)

// SignalMessage is the JSON envelope exchanged over the websocket.
// Inbound join requests fill Room/Password/Role; relayed negotiation
// messages carry the sender's payload byte-for-byte in Payload.
type SignalMessage struct {
	Type     string          `json:"type"`
	Room     string          `json:"room,omitempty"`
	Password string          `json:"password,omitempty"`
	Role     string          `json:"role,omitempty"`
	From     string          `json:"from,omitempty"`
	OK       *bool           `json:"ok,omitempty"`
	Err      string          `json:"err,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}
