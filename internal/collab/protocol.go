package collab

import (
	"encoding/json"

	"github.com/inamate/inamate/canvas-go/internal/object"
)

type Message struct {
	Type     string          `json:"type"`
	BoardID  string          `json:"boardId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	UserID   string          `json:"userId,omitempty"`
	Seq      int64           `json:"seq,omitempty"`
	Payload  json.RawMessage `json:"payload"`
}

// PresencePayload is a user's live state. HoverTarget is filled in by the
// server from the cursor position.
type PresencePayload struct {
	Cursor      *CursorPos `json:"cursor,omitempty"`
	Selection   []string   `json:"selection,omitempty"`
	HoverTarget string     `json:"hoverTarget,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
}

type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	UserID string `json:"userId"`
}

type WelcomePayload struct {
	ClientID string `json:"clientId"`
	UserID   string `json:"userId"`
}

// DocSyncPayload carries the full canvas document a client starts from.
type DocSyncPayload struct {
	Version   int             `json:"version"`
	ServerSeq int64           `json:"serverSeq"`
	Document  json.RawMessage `json:"document"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

const (
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
	TypeError          = "error"

	// Connection
	TypeWelcome = "welcome"

	// Document sync
	TypeDocSync = "doc.sync"

	// Operation message types
	TypeOpSubmit    = "op.submit"
	TypeOpAck       = "op.ack"
	TypeOpNack      = "op.nack"
	TypeOpBroadcast = "op.broadcast"
)

// Operation types.
const (
	OpObjectAdd     = "object.add"
	OpObjectRemove  = "object.remove"
	OpObjectUpdate  = "object.update"
	OpObjectReorder = "object.reorder"
	OpCanvasUpdate  = "canvas.update"
)

// Operation is one edit to a board's canvas. Which fields apply depends on
// Type.
type Operation struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	ClientSeq int64  `json:"clientSeq"`
	ObjectID  string `json:"objectId,omitempty"`

	// object.add: the new shape's record, inserted at Index or on top.
	Object object.Record `json:"object,omitempty"`
	Index  *int          `json:"index,omitempty"`

	// object.update: keys to change. Absent keys keep their values.
	Patch object.Record `json:"patch,omitempty"`

	// object.reorder: forward, backward, front, back or moveTo (Index).
	Reorder      string `json:"reorder,omitempty"`
	Intersecting bool   `json:"intersecting,omitempty"`

	// canvas.update
	Width      *float64 `json:"width,omitempty"`
	Height     *float64 `json:"height,omitempty"`
	Background *string  `json:"background,omitempty"`
}

// OperationSubmitPayload is the payload for op.submit messages
type OperationSubmitPayload struct {
	Operation Operation `json:"operation"`
}

// OperationAckPayload is the payload for op.ack messages
type OperationAckPayload struct {
	OperationID     string `json:"operationId"`
	ObjectID        string `json:"objectId,omitempty"`
	ServerSeq       int64  `json:"serverSeq"`
	ServerTimestamp int64  `json:"serverTimestamp"`
}

// OperationNackPayload is the payload for op.nack messages
type OperationNackPayload struct {
	OperationID string `json:"operationId"`
	Reason      string `json:"reason"`
}

// OperationBroadcastPayload is the payload for op.broadcast messages
type OperationBroadcastPayload struct {
	Operation Operation `json:"operation"`
	UserID    string    `json:"userId"`
	ServerSeq int64     `json:"serverSeq"`
}
