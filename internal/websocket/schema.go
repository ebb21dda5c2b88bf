package websocket

import "github.com/stemsi/placement-dashboard/internal/service"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionSelectState  Action = "select_state"
	ActionSelectCity   Action = "select_city"
	ActionClearFilters Action = "clear_filters"
	ActionPing         Action = "ping"
)

// RequestPayload carries any client action. Only the fields relevant to the
// action are read.
type RequestPayload struct {
	Action Action `json:"action"`
	State  string `json:"state,omitempty"`
	City   string `json:"city,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventSnapshot Event = "view.snapshot"
	EventError    Event = "error"
	EventPong     Event = "pong"
)

// SnapshotResponse pushes the full view after every catalog change.
type SnapshotResponse struct {
	Event Event         `json:"event"`
	View  *service.View `json:"view"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
