package events

import (
	"context"
	"encoding/json"
	"time"
)

// Event types published on the user channels.
const (
	EventFileReady   = "file.ready"
	EventFileErrored = "file.errored"
)

// ChannelPrefixUser is the per-user pub/sub channel namespace.
const ChannelPrefixUser = "channel:user:"

// FileStatusEvent is the payload published when a file's processing
// state reaches a terminal status.
type FileStatusEvent struct {
	Type          string    `json:"type"`
	UserID        string    `json:"userId"`
	FileID        string    `json:"fileId"`
	MuxStatus     string    `json:"muxStatus"`
	MuxPlaybackID string    `json:"muxPlaybackId,omitempty"`
	MuxThumbnail  string    `json:"muxThumbnail,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

func (e FileStatusEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher pushes file status events toward connected sessions.
type Publisher interface {
	Publish(ctx context.Context, event FileStatusEvent) error
}

// Handler consumes a file status event.
type Handler func(event FileStatusEvent)

// Subscriber delivers published events to a handler until ctx ends.
type Subscriber interface {
	Subscribe(ctx context.Context, handler Handler) error
}

// Bus is the full event transport between the reconciliation poller and
// the WebSocket layer. Backed by Redis pub/sub so ready notifications
// reach sessions connected to any instance, not just the one whose
// poller observed the transition.
type Bus interface {
	Publisher
	Subscriber
}
