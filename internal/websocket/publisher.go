package websocket

// EventPublisher delivers deal events for a workspace
type EventPublisher interface {
	// Publish sends an event to every subscriber of the workspace
	Publish(workspaceID int32, event Event)
}

var _ EventPublisher = (*Hub)(nil)

// Publish implements EventPublisher by broadcasting to the workspace's sessions
func (h *Hub) Publish(workspaceID int32, event Event) {
	event.WorkspaceID = workspaceID
	h.Broadcast(workspaceID, event)
}

// NoOpPublisher drops every event (tests, or realtime disabled)
type NoOpPublisher struct{}

// Publish does nothing
func (n *NoOpPublisher) Publish(workspaceID int32, event Event) {}

// Fanout forwards each event to several publishers in order, e.g. the
// websocket hub and the Kafka bridge.
type Fanout []EventPublisher

// NewFanout builds a Fanout, skipping nil publishers
func NewFanout(publishers ...EventPublisher) Fanout {
	out := make(Fanout, 0, len(publishers))
	for _, p := range publishers {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// Publish implements EventPublisher
func (f Fanout) Publish(workspaceID int32, event Event) {
	for _, p := range f {
		p.Publish(workspaceID, event)
	}
}
