package services

// EventPublisher broadcasts a named event to every participant of an
// engagement room. Publishing is fire-and-forget.
type EventPublisher interface {
	Publish(engagementID string, event string, payload any)
}

// Analytics records product analytics events.
type Analytics interface {
	Enqueue(distinctID string, event string, properties map[string]any)
}
