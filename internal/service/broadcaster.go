package service

// Broadcaster interface for WebSocket broadcasting (avoids import cycle
// with the transport layer).
type Broadcaster interface {
	BroadcastToTrainee(sessionID string, msgType string, payload interface{})
	BroadcastToObservers(sessionID string, msgType string, payload interface{})
	DisconnectSession(sessionID string)
}
