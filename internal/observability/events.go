package observability

// EventEnvelope is the wire shape of an ops event. EventType groups
// (e.g. "session"), EventName is the concrete occurrence
// (e.g. "ws_connect").
type EventEnvelope struct {
	EventType string `json:"event_type"`
	EventName string `json:"event_name"`
	Payload   any    `json:"payload"`
}

// BuildHeaders carries request correlation onto the broker message so an
// ops event can be joined back to its originating HTTP request and trace.
func BuildHeaders(requestID, traceID string) map[string]string {
	headers := map[string]string{}
	if requestID != "" {
		headers["x-request-id"] = requestID
	}
	if traceID != "" {
		headers["trace_id"] = traceID
	}
	return headers
}
