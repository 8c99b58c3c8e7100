package ws

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// ConnInfo describes one websocket tab of a user. It rides along in
// connection lifecycle events so a session's tabs can be told apart.
type ConnInfo struct {
	ConnID      string
	UserID      int
	DeviceID    string
	IP          string
	RequestID   string
	TraceID     string
	ConnectedAt time.Time
}

// newConnID mints a random identifier for one websocket connection.
func newConnID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)
}
