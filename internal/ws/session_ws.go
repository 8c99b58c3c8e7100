package ws

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	grpcclient "messaging-service/internal/grpc"
	"messaging-service/internal/observability"
	"messaging-service/internal/session"
)

// SessionWebSocketHandler upgrades a user connection for realtime session
// events: conversation changes, inbound messages and read receipts.
type SessionWebSocketHandler struct {
	hub        *Hub
	sessions   *session.Manager
	authClient *grpcclient.AuthClient
}

// NewSessionWebSocketHandler constructs a SessionWebSocketHandler.
func NewSessionWebSocketHandler(hub *Hub, sessions *session.Manager, authClient *grpcclient.AuthClient) *SessionWebSocketHandler {
	return &SessionWebSocketHandler{hub: hub, sessions: sessions, authClient: authClient}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the connection and registers the client. Connecting also
// warms the user's session so the first pushed event carries exact unread
// totals.
func (h *SessionWebSocketHandler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("messaging-service/ws").Start(c.Request.Context(), "ws.handshake",
		trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	token := c.GetHeader("Authorization")
	if token == "" {
		token = c.Query("token")
		if token != "" {
			token = "Bearer " + token
		}
	}

	userID, role, err := h.validateToken(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	if _, err := h.sessions.Get(c.Request.Context(), userID, role); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to initialize session"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	traceID := span.SpanContext().TraceID().String()
	requestID := observability.RequestIDFromRequest(c.Request)
	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      userID,
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   requestID,
		TraceID:     traceID,
		ConnectedAt: time.Now(),
	}
	h.hub.Add(userID, conn, info)

	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	observability.SetActiveSessions(h.sessions.Active())
	_ = observability.PublishEvent(ctx, "ws_events.sessions", observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_connect",
		Payload:   h.eventPayload(info, "ws_connect", 0, ""),
	}, observability.BuildHeaders(requestID, traceID))

	// Keep connection alive and clean on close
	go func() {
		var closeReason string
		defer func() {
			stillConnected := h.hub.Remove(userID, conn)
			if !stillConnected {
				h.sessions.Close(userID)
			}
			observability.DecWSActive()
			observability.IncWSEvent("ws_disconnect")
			observability.SetActiveSessions(h.sessions.Active())
			_ = observability.PublishEvent(ctx, "ws_events.sessions", observability.EventEnvelope{
				EventType: "ws_events",
				EventName: "ws_disconnect",
				Payload:   h.eventPayload(info, "ws_disconnect", time.Since(info.ConnectedAt).Milliseconds(), closeReason),
			}, observability.BuildHeaders(requestID, traceID))
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				closeReason = err.Error()
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					observability.IncWSEvent("ws_error")
					_ = observability.PublishEvent(ctx, "ws_events.sessions", observability.EventEnvelope{
						EventType: "ws_events",
						EventName: "ws_error",
						Payload:   h.eventPayload(info, "ws_error", time.Since(info.ConnectedAt).Milliseconds(), closeReason),
					}, observability.BuildHeaders(requestID, traceID))
				}
				return
			}
		}
	}()
}

func (h *SessionWebSocketHandler) eventPayload(info ConnInfo, event string, durationMS int64, reason string) map[string]interface{} {
	return map[string]interface{}{
		"ws": map[string]interface{}{
			"user_id":     info.UserID,
			"event":       event,
			"conn_id":     info.ConnID,
			"duration_ms": durationMS,
			"reason":      reason,
		},
		"identity": map[string]interface{}{
			"user_id":   info.UserID,
			"device_id": info.DeviceID,
			"ip":        info.IP,
		},
	}
}

func (h *SessionWebSocketHandler) validateToken(ctx context.Context, header string) (int, string, error) {
	parts := strings.Split(header, " ")
	if len(parts) == 2 {
		return h.authClient.ValidateToken(ctx, parts[1])
	}
	return 0, "", fmt.Errorf("invalid token")
}
