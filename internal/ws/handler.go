package ws

import (
	"net/http"

	"mediavault/internal/services"
	"mediavault/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Handler upgrades authenticated requests to the status event feed.
// The join/leave hooks tie the reconciliation poller's lifecycle to the
// user's open sessions.
type Handler struct {
	hub     *Hub
	origin  string
	onJoin  func(userID string)
	onLeave func(userID string)
}

func NewHandler(hub *Hub, origin string, onJoin, onLeave func(userID string)) *Handler {
	return &Handler{hub: hub, origin: origin, onJoin: onJoin, onLeave: onLeave}
}

// Connect handles GET /ws. Auth happens in the middleware chain before
// the upgrade.
func (h *Handler) Connect(c *gin.Context) {
	identity, ok := services.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origin == h.origin
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := NewClient(conn, identity.UserID)
	h.hub.Register(client)
	if h.onJoin != nil {
		h.onJoin(identity.UserID)
	}

	go client.WritePump()
	go client.ReadPump(func() {
		h.hub.Unregister(client)
		if h.onLeave != nil {
			h.onLeave(identity.UserID)
		}
	})
}
