package handler

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/placement-dashboard/internal/middleware"
	"github.com/stemsi/placement-dashboard/internal/model"
	"github.com/stemsi/placement-dashboard/internal/response"
	"github.com/stemsi/placement-dashboard/internal/service"
	ws "github.com/stemsi/placement-dashboard/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams live dashboard views over WebSocket.
type WSHandler struct {
	viewService *service.ViewService
	limiter     *middleware.RateLimiter
	log         zerolog.Logger
	upgrader    websocket.Upgrader
}

// NewWSHandler creates a new WSHandler. limiter is the one guarding the HTTP
// state selection route; a nil limiter leaves select_state unlimited.
func NewWSHandler(viewService *service.ViewService, limiter *middleware.RateLimiter, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		viewService: viewService,
		limiter:     limiter,
		log:         log.With().Str("component", "ws_handler").Logger(),
		upgrader:    buildUpgrader(allowedOrigins),
	}
}

// wsConn serializes writes; gorilla connections allow one concurrent writer.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsConn) write(v interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return ws.WriteTyped(w.conn, v)
}

func (w *wsConn) writeError(code response.ErrCode) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return ws.WriteError(w.conn, string(code), response.GetMessage(code))
}

// ViewStream godoc
// WS /ws/v1/dashboard/views/:id/stream
// Pushes a view.snapshot event on every list or selection change and accepts
// select_state, select_city, clear_filters and ping actions.
func (h *WSHandler) ViewStream(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	clientIP := c.ClientIP()
	updates, unsubscribe, err := h.viewService.Subscribe(id)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	defer unsubscribe()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	wsLog := h.log.With().Str("view_id", id.String()).Str("client_ip", clientIP).Logger()
	wsLog.Info().Msg("View stream connected")

	out := &wsConn{conn: conn}
	go h.pushSnapshots(ctx, cancel, out, wsLog, id, updates)

	for {
		var msg ws.RequestPayload
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		switch msg.Action {
		case ws.ActionSelectState:
			// Each selection starts a cities fetch upstream.
			if !h.limiter.Allow(clientIP) {
				if out.writeError(response.ErrRateLimitExceeded) != nil {
					return
				}
				continue
			}
			_, err = h.viewService.SelectState(ctx, id, msg.State)
		case ws.ActionSelectCity:
			_, err = h.viewService.SelectCity(ctx, id, msg.City)
		case ws.ActionClearFilters:
			_, err = h.viewService.ClearFilters(ctx, id)
		case ws.ActionPing:
			err = out.write(ws.PongResponse{Event: ws.EventPong})
			if err != nil {
				return
			}
			continue
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			out.writeError(response.ErrInvalidPayload)
			continue
		}

		// Accepted actions are answered by the next snapshot push.
		if err != nil {
			_, code := viewErrorCode(err)
			if out.writeError(code) != nil {
				return
			}
		}
	}
}

// pushSnapshots renders every catalog change until the view is closed or the
// connection goes away. A closed view ends the stream.
func (h *WSHandler) pushSnapshots(ctx context.Context, cancel context.CancelFunc, out *wsConn, wsLog zerolog.Logger, id uuid.UUID, updates <-chan model.CatalogSnapshot) {
	defer cancel()
	// Unblocks the read loop.
	defer out.conn.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-updates:
			if !ok {
				out.writeError(response.ErrViewClosed)
				out.mu.Lock()
				out.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "view closed"),
					time.Now().Add(time.Second))
				out.mu.Unlock()
				return
			}

			view, err := h.viewService.Render(ctx, id, snap)
			if err != nil {
				wsLog.Error().Err(err).Msg("Failed to render view")
				out.writeError(response.ErrInternal)
				continue
			}
			if err := out.write(ws.SnapshotResponse{Event: ws.EventSnapshot, View: view}); err != nil {
				wsLog.Debug().Err(err).Msg("Snapshot write failed")
				return
			}
		}
	}
}
