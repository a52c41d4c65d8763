package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/Dosada05/league-system/brackets"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub      *brackets.Hub
	upgrader websocket.Upgrader
}

// NewWebSocketHandler принимает те же Origin, что и CORS. Пустой список
// означает только локальный фронтенд.
func NewWebSocketHandler(hub *brackets.Hub, allowedOrigins []string) *WebSocketHandler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[normalizeOrigin(o)] = true
	}

	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// не браузерные клиенты Origin не присылают
				if origin == "" {
					return true
				}
				return allowed["*"] || allowed[normalizeOrigin(origin)]
			},
		},
	}
}

func normalizeOrigin(o string) string {
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(o)), "/")
}

// ServeWs подписывает клиента на обновления соревнования.
// Клиент подключается к /ws/competitions/{competitionID}
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	competitionID, err := urlParam(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader сам отвечает клиенту
		logger.Warn("websocket upgrade failed",
			slog.String("competition_id", competitionID),
			slog.Any("error", err))
		return
	}

	client := &brackets.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: brackets.RoomForCompetition(competitionID),
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()

	logger.Debug("websocket client connected", slog.String("room", client.Room))
}
