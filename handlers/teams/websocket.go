package teams

import (
	"net/http"

	"academy/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: checkOrigin,
}

func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || !config.IsProduction() {
		return true
	}
	for _, allowed := range config.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// DashboardWebSocket streams dashboard change events of a team
// @Summary Team dashboard live updates
// @Description Websocket sending {team_id, update_type} whenever a submission or review changes the dashboard
// @Tags Teams
// @Param id path int true "Team ID"
// @Router /teams/{id}/ws [get]
// @Security Bearer
func (h *Handler) DashboardWebSocket(c *gin.Context) {
	teamID, ok := paramID(c, "id")
	if !ok {
		respondWithError(c, http.StatusBadRequest, ErrInvalidTeamID)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("websocket upgrade failed")
		return
	}

	log := logrus.WithFields(logrus.Fields{"team_id": teamID, "client_id": uuid.NewString()})
	log.Debug("websocket client connected")

	h.Hub.Register(teamID, conn)
	defer func() {
		h.Hub.Unregister(teamID, conn)
		conn.Close()
		log.Debug("websocket client disconnected")
	}()

	// clients never send anything meaningful; reading detects the disconnect
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
