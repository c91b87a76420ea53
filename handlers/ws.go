package handlers

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/sirupsen/logrus"

	"github.com/lucasmd12/fiorence1/middleware"
	"github.com/lucasmd12/fiorence1/services"
)

// WSHandler pushes per-user notifications over websocket. Each session is
// keyed by the authenticated user id so broadcasts never cross users.
type WSHandler struct {
	M   *melody.Melody
	log *logrus.Logger
}

func NewWSHandler(log *logrus.Logger) *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024 * 1024

	// Keep-alive, needed behind cloud proxies that drop idle connections.
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleDisconnect(func(s *melody.Session) {
		userID, _ := s.Get("user_id")
		log.WithField("user_id", userID).Debug("websocket client disconnected")
	})

	m.HandleError(func(s *melody.Session, err error) {
		log.WithError(err).Warn("websocket error")
	})

	return &WSHandler{M: m, log: log}
}

// HandleWS upgrades the request. The route runs behind the auth middleware,
// so the user id is already on the gin context.
func (h *WSHandler) HandleWS(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	keys := map[string]interface{}{"user_id": userID}
	if err := h.M.HandleRequestWithKeys(c.Writer, c.Request, keys); err != nil {
		h.log.WithError(err).Warn("failed to upgrade websocket")
	}
}

// IngestionCompleted implements services.IngestionNotifier. It tells the
// user's open sessions that a document finished processing.
func (h *WSHandler) IngestionCompleted(userID string, result *services.IngestResult) {
	payload, err := json.Marshal(gin.H{
		"type":               "ingestion_completed",
		"total_transactions": result.Summary.TotalTransactions,
		"categories_created": result.CategoriesCreated,
		"auto_saved":         result.AutoSaved,
		"saved_count":        result.SavedCount,
	})
	if err != nil {
		h.log.WithError(err).Warn("failed to encode ingestion notification")
		return
	}

	err = h.M.BroadcastFilter(payload, func(s *melody.Session) bool {
		id, exists := s.Get("user_id")
		return exists && id == userID
	})
	if err != nil {
		h.log.WithError(err).WithField("user_id", userID).Warn("failed to broadcast ingestion notification")
	}
}
