package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/bashbay-events/internal/jointab"
	"github.com/joshua-takyi/bashbay-events/internal/models"
	"github.com/joshua-takyi/bashbay-events/internal/services"
)

// JoinTab returns the events a visitor sees right now.
func JoinTab(es *services.EventService, filter jointab.Filter) gin.HandlerFunc {
	return func(c *gin.Context) {
		var criteria jointab.Criteria
		if err := c.ShouldBindQuery(&criteria); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		events, err := es.GetPublishedEvents(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		visible := filter.Apply(events, criteria, time.Now())
		c.JSON(http.StatusOK, models.ListResponse(visible, len(visible)))
	}
}

// JoinTabStream pushes the visible set as server-sent events until the client
// disconnects. A new "events" message is sent whenever the set changes.
func JoinTabStream(es *services.EventService, filter jointab.Filter, schedule string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var criteria jointab.Criteria
		if err := c.ShouldBindQuery(&criteria); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		ctx := c.Request.Context()
		watcher := jointab.NewWatcher(es, filter, schedule, jointab.WithLogger(logger))
		updates, err := watcher.Watch(ctx, criteria)
		if err != nil {
			respondError(c, err)
			return
		}

		// Streams outlive the server's write timeout.
		if err := http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{}); err != nil {
			logger.DebugContext(ctx, "could not clear write deadline", "error", err)
		}

		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")
		c.Stream(func(w io.Writer) bool {
			select {
			case events, ok := <-updates:
				if !ok {
					return false
				}
				c.SSEvent("events", models.ListResponse(events, len(events)))
				return true
			case <-ctx.Done():
				return false
			}
		})
	}
}
