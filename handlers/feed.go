package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"tripmate-backend/services"
)

// GET /api/stream — server-sent events with ledger changes.
// Events are at-least-once; clients de-duplicate inserts by expense id.
func StreamExpenses(c *gin.Context) {
	ch, cancel := services.GetFeedHub().Subscribe()
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(string(event.Type), event)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
