package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"coastwatch/store"
)

const defaultBatchLimit = 20

// GetBatches lists recent batch runs, newest first.
func GetBatches(c *gin.Context, st store.Store) {
	limit := defaultBatchLimit
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}

	runs, err := st.RecentBatchRuns(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"batches": runs, "count": len(runs)})
}
