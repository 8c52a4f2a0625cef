package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coastwatch/store"
	"coastwatch/types"
)

// GetHotspots lists open hotspot candidates. Pass ?surfaced=true to see
// only candidates that crossed the post threshold.
func GetHotspots(c *gin.Context, st store.Store) {
	open, err := st.LoadOpenCandidates(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if c.Query("surfaced") == "true" {
		surfaced := make([]types.HotspotCandidate, 0, len(open))
		for _, cand := range open {
			if cand.Surfaced {
				surfaced = append(surfaced, cand)
			}
		}
		open = surfaced
	}

	c.JSON(http.StatusOK, gin.H{"hotspots": open, "count": len(open)})
}
