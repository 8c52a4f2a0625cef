package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coastwatch/batch"
	"coastwatch/types"
)

// IngestPosts buffers a bulk of posts for the next scheduled batch run.
func IngestPosts(c *gin.Context, queue *batch.Queue) {
	var posts []types.Post
	if err := c.ShouldBindJSON(&posts); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid posts payload: " + err.Error()})
		return
	}
	if len(posts) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty batch"})
		return
	}

	accepted := queue.Add(posts...)
	c.JSON(http.StatusAccepted, gin.H{
		"accepted": accepted,
		"queued":   queue.Len(),
	})
}
