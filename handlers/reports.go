package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"coastwatch/batch"
	"coastwatch/types"
)

func supportedLanguage(lang string) bool {
	for _, l := range types.SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

// SubmitReport ingests a single post and runs it through the pipeline
// synchronously. Meant for citizen-report style submissions where the
// caller wants immediate feedback.
func SubmitReport(c *gin.Context, orch *batch.Orchestrator) {
	var post types.Post
	if err := c.ShouldBindJSON(&post); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post payload: " + err.Error()})
		return
	}
	if post.ID == "" || post.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "post id and text are required"})
		return
	}
	if post.Language != "" && !supportedLanguage(post.Language) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported language: " + post.Language})
		return
	}

	run, err := orch.RunBatch(c.Request.Context(), []types.Post{post})
	if err != nil {
		if errors.Is(err, batch.ErrBatchInFlight) {
			c.JSON(http.StatusConflict, gin.H{"error": "a batch is already running, retry shortly"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, run)
}
