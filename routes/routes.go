package routes

import (
	"github.com/gin-gonic/gin"

	"coastwatch/batch"
	"coastwatch/handlers"
	"coastwatch/review"
	"coastwatch/store"
)

func SetupRouter(orch *batch.Orchestrator, queue *batch.Queue, wf *review.Workflow, st store.Store) *gin.Engine {
	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Hello, welcome to Coastwatch!",
		})
	})

	// api routes
	api := r.Group("/api/coastwatch")
	{
		api.POST("/reports", func(c *gin.Context) {
			handlers.SubmitReport(c, orch)
		})
		api.POST("/posts", func(c *gin.Context) {
			handlers.IngestPosts(c, queue)
		})
		api.GET("/review", func(c *gin.Context) {
			handlers.GetReviewQueue(c, wf)
		})
		api.POST("/review/:id", func(c *gin.Context) {
			handlers.DecideReview(c, wf)
		})
		api.GET("/hotspots", func(c *gin.Context) {
			handlers.GetHotspots(c, st)
		})
		api.GET("/batches", func(c *gin.Context) {
			handlers.GetBatches(c, st)
		})
	}

	return r
}
