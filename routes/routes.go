package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/forohub-backend/controllers"
	"github.com/vnkhanh/forohub-backend/middleware"
	"github.com/vnkhanh/forohub-backend/models"
	"github.com/vnkhanh/forohub-backend/ws"
)

// Handlers groups everything the router needs.
type Handlers struct {
	Auth    *controllers.AuthController
	Topics  *controllers.TopicController
	Replies *controllers.ReplyController
	Courses *controllers.CourseController
	Health  *controllers.HealthController
	WS      *ws.Handler
}

func SetupRouter(r *gin.Engine, h Handlers, authenticator middleware.Authenticator) *gin.Engine {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	if h.Health != nil {
		r.GET("/health", h.Health.HealthCheck)
	}

	requireAuth := middleware.AuthMiddleware(authenticator)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/google", h.Auth.GoogleLogin)
		auth.POST("/logout", requireAuth, h.Auth.Logout)
		auth.GET("/me", requireAuth, h.Auth.Me)
	}

	courses := api.Group("/courses")
	{
		courses.GET("", requireAuth, h.Courses.GetCourses)
		courses.POST("", middleware.RequireRoles(authenticator, models.RoleAdmin), h.Courses.CreateCourse)
	}

	topics := api.Group("/topics", requireAuth)
	{
		topics.POST("", h.Topics.CreateTopic)
		topics.GET("", h.Topics.GetTopics)
		topics.GET("/:id", h.Topics.GetTopicDetail)
		topics.PUT("/:id", h.Topics.UpdateTopic)
		topics.DELETE("/:id", h.Topics.DeleteTopic)
		topics.GET("/:id/replies", h.Topics.GetTopicReplies)
		topics.POST("/:id/replies", h.Replies.CreateReply)
	}

	replies := api.Group("/replies", requireAuth)
	{
		replies.DELETE("/:id", h.Replies.DeleteReply)
	}

	if h.WS != nil {
		r.GET("/ws/topics", h.WS.HandleGlobal)
		r.GET("/ws/topics/:id", h.WS.HandleTopic)
	}

	return r
}
