package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/classqa/internal/app/controllers"
	"github.com/yigit/classqa/internal/middleware"
	"github.com/yigit/classqa/internal/pkg/websocket"
)

// Controllers bundles the handlers mounted under /api
type Controllers struct {
	Auth     *controllers.AuthController
	Lecture  *controllers.LectureController
	Tag      *controllers.TagController
	Question *controllers.QuestionController
	Upload   *controllers.UploadController
	Events   *websocket.Handler
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api")

	// --- Public routes ---
	api.GET("/health", controllers.HealthCheck)

	auth := api.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
	}

	// --- Authenticated routes ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	authenticated.GET("/auth/me", c.Auth.Me)
	authenticated.PUT("/auth/profile", c.Auth.UpdateProfile)

	// Lecture sub-resources share the :id wildcard; gin rejects differently
	// named wildcards at the same path segment.
	lectures := authenticated.Group("/lectures")
	{
		lectures.GET("", c.Lecture.ListLectures)
		lectures.POST("", c.Lecture.CreateLecture)
		lectures.GET("/:id", c.Lecture.GetLecture)
		lectures.DELETE("/:id", c.Lecture.DeleteLecture)

		lectures.GET("/:id/tags", c.Tag.ListTags)
		lectures.POST("/:id/tags", c.Tag.CreateTag)
		lectures.DELETE("/:id/tags/:tagId", c.Tag.DeleteTag)

		if c.Events != nil {
			lectures.GET("/:id/events", c.Events.Subscribe)
		}
	}

	questions := authenticated.Group("/questions")
	{
		questions.GET("", c.Question.ListQuestions)
		questions.POST("", c.Question.CreateQuestion)
		questions.GET("/:id", c.Question.GetQuestion)
		questions.DELETE("/:id", c.Question.DeleteQuestion)
		questions.PUT("/:id/resolve", c.Question.ResolveQuestion)
		questions.PUT("/:id/unresolve", c.Question.UnresolveQuestion)
		questions.PUT("/:id/tags", c.Question.UpdateQuestionTags)
		questions.POST("/:id/answers", c.Question.AddAnswer)
	}

	uploads := authenticated.Group("/uploads")
	{
		uploads.POST("", c.Upload.UploadImage)
		uploads.DELETE("/:filename", c.Upload.DeleteImage)
	}
}
