package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/scholara/scholara-api/internal/middleware"
	"github.com/scholara/scholara-api/internal/models"
	"github.com/scholara/scholara-api/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth         *AuthHandler
	Student      *StudentHandler
	Teacher      *TeacherHandler
	Parent       *ParentHandler
	Class        *ClassHandler
	Subject      *SubjectHandler
	Lesson       *LessonHandler
	Assessment   *AssessmentHandler
	Result       *ResultHandler
	Calendar     *CalendarHandler
	Message      *MessageHandler
	ClassRequest *ClassRequestHandler
	Metrics      *MetricsHandler
}

// RouterConfig carries routing options.
type RouterConfig struct {
	Prefix         string
	StreamEnabled  bool
	ExportsEnabled bool
}

// RegisterRoutes mounts every endpoint on the engine. Mutating routes
// are admin only; list routes are open to all authenticated callers and
// rely on caller scoping inside the services.
func RegisterRoutes(r *gin.Engine, cfg RouterConfig, h Handlers, authService *service.AuthService, metricsService *service.MetricsService) {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "/api"
	}

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Health)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)
	api.Use(middleware.Metrics(metricsService))

	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(authService))

	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/auth/me", h.Auth.Me)

	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	students := protected.Group("/students")
	{
		students.GET("", h.Student.List)
		students.GET("/:id", middleware.RBAC(string(models.RoleAdmin), string(models.RoleTeacher), "SELF"), h.Student.Get)
		students.POST("", adminOnly, h.Student.Create)
		students.PUT("", adminOnly, h.Student.Update)
		students.DELETE("/:id", adminOnly, h.Student.Delete)
	}

	teachers := protected.Group("/teachers")
	{
		teachers.GET("", h.Teacher.List)
		teachers.GET("/all", h.Teacher.Roster)
		teachers.GET("/:id", middleware.RBAC(string(models.RoleAdmin), "SELF"), h.Teacher.Get)
		teachers.POST("", adminOnly, h.Teacher.Create)
		teachers.PUT("", adminOnly, h.Teacher.Update)
		teachers.DELETE("/:id", adminOnly, h.Teacher.Delete)
	}

	parents := protected.Group("/parents")
	{
		parents.GET("", h.Parent.List)
		parents.GET("/:id", middleware.RBAC(string(models.RoleAdmin), "SELF"), h.Parent.Get)
		parents.POST("", adminOnly, h.Parent.Create)
		parents.PUT("", adminOnly, h.Parent.Update)
		parents.DELETE("/:id", adminOnly, h.Parent.Delete)
	}

	classes := protected.Group("/classes")
	{
		classes.GET("", h.Class.List)
		classes.GET("/all", h.Class.All)
		classes.GET("/:id", h.Class.Get)
		classes.POST("", adminOnly, h.Class.Create)
		classes.PUT("", adminOnly, h.Class.Update)
		classes.DELETE("/:id", adminOnly, h.Class.Delete)
	}
	protected.GET("/grades", h.Class.Grades)

	subjects := protected.Group("/subjects")
	{
		subjects.GET("", h.Subject.List)
		subjects.POST("", adminOnly, h.Subject.Create)
		subjects.PUT("", adminOnly, h.Subject.Update)
		subjects.DELETE("/:id", adminOnly, h.Subject.Delete)
	}

	lessons := protected.Group("/lessons")
	{
		lessons.GET("", h.Lesson.List)
		lessons.POST("", adminOnly, h.Lesson.Create)
		lessons.PUT("", adminOnly, h.Lesson.Update)
		lessons.DELETE("/:id", adminOnly, h.Lesson.Delete)
	}

	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher)

	exams := protected.Group("/exams")
	{
		exams.GET("", h.Assessment.ListExams)
		exams.POST("", staff, h.Assessment.CreateExam)
		exams.PUT("", staff, h.Assessment.UpdateExam)
		exams.DELETE("/:id", staff, h.Assessment.DeleteExam)
	}

	assignments := protected.Group("/assignments")
	{
		assignments.GET("", h.Assessment.ListAssignments)
		assignments.POST("", staff, h.Assessment.CreateAssignment)
		assignments.PUT("", staff, h.Assessment.UpdateAssignment)
		assignments.DELETE("/:id", staff, h.Assessment.DeleteAssignment)
	}

	results := protected.Group("/results")
	{
		results.GET("", h.Result.List)
		if cfg.ExportsEnabled {
			results.GET("/export", h.Result.Export)
		}
		results.POST("", staff, h.Result.Create)
		results.PUT("", staff, h.Result.Update)
		results.DELETE("/:id", staff, h.Result.Delete)
	}

	events := protected.Group("/events")
	{
		events.GET("", h.Calendar.ListEvents)
		events.POST("", adminOnly, h.Calendar.CreateEvent)
		events.PUT("", adminOnly, h.Calendar.UpdateEvent)
		events.DELETE("/:id", adminOnly, h.Calendar.DeleteEvent)
	}

	announcements := protected.Group("/announcements")
	{
		announcements.GET("", h.Calendar.ListAnnouncements)
		announcements.POST("", adminOnly, h.Calendar.CreateAnnouncement)
		announcements.PUT("", adminOnly, h.Calendar.UpdateAnnouncement)
		announcements.DELETE("/:id", adminOnly, h.Calendar.DeleteAnnouncement)
	}

	messages := protected.Group("/messages")
	{
		messages.POST("", h.Message.Send)
		messages.GET("", h.Message.Inbox)
		messages.GET("/conversation", h.Message.Conversation)
		messages.PATCH("/:id/read", h.Message.MarkRead)
		messages.GET("/search-users", h.Message.SearchUsers)
		messages.GET("/contacts", h.Message.Contacts)
		if cfg.StreamEnabled {
			messages.GET("/stream", h.Message.Stream)
		}
	}
	protected.GET("/user-info", h.Message.UserInfo)

	protected.POST("/class-assignment-request", middleware.RequireRoles(models.RoleStudent), h.ClassRequest.Create)
	protected.GET("/class-assignment-request", h.ClassRequest.Pending)
	protected.GET("/class-assignment-requests", adminOnly, h.ClassRequest.List)
	protected.PATCH("/class-assignment-request/:id", adminOnly, h.ClassRequest.Decide)
}
