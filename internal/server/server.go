package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"groupplan/internal/config"
	"groupplan/internal/handler"
	"groupplan/internal/mailer"
	"groupplan/internal/middleware"
	"groupplan/internal/notify"
	"groupplan/internal/repository"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
	Log    *zap.Logger
}

func Init(cfg *config.Config, db *gorm.DB, log *zap.Logger) *Server {
	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	// Repositories share the single DB handle owned by the bootstrap.
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	subgroupRepo := repository.NewSubgroupRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)

	notifier := notify.New(notificationRepo)
	mail := mailer.FromConfig(cfg, log)

	userHandler := handler.NewUserHandler(userRepo, notifier, mail, log, cfg.JWTSecret, cfg.CookieSecure)
	groupHandler := handler.NewGroupHandler(groupRepo, memberRepo, notifier, log)
	invitationHandler := handler.NewInvitationHandler(invitationRepo, groupRepo, memberRepo, userRepo, notifier, log)
	subgroupHandler := handler.NewSubgroupHandler(subgroupRepo, memberRepo)
	taskHandler := handler.NewTaskHandler(taskRepo, commentRepo, subgroupRepo, memberRepo, userRepo, notifier, log)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)

	// Public routes
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.POST("/password-reset", userHandler.PasswordReset)

	// Protected routes - require a valid session cookie
	authorized := r.Group("/")
	authorized.Use(middleware.SessionAuth(cfg.JWTSecret))
	{
		authorized.POST("/logout", userHandler.Logout)
		authorized.GET("/me", userHandler.Me)
		authorized.PUT("/me", userHandler.UpdateMe)

		// Group routes
		authorized.POST("/groups", groupHandler.Create)
		authorized.GET("/groups", groupHandler.List)
		authorized.GET("/groups/:id", groupHandler.Get)
		authorized.PUT("/groups/:id", groupHandler.Update)
		authorized.DELETE("/groups/:id", groupHandler.Delete)

		// Membership routes
		authorized.GET("/groups/:id/members", groupHandler.Members)
		authorized.PUT("/groups/:id/members/:user_id/role", groupHandler.UpdateMemberRole)
		authorized.DELETE("/groups/:id/members/:user_id", groupHandler.RemoveMember)
		authorized.POST("/groups/:id/leave", groupHandler.Leave)

		// Invitation routes
		authorized.POST("/groups/:id/invitations", invitationHandler.Create)
		authorized.GET("/invitations", invitationHandler.ListMine)
		authorized.POST("/invitations/:id/respond", invitationHandler.Respond)

		// Subgroup routes
		authorized.POST("/groups/:id/subgroups", subgroupHandler.Create)
		authorized.GET("/groups/:id/subgroups", subgroupHandler.ListByGroup)
		authorized.PUT("/subgroups/:id", subgroupHandler.Update)
		authorized.DELETE("/subgroups/:id", subgroupHandler.Delete)

		// Task routes
		authorized.POST("/groups/:id/tasks", taskHandler.Create)
		authorized.GET("/groups/:id/tasks", taskHandler.ListByGroup)
		authorized.GET("/tasks/assigned", taskHandler.ListAssigned)
		authorized.GET("/tasks/:id", taskHandler.Get)
		authorized.PUT("/tasks/:id", taskHandler.Update)
		authorized.DELETE("/tasks/:id", taskHandler.Delete)
		authorized.POST("/tasks/:id/assign", taskHandler.Assign)
		authorized.DELETE("/tasks/:id/assign/:user_id", taskHandler.Unassign)
		authorized.GET("/tasks/:id/assignees", taskHandler.Assignees)
		authorized.POST("/tasks/:id/comments", taskHandler.CreateComment)
		authorized.GET("/tasks/:id/comments", taskHandler.ListComments)

		// Notification routes
		authorized.GET("/notifications", notificationHandler.List)
		authorized.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		authorized.POST("/notifications/read-all", notificationHandler.MarkAllRead)
		authorized.POST("/notifications/:id/read", notificationHandler.MarkRead)
		authorized.DELETE("/notifications/:id", notificationHandler.Delete)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
		Log:    log,
	}
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		s.Log.Info("server running", zap.String("port", s.Config.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.Log.Fatal("failed to listen", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.Log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.Log.Fatal("server forced to shutdown", zap.Error(err))
	}

	s.Log.Info("server exited")
}
