package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"bizpilot/internal/ai"
	appsvc "bizpilot/internal/app"
	"bizpilot/internal/bootstrap"
	"bizpilot/internal/cache"
	"bizpilot/internal/platform/rabbitmq"
	"bizpilot/internal/prompt"
	"bizpilot/internal/repository"
	"bizpilot/internal/transport/http/handler"
	"bizpilot/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	teamRepo := repository.NewTeamRepository(app.MySQL)
	sessionRepo := repository.NewSessionRepository(app.MySQL)
	messageRepo := repository.NewMessageRepository(app.MySQL)
	chatbotRepo := repository.NewChatbotRepository(app.MySQL)
	nodeRepo := repository.NewFlowNodeRepository(app.MySQL)
	taskRepo := repository.NewTaskRepository(app.MySQL)
	clientRepo := repository.NewClientRepository(app.MySQL)
	noteRepo := repository.NewNoteRepository(app.MySQL)
	playbookRepo := repository.NewPlaybookRepository(app.MySQL)
	serviceRepo := repository.NewServiceRepository(app.MySQL)
	planRepo := repository.NewBusinessPlanRepository(app.MySQL)

	fetcher := prompt.NewFetcher(
		repository.NewStoreReader(app.MySQL),
		app.Config.Prompt.MaxDataRows,
		time.Duration(app.Config.Prompt.FetchTimeoutSeconds)*time.Second,
	)
	assembler := prompt.NewAssembler(chatbotRepo, fetcher)

	publisher := rabbitmq.NewMessagePublisher(app.MQConn, app.Config.RabbitMQ.MessagePersistQueue)
	historyCache := cache.NewHistoryCache(
		app.Redis,
		time.Duration(app.Config.Redis.HistoryTTLSeconds)*time.Second,
		time.Duration(app.Config.Redis.HistoryDirtyTTLSeconds)*time.Second,
	)

	llmClient := ai.NewClient()
	defaultLLM := ai.ChatConfig{
		BaseURL: app.Config.LLM.BaseURL,
		APIKey:  app.Config.LLM.APIKey,
		Model:   app.Config.LLM.Model,
	}

	authService := appsvc.NewAuthService(
		userRepo,
		teamRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	chatService := appsvc.NewChatService(
		sessionRepo,
		messageRepo,
		chatbotRepo,
		assembler,
		publisher,
		historyCache,
		defaultLLM,
		app.Config.LLM.MaxContextMessage,
	)
	chatbotService := appsvc.NewChatbotService(chatbotRepo, nodeRepo, assembler)
	taskService := appsvc.NewTaskService(taskRepo)
	clientService := appsvc.NewClientService(clientRepo)
	noteService := appsvc.NewNoteService(noteRepo)
	playbookService := appsvc.NewPlaybookService(playbookRepo, llmClient, defaultLLM)
	planService := appsvc.NewPlanService(planRepo, llmClient, defaultLLM)
	catalogService := appsvc.NewCatalogService(serviceRepo)

	authHandler := handler.NewAuthHandler(authService)
	chatHandler := handler.NewChatHandler(chatService)
	chatbotAdminHandler := handler.NewChatbotAdminHandler(chatbotService)
	workspaceHandler := handler.NewWorkspaceHandler(taskService, clientService, noteService)
	contentHandler := handler.NewContentHandler(playbookService, planService)
	catalogHandler := handler.NewCatalogHandler(catalogService)

	authMW := middleware.AuthJWT(app.Config.Auth.JWTSecret)

	v1 := router.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", authMW, authHandler.Me)

	chatGroup := v1.Group("/chat")
	chatGroup.Use(authMW)
	chatGroup.GET("/bots", chatHandler.ListChatbots)
	chatGroup.POST("/sessions", chatHandler.CreateSession)
	chatGroup.GET("/sessions", chatHandler.ListSessions)
	chatGroup.DELETE("/sessions/:id", chatHandler.DeleteSession)
	chatGroup.POST("/messages", chatHandler.SendMessage)
	chatGroup.POST("/messages/stream", chatHandler.StreamMessage)
	chatGroup.GET("/history", chatHandler.GetHistory)

	taskGroup := v1.Group("/tasks")
	taskGroup.Use(authMW)
	taskGroup.POST("", workspaceHandler.CreateTask)
	taskGroup.GET("", workspaceHandler.ListTasks)
	taskGroup.PUT("/:id", workspaceHandler.UpdateTask)
	taskGroup.DELETE("/:id", workspaceHandler.DeleteTask)

	clientGroup := v1.Group("/clients")
	clientGroup.Use(authMW)
	clientGroup.POST("", workspaceHandler.CreateClient)
	clientGroup.GET("", workspaceHandler.ListClients)
	clientGroup.PUT("/:id", workspaceHandler.UpdateClient)
	clientGroup.DELETE("/:id", workspaceHandler.DeleteClient)

	noteGroup := v1.Group("/notes")
	noteGroup.Use(authMW)
	noteGroup.POST("", workspaceHandler.CreateNote)
	noteGroup.GET("", workspaceHandler.ListNotes)
	noteGroup.PUT("/:id", workspaceHandler.UpdateNote)
	noteGroup.DELETE("/:id", workspaceHandler.DeleteNote)

	playbookGroup := v1.Group("/playbooks")
	playbookGroup.Use(authMW)
	playbookGroup.POST("", contentHandler.CreatePlaybook)
	playbookGroup.POST("/generate", contentHandler.GeneratePlaybook)
	playbookGroup.GET("", contentHandler.ListPlaybooks)
	playbookGroup.PUT("/:id", contentHandler.UpdatePlaybook)
	playbookGroup.DELETE("/:id", contentHandler.DeletePlaybook)

	planGroup := v1.Group("/plans")
	planGroup.Use(authMW)
	planGroup.POST("/generate", contentHandler.GeneratePlan)
	planGroup.GET("", contentHandler.ListPlans)
	planGroup.GET("/:id", contentHandler.GetPlan)
	planGroup.DELETE("/:id", contentHandler.DeletePlan)

	catalogGroup := v1.Group("/catalog")
	catalogGroup.GET("/services", authMW, catalogHandler.List)

	adminGroup := v1.Group("/admin")
	adminGroup.Use(authMW, middleware.RequireAdmin())
	adminGroup.POST("/catalog/services", catalogHandler.Create)
	adminGroup.PUT("/catalog/services/:id", catalogHandler.Update)
	adminGroup.DELETE("/catalog/services/:id", catalogHandler.Delete)
	adminGroup.GET("/chatbots/options", chatbotAdminHandler.Options)
	adminGroup.POST("/chatbots", chatbotAdminHandler.Create)
	adminGroup.GET("/chatbots", chatbotAdminHandler.List)
	adminGroup.GET("/chatbots/:id", chatbotAdminHandler.Get)
	adminGroup.PUT("/chatbots/:id", chatbotAdminHandler.Update)
	adminGroup.DELETE("/chatbots/:id", chatbotAdminHandler.Delete)
	adminGroup.PUT("/chatbots/:id/nodes", chatbotAdminHandler.SetNodes)
	adminGroup.POST("/chatbots/:id/documents", chatbotAdminHandler.UploadDocument)
	adminGroup.GET("/chatbots/:id/prompt-preview", chatbotAdminHandler.PromptPreview)

	return router
}
