package main

import (
	"context"

	"horeca-compliance-backend/config"
	"horeca-compliance-backend/middleware"
	"horeca-compliance-backend/token"
	"horeca-compliance-backend/utils"
	"horeca-compliance-backend/workers"

	// Repositories
	case_repositories "horeca-compliance-backend/cases/repositories"
	client_repositories "horeca-compliance-backend/clients/repositories"
	document_repositories "horeca-compliance-backend/documents/repositories"
	request_repositories "horeca-compliance-backend/requests/repositories"
	task_repositories "horeca-compliance-backend/tasks/repositories"
	user_repositories "horeca-compliance-backend/users/repositories"

	// Services
	document_services "horeca-compliance-backend/documents/services"
	search_controllers "horeca-compliance-backend/search/controllers"
	search_services "horeca-compliance-backend/search/services"
	user_services "horeca-compliance-backend/users/services"

	// Routes
	case_routes "horeca-compliance-backend/cases/routes"
	client_routes "horeca-compliance-backend/clients/routes"
	document_routes "horeca-compliance-backend/documents/routes"
	request_routes "horeca-compliance-backend/requests/routes"
	search_routes "horeca-compliance-backend/search/routes"
	task_routes "horeca-compliance-backend/tasks/routes"
	user_routes "horeca-compliance-backend/users/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Initialize Zap logger
	config.InitLogger()

	// Load environment variables
	if err := godotenv.Load(".env"); err != nil {
		config.Logger.Warn("No .env file found, relying on environment", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		BodyLimit: document_services.MaxUploadSize + 1<<20,
	})

	middleware.InitCors(app)

	db := config.ConfigureDatabase()
	port := config.GetEnv("PORT")
	if port == "" {
		port = "8080"
	}
	ctx := context.Background()

	redisAddr := config.GetEnv("REDIS_ADDRESS")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
		config.Logger.Warn("REDIS_ADDRESS not set, using default: localhost:6379")
	}
	redisClient := config.InitRedisServer(ctx)

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	defer asynqClient.Close()

	tokenKey := config.GetEnv("TOKEN_SYMMETRIC_KEY")
	tokenMaker, err := token.NewPasetoMaker(tokenKey)
	if err != nil {
		config.Logger.Fatal("Cannot create token maker", zap.Error(err))
	}

	indexPath := config.GetEnv("BLEVE_INDEX_PATH")
	if indexPath == "" {
		indexPath = "./bleve_data"
		config.Logger.Warn("BLEVE_INDEX_PATH not set, using default: ./bleve_data")
	}

	baseFrontendURL := config.GetEnv("BASE_FRONTEND_URL")
	if baseFrontendURL == "" {
		baseFrontendURL = "http://localhost:5173"
		config.Logger.Warn("BASE_FRONTEND_URL not set, using default", zap.String("url", baseFrontendURL))
	}

	utils.InitializeMailer()

	// Serve uploaded documents directly during local development only; in
	// production the download endpoint is the sole path to file bytes.
	app.Static("/public", "./public")

	// Repositories
	indexingService := search_services.NewIndexingService(config.Logger, indexPath)
	userRepo := user_repositories.NewUserRepository(db)
	clientRepo := client_repositories.NewClientRepository(db)
	caseRepo := case_repositories.NewCaseRepository(db)
	taskRepo := task_repositories.NewTaskRepository(db)
	documentRepo := document_repositories.NewDocumentRepository(db)
	requestRepo := request_repositories.NewRequestRepository(db, caseRepo)

	// Services
	fileStorage := utils.NewLocalFileStorage("./uploads")
	documentService := document_services.NewDocumentService(documentRepo, fileStorage)
	resolver := user_services.NewIdentityResolver(db)

	appContext := &middleware.AppContext{
		PasetoMaker: tokenMaker,
		Ctx:         ctx,
		RedisClient: redisClient,
		DB:          db,
		Resolver:    resolver,
	}

	// Routes
	user_routes.InitRoutes(app, userRepo, ctx, redisClient, tokenMaker, appContext, db, baseFrontendURL)
	client_routes.ClientInitRoutes(app, clientRepo, appContext, db)
	case_routes.CaseRouterInit(app, caseRepo, indexingService, appContext, db)
	task_routes.TaskRouterInit(app, taskRepo, appContext)
	document_routes.DocumentRouterInit(app, documentService, appContext)
	request_routes.RequestRouterInit(app, requestRepo, appContext)

	searchController := search_controllers.NewSearchController(indexingService)
	search_routes.InitSearchRoutes(app, searchController, appContext)

	// Background reconciliation
	workerServer := workers.StartWorkerServer(redisAddr, db)
	defer workerServer.Shutdown()
	scheduler := workers.StartScheduler(asynqClient)
	defer scheduler.Stop()

	config.Logger.Info("Server starting", zap.String("port", port))
	config.Logger.Fatal("Server failed", zap.String("port", port), zap.Error(app.Listen(":"+port)))
}
