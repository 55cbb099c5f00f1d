package main

import (
	"flag"
	"log"

	"k8s.io/klog/v2"

	"github.com/bonicascribe/backend/config"
	"github.com/bonicascribe/backend/internal/eventbus"
	"github.com/bonicascribe/backend/internal/handler"
	"github.com/bonicascribe/backend/internal/pkg/authtoken"
	"github.com/bonicascribe/backend/internal/pkg/database"
	"github.com/bonicascribe/backend/internal/repository"
	"github.com/bonicascribe/backend/internal/router"
	"github.com/bonicascribe/backend/internal/service"
	"github.com/bonicascribe/backend/internal/service/dictation"
	"github.com/bonicascribe/backend/internal/subscriber"
)

func main() {
	// 初始化 klog
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	klog.V(6).Info("服务启动中...")

	cfg := config.GetConfig()

	// 初始化数据库
	db, err := database.InitDB(cfg.Database.Type, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// 初始化 Repository
	formRepo := repository.NewFormRepository(db)
	userRepo := repository.NewUserRepository(db)

	// 事件总线与审计订阅
	bus := eventbus.NewFormEventBus()
	subscriber.RegisterAuditLog(bus)

	// 多模态 ChatModel
	chatModel, err := dictation.NewChatModel(cfg.LLM.APIKey, cfg.LLM.APIURL, cfg.LLM.Model, cfg.LLM.MaxTokens)
	if err != nil {
		log.Fatalf("Failed to initialize chat model: %v", err)
	}

	tokens := authtoken.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// 初始化 Service
	authService := service.NewAuthService(userRepo, tokens)
	templateService := service.NewTemplateService(formRepo)
	formService := service.NewFormService(formRepo, userRepo, bus, int64(cfg.Quota.FreeFormLimit))
	transcriptionService := service.NewTranscriptionService(formService, formRepo, chatModel, bus)
	billingService := service.NewBillingService(userRepo, cfg.Billing)
	exportService := service.NewExportService(formService)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService)
	templateHandler := handler.NewTemplateHandler(templateService)
	formHandler := handler.NewFormHandler(formService)
	transcriptionHandler := handler.NewTranscriptionHandler(transcriptionService)
	billingHandler := handler.NewBillingHandler(billingService)
	exportHandler := handler.NewExportHandler(exportService)

	// 设置路由
	r := router.Setup(cfg, tokens, authHandler, templateHandler, formHandler,
		transcriptionHandler, billingHandler, exportHandler)

	log.Printf("Server starting on port %s...", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
