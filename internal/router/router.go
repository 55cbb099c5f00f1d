package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/bonicascribe/backend/config"
	"github.com/bonicascribe/backend/internal/handler"
	"github.com/bonicascribe/backend/internal/pkg/authtoken"
)

func Setup(
	cfg *config.Config,
	tokens *authtoken.Manager,
	authHandler *handler.AuthHandler,
	templateHandler *handler.TemplateHandler,
	formHandler *handler.FormHandler,
	transcriptionHandler *handler.TranscriptionHandler,
	billingHandler *handler.BillingHandler,
	exportHandler *handler.ExportHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Webhook 由 Stripe 调用，签名校验代替登录态
		api.POST("/billing/webhook", billingHandler.Webhook)

		authed := api.Group("", handler.RequireAuth(tokens))
		{
			authed.GET("/auth/me", authHandler.Me)

			templates := authed.Group("/templates")
			{
				templates.GET("", templateHandler.List)
				templates.POST("", templateHandler.Create)
				templates.GET("/:key", templateHandler.Get)
				templates.PUT("/:key", templateHandler.Update)
				templates.DELETE("/:key", templateHandler.Delete)
				templates.POST("/:key/sections", templateHandler.AddSection)
				templates.PUT("/:key/sections/:sectionKey", templateHandler.UpdateSection)
				templates.DELETE("/:key/sections/:sectionKey", templateHandler.DeleteSection)
				templates.POST("/:key/sections/:sectionKey/move", templateHandler.MoveSection)
			}

			forms := authed.Group("/forms")
			{
				forms.GET("", formHandler.List)
				forms.POST("", formHandler.Create)
				forms.GET("/:id", formHandler.Get)
				forms.PUT("/:id/name", formHandler.Rename)
				forms.DELETE("/:id", formHandler.Delete)
				forms.PUT("/:id/sections/:sectionKey", formHandler.UpdateSection)
				forms.PUT("/:id/sections/:sectionKey/summary", formHandler.UpdateSummary)
				forms.POST("/:id/sections/:sectionKey/reset", formHandler.ResetSection)
				forms.POST("/:id/transcribe", transcriptionHandler.Transcribe)
				forms.POST("/:id/sections/:sectionKey/summarize", transcriptionHandler.Summarize)
				forms.POST("/:id/sections/:sectionKey/diagnose", transcriptionHandler.SuggestDiagnosis)
				forms.GET("/:id/export/doc", exportHandler.ExportDoc)
				forms.GET("/:id/export/text", exportHandler.ExportText)
			}

			authed.POST("/billing/checkout", billingHandler.CreateCheckout)
		}
	}

	return r
}
