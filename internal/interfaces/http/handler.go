package http

import (
	"errors"
	"net/http"

	"project_zapflow/internal/infrastructure"
	"project_zapflow/internal/usecases"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	pipeline         *usecases.RelayPipeline
	dashboardUsecase *usecases.DashboardUsecase
	floodLimiter     *infrastructure.FloodLimiter
}

func NewHandler(pipeline *usecases.RelayPipeline, dashboard *usecases.DashboardUsecase, flood *infrastructure.FloodLimiter) *Handler {
	return &Handler{
		pipeline:         pipeline,
		dashboardUsecase: dashboard,
		floodLimiter:     flood,
	}
}

func SetupRoutes(r *gin.Engine, pipeline *usecases.RelayPipeline, auth *usecases.AuthUsecase, dashboard *usecases.DashboardUsecase, flood *infrastructure.FloodLimiter, middleware *Middleware) {
	h := NewHandler(pipeline, dashboard, flood)

	// Apply Security Middleware
	r.Use(SecurityHeaders())
	r.Use(RequestSizeLimiter(10 << 20)) // 10MB max request size
	r.Use(middleware.CORSMiddleware())

	// Public Routes
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.POST("/webhook", h.HandleWebhook)

	// Public Auth Routes
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", func(c *gin.Context) {
			var regReq struct {
				Email     string `json:"email"`
				Password  string `json:"password"`
				BotNumber string `json:"botNumber"`
			}
			if err := c.ShouldBindJSON(&regReq); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
				return
			}
			if regReq.Email == "" || regReq.Password == "" || regReq.BotNumber == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Email, senha e número do bot são obrigatórios"})
				return
			}
			if !ValidEmail(regReq.Email) || !ValidateLength(regReq.Password, MinPasswordChars, 72) || !ValidPhoneNumber(regReq.BotNumber) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Email, senha ou número do bot inválidos"})
				return
			}
			userID, err := auth.Register(regReq.Email, regReq.Password, regReq.BotNumber)
			if err != nil {
				if errors.Is(err, usecases.ErrUserExists) || errors.Is(err, usecases.ErrBotNumberTaken) {
					c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "Usuário criado", "userId": userID})
		})

		authGroup.POST("/login", func(c *gin.Context) {
			var loginReq struct {
				Email    string `json:"email"`
				Password string `json:"password"`
			}
			if err := c.ShouldBindJSON(&loginReq); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
				return
			}
			token, err := auth.Login(loginReq.Email, loginReq.Password)
			if err != nil {
				if errors.Is(err, usecases.ErrUserNotFound) || errors.Is(err, usecases.ErrWrongPassword) {
					c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
					return
				}
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"token": token})
		})
	}

	// Protected Dashboard Routes
	api := r.Group("/")
	api.Use(middleware.AuthRequired())
	api.Use(middleware.RateLimitPerUser(5, 10))
	{
		api.POST("/send", h.SendMessage)
		api.GET("/conversations", h.GetConversations)
		api.GET("/messages", h.GetMessages)
		api.GET("/messages/:contactId", h.GetContactMessages)
		api.GET("/logs", h.GetLogs)
		api.GET("/contacts", h.GetContacts)
		api.DELETE("/contacts/:contactId", h.DeleteContact)
		api.GET("/bot/settings", h.GetBotSettings)
		api.POST("/bot/settings", h.SaveBotSettings)
		api.GET("/dashboard/stats", h.GetStats)
	}
}

// HandleWebhook drives the relay pipeline for one gateway event. Every
// failure is turned into a JSON response here; nothing propagates.
func (h *Handler) HandleWebhook(c *gin.Context) {
	if h.floodLimiter != nil && !h.floodLimiter.Allow(c.ClientIP()) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
		return
	}

	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.pipeline.Handle(payload)
	if err != nil {
		switch {
		case errors.Is(err, usecases.ErrMissingSender):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Número não encontrado"})
		case errors.Is(err, usecases.ErrUnknownTenant):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Bot não reconhecido"})
		case errors.Is(err, usecases.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Mensagem vazia"})
		default:
			log.Error().Err(err).Msg("webhook pipeline failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	if result.Echo {
		c.JSON(http.StatusOK, gin.H{"saved": true, "from": "BOT"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
