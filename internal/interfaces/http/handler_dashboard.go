package http

import (
	"errors"
	"net/http"

	"project_zapflow/internal/entities"
	"project_zapflow/internal/usecases"

	"github.com/gin-gonic/gin"
)

// SendMessage delivers a manual dashboard send through the gateway and
// returns the gateway's raw response.
func (h *Handler) SendMessage(c *gin.Context) {
	userID := GetUserID(c)

	var payload struct {
		Number string `json:"number"`
		Text   string `json:"text"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if payload.Number == "" || payload.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Número e texto são obrigatórios"})
		return
	}
	if !ValidPhoneNumber(payload.Number) || !ValidateLength(payload.Text, 1, MaxTextLength) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Número ou texto inválidos"})
		return
	}
	payload.Text = SanitizeString(payload.Text)

	resp, err := h.dashboardUsecase.SendManual(userID, payload.Number, payload.Text)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", resp)
}

func (h *Handler) GetConversations(c *gin.Context) {
	userID := GetUserID(c)
	messages, err := h.dashboardUsecase.RecentConversations(userID)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, messages)
}

// GetMessages returns the tenant's full history in the dashboard's flat
// shape: {id, message, user, isBot, time}.
func (h *Handler) GetMessages(c *gin.Context) {
	userID := GetUserID(c)
	messages, err := h.dashboardUsecase.AllMessages(userID)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	view := make([]gin.H, 0, len(messages))
	for _, m := range messages {
		user := m.Contact.Name
		if user == "" {
			user = m.Sender
		}
		view = append(view, gin.H{
			"id":      m.ID,
			"message": m.Content,
			"user":    user,
			"isBot":   m.Sender == entities.SenderBot,
			"time":    m.Timestamp.Format("15:04"),
		})
	}
	c.JSON(200, view)
}

func (h *Handler) GetContactMessages(c *gin.Context) {
	userID := GetUserID(c)
	contactID := c.Param("contactId")

	messages, err := h.dashboardUsecase.ContactMessages(userID, contactID)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	if len(messages) == 0 {
		c.JSON(404, gin.H{"error": "Nenhuma mensagem encontrada"})
		return
	}
	c.JSON(200, messages)
}

func (h *Handler) GetLogs(c *gin.Context) {
	userID := GetUserID(c)
	logs, err := h.dashboardUsecase.RecentLogs(userID)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, logs)
}

func (h *Handler) GetContacts(c *gin.Context) {
	userID := GetUserID(c)
	contacts, err := h.dashboardUsecase.Contacts(userID)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, contacts)
}

func (h *Handler) DeleteContact(c *gin.Context) {
	userID := GetUserID(c)
	contactID := c.Param("contactId")

	if err := h.dashboardUsecase.DeleteContact(userID, contactID); err != nil {
		if errors.Is(err, usecases.ErrContactNotFound) {
			c.JSON(404, gin.H{"error": err.Error()})
			return
		}
		c.JSON(500, gin.H{"error": "Erro interno ao excluir contato"})
		return
	}
	c.JSON(200, gin.H{"success": true, "message": "Contato e mensagens excluídos com sucesso"})
}

func (h *Handler) GetBotSettings(c *gin.Context) {
	userID := GetUserID(c)
	settings, err := h.dashboardUsecase.GetSettings(userID)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, settings)
}

func (h *Handler) SaveBotSettings(c *gin.Context) {
	userID := GetUserID(c)

	var payload struct {
		Personality  string `json:"personality"`
		Language     string `json:"language"`
		AutoJokes    bool   `json:"autoJokes"`
		AutoTime     bool   `json:"autoTime"`
		AutoGreeting bool   `json:"autoGreeting"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	settings, err := h.dashboardUsecase.SaveSettings(userID, &entities.BotSettings{
		Personality:  SanitizeString(payload.Personality),
		Language:     SanitizeString(payload.Language),
		AutoJokes:    payload.AutoJokes,
		AutoTime:     payload.AutoTime,
		AutoGreeting: payload.AutoGreeting,
	})
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, settings)
}

func (h *Handler) GetStats(c *gin.Context) {
	userID := GetUserID(c)
	stats, err := h.dashboardUsecase.Stats(userID)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, stats)
}
