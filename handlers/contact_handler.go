package handlers

import (
	"errors"
	"net/http"

	"tariffdesk-backend/service"

	"github.com/gin-gonic/gin"
)

// ContactHandler handles HTTP requests for the contact form
type ContactHandler struct {
	svc *service.ContactService
}

// NewContactHandler creates a new contact handler
func NewContactHandler(svc *service.ContactService) *ContactHandler {
	return &ContactHandler{svc: svc}
}

// Submit handles POST /api/contact
func (h *ContactHandler) Submit(c *gin.Context) {
	var req struct {
		Name           string `json:"name"`
		Email          string `json:"email"`
		Message        string `json:"message"`
		Company        string `json:"company"`
		TurnstileToken string `json:"turnstileToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	err := h.svc.Send(c.Request.Context(), service.ContactRequest{
		Name:           req.Name,
		Email:          req.Email,
		Message:        req.Message,
		Company:        req.Company,
		TurnstileToken: req.TurnstileToken,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingContactFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill all required fields."})
		case errors.Is(err, service.ErrMissingToken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please complete the verification."})
		case errors.Is(err, service.ErrVerifyFailed):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Verification failed. Please try again."})
		case errors.Is(err, service.ErrVerifyNotConfigured):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Spam protection is not configured."})
		case errors.Is(err, service.ErrMailNotConfigured):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Email service is not configured."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to send message."})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
