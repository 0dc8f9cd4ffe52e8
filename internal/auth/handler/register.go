package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Chat-Global/accounts-service/internal/auth"
)

type registerRequest struct {
	Credentials *registerCredentials `json:"credentials"`
}

type registerCredentials struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	CaptchaToken string `json:"captchaToken"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Credentials == nil {
		respondMalformed(c)
		return
	}

	res, cErr := h.coordinator.Register(c.Request.Context(), auth.RegisterCredentials{
		Username:     req.Credentials.Username,
		Email:        req.Credentials.Email,
		Password:     req.Credentials.Password,
		CaptchaToken: req.Credentials.CaptchaToken,
	})
	if cErr != nil {
		respondError(c, cErr)
		return
	}

	respondIssued(c, res)
}
