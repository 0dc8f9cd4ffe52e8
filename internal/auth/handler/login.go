package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Chat-Global/accounts-service/internal/auth"
)

type loginRequest struct {
	Credentials *loginCredentials `json:"credentials"`
}

type loginCredentials struct {
	// the login key carries the email
	Login        string `json:"login"`
	Password     string `json:"password"`
	CaptchaToken string `json:"captchaToken"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Credentials == nil {
		respondMalformed(c)
		return
	}

	res, cErr := h.coordinator.Login(c.Request.Context(), auth.LoginCredentials{
		Email:        req.Credentials.Login,
		Password:     req.Credentials.Password,
		CaptchaToken: req.Credentials.CaptchaToken,
	})
	if cErr != nil {
		respondError(c, cErr)
		return
	}

	respondIssued(c, res)
}
