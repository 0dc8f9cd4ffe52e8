package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Chat-Global/accounts-service/internal/auth"
	"github.com/Chat-Global/accounts-service/internal/identity"
)

type Handler struct {
	coordinator *auth.Coordinator
}

func NewHandler(coordinator *auth.Coordinator) *Handler {
	return &Handler{coordinator: coordinator}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.POST("/authorize/user/:id", h.Authorize)
}

func respondError(c *gin.Context, e *auth.Error) {
	c.JSON(e.Status, gin.H{
		"status":   "error",
		"messages": []string{e.Message},
	})
}

func respondMalformed(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{
		"status":   "error",
		"messages": []string{auth.MsgMalformedRequest},
	})
}

func respondIssued(c *gin.Context, res *auth.Result) {
	body := gin.H{
		"status":   "success",
		"token":    res.Token,
		"redirect": res.Redirect,
	}
	if res.Session != nil {
		body["sessionCookie"] = sessionCookie(res.Session)
	}
	c.JSON(http.StatusOK, body)
}

func sessionCookie(s *identity.SessionArtifact) gin.H {
	return gin.H{
		"name":   "session",
		"value":  s.Value,
		"maxAge": s.MaxAge,
	}
}
