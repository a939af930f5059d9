package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/pdf-rag-be/types"
	"github.com/tieubaoca/pdf-rag-be/utils"
)

type LoginHandler struct {
	adminUsername string
	adminPassword string
}

func NewLoginHandler(adminUsername, adminPassword string) *LoginHandler {
	return &LoginHandler{
		adminUsername: adminUsername,
		adminPassword: adminPassword,
	}
}

// HandleLogin exchanges the admin credentials for a Bearer token used on
// the upload routes.
func (h *LoginHandler) HandleLogin(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
		return
	}

	if h.adminPassword == "" ||
		subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.adminUsername)) != 1 ||
		subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.adminPassword)) != 1 {
		c.JSON(http.StatusUnauthorized, types.DataResponse{
			Status:  "error",
			Message: "Invalid credentials",
		})
		return
	}

	token, err := utils.GenerateAdminToken(req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: "Failed to generate token",
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   gin.H{"token": token},
	})
}
