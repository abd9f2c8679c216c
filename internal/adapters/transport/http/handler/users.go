package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Vaidehi-Hirani/ToDo/internal/adapters/transport/http/dto"
	"github.com/Vaidehi-Hirani/ToDo/internal/domain/auth/model"
	lg "github.com/Vaidehi-Hirani/ToDo/internal/infra/log"
)

func tokenResponse(pair model.TokenPair) dto.TokenResponse {
	return dto.TokenResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ID:           pair.UserID,
		Name:         pair.Name,
		Email:        pair.Email,
	}
}

func (h *Handler) Register(c *gin.Context) {
	var body dto.RegisterDTO
	if !h.bind(c, &body) {
		return
	}
	h.log.Info("/users/register", lg.Email(body.Email))

	pair, err := h.auth.Register(c.Request.Context(), body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse(pair))
}

func (h *Handler) Login(c *gin.Context) {
	var body dto.LoginDTO
	if !h.bind(c, &body) {
		return
	}
	h.log.Info("/users/login", lg.Email(body.Email))

	pair, err := h.auth.Login(c.Request.Context(), body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse(pair))
}

func (h *Handler) GoogleSignIn(c *gin.Context) {
	var body dto.GoogleAuthDTO
	if !h.bind(c, &body) {
		return
	}

	pair, err := h.auth.GoogleSignIn(c.Request.Context(), body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	resp := tokenResponse(pair)
	resp.IsNewUser = &pair.IsNewUser
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) RefreshToken(c *gin.Context) {
	var body dto.RefreshDTO
	if !h.bind(c, &body) {
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse(pair))
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), userID(c)); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "logged out"})
}
