package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Vaidehi-Hirani/ToDo/internal/adapters/transport/http/dto"
	"github.com/Vaidehi-Hirani/ToDo/internal/adapters/transport/http/middleware"
	authsvc "github.com/Vaidehi-Hirani/ToDo/internal/app/auth/service"
	todosvc "github.com/Vaidehi-Hirani/ToDo/internal/app/todo/service"
	customErrors "github.com/Vaidehi-Hirani/ToDo/internal/domain/errors"
)

type Handler struct {
	auth        authsvc.Service
	todo        todosvc.Service
	log         *zap.Logger
	development bool
}

func New(auth authsvc.Service, todo todosvc.Service, log *zap.Logger, development bool) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{auth: auth, todo: todo, log: log, development: development}
}

func message(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, dto.MessageResponse{Message: msg})
}

// handleError is the single mapping from domain errors to HTTP responses.
func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case customErrors.IsRenewalRejected(err):
		message(c, http.StatusBadRequest, err.Error())
	case customErrors.IsInvalidArgument(err):
		message(c, http.StatusBadRequest, err.Error())
	case customErrors.IsAlreadyExists(err):
		message(c, http.StatusBadRequest, "Email already registered.")
	case customErrors.IsInvalidProject(err):
		message(c, http.StatusBadRequest, err.Error())
	case customErrors.IsInvalidCredentials(err):
		message(c, http.StatusUnauthorized, "Invalid email or password.")
	case customErrors.IsInvalidToken(err):
		message(c, http.StatusUnauthorized, "invalid token")
	case customErrors.IsInvalidAssertion(err):
		message(c, http.StatusUnauthorized, "Invalid Google token.")
	case customErrors.IsNotFound(err):
		message(c, http.StatusNotFound, "not found")
	default:
		_ = c.Error(err)
		h.log.Error("request failed",
			zap.String("request_id", middleware.RequestIDFrom(c)),
			zap.Error(err),
		)
		msg := "An unexpected error occurred."
		if h.development {
			msg = err.Error()
		}
		message(c, http.StatusInternalServerError, msg)
	}
}

func (h *Handler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		message(c, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}

// userID returns the authenticated caller; BearerAuth guarantees it exists
// on protected routes.
func userID(c *gin.Context) int64 {
	p, _ := middleware.PrincipalFrom(c)
	return p.UserID
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		message(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
