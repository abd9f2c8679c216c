package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Vaidehi-Hirani/ToDo/internal/adapters/transport/http/dto"
)

func (h *Handler) ListProjects(c *gin.Context) {
	projects, err := h.todo.ListProjects(c.Request.Context(), userID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *Handler) GetProject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.todo.GetProject(c.Request.Context(), userID(c), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) CreateProject(c *gin.Context) {
	var body dto.CreateProjectDTO
	if !h.bind(c, &body) {
		return
	}
	p, err := h.todo.CreateProject(c.Request.Context(), userID(c), body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("%s/%d", apiPrefix+"/projects", p.ID))
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) UpdateProject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body dto.UpdateProjectDTO
	if !h.bind(c, &body) {
		return
	}
	if err := h.todo.UpdateProject(c.Request.Context(), userID(c), id, body); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) DeleteProject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.todo.DeleteProject(c.Request.Context(), userID(c), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
