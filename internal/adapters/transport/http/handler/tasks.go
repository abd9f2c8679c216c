package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Vaidehi-Hirani/ToDo/internal/adapters/transport/http/dto"
)

func (h *Handler) ListTasks(c *gin.Context) {
	var projectID *int64
	if raw := c.Query("projectId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			message(c, http.StatusBadRequest, "invalid projectId")
			return
		}
		projectID = &id
	}

	tasks, err := h.todo.ListTasks(c.Request.Context(), userID(c), projectID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) GetTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	t, err := h.todo.GetTask(c.Request.Context(), userID(c), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) CreateTask(c *gin.Context) {
	var body dto.CreateTaskDTO
	if !h.bind(c, &body) {
		return
	}
	t, err := h.todo.CreateTask(c.Request.Context(), userID(c), body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("%s/%d", apiPrefix+"/tasks", t.ID))
	c.JSON(http.StatusCreated, t)
}

func (h *Handler) UpdateTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body dto.UpdateTaskDTO
	if !h.bind(c, &body) {
		return
	}
	if err := h.todo.UpdateTask(c.Request.Context(), userID(c), id, body); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.todo.DeleteTask(c.Request.Context(), userID(c), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
