package scrape

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobmatch-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the task manager.
type Handler struct {
	Tasks *TaskManager
}

// NewHandler constructs a Handler.
func NewHandler(tasks *TaskManager) *Handler {
	return &Handler{Tasks: tasks}
}

// RegisterRoutes attaches scrape routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/scrapes", h.start)
	rg.GET("/scrapes", h.list)
	rg.GET("/scrapes/:id", h.get)
	rg.DELETE("/scrapes/:id", h.cancel)
}

type startRequest struct {
	Query    string `json:"query"`
	Location string `json:"location"`
	MaxPages int    `json:"maxPages"`
}

func (h *Handler) start(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "query is required", nil)
		return
	}
	if req.MaxPages < 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "maxPages must not be negative", nil)
		return
	}

	task := h.Tasks.Start(req.Query, strings.TrimSpace(req.Location), req.MaxPages)
	c.Set("taskId", task.ID)
	respond.Accepted(c, task)
}

func (h *Handler) list(c *gin.Context) {
	respond.OK(c, gin.H{"tasks": h.Tasks.List()})
}

func (h *Handler) get(c *gin.Context) {
	task, ok := h.Tasks.Get(c.Param("id"))
	if !ok {
		respond.Error(c, http.StatusNotFound, "not_found", "scrape task not found", nil)
		return
	}
	c.Set("taskId", task.ID)
	respond.OK(c, task)
}

func (h *Handler) cancel(c *gin.Context) {
	task, ok := h.Tasks.Get(c.Param("id"))
	if !ok {
		respond.Error(c, http.StatusNotFound, "not_found", "scrape task not found", nil)
		return
	}
	if !h.Tasks.Cancel(task.ID) {
		respond.Error(c, http.StatusConflict, "not_cancelable", "scrape task already finished", nil)
		return
	}
	task, _ = h.Tasks.Get(task.ID)
	respond.Accepted(c, task)
}
