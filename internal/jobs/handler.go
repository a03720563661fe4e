package jobs

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"jobmatch-backend/internal/shared/server/respond"
)

const maxListLimit = 200

// Handler wires HTTP handlers to the repository.
type Handler struct {
	Repo Repo
}

// NewHandler constructs a Handler.
func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

// RegisterRoutes attaches job routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/jobs", h.list)
	rg.GET("/jobs/:id", h.get)
}

func (h *Handler) list(c *gin.Context) {
	filter := ListFilter{
		Query:    strings.TrimSpace(c.Query("q")),
		WorkMode: strings.TrimSpace(c.Query("workMode")),
		Limit:    maxListLimit,
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be a positive integer", nil)
			return
		}
		if limit < maxListLimit {
			filter.Limit = limit
		}
	}

	list, err := h.Repo.ListJobs(c.Request.Context(), filter)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "list_failed", "failed to list jobs", nil)
		return
	}
	respond.OK(c, gin.H{"jobs": list, "total": len(list)})
}

func (h *Handler) get(c *gin.Context) {
	job, err := h.Repo.FindJobByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "get_failed", "failed to load job", nil)
		return
	}
	c.Set("jobId", job.ID)
	respond.OK(c, job)
}
