package match

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobmatch-backend/internal/extract"
	"jobmatch-backend/internal/jobs"
	"jobmatch-backend/internal/resume"
	"jobmatch-backend/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler accepts a resume, extracts its profile and ranks the stored
// job catalog against it.
type Handler struct {
	Extractor    *resume.Extractor
	Orchestrator *Orchestrator
	Repo         jobs.Repo
}

// NewHandler constructs a Handler.
func NewHandler(extractor *resume.Extractor, orchestrator *Orchestrator, repo jobs.Repo) *Handler {
	return &Handler{Extractor: extractor, Orchestrator: orchestrator, Repo: repo}
}

// RegisterRoutes attaches match routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/match", h.match)
}

type matchRequest struct {
	ResumeText string `json:"resumeText"`
}

type matchResponse struct {
	Profile resume.Profile `json:"profile"`
	Matches []MatchResult  `json:"matches"`
	Total   int            `json:"total"`
}

func (h *Handler) match(c *gin.Context) {
	text, ok := h.resumeText(c)
	if !ok {
		return
	}

	profile := h.Extractor.Extract(text)
	if profile.LowConfidence() {
		respond.Error(c, http.StatusUnprocessableEntity, "low_confidence",
			"could not extract a usable profile from the resume", nil)
		return
	}

	corpus, err := h.Repo.ListJobs(c.Request.Context(), jobs.ListFilter{})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "list_failed", "failed to load job catalog", nil)
		return
	}

	matches, err := h.Orchestrator.MatchAll(c.Request.Context(), profile, corpus)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "match_failed", "matching pass did not complete", nil)
		return
	}

	// Raw text is large and already mined; keep the response lean.
	profile.RawText = ""
	respond.OK(c, matchResponse{Profile: profile, Matches: matches, Total: len(matches)})
}

// resumeText reads the resume either as a multipart file upload or as a
// JSON body with a resumeText field. Replies with an error itself when
// the input is unusable.
func (h *Handler) resumeText(c *gin.Context) (string, bool) {
	contentType := c.ContentType()
	if strings.HasPrefix(contentType, "multipart/form-data") {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

		fileHeader, err := c.FormFile("file")
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
			return "", false
		}
		file, err := fileHeader.Open()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
			return "", false
		}
		defer file.Close()

		raw, err := io.ReadAll(file)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
			return "", false
		}

		text, err := extract.TextFromBytes(c.Request.Context(), raw,
			fileHeader.Header.Get("Content-Type"), fileHeader.Filename)
		if err != nil {
			respond.Error(c, http.StatusUnsupportedMediaType, "extract_failed", err.Error(), nil)
			return "", false
		}
		return text, true
	}

	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return "", false
	}
	req.ResumeText = strings.TrimSpace(req.ResumeText)
	if req.ResumeText == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resumeText is required", nil)
		return "", false
	}
	return req.ResumeText, true
}
