package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/tutorforge/internal/contentgen"
	"github.com/abhisek/tutorforge/internal/logging"
	"github.com/abhisek/tutorforge/internal/store"
)

// Generator is the part of contentgen.Generator the handlers need.
type Generator interface {
	Generate(ctx context.Context, kind contentgen.Kind, raw []byte) (*contentgen.GenerationResult, error)
}

// Handler serves the generation endpoints.
type Handler struct {
	gen     Generator
	results store.ResultRepo
	log     *logging.Logger
}

// NewHandler creates a Handler. results may be nil to skip persistence.
func NewHandler(gen Generator, results store.ResultRepo, log *logging.Logger) *Handler {
	if log == nil {
		log = logging.NewNop()
	}
	return &Handler{gen: gen, results: results, log: log}
}

// Generate returns the POST handler for kind.
func (h *Handler) Generate(kind contentgen.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.GetRawData()
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				respondError(c, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			respondError(c, http.StatusBadRequest, "failed to read request body")
			return
		}

		result, err := h.gen.Generate(c.Request.Context(), kind, raw)
		if err != nil {
			respondGenerationError(c, err)
			return
		}

		h.persist(c.Request.Context(), result)
		respondOK(c, result)
	}
}

// persist stores a successful result. A storage failure is logged and does
// not fail the request.
func (h *Handler) persist(ctx context.Context, result *contentgen.GenerationResult) {
	if h.results == nil {
		return
	}
	body, err := result.MarshalJSON()
	if err == nil {
		err = h.results.Save(ctx, &store.StoredResult{
			ID:        result.ID,
			Kind:      string(result.Kind),
			CreatedAt: result.CreatedAt,
			Body:      body,
		})
	}
	if err != nil {
		h.log.Error("failed to persist generation result", "id", result.ID, "error", err)
	}
}

type endpointInfo struct {
	Message        string            `json:"message"`
	Endpoints      map[string]string `json:"endpoints"`
	RequiredFields []string          `json:"requiredFields"`
}

var endpointDescriptions = map[contentgen.Kind][2]string{
	contentgen.KindLesson:     {"Lesson Generation API", "Generate a new lesson"},
	contentgen.KindPath:       {"Learning Path Generation API", "Generate a personalized learning path"},
	contentgen.KindAdaptation: {"Content Adaptation API", "Adapt content based on user performance"},
	contentgen.KindQuiz:       {"Quiz Generation API", "Generate quiz questions for a topic"},
	contentgen.KindFeedback:   {"Personalized Feedback API", "Generate feedback on a learner's progress"},
}

// Describe returns the GET handler documenting the endpoint for kind.
func (h *Handler) Describe(kind contentgen.Kind) gin.HandlerFunc {
	desc := endpointDescriptions[kind]
	info := endpointInfo{
		Message:        desc[0],
		Endpoints:      map[string]string{"POST": desc[1]},
		RequiredFields: contentgen.RequiredFields(kind),
	}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, info)
	}
}

// GetResult serves a stored result by id.
func (h *Handler) GetResult(c *gin.Context) {
	if h.results == nil {
		respondError(c, http.StatusNotFound, "result storage is disabled")
		return
	}
	res, err := h.results.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to load result")
		return
	}
	if res == nil {
		respondError(c, http.StatusNotFound, "result not found")
		return
	}
	respondOK(c, json.RawMessage(res.Body))
}

type resultSummary struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	CreatedAt string `json:"createdAt"`
}

// ListResults serves stored result summaries, newest first.
func (h *Handler) ListResults(c *gin.Context) {
	if h.results == nil {
		respondOK(c, []resultSummary{})
		return
	}

	opts := store.ResultListOpts{Limit: 20}
	if k := c.Query("kind"); k != "" {
		kind, err := contentgen.ParseKind(k)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		opts.Kind = string(kind)
	}
	if l := c.Query("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 || n > 100 {
			respondError(c, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		opts.Limit = n
	}

	rows, err := h.results.List(c.Request.Context(), opts)
	if err != nil {
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to list results")
		return
	}
	out := make([]resultSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, resultSummary{
			ID:        r.ID,
			Kind:      r.Kind,
			CreatedAt: r.CreatedAt.UTC().Format(contentgen.TimeFormat),
		})
	}
	respondOK(c, out)
}

// Health reports liveness.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
