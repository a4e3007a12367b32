package article

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/meridianpsych/clinic-api/internal/model"
	articleService "github.com/meridianpsych/clinic-api/internal/service/article"
	"github.com/meridianpsych/clinic-api/pkg/errors"
	"github.com/meridianpsych/clinic-api/pkg/httputil"
)

type Handler struct {
	articles *articleService.Service
}

func NewHandler(articles *articleService.Service) *Handler {
	return &Handler{articles: articles}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	articles := r.Group("/articles", adminOnly)
	{
		articles.POST("", h.Create)
		articles.GET("", h.List)
		articles.GET("/:id", h.Get)
		articles.DELETE("/:id", h.Delete)
		articles.POST("/:id/assist", h.Assist)
		articles.POST("/:id/review", h.MarkReview)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}
	draft, err := h.articles.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, draft)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid draft ID", err))
		return
	}
	draft, err := h.articles.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, draft)
}

func (h *Handler) List(c *gin.Context) {
	drafts, err := h.articles.List(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, drafts)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid draft ID", err))
		return
	}
	if err := h.articles.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"deleted": true})
}

func (h *Handler) Assist(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid draft ID", err))
		return
	}
	var req model.AssistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}
	resp, err := h.articles.Assist(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, resp)
}

func (h *Handler) MarkReview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid draft ID", err))
		return
	}
	draft, err := h.articles.MarkReview(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, draft)
}
