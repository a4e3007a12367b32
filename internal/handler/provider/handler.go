package provider

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/meridianpsych/clinic-api/internal/model"
	availabilityService "github.com/meridianpsych/clinic-api/internal/service/availability"
	providerService "github.com/meridianpsych/clinic-api/internal/service/provider"
	"github.com/meridianpsych/clinic-api/pkg/errors"
	"github.com/meridianpsych/clinic-api/pkg/httputil"
)

type Handler struct {
	providers    *providerService.Service
	availability *availabilityService.Service
}

func NewHandler(providers *providerService.Service, availability *availabilityService.Service) *Handler {
	return &Handler{providers: providers, availability: availability}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	providers := r.Group("/providers")
	{
		providers.GET("", h.List)
		providers.GET("/export", h.ExportCSV)
		providers.GET("/:id", h.Get)
		providers.POST("", adminOnly, h.Create)
		providers.PUT("/:id", adminOnly, h.Update)
		providers.DELETE("/:id", adminOnly, h.Deactivate)

		providers.GET("/:id/availability", h.ListBlocks)
		providers.POST("/:id/availability", adminOnly, h.AddBlock)
		providers.POST("/:id/availability/exceptions", adminOnly, h.AddException)
		providers.GET("/:id/slots", h.GetSlots)
	}
	r.DELETE("/availability/:id", adminOnly, h.RemoveBlock)
	r.DELETE("/availability/exceptions/:id", adminOnly, h.RemoveException)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}
	provider, err := h.providers.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, provider)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid provider ID", err))
		return
	}
	provider, err := h.providers.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, provider)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid provider ID", err))
		return
	}
	var req model.UpdateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}
	provider, err := h.providers.Update(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, provider)
}

func (h *Handler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid provider ID", err))
		return
	}
	if err := h.providers.Deactivate(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"deactivated": true})
}

func (h *Handler) List(c *gin.Context) {
	var filter model.ProviderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}
	providers, err := h.providers.List(c.Request.Context(), filter)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, providers)
}

func (h *Handler) ExportCSV(c *gin.Context) {
	var filter model.ProviderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="providers.csv"`)
	if err := h.providers.ExportCSV(c.Request.Context(), c.Writer, filter); err != nil {
		// Headers are out; all we can do is log through the error list.
		c.Error(err)
	}
}

func (h *Handler) AddBlock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid provider ID", err))
		return
	}
	var req model.CreateWeeklyBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}
	block, err := h.availability.AddBlock(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, block)
}

func (h *Handler) ListBlocks(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid provider ID", err))
		return
	}
	blocks, err := h.availability.ListBlocks(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, blocks)
}

func (h *Handler) RemoveBlock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid block ID", err))
		return
	}
	if err := h.availability.RemoveBlock(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"deleted": true})
}

func (h *Handler) AddException(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid provider ID", err))
		return
	}
	var req model.CreateExceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}
	exc, err := h.availability.AddException(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, exc)
}

func (h *Handler) RemoveException(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid exception ID", err))
		return
	}
	if err := h.availability.RemoveException(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"deleted": true})
}

func (h *Handler) GetSlots(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid provider ID", err))
		return
	}

	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid start date", err))
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid end date", err))
		return
	}

	duration := 60
	if d := c.Query("duration"); d != "" {
		parsed, err := strconv.Atoi(d)
		if err != nil || parsed <= 0 {
			httputil.RespondWithError(c, errors.BadRequest("invalid duration", err))
			return
		}
		duration = parsed
	}

	slots, err := h.availability.GetSlots(c.Request.Context(), id, start, end, duration)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, slots)
}
