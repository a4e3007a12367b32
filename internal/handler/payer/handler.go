package payer

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/meridianpsych/clinic-api/internal/model"
	bookabilityService "github.com/meridianpsych/clinic-api/internal/service/bookability"
	diagnosticsService "github.com/meridianpsych/clinic-api/internal/service/diagnostics"
	payerService "github.com/meridianpsych/clinic-api/internal/service/payer"
	"github.com/meridianpsych/clinic-api/pkg/errors"
	"github.com/meridianpsych/clinic-api/pkg/httputil"
)

type Handler struct {
	payers      *payerService.Service
	bookability *bookabilityService.Service
	diagnostics *diagnosticsService.Service
}

func NewHandler(payers *payerService.Service, bookability *bookabilityService.Service, diagnostics *diagnosticsService.Service) *Handler {
	return &Handler{payers: payers, bookability: bookability, diagnostics: diagnostics}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	payers := r.Group("/payers")
	{
		payers.GET("", h.List)
		payers.GET("/:id", h.Get)
		payers.POST("", adminOnly, h.Create)
		payers.PUT("/:id", adminOnly, h.Update)
		payers.DELETE("/:id", adminOnly, h.Delete)

		payers.GET("/:id/contracts", h.ListContracts)
		payers.POST("/:id/contracts", adminOnly, h.CreateContract)

		payers.GET("/:id/supervisions", h.ListSupervisions)

		payers.GET("/:id/bookable-providers", h.BookableProviders)
		payers.GET("/:id/diagnostics", adminOnly, h.Diagnostics)
	}
	r.PUT("/contracts/:id", adminOnly, h.UpdateContract)
	r.DELETE("/contracts/:id", adminOnly, h.DeleteContract)
	r.POST("/providers/:id/supervisions", adminOnly, h.CreateSupervision)
	r.POST("/supervisions/:id/end", adminOnly, h.EndSupervision)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreatePayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}
	payer, err := h.payers.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, payer)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid payer ID", err))
		return
	}
	payer, err := h.payers.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, payer)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid payer ID", err))
		return
	}
	var req model.UpdatePayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}
	payer, err := h.payers.Update(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, payer)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid payer ID", err))
		return
	}
	if err := h.payers.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"deleted": true})
}

func (h *Handler) List(c *gin.Context) {
	payers, err := h.payers.List(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, payers)
}

func (h *Handler) CreateContract(c *gin.Context) {
	payerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid payer ID", err))
		return
	}
	var req model.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}
	contract, err := h.payers.CreateContract(c.Request.Context(), payerID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, contract)
}

func (h *Handler) UpdateContract(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid contract ID", err))
		return
	}
	var req model.UpdateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}
	contract, err := h.payers.UpdateContract(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, contract)
}

func (h *Handler) DeleteContract(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid contract ID", err))
		return
	}
	if err := h.payers.DeleteContract(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"deleted": true})
}

func (h *Handler) ListContracts(c *gin.Context) {
	payerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid payer ID", err))
		return
	}
	contracts, err := h.payers.ListContracts(c.Request.Context(), payerID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, contracts)
}

func (h *Handler) CreateSupervision(c *gin.Context) {
	superviseeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid provider ID", err))
		return
	}
	var req model.CreateSupervisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}
	sup, err := h.payers.CreateSupervision(c.Request.Context(), superviseeID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, sup)
}

type endSupervisionRequest struct {
	EndDate time.Time `json:"end_date" binding:"required"`
}

func (h *Handler) EndSupervision(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid supervision ID", err))
		return
	}
	var req endSupervisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}
	if err := h.payers.EndSupervision(c.Request.Context(), id, req.EndDate); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"ended": true})
}

func (h *Handler) ListSupervisions(c *gin.Context) {
	payerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid payer ID", err))
		return
	}
	sups, err := h.payers.ListSupervisions(c.Request.Context(), payerID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, sups)
}

// BookableProviders answers who can be booked under the payer on a
// date. Defaults to today when no date is given.
func (h *Handler) BookableProviders(c *gin.Context) {
	payerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid payer ID", err))
		return
	}

	date := time.Now()
	if d := c.Query("date"); d != "" {
		date, err = time.Parse("2006-01-02", d)
		if err != nil {
			httputil.RespondWithError(c, errors.BadRequest("invalid date", err))
			return
		}
	}

	roster, err := h.bookability.Resolve(c.Request.Context(), payerID, date)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, roster)
}

// Diagnostics runs the payer sanity-check battery as of the given
// date (defaults to today, like the bookable-providers query). Pass
// format=text for the human-readable rendering.
func (h *Handler) Diagnostics(c *gin.Context) {
	payerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid payer ID", err))
		return
	}

	asOf := time.Now()
	if d := c.Query("date"); d != "" {
		asOf, err = time.Parse("2006-01-02", d)
		if err != nil {
			httputil.RespondWithError(c, errors.BadRequest("invalid date", err))
			return
		}
	}

	report, err := h.diagnostics.Run(c.Request.Context(), payerID, asOf)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if c.Query("format") == "text" {
		c.String(200, diagnosticsService.RenderText(report))
		return
	}
	httputil.RespondWithSuccess(c, report)
}
