package partner

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/meridianpsych/clinic-api/internal/model"
	partnerService "github.com/meridianpsych/clinic-api/internal/service/partner"
	"github.com/meridianpsych/clinic-api/pkg/errors"
	"github.com/meridianpsych/clinic-api/pkg/httputil"
)

type Handler struct {
	partners *partnerService.Service
}

func NewHandler(partners *partnerService.Service) *Handler {
	return &Handler{partners: partners}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	partners := r.Group("/partners")
	{
		partners.GET("", h.List)
		partners.GET("/:id", h.Get)
		partners.POST("", adminOnly, h.Create)

		partners.GET("/:id/contacts", h.ListContacts)
		partners.POST("/:id/contacts", adminOnly, h.AddContact)

		partners.POST("/:id/consents", h.RecordConsent)
		partners.GET("/:id/referrals", h.ListReferrals)
		partners.POST("/:id/referrals", h.CreateReferral)
	}
	r.POST("/consents/:id/revoke", h.RevokeConsent)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}
	partner, err := h.partners.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, partner)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid partner ID", err))
		return
	}
	partner, err := h.partners.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, partner)
}

func (h *Handler) List(c *gin.Context) {
	partners, err := h.partners.List(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, partners)
}

func (h *Handler) AddContact(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid partner ID", err))
		return
	}
	var req model.CreatePartnerContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}
	contact, err := h.partners.AddContact(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, contact)
}

func (h *Handler) ListContacts(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid partner ID", err))
		return
	}
	contacts, err := h.partners.ListContacts(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, contacts)
}

func (h *Handler) RecordConsent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid partner ID", err))
		return
	}
	var req model.CreateROIConsentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}
	consent, err := h.partners.RecordConsent(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, consent)
}

func (h *Handler) RevokeConsent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid consent ID", err))
		return
	}
	if err := h.partners.RevokeConsent(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"revoked": true})
}

func (h *Handler) CreateReferral(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid partner ID", err))
		return
	}
	var req model.CreateReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}
	referral, err := h.partners.CreateReferral(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, referral)
}

func (h *Handler) ListReferrals(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid partner ID", err))
		return
	}
	referrals, err := h.partners.ListReferrals(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, referrals)
}
