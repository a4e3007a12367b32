package patient

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/meridianpsych/clinic-api/internal/middleware"
	"github.com/meridianpsych/clinic-api/internal/model"
	patientService "github.com/meridianpsych/clinic-api/internal/service/patient"
	"github.com/meridianpsych/clinic-api/pkg/errors"
	"github.com/meridianpsych/clinic-api/pkg/httputil"
)

// AdminChecker reports whether the authenticated caller is an admin.
type AdminChecker interface {
	IsAdmin(claims *model.TokenClaims) bool
}

type Handler struct {
	patients *patientService.Service
	admins   AdminChecker
}

func NewHandler(patients *patientService.Service, admins AdminChecker) *Handler {
	return &Handler{patients: patients, admins: admins}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.GET("", h.List)
		patients.GET("/roster", h.Roster)
		patients.GET("/:id", h.Get)
		patients.GET("/:id/engagement", h.GetEngagement)
		patients.PUT("/:id/engagement", h.ChangeEngagement)
		patients.GET("/:id/engagement/history", h.History)
	}
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid patient ID", err))
		return
	}
	patient, err := h.patients.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, patient)
}

func (h *Handler) List(c *gin.Context) {
	patients, err := h.patients.List(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, patients)
}

func (h *Handler) GetEngagement(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid patient ID", err))
		return
	}
	status, err := h.patients.CurrentStatus(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"status": status})
}

func (h *Handler) ChangeEngagement(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid patient ID", err))
		return
	}
	var req model.ChangeEngagementStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}

	actorIsAdmin := false
	if claims := middleware.ClaimsFrom(c); claims != nil {
		actorIsAdmin = h.admins.IsAdmin(claims)
	}

	result, err := h.patients.ChangeStatus(c.Request.Context(), id, &req, actorIsAdmin)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, result)
}

func (h *Handler) History(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid patient ID", err))
		return
	}
	history, err := h.patients.History(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, history)
}

func (h *Handler) Roster(c *gin.Context) {
	roster, err := h.patients.Roster(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, roster)
}
