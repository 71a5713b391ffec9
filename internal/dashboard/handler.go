package dashboard

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/careboard/careboard/internal/domain/appointment"
	"github.com/careboard/careboard/internal/platform/auth"
	"github.com/careboard/careboard/pkg/apperr"
)

// Handler exposes the form protocol over HTTP. Every route is scoped to
// the signed-in user's session, so two users never share draft state.
type Handler struct {
	sessions *Sessions
}

func NewHandler(sessions *Sessions) *Handler {
	return &Handler{sessions: sessions}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/dashboard", auth.RequireRole("admin", "staff"))
	g.GET("/:kind", h.GetList)
	g.GET("/:kind/state", h.GetState)
	g.POST("/:kind/forms", h.OpenForm)
	g.PATCH("/:kind/forms/:form_id/fields", h.SetField)
	g.POST("/:kind/forms/:form_id/submit", h.Submit)
	g.DELETE("/:kind/forms/:form_id", h.CancelForm)
	g.POST("/:kind/deletions", h.RequestDelete)
	g.POST("/:kind/deletions/:deletion_id/confirm", h.ConfirmDelete)
	g.DELETE("/:kind/deletions/:deletion_id", h.CancelDelete)
}

func (h *Handler) controller(c echo.Context) (*Controller, error) {
	sessionID := auth.UserIDFromContext(c.Request().Context())
	if sessionID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "no active session")
	}
	ctrl, err := h.sessions.Controller(sessionID, c.Param("kind"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return ctrl, nil
}

// protocolError maps controller and store errors to HTTP status codes.
func protocolError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, ErrSubmitInFlight), errors.Is(err, ErrDeleteInFlight):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrFormOpen):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrNoOpenForm), errors.Is(err, ErrNoPendingDelete):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrUnknownForm), errors.Is(err, ErrUnknownDeletion):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return echo.NewHTTPError(apperr.KindOf(err).HTTPStatus(), err.Error())
}

type listResponse struct {
	Kind      string               `json:"kind"`
	Items     interface{}          `json:"items"`
	Total     int                  `json:"total"`
	Summaries []AppointmentSummary `json:"summaries,omitempty"`
	Options   *formOptions         `json:"options,omitempty"`
}

// formOptions carries the referent pick lists the appointment form needs.
type formOptions struct {
	Doctors  []Option `json:"doctors"`
	Patients []Option `json:"patients"`
}

// GetList serves the cached list, fetching it on first access.
func (h *Handler) GetList(c echo.Context) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return err
	}

	items, total, ok := ctrl.Cache().Get()
	if !ok {
		if err := ctrl.Refresh(c.Request().Context()); err != nil {
			return protocolError(err)
		}
		items, total, _ = ctrl.Cache().Get()
	}

	resp := listResponse{Kind: c.Param("kind"), Items: items, Total: total}
	if appts, ok := items.([]*appointment.Appointment); ok {
		resp.Summaries = SummarizeAppointments(appts)
		opts, err := h.referentOptions(c.Request().Context())
		if err != nil {
			return protocolError(err)
		}
		resp.Options = opts
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) referentOptions(ctx context.Context) (*formOptions, error) {
	var out formOptions
	if res, ok := h.sessions.Resource("doctors"); ok {
		if lister, ok := res.(OptionLister); ok {
			opts, err := lister.Options(ctx)
			if err != nil {
				return nil, err
			}
			out.Doctors = opts
		}
	}
	if res, ok := h.sessions.Resource("patients"); ok {
		if lister, ok := res.(OptionLister); ok {
			opts, err := lister.Options(ctx)
			if err != nil {
				return nil, err
			}
			out.Patients = opts
		}
	}
	return &out, nil
}

func (h *Handler) GetState(c echo.Context) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ctrl.State())
}

type openFormRequest struct {
	// EntityID switches the form to edit mode when present.
	EntityID *uuid.UUID `json:"entity_id"`
}

func (h *Handler) OpenForm(c echo.Context) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return err
	}
	var req openFormRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var snap Snapshot
	if req.EntityID != nil {
		snap, err = ctrl.OpenEdit(c.Request().Context(), *req.EntityID)
	} else {
		snap, err = ctrl.OpenCreate()
	}
	if err != nil {
		return protocolError(err)
	}
	return c.JSON(http.StatusCreated, snap)
}

type setFieldRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (h *Handler) SetField(c echo.Context) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return err
	}
	formID, err := uuid.Parse(c.Param("form_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form id")
	}
	var req setFieldRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	snap, err := ctrl.SetField(formID, req.Key, req.Value)
	if err != nil {
		return protocolError(err)
	}
	return c.JSON(http.StatusOK, snap)
}

func (h *Handler) Submit(c echo.Context) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return err
	}
	formID, err := uuid.Parse(c.Param("form_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form id")
	}
	snap, err := ctrl.Submit(c.Request().Context(), formID)
	if err != nil {
		return protocolError(err)
	}
	return c.JSON(http.StatusOK, snap)
}

func (h *Handler) CancelForm(c echo.Context) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return err
	}
	formID, err := uuid.Parse(c.Param("form_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form id")
	}
	snap, err := ctrl.Cancel(formID)
	if err != nil {
		return protocolError(err)
	}
	return c.JSON(http.StatusOK, snap)
}

type requestDeleteRequest struct {
	EntityID uuid.UUID `json:"entity_id"`
}

func (h *Handler) RequestDelete(c echo.Context) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return err
	}
	var req requestDeleteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.EntityID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "entity_id is required")
	}
	snap, err := ctrl.RequestDelete(req.EntityID)
	if err != nil {
		return protocolError(err)
	}
	return c.JSON(http.StatusCreated, snap)
}

func (h *Handler) ConfirmDelete(c echo.Context) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return err
	}
	deletionID, err := uuid.Parse(c.Param("deletion_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid deletion id")
	}
	snap, err := ctrl.ConfirmDelete(c.Request().Context(), deletionID)
	if err != nil {
		return protocolError(err)
	}
	return c.JSON(http.StatusOK, snap)
}

func (h *Handler) CancelDelete(c echo.Context) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return err
	}
	deletionID, err := uuid.Parse(c.Param("deletion_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid deletion id")
	}
	snap, err := ctrl.CancelDelete(deletionID)
	if err != nil {
		return protocolError(err)
	}
	return c.JSON(http.StatusOK, snap)
}
