package visit

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mango0421/barrier-free-kiosk/internal/domain/catalog"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/symptoms", h.ListSymptoms)
	api.GET("/visits", h.Lookup)
	api.POST("/visits", h.Intake)
	api.POST("/visits/:rrn/register", h.Register)
	api.POST("/visits/:rrn/bill", h.Bill)
	api.POST("/visits/:rrn/cancel", h.Cancel)
}

func (h *Handler) ListSymptoms(c echo.Context) error {
	return c.JSON(http.StatusOK, Symptoms)
}

func (h *Handler) Lookup(c echo.Context) error {
	name := c.QueryParam("name")
	rrn := c.QueryParam("rrn")
	if name == "" || rrn == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and rrn are required")
	}
	rec, err := h.svc.Lookup(c.Request().Context(), name, rrn)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) Intake(c echo.Context) error {
	var rec Record
	if err := c.Bind(&rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Intake(c.Request().Context(), &rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, rec)
}

type registerRequest struct {
	Department string `json:"department"`
	Symptom    string `json:"symptom"`
}

func (h *Handler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rec, err := h.svc.Register(c.Request().Context(), c.Param("rrn"), req.Department, req.Symptom)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) Bill(c echo.Context) error {
	rec, sel, err := h.svc.Bill(c.Request().Context(), c.Param("rrn"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"record":    rec,
		"items":     sel.Items,
		"total_fee": sel.TotalFee,
	})
}

func (h *Handler) Cancel(c echo.Context) error {
	rec, err := h.svc.Cancel(c.Request().Context(), c.Param("rrn"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rec)
}

// httpError maps core errors onto HTTP statuses with reasons the kiosk can
// show as-is.
func httpError(err error) error {
	var transition *InvalidTransitionError
	var fee *catalog.InvalidFeeError
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "visit record not found")
	case errors.As(err, &transition):
		return echo.NewHTTPError(http.StatusConflict, transition.Error())
	case errors.Is(err, ErrIntegrity):
		return echo.NewHTTPError(http.StatusInternalServerError, "reservation table schema mismatch")
	case errors.Is(err, catalog.ErrNoItems):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, catalog.ErrUnavailable):
		return echo.NewHTTPError(http.StatusBadGateway, "billing catalog unavailable")
	case errors.As(err, &fee):
		return echo.NewHTTPError(http.StatusInternalServerError, fee.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
