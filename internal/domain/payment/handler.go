package payment

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mango0421/barrier-free-kiosk/internal/domain/catalog"
	"github.com/mango0421/barrier-free-kiosk/internal/domain/visit"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/payments", h.settle)
	api.GET("/payments/:id", h.get)
	api.GET("/billing/quote", h.quote)
}

type settleRequest struct {
	NationalID string `json:"rrn"`
	Method     string `json:"method"`
}

func (h *Handler) settle(c echo.Context) error {
	var req settleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.NationalID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "rrn is required")
	}

	p, rec, err := h.svc.Settle(c.Request().Context(), req.NationalID, Method(req.Method))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"payment": p,
		"record":  rec,
	})
}

func (h *Handler) get(c echo.Context) error {
	p, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) quote(c echo.Context) error {
	rrn := c.QueryParam("rrn")
	if rrn == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "rrn query parameter is required")
	}
	sel, err := h.svc.Quote(c.Request().Context(), rrn)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":     sel.Items,
		"total_fee": sel.TotalFee,
	})
}

func httpError(err error) error {
	var transition *visit.InvalidTransitionError
	switch {
	case errors.Is(err, ErrInvalidMethod):
		return echo.NewHTTPError(http.StatusBadRequest, ErrInvalidMethod.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	case errors.Is(err, visit.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "visit record not found")
	case errors.As(err, &transition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, catalog.ErrNoItems):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, catalog.ErrUnavailable):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
