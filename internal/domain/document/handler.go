package document

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mango0421/barrier-free-kiosk/internal/domain/visit"
)

type Handler struct {
	gate     *Gate
	renderer Renderer
}

func NewHandler(gate *Gate, renderer Renderer) *Handler {
	return &Handler{gate: gate, renderer: renderer}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/documents/:kind", h.issue)
}

type issueRequest struct {
	Name       string `json:"name"`
	NationalID string `json:"rrn"`
}

func (h *Handler) issue(c echo.Context) error {
	kind, err := ParseKind(c.Param("kind"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req issueRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" || req.NationalID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and rrn are required")
	}

	payload, err := h.gate.Prepare(c.Request().Context(), kind, req.Name, req.NationalID)
	if err != nil {
		return httpError(err)
	}

	body, contentType, err := h.renderer.Render(payload)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.Blob(http.StatusOK, contentType, body)
}

func httpError(err error) error {
	switch {
	case errors.Is(err, visit.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "visit record not found")
	case errors.Is(err, ErrNeedsRegistration):
		return echo.NewHTTPError(http.StatusConflict, ErrNeedsRegistration.Error())
	case errors.Is(err, ErrNeedsPayment):
		return echo.NewHTTPError(http.StatusConflict, ErrNeedsPayment.Error())
	case errors.Is(err, ErrZeroFeePaid):
		return echo.NewHTTPError(http.StatusConflict, ErrZeroFeePaid.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
