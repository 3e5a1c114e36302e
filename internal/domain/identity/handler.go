package identity

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/biofad/lis/pkg/apperror"
)

// RecentOrderLister supplies the latest orders for a patient detail response.
// The orders domain provides the implementation; the indirection keeps this
// package free of an import cycle.
type RecentOrderLister interface {
	ListRecentByPatient(ctx context.Context, patientID int64, limit int) ([]OrderSummary, error)
}

type Handler struct {
	svc    *Service
	orders RecentOrderLister
}

func NewHandler(svc *Service, orders RecentOrderLister) *Handler {
	return &Handler{svc: svc, orders: orders}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/pacientes", h.SearchPatientByDNI)
	api.GET("/pacientes/:id", h.GetPatient)
	api.POST("/pacientes", h.CreatePatient)
	api.PUT("/pacientes/:id", h.UpdatePatient)
}

// SearchPatientByDNI answers /api/pacientes?dni=X with the matching patient
// or a JSON null, which is what the intake form expects while typing.
func (h *Handler) SearchPatientByDNI(c echo.Context) error {
	dni := c.QueryParam("dni")
	if dni == "" {
		return c.JSON(http.StatusOK, nil)
	}
	p, err := h.svc.GetPatientByDNI(c.Request().Context(), dni)
	if errors.Is(err, apperror.ErrNotFound) {
		return c.JSON(http.StatusOK, nil)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

type patientDetailResponse struct {
	*Patient
	Ordenes []OrderSummary `json:"ordenes"`
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperror.Validation("id inválido")
	}
	p, err := h.svc.GetPatient(c.Request().Context(), id)
	if err != nil {
		return err
	}

	recent, err := h.orders.ListRecentByPatient(c.Request().Context(), id, 10)
	if err != nil {
		return err
	}
	if recent == nil {
		recent = []OrderSummary{}
	}
	return c.JSON(http.StatusOK, patientDetailResponse{Patient: p, Ordenes: recent})
}

func (h *Handler) CreatePatient(c echo.Context) error {
	var dto CreatePatientDTO
	if err := c.Bind(&dto); err != nil {
		return apperror.Validation("cuerpo de la petición inválido")
	}
	p, err := h.svc.CreatePatient(c.Request().Context(), &dto)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperror.Validation("id inválido")
	}
	var dto UpdatePatientDTO
	if err := c.Bind(&dto); err != nil {
		return apperror.Validation("cuerpo de la petición inválido")
	}
	p, err := h.svc.UpdatePatient(c.Request().Context(), id, &dto)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}
