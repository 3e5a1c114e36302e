package orders

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/biofad/lis/pkg/apperror"
	"github.com/biofad/lis/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/ordenes", h.ListOrders)
	api.GET("/ordenes/:id", h.GetOrderDetail)
	api.POST("/ordenes", h.CreateOrder)
	api.PUT("/ordenes/:id/resultados", h.SaveResults)
}

func (h *Handler) ListOrders(c echo.Context) error {
	p := pagination.FromContext(c)
	summaries, total, err := h.svc.ListOrders(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(summaries, total, p.Limit, p.Offset))
}

func (h *Handler) GetOrderDetail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperror.Validation("id inválido")
	}
	detail, err := h.svc.GetOrderDetail(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

type createOrderResponse struct {
	Success   bool   `json:"success"`
	ID        int64  `json:"id"`
	Protocolo string `json:"protocolo"`
}

func (h *Handler) CreateOrder(c echo.Context) error {
	var dto CreateOrderDTO
	if err := c.Bind(&dto); err != nil {
		return apperror.Validation("cuerpo de la petición inválido")
	}
	o, err := h.svc.CreateOrder(c.Request().Context(), &dto)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createOrderResponse{
		Success:   true,
		ID:        o.ID,
		Protocolo: o.Protocolo,
	})
}

func (h *Handler) SaveResults(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperror.Validation("id inválido")
	}
	var dto ReconcileResultsDTO
	if err := c.Bind(&dto); err != nil {
		return apperror.Validation("cuerpo de la petición inválido")
	}
	if err := h.svc.ReconcileResults(c.Request().Context(), id, &dto); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
