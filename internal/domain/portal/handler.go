package portal

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/biofad/lis/pkg/apperror"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	portal := api.Group("/portal")
	portal.POST("/login", h.Login)
	portal.POST("/registro", h.Register)
	portal.GET("/resultados/:dni", h.CompletedOrders)
	portal.GET("/orden/:id", h.OrderDetail)
}

type loginResponse struct {
	Success  bool     `json:"success"`
	Paciente *Profile `json:"paciente"`
}

func (h *Handler) Login(c echo.Context) error {
	var dto LoginDTO
	if err := c.Bind(&dto); err != nil {
		return apperror.Validation("cuerpo de la petición inválido")
	}
	profile, err := h.svc.Login(c.Request().Context(), &dto)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResponse{Success: true, Paciente: profile})
}

func (h *Handler) Register(c echo.Context) error {
	var dto RegisterDTO
	if err := c.Bind(&dto); err != nil {
		return apperror.Validation("cuerpo de la petición inválido")
	}
	if err := h.svc.Register(c.Request().Context(), &dto); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "usuario creado correctamente",
	})
}

func (h *Handler) CompletedOrders(c echo.Context) error {
	summaries, err := h.svc.CompletedOrders(c.Request().Context(), c.Param("dni"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summaries)
}

func (h *Handler) OrderDetail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperror.Validation("id inválido")
	}
	view, err := h.svc.OrderDetail(c.Request().Context(), id, c.QueryParam("dni"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}
