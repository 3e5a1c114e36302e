package catalog

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
	api.GET("/determinaciones", h.ListDeterminations)
	api.GET("/determinaciones/:id", h.GetDetermination)
	api.POST("/determinaciones", h.CreateDetermination)
	api.PUT("/determinaciones/:id", h.UpdateDetermination)
	api.DELETE("/determinaciones/:id", h.DeleteDetermination)
}

func (h *Handler) ListDeterminations(c echo.Context) error {
	items, err := h.svc.ListDeterminations(c.Request().Context())
	if err != nil {
		return err
	}
	if items == nil {
		items = []*Determination{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) GetDetermination(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperror.Validation("id inválido")
	}
	d, err := h.svc.GetDetermination(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) CreateDetermination(c echo.Context) error {
	var dto CreateDeterminationDTO
	if err := c.Bind(&dto); err != nil {
		return apperror.Validation("cuerpo de la petición inválido")
	}
	d, err := h.svc.CreateDetermination(c.Request().Context(), &dto)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"id":      d.ID,
	})
}

func (h *Handler) UpdateDetermination(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperror.Validation("id inválido")
	}
	var dto UpdateDeterminationDTO
	if err := c.Bind(&dto); err != nil {
		return apperror.Validation("cuerpo de la petición inválido")
	}
	d, err := h.svc.UpdateDetermination(c.Request().Context(), id, &dto)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":       true,
		"determinacion": d,
	})
}

func (h *Handler) DeleteDetermination(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperror.Validation("id inválido")
	}
	if err := h.svc.DeleteDetermination(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}
