package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jjatencia/cashflow/internal/dto"
	"github.com/jjatencia/cashflow/internal/middleware"
	"github.com/jjatencia/cashflow/internal/service"
)

type MovimientosHandler struct{ svc service.MovimientoService }

func NewMovimientosHandler(svc service.MovimientoService) *MovimientosHandler {
	return &MovimientosHandler{svc: svc}
}

// Agregar godoc
// @Summary Registra una entrada o salida de efectivo
// @Tags movimientos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AgregarMovimientoRequest true "Movimiento"
// @Success 201 {object} dto.MovimientoResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/movimientos [post]
func (h *MovimientosHandler) Agregar(c *gin.Context) {
	var req dto.AgregarMovimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Agregar(c.Request.Context(), req, claims.Nombre)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Editar godoc
// @Summary Edita un movimiento existente
// @Tags movimientos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param location query string true "Ubicacion"
// @Param date query string true "Fecha YYYY-MM-DD"
// @Param id path string true "ID del movimiento"
// @Param body body dto.EditarMovimientoRequest true "Campos nuevos"
// @Success 200 {object} dto.MovimientoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/movimientos/{id} [put]
func (h *MovimientosHandler) Editar(c *gin.Context) {
	location, date, ok := locationDate(c)
	if !ok {
		return
	}
	var req dto.EditarMovimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Editar(c.Request.Context(), location, date, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary Elimina un movimiento del dia
// @Tags movimientos
// @Produce json
// @Security BearerAuth
// @Param location query string true "Ubicacion"
// @Param date query string true "Fecha YYYY-MM-DD"
// @Param id path string true "ID del movimiento"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Router /v1/movimientos/{id} [delete]
func (h *MovimientosHandler) Eliminar(c *gin.Context) {
	location, date, ok := locationDate(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), location, date, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Listar godoc
// @Summary Lista los movimientos del dia, mas recientes primero
// @Tags movimientos
// @Produce json
// @Security BearerAuth
// @Param location query string true "Ubicacion"
// @Param date query string true "Fecha YYYY-MM-DD"
// @Success 200 {object} dto.ListaMovimientosResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/movimientos [get]
func (h *MovimientosHandler) Listar(c *gin.Context) {
	location, date, ok := locationDate(c)
	if !ok {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), location, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
