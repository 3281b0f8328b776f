package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jjatencia/cashflow/internal/apierror"
	"github.com/jjatencia/cashflow/internal/dto"
	"github.com/jjatencia/cashflow/internal/middleware"
	"github.com/jjatencia/cashflow/internal/model"
	"github.com/jjatencia/cashflow/internal/service"
)

type CajaHandler struct{ svc service.CajaService }

func NewCajaHandler(svc service.CajaService) *CajaHandler { return &CajaHandler{svc: svc} }

// locationDate pulls the mandatory location/date pair out of the query string.
// Returns ok=false with the response already written on a missing or malformed pair.
func locationDate(c *gin.Context) (location, date string, ok bool) {
	location = c.Query("location")
	date = c.Query("date")
	if location == "" || date == "" {
		c.JSON(http.StatusBadRequest, apierror.New("Parametros location y date son obligatorios"))
		return "", "", false
	}
	if !model.ValidDate(date) {
		c.JSON(http.StatusBadRequest, apierror.New("Fecha invalida, formato esperado YYYY-MM-DD"))
		return "", "", false
	}
	return location, date, true
}

// Abrir godoc
// @Summary Abre la caja de una ubicacion para un dia
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AbrirCajaRequest true "Datos de apertura"
// @Success 201 {object} dto.RegistroResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/caja/abrir [post]
func (h *CajaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Abrir(c.Request.Context(), req, claims.Nombre)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Cerrar godoc
// @Summary Cierra la caja y devuelve la reconciliacion del dia
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CerrarCajaRequest true "Datos de cierre"
// @Success 200 {object} dto.CierreResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/caja/cerrar [post]
func (h *CajaHandler) Cerrar(c *gin.Context) {
	var req dto.CerrarCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cerrar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Corregir godoc
// @Summary Corrige campos numericos de una caja ya cerrada
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CorregirCajaRequest true "Campos a corregir"
// @Success 200 {object} dto.RegistroResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/caja/corregir [patch]
func (h *CajaHandler) Corregir(c *gin.Context) {
	var req dto.CorregirCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Corregir(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary Elimina el registro diario y sus movimientos
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Param location query string true "Ubicacion"
// @Param date query string true "Fecha YYYY-MM-DD"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Router /v1/caja [delete]
func (h *CajaHandler) Eliminar(c *gin.Context) {
	location, date, ok := locationDate(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), location, date); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Estado godoc
// @Summary Devuelve el estado de la caja (ausente, abierta o cerrada)
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Param location query string true "Ubicacion"
// @Param date query string true "Fecha YYYY-MM-DD"
// @Success 200 {object} dto.EstadoCajaResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/caja/estado [get]
func (h *CajaHandler) Estado(c *gin.Context) {
	location, date, ok := locationDate(c)
	if !ok {
		return
	}
	resp, err := h.svc.Estado(c.Request.Context(), location, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TotalesSugeridos godoc
// @Summary Totales de ventas sugeridos para precargar el cierre
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Param location query string true "Ubicacion"
// @Param date query string true "Fecha YYYY-MM-DD"
// @Success 200 {object} dto.TotalesSugeridosResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/caja/totales-sugeridos [get]
func (h *CajaHandler) TotalesSugeridos(c *gin.Context) {
	location, date, ok := locationDate(c)
	if !ok {
		return
	}
	resp, err := h.svc.TotalesSugeridos(c.Request.Context(), location, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
