package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jjatencia/cashflow/internal/apierror"
	"github.com/jjatencia/cashflow/internal/service"
)

type HistorialHandler struct{ svc service.HistorialService }

func NewHistorialHandler(svc service.HistorialService) *HistorialHandler {
	return &HistorialHandler{svc: svc}
}

// Historial godoc
// @Summary Historial de cajas de una ubicacion con totales del periodo
// @Tags historial
// @Produce json
// @Security BearerAuth
// @Param location query string true "Ubicacion"
// @Param periodo query string false "all | today | week | month" default(all)
// @Success 200 {object} dto.HistorialResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/historial [get]
func (h *HistorialHandler) Historial(c *gin.Context) {
	location := c.Query("location")
	if location == "" {
		c.JSON(http.StatusBadRequest, apierror.New("Parametro location es obligatorio"))
		return
	}
	period, err := service.ParsePeriod(c.Query("periodo"))
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.svc.Historial(c.Request.Context(), location, period)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Exportar godoc
// @Summary Exporta el historial filtrado como hoja de calculo
// @Tags historial
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param location query string true "Ubicacion"
// @Param periodo query string false "all | today | week | month" default(all)
// @Success 200 {file} binary
// @Failure 400 {object} apierror.APIError
// @Router /v1/historial/export [get]
func (h *HistorialHandler) Exportar(c *gin.Context) {
	location := c.Query("location")
	if location == "" {
		c.JSON(http.StatusBadRequest, apierror.New("Parametro location es obligatorio"))
		return
	}
	period, err := service.ParsePeriod(c.Query("periodo"))
	if err != nil {
		respondError(c, err)
		return
	}
	f, err := h.svc.ExportarExcel(c.Request.Context(), location, period)
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("historial_%s_%s.xlsx", location, period)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		// Headers are already out; all we can do is log through the error chain.
		c.Error(err) //nolint:errcheck
	}
}
