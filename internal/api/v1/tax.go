package v1

import (
	"net/http"

	"github.com/flexprice/taxadmin/internal/api/dto"
	ierr "github.com/flexprice/taxadmin/internal/errors"
	"github.com/flexprice/taxadmin/internal/logger"
	"github.com/flexprice/taxadmin/internal/service"
	"github.com/gin-gonic/gin"
)

type TaxHandler struct {
	service service.TaxService
	logger  *logger.Logger
}

func NewTaxHandler(service service.TaxService, logger *logger.Logger) *TaxHandler {
	return &TaxHandler{
		service: service,
		logger:  logger,
	}
}

// @Summary List taxes
// @Description List all taxes. Served from the query cache; falls back to built-in data when the remote service is unreachable.
// @Tags Taxes
// @Produce json
// @Success 200 {object} dto.ListTaxesResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /taxes [get]
func (h *TaxHandler) ListTaxes(c *gin.Context) {
	resp, err := h.service.ListTaxes(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Update a tax
// @Description Update the name and/or country of a tax
// @Tags Taxes
// @Accept json
// @Produce json
// @Param id path string true "Tax ID"
// @Param tax body dto.UpdateTaxRequest true "Fields to change"
// @Success 200 {object} dto.TaxResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /taxes/{id} [put]
func (h *TaxHandler) UpdateTax(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("tax_id is required").
			WithHint("Tax ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	var req dto.UpdateTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateTax(c.Request.Context(), id, req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
