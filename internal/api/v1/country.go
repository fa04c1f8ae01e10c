package v1

import (
	"net/http"

	"github.com/flexprice/taxadmin/internal/logger"
	"github.com/flexprice/taxadmin/internal/service"
	"github.com/gin-gonic/gin"
)

type CountryHandler struct {
	service service.CountryService
	logger  *logger.Logger
}

func NewCountryHandler(service service.CountryService, logger *logger.Logger) *CountryHandler {
	return &CountryHandler{
		service: service,
		logger:  logger,
	}
}

// @Summary List countries
// @Description List the countries a tax can be assigned to
// @Tags Countries
// @Produce json
// @Success 200 {object} dto.ListCountriesResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /countries [get]
func (h *CountryHandler) ListCountries(c *gin.Context) {
	resp, err := h.service.ListCountries(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
