package dto

import (
	"github.com/flexprice/taxadmin/internal/domain/country"
	"github.com/flexprice/taxadmin/internal/domain/tax"
	"github.com/flexprice/taxadmin/internal/validator"
	"github.com/samber/lo"
)

// TaxResponse represents a single tax record
// @Description Tax record as stored by the remote tax service
type TaxResponse struct {
	*tax.Tax `json:",inline"`
}

// ListTaxesResponse represents the response for listing taxes
type ListTaxesResponse struct {
	Items []*TaxResponse `json:"items"`
}

// UpdateTaxRequest is a partial update; omitted fields are left unchanged
// @Description Request object for editing a tax. Only name and country can change.
type UpdateTaxRequest struct {
	// name is the new display name of the tax
	Name *string `json:"name,omitempty" validate:"omitnil,notblank,max=255"`

	// country is the display name of a known country
	Country *string `json:"country,omitempty" validate:"omitnil,notblank"`
}

func (r *UpdateTaxRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.ToPayload().Validate()
}

// ToPayload converts the request to the domain update payload
func (r *UpdateTaxRequest) ToPayload() tax.UpdatePayload {
	return tax.UpdatePayload{
		Name:    r.Name,
		Country: r.Country,
	}
}

// NewListTaxesResponse wraps a tax list for the API
func NewListTaxesResponse(taxes []*tax.Tax) *ListTaxesResponse {
	return &ListTaxesResponse{
		Items: lo.Map(taxes, func(t *tax.Tax, _ int) *TaxResponse {
			return &TaxResponse{Tax: t}
		}),
	}
}

// CountryResponse represents a single country
type CountryResponse struct {
	*country.Country `json:",inline"`
}

// ListCountriesResponse represents the response for listing countries
type ListCountriesResponse struct {
	Items []*CountryResponse `json:"items"`
}

// NewListCountriesResponse wraps a country list for the API
func NewListCountriesResponse(countries []*country.Country) *ListCountriesResponse {
	return &ListCountriesResponse{
		Items: lo.Map(countries, func(c *country.Country, _ int) *CountryResponse {
			return &CountryResponse{Country: c}
		}),
	}
}
