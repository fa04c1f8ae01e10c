package service

import (
	"context"

	"github.com/flexprice/taxadmin/internal/api/dto"
)

type CountryService interface {
	ListCountries(ctx context.Context) (*dto.ListCountriesResponse, error)
}

type countryService struct {
	ServiceParams
}

func NewCountryService(params ServiceParams) CountryService {
	return &countryService{
		ServiceParams: params,
	}
}

// ListCountries returns the countries a tax can be assigned to
func (s *countryService) ListCountries(ctx context.Context) (*dto.ListCountriesResponse, error) {
	countries, err := s.Query.GetCountries(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewListCountriesResponse(countries), nil
}
