package service

import (
	"context"

	"github.com/flexprice/taxadmin/internal/api/dto"
	"github.com/flexprice/taxadmin/internal/domain/country"
	"github.com/flexprice/taxadmin/internal/domain/tax"
	ierr "github.com/flexprice/taxadmin/internal/errors"
)

// Queries is what the services need from the query cache
type Queries interface {
	GetTaxes(ctx context.Context) ([]*tax.Tax, error)
	GetCountries(ctx context.Context) ([]*country.Country, error)
	UpdateTax(ctx context.Context, id string, payload tax.UpdatePayload) (*tax.Tax, error)
}

type TaxService interface {
	ListTaxes(ctx context.Context) (*dto.ListTaxesResponse, error)
	UpdateTax(ctx context.Context, id string, req dto.UpdateTaxRequest) (*dto.TaxResponse, error)
}

type taxService struct {
	ServiceParams
}

func NewTaxService(params ServiceParams) TaxService {
	return &taxService{
		ServiceParams: params,
	}
}

// ListTaxes returns the current tax list
func (s *taxService) ListTaxes(ctx context.Context) (*dto.ListTaxesResponse, error) {
	taxes, err := s.Query.GetTaxes(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewListTaxesResponse(taxes), nil
}

// UpdateTax validates an edit and writes it through the query cache
func (s *taxService) UpdateTax(ctx context.Context, id string, req dto.UpdateTaxRequest) (*dto.TaxResponse, error) {
	if id == "" {
		return nil, ierr.NewError("tax_id is required").
			WithHint("Tax ID is required").
			Mark(ierr.ErrValidation)
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.Country != nil {
		if err := s.validateCountry(ctx, *req.Country); err != nil {
			return nil, err
		}
	}

	updated, err := s.Query.UpdateTax(ctx, id, req.ToPayload())
	if err != nil {
		s.Logger.Warnw("tax update failed", "tax_id", id, "error", err)
		return nil, err
	}

	s.Logger.Infow("tax updated", "tax_id", id)
	return &dto.TaxResponse{Tax: updated}, nil
}

func (s *taxService) validateCountry(ctx context.Context, name string) error {
	countries, err := s.Query.GetCountries(ctx)
	if err != nil {
		return err
	}
	if _, ok := country.FindByName(countries, name); !ok {
		return ierr.NewErrorf("unknown country %q", name).
			WithHint("Please select a country").
			WithReportableDetails(map[string]any{
				"country": name,
				"allowed": country.Names(countries),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
