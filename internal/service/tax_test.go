package service

import (
	"net/http"
	"testing"

	"github.com/flexprice/taxadmin/internal/api/dto"
	"github.com/flexprice/taxadmin/internal/domain/tax"
	ierr "github.com/flexprice/taxadmin/internal/errors"
	"github.com/flexprice/taxadmin/internal/query"
	"github.com/flexprice/taxadmin/internal/remote"
	"github.com/flexprice/taxadmin/internal/testutil"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type TaxServiceSuite struct {
	testutil.BaseServiceTestSuite
	query          *query.Cache
	service        TaxService
	countryService CountryService
}

func TestTaxService(t *testing.T) {
	suite.Run(t, new(TaxServiceSuite))
}

func (s *TaxServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupService()
}

func (s *TaxServiceSuite) setupService() {
	client := remote.NewClient(s.GetConfig(), s.GetHTTPClient(), s.GetDataset())
	s.query = query.NewCache(client, s.GetStore(), s.GetConfig(), s.GetLogger(), s.GetMetrics())

	params := ServiceParams{
		Logger: s.GetLogger(),
		Config: s.GetConfig(),
		Query:  s.query,
	}
	s.service = NewTaxService(params)
	s.countryService = NewCountryService(params)
}

func (s *TaxServiceSuite) TestListTaxesFallsBackWhenRemoteDown() {
	s.GetHTTPClient().SetDown(true)

	resp, err := s.service.ListTaxes(s.GetContext())
	s.Require().NoError(err)
	s.Len(resp.Items, len(s.GetDataset().Taxes()))
	s.Equal("VAT", resp.Items[0].Name)
}

func (s *TaxServiceSuite) TestListCountries() {
	s.GetHTTPClient().SetDown(true)

	resp, err := s.countryService.ListCountries(s.GetContext())
	s.Require().NoError(err)
	s.Len(resp.Items, 10)
	s.Equal("US", resp.Items[0].Code)
}

func (s *TaxServiceSuite) TestUpdateTax() {
	tests := []struct {
		name      string
		id        string
		req       dto.UpdateTaxRequest
		wantName  string
		wantErrFn func(error) bool
	}{
		{
			name:     "rename known tax",
			id:       "2",
			req:      dto.UpdateTaxRequest{Name: lo.ToPtr("GST Revised")},
			wantName: "GST Revised",
		},
		{
			name:     "move tax to a known country",
			id:       "1",
			req:      dto.UpdateTaxRequest{Country: lo.ToPtr("Germany")},
			wantName: "VAT",
		},
		{
			name:      "blank name",
			id:        "2",
			req:       dto.UpdateTaxRequest{Name: lo.ToPtr("   ")},
			wantErrFn: ierr.IsValidation,
		},
		{
			name:      "unknown country",
			id:        "2",
			req:       dto.UpdateTaxRequest{Country: lo.ToPtr("Atlantis")},
			wantErrFn: ierr.IsValidation,
		},
		{
			name:      "empty request",
			id:        "2",
			req:       dto.UpdateTaxRequest{},
			wantErrFn: ierr.IsValidation,
		},
		{
			name:      "missing id",
			id:        "",
			req:       dto.UpdateTaxRequest{Name: lo.ToPtr("X")},
			wantErrFn: ierr.IsValidation,
		},
		{
			name:      "unknown tax",
			id:        "999",
			req:       dto.UpdateTaxRequest{Name: lo.ToPtr("X")},
			wantErrFn: ierr.IsNotFound,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.GetHTTPClient().SetDown(true)

			resp, err := s.service.UpdateTax(s.GetContext(), tt.id, tt.req)
			if tt.wantErrFn != nil {
				s.Require().Error(err)
				s.True(tt.wantErrFn(err), "unexpected error: %v", err)
				s.Nil(resp)
				return
			}

			s.Require().NoError(err)
			s.Equal(tt.id, resp.ID)
			s.Equal(tt.wantName, resp.Name)
		})
	}
}

func (s *TaxServiceSuite) TestUpdateTaxUsesRemoteResponse() {
	s.GetHTTPClient().RegisterJSONResponse(http.MethodGet, "/countries", s.GetDataset().Countries())
	s.GetHTTPClient().RegisterJSONResponse(http.MethodPut, "/taxes/2", &tax.Tax{
		ID: "2", Name: "GST Revised", Country: "India", Rate: decimal.NewFromInt(18), CreatedAt: "2024-02-20T14:30:00Z",
	})

	resp, err := s.service.UpdateTax(s.GetContext(), "2", dto.UpdateTaxRequest{
		Name:    lo.ToPtr("GST Revised"),
		Country: lo.ToPtr("India"),
	})
	s.Require().NoError(err)
	s.Equal("GST Revised", resp.Name)
	s.Equal("2024-02-20T14:30:00Z", resp.CreatedAt)
	s.Equal(query.StateStale, s.query.State(query.KeyTaxes))
}

func (s *TaxServiceSuite) TestRejectedUpdateLeavesCacheUntouched() {
	s.GetHTTPClient().SetDown(true)
	_, err := s.service.ListTaxes(s.GetContext())
	s.Require().NoError(err)

	_, err = s.service.UpdateTax(s.GetContext(), "2", dto.UpdateTaxRequest{Country: lo.ToPtr("Atlantis")})
	s.Require().Error(err)
	s.Equal(query.StateFresh, s.query.State(query.KeyTaxes))
}
