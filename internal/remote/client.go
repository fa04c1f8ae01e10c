package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/flexprice/taxadmin/internal/config"
	"github.com/flexprice/taxadmin/internal/domain/country"
	"github.com/flexprice/taxadmin/internal/domain/tax"
	ierr "github.com/flexprice/taxadmin/internal/errors"
	"github.com/flexprice/taxadmin/internal/fallback"
	"github.com/flexprice/taxadmin/internal/httpclient"
	"github.com/flexprice/taxadmin/internal/types"
)

// Client talks to the upstream tax service. Reads never fail: any transport
// error, non-2xx status or undecodable body is answered from the fallback
// dataset. Writes fall back the same way and only fail when the fallback
// dataset has no record with the requested id.
//
// The client does not log. Every result carries an Outcome and the Cause of
// a degradation so the caller can decide what to report.
type Client interface {
	FetchTaxes(ctx context.Context) TaxListResult
	FetchCountries(ctx context.Context) CountryListResult
	UpdateTax(ctx context.Context, id string, payload tax.UpdatePayload) (TaxResult, error)
}

// TaxListResult is the resolution of a tax list read
type TaxListResult struct {
	Taxes   []*tax.Tax
	Outcome types.Outcome
	Cause   error
}

// CountryListResult is the resolution of a country list read
type CountryListResult struct {
	Countries []*country.Country
	Outcome   types.Outcome
	Cause     error
}

// TaxResult is the resolution of a tax update
type TaxResult struct {
	Tax     *tax.Tax
	Outcome types.Outcome
	Cause   error
}

const (
	pathTaxes     = "/taxes"
	pathCountries = "/countries"
)

type client struct {
	http     httpclient.Client
	baseURL  string
	fallback *fallback.Dataset
}

// NewClient creates a Client for cfg.Remote.BaseURL that degrades to data
func NewClient(cfg *config.Configuration, httpClient httpclient.Client, data *fallback.Dataset) Client {
	return &client{
		http:     httpClient,
		baseURL:  strings.TrimRight(cfg.Remote.BaseURL, "/"),
		fallback: data,
	}
}

func (c *client) FetchTaxes(ctx context.Context) TaxListResult {
	var taxes []*tax.Tax
	if err := c.get(ctx, pathTaxes, &taxes); err != nil {
		return TaxListResult{
			Taxes:   c.fallback.Taxes(),
			Outcome: types.OutcomeFallback,
			Cause:   err,
		}
	}
	if taxes == nil {
		taxes = []*tax.Tax{}
	}
	return TaxListResult{Taxes: taxes, Outcome: types.OutcomeSuccess}
}

func (c *client) FetchCountries(ctx context.Context) CountryListResult {
	var countries []*country.Country
	if err := c.get(ctx, pathCountries, &countries); err != nil {
		return CountryListResult{
			Countries: c.fallback.Countries(),
			Outcome:   types.OutcomeFallback,
			Cause:     err,
		}
	}
	if countries == nil {
		countries = []*country.Country{}
	}
	return CountryListResult{Countries: countries, Outcome: types.OutcomeSuccess}
}

func (c *client) UpdateTax(ctx context.Context, id string, payload tax.UpdatePayload) (TaxResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return TaxResult{Outcome: types.OutcomeFailure, Cause: err}, ierr.WithError(err).
			WithHint("Update could not be encoded").
			Mark(ierr.ErrSystem)
	}

	var updated tax.Tax
	err = c.send(ctx, http.MethodPut, pathTaxes+"/"+url.PathEscape(id), body, &updated)
	if err == nil {
		return TaxResult{Tax: &updated, Outcome: types.OutcomeSuccess}, nil
	}

	cause := err
	record, lookupErr := c.fallback.FindTax(id)
	if lookupErr != nil {
		return TaxResult{Outcome: types.OutcomeFailure, Cause: cause}, ierr.WithError(lookupErr).
			WithSecondary(cause).
			Mark(ierr.ErrNotFound)
	}

	return TaxResult{
		Tax:     record.Apply(payload),
		Outcome: types.OutcomeFallback,
		Cause:   cause,
	}, nil
}

func (c *client) get(ctx context.Context, path string, out any) error {
	return c.send(ctx, http.MethodGet, path, nil, out)
}

// send performs one request and decodes a 2xx JSON body into out
func (c *client) send(ctx context.Context, method, path string, body []byte, out any) error {
	resp, err := c.http.Send(ctx, &httpclient.Request{
		Method: method,
		URL:    c.baseURL + path,
		Body:   body,
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(resp.Body, out); err != nil {
		return ierr.WithError(err).
			WithHintf("Tax service returned an unreadable response for %s %s", method, path).
			Mark(ierr.ErrDecode)
	}
	return nil
}
