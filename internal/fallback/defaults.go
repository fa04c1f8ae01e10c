package fallback

import (
	"github.com/flexprice/taxadmin/internal/config"
	"github.com/flexprice/taxadmin/internal/domain/country"
	"github.com/flexprice/taxadmin/internal/domain/tax"
	"github.com/flexprice/taxadmin/internal/logger"
	"github.com/shopspring/decimal"
)

func defaultTaxes() []*tax.Tax {
	return []*tax.Tax{
		{ID: "1", Name: "VAT", Country: "United Kingdom", Rate: decimal.NewFromInt(20), CreatedAt: "2024-01-15T10:00:00Z"},
		{ID: "2", Name: "GST", Country: "India", Rate: decimal.NewFromInt(18), CreatedAt: "2024-02-20T14:30:00Z"},
		{ID: "3", Name: "Sales Tax", Country: "United States", Rate: decimal.RequireFromString("7.5"), CreatedAt: "2024-03-10T09:15:00Z"},
		{ID: "4", Name: "IVA", Country: "Spain", Rate: decimal.NewFromInt(21), CreatedAt: "2024-01-25T11:45:00Z"},
	}
}

func defaultCountries() []*country.Country {
	return []*country.Country{
		{ID: "1", Name: "United States", Code: "US"},
		{ID: "2", Name: "United Kingdom", Code: "GB"},
		{ID: "3", Name: "Canada", Code: "CA"},
		{ID: "4", Name: "Australia", Code: "AU"},
		{ID: "5", Name: "Germany", Code: "DE"},
		{ID: "6", Name: "France", Code: "FR"},
		{ID: "7", Name: "Spain", Code: "ES"},
		{ID: "8", Name: "India", Code: "IN"},
		{ID: "9", Name: "Japan", Code: "JP"},
		{ID: "10", Name: "Brazil", Code: "BR"},
	}
}

// Default returns the built-in fallback dataset
func Default() *Dataset {
	d, err := New(defaultTaxes(), defaultCountries())
	if err != nil {
		panic("built-in fallback dataset is invalid: " + err.Error())
	}
	return d
}

// NewDataset picks the dataset for the running process: the configured
// fallback file when set, the built-in records otherwise.
func NewDataset(cfg *config.Configuration, log *logger.Logger) (*Dataset, error) {
	if cfg.Fallback.File == "" {
		log.Debugw("using built-in fallback dataset")
		return Default(), nil
	}

	d, err := Load(cfg.Fallback.File)
	if err != nil {
		return nil, err
	}
	log.Infow("loaded fallback dataset",
		"file", cfg.Fallback.File,
		"taxes", len(d.taxes),
		"countries", len(d.countries),
	)
	return d, nil
}
