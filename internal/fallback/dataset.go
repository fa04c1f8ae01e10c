package fallback

import (
	"encoding/json"
	"os"

	"github.com/flexprice/taxadmin/internal/domain/country"
	"github.com/flexprice/taxadmin/internal/domain/tax"
	ierr "github.com/flexprice/taxadmin/internal/errors"
)

// Dataset is the read-only record store served when the remote service is
// unavailable. Every accessor returns copies, so a Dataset can be shared
// freely between clients and tests.
type Dataset struct {
	taxes     []*tax.Tax
	countries []*country.Country
}

// fileFormat is the on-disk shape accepted by Load
type fileFormat struct {
	Taxes     []*tax.Tax         `json:"taxes"`
	Countries []*country.Country `json:"countries"`
}

// New builds a dataset from the given records. Both lists must be non-empty
// so reads always resolve to something.
func New(taxes []*tax.Tax, countries []*country.Country) (*Dataset, error) {
	if len(taxes) == 0 {
		return nil, ierr.NewError("fallback dataset has no taxes").
			WithHint("Fallback data must contain at least one tax").
			Mark(ierr.ErrValidation)
	}
	if len(countries) == 0 {
		return nil, ierr.NewError("fallback dataset has no countries").
			WithHint("Fallback data must contain at least one country").
			Mark(ierr.ErrValidation)
	}
	seen := make(map[string]struct{}, len(taxes))
	for _, t := range taxes {
		if t == nil || t.ID == "" {
			return nil, ierr.NewError("fallback tax without id").
				WithHint("Every fallback tax needs an id").
				Mark(ierr.ErrValidation)
		}
		if _, dup := seen[t.ID]; dup {
			return nil, ierr.NewErrorf("duplicate fallback tax id %q", t.ID).
				WithHint("Fallback tax ids must be unique").
				WithReportableDetails(map[string]any{"id": t.ID}).
				Mark(ierr.ErrValidation)
		}
		seen[t.ID] = struct{}{}
	}

	return &Dataset{
		taxes:     tax.CloneList(taxes),
		countries: country.CloneList(countries),
	}, nil
}

// Load reads a dataset from a JSON file of the form {"taxes": [...], "countries": [...]}
func Load(path string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Could not read fallback file %s", path).
			Mark(ierr.ErrSystem)
	}

	var f fileFormat
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Fallback file %s is not valid JSON", path).
			Mark(ierr.ErrValidation)
	}

	return New(f.Taxes, f.Countries)
}

// Taxes returns a copy of every fallback tax
func (d *Dataset) Taxes() []*tax.Tax {
	return tax.CloneList(d.taxes)
}

// Countries returns a copy of every fallback country
func (d *Dataset) Countries() []*country.Country {
	return country.CloneList(d.countries)
}

// FindTax looks a tax up by id. A miss is ErrNotFound.
func (d *Dataset) FindTax(id string) (*tax.Tax, error) {
	t, ok := tax.FindByID(d.taxes, id)
	if !ok {
		return nil, ierr.NewErrorf("tax %s not found in fallback data", id).
			WithHint("Tax not found").
			WithReportableDetails(map[string]any{"id": id}).
			Mark(ierr.ErrNotFound)
	}
	return t.Clone(), nil
}
