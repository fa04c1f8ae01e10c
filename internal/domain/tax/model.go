package tax

import (
	"strings"

	ierr "github.com/flexprice/taxadmin/internal/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

func init() {
	// rate is a JSON number on the remote API and on ours
	decimal.MarshalJSONWithoutQuotes = true
}

// Tax is a named tax rate tied to a country. Records are created upstream;
// only Name and Country are ever changed here.
type Tax struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Country   string          `json:"country"`
	Rate      decimal.Decimal `json:"rate" swaggertype:"number"`
	CreatedAt string          `json:"createdAt"`
}

// UpdatePayload is a partial update. Nil fields are left unchanged, and there
// is deliberately no way to express a change to ID, Rate or CreatedAt.
type UpdatePayload struct {
	Name    *string `json:"name,omitempty"`
	Country *string `json:"country,omitempty"`
}

// Clone returns a copy that shares no memory with t
func (t *Tax) Clone() *Tax {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// Apply returns a copy of t with the payload's present fields overlaid
func (t *Tax) Apply(p UpdatePayload) *Tax {
	updated := t.Clone()
	if p.Name != nil {
		updated.Name = *p.Name
	}
	if p.Country != nil {
		updated.Country = *p.Country
	}
	return updated
}

// IsEmpty reports whether the payload changes nothing
func (p UpdatePayload) IsEmpty() bool {
	return p.Name == nil && p.Country == nil
}

// Validate checks the payload in isolation. Whether Country names a known
// country is checked by the caller against the country list.
func (p UpdatePayload) Validate() error {
	if p.IsEmpty() {
		return ierr.NewError("update payload has no fields").
			WithHint("Please provide a tax name or country to update").
			Mark(ierr.ErrValidation)
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return ierr.NewError("tax name is blank").
			WithHint("Please enter a tax name").
			WithReportableDetails(map[string]any{"field": "name"}).
			Mark(ierr.ErrValidation)
	}
	if p.Country != nil && strings.TrimSpace(*p.Country) == "" {
		return ierr.NewError("country is blank").
			WithHint("Please select a country").
			WithReportableDetails(map[string]any{"field": "country"}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// NewUpdatePayload builds a payload that sets both editable fields
func NewUpdatePayload(name, country string) UpdatePayload {
	return UpdatePayload{Name: lo.ToPtr(name), Country: lo.ToPtr(country)}
}

// FindByID returns the tax with the given id from list
func FindByID(list []*Tax, id string) (*Tax, bool) {
	return lo.Find(list, func(t *Tax) bool {
		return t != nil && t.ID == id
	})
}

// CloneList deep-copies a list of taxes
func CloneList(list []*Tax) []*Tax {
	if list == nil {
		return nil
	}
	return lo.Map(list, func(t *Tax, _ int) *Tax {
		return t.Clone()
	})
}
