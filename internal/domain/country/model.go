package country

import (
	"github.com/samber/lo"
)

// Country is read-only reference data; Name is what Tax.Country refers to.
type Country struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// Clone returns a copy that shares no memory with c
func (c *Country) Clone() *Country {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// FindByName returns the country whose display name matches exactly
func FindByName(list []*Country, name string) (*Country, bool) {
	return lo.Find(list, func(c *Country) bool {
		return c != nil && c.Name == name
	})
}

// Names returns the display names in list order
func Names(list []*Country) []string {
	return lo.FilterMap(list, func(c *Country, _ int) (string, bool) {
		if c == nil {
			return "", false
		}
		return c.Name, true
	})
}

// CloneList deep-copies a list of countries
func CloneList(list []*Country) []*Country {
	if list == nil {
		return nil
	}
	return lo.Map(list, func(c *Country, _ int) *Country {
		return c.Clone()
	})
}
