package country

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindByName(t *testing.T) {
	list := []*Country{
		{ID: "7", Name: "Spain", Code: "ES"},
		{ID: "8", Name: "India", Code: "IN"},
	}

	c, ok := FindByName(list, "India")
	assert.True(t, ok)
	assert.Equal(t, "IN", c.Code)

	_, ok = FindByName(list, "india")
	assert.False(t, ok, "names match exactly")

	assert.Equal(t, []string{"Spain", "India"}, Names(list))
}
