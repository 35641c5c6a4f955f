package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetaFor(t *testing.T) {
	p := Params{Page: 2, PerPage: 10}

	meta := p.MetaFor(25)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 10, meta.PerPage)
	assert.Equal(t, int64(25), meta.Total)
	assert.Equal(t, 3, meta.Pages)

	// Leere Liste hat trotzdem eine Seite
	meta = p.MetaFor(0)
	assert.Equal(t, 1, meta.Pages)

	meta = Params{Page: 1, PerPage: 20}.MetaFor(20)
	assert.Equal(t, 1, meta.Pages)
}
