package boq

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_RootArray(t *testing.T) {
	doc := `[
		{"id": "1.1", "description": "خرسانة مسلحة للأساسات", "quantity": 120, "unit": "m3", "unitPrice": 450, "total": 54000},
		{"id": 2, "description": "  Excavation  ", "quantity": "1,250.5", "unit": "m3", "unitPrice": "12"}
	]`

	items, err := Parse([]byte(doc), "")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "1.1", items[0].ID)
	assert.Equal(t, 120.0, items[0].Quantity)
	assert.Equal(t, 54000.0, items[0].Cost())

	assert.Equal(t, "2", items[1].ID)
	assert.Equal(t, "Excavation", items[1].Description)
	assert.Equal(t, 1250.5, items[1].Quantity)
	assert.Equal(t, 1250.5*12, items[1].Cost(), "cost falls back to quantity * unit price")
}

func TestParse_ItemsObject(t *testing.T) {
	items, err := Parse([]byte(`{"project": "Villa", "items": [{"code": "A", "desc": "Paint", "qty": 10}]}`), "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].ID)
	assert.Equal(t, "Paint", items[0].Description)
	assert.Equal(t, 10.0, items[0].Quantity)
}

func TestParse_Selector(t *testing.T) {
	doc := `{"project": {"boq": {"lines": [{"id": "x", "description": "Tiles", "quantity": 40, "category": "Finishes"}]}}}`
	items, err := Parse([]byte(doc), "project.boq.lines")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Finishes", items[0].Category)
}

func TestParse_MissingQuantityReadsZero(t *testing.T) {
	items, err := Parse([]byte(`[{"id": "a", "description": "Doors"}, {"id": "b", "quantity": "n/a"}, {"id": "c", "quantity": "NaN"}]`), "")
	require.NoError(t, err)
	for _, it := range items {
		assert.Zero(t, it.Quantity, "item %s", it.ID)
	}
}

func TestParse_GeneratedIDsAreDeterministic(t *testing.T) {
	doc := []byte(`[{"description": "Block work", "quantity": 10}, {"description": "Block work", "quantity": 10}]`)

	first, err := Parse(doc, "")
	require.NoError(t, err)
	second, err := Parse(doc, "")
	require.NoError(t, err)

	assert.NotEmpty(t, first[0].ID)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.NotEqual(t, first[0].ID, first[1].ID, "identical lines at different positions get distinct ids")
}

func TestParse_EmptyArray(t *testing.T) {
	items, err := Parse([]byte(`[]`), "")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte(`{not json`), "")
	assert.Error(t, err)

	_, err = Parse([]byte(`{"items": {"a": 1}}`), "")
	assert.ErrorIs(t, err, ErrNoItems)

	_, err = Parse([]byte(`{"boq": []}`), "missing.path")
	assert.ErrorIs(t, err, ErrNoItems)

	_, err = Parse([]byte(`[1, 2]`), "")
	assert.ErrorContains(t, err, "not an object")
}

func TestRead(t *testing.T) {
	items, err := Read(strings.NewReader(`[{"id": "r", "description": "Asphalt", "quantity": 400}]`), "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 400.0, items[0].Quantity)
}
