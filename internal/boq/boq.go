// Package boq reads bill-of-quantities line items.
//
// Items arrive already validated by whatever produced them (spreadsheet
// import, column mapping); this package only lifts them out of a JSON
// document. Field access is lenient: numbers may be JSON numbers or
// formatted strings, and a missing or unreadable number reads as zero.
package boq

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// ErrNoItems is returned when the selected JSON value is not an item array.
var ErrNoItems = errors.New("no BOQ item array found")

// itemNamespace seeds generated item ids so the same document always yields
// the same ids.
var itemNamespace = uuid.MustParse("6f1c2a8e-4b7d-5e39-9a0c-3d2b81f4e657")

// Item is one BOQ line.
type Item struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unitPrice"`
	Total       float64 `json:"total"`
	Category    string  `json:"category,omitempty"`
}

// Cost returns Total, or Quantity*UnitPrice when no total was given.
func (it Item) Cost() float64 {
	if it.Total != 0 {
		return it.Total
	}
	return it.Quantity * it.UnitPrice
}

// Accepted spellings per field, first present wins.
var (
	idKeys        = []string{"id", "code", "itemNo", "item_no"}
	descKeys      = []string{"description", "desc", "name"}
	quantityKeys  = []string{"quantity", "qty"}
	unitKeys      = []string{"unit", "uom"}
	unitPriceKeys = []string{"unitPrice", "unit_price", "rate", "price"}
	totalKeys     = []string{"total", "amount"}
	categoryKeys  = []string{"category", "section"}
)

// Read parses items from r. See Parse for selector semantics.
func Read(r io.Reader, selector string) ([]Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read BOQ: %w", err)
	}
	return Parse(data, selector)
}

// Parse extracts items from a JSON document. selector is a gjson path to the
// item array (e.g. "project.boq.items"). With an empty selector the document
// itself must be an array, or an object with an "items" array.
func Parse(data []byte, selector string) ([]Item, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("parse BOQ: invalid JSON")
	}

	var arr gjson.Result
	switch {
	case selector != "":
		arr = gjson.GetBytes(data, selector)
	default:
		arr = gjson.ParseBytes(data)
		if arr.IsObject() {
			arr = arr.Get("items")
		}
	}
	if !arr.IsArray() {
		where := selector
		if where == "" {
			where = "document root"
		}
		return nil, fmt.Errorf("%w at %s", ErrNoItems, where)
	}

	elems := arr.Array()
	items := make([]Item, 0, len(elems))
	for i, el := range elems {
		if !el.IsObject() {
			return nil, fmt.Errorf("parse BOQ: item %d is %s, not an object", i+1, el.Type)
		}
		items = append(items, parseItem(i, el))
	}
	return items, nil
}

func parseItem(index int, el gjson.Result) Item {
	it := Item{
		ID:          first(el, idKeys).String(),
		Description: strings.TrimSpace(first(el, descKeys).String()),
		Quantity:    number(first(el, quantityKeys)),
		Unit:        first(el, unitKeys).String(),
		UnitPrice:   number(first(el, unitPriceKeys)),
		Total:       number(first(el, totalKeys)),
		Category:    first(el, categoryKeys).String(),
	}
	if it.ID == "" {
		name := fmt.Sprintf("%d\x00%s", index, it.Description)
		it.ID = uuid.NewSHA1(itemNamespace, []byte(name)).String()
	}
	return it
}

func first(el gjson.Result, keys []string) gjson.Result {
	for _, k := range keys {
		if v := el.Get(k); v.Exists() && v.Type != gjson.Null {
			return v
		}
	}
	return gjson.Result{}
}

// number reads a JSON number or a formatted numeric string ("1,250.50").
func number(v gjson.Result) float64 {
	switch v.Type {
	case gjson.Number:
		return v.Float()
	case gjson.String:
		s := strings.NewReplacer(",", "", " ", "", "\u00a0", "").Replace(v.Str)
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	default:
		return 0
	}
}
