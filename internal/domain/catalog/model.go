package catalog

import (
	"errors"
	"fmt"
)

// Entry is one raw catalog row as loaded from the source. The fee stays a
// string until an entry is actually drawn for billing; a malformed fee on a
// row must only fail the department that row belongs to, never the whole
// catalog.
type Entry struct {
	Department string
	Name       string
	Fee        string
}

// Item is one billable line item: a treatment offered by a department for a
// fixed fee. Items only exist with a successfully parsed fee.
type Item struct {
	Department string `json:"department"`
	Name       string `json:"name"`
	Fee        int    `json:"fee"`
}

// Selection is the outcome of one selector draw: the chosen items in
// selection order and the sum of their fees.
type Selection struct {
	Items    []Item `json:"items"`
	TotalFee int    `json:"total_fee"`
}

// Names returns the item names in selection order.
func (s *Selection) Names() []string {
	names := make([]string, len(s.Items))
	for i, it := range s.Items {
		names[i] = it.Name
	}
	return names
}

var (
	// ErrUnavailable means the catalog source could not be read at all.
	ErrUnavailable = errors.New("billing catalog unavailable")
	// ErrNoItems means the department matched nothing in the catalog.
	ErrNoItems = errors.New("no billable items for department")
)

// InvalidFeeError reports a catalog row whose fee column does not parse as
// an integer. The row is rejected rather than defaulted to a charge.
type InvalidFeeError struct {
	Item  string
	Value string
}

func (e *InvalidFeeError) Error() string {
	return fmt.Sprintf("invalid fee %q for item %q", e.Value, e.Item)
}
