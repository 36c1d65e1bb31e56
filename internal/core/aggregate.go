package core

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Aggregate prices every entry against the catalog in one pass.
//
// Entries that cannot be priced add exactly one message to Result.Errors,
// in input order, and do not touch the total. Aggregate never fails.
func Aggregate(catalog Catalog, entries []SaleEntry) Result {
	res := Result{Total: decimal.Zero, Errors: []string{}, Records: len(entries)}

	for _, e := range entries {
		if e.Product.IsNull() || e.Quantity.IsNull() {
			res.Errors = append(res.Errors, invalidEntry(e))
			continue
		}

		// Catalog keys are strings, so a number or boolean product is
		// reported as unknown rather than looked up.
		var price Value
		product, found := e.Product.String()
		if found {
			price, found = catalog[product]
		} else if label, ok := e.Product.Scalar(); ok {
			product = label
		} else {
			res.Errors = append(res.Errors, invalidEntry(e))
			continue
		}

		if !found || price.IsNull() {
			res.Errors = append(res.Errors, fmt.Sprintf("Error: Product '%s' not found in price catalog.", product))
			continue
		}

		p, okPrice := price.Decimal()
		q, okQty := e.Quantity.Decimal()
		if !okPrice || !okQty || !productFits(p, q) {
			res.Errors = append(res.Errors, fmt.Sprintf("Invalid quantity or price for product '%s'.", product))
			continue
		}

		res.Total = res.Total.Add(p.Mul(q))
		res.Priced++
	}

	return res
}

func invalidEntry(e SaleEntry) string {
	return fmt.Sprintf("Invalid entry: %s", FormatEntry(e.Raw))
}

// productFits reports whether p*q has an exponent decimal can represent.
func productFits(p, q decimal.Decimal) bool {
	e := int64(p.Exponent()) + int64(q.Exponent())
	return e >= math.MinInt32 && e <= math.MaxInt32
}
