package order

import (
	"math"
	"strconv"
	"strings"

	"jd-backend/internal/utils"

	"github.com/shopspring/decimal"
)

// Validate turns a raw submission into a Draft or returns a *Rejection.
// Malformed lines are dropped; the submission fails only when none survive.
// It performs no I/O.
func Validate(sub Submission, identity string, rules Rules) (*Draft, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return nil, ErrMissingIdentity
	}

	if len(sub.Items) == 0 {
		return nil, ErrNoItems
	}

	total, ok := positiveDecimal(sub.Total)
	if !ok {
		return nil, ErrInvalidTotal
	}

	items := make([]DraftItem, 0, len(sub.Items))
	for _, raw := range sub.Items {
		item, ok := normalizeItem(raw, rules.Catalog)
		if !ok {
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, ErrNoValidItems
	}

	verify := rules.Total == TotalVerify
	if verify && !SumItems(items).Equal(total) {
		return nil, ErrTotalMismatch
	}

	return &Draft{
		UserID:      identity,
		Items:       items,
		Total:       total,
		VerifyTotal: verify,
	}, nil
}

// SumItems adds up price × quantity over the given lines.
func SumItems(items []DraftItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Subtotal())
	}
	return sum
}

func normalizeItem(raw SubmittedItem, mode CatalogMode) (DraftItem, bool) {
	var item DraftItem

	switch mode {
	case CatalogReference:
		id, err := strconv.ParseInt(strings.TrimSpace(string(raw.ProductID)), 10, 64)
		if err != nil || id <= 0 {
			return item, false
		}
		item.ProductID = id
		item.Name = strings.TrimSpace(string(raw.Name))
	default:
		item.Name = strings.TrimSpace(string(raw.Name))
		if item.Name == "" {
			return item, false
		}
	}

	price, ok := positiveDecimal(raw.Price)
	if !ok {
		return item, false
	}
	item.Price = price

	qty, ok := quantity(raw)
	if !ok {
		return item, false
	}
	item.Quantity = qty

	return item, true
}

// quantity reads qty, then quantity, defaulting to 1 when both are absent.
// A zero qty counts as absent.
func quantity(raw SubmittedItem) (int, bool) {
	text := strings.TrimSpace(string(raw.Qty))
	if isZero(text) {
		text = strings.TrimSpace(string(raw.Quantity))
	}
	if text == "" {
		return 1, true
	}

	d, err := decimal.NewFromString(text)
	if err != nil || !d.IsInteger() || d.LessThan(decimal.NewFromInt(1)) {
		return 0, false
	}
	if d.GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return 0, false
	}
	return int(d.IntPart()), true
}

func isZero(text string) bool {
	if text == "" {
		return true
	}
	d, err := decimal.NewFromString(text)
	return err == nil && d.IsZero()
}

// positiveDecimal accepts amounts the money columns can hold exactly.
func positiveDecimal(s Scalar) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(string(s)))
	if err != nil || !utils.FitsMoney(d) {
		return decimal.Zero, false
	}
	return d, true
}
