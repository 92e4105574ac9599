package stock

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/angelmondragon/gradevault-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/gradevault-backend/pkg/errors"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// Spreadsheet column headers shared by import and export.
const (
	HeaderTitle             = "Title"
	HeaderDescription       = "Description"
	HeaderPrice             = "Price"
	HeaderStockCount        = "Stock Count"
	HeaderCategory          = "Category"
	HeaderCondition         = "Condition"
	HeaderLowStockThreshold = "Low Stock Threshold"
)

// Row is one loosely typed spreadsheet record. Values arrive as strings,
// json.Number, float64 or nil depending on how the upload was decoded.
type Row map[string]any

// RowError names a single field failure inside a batch.
type RowError struct {
	Row    int    `json:"row"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s %s", e.Row, e.Field, e.Reason)
}

// ValidateBatch coerces every row into a stock item. All failures across the
// batch are reported together; no item is returned unless every row is valid.
func ValidateBatch(rows []Row, maxRows int) ([]models.StockItem, error) {
	if len(rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "import batch is empty")
	}
	if maxRows > 0 && len(rows) > maxRows {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("import batch exceeds %d rows", maxRows)).
			WithDetails(map[string]any{"rows": len(rows), "max_rows": maxRows})
	}

	items := make([]models.StockItem, 0, len(rows))
	var errs error
	for i, row := range rows {
		item, err := coerceRow(i, row)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		items = append(items, item)
	}
	if errs != nil {
		return nil, rowValidationError(errs)
	}
	return items, nil
}

func rowValidationError(errs error) *pkgerrors.Error {
	all := multierr.Errors(errs)
	details := make([]RowError, 0, len(all))
	for _, err := range all {
		if re, ok := err.(*RowError); ok {
			details = append(details, *re)
		}
	}
	msg := "import rows failed validation"
	if len(details) > 0 {
		msg = fmt.Sprintf("row %d is invalid: %s %s", details[0].Row, details[0].Field, details[0].Reason)
	}
	return pkgerrors.Wrap(pkgerrors.CodeRowValidation, errs, msg).WithDetails(details)
}

func coerceRow(index int, row Row) (models.StockItem, error) {
	var errs error
	fail := func(field, reason string) {
		errs = multierr.Append(errs, &RowError{Row: index, Field: field, Reason: reason})
	}

	item := models.StockItem{
		Title:       textValue(row[HeaderTitle]),
		Description: textValue(row[HeaderDescription]),
		Category:    textValue(row[HeaderCategory]),
		Condition:   textValue(row[HeaderCondition]),
		Images:      pq.StringArray{},
	}
	if item.Title == "" {
		fail(HeaderTitle, "is required")
	}

	price, reason := parsePriceValue(row[HeaderPrice])
	if reason != "" {
		fail(HeaderPrice, reason)
	}
	item.Price = price

	count, reason := parseCountValue(row[HeaderStockCount])
	if reason != "" {
		fail(HeaderStockCount, reason)
	}
	item.StockCount = count

	threshold, reason := parseThresholdValue(row[HeaderLowStockThreshold])
	if reason != "" {
		fail(HeaderLowStockThreshold, reason)
	}
	item.LowStockThreshold = &threshold

	return item, errs
}

func textValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// numericText returns the literal form of a numeric cell, or "" when absent.
// ok is false for values that can never be numeric (booleans, objects).
func numericText(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return strings.TrimSpace(t), true
	case json.Number:
		return t.String(), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return "", false
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	default:
		return "", false
	}
}

func parsePriceValue(v any) (decimal.Decimal, string) {
	raw, ok := numericText(v)
	if !ok {
		return decimal.Zero, "must be a number"
	}
	if raw == "" {
		return decimal.Zero, "is required"
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, "must be a number"
	}
	if d.IsNegative() {
		return decimal.Zero, "must be non-negative"
	}
	return d, ""
}

func parseCountValue(v any) (int, string) {
	raw, ok := numericText(v)
	if !ok {
		return 0, "must be an integer"
	}
	if raw == "" {
		return 0, "is required"
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, "must be an integer"
	}
	if !d.IsInteger() {
		return 0, "must be a whole number"
	}
	if d.IsNegative() {
		return 0, "must be non-negative"
	}
	if d.GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return 0, "is too large"
	}
	return int(d.IntPart()), ""
}

// parseThresholdValue defaults blank and non-numeric cells to the default
// threshold. Only a numeric negative value is rejected.
func parseThresholdValue(v any) (int, string) {
	raw, ok := numericText(v)
	if !ok || raw == "" {
		return models.DefaultLowStockThreshold, ""
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return models.DefaultLowStockThreshold, ""
	}
	if d.IsNegative() {
		return 0, "must be non-negative"
	}
	if !d.IsInteger() {
		return 0, "must be a whole number"
	}
	if d.GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return 0, "is too large"
	}
	return int(d.IntPart()), ""
}
