package auctions

import (
	"net/url"
	"strings"

	"github.com/angelmondragon/gradevault-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/gradevault-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RawQuery holds the untrusted auction query parameters as received.
type RawQuery struct {
	Sort       string
	Categories []string
	Conditions []string
	Graders    []string
	MinPrice   string
	MaxPrice   string
}

// RawQueryFromValues reads the auction parameters from a URL query.
func RawQueryFromValues(values url.Values) RawQuery {
	return RawQuery{
		Sort:       values.Get("sort"),
		Categories: values["category"],
		Conditions: values["condition"],
		Graders:    values["grader"],
		MinPrice:   values.Get("minPrice"),
		MaxPrice:   values.Get("maxPrice"),
	}
}

// Query is a validated auction query. Sort is nil when the caller did not pick one.
type Query struct {
	Sort  *enums.AuctionSort
	Where And
}

// BuildQuery validates raw parameters and turns them into a predicate tree.
// It never adds a status constraint.
func BuildQuery(raw RawQuery) (Query, error) {
	var q Query
	issues := map[string]string{}

	if key := strings.TrimSpace(raw.Sort); key != "" {
		sort, err := enums.ParseAuctionSort(key)
		if err != nil {
			issues["sort"] = "must be one of ending-soon, recently-listed, price-asc, price-desc, most-bids"
		} else {
			q.Sort = &sort
		}
	}

	categories := cleanValues(raw.Categories)
	for i, value := range categories {
		id, err := uuid.Parse(value)
		if err != nil {
			issues["category"] = "must contain category ids"
			break
		}
		categories[i] = id.String()
	}

	minPrice, err := parsePrice(raw.MinPrice)
	if err != nil {
		issues["minPrice"] = "must be a decimal number"
	}
	maxPrice, err := parsePrice(raw.MaxPrice)
	if err != nil {
		issues["maxPrice"] = "must be a decimal number"
	}
	if minPrice != nil && maxPrice != nil && minPrice.GreaterThan(*maxPrice) {
		issues["minPrice"] = "must not exceed maxPrice"
	}

	if len(issues) > 0 {
		return Query{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid auction query").WithDetails(issues)
	}

	var preds []Predicate
	if len(categories) > 0 {
		preds = append(preds, In{Field: FieldCategoryID, Values: categories})
	}
	if conditions := cleanValues(raw.Conditions); len(conditions) > 0 {
		preds = append(preds, In{Field: FieldCondition, Values: conditions})
	}
	if graders := cleanValues(raw.Graders); len(graders) > 0 {
		preds = append(preds, In{Field: FieldGrader, Values: graders})
	}
	if minPrice != nil || maxPrice != nil {
		preds = append(preds, Range{Field: FieldCurrentPrice, Min: minPrice, Max: maxPrice})
	}
	q.Where = AllOf(preds...)
	return q, nil
}

func cleanValues(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func parsePrice(value string) (*decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
