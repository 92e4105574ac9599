package auctions

import "github.com/shopspring/decimal"

// Field names a filterable listing attribute independent of storage columns.
type Field string

const (
	FieldCategoryID   Field = "category_id"
	FieldCondition    Field = "condition"
	FieldGrader       Field = "grader"
	FieldCurrentPrice Field = "current_price"
	FieldStatus       Field = "status"
)

// Predicate is a node of the listing filter tree.
type Predicate interface {
	isPredicate()
}

// And matches when every child matches. An empty And matches everything.
type And struct {
	Children []Predicate
}

// In matches when Field equals one of Values.
type In struct {
	Field  Field
	Values []string
}

// Range matches Min <= Field <= Max; a nil bound is unbounded.
type Range struct {
	Field Field
	Min   *decimal.Decimal
	Max   *decimal.Decimal
}

// Eq matches when Field equals Value.
type Eq struct {
	Field Field
	Value any
}

func (And) isPredicate()   {}
func (In) isPredicate()    {}
func (Range) isPredicate() {}
func (Eq) isPredicate()    {}

// AllOf builds an And, dropping nil children and inlining nested Ands.
func AllOf(preds ...Predicate) And {
	out := And{}
	for _, p := range preds {
		switch v := p.(type) {
		case nil:
			continue
		case And:
			out.Children = append(out.Children, v.Children...)
		default:
			out.Children = append(out.Children, v)
		}
	}
	return out
}
