package repository

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// filterField maps a logical attribute name to the joined column it
// filters on. Exact fields (enumerated columns) compare verbatim;
// everything else is a case-insensitive partial match.
type filterField struct {
	column string
	exact  bool
}

// allowedFields is the closed set of attribute names an entity's FindBy
// accepts. Caller-supplied names are resolved through this map and never
// reach query text themselves.
type allowedFields map[string]filterField

// where resolves attribute against the allow-list and returns the
// parameterized predicate for it.
func (af allowedFields) where(attribute, value string) (sq.Sqlizer, error) {
	f, ok := af[attribute]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAttribute, attribute)
	}
	if f.exact {
		return sq.Expr(f.column+"::text = ?", value), nil
	}
	return sq.Expr("LOWER("+f.column+") LIKE LOWER(?)", "%"+value+"%"), nil
}
