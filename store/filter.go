package store

import (
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm/clause"
)

var fieldNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Filter is a typed predicate over document fields. It is translated into a
// gorm clause expression by the store, so callers never build query text.
type Filter interface {
	expression() (clause.Expression, error)
}

type equals struct {
	field string
	value interface{}
}

type caseInsensitiveMatch struct {
	field     string
	substring string
}

type caseInsensitiveEquals struct {
	field string
	value string
}

type fieldIn struct {
	field  string
	values []interface{}
}

type anyOf struct {
	filters []Filter
}

type allOf struct {
	filters []Filter
}

// Equals matches documents whose field equals value.
func Equals(field string, value interface{}) Filter {
	return equals{field: field, value: value}
}

// CaseInsensitiveMatch matches documents whose string field contains substring, ignoring case.
func CaseInsensitiveMatch(field, substring string) Filter {
	return caseInsensitiveMatch{field: field, substring: substring}
}

// CaseInsensitiveEquals matches documents whose string field equals value, ignoring case.
func CaseInsensitiveEquals(field, value string) Filter {
	return caseInsensitiveEquals{field: field, value: value}
}

// FieldIn matches documents whose field equals any of values. No values matches nothing.
func FieldIn(field string, values ...interface{}) Filter {
	return fieldIn{field: field, values: values}
}

// AnyOf matches documents satisfying at least one of filters.
func AnyOf(filters ...Filter) Filter {
	return anyOf{filters: filters}
}

// AllOf matches documents satisfying every filter. AllOf() matches everything.
func AllOf(filters ...Filter) Filter {
	return allOf{filters: filters}
}

// All matches every document.
func All() Filter {
	return allOf{}
}

func column(field string) (clause.Column, error) {
	if !fieldNamePattern.MatchString(field) {
		return clause.Column{}, fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
	return clause.Column{Name: field}, nil
}

func (f equals) expression() (clause.Expression, error) {
	col, err := column(f.field)
	if err != nil {
		return nil, err
	}
	return clause.Eq{Column: col, Value: f.value}, nil
}

// likeEscaper escapes LIKE wildcards so the substring matches literally.
// The escape character is '!': a backslash literal is not portable across drivers.
var likeEscaper = strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)

func (f caseInsensitiveMatch) expression() (clause.Expression, error) {
	col, err := column(f.field)
	if err != nil {
		return nil, err
	}
	pattern := "%" + likeEscaper.Replace(strings.ToLower(f.substring)) + "%"
	return clause.Expr{SQL: "LOWER(?) LIKE ? ESCAPE '!'", Vars: []interface{}{col, pattern}}, nil
}

func (f caseInsensitiveEquals) expression() (clause.Expression, error) {
	col, err := column(f.field)
	if err != nil {
		return nil, err
	}
	return clause.Expr{SQL: "LOWER(?) = ?", Vars: []interface{}{col, strings.ToLower(f.value)}}, nil
}

func (f fieldIn) expression() (clause.Expression, error) {
	col, err := column(f.field)
	if err != nil {
		return nil, err
	}
	if len(f.values) == 0 {
		return clause.Expr{SQL: "1 = 0"}, nil
	}
	return clause.IN{Column: col, Values: f.values}, nil
}

func (f anyOf) expression() (clause.Expression, error) {
	if len(f.filters) == 0 {
		return clause.Expr{SQL: "1 = 0"}, nil
	}
	exprs, err := expressions(f.filters)
	if err != nil {
		return nil, err
	}
	return clause.Or(exprs...), nil
}

func (f allOf) expression() (clause.Expression, error) {
	if len(f.filters) == 0 {
		return clause.Expr{SQL: "1 = 1"}, nil
	}
	exprs, err := expressions(f.filters)
	if err != nil {
		return nil, err
	}
	return clause.And(exprs...), nil
}

func expressions(filters []Filter) ([]clause.Expression, error) {
	exprs := make([]clause.Expression, 0, len(filters))
	for _, f := range filters {
		if f == nil {
			continue
		}
		expr, err := f.expression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

// SortDirection orders FindMany results.
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

// Sort names a field and a direction. The zero value leaves order unspecified.
type Sort struct {
	Field     string
	Direction SortDirection
}

// SortBy builds a Sort.
func SortBy(field string, dir SortDirection) Sort {
	return Sort{Field: field, Direction: dir}
}

func (s Sort) orderBy() (clause.OrderByColumn, bool, error) {
	if s.Field == "" {
		return clause.OrderByColumn{}, false, nil
	}
	col, err := column(s.Field)
	if err != nil {
		return clause.OrderByColumn{}, false, err
	}
	return clause.OrderByColumn{Column: col, Desc: s.Direction == Descending}, true, nil
}
