package services

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySelection is returned by reductions that are undefined over zero records.
	ErrEmptySelection = errors.New("no records in selection")
	// ErrUnknownField is returned when a query names a column that does not exist.
	ErrUnknownField = errors.New("unknown field")
)

// ParseError reports a value that is not a recognised numeric string.
type ParseError struct {
	Line   int
	Column string
	Value  string
	Reason string
}

func (e *ParseError) Error() string {
	switch {
	case e.Column != "" && e.Line > 0:
		return fmt.Sprintf("parse %s %q on line %d: %s", e.Column, e.Value, e.Line, e.Reason)
	case e.Column != "":
		return fmt.Sprintf("parse %s %q: %s", e.Column, e.Value, e.Reason)
	}
	return fmt.Sprintf("parse %q: %s", e.Value, e.Reason)
}

// DerivationError reports a metric that cannot be computed for a record.
type DerivationError struct {
	Channel string
	Metric  string
	Reason  string
}

func (e *DerivationError) Error() string {
	return fmt.Sprintf("derive %s for %q: %s", e.Metric, e.Channel, e.Reason)
}
