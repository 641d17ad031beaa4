// Package schema compiles runtime field definitions into validation
// contracts. A compiled Validator accepts a flat api_name -> raw string
// input and produces typed values or per-field errors, so form callers can
// highlight individual invalid fields.
package schema

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rgould/fieldkit/internal/domain"
)

// Error codes attached to per-field validation errors.
const (
	CodeRequiredMissing = "REQUIRED_FIELD_MISSING"
	CodeInvalidValue    = "INVALID_VALUE"
	CodeUnknownField    = "UNKNOWN_FIELD"
)

// FieldError is a validation failure attached to one field.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationErrors is the full set of per-field failures for one input.
// It is never collapsed into a single opaque failure.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return fmt.Sprintf("validation failed: %s: %s", e[0].Field, e[0].Message)
	}
	return fmt.Sprintf("validation failed: %d invalid fields", len(e))
}

// Value is a typed field value. Raw strings stop at this boundary: the rest
// of the system reads values through the accessor matching the field's data
// type.
type Value struct {
	kind domain.DataType
	str  string
	num  float64
	b    bool
}

// Kind returns the data type tag the value was parsed under.
func (v Value) Kind() domain.DataType { return v.kind }

// Text returns the string form for string-kinded values.
func (v Value) Text() (string, bool) {
	if v.kind == domain.TypeNumber || v.kind == domain.TypeBoolean {
		return "", false
	}
	return v.str, true
}

// Number returns the numeric form for number values.
func (v Value) Number() (float64, bool) {
	return v.num, v.kind == domain.TypeNumber
}

// Bool returns the boolean form for boolean values.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == domain.TypeBoolean
}

// Raw returns the canonical storage string for any value kind.
func (v Value) Raw() string {
	switch v.kind {
	case domain.TypeNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case domain.TypeBoolean:
		return strconv.FormatBool(v.b)
	default:
		return v.str
	}
}

// parser turns a non-empty raw input into a typed Value, or fails with a
// message suitable for attaching to the field.
type parser func(raw string, f domain.ObjectField) (Value, error)

// Validator is the compiled validation contract for one field list.
type Validator struct {
	fields  []domain.ObjectField
	parsers map[string]parser
}

// Compile builds a Validator from an ordered field list. Compilation never
// fails: an unknown data_type falls back to the text rule so that
// forward-compatible field types degrade gracefully.
func Compile(fields []domain.ObjectField) *Validator {
	v := &Validator{
		fields:  fields,
		parsers: make(map[string]parser, len(fields)),
	}
	for _, f := range fields {
		v.parsers[f.APIName] = parserFor(f.DataType)
	}
	return v
}

// Fields returns the field list the validator was compiled from, in display
// order.
func (v *Validator) Fields() []domain.ObjectField {
	return v.fields
}

// Validate checks a flat api_name -> raw input mapping. It returns the
// normalized typed values keyed by api_name, or the per-field errors.
// Absent and empty inputs are "unset", which optional fields accept;
// configured defaults fill unset inputs before any check runs.
func (v *Validator) Validate(input map[string]string) (map[string]Value, ValidationErrors) {
	var errs ValidationErrors
	values := make(map[string]Value, len(input))

	for _, f := range v.fields {
		raw, present := input[f.APIName]
		if (!present || raw == "") && f.DefaultValue != "" {
			raw = f.DefaultValue
			present = true
		}
		if !present || raw == "" {
			if f.IsRequired {
				errs = append(errs, FieldError{
					Field:   f.APIName,
					Code:    CodeRequiredMissing,
					Message: fmt.Sprintf("field %q is required", f.APIName),
				})
			}
			continue
		}

		val, err := v.parsers[f.APIName](raw, f)
		if err != nil {
			errs = append(errs, FieldError{
				Field:   f.APIName,
				Code:    CodeInvalidValue,
				Message: err.Error(),
			})
			continue
		}
		values[f.APIName] = val
	}

	for name := range input {
		if _, known := v.parsers[name]; !known {
			errs = append(errs, FieldError{
				Field:   name,
				Code:    CodeUnknownField,
				Message: fmt.Sprintf("field %q is not defined on this object type", name),
			})
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return values, nil
}

// parserFor selects the parse rule for a data type tag. Unknown tags get the
// text rule.
func parserFor(t domain.DataType) parser {
	switch t {
	case domain.TypeNumber:
		return parseNumber
	case domain.TypeBoolean:
		return parseBoolean
	case domain.TypeEmail:
		return parseEmail
	case domain.TypeURL:
		return parseURL
	case domain.TypePhone:
		return parsePhone
	case domain.TypeDate:
		return parseDate
	case domain.TypePicklist:
		return parsePicklist
	default:
		return parseText
	}
}

func parseText(raw string, f domain.ObjectField) (Value, error) {
	return Value{kind: f.DataType, str: raw}, nil
}

func parseNumber(raw string, f domain.ObjectField) (Value, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return Value{}, fmt.Errorf("%q is not a number", raw)
	}
	return Value{kind: domain.TypeNumber, num: n}, nil
}

func parseBoolean(raw string, f domain.ObjectField) (Value, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1":
		return Value{kind: domain.TypeBoolean, b: true}, nil
	case "false", "0":
		return Value{kind: domain.TypeBoolean, b: false}, nil
	}
	return Value{}, fmt.Errorf("%q is not a boolean", raw)
}

func parseEmail(raw string, f domain.ObjectField) (Value, error) {
	at := strings.Index(raw, "@")
	if at < 1 || at == len(raw)-1 {
		return Value{}, fmt.Errorf("%q is not an email address", raw)
	}
	return Value{kind: domain.TypeEmail, str: raw}, nil
}

func parseURL(raw string, f domain.ObjectField) (Value, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Value{}, fmt.Errorf("%q is not a URL", raw)
	}
	return Value{kind: domain.TypeURL, str: raw}, nil
}

func parsePhone(raw string, f domain.ObjectField) (Value, error) {
	hasDigit := false
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r == '+' || r == '-' || r == ' ' || r == '(' || r == ')' || r == '.':
		default:
			return Value{}, fmt.Errorf("%q is not a phone number", raw)
		}
	}
	if !hasDigit {
		return Value{}, fmt.Errorf("%q is not a phone number", raw)
	}
	return Value{kind: domain.TypePhone, str: raw}, nil
}

func parseDate(raw string, f domain.ObjectField) (Value, error) {
	if _, err := time.Parse("2006-01-02", raw); err != nil {
		return Value{}, fmt.Errorf("%q is not a date (want YYYY-MM-DD)", raw)
	}
	return Value{kind: domain.TypeDate, str: raw}, nil
}

func parsePicklist(raw string, f domain.ObjectField) (Value, error) {
	if len(f.Options) == 0 {
		return Value{kind: domain.TypePicklist, str: raw}, nil
	}
	for _, opt := range f.Options {
		if opt.Value == raw {
			return Value{kind: domain.TypePicklist, str: raw}, nil
		}
	}
	return Value{}, fmt.Errorf("%q is not a configured option", raw)
}
