package backoffice

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/erp/backoffice/internal/domain/integration"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Form field names. They double as the keys of raw form input.
const (
	FieldProduct             = "product"
	FieldProductVariation    = "productVariation"
	FieldSalePlatform        = "salePlatform"
	FieldCostPrice           = "costPrice"
	FieldSalePrice           = "salePrice"
	FieldSupplierID          = "supplierId"
	FieldSupplierPrice       = "supplierPrice"
	FieldSupplierProductCode = "supplierProductCode"
	FieldInStock             = "inStockInTheSupplier"
	FieldSupplierProductLink = "supplierProductLink"
	FieldBlingProductID      = "blingProductId"
)

// FieldErrorCode classifies why a field failed validation
type FieldErrorCode string

const (
	CodeRequired     FieldErrorCode = "required"
	CodeInvalidType  FieldErrorCode = "invalid_type"
	CodeNotANumber   FieldErrorCode = "not_a_number"
	CodeNotAnInteger FieldErrorCode = "not_an_integer"
	CodeNotPositive  FieldErrorCode = "not_positive"
	CodeInvalidURL   FieldErrorCode = "invalid_url"
	CodeTooLong      FieldErrorCode = "too_long"
)

// priceScale is the number of decimal places prices are stored with
const priceScale = 2

// FieldError is the first failed rule of one field
type FieldError struct {
	Field   string         `json:"field"`
	Code    FieldErrorCode `json:"code"`
	Message string         `json:"message"`
}

// Error implements the error interface
func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// FieldErrors holds at most one error per field, in schema order
type FieldErrors []FieldError

// Error implements the error interface
func (fe FieldErrors) Error() string {
	parts := make([]string, len(fe))
	for i, e := range fe {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}

// Field returns the error reported for a field, if any
func (fe FieldErrors) Field(name string) (FieldError, bool) {
	for _, e := range fe {
		if e.Field == name {
			return e, true
		}
	}
	return FieldError{}, false
}

type ruleKind int

const (
	ruleText           ruleKind = iota // non-empty string
	ruleTrimmedText                    // string, non-empty once trimmed, bounded length
	rulePositiveNumber                 // coerced number, > 0 at price scale
	ruleInteger                        // coerced whole number within int64
	ruleOptionalURL                    // absent, empty or an absolute http(s) URL
)

type fieldRule struct {
	field    string
	kind     ruleKind
	maxLen   int
	messages map[FieldErrorCode]string
}

func (r fieldRule) fail(code FieldErrorCode) *FieldError {
	return &FieldError{Field: r.field, Code: code, Message: r.messages[code]}
}

func selectionRule(field, message string) fieldRule {
	return fieldRule{field: field, kind: ruleText, messages: map[FieldErrorCode]string{
		CodeRequired:    message,
		CodeInvalidType: message,
	}}
}

func textRule(field, required, wrongType string) fieldRule {
	return fieldRule{field: field, kind: ruleText, messages: map[FieldErrorCode]string{
		CodeRequired:    required,
		CodeInvalidType: wrongType,
	}}
}

func codeRule(field, label string, maxLen int) fieldRule {
	return fieldRule{field: field, kind: ruleTrimmedText, maxLen: maxLen, messages: map[FieldErrorCode]string{
		CodeRequired:    "Enter the " + strings.ToLower(label),
		CodeInvalidType: label + " must be text",
		CodeTooLong:     label + " must be at most " + strconv.Itoa(maxLen) + " characters",
	}}
}

func priceRule(field, label string) fieldRule {
	return fieldRule{field: field, kind: rulePositiveNumber, messages: map[FieldErrorCode]string{
		CodeNotANumber:  label + " must be a number",
		CodeNotPositive: label + " must be greater than zero",
	}}
}

// Schema validates raw form input field by field.
// Every field is checked and only its first failing rule is reported.
type Schema struct {
	name     string
	rules    []fieldRule
	validate *validator.Validate
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewPricingSchema returns the schema of the pricing form
func NewPricingSchema() *Schema {
	return &Schema{
		name:     "pricing",
		validate: validate,
		rules: []fieldRule{
			selectionRule(FieldProduct, "Select a product"),
			selectionRule(FieldProductVariation, "Select a variation"),
			selectionRule(FieldSalePlatform, "Select a sale platform"),
			priceRule(FieldCostPrice, "Cost price"),
			priceRule(FieldSalePrice, "Sale price"),
		},
	}
}

// NewSupplierIntegrationSchema returns the schema of the supplier integration form
func NewSupplierIntegrationSchema() *Schema {
	return &Schema{
		name:     "supplier_integration",
		validate: validate,
		rules: []fieldRule{
			selectionRule(FieldProduct, "Select a product"),
			selectionRule(FieldProductVariation, "Select a variation"),
			selectionRule(FieldSupplierID, "Select a supplier"),
			priceRule(FieldSupplierPrice, "Supplier price"),
			codeRule(FieldSupplierProductCode, "Supplier product code", integration.MaxProductCodeLength),
			textRule(FieldInStock, "Tell whether the supplier has it in stock", "Stock flag must be text"),
			{field: FieldSupplierProductLink, kind: ruleOptionalURL, messages: map[FieldErrorCode]string{
				CodeInvalidType: "Product link must be text",
				CodeInvalidURL:  "Enter a valid URL",
			}},
			{field: FieldBlingProductID, kind: ruleInteger, messages: map[FieldErrorCode]string{
				CodeNotANumber:   "External catalog id must be a number",
				CodeNotAnInteger: "External catalog id must be a whole number",
			}},
		},
	}
}

// Name identifies the schema
func (s *Schema) Name() string {
	return s.name
}

// Fields lists the validated fields in order
func (s *Schema) Fields() []string {
	fields := make([]string, len(s.rules))
	for i, r := range s.rules {
		fields[i] = r.field
	}
	return fields
}

// Validate checks every field of the input. Values holds the coerced value
// of each valid field; errors is nil when the whole input is valid.
func (s *Schema) Validate(input map[string]any) (Values, FieldErrors) {
	values := make(Values, len(s.rules))
	var errs FieldErrors
	for _, r := range s.rules {
		value, ferr := s.check(r, input[r.field])
		if ferr != nil {
			errs = append(errs, *ferr)
			continue
		}
		values[r.field] = value
	}
	return values, errs
}

// ValidateField checks a single field. Unknown fields are never invalid.
func (s *Schema) ValidateField(field string, value any) *FieldError {
	for _, r := range s.rules {
		if r.field == field {
			_, ferr := s.check(r, value)
			return ferr
		}
	}
	return nil
}

func (s *Schema) check(r fieldRule, value any) (any, *FieldError) {
	switch r.kind {
	case ruleText:
		if value == nil {
			return nil, r.fail(CodeRequired)
		}
		str, ok := value.(string)
		if !ok {
			return nil, r.fail(CodeInvalidType)
		}
		if err := s.validate.Var(str, "required"); err != nil {
			return nil, r.fail(CodeRequired)
		}
		return str, nil

	case ruleTrimmedText:
		if value == nil {
			return nil, r.fail(CodeRequired)
		}
		str, ok := value.(string)
		if !ok {
			return nil, r.fail(CodeInvalidType)
		}
		str = strings.TrimSpace(str)
		if err := s.validate.Var(str, "required,max="+strconv.Itoa(r.maxLen)); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Tag() == "max" {
				return nil, r.fail(CodeTooLong)
			}
			return nil, r.fail(CodeRequired)
		}
		return str, nil

	case rulePositiveNumber:
		d, ok := coerceNumber(value)
		if !ok {
			return nil, r.fail(CodeNotANumber)
		}
		d = d.Round(priceScale)
		if !d.IsPositive() {
			return nil, r.fail(CodeNotPositive)
		}
		return d, nil

	case ruleInteger:
		d, ok := coerceNumber(value)
		if !ok {
			return nil, r.fail(CodeNotANumber)
		}
		if !d.IsInteger() || d.LessThan(minInt64) || d.GreaterThan(maxInt64) {
			return nil, r.fail(CodeNotAnInteger)
		}
		return d.IntPart(), nil

	case ruleOptionalURL:
		if value == nil {
			return (*string)(nil), nil
		}
		str, ok := value.(string)
		if !ok {
			return nil, r.fail(CodeInvalidType)
		}
		if str == "" {
			return (*string)(nil), nil
		}
		if err := s.validate.Var(str, "http_url"); err != nil {
			return nil, r.fail(CodeInvalidURL)
		}
		return &str, nil
	}
	return value, nil
}

var (
	minInt64 = decimal.NewFromInt(math.MinInt64)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
)

// coerceNumber converts form input to a decimal. Blank strings, booleans,
// NaN and infinities are not numbers.
func coerceNumber(value any) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v, true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(v), true
	case float32:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat32(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int32:
		return decimal.NewFromInt32(v), true
	case int64:
		return decimal.NewFromInt(v), true
	}
	return decimal.Zero, false
}

// stockFlag reads the in-stock flag by numeric truthiness: "1" is in stock,
// "0" and non-numeric text are not
func stockFlag(raw string) bool {
	d, ok := coerceNumber(raw)
	return ok && !d.IsZero()
}

// Values holds the coerced values of a validated input
type Values map[string]any

// Text returns a validated string field
func (v Values) Text(field string) string {
	s, _ := v[field].(string)
	return s
}

// Number returns a validated numeric field
func (v Values) Number(field string) decimal.Decimal {
	d, _ := v[field].(decimal.Decimal)
	return d
}

// Integer returns a validated whole-number field
func (v Values) Integer(field string) int64 {
	n, _ := v[field].(int64)
	return n
}

// OptionalText returns a validated optional string field, nil when absent
func (v Values) OptionalText(field string) *string {
	s, _ := v[field].(*string)
	return s
}
