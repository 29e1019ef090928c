package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FieldErrors maps a JSON field name to its human readable failures
type FieldErrors map[string][]string

func (f FieldErrors) add(field, msg string) {
	f[field] = append(f[field], msg)
}

// Error is returned when input fails binding or validation
type Error struct {
	Fields FieldErrors
}

func (e *Error) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, strings.Join(e.Fields[name], " "))
	}
	return "validation failed: " + strings.Join(parts, " ")
}

var (
	instance *validator.Validate
	initOnce sync.Once
)

func get() *validator.Validate {
	initOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		_ = v.RegisterValidation("decimal_gte", decimalGTE)
		_ = v.RegisterValidation("decimal_integer", decimalInteger)
		_ = v.RegisterValidation("decimal_scale", decimalScale)
		_ = v.RegisterValidation("decimal_digits", decimalDigits)
		instance = v
	})
	return instance
}

// The decimal rules compare on the exact value. None of them rescale the
// coefficient, so an input such as 1e1000000000 stays cheap to reject.

func fieldDecimal(fl validator.FieldLevel) (decimal.Decimal, bool) {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	return d, ok
}

func paramInt(fl validator.FieldLevel) (int, bool) {
	n, err := strconv.Atoi(fl.Param())
	return n, err == nil
}

// scale counts significant fractional digits: 1.50 has scale 1
func scale(d decimal.Decimal) int {
	exp := d.Exponent()
	if exp >= 0 {
		return 0
	}
	coef := d.Coefficient()
	if coef.Sign() == 0 {
		return 0
	}

	ten := big.NewInt(10)
	rem := new(big.Int)
	n := -int(exp)
	for n > 0 {
		q, r := new(big.Int).QuoRem(coef, ten, rem)
		if r.Sign() != 0 {
			break
		}
		coef = q
		n--
	}
	return n
}

// integerDigits counts digits before the decimal point: 123.45 has 3
func integerDigits(d decimal.Decimal) int {
	if d.Coefficient().Sign() == 0 {
		return 0
	}
	n := d.NumDigits() + int(d.Exponent())
	if n < 0 {
		return 0
	}
	return n
}

func decimalInteger(fl validator.FieldLevel) bool {
	d, ok := fieldDecimal(fl)
	return ok && scale(d) == 0
}

func decimalScale(fl validator.FieldLevel) bool {
	d, ok := fieldDecimal(fl)
	max, okParam := paramInt(fl)
	return ok && okParam && scale(d) <= max
}

func decimalDigits(fl validator.FieldLevel) bool {
	d, ok := fieldDecimal(fl)
	max, okParam := paramInt(fl)
	return ok && okParam && integerDigits(d) <= max
}

// decimalGTE expects decimal_digits to have bounded the value already
func decimalGTE(fl validator.FieldLevel) bool {
	d, ok := fieldDecimal(fl)
	if !ok {
		return false
	}
	min, err := decimal.NewFromString(fl.Param())
	if err != nil {
		return false
	}
	return d.GreaterThanOrEqual(min)
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// label turns callback_url into "callback url"
func label(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

// Bind decodes a JSON object into dst field by field so a value of the
// wrong type is reported against its field. An empty body binds as {}.
func Bind(body []byte, dst interface{}) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("bind target must be a pointer to struct, got %T", dst)
	}

	raw := map[string]json.RawMessage{}
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return &Error{Fields: FieldErrors{"body": {"The request body must be a valid JSON object."}}}
		}
	}

	fields := FieldErrors{}
	elem := rv.Elem()
	typ := elem.Type()
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}
		name := jsonName(f)
		value, ok := raw[name]
		if name == "" || !ok {
			continue
		}
		if err := json.Unmarshal(value, elem.Field(i).Addr().Interface()); err != nil {
			fields.add(name, fmt.Sprintf("The %s field must be %s.", label(name), typeNoun(f.Type)))
		}
	}

	if len(fields) > 0 {
		return &Error{Fields: fields}
	}
	return nil
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

func typeNoun(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == decimalType {
		return "a number"
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "true or false"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	default:
		return "a valid value"
	}
}

// Struct validates v against its validate tags
func Struct(v interface{}) error {
	err := get().Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := FieldErrors{}
	for _, fe := range verrs {
		fields.add(fe.Field(), message(fe))
	}
	return &Error{Fields: fields}
}

func message(fe validator.FieldError) string {
	field := label(fe.Field())
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "decimal_integer":
		return fmt.Sprintf("The %s field must be an integer.", field)
	case "decimal_gte":
		return fmt.Sprintf("The %s field must be at least %s.", field, fe.Param())
	case "decimal_scale":
		return fmt.Sprintf("The %s field must not have more than %s decimal places.", field, fe.Param())
	case "decimal_digits":
		return fmt.Sprintf("The %s field must not have more than %s digits before the decimal point.", field, fe.Param())
	case "gte", "min":
		if isString {
			return fmt.Sprintf("The %s field must be at least %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("The %s field must be at least %s.", field, fe.Param())
	case "lte", "max":
		if isString {
			return fmt.Sprintf("The %s field must not be greater than %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("The %s field must not be greater than %s.", field, fe.Param())
	case "url":
		return fmt.Sprintf("The %s field must be a valid URL.", field)
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}
