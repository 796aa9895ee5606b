// Package forms gives every HTML form a typed parse object. Each parser
// enumerates its required fields and their rules and fails with a named
// validation error kind, so a malformed field becomes a 400 instead of a
// fault propagating out of the handler.
package forms

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for date fields.
const DateLayout = "2006-01-02"

// ErrorKind names why a field failed validation.
type ErrorKind string

const (
	KindMissing     ErrorKind = "missing"
	KindNotANumber  ErrorKind = "not_a_number"
	KindNotADate    ErrorKind = "not_a_date"
	KindNotPositive ErrorKind = "not_positive"
)

// ValidationError reports a single failed field.
type ValidationError struct {
	Field string
	Kind  ErrorKind
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Kind)
}

// LoginForm carries the credential fields of both login pages.
type LoginForm struct {
	Username string
	Password string
}

func ParseLogin(r *http.Request) (*LoginForm, error) {
	username, err := requireString(r, "username")
	if err != nil {
		return nil, err
	}
	password, err := requireString(r, "password")
	if err != nil {
		return nil, err
	}
	return &LoginForm{Username: username, Password: password}, nil
}

// CategoryForm carries the single field of the category add/edit forms.
type CategoryForm struct {
	Name string
}

func ParseCategory(r *http.Request) (*CategoryForm, error) {
	name, err := requireString(r, "name")
	if err != nil {
		return nil, err
	}
	return &CategoryForm{Name: name}, nil
}

// ProductForm carries the product add/edit fields. The dates are optional;
// when present they must parse as DateLayout.
type ProductForm struct {
	Name            string
	Rate            decimal.Decimal
	Quantity        int
	CategoryID      uint
	ManufactureDate time.Time
	ExpiryDate      time.Time
}

func ParseProduct(r *http.Request) (*ProductForm, error) {
	name, err := requireString(r, "name")
	if err != nil {
		return nil, err
	}
	rate, err := requireDecimal(r, "rate")
	if err != nil {
		return nil, err
	}
	if rate.IsNegative() {
		return nil, &ValidationError{Field: "rate", Kind: KindNotPositive}
	}
	quantity, err := requireInt(r, "quantity")
	if err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, &ValidationError{Field: "quantity", Kind: KindNotPositive}
	}
	categoryID, err := requireInt(r, "category")
	if err != nil {
		return nil, err
	}
	manufactured, err := optionalDate(r, "manufacture_date")
	if err != nil {
		return nil, err
	}
	expires, err := optionalDate(r, "expiry_date")
	if err != nil {
		return nil, err
	}
	return &ProductForm{
		Name:            name,
		Rate:            rate,
		Quantity:        quantity,
		CategoryID:      uint(categoryID),
		ManufactureDate: manufactured,
		ExpiryDate:      expires,
	}, nil
}

// CategoryAddForm is the add-to-cart form posted from a category page,
// where the product id travels in the body rather than the path.
type CategoryAddForm struct {
	ProductID uint
	Quantity  int
}

func ParseCategoryAdd(r *http.Request) (*CategoryAddForm, error) {
	productID, err := requireInt(r, "product_id")
	if err != nil {
		return nil, err
	}
	quantity, err := requireInt(r, "quantity")
	if err != nil {
		return nil, err
	}
	return &CategoryAddForm{ProductID: uint(productID), Quantity: quantity}, nil
}

// ParseQuantity reads the bare quantity field of /add_to_cart. Positivity is
// the cart's concern; a non-positive value is a no-op there, not a 400.
func ParseQuantity(r *http.Request) (int, error) {
	return requireInt(r, "quantity")
}

// SearchForm carries the three mutually exclusive search criteria. Absent
// fields stay nil/empty; present fields must parse.
type SearchForm struct {
	Category          string
	MaxRate           *decimal.Decimal
	ManufacturedSince *time.Time
}

func ParseSearch(r *http.Request) (*SearchForm, error) {
	form := &SearchForm{Category: formValue(r, "search_category")}

	if raw := formValue(r, "search_price"); raw != "" {
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, &ValidationError{Field: "search_price", Kind: KindNotANumber}
		}
		form.MaxRate = &rate
	}
	if raw := formValue(r, "search_manufacture_date"); raw != "" {
		since, err := time.Parse(DateLayout, raw)
		if err != nil {
			return nil, &ValidationError{Field: "search_manufacture_date", Kind: KindNotADate}
		}
		form.ManufacturedSince = &since
	}
	return form, nil
}

func formValue(r *http.Request, field string) string {
	return r.FormValue(field)
}

func requireString(r *http.Request, field string) (string, error) {
	v := formValue(r, field)
	if v == "" {
		return "", &ValidationError{Field: field, Kind: KindMissing}
	}
	return v, nil
}

func requireInt(r *http.Request, field string) (int, error) {
	raw, err := requireString(r, field)
	if err != nil {
		return 0, err
	}
	n, convErr := strconv.Atoi(raw)
	if convErr != nil {
		return 0, &ValidationError{Field: field, Kind: KindNotANumber}
	}
	return n, nil
}

func requireDecimal(r *http.Request, field string) (decimal.Decimal, error) {
	raw, err := requireString(r, field)
	if err != nil {
		return decimal.Decimal{}, err
	}
	d, convErr := decimal.NewFromString(raw)
	if convErr != nil {
		return decimal.Decimal{}, &ValidationError{Field: field, Kind: KindNotANumber}
	}
	return d, nil
}

func optionalDate(r *http.Request, field string) (time.Time, error) {
	raw := formValue(r, field)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, &ValidationError{Field: field, Kind: KindNotADate}
	}
	return t, nil
}
