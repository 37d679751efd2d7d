package sales

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// SaleForm is the add/edit form as submitted.
type SaleForm struct {
	OrderDispatchDate string `form:"orderDispatchDate" validate:"required,datetime=2006-01-02"`
	VendorName        string `form:"vendorName" validate:"required,max=200"`
	Contact           string `form:"contact" validate:"max=100"`
	Area              string `form:"area" validate:"required,max=100"`
	Transport         string `form:"transport" validate:"required,max=100"`
	TotalBillAmount   string `form:"totalBillAmount" validate:"required,numeric"`
	DueDate           string `form:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	ProductOrdered    string `form:"productOrdered" validate:"required,max=200"`
	QtyOrdered        string `form:"qtyOrdered" validate:"required,number"`
	PaymentStatus     string `form:"paymentStatus" validate:"omitempty,oneof=Paid Due Overdue"`
}

// FormErrors maps form field names to messages.
type FormErrors map[string]string

// NewValidator returns a validator reporting fields by their form name.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// SaleFormFromValues reads a posted form.
func SaleFormFromValues(values url.Values) SaleForm {
	get := func(key string) string { return strings.TrimSpace(values.Get(key)) }
	return SaleForm{
		OrderDispatchDate: get("orderDispatchDate"),
		VendorName:        get("vendorName"),
		Contact:           get("contact"),
		Area:              get("area"),
		Transport:         get("transport"),
		TotalBillAmount:   get("totalBillAmount"),
		DueDate:           get("dueDate"),
		ProductOrdered:    get("productOrdered"),
		QtyOrdered:        get("qtyOrdered"),
		PaymentStatus:     get("paymentStatus"),
	}
}

// SaleFormFromSale prefills the edit form.
func SaleFormFromSale(s Sale) SaleForm {
	form := SaleForm{
		OrderDispatchDate: s.OrderDispatchDate.Format(DateLayout),
		VendorName:        s.VendorName,
		Contact:           s.Contact,
		Area:              s.Area,
		Transport:         s.Transport,
		TotalBillAmount:   s.TotalBillAmount.String(),
		ProductOrdered:    s.ProductOrdered,
		QtyOrdered:        strconv.Itoa(s.QtyOrdered),
		PaymentStatus:     string(s.PaymentStatus),
	}
	if s.HasDueDate() {
		form.DueDate = s.DueDate.Format(DateLayout)
	}
	return form
}

// Validate runs the struct rules and returns per-field messages.
func (f SaleForm) Validate(v *validator.Validate) FormErrors {
	errs := FormErrors{}
	err := v.Struct(f)
	if err == nil {
		return errs
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs["general"] = err.Error()
		return errs
	}
	for _, fieldErr := range verrs {
		errs[fieldErr.Field()] = fieldMessage(fieldErr)
	}
	return errs
}

// Sale converts a validated form. Dates are read in loc.
func (f SaleForm) Sale(loc *time.Location) (Sale, error) {
	dispatch, err := ParseDate(f.OrderDispatchDate, loc)
	if err != nil {
		return Sale{}, fmt.Errorf("orderDispatchDate: %w", err)
	}
	qty, err := strconv.Atoi(f.QtyOrdered)
	if err != nil {
		return Sale{}, fmt.Errorf("qtyOrdered: %w", err)
	}
	amount, err := decimal.NewFromString(f.TotalBillAmount)
	if err != nil {
		return Sale{}, fmt.Errorf("totalBillAmount: %w", err)
	}
	status, err := ParsePaymentStatus(f.PaymentStatus)
	if err != nil {
		return Sale{}, err
	}

	sale := NewSale(dispatch, f.VendorName, f.Area, f.Transport, f.ProductOrdered, qty, amount)
	sale.Contact = f.Contact
	sale.PaymentStatus = status
	if f.DueDate != "" {
		due, err := ParseDate(f.DueDate, loc)
		if err != nil {
			return Sale{}, fmt.Errorf("dueDate: %w", err)
		}
		sale.DueDate = &due
	}
	return sale, nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "datetime":
		return "Use a date in YYYY-MM-DD format"
	case "number":
		return "Enter a whole number"
	case "numeric":
		return "Enter an amount"
	case "oneof":
		return "Choose one of: " + fe.Param()
	case "max":
		return "Must be at most " + fe.Param() + " characters"
	}
	return fe.Error()
}
