package validation

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"procurement/internal/apperr"
	"procurement/models"
)

const maxBodyBytes = 1 << 20

// предел NUMERIC(18,2)
var maxMoney = decimal.New(1, 16)

// Validator проверяет тела запросов по тегам validate до вызова контроллера
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

func New() *Validator {
	return NewWithClock(time.Now)
}

func NewWithClock(now func() time.Time) *Validator {
	v := &Validator{validate: validator.New(validator.WithRequiredStructEnabled()), now: now}

	// в ошибках используем имена из JSON
	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v.validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	v.validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(models.Date); ok {
			return d.Time
		}
		return nil
	}, models.Date{})

	_ = v.validate.RegisterValidation("future", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		return ok && t.After(v.now())
	})

	// money: значение помещается в NUMERIC(18,2) без округления
	_ = v.validate.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		var d decimal.Decimal
		switch val := fl.Field().Interface().(type) {
		case decimal.Decimal:
			d = val
		case float64:
			d = decimal.NewFromFloat(val)
		default:
			return false
		}
		return d.Equal(d.Round(2)) && d.Abs().LessThan(maxMoney)
	})

	v.validate.RegisterStructValidation(func(sl validator.StructLevel) {
		c := sl.Current().Interface().(models.InvoiceCreate)
		if !c.IssueDate.IsZero() && !c.DueDate.IsZero() && c.DueDate.Before(c.IssueDate.Time) {
			sl.ReportError(c.DueDate, "dueDate", "DueDate", "gtefield", "issueDate")
		}
	}, models.InvoiceCreate{})

	return v
}

// Struct возвращает *apperr.Error со списком нарушенных полей или nil
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		fields = append(fields, apperr.FieldError{Field: fe.Field(), Rule: rule})
	}
	return apperr.Validation(fields...)
}

// Decode читает JSON-тело в dst и проверяет его
func (v *Validator) Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return apperr.BadRequest("failed to read request body")
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return apperr.BadRequest("request body is required")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperr.BadRequest("invalid JSON format: " + err.Error())
	}
	return v.Struct(dst)
}
