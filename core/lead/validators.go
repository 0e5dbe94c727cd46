package lead

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/admitdesk/core"
)

var (
	salesStatusTag  = "salesstatus"
	salesStatusText = "{0} must be one of new, contacted, qualified, converted, lost, delegate"

	salesStatusFilterTag  = "salesstatusfilter"
	salesStatusFilterText = "{0} must be all or a valid sales status"
)

// InitValidators registers the lead validation tags on `validate`.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(salesStatusTag, salesStatusValidation)
	core.RegisterCustomTranslation(validate, translator, salesStatusTag, salesStatusText)

	_ = validate.RegisterValidation(salesStatusFilterTag, salesStatusFilterValidation)
	core.RegisterCustomTranslation(validate, translator, salesStatusFilterTag, salesStatusFilterText)
}

func salesStatusValidation(fl validator.FieldLevel) bool {
	_, err := ParseSalesStatus(fl.Field().String())
	return err == nil
}

func salesStatusFilterValidation(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if isMatchAll(normalizePredicate(s)) {
		return true
	}
	_, err := ParseSalesStatus(s)
	return err == nil
}

// SalesStatusUpdate is the payload of a sales status change.
type SalesStatusUpdate struct {
	SalesStatus string `json:"sales_status" validate:"required,salesstatus"`
}

// Validate checks the update and returns its parsed status.
func (u SalesStatusUpdate) Validate(validate *validator.Validate) (SalesStatus, error) {
	if err := validate.Struct(u); err != nil {
		return "", err
	}
	return ParseSalesStatus(u.SalesStatus)
}
