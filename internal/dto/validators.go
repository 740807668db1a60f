package dto

import (
	"github.com/go-playground/validator/v10"
	"github.com/pharmatrack/ledger-core/internal/core/domain"
)

// RegisterValidators wires the closed-set enum checks into gin's binding
// validator so malformed kinds are rejected at the edge, before the service
// layer re-validates them.
func RegisterValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("entitykind", func(fl validator.FieldLevel) bool {
		return domain.EntityKind(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("movementkind", func(fl validator.FieldLevel) bool {
		return domain.MovementKind(fl.Field().String()).Valid()
	})
}
