// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"buildledger/internal/amortization"
	"buildledger/internal/models"
	"buildledger/internal/uuid"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("commitment_kind", validateCommitmentKind)
		_ = v.RegisterValidation("seniority", validateSeniority)
		_ = v.RegisterValidation("grace_unit", validateGraceUnit)
		_ = v.RegisterValidation("cadence", validateCadence)
		_ = v.RegisterValidation("owner_type", validateOwnerType)
		_ = v.RegisterValidation("uuid_id", validateUUID)
	}
}

func validateCommitmentKind(fl validator.FieldLevel) bool {
	switch models.CommitmentKind(fl.Field().String()) {
	case models.CommitmentKindCredit, models.CommitmentKindInvestment:
		return true
	}
	return false
}

func validateSeniority(fl validator.FieldLevel) bool {
	switch models.Seniority(fl.Field().String()) {
	case models.SenioritySenior, models.SeniorityJunior:
		return true
	}
	return false
}

func validateGraceUnit(fl validator.FieldLevel) bool {
	switch models.GraceUnit(fl.Field().String()) {
	case models.GraceUnitDays, models.GraceUnitMonths:
		return true
	}
	return false
}

func validateCadence(fl validator.FieldLevel) bool {
	switch amortization.Cadence(fl.Field().String()) {
	case amortization.CadenceMonthly, amortization.CadenceYearly:
		return true
	}
	return false
}

func validateOwnerType(fl validator.FieldLevel) bool {
	return models.PaymentOwnerType(fl.Field().String()).Valid()
}

func validateUUID(fl validator.FieldLevel) bool {
	return uuid.IsValid(fl.Field().String())
}
