package validator

import (
	"flymedia_backend/internal/models"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules adds the domain validation tags to v.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-task-status", validateTaskStatus)
	mustRegister("is-task-priority", validateTaskPriority)
	mustRegister("is-due-date", validateDueDate)
	mustRegister("notblank", validateNotBlank)
	mustRegister("is-display-name", validateDisplayName)
	mustRegister("is-activity-type", validateActivityType)
}

func validateTaskStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // 'required' handles empty values
	}
	return models.TaskStatus(value).Valid()
}

func validateTaskPriority(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.TaskPriority(value).Valid()
}

func validateDueDate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, ok := models.ParseDueDate(value)
	return ok
}

func validateNotBlank(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return true
		}
	}
	return false
}

// validateDisplayName wants at least two characters once trimmed.
func validateDisplayName(fl validator.FieldLevel) bool {
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= 2
}

func validateActivityType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ActivityType(value).Valid()
}
