package validator

import (
	"log"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"rentify_backend/internal/models"
)

// Шестизначный индийский PIN, без ведущего нуля.
var pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// registerCustomRules регистрирует все кастомные функции валидации в
// переданном экземпляре валидатора.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Без правил приложение не должно запускаться
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("pincode", validatePincode)

	// Правила, основанные на 'statuses.go'
	mustRegister("user-role", oneOf(models.UserRoles))
	mustRegister("property-type", oneOf(models.PropertyTypes))
	mustRegister("furnishing", oneOf(models.Furnishings))
	mustRegister("area-unit", oneOf(models.AreaUnits))
	mustRegister("plan-tier", oneOf(models.PlanTiers))
	mustRegister("subscription-status", oneOf(models.SubscriptionStatuses))
	mustRegister("report-reason", oneOf(models.ReportReasons))
	mustRegister("report-status", oneOf(models.ReportStatuses))
}

// --- Функции валидации ---

func validatePincode(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // 'required' обрабатывает пустые
	}
	return IsPincode(value)
}

// IsPincode reports whether s is a valid six digit postal code.
func IsPincode(s string) bool {
	return pincodePattern.MatchString(s)
}

// oneOf builds a rule accepting any of allowed. Works on string kinds and
// on slices of them, so []string filters are checked element-wise.
func oneOf(allowed []string) validator.Func {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	return func(fl validator.FieldLevel) bool {
		field := fl.Field()
		switch field.Kind() {
		case reflect.String:
			if field.String() == "" {
				return true
			}
			_, ok := set[field.String()]
			return ok
		case reflect.Slice:
			for i := 0; i < field.Len(); i++ {
				if _, ok := set[field.Index(i).String()]; !ok {
					return false
				}
			}
			return true
		default:
			return false
		}
	}
}

func messageForCustomTag(tag string) (string, bool) {
	switch tag {
	case "pincode":
		return "Must be a 6-digit postal code not starting with 0", true
	case "user-role":
		return "Must be one of: " + joinAllowed(models.UserRoles), true
	case "property-type":
		return "Must be one of: " + joinAllowed(models.PropertyTypes), true
	case "furnishing":
		return "Must be one of: " + joinAllowed(models.Furnishings), true
	case "area-unit":
		return "Must be one of: " + joinAllowed(models.AreaUnits), true
	case "plan-tier":
		return "Must be one of: " + joinAllowed(models.PlanTiers), true
	case "subscription-status":
		return "Must be one of: " + joinAllowed(models.SubscriptionStatuses), true
	case "report-reason":
		return "Must be one of: " + joinAllowed(models.ReportReasons), true
	case "report-status":
		return "Must be one of: " + joinAllowed(models.ReportStatuses), true
	}
	return "", false
}

func joinAllowed(values []string) string {
	return strings.Join(values, ", ")
}
