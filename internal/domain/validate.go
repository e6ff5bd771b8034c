package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var rgbHexPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// entityValidate is shared by every entity validator. Built once in init with
// the custom tags the entities use.
var entityValidate *validator.Validate

func init() {
	entityValidate = validator.New(validator.WithRequiredStructEnabled())

	_ = entityValidate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = entityValidate.RegisterValidation("rgbhex", func(fl validator.FieldLevel) bool {
		return rgbHexPattern.MatchString(fl.Field().String())
	})
	_ = entityValidate.RegisterValidation("leavetype", func(fl validator.FieldLevel) bool {
		return ValidLeaveTypes[fl.Field().String()]
	})
	_ = entityValidate.RegisterValidation("coverage", func(fl validator.FieldLevel) bool {
		return ValidCoverages[fl.Field().String()]
	})
	_ = entityValidate.RegisterValidation("periodcolor", func(fl validator.FieldLevel) bool {
		return ValidPeriodColors[fl.Field().String()]
	})
}

// IsRGBHex reports whether s is a #RRGGBB color.
func IsRGBHex(s string) bool {
	return rgbHexPattern.MatchString(s)
}

// ValidateProject checks the project's own fields and every milestone.
func ValidateProject(p Project) error {
	if err := validateStruct(p); err != nil {
		return err
	}
	seen := make(map[string]bool, len(p.Milestones))
	for i, m := range p.Milestones {
		if err := ValidateMilestone(m); err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				ve.Field = fmt.Sprintf("milestones[%d].%s", i, ve.Field)
			}
			return err
		}
		if m.ID != "" && seen[m.ID] {
			return &ValidationError{Field: fmt.Sprintf("milestones[%d].id", i), Reason: fmt.Sprintf("duplicate milestone id %q", m.ID)}
		}
		seen[m.ID] = true
	}
	return nil
}

// ValidateMilestone checks a single milestone's fields.
func ValidateMilestone(m Milestone) error {
	return validateStruct(m)
}

// ValidateTeamMember checks a team member's fields.
func ValidateTeamMember(m TeamMember) error {
	return validateStruct(m)
}

// ValidateLeaveBlock checks a leave block's fields. Whether MemberID resolves
// is checked by the caller against current state.
func ValidateLeaveBlock(l LeaveBlock) error {
	return validateStruct(l)
}

// ValidatePeriodMarker checks a period marker's fields.
func ValidatePeriodMarker(m PeriodMarker) error {
	return validateStruct(m)
}

// ValidateDependencyFields checks that both project endpoints are present.
func ValidateDependencyFields(d Dependency) error {
	return validateStruct(d)
}

func validateStruct(v any) error {
	err := entityValidate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validating %T: %w", v, err)
	}
	return fromFieldError(fieldErrs[0])
}

// fromFieldError turns the first validator failure into a readable reason.
func fromFieldError(fe validator.FieldError) *ValidationError {
	field := lowerFirst(fe.Field())
	var reason string
	switch fe.Tag() {
	case "required", "notblank":
		reason = field + " is required"
	case "required_without":
		reason = field + " or " + lowerFirst(fe.Param()) + " is required"
	case "gtefield":
		reason = field + " must not be before " + lowerFirst(fe.Param())
	case "rgbhex":
		reason = fmt.Sprintf("%s %q must be a #RRGGBB color", field, fe.Value())
	case "leavetype", "coverage", "periodcolor":
		reason = fmt.Sprintf("%s: invalid value %q", field, fe.Value())
	default:
		reason = fmt.Sprintf("%s failed %q validation", field, fe.Tag())
	}
	return &ValidationError{Field: field, Reason: reason}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	if strings.HasSuffix(s, "ID") {
		s = strings.TrimSuffix(s, "ID") + "Id"
	}
	return strings.ToLower(s[:1]) + s[1:]
}
