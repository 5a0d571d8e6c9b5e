package profile

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Candidate is a résumé already parsed by an upstream collaborator.
type Candidate struct {
	ID              string   `json:"id,omitempty" mapstructure:"id"`
	Name            string   `json:"name,omitempty" mapstructure:"name"`
	Skills          []string `json:"skills,omitempty" mapstructure:"skills" validate:"dive,skillname"`
	Projects        []string `json:"projects,omitempty" mapstructure:"projects"`
	ExperienceYears float64  `json:"experience_years,omitempty" mapstructure:"experience_years" validate:"gte=0"`
	RawText         string   `json:"raw_text,omitempty" mapstructure:"raw_text"`
}

// Role is a job description already parsed by an upstream collaborator.
// IdealExperienceYears of zero means the role states no experience requirement.
type Role struct {
	ID                   string              `json:"id,omitempty" mapstructure:"id"`
	Title                string              `json:"title,omitempty" mapstructure:"title"`
	RequiredSkills       []string            `json:"required_skills,omitempty" mapstructure:"required_skills" validate:"dive,skillname"`
	PreferredSkills      []string            `json:"preferred_skills,omitempty" mapstructure:"preferred_skills" validate:"dive,skillname"`
	Responsibilities     []string            `json:"responsibilities,omitempty" mapstructure:"responsibilities"`
	IdealExperienceYears float64             `json:"ideal_experience_years,omitempty" mapstructure:"ideal_experience_years" validate:"gte=0"`
	Synonyms             map[string][]string `json:"synonyms,omitempty" mapstructure:"synonyms"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Skill names must carry at least one non-space character.
	if err := v.RegisterValidation("skillname", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate reports malformed candidate fields as a *ValidationError.
func (c *Candidate) Validate() error {
	if c == nil {
		return &ValidationError{Field: "candidate", Message: "is required"}
	}
	return structError(validate.Struct(c))
}

// Validate reports malformed role fields as a *ValidationError.
func (r *Role) Validate() error {
	if r == nil {
		return &ValidationError{Field: "role", Message: "is required"}
	}
	return structError(validate.Struct(r))
}

func structError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		return &ValidationError{
			Field:   first.Namespace(),
			Message: "failed '" + first.Tag() + "' check",
			Cause:   err,
		}
	}

	return &ValidationError{Field: "record", Message: "invalid", Cause: err}
}
