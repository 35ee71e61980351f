package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// The not-found messages are shown to clients as they are.
var (
	ErrPatientNotFound = errors.New("Patient not found")
	ErrDoctorNotFound  = errors.New("Doctor not found")
	ErrPatientExists   = errors.New("patient already exists")
	ErrDoctorExists    = errors.New("doctor already exists")
	ErrInvalidInput    = errors.New("invalid input")
)

func invalid(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(fields, ", "))
}
