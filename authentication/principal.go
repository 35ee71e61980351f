package authentication

import (
	"ayursutra/models"
	"ayursutra/repository"
	"context"
	"errors"
	"fmt"
)

// Roles carried by a principal.
const (
	RolePatient = "PATIENT"
	RoleDoctor  = "DOCTOR"
)

var (
	// ErrPrincipalNotFound means no credential record exists for the identifier.
	ErrPrincipalNotFound = errors.New("principal not found")
	// ErrBadCredentials means the identifier exists but the password does not match.
	ErrBadCredentials = errors.New("invalid credentials")
)

// Principal is the authenticated identity attached to a request.
type Principal struct {
	Name         string
	Role         string
	PasswordHash string `json:"-"`
}

// Resolver turns a login identifier into a credential record.
type Resolver interface {
	Resolve(ctx context.Context, name string) (*Principal, error)
}

// PatientLookup is the record access PatientResolver needs.
type PatientLookup interface {
	PatientByName(ctx context.Context, name string) (*models.Patient, error)
}

// DoctorLookup is the record access DoctorResolver needs.
type DoctorLookup interface {
	DoctorByName(ctx context.Context, docName string) (*models.Doctor, error)
}

// PatientResolver resolves patients by name, the canonical login identifier.
type PatientResolver struct {
	store PatientLookup
}

// NewPatientResolver returns a resolver over store.
func NewPatientResolver(store PatientLookup) *PatientResolver {
	return &PatientResolver{store: store}
}

func (r *PatientResolver) Resolve(ctx context.Context, name string) (*Principal, error) {
	p, err := r.store.PatientByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: patient %q", ErrPrincipalNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return &Principal{Name: p.Name, Role: RolePatient, PasswordHash: p.Password}, nil
}

// DoctorResolver resolves doctors by name.
type DoctorResolver struct {
	store DoctorLookup
}

// NewDoctorResolver returns a resolver over store.
func NewDoctorResolver(store DoctorLookup) *DoctorResolver {
	return &DoctorResolver{store: store}
}

func (r *DoctorResolver) Resolve(ctx context.Context, name string) (*Principal, error) {
	d, err := r.store.DoctorByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: doctor %q", ErrPrincipalNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return &Principal{Name: d.DocName, Role: RoleDoctor, PasswordHash: d.Password}, nil
}

// Authenticate resolves name and verifies password against the stored hash.
func Authenticate(ctx context.Context, r Resolver, name, password string) (*Principal, error) {
	p, err := r.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	if !CheckPassword(p.PasswordHash, password) {
		return nil, ErrBadCredentials
	}
	return p, nil
}
