package services

import (
	"ayursutra/authentication"
	"ayursutra/models"
	"ayursutra/repository"
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// DoctorService implements the doctor-facing operations and the
// directory lookup.
type DoctorService struct {
	doctors  DoctorStore
	resolver authentication.Resolver
	validate *validator.Validate
	log      zerolog.Logger
}

func NewDoctorService(doctors DoctorStore, log zerolog.Logger) *DoctorService {
	return &DoctorService{
		doctors:  doctors,
		resolver: authentication.NewDoctorResolver(doctors),
		validate: validator.New(),
		log:      log.With().Str("service", "doctor").Logger(),
	}
}

// InsertDoctor validates d, hashes its password and stores it.
func (s *DoctorService) InsertDoctor(ctx context.Context, d *models.Doctor) (string, error) {
	if err := s.validate.Struct(d); err != nil {
		return "", invalid(err)
	}

	// no password leaves the account unable to log in
	if d.Password != "" {
		hash, err := authentication.HashPassword(d.Password)
		if err != nil {
			return "", fmt.Errorf("hash password: %w", err)
		}
		d.Password = hash
	}

	if err := s.doctors.CreateDoctor(ctx, d); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", fmt.Errorf("%w: %s", ErrDoctorExists, d.DocName)
		}
		return "", err
	}
	s.log.Info().Str("doctor", d.DocName).Msg("doctor registered")
	return "Data Inserted Successfully", nil
}

// Login reports whether docName exists and password matches.
func (s *DoctorService) Login(ctx context.Context, docName, password string) (bool, error) {
	_, err := authentication.Authenticate(ctx, s.resolver, docName, password)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, authentication.ErrPrincipalNotFound), errors.Is(err, authentication.ErrBadCredentials):
		return false, nil
	}
	return false, err
}

// ClientsForDoctor lists the patients booked with docName.
func (s *DoctorService) ClientsForDoctor(ctx context.Context, docName string) ([]models.ClientInfo, error) {
	d, err := s.doctors.DoctorWithPatients(ctx, docName)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrDoctorNotFound
	}
	if err != nil {
		return nil, err
	}
	clients := make([]models.ClientInfo, 0, len(d.Patients))
	for _, p := range d.Patients {
		clients = append(clients, models.NewClientInfo(p))
	}
	return clients, nil
}

func (s *DoctorService) SearchDoctorByName(ctx context.Context, docName string) (*models.Doctor, error) {
	d, err := s.doctors.DoctorByName(ctx, docName)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrDoctorNotFound
	}
	return d, err
}

// DoctorsByLocation lists doctors whose address equals address exactly.
func (s *DoctorService) DoctorsByLocation(ctx context.Context, address string) ([]models.DoctorListing, error) {
	return s.doctors.DoctorsByLocation(ctx, address)
}
