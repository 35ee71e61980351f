package services

import (
	"ayursutra/authentication"
	"ayursutra/models"
	"ayursutra/notification"
	"ayursutra/repository"
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Booking is the outcome of a successful appointment booking.
type Booking struct {
	Patient   *models.Patient
	Doctor    *models.Doctor
	Message   string
	EmailSent bool
}

// PatientService implements the patient-facing operations.
type PatientService struct {
	patients      PatientStore
	bookings      BookingStore
	outbox        Deliverer
	mailer        notification.Sender
	validate      *validator.Validate
	fallbackEmail string
	log           zerolog.Logger
	newID         func() string
}

// NewPatientService wires the patient operations. fallbackEmail receives
// mail addressed to unknown patients; empty disables that path.
func NewPatientService(patients PatientStore, bookings BookingStore, outbox Deliverer, mailer notification.Sender, fallbackEmail string, log zerolog.Logger) *PatientService {
	return &PatientService{
		patients:      patients,
		bookings:      bookings,
		outbox:        outbox,
		mailer:        mailer,
		validate:      validator.New(),
		fallbackEmail: fallbackEmail,
		log:           log.With().Str("service", "patient").Logger(),
		newID:         uuid.NewString,
	}
}

// InsertPatient validates p, hashes its password and stores it.
func (s *PatientService) InsertPatient(ctx context.Context, p *models.Patient) (string, error) {
	if err := s.validate.Struct(p); err != nil {
		return "", invalid(err)
	}

	hash, err := authentication.HashPassword(p.Password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	p.Password = hash

	if err := s.patients.CreatePatient(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", fmt.Errorf("%w: %s", ErrPatientExists, p.Name)
		}
		return "", err
	}
	s.log.Info().Str("patient", p.Name).Msg("patient registered")
	return "Patient inserted successfully", nil
}

// FindByName returns the named patient or repository.ErrNotFound.
func (s *PatientService) FindByName(ctx context.Context, name string) (*models.Patient, error) {
	return s.patients.PatientByName(ctx, name)
}

// FindByEmail returns the patient registered under email, if any.
func (s *PatientService) FindByEmail(ctx context.Context, email string) (*models.Patient, bool, error) {
	return s.patients.PatientByEmail(ctx, email)
}

// Login returns the matching patient as a one-element slice, or an empty
// slice when the name is unknown or the password does not match.
func (s *PatientService) Login(ctx context.Context, name, password string) ([]models.Patient, error) {
	p, err := s.patients.PatientByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return []models.Patient{}, nil
	}
	if err != nil {
		return nil, err
	}
	if !authentication.CheckPassword(p.Password, password) {
		return []models.Patient{}, nil
	}
	return []models.Patient{*p}, nil
}

// ScheduleMapping books patientName with docName. The relation and its
// confirmation notification commit together; delivery is attempted after
// commit and a failed send leaves the notification queued for retry.
func (s *PatientService) ScheduleMapping(ctx context.Context, patientName, docName string) (*Booking, error) {
	var (
		b    Booking
		note *models.Notification
	)
	err := s.bookings.WithinTransaction(ctx, func(tx repository.BookingTx) error {
		patient, err := tx.PatientWithDoctors(ctx, patientName)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPatientNotFound
		}
		if err != nil {
			return fmt.Errorf("load patient: %w", err)
		}

		doctor, err := tx.DoctorWithPatients(ctx, docName)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrDoctorNotFound
		}
		if err != nil {
			return fmt.Errorf("load doctor: %w", err)
		}

		doctor.AddPatient(patient)
		patient.AddDoctor(doctor)
		if err := tx.LinkPatientDoctor(ctx, doctor, patient); err != nil {
			return err
		}

		note = &models.Notification{
			ID:            s.newID(),
			Kind:          models.KindAppointmentConfirmation,
			Recipient:     patient.Email,
			PatientName:   patient.Name,
			DoctorName:    doctor.DocName,
			ClinicName:    doctor.ClinicName,
			Address:       doctor.Address,
			DoctorProfile: doctor.DocInfo,
			Schedule:      patient.Schedule,
			Status:        models.NotificationPending,
		}
		if err := tx.CreateNotification(ctx, note); err != nil {
			return err
		}

		b.Patient, b.Doctor = patient, doctor
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.outbox.Deliver(ctx, note); err != nil {
		b.Message = fmt.Sprintf("Appointment booked with Dr. %s; confirmation email to %s queued for retry", b.Doctor.DocName, b.Patient.Email)
		return &b, nil
	}
	b.EmailSent = true
	b.Message = fmt.Sprintf("Appointment booked with Dr. %s & email sent to %s", b.Doctor.DocName, b.Patient.Email)
	return &b, nil
}

// GiveFeedback overwrites the progress of the named patient.
func (s *PatientService) GiveFeedback(ctx context.Context, name, progress string) (string, error) {
	n, err := s.patients.UpdateProgress(ctx, name, progress)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", ErrPatientNotFound
	}
	return "Feedback updated successfully for " + name, nil
}

// SendMailToPatient sends the generic appointment mail to the named
// patient, or to the fallback address when the patient is unknown.
func (s *PatientService) SendMailToPatient(ctx context.Context, name string) (string, error) {
	recipient := s.fallbackEmail
	p, err := s.patients.PatientByName(ctx, name)
	switch {
	case err == nil:
		recipient = p.Email
	case !errors.Is(err, repository.ErrNotFound):
		return "", err
	case s.fallbackEmail == "":
		return "", ErrPatientNotFound
	default:
		s.log.Warn().Str("patient", name).Str("recipient", recipient).Msg("unknown patient, using fallback address")
	}

	n := &models.Notification{
		ID:          s.newID(),
		Kind:        models.KindAppointmentGeneric,
		Recipient:   recipient,
		PatientName: name,
	}
	if err := s.mailer.Send(ctx, n); err != nil {
		return "", err
	}
	return "Email sent to " + recipient, nil
}

// Me returns the named patient with their doctors loaded.
func (s *PatientService) Me(ctx context.Context, name string) (*models.Patient, error) {
	p, err := s.patients.PatientWithDoctors(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPatientNotFound
	}
	return p, err
}
