package repository

import (
	"ayursutra/models"
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert collides with an existing primary key.
var ErrDuplicate = errors.New("record already exists")

// Repository performs patient, doctor and outbox record access on top of gorm.
type Repository struct {
	db *gorm.DB
}

// New wraps an open gorm connection.
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// BookingTx is the record access available inside a booking transaction.
type BookingTx interface {
	PatientWithDoctors(ctx context.Context, name string) (*models.Patient, error)
	DoctorWithPatients(ctx context.Context, docName string) (*models.Doctor, error)
	LinkPatientDoctor(ctx context.Context, doctor *models.Doctor, patient *models.Patient) error
	CreateNotification(ctx context.Context, n *models.Notification) error
}

// WithinTransaction runs fn against a repository bound to a single
// transaction. Returning an error from fn rolls everything back.
func (r *Repository) WithinTransaction(ctx context.Context, fn func(tx BookingTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

// Ping checks the underlying connection.
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}
