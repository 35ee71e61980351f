package services

import (
	"ayursutra/models"
	"ayursutra/repository"
	"context"
)

// PatientStore is the patient record access the services need.
type PatientStore interface {
	CreatePatient(ctx context.Context, p *models.Patient) error
	PatientByName(ctx context.Context, name string) (*models.Patient, error)
	PatientWithDoctors(ctx context.Context, name string) (*models.Patient, error)
	PatientByEmail(ctx context.Context, email string) (*models.Patient, bool, error)
	UpdateProgress(ctx context.Context, name, progress string) (int64, error)
}

// DoctorStore is the doctor record access the services need.
type DoctorStore interface {
	CreateDoctor(ctx context.Context, d *models.Doctor) error
	DoctorByName(ctx context.Context, docName string) (*models.Doctor, error)
	DoctorWithPatients(ctx context.Context, docName string) (*models.Doctor, error)
	DoctorsByLocation(ctx context.Context, address string) ([]models.DoctorListing, error)
}

// BookingStore runs a booking inside one transaction.
type BookingStore interface {
	WithinTransaction(ctx context.Context, fn func(tx repository.BookingTx) error) error
}

// Deliverer delivers a stored notification and records the attempt.
type Deliverer interface {
	Deliver(ctx context.Context, n *models.Notification) error
}

var (
	_ PatientStore = (*repository.Repository)(nil)
	_ DoctorStore  = (*repository.Repository)(nil)
	_ BookingStore = (*repository.Repository)(nil)
)
