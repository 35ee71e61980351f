package repository

import (
	"ayursutra/models"
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateDoctor inserts a new doctor row.
func (r *Repository) CreateDoctor(ctx context.Context, d *models.Doctor) error {
	if err := r.db.WithContext(ctx).Omit("Patients").Create(d).Error; err != nil {
		return fmt.Errorf("create doctor %q: %w", d.DocName, translate(err))
	}
	return nil
}

// DoctorByName looks a doctor up by primary key.
func (r *Repository) DoctorByName(ctx context.Context, docName string) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := r.db.WithContext(ctx).Where("doc_name = ?", docName).First(&doctor).Error; err != nil {
		return nil, translate(err)
	}
	return &doctor, nil
}

// DoctorWithPatients loads a doctor together with its patients.
func (r *Repository) DoctorWithPatients(ctx context.Context, docName string) (*models.Doctor, error) {
	var doctor models.Doctor
	err := r.db.WithContext(ctx).
		Preload("Patients", func(db *gorm.DB) *gorm.DB { return db.Order("name") }).
		Where("doc_name = ?", docName).
		First(&doctor).Error
	if err != nil {
		return nil, translate(err)
	}
	return &doctor, nil
}

// DoctorsByLocation lists the doctors whose address equals address exactly.
func (r *Repository) DoctorsByLocation(ctx context.Context, address string) ([]models.DoctorListing, error) {
	listings := make([]models.DoctorListing, 0)
	err := r.db.WithContext(ctx).
		Model(&models.Doctor{}).
		Select("doc_name", "clinic_name", "phone_no").
		Where("address = ?", address).
		Order("doc_name").
		Scan(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("doctors at %q: %w", address, err)
	}
	return listings, nil
}

// LinkPatientDoctor writes the association row for the pair. Linking an
// already linked pair is a no-op.
func (r *Repository) LinkPatientDoctor(ctx context.Context, doctor *models.Doctor, patient *models.Patient) error {
	link := models.DoctorPatient{DoctorID: doctor.DocName, PatientID: patient.Name}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&link).Error
	if err != nil {
		return fmt.Errorf("link %q to %q: %w", patient.Name, doctor.DocName, err)
	}
	return nil
}
