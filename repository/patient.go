package repository

import (
	"ayursutra/models"
	"context"
	"fmt"
)

// CreatePatient inserts a new patient row.
func (r *Repository) CreatePatient(ctx context.Context, p *models.Patient) error {
	if err := r.db.WithContext(ctx).Omit("Doctors").Create(p).Error; err != nil {
		return fmt.Errorf("create patient %q: %w", p.Name, translate(err))
	}
	return nil
}

// PatientByName looks a patient up by primary key.
func (r *Repository) PatientByName(ctx context.Context, name string) (*models.Patient, error) {
	var patient models.Patient
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&patient).Error; err != nil {
		return nil, translate(err)
	}
	return &patient, nil
}

// PatientWithDoctors loads a patient together with its doctors.
func (r *Repository) PatientWithDoctors(ctx context.Context, name string) (*models.Patient, error) {
	var patient models.Patient
	err := r.db.WithContext(ctx).
		Preload("Doctors").
		Where("name = ?", name).
		First(&patient).Error
	if err != nil {
		return nil, translate(err)
	}
	return &patient, nil
}

// PatientByEmail returns the patient registered with email, if any.
func (r *Repository) PatientByEmail(ctx context.Context, email string) (*models.Patient, bool, error) {
	var patients []models.Patient
	if err := r.db.WithContext(ctx).Where("email = ?", email).Limit(1).Find(&patients).Error; err != nil {
		return nil, false, err
	}
	if len(patients) == 0 {
		return nil, false, nil
	}
	return &patients[0], true, nil
}

// UpdateProgress overwrites the progress field of the named patient and
// reports how many rows matched.
func (r *Repository) UpdateProgress(ctx context.Context, name, progress string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Patient{}).
		Where("name = ?", name).
		Update("progress", progress)
	if res.Error != nil {
		return 0, fmt.Errorf("update progress for %q: %w", name, res.Error)
	}
	return res.RowsAffected, nil
}
