package models

import "time"

// Doctor owns the many-to-many relation to Patient through doctor_patient.
type Doctor struct {
	DocName        string     `json:"docName" gorm:"primaryKey;column:doc_name" validate:"required,max=100"`
	PhoneNo        int64      `json:"phoneNo" gorm:"column:phone_no"`
	ClinicName     string     `json:"clinic_name" gorm:"column:clinic_name"`
	Address        string     `json:"address" gorm:"index"`
	Qualification  string     `json:"qualification"`
	Experience     int        `json:"experience" validate:"gte=0"`
	Password       string     `json:"password" gorm:"not null" validate:"omitempty"`
	DocInfo        string     `json:"doc_info" gorm:"column:doc_info"`
	TheoryProgress string     `json:"theory_progress" gorm:"column:theory_progress"`
	Feedback       string     `json:"feedback"`
	Patients       []*Patient `json:"-" gorm:"many2many:doctor_patient;joinForeignKey:DoctorID;joinReferences:PatientID"`
}

// HasPatient reports whether the patient is already in the doctor's collection.
func (d *Doctor) HasPatient(name string) bool {
	for _, p := range d.Patients {
		if p != nil && p.Name == name {
			return true
		}
	}
	return false
}

// AddPatient appends the patient unless already present.
func (d *Doctor) AddPatient(p *Patient) {
	if !d.HasPatient(p.Name) {
		d.Patients = append(d.Patients, p)
	}
}

// DoctorListing is the directory projection returned by the location search.
type DoctorListing struct {
	DocName    string `gorm:"column:doc_name"`
	ClinicName string `gorm:"column:clinic_name"`
	PhoneNo    int64  `gorm:"column:phone_no"`
}

// DoctorPatient is a row of the doctor_patient association table.
type DoctorPatient struct {
	DoctorID  string    `gorm:"primaryKey;column:doctor_id"`
	PatientID string    `gorm:"primaryKey;column:patient_id"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName pins the association table name.
func (DoctorPatient) TableName() string {
	return "doctor_patient"
}
