package models

// Patient is identified by its unique name. It is the inverse side of the
// doctor_patient relation.
type Patient struct {
	Name         string    `json:"name" gorm:"primaryKey" validate:"required,max=100"`
	Email        string    `json:"email" gorm:"index" validate:"required,email"`
	Age          int       `json:"age" validate:"gte=0,lte=150"`
	Gender       string    `json:"gender"`
	City         string    `json:"city"`
	Password     string    `json:"password" gorm:"not null" validate:"required"`
	Otp          int       `json:"otp"`
	Appointments string    `json:"appointments"`
	Schedule     string    `json:"schedule"`
	Progress     string    `json:"progress"`
	Doctors      []*Doctor `json:"-" gorm:"many2many:doctor_patient;joinForeignKey:PatientID;joinReferences:DoctorID"`
}

// HasDoctor reports whether the doctor is already in the patient's collection.
func (p *Patient) HasDoctor(docName string) bool {
	for _, d := range p.Doctors {
		if d != nil && d.DocName == docName {
			return true
		}
	}
	return false
}

// AddDoctor appends the doctor unless already present.
func (p *Patient) AddDoctor(d *Doctor) {
	if !p.HasDoctor(d.DocName) {
		p.Doctors = append(p.Doctors, d)
	}
}
