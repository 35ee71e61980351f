package models

import "encoding/json"

// PatientView is the outward representation of a patient; it never carries
// the password hash.
type PatientView struct {
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Age          int      `json:"age"`
	Gender       string   `json:"gender"`
	City         string   `json:"city"`
	Appointments string   `json:"appointments"`
	Schedule     string   `json:"schedule"`
	Progress     string   `json:"progress"`
	Doctors      []string `json:"doctors"`
}

// NewPatientView builds a PatientView from a patient and its loaded doctors.
func NewPatientView(p *Patient) PatientView {
	v := PatientView{
		Name:         p.Name,
		Email:        p.Email,
		Age:          p.Age,
		Gender:       p.Gender,
		City:         p.City,
		Appointments: p.Appointments,
		Schedule:     p.Schedule,
		Progress:     p.Progress,
		Doctors:      make([]string, 0, len(p.Doctors)),
	}
	for _, d := range p.Doctors {
		v.Doctors = append(v.Doctors, d.DocName)
	}
	return v
}

// ClientInfo is what a doctor sees about one of their patients.
type ClientInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Age      int    `json:"age"`
	Gender   string `json:"gender"`
	City     string `json:"city"`
	Progress string `json:"progress"`
}

// NewClientInfo projects a patient for the doctor's client list.
func NewClientInfo(p *Patient) ClientInfo {
	return ClientInfo{
		Name:     p.Name,
		Email:    p.Email,
		Age:      p.Age,
		Gender:   p.Gender,
		City:     p.City,
		Progress: p.Progress,
	}
}

// MarshalJSON encodes a listing as a [name, clinic, phone] tuple, the shape
// the directory endpoint has always returned.
func (l DoctorListing) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{l.DocName, l.ClinicName, l.PhoneNo})
}
