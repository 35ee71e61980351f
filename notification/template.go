package notification

import (
	"ayursutra/models"
	"fmt"
	"strings"
)

// Subject is used for every appointment mail.
const Subject = "Panchakarma Consultation & Therapy Appointment Confirmation"

// Clinic defaults used by the generic mail, which is not tied to a booking.
const (
	DefaultDoctor   = "Priti More"
	DefaultClinic   = "Dhanvantaray Clinic"
	DefaultAddress  = "Kothrud, Pune – 411038"
	DefaultProfile  = "https://mcimindia.co.in/VerifyRMP.aspx?REGNO=69047&KEY=52624"
	DefaultSchedule = "20th September, 4:00 PM"
	signature       = "-AyurSutra"
)

// Details are the values substituted into the mail body and the PDF slip.
type Details struct {
	PatientName string
	DoctorName  string
	Clinic      string
	Address     string
	Profile     string
	Schedule    string
}

// DetailsFor resolves the substituted values, falling back to the clinic
// defaults when the notification does not name a doctor.
func DetailsFor(n *models.Notification) Details {
	d := Details{
		PatientName: n.PatientName,
		DoctorName:  DefaultDoctor,
		Clinic:      DefaultClinic,
		Address:     DefaultAddress,
		Profile:     DefaultProfile,
		Schedule:    DefaultSchedule,
	}
	if n.HasDoctor() {
		d.DoctorName = n.DoctorName
		d.Clinic = n.ClinicName
		d.Address = n.Address
		d.Profile = n.DoctorProfile
	}
	if strings.TrimSpace(n.Schedule) != "" {
		d.Schedule = n.Schedule
	}
	return d
}

// Body renders the plain-text mail body.
func Body(d Details) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", d.PatientName)
	b.WriteString("We are pleased to inform you that your appointment has been successfully scheduled.\n\n")
	fmt.Fprintf(&b, "Date & Time: %s\n", d.Schedule)
	fmt.Fprintf(&b, "Consulting Doctor: Dr. %s\n", d.DoctorName)
	fmt.Fprintf(&b, "Address: %s\n\n\n", joinNonEmpty(", ", d.Clinic, d.Address))
	fmt.Fprintf(&b, "Doctor's Qualifications & Profile: %s\n\n", d.Profile)
	b.WriteString("──────────────────────────────\n")
	b.WriteString(" Pre-Session Recommendations\n")
	b.WriteString("──────────────────────────────\n")
	b.WriteString("1. Eat light before your session.\n")
	b.WriteString("2. Stay hydrated with water.\n")
	b.WriteString("3. Wear comfortable clothing.\n\n")
	b.WriteString("We look forward to guiding you through a rejuvenating Panchakarma experience.\n\n\n\n")
	b.WriteString(signature)
	return b.String()
}

func joinNonEmpty(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
