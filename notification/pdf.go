package notification

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"
)

// SlipName is the attachment file name of the appointment slip.
const SlipName = "appointment.pdf"

// AppointmentSlip renders a one page PDF summary of the appointment.
func AppointmentSlip(d Details) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// gofpdf core fonts are latin-1 only
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 100, 0)
	pdf.CellFormat(0, 10, "AyurSutra - Panchakarma Appointment", "", 1, "C", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	addDetail(pdf, "Patient Name", tr(d.PatientName))
	addDetail(pdf, "Consulting Doctor", tr("Dr. "+d.DoctorName))
	addDetail(pdf, "Clinic", tr(d.Clinic))
	addDetail(pdf, "Address", tr(d.Address))
	addDetail(pdf, "Date & Time", tr(d.Schedule))

	pdf.SetFont("Arial", "", 10)
	pdf.SetY(pdf.GetY() + 10)
	pdf.MultiCell(0, 5, "Eat light before your session, stay hydrated and wear comfortable clothing.", "", "C", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addDetail(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(50, 10, label, "1", 0, "", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 10, value, "1", 1, "", false, 0, "")
}
