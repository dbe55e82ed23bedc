package utils

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/prescripto/prescripto-api/models"
)

// GenerateReceiptPDF renders a payment receipt for a completed payment and
// returns the PDF bytes.
func GenerateReceiptPDF(appointment *models.Appointment, doctor *models.Doctor) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, "Payment Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Receipt generated: %s",
		time.Now().Format("02 Jan 2006 15:04")), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	addReceiptRow(pdf, "Appointment ID", fmt.Sprintf("%d", appointment.ID), true)
	addReceiptRow(pdf, "Patient", appointment.PatientName, false)
	addReceiptRow(pdf, "Doctor", doctor.Name, false)
	addReceiptRow(pdf, "Specialization", doctor.Specialization, false)
	addReceiptRow(pdf, "Date", appointment.Date, false)
	addReceiptRow(pdf, "Time", appointment.Time, false)
	addReceiptRow(pdf, "Payment Method", string(appointment.Payment.Method), false)
	addReceiptRow(pdf, "Payment Status", string(appointment.Payment.Status), false)
	addReceiptRow(pdf, "Amount Paid", fmt.Sprintf("INR %.2f", float64(appointment.Payment.Amount)/100), false)
	if appointment.Payment.PaymentID != "" {
		addReceiptRow(pdf, "Gateway Reference", appointment.Payment.PaymentID, false)
	}

	pdf.Ln(10)
	pdf.SetFont("Arial", "", 9)
	pdf.MultiCell(0, 5, "Thank you for booking with us. Keep this receipt for your records.", "", "L", false)
	pdf.Ln(6)
	pdf.CellFormat(0, 8, "This is a computer generated receipt", "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addReceiptRow(pdf *gofpdf.Fpdf, label, value string, isHeader bool) {
	if isHeader {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetFillColor(255, 255, 255)
	} else {
		pdf.SetFont("Arial", "", 10)
		pdf.SetFillColor(240, 240, 240)
	}
	pdf.CellFormat(45, 10, label, "1", 0, "", false, 0, "")
	pdf.CellFormat(0, 10, value, "1", 1, "", false, 0, "")
}
