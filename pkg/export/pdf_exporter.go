package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// LeaveDocument carries the fields rendered into the archival decision PDF.
type LeaveDocument struct {
	Reference    string
	EmployeeName string
	LeaveType    string
	StartDate    string
	EndDate      string
	Days         string
	Reason       string
	ManagerName  string
	SignerName   string
	SignedAt     string
}

// PDFExporter renders finally-approved leave requests into a printable PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates the decision document for one leave request.
func (e *PDFExporter) Render(doc LeaveDocument) ([]byte, error) {
	if doc.Reference == "" {
		return nil, fmt.Errorf("pdf requires a request reference")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "LEAVE APPROVAL CERTIFICATE", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 6, strings.ToUpper("Reference: "+doc.Reference), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	rows := [][2]string{
		{"Employee", doc.EmployeeName},
		{"Leave type", doc.LeaveType},
		{"From", doc.StartDate},
		{"To", doc.EndDate},
		{"Working days", doc.Days},
	}
	if doc.Reason != "" {
		rows = append(rows, [2]string{"Reason", doc.Reason})
	}
	if doc.ManagerName != "" {
		rows = append(rows, [2]string{"Approved by (manager)", doc.ManagerName})
	}

	pdf.SetFont("Arial", "", 11)
	for _, row := range rows {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(60, 8, row[0], "1", 0, "", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(120, 8, row[1], "1", 1, "", false, 0, "")
	}

	pdf.Ln(12)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 8, "Final approval", "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Signed by %s on %s", doc.SignerName, doc.SignedAt), "", 1, "", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
