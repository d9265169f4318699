package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	apperrors "printcost_go_backend/internal/errors"
	"printcost_go_backend/internal/models"

	"github.com/jung-kurt/gofpdf"
)

const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// ExportService renders a session's retained ledger into a downloadable
// document. No computation happens here: stored totals are echoed verbatim,
// rounded to two decimals for display only.
type ExportService struct {
	ledger   LedgerStoreDB
	sessions SessionValidator
}

func NewExportService(ledger LedgerStoreDB, sessions SessionValidator) *ExportService {
	return &ExportService{ledger: ledger, sessions: sessions}
}

// ExportCalculations returns the rendered bytes and their content type.
func (s *ExportService) ExportCalculations(sessionID, format string) ([]byte, string, error) {
	if sessionID == "" {
		return nil, "", apperrors.NewInvalidRequestError("session_id is required")
	}
	if format != FormatCSV && format != FormatPDF {
		return nil, "", apperrors.NewInvalidRequestError(fmt.Sprintf("unsupported format %q, use csv or pdf", format))
	}
	valid, err := s.sessions.ValidateSession(sessionID)
	if err != nil {
		return nil, "", err
	}
	if !valid {
		return nil, "", apperrors.NewSessionExpiredError()
	}

	calcs, err := s.ledger.AllCalculationsDB(sessionID)
	if err != nil {
		return nil, "", apperrors.NewStorageFailureError(err)
	}

	switch format {
	case FormatCSV:
		data, err := renderCSV(calcs)
		return data, "text/csv", err
	default:
		data, err := renderPDF(calcs)
		return data, "application/pdf", err
	}
}

var exportHeader = []string{
	"Material", "Product", "Spool Price (PHP)", "Weight (g)",
	"Print Time (h)", "Electricity (PHP/h)", "Markup (%)",
	"Total Cost (PHP)", "Created At",
}

func exportRow(c models.Calculation) []string {
	return []string{
		c.Material,
		c.Product,
		fmt.Sprintf("%.2f", c.PricePerSpool),
		fmt.Sprintf("%.2f", c.WeightGrams),
		fmt.Sprintf("%.2f", c.PrintHours+c.PrintMinutes/60),
		fmt.Sprintf("%.2f", c.ElectricityCost),
		fmt.Sprintf("%.2f", c.MarkupPercent),
		fmt.Sprintf("%.2f", c.TotalCost),
		c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func renderCSV(calcs []models.Calculation) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, apperrors.NewStorageFailureError(err)
	}
	for _, c := range calcs {
		if err := w.Write(exportRow(c)); err != nil {
			return nil, apperrors.NewStorageFailureError(err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperrors.NewStorageFailureError(err)
	}
	return buf.Bytes(), nil
}

func renderPDF(calcs []models.Calculation) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "3D Printing Cost History")
	pdf.Ln(12)

	colWidths := []float64{35, 35, 32, 25, 26, 32, 24, 32, 38}

	pdf.SetFont("Arial", "B", 9)
	for i, h := range exportHeader {
		pdf.CellFormat(colWidths[i], 8, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, c := range calcs {
		for i, cell := range exportRow(c) {
			align := "R"
			if i < 2 {
				align = "L"
			}
			pdf.CellFormat(colWidths[i], 7, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, apperrors.NewStorageFailureError(err)
	}
	return buf.Bytes(), nil
}
