package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"stageflow/internal/dto"
)

// ── export module errors ──

var (
	ErrExportRender = errors.New("failed to generate export document")
	ErrExportUpload = errors.New("failed to host export document")
)

const reportTitle = "StageFlow - Field Training Report"

// pdfHeaders are the six display columns of the PDF report.
var pdfHeaders = []string{"Name", "Specialty", "Institution", "Supervisor", "Status", "Hours"}

// csvHeaders are the fourteen columns of the CSV/XLSX reports.
var csvHeaders = []string{
	"Name", "Email", "Phone", "Specialty", "Group", "Institution", "Supervisor",
	"Start Date", "End Date", "Total Hours", "Completed Hours", "Status", "City", "Notes",
}

// ExportService renders a caller-supplied row list into shareable
// documents. Every export is a pure function of its input: the store is
// never consulted, so a stale list exports exactly as submitted, in the
// submitted order.
type ExportService interface {
	// ExportPDF renders the list, hosts the document, and returns a
	// view-only link.
	ExportPDF(ctx context.Context, students []dto.ExportStudent) (string, error)
	// ExportCSV returns the report bytes (UTF-8 with BOM) and a filename;
	// nothing is persisted server-side.
	ExportCSV(students []dto.ExportStudent) (*bytes.Buffer, string, error)
	// ExportXLSX returns a styled workbook with the same columns as the CSV.
	ExportXLSX(students []dto.ExportStudent) (*bytes.Buffer, string, error)
	// ExportICS returns a calendar with one all-day event per placement.
	ExportICS(students []dto.ExportStudent) (*bytes.Buffer, string, error)
}

type exportService struct {
	host   FileHost
	logger *zap.Logger
}

// NewExportService creates an ExportService.
func NewExportService(host FileHost, logger *zap.Logger) ExportService {
	return &exportService{host: host, logger: logger}
}

func (s *exportService) ExportPDF(ctx context.Context, students []dto.ExportStudent) (string, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, reportTitle, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	widths := []float64{55, 45, 55, 50, 30, 30}

	// header row
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(34, 197, 94)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range pdfHeaders {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	// one row per input record, input order preserved
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for _, st := range students {
		cells := []string{
			st.Name,
			st.Specialty,
			st.Institution,
			st.Supervisor,
			statusLabel(st.Status),
			fmt.Sprintf("%d/%d", st.CompletedHours, st.TotalHours),
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 7, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		s.logger.Error("pdf rendering failed", zap.Error(err))
		return "", ErrExportRender
	}

	url, err := s.host.Upload(ctx, "stageflow-students-report.pdf", "application/pdf", buf.Bytes())
	if err != nil {
		s.logger.Error("pdf hosting failed", zap.Error(err))
		return "", ErrExportUpload
	}
	return url, nil
}

func (s *exportService) ExportCSV(students []dto.ExportStudent) (*bytes.Buffer, string, error) {
	buf := new(bytes.Buffer)
	// byte-order mark for spreadsheet-tool compatibility
	buf.WriteString("\uFEFF")

	w := csv.NewWriter(buf)
	if err := w.Write(csvHeaders); err != nil {
		return nil, "", ErrExportRender
	}
	for _, st := range students {
		row := []string{
			st.Name,
			st.Email,
			st.Phone,
			st.Specialty,
			st.Group,
			st.Institution,
			st.Supervisor,
			st.StartDate,
			st.EndDate,
			strconv.Itoa(st.TotalHours),
			strconv.Itoa(st.CompletedHours),
			statusLabel(st.Status),
			st.City,
			st.Notes,
		}
		if err := w.Write(row); err != nil {
			return nil, "", ErrExportRender
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		s.logger.Error("csv rendering failed", zap.Error(err))
		return nil, "", ErrExportRender
	}

	return buf, "stageflow-students-report.csv", nil
}

func (s *exportService) ExportXLSX(students []dto.ExportStudent) (*bytes.Buffer, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Students"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", ErrExportRender
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#22C55E"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, h := range csvHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, 18)
	}

	for r, st := range students {
		values := []interface{}{
			st.Name, st.Email, st.Phone, st.Specialty, st.Group, st.Institution,
			st.Supervisor, st.StartDate, st.EndDate, st.TotalHours,
			st.CompletedHours, statusLabel(st.Status), st.City, st.Notes,
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("xlsx rendering failed", zap.Error(err))
		return nil, "", ErrExportRender
	}
	return buf, "stageflow-students-report.xlsx", nil
}

func (s *exportService) ExportICS(students []dto.ExportStudent) (*bytes.Buffer, string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//StageFlow//Field Training//EN")

	now := time.Now()
	for i, st := range students {
		event := cal.AddEvent(fmt.Sprintf("placement-%d@stageflow", i+1))
		event.SetDtStampTime(now)
		event.SetSummary(fmt.Sprintf("%s - %s", st.Name, st.Institution))
		event.SetLocation(st.City)
		event.SetDescription(fmt.Sprintf("Supervisor: %s, hours: %d/%d",
			st.Supervisor, st.CompletedHours, st.TotalHours))

		start, err := time.Parse("2006-01-02", st.StartDate)
		if err != nil {
			continue // rows without a parseable start date carry no event time
		}
		event.SetAllDayStartAt(start)
		if end, err := time.Parse("2006-01-02", st.EndDate); err == nil && !end.Before(start) {
			event.SetAllDayEndAt(end.AddDate(0, 0, 1))
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	return buf, "stageflow-placements.ics", nil
}

// statusLabel maps a stored status to its display label.
func statusLabel(status string) string {
	switch status {
	case dto.StatusActive:
		return "Active"
	case dto.StatusCompleted:
		return "Completed"
	case dto.StatusPending:
		return "Pending"
	case dto.StatusCancelled:
		return "Cancelled"
	default:
		return status
	}
}
