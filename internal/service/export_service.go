package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-dash-api/internal/dto"
	"github.com/noah-isme/sma-dash-api/internal/models"
	appErrors "github.com/noah-isme/sma-dash-api/pkg/errors"
	"github.com/noah-isme/sma-dash-api/pkg/export"
)

// ReportType selects the dataset to export.
type ReportType string

const (
	ReportGrades     ReportType = "grades"
	ReportAttendance ReportType = "attendance"
	ReportRecap      ReportType = "recap"
)

// ReportFormat selects the rendering.
type ReportFormat string

const (
	FormatXLSX ReportFormat = "xlsx"
	FormatCSV  ReportFormat = "csv"
	FormatPDF  ReportFormat = "pdf"
)

type exportAPI interface {
	Classes(ctx context.Context) ([]models.Class, error)
	Students(ctx context.Context, classID string) ([]models.Student, error)
	AllAttendance(ctx context.Context) ([]models.AttendanceRecord, error)
}

type gradeReportSource interface {
	ListByAssignment(ctx context.Context, assignmentID string) (*dto.GradeListResponse, error)
}

type xlsxRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportRequest selects report content, format and filters.
type ExportRequest struct {
	Type         ReportType
	Format       ReportFormat
	AssignmentID string
	ClassID      string
}

// ExportArtifact is a rendered report ready for download. ID identifies the
// export in logs and the download response.
type ExportArtifact struct {
	ID          string
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService flattens derived views into datasets and renders them. Given
// identical input data, two exports produce byte-identical row content; only
// the filename embeds the export date.
type ExportService struct {
	api    exportAPI
	grades gradeReportSource
	xlsx   xlsxRenderer
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(api exportAPI, grades gradeReportSource, logger *zap.Logger, xlsx xlsxRenderer, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if xlsx == nil {
		xlsx = export.NewXLSXExporter()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{api: api, grades: grades, xlsx: xlsx, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// Generate builds and renders the requested report.
func (s *ExportService) Generate(ctx context.Context, req ExportRequest) (*ExportArtifact, error) {
	var (
		dataset export.Dataset
		title   string
		filters []string
		err     error
	)
	switch req.Type {
	case ReportGrades:
		if req.AssignmentID == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "assignmentId is required for a grade report")
		}
		dataset, title, err = s.buildGradeDataset(ctx, req.AssignmentID)
		filters = append(filters, req.AssignmentID)
	case ReportAttendance:
		dataset, title, err = s.buildAttendanceDataset(ctx, req.ClassID)
		if req.ClassID != "" {
			filters = append(filters, req.ClassID)
		}
	case ReportRecap:
		dataset, title, err = s.buildRecapDataset(ctx)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported report type %q", req.Type))
	}
	if err != nil {
		return nil, err
	}

	var payload []byte
	var contentType string
	switch req.Format {
	case FormatXLSX, "":
		payload, err = s.xlsx.Render(dataset)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		req.Format = FormatXLSX
	case FormatCSV:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
	case FormatPDF:
		payload, err = s.pdf.Render(dataset, title)
		contentType = "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("unsupported export format %q", req.Format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render report")
	}

	artifact := &ExportArtifact{
		ID:          uuid.NewString(),
		Filename:    s.buildFilename(req.Type, filters, req.Format),
		ContentType: contentType,
		Payload:     payload,
	}
	s.logger.Info("report exported",
		zap.String("export_id", artifact.ID),
		zap.String("type", string(req.Type)),
		zap.String("format", string(req.Format)),
		zap.Int("bytes", len(artifact.Payload)))
	return artifact, nil
}

var gradeHeaders = []string{"No", "Nama Siswa", "Username", "Kelas", "Nilai", "Persentase", "Feedback", "Tanggal Dinilai"}

func (s *ExportService) buildGradeDataset(ctx context.Context, assignmentID string) (export.Dataset, string, error) {
	list, err := s.grades.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return export.Dataset{}, "", err
	}
	className := s.classLabel(ctx, list.Assignment.ClassID)

	rows := make([]map[string]string, 0, len(list.Grades))
	for i, row := range list.Grades {
		rows = append(rows, map[string]string{
			"No":              fmt.Sprintf("%d", i+1),
			"Nama Siswa":      row.StudentName,
			"Username":        row.StudentUsername,
			"Kelas":           className,
			"Nilai":           formatPoints(row.Points),
			"Persentase":      formatPercent(row.Percentage),
			"Feedback":        row.Feedback,
			"Tanggal Dinilai": formatExportTime(row.GradedAt),
		})
	}

	summary := &export.Section{
		Title:   "Ringkasan",
		Headers: []string{"Metrik", "Nilai"},
		Rows: []map[string]string{
			{"Metrik": "Jumlah Data", "Nilai": fmt.Sprintf("%d", list.Summary.Count)},
			{"Metrik": "Rata-rata", "Nilai": formatPoints(list.Summary.Average)},
			{"Metrik": "Minimum", "Nilai": formatPoints(list.Summary.Min)},
			{"Metrik": "Maksimum", "Nilai": formatPoints(list.Summary.Max)},
			{"Metrik": "Lulus", "Nilai": fmt.Sprintf("%d", list.Summary.Passing)},
		},
	}

	dataset := export.Dataset{Headers: gradeHeaders, Rows: rows, Summary: summary}
	title := fmt.Sprintf("Laporan Nilai %s", list.Assignment.Title)
	return dataset, title, nil
}

var attendanceHeaders = []string{"No", "Tanggal", "Nama Siswa", "Username", "Kelas", "Status", "Catatan"}

func (s *ExportService) buildAttendanceDataset(ctx context.Context, classID string) (export.Dataset, string, error) {
	records, err := s.api.AllAttendance(ctx)
	if err != nil {
		return export.Dataset{}, "", err
	}
	if classID != "" {
		filtered := records[:0]
		for _, rec := range records {
			if rec.ClassID == classID {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	classNames := s.classLabels(ctx)
	studentNames := s.studentLabels(ctx)

	rows := make([]map[string]string, 0, len(records))
	for i, rec := range records {
		rows = append(rows, map[string]string{
			"No":         fmt.Sprintf("%d", i+1),
			"Tanggal":    rec.Date,
			"Nama Siswa": lookupLabel(studentNames, rec.StudentUsername, studentNotFoundLabel),
			"Username":   rec.StudentUsername,
			"Kelas":      lookupLabel(classNames, rec.ClassID, classNotFoundLabel),
			"Status":     attendanceLabel(rec.Status),
			"Catatan":    rec.Notes,
		})
	}

	stats := GlobalStats(records)
	summary := &export.Section{
		Title:   "Ringkasan",
		Headers: []string{"Metrik", "Nilai"},
		Rows: []map[string]string{
			{"Metrik": "Jumlah Catatan", "Nilai": fmt.Sprintf("%d", stats.TotalRecords)},
			{"Metrik": "Hadir", "Nilai": fmt.Sprintf("%d", stats.TotalPresent)},
			{"Metrik": "Sakit", "Nilai": fmt.Sprintf("%d", stats.TotalSick)},
			{"Metrik": "Izin", "Nilai": fmt.Sprintf("%d", stats.TotalPermission)},
			{"Metrik": "Alpa", "Nilai": fmt.Sprintf("%d", stats.TotalAbsent)},
			{"Metrik": "Rentang Tanggal", "Nilai": stats.DateRange},
		},
	}

	dataset := export.Dataset{Headers: attendanceHeaders, Rows: rows, Summary: summary}
	return dataset, "Laporan Kehadiran", nil
}

var recapHeaders = []string{"No", "Kelas", "Jumlah Siswa", "Jumlah Catatan", "Hadir", "Sakit", "Izin", "Alpa", "Persentase Kehadiran", "Rentang Tanggal"}

func (s *ExportService) buildRecapDataset(ctx context.Context) (export.Dataset, string, error) {
	classes, err := s.api.Classes(ctx)
	if err != nil {
		return export.Dataset{}, "", err
	}
	students, err := s.api.Students(ctx, "")
	if err != nil {
		return export.Dataset{}, "", err
	}
	records, err := s.api.AllAttendance(ctx)
	if err != nil {
		return export.Dataset{}, "", err
	}

	recaps := ClassRecaps(classes, students, records)
	rows := make([]map[string]string, 0, len(recaps))
	totalRecords := 0
	for i, recap := range recaps {
		totalRecords += recap.TotalRecords
		rows = append(rows, map[string]string{
			"No":                   fmt.Sprintf("%d", i+1),
			"Kelas":                recap.ClassName,
			"Jumlah Siswa":         fmt.Sprintf("%d", recap.TotalStudents),
			"Jumlah Catatan":       fmt.Sprintf("%d", recap.TotalRecords),
			"Hadir":                fmt.Sprintf("%d", recap.PresentCount),
			"Sakit":                fmt.Sprintf("%d", recap.SickCount),
			"Izin":                 fmt.Sprintf("%d", recap.PermissionCount),
			"Alpa":                 fmt.Sprintf("%d", recap.AbsentCount),
			"Persentase Kehadiran": formatPercent(recap.AttendanceRate),
			"Rentang Tanggal":      recap.DateRange,
		})
	}

	summary := &export.Section{
		Title:   "Ringkasan",
		Headers: []string{"Metrik", "Nilai"},
		Rows: []map[string]string{
			{"Metrik": "Jumlah Kelas", "Nilai": fmt.Sprintf("%d", len(recaps))},
			{"Metrik": "Jumlah Catatan", "Nilai": fmt.Sprintf("%d", totalRecords)},
		},
	}

	dataset := export.Dataset{Headers: recapHeaders, Rows: rows, Summary: summary}
	return dataset, "Rekap Kehadiran", nil
}

func (s *ExportService) buildFilename(reportType ReportType, filters []string, format ReportFormat) string {
	parts := []string{"laporan", string(reportType)}
	for _, filter := range filters {
		parts = append(parts, sanitizeFilename(filter))
	}
	parts = append(parts, s.now().UTC().Format("2006-01-02"))
	return strings.Join(parts, "_") + "." + string(format)
}

func (s *ExportService) classLabel(ctx context.Context, classID string) string {
	return lookupLabel(s.classLabels(ctx), classID, classNotFoundLabel)
}

func (s *ExportService) classLabels(ctx context.Context) map[string]string {
	classes, err := s.api.Classes(ctx)
	if err != nil {
		s.logger.Warn("class lookup failed, using fallback labels", zap.Error(err))
		return nil
	}
	labels := make(map[string]string, len(classes))
	for _, class := range classes {
		labels[class.ID] = class.Name
	}
	return labels
}

func (s *ExportService) studentLabels(ctx context.Context) map[string]string {
	students, err := s.api.Students(ctx, "")
	if err != nil {
		s.logger.Warn("student lookup failed, using fallback labels", zap.Error(err))
		return nil
	}
	labels := make(map[string]string, len(students))
	for _, student := range students {
		labels[student.Username] = student.FullName
	}
	return labels
}

func lookupLabel(labels map[string]string, key, fallback string) string {
	if label, ok := labels[key]; ok {
		return label
	}
	return fallback
}

func attendanceLabel(status models.AttendanceStatus) string {
	switch status {
	case models.AttendancePresent:
		return "Hadir"
	case models.AttendanceSick:
		return "Sakit"
	case models.AttendancePermission:
		return "Izin"
	case models.AttendanceAbsent:
		return "Alpa"
	default:
		return string(status)
	}
}

func formatPercent(value float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(value)))
}

func formatPoints(value float64) string {
	if value == math.Trunc(value) {
		return fmt.Sprintf("%d", int(value))
	}
	return fmt.Sprintf("%.1f", value)
}

func formatExportTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04")
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
