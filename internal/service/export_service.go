package service

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/models"
	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/export"
	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/storage"
)

type auditReportSource interface {
	GenerateAuditReport(ctx context.Context, from, to time.Time) (*models.AuditReport, error)
	Reconcile(ctx context.Context) (*models.ReconciliationResult, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	ExpiresAt    time.Time
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportService renders audit reports to files and persists them behind
// signed download tokens.
type ExportService struct {
	reports auditReportSource
	storage fileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	signer  *storage.SignedURLSigner
	logger  *zap.Logger
	cfg     ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(reports auditReportSource, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		reports: reports,
		storage: store,
		csv:     csv,
		pdf:     pdf,
		signer:  signer,
		logger:  logger,
		cfg:     cfg,
	}
}

// Generate builds the audit-report dataset for the job window and stores
// the rendered export.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	dataset, title, err := s.buildDataset(ctx, job.Params)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Params.Format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	filename := s.buildFilename(job)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	signedURL := strings.TrimRight(s.cfg.APIPrefix, "/")
	if signedURL == "" {
		signedURL = "/api/v1"
	}
	signedURL = fmt.Sprintf("%s/export/%s", signedURL, token)

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ReportJob) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	window := fmt.Sprintf("%s_%s", job.Params.From.Format("20060102"), job.Params.To.Format("20060102"))
	return fmt.Sprintf("audit_report_%s_%s.%s", window, timestamp, job.Params.Format)
}

// buildDataset renders the aggregated window report plus a live
// reconciliation summary so exported evidence includes integrity status.
func (s *ExportService) buildDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, string, error) {
	report, err := s.reports.GenerateAuditReport(ctx, params.From, params.To)
	if err != nil {
		return export.Dataset{}, "", err
	}
	recon, err := s.reports.Reconcile(ctx)
	if err != nil {
		return export.Dataset{}, "", err
	}

	rows := []map[string]string{
		{"Metric": "Total Inspections", "Value": fmt.Sprintf("%d", report.TotalInspections), "Notes": ""},
		{"Metric": "Compliance Rate", "Value": fmt.Sprintf("%.4f", report.ComplianceRate), "Notes": "priority-weighted mean"},
		{"Metric": "Critical Issues", "Value": fmt.Sprintf("%d", report.CriticalIssues), "Notes": "records with unmet CRITICAL items"},
		{"Metric": "Missing Files", "Value": fmt.Sprintf("%d", len(recon.MissingFiles)), "Notes": strings.Join(recon.MissingFiles, "; ")},
		{"Metric": "Orphaned Records", "Value": fmt.Sprintf("%d", len(recon.OrphanedRecords)), "Notes": strings.Join(recon.OrphanedRecords, "; ")},
		{"Metric": "Inconsistent Hashes", "Value": fmt.Sprintf("%d", len(recon.InconsistentHashes)), "Notes": mismatchIDs(recon.InconsistentHashes)},
		{"Metric": "Unregistered Files", "Value": fmt.Sprintf("%d", len(recon.NewFiles)), "Notes": strings.Join(recon.NewFiles, "; ")},
	}
	categories := make([]string, 0, len(report.ByCategory))
	for category := range report.ByCategory {
		categories = append(categories, string(category))
	}
	sort.Strings(categories)
	for _, category := range categories {
		rows = append(rows, map[string]string{
			"Metric": fmt.Sprintf("Category %s", category),
			"Value":  fmt.Sprintf("%d", report.ByCategory[models.TemplateCategory(category)]),
			"Notes":  "",
		})
	}
	inspectors := make([]string, 0, len(report.InspectorActivity))
	for inspector := range report.InspectorActivity {
		inspectors = append(inspectors, inspector)
	}
	sort.Strings(inspectors)
	for _, inspector := range inspectors {
		rows = append(rows, map[string]string{
			"Metric": fmt.Sprintf("Inspector %s", inspector),
			"Value":  fmt.Sprintf("%d", report.InspectorActivity[inspector]),
			"Notes":  "completed inspections",
		})
	}

	dataset := export.Dataset{
		Headers: []string{"Metric", "Value", "Notes"},
		Rows:    rows,
	}
	title := fmt.Sprintf("Audit Report %s to %s", params.From.Format("2006-01-02"), params.To.Format("2006-01-02"))
	return dataset, title, nil
}

func mismatchIDs(mismatches []models.HashMismatch) string {
	ids := make([]string, 0, len(mismatches))
	for _, m := range mismatches {
		ids = append(ids, m.FileID)
	}
	return strings.Join(ids, "; ")
}
