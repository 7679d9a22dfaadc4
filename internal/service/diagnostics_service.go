package service

import (
	"context"
	"time"

	"artlink/internal/cache"
	"artlink/internal/config"
	"artlink/internal/database"

	"gorm.io/gorm"
)

const (
	diagnosticsTimeout  = 3 * time.Second
	maxListedCollection = 10
	errorSnippetLength  = 50
)

// DiagnosticsReport is the body of GET /test.
type DiagnosticsReport struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
	Cache            string   `json:"cache"`
}

type DiagnosticsService struct {
	cfg *config.Config
	db  *gorm.DB
}

func NewDiagnosticsService(cfg *config.Config, db *gorm.DB) *DiagnosticsService {
	return &DiagnosticsService{cfg: cfg, db: db}
}

// Report never fails. Storage problems are described in the report itself.
func (s *DiagnosticsService) Report(ctx context.Context) DiagnosticsReport {
	ctx, cancel := context.WithTimeout(ctx, diagnosticsTimeout)
	defer cancel()

	report := DiagnosticsReport{
		Backend:          "✅ Running",
		Database:         "❌ Not Available",
		DatabaseURL:      setOrNot(s.cfg != nil && s.cfg.DatabaseURL != ""),
		DatabaseName:     setOrNot(s.cfg != nil && s.cfg.DatabaseName != ""),
		ConnectionStatus: "Not Connected",
		Collections:      []string{},
		Cache:            cache.Status(ctx),
	}
	if s.db == nil {
		return report
	}

	if err := database.Ping(ctx, s.db); err != nil {
		report.Database = "❌ Error: " + snippet(err)
		return report
	}
	report.ConnectionStatus = "Connected"

	names, err := database.ListCollections(ctx, s.db)
	if err != nil {
		report.Database = "⚠️  Connected but Error: " + snippet(err)
		return report
	}
	if len(names) > maxListedCollection {
		names = names[:maxListedCollection]
	}
	report.Database = "✅ Connected & Working"
	report.Collections = names
	return report
}

func setOrNot(ok bool) string {
	if ok {
		return "✅ Set"
	}
	return "❌ Not Set"
}

func snippet(err error) string {
	r := []rune(err.Error())
	if len(r) > errorSnippetLength {
		r = r[:errorSnippetLength]
	}
	return string(r)
}
