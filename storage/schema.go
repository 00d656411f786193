package storage

import (
	"strings"
	"time"
)

// Project represents a site whose Lighthouse reports are collected
type Project struct {
	ID          string `gorm:"primaryKey"` // UUID
	Name        string `gorm:"not null;uniqueIndex:idx_project_name"`
	ExternalURL string `gorm:"default:''"`
	Slug        string `gorm:"not null;default:''"`
	AdminToken  string `gorm:"not null;index:idx_admin_token"` // UUID handed out by the wizard
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Report represents a single uploaded Lighthouse report for a project
type Report struct {
	ID             uint   `gorm:"primaryKey;autoIncrement"`
	ProjectID      string `gorm:"not null;index:idx_report_project"`
	URL            string `gorm:"not null;default:''"`
	PerformanceRaw float64
	Payload        string `gorm:"default:''"` // Raw report JSON
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// slugify converts a project name into a URL-safe slug
func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
