// Package store persists parsed reports per user.
package store

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-report/internal/types"
)

// SavedReport is a report together with the identity attached when it was persisted.
type SavedReport struct {
	ID            string           `json:"id"`
	UserID        string           `json:"user_id"`
	Name          string           `json:"name"`
	Kind          types.ReportType `json:"type"`
	SchemaVersion string           `json:"schema_version"`
	SavedAt       time.Time        `json:"saved_at"`
	Report        types.Report     `json:"report"`
}

// ReportStore keeps the reports of every user and remembers which one each user is viewing.
// Every method is scoped to a user; a report saved by one user is not visible to another.
type ReportStore interface {
	// Save persists report for userID, attaches its id and owner, and makes it the active report.
	Save(ctx context.Context, userID string, report types.Report) (SavedReport, error)
	// List returns the reports of userID in the order they were saved.
	List(ctx context.Context, userID string) ([]SavedReport, error)
	// Get returns one report of userID.
	Get(ctx context.Context, userID, id string) (SavedReport, error)
	// Delete removes a report. Deleting the active report clears the active selection.
	Delete(ctx context.Context, userID, id string) error
	// SetActive selects the report userID is viewing.
	SetActive(ctx context.Context, userID, id string) error
	// GetActive returns the report userID is viewing.
	GetActive(ctx context.Context, userID string) (SavedReport, error)
	// Close releases the underlying database.
	Close() error
}
