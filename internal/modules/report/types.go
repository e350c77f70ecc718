package report

import (
	"regexp"

	"github.com/Decaded/MSGA-server/internal/models"
	"github.com/Decaded/MSGA-server/internal/store"
)

// Kind parameterizes the lifecycle for one report collection. Works and
// profiles share all behavior except URL shape and the status enum.
type Kind struct {
	Collection string
	Singular   string
	URLPattern *regexp.Regexp
	Statuses   []models.ReportStatus
}

var (
	Works = Kind{
		Collection: store.Works,
		Singular:   "work",
		URLPattern: models.WorkURLPattern,
		Statuses: []models.ReportStatus{
			models.StatusPendingReview,
			models.StatusInProgress,
			models.StatusConfirmed,
			models.StatusTakenDown,
			models.StatusOriginal,
		},
	}

	Profiles = Kind{
		Collection: store.Profiles,
		Singular:   "profile",
		URLPattern: models.ProfileURLPattern,
		Statuses: []models.ReportStatus{
			models.StatusPendingReview,
			models.StatusInProgress,
			models.StatusConfirmedViolator,
			models.StatusFalsePositive,
		},
	}
)

// ValidStatus reports whether s belongs to this kind's enum.
func (k Kind) ValidStatus(s models.ReportStatus) bool {
	for _, valid := range k.Statuses {
		if s == valid {
			return true
		}
	}
	return false
}

// Notifier receives resource-change events for webhook fan-out. Deliveries
// are fire-and-forget and must never fail the triggering request.
type Notifier interface {
	Notify(event string, report models.Report, updatedBy string)
}

// NopNotifier discards events.
type NopNotifier struct{}

func (NopNotifier) Notify(string, models.Report, string) {}

// CreateDTO is the request body for submitting a report.
type CreateDTO struct {
	URL            string   `json:"url"`
	Title          string   `json:"title"`
	Reason         string   `json:"reason"`
	Proofs         []string `json:"proofs"`
	AdditionalInfo string   `json:"additionalInfo"`
}

// UpdateDTO is the request body for the generic field patch. Status and
// Approved are only writable by admins; everyone else must use the dedicated
// status/approve endpoints.
type UpdateDTO struct {
	Title          *string              `json:"title"`
	URL            *string              `json:"url"`
	Reason         *string              `json:"reason"`
	Proofs         *[]string            `json:"proofs"`
	AdditionalInfo *string              `json:"additionalInfo"`
	Status         *models.ReportStatus `json:"status"`
	Approved       *bool                `json:"approved"`
}

// UpdateStatusDTO is the request body for the dedicated status transition.
type UpdateStatusDTO struct {
	Status models.ReportStatus `json:"status"`
}
