package models

import (
	"regexp"
	"time"
)

// ReportStatus is the review state of a submitted report.
type ReportStatus string

const (
	StatusPendingReview ReportStatus = "pending_review"
	StatusInProgress    ReportStatus = "in_progress"

	// Work outcomes.
	StatusConfirmed ReportStatus = "confirmed"
	StatusTakenDown ReportStatus = "taken_down"
	StatusOriginal  ReportStatus = "original"

	// Profile outcomes.
	StatusConfirmedViolator ReportStatus = "confirmed_violator"
	StatusFalsePositive     ReportStatus = "false_positive"
)

// AnonymousReporter is recorded when a report is submitted without a token.
const AnonymousReporter = "Anonymous"

// Report is a moderation report against a work or a violator profile.
// Every status touch forces Approved to true ("approval follows review").
type Report struct {
	ID             int          `json:"id"`
	Title          string       `json:"title"`
	URL            string       `json:"url"`
	Status         ReportStatus `json:"status"`
	Reporter       string       `json:"reporter"`
	Reason         string       `json:"reason"`
	Proofs         []string     `json:"proofs"`
	AdditionalInfo string       `json:"additionalInfo"`
	DateReported   time.Time    `json:"dateReported"`
	Approved       bool         `json:"approved"`
}

// ScribbleHub URL shapes accepted for submissions and registrations.
var (
	WorkURLPattern    = regexp.MustCompile(`^https://www\.scribblehub\.com/series/\d+/[A-Za-z0-9._~-]+/?$`)
	ProfileURLPattern = regexp.MustCompile(`^https://www\.scribblehub\.com/profile/\d+/[A-Za-z0-9._~-]+/?$`)
)
