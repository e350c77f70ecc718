package report

import (
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/Decaded/MSGA-server/internal/models"
	"github.com/Decaded/MSGA-server/internal/pkg/apperr"
	"github.com/Decaded/MSGA-server/internal/store"
	"go.uber.org/zap"
)

type Service struct {
	store    store.Backend
	kind     Kind
	notifier Notifier
	log      *zap.Logger
}

func NewService(st store.Backend, kind Kind, notifier Notifier, log *zap.Logger) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Service{store: st, kind: kind, notifier: notifier, log: log}
}

// Kind returns the collection parameterization this service operates on.
func (s *Service) Kind() Kind { return s.kind }

// Create stores a new report in pending_review. The URL must match the
// collection's ScribbleHub pattern and be unused within the collection.
func (s *Service) Create(dto *CreateDTO, reporter string) (*models.Report, error) {
	url := strings.TrimSpace(dto.URL)
	if url == "" {
		return nil, apperr.New(apperr.KindValidation, "url is required")
	}
	if !s.kind.URLPattern.MatchString(url) {
		return nil, apperr.Newf(apperr.KindValidation, "url is not a valid ScribbleHub %s URL", s.kind.Singular)
	}

	var reports map[string]models.Report
	if err := s.store.Get(s.kind.Collection, &reports); err != nil {
		return nil, err
	}
	for _, r := range reports {
		if strings.TrimSpace(r.URL) == url {
			return nil, apperr.Newf(apperr.KindConflict, "this %s has already been reported", s.kind.Singular)
		}
	}

	if reporter == "" {
		reporter = models.AnonymousReporter
	}
	r := models.Report{
		ID:             store.NextID(reports),
		Title:          strings.TrimSpace(dto.Title),
		URL:            url,
		Status:         models.StatusPendingReview,
		Reporter:       reporter,
		Reason:         strings.TrimSpace(dto.Reason),
		Proofs:         dto.Proofs,
		AdditionalInfo: strings.TrimSpace(dto.AdditionalInfo),
		DateReported:   time.Now(),
		Approved:       false,
	}
	reports[store.Key(r.ID)] = r
	if err := s.store.Set(s.kind.Collection, reports); err != nil {
		return nil, err
	}

	s.notifier.Notify(s.kind.Singular+"_created", r, reporter)
	return &r, nil
}

// List returns all reports ordered by id. Records left with approved=false
// after their status moved past pending_review are coerced to approved=true
// on the way out and the healed snapshot is persisted. This papers over a
// consistency gap in the legacy data model rather than fixing its cause; the
// coercion is load-bearing for clients and must stay observable.
func (s *Service) List() ([]models.Report, error) {
	var reports map[string]models.Report
	if err := s.store.Get(s.kind.Collection, &reports); err != nil {
		return nil, err
	}

	healed := 0
	for key, r := range reports {
		if !r.Approved && r.Status != models.StatusPendingReview {
			r.Approved = true
			reports[key] = r
			healed++
		}
	}
	if healed > 0 {
		s.log.Warn("coerced approved flag on listed reports",
			zap.String("collection", s.kind.Collection),
			zap.Int("count", healed),
		)
		if err := s.store.Set(s.kind.Collection, reports); err != nil {
			return nil, err
		}
	}

	out := make([]models.Report, 0, len(reports))
	for _, r := range reports {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Get returns a single report by id.
func (s *Service) Get(id int) (*models.Report, error) {
	var reports map[string]models.Report
	if err := s.store.Get(s.kind.Collection, &reports); err != nil {
		return nil, err
	}
	r, ok := reports[store.Key(id)]
	if !ok {
		return nil, apperr.Newf(apperr.KindNotFound, "%s report not found", s.kind.Singular)
	}
	return &r, nil
}

// UpdateStatus moves a report to any status in the kind's enum. Every status
// touch forces approved=true ("approval follows review").
func (s *Service) UpdateStatus(id int, status models.ReportStatus, updatedBy string) (*models.Report, error) {
	if !s.kind.ValidStatus(status) {
		return nil, apperr.Newf(apperr.KindValidation, "invalid status %q", status)
	}

	var reports map[string]models.Report
	if err := s.store.Get(s.kind.Collection, &reports); err != nil {
		return nil, err
	}
	r, ok := reports[store.Key(id)]
	if !ok {
		return nil, apperr.Newf(apperr.KindNotFound, "%s report not found", s.kind.Singular)
	}

	r.Status = status
	r.Approved = true
	reports[store.Key(id)] = r
	if err := s.store.Set(s.kind.Collection, reports); err != nil {
		return nil, err
	}

	s.notifier.Notify(s.kind.Singular+"_updated", r, updatedBy)
	return &r, nil
}

// Approve marks a report reviewed and moves it to in_progress unconditionally.
func (s *Service) Approve(id int, updatedBy string) (*models.Report, error) {
	var reports map[string]models.Report
	if err := s.store.Get(s.kind.Collection, &reports); err != nil {
		return nil, err
	}
	r, ok := reports[store.Key(id)]
	if !ok {
		return nil, apperr.Newf(apperr.KindNotFound, "%s report not found", s.kind.Singular)
	}

	r.Approved = true
	r.Status = models.StatusInProgress
	reports[store.Key(id)] = r
	if err := s.store.Set(s.kind.Collection, reports); err != nil {
		return nil, err
	}

	s.notifier.Notify(s.kind.Singular+"_updated", r, updatedBy)
	return &r, nil
}

// UpdateFields shallow-merges the patch over the stored record, last write
// wins. Non-admins may not touch status or approved here.
func (s *Service) UpdateFields(id int, dto *UpdateDTO, isAdmin bool, updatedBy string) (*models.Report, error) {
	if !isAdmin && (dto.Status != nil || dto.Approved != nil) {
		return nil, apperr.New(apperr.KindForbidden, "status and approved can only be set through the review endpoints")
	}
	if dto.Status != nil && !s.kind.ValidStatus(*dto.Status) {
		return nil, apperr.Newf(apperr.KindValidation, "invalid status %q", *dto.Status)
	}
	var newURL string
	if dto.URL != nil {
		newURL = strings.TrimSpace(*dto.URL)
		if !s.kind.URLPattern.MatchString(newURL) {
			return nil, apperr.Newf(apperr.KindValidation, "url is not a valid ScribbleHub %s URL", s.kind.Singular)
		}
	}

	var reports map[string]models.Report
	if err := s.store.Get(s.kind.Collection, &reports); err != nil {
		return nil, err
	}
	r, ok := reports[store.Key(id)]
	if !ok {
		return nil, apperr.Newf(apperr.KindNotFound, "%s report not found", s.kind.Singular)
	}

	before := r
	if dto.Title != nil {
		r.Title = strings.TrimSpace(*dto.Title)
	}
	if dto.URL != nil {
		r.URL = newURL
	}
	if dto.Reason != nil {
		r.Reason = *dto.Reason
	}
	if dto.Proofs != nil {
		r.Proofs = *dto.Proofs
	}
	if dto.AdditionalInfo != nil {
		r.AdditionalInfo = *dto.AdditionalInfo
	}
	if dto.Status != nil {
		r.Status = *dto.Status
	}
	if dto.Approved != nil {
		r.Approved = *dto.Approved
	}

	if reflect.DeepEqual(before, r) {
		s.log.Info("report patch changed nothing",
			zap.String("collection", s.kind.Collection),
			zap.Int("id", id),
		)
	}

	reports[store.Key(id)] = r
	if err := s.store.Set(s.kind.Collection, reports); err != nil {
		return nil, err
	}

	s.notifier.Notify(s.kind.Singular+"_updated", r, updatedBy)
	return &r, nil
}

// Delete removes a report. Admin only (enforced at the route).
func (s *Service) Delete(id int, deletedBy string) error {
	var reports map[string]models.Report
	if err := s.store.Get(s.kind.Collection, &reports); err != nil {
		return err
	}
	r, ok := reports[store.Key(id)]
	if !ok {
		return apperr.Newf(apperr.KindNotFound, "%s report not found", s.kind.Singular)
	}

	delete(reports, store.Key(id))
	if err := s.store.Set(s.kind.Collection, reports); err != nil {
		return err
	}

	s.notifier.Notify(s.kind.Singular+"_deleted", r, deletedBy)
	return nil
}
