package user

import (
	"sort"
	"strings"
	"time"

	"github.com/Decaded/MSGA-server/internal/models"
	"github.com/Decaded/MSGA-server/internal/pkg/apperr"
	"github.com/Decaded/MSGA-server/internal/store"
)

type Service struct{ store store.Backend }

func NewService(st store.Backend) *Service { return &Service{store: st} }

// List returns all users ordered by id, without password hashes.
func (s *Service) List() ([]models.PublicUser, error) {
	var users map[string]models.User
	if err := s.store.Get(store.Users, &users); err != nil {
		return nil, err
	}
	out := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Get returns a single user by id.
func (s *Service) Get(id int) (*models.User, error) {
	var users map[string]models.User
	if err := s.store.Get(store.Users, &users); err != nil {
		return nil, err
	}
	u, ok := users[store.Key(id)]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "user not found")
	}
	return &u, nil
}

// Approve marks a user account as reviewed so it can log in.
func (s *Service) Approve(id int) (*models.User, error) {
	var users map[string]models.User
	if err := s.store.Get(store.Users, &users); err != nil {
		return nil, err
	}
	u, ok := users[store.Key(id)]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "user not found")
	}
	u.Approved = true
	users[store.Key(id)] = u
	if err := s.store.Set(store.Users, users); err != nil {
		return nil, err
	}
	return &u, nil
}

// Delete removes a non-admin user. Admin accounts can never be deleted, their
// own included; deleting a user resolves at most one pending deletion request.
func (s *Service) Delete(targetID, callerID int) error {
	if targetID == callerID {
		return apperr.New(apperr.KindValidation, "cannot delete your own account")
	}

	var users map[string]models.User
	if err := s.store.Get(store.Users, &users); err != nil {
		return err
	}
	target, ok := users[store.Key(targetID)]
	if !ok {
		return apperr.New(apperr.KindNotFound, "user not found")
	}
	if target.Role == models.RoleAdmin {
		return apperr.New(apperr.KindForbidden, "admin accounts cannot be deleted")
	}

	delete(users, store.Key(targetID))
	if err := s.store.Set(store.Users, users); err != nil {
		return err
	}
	return s.resolveDeletionRequest(targetID)
}

func (s *Service) resolveDeletionRequest(userID int) error {
	var requests map[string]models.DeletionRequest
	if err := s.store.Get(store.DeletionRequests, &requests); err != nil {
		return err
	}

	// At most one request is resolved; pick the oldest pending one.
	matchKey := ""
	matchID := 0
	for key, r := range requests {
		if r.UserID != userID || r.Status != models.DeletionPending {
			continue
		}
		if matchKey == "" || r.ID < matchID {
			matchKey, matchID = key, r.ID
		}
	}
	if matchKey == "" {
		return nil
	}

	r := requests[matchKey]
	r.Status = models.DeletionResolved
	requests[matchKey] = r
	return s.store.Set(store.DeletionRequests, requests)
}

// RequestDeletion files a pending self-deletion request for the caller.
func (s *Service) RequestDeletion(userID int, username, reason string) (*models.DeletionRequest, error) {
	var requests map[string]models.DeletionRequest
	if err := s.store.Get(store.DeletionRequests, &requests); err != nil {
		return nil, err
	}
	for _, r := range requests {
		if r.UserID == userID && r.Status == models.DeletionPending {
			return nil, apperr.New(apperr.KindConflict, "a deletion request is already pending")
		}
	}

	r := models.DeletionRequest{
		ID:          store.NextID(requests),
		UserID:      userID,
		Username:    username,
		RequestDate: time.Now(),
		Reason:      strings.TrimSpace(reason),
		Status:      models.DeletionPending,
	}
	requests[store.Key(r.ID)] = r
	if err := s.store.Set(store.DeletionRequests, requests); err != nil {
		return nil, err
	}
	return &r, nil
}

// ListDeletionRequests returns all requests ordered by id.
func (s *Service) ListDeletionRequests() ([]models.DeletionRequest, error) {
	var requests map[string]models.DeletionRequest
	if err := s.store.Get(store.DeletionRequests, &requests); err != nil {
		return nil, err
	}
	out := make([]models.DeletionRequest, 0, len(requests))
	for _, r := range requests {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
