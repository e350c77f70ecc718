package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/Decaded/MSGA-server/internal/models"
	"github.com/Decaded/MSGA-server/internal/pkg/apperr"
	"github.com/Decaded/MSGA-server/internal/store"
	"go.uber.org/zap"
)

type Service struct {
	store  store.Backend
	client *http.Client
	log    *zap.Logger

	// deliver runs asynchronously in production; tests swap this to run
	// inline so they can observe the result.
	async bool
}

func NewService(st store.Backend, log *zap.Logger) *Service {
	return &Service{
		store:  st,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
		async:  true,
	}
}

// List returns all registered webhooks ordered by id.
func (s *Service) List() ([]models.Webhook, error) {
	var hooks map[string]models.Webhook
	if err := s.store.Get(store.Webhooks, &hooks); err != nil {
		return nil, err
	}
	out := make([]models.Webhook, 0, len(hooks))
	for _, h := range hooks {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Create registers a Discord webhook URL. URLs are unique per registry.
func (s *Service) Create(dto *CreateDTO, createdBy string) (*models.Webhook, error) {
	url := strings.TrimSpace(dto.URL)
	if url == "" {
		return nil, apperr.New(apperr.KindValidation, "url is required")
	}
	if !DiscordWebhookPattern.MatchString(url) {
		return nil, apperr.New(apperr.KindValidation, "url is not a valid Discord webhook URL")
	}

	var hooks map[string]models.Webhook
	if err := s.store.Get(store.Webhooks, &hooks); err != nil {
		return nil, err
	}
	for _, h := range hooks {
		if h.URL == url {
			return nil, apperr.New(apperr.KindConflict, "this webhook is already registered")
		}
	}

	h := models.Webhook{
		ID:        store.NextID(hooks),
		URL:       url,
		Name:      strings.TrimSpace(dto.Name),
		Created:   time.Now(),
		CreatedBy: createdBy,
	}
	hooks[store.Key(h.ID)] = h
	if err := s.store.Set(store.Webhooks, hooks); err != nil {
		return nil, err
	}
	return &h, nil
}

// Delete removes a webhook registration.
func (s *Service) Delete(id int) error {
	var hooks map[string]models.Webhook
	if err := s.store.Get(store.Webhooks, &hooks); err != nil {
		return err
	}
	if _, ok := hooks[store.Key(id)]; !ok {
		return apperr.New(apperr.KindNotFound, "webhook not found")
	}
	delete(hooks, store.Key(id))
	return s.store.Set(store.Webhooks, hooks)
}

// Notify fans the event out to every registered webhook. Delivery failures are
// logged and swallowed; the triggering request never sees them.
func (s *Service) Notify(event string, report models.Report, updatedBy string) {
	var hooks map[string]models.Webhook
	if err := s.store.Get(store.Webhooks, &hooks); err != nil {
		s.log.Error("failed to load webhooks for fan-out", zap.String("event", event), zap.Error(err))
		return
	}

	message := formatMessage(event, report, updatedBy)
	for _, h := range hooks {
		if s.async {
			go s.deliver(h, message)
		} else {
			s.deliver(h, message)
		}
	}
}

func (s *Service) deliver(hook models.Webhook, message string) {
	body, err := json.Marshal(discordPayload{Content: message})
	if err != nil {
		s.log.Error("failed to encode webhook payload", zap.Int("webhook", hook.ID), zap.Error(err))
		return
	}

	resp, err := s.client.Post(hook.URL, "application/json", bytes.NewReader(body))
	if err != nil {
		s.log.Warn("webhook delivery failed",
			zap.Int("webhook", hook.ID),
			zap.String("name", hook.Name),
			zap.Error(err),
		)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.log.Warn("webhook delivery rejected",
			zap.Int("webhook", hook.ID),
			zap.String("name", hook.Name),
			zap.Int("status", resp.StatusCode),
		)
		return
	}

	s.touch(hook.ID)
}

// touch records a successful delivery. Lost updates under concurrent
// deliveries are acceptable, lastUsed is advisory.
func (s *Service) touch(id int) {
	var hooks map[string]models.Webhook
	if err := s.store.Get(store.Webhooks, &hooks); err != nil {
		return
	}
	h, ok := hooks[store.Key(id)]
	if !ok {
		return
	}
	now := time.Now()
	h.LastUsed = &now
	hooks[store.Key(id)] = h
	if err := s.store.Set(store.Webhooks, hooks); err != nil {
		s.log.Warn("failed to record webhook delivery time", zap.Int("webhook", id), zap.Error(err))
	}
}

// formatMessage renders the Discord message. Work and profile reports carry
// different field sets: works name the stolen series by title, profiles are
// identified by their URL alone.
func formatMessage(event string, report models.Report, updatedBy string) string {
	isProfile := strings.HasPrefix(event, "profile")
	noun := "Work"
	if isProfile {
		noun = "Profile"
	}

	var b strings.Builder
	switch {
	case strings.HasSuffix(event, "_created"):
		fmt.Fprintf(&b, "**New %s report** (#%d)\n", strings.ToLower(noun), report.ID)
	case strings.HasSuffix(event, "_deleted"):
		fmt.Fprintf(&b, "**%s report deleted** (#%d)\n", noun, report.ID)
	default:
		fmt.Fprintf(&b, "**%s report updated** (#%d)\n", noun, report.ID)
	}

	if isProfile {
		fmt.Fprintf(&b, "Profile: %s\n", report.URL)
	} else {
		if report.Title != "" {
			fmt.Fprintf(&b, "Title: %s\n", report.Title)
		}
		fmt.Fprintf(&b, "URL: %s\n", report.URL)
	}
	fmt.Fprintf(&b, "Status: %s\nReported by: %s", report.Status, report.Reporter)
	if updatedBy != "" && updatedBy != models.AnonymousReporter && !strings.HasSuffix(event, "_created") {
		fmt.Fprintf(&b, "\nUpdated by: %s", updatedBy)
	}
	return b.String()
}
