// Package notification stores per-user messages and publishes them to the
// event bus.
package notification

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"cultivate/internal/events"
	"cultivate/internal/models"
	"cultivate/internal/repositories"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// PrioritizedLimit caps the prioritized inbox.
const PrioritizedLimit = 10

type Service interface {
	Create(ctx context.Context, input models.CreateNotificationInput) (*models.Notification, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, userID, id uint) error
	MarkAllAsRead(ctx context.Context, userID uint) (int, error)
	UnreadCount(ctx context.Context, userID uint) (int, error)
	Prioritize(ctx context.Context, userID uint) ([]models.Notification, error)
	TriggerSystemNotifications(ctx context.Context, input models.SystemNotificationInput) (int, error)
}

type service struct {
	repo      repositories.NotificationRepository
	publisher events.Publisher
	log       *logrus.Logger
}

// NewService creates a new notification service.
func NewService(repo repositories.NotificationRepository, publisher events.Publisher, log *logrus.Logger) Service {
	if repo == nil {
		panic("repo is required")
	}
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &service{repo: repo, publisher: publisher, log: log}
}

func (s *service) Create(ctx context.Context, input models.CreateNotificationInput) (*models.Notification, error) {
	if input.UserID == 0 || strings.TrimSpace(input.Message) == "" {
		return nil, ErrInvalidNotification
	}
	if !models.IsValidNotificationType(input.Type) {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidNotification, input.Type)
	}

	meta := datatypes.JSONMap{}
	for k, v := range input.Meta {
		meta[k] = v
	}

	n := &models.Notification{
		UserID:  input.UserID,
		Message: input.Message,
		Type:    input.Type,
		Meta:    meta,
		Read:    false,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.Event{
		ID:   events.NotificationCreated + ":" + strconv.FormatUint(uint64(n.ID), 10),
		Type: events.NotificationCreated,
		Data: n,
	}); err != nil {
		s.log.WithError(err).WithField("notification_id", n.ID).Warn("failed to publish notification")
	}
	return n, nil
}

func (s *service) ListByUser(ctx context.Context, userID uint) ([]models.Notification, error) {
	notifications, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkAsRead flips the read flag. Another user's notification is reported
// as not found.
func (s *service) MarkAsRead(ctx context.Context, userID, id uint) error {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to get notification: %w", err)
	}
	if n.UserID != userID {
		return ErrNotificationNotFound
	}
	if n.Read {
		return nil
	}
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// MarkAllAsRead marks every unread notification and returns how many changed.
func (s *service) MarkAllAsRead(ctx context.Context, userID uint) (int, error) {
	notifications, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to list notifications: %w", err)
	}

	marked := 0
	for _, n := range notifications {
		if n.Read {
			continue
		}
		if err := s.repo.MarkRead(ctx, n.ID); err != nil {
			return marked, fmt.Errorf("failed to mark notification read: %w", err)
		}
		marked++
	}
	return marked, nil
}

func (s *service) UnreadCount(ctx context.Context, userID uint) (int, error) {
	notifications, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	count := 0
	for _, n := range notifications {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

// Prioritize ranks unread and AI recommendation notifications first, newest
// first within a rank, and keeps the top PrioritizedLimit.
func (s *service) Prioritize(ctx context.Context, userID uint) ([]models.Notification, error) {
	notifications, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	sort.SliceStable(notifications, func(i, j int) bool {
		pi, pj := priority(notifications[i]), priority(notifications[j])
		if pi != pj {
			return pi > pj
		}
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})

	if len(notifications) > PrioritizedLimit {
		notifications = notifications[:PrioritizedLimit]
	}
	return notifications, nil
}

func priority(n models.Notification) int {
	p := 0
	if !n.Read {
		p += 2
	}
	if n.Type == models.NotificationTypeAIRecommendation {
		p += 2
	}
	return p
}

// TriggerSystemNotifications fans a profit event out to the investor, the
// referring affiliate and every recommended profile. Inserts are sequential;
// on failure the count of rows already written is returned with the error.
func (s *service) TriggerSystemNotifications(ctx context.Context, input models.SystemNotificationInput) (int, error) {
	inputs := []models.CreateNotificationInput{{
		UserID:  input.InvestorID,
		Message: fmt.Sprintf("Your investment in %s has been credited with profit.", input.CampaignTitle),
		Type:    models.NotificationTypeCommission,
	}}
	if input.AffiliateID != nil {
		inputs = append(inputs, models.CreateNotificationInput{
			UserID:  *input.AffiliateID,
			Message: fmt.Sprintf("You earned a reward for referring an investor to %s.", input.CampaignTitle),
			Type:    models.NotificationTypeCommission,
		})
	}
	for _, id := range input.RecommendedIDs {
		inputs = append(inputs, models.CreateNotificationInput{
			UserID:  id,
			Message: "AI recommends your campaign for high-impact climate action.",
			Type:    models.NotificationTypeAIRecommendation,
		})
	}

	created := 0
	for _, in := range inputs {
		if _, err := s.Create(ctx, in); err != nil {
			s.log.WithError(err).WithField("created", created).Error("system notifications stopped early")
			return created, err
		}
		created++
	}
	return created, nil
}
