package services

import (
	"context"
	"errors"
	"fmt"

	"confbot/internal/core/domain"
	"confbot/internal/core/ports"
	apperrors "confbot/pkg/errors"
	"confbot/pkg/retry"
)

// ConferenceService commits fully collected conferences. Field validation
// happens per dialog step before this point; the date is deliberately not
// re-checked at commit time.
type ConferenceService struct {
	conferences  ports.ConferenceRepository
	defaultGroup domain.GroupID
	retryCfg     retry.Config
}

func NewConferenceService(conferences ports.ConferenceRepository, defaultGroup domain.GroupID, retryCfg retry.Config) *ConferenceService {
	retryCfg.Retryable = func(err error) bool { return errors.Is(err, domain.ErrStoreBusy) }
	return &ConferenceService{
		conferences:  conferences,
		defaultGroup: defaultGroup,
		retryCfg:     retryCfg,
	}
}

// DefaultGroup is the group conferences attach to when the caller does not
// pick one explicitly.
func (s *ConferenceService) DefaultGroup() domain.GroupID {
	return s.defaultGroup
}

// CreateConference performs the single atomic insert, retrying transient
// busy rejections a bounded number of times.
func (s *ConferenceService) CreateConference(ctx context.Context, topic, date, confTime, link string, group domain.GroupID) (*domain.Conference, error) {
	conf := &domain.Conference{
		Topic: topic,
		Date:  date,
		Time:  confTime,
		Link:  link,
		Group: group,
	}

	err := retry.Do(ctx, s.retryCfg, func() error {
		return s.conferences.Create(ctx, conf)
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrGroupNotFound):
			return nil, apperrors.NewNotFoundError("the target group").WithCause(err)
		case errors.Is(err, domain.ErrStoreBusy):
			return nil, apperrors.NewUnavailableError("the store is busy, please try again").WithCause(err)
		}
		return nil, fmt.Errorf("create conference: %w", err)
	}
	return conf, nil
}

var _ ports.ConferenceService = (*ConferenceService)(nil)
