package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"confbot/internal/core/domain"
	"confbot/internal/core/ports"
	apperrors "confbot/pkg/errors"
	"confbot/pkg/logger"
	"confbot/pkg/tracing"
	"confbot/pkg/validation"

	"go.uber.org/zap"
)

const (
	PromptTopic = "Enter the conference topic (3-100 characters):"
	PromptDate  = "Enter the date and time (DD.MM.YYYY HH:MM):"
	PromptLink  = "Enter the Zoom/Meet link:"

	ReplyConferenceCreated = "Conference created! Group members will be notified."
)

// DialogService drives the conference-creation dialog:
//
//	Idle -> AwaitingTopic -> AwaitingDate -> AwaitingLink -> (commit) -> Idle
//
// One session per identity. Messages from the same identity are serialized
// with a per-identity mutex; distinct identities proceed concurrently.
// Starting a new dialog while one is active restarts it from the first step.
type DialogService struct {
	sessions    ports.SessionStore
	auth        ports.AuthService
	conferences ports.ConferenceService
	logger      *zap.SugaredLogger

	mu    sync.Mutex
	locks map[domain.Identity]*sync.Mutex
}

func NewDialogService(sessions ports.SessionStore, auth ports.AuthService, conferences ports.ConferenceService, logger *zap.SugaredLogger) *DialogService {
	return &DialogService{
		sessions:    sessions,
		auth:        auth,
		conferences: conferences,
		logger:      logger,
		locks:       make(map[domain.Identity]*sync.Mutex),
	}
}

func (s *DialogService) lockFor(identity domain.Identity) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, exists := s.locks[identity]
	if !exists {
		lock = &sync.Mutex{}
		s.locks[identity] = lock
	}
	return lock
}

// Start opens a dialog for identity and returns the first prompt. The
// authorization gate runs before any session state is touched.
func (s *DialogService) Start(ctx context.Context, identity domain.Identity) (string, error) {
	allowed, err := s.auth.Authorize(ctx, identity, domain.RoleTeacher, domain.RoleAdmin)
	if err != nil {
		return "", fmt.Errorf("authorize: %w", err)
	}
	if !allowed {
		return "", apperrors.NewForbiddenError("access restricted")
	}

	lock := s.lockFor(identity)
	lock.Lock()
	defer lock.Unlock()

	session := &domain.Session{
		Identity: identity,
		State:    domain.StateAwaitingTopic,
		Group:    s.conferences.DefaultGroup(),
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return PromptTopic, nil
}

// Active reports whether identity has a dialog in progress.
func (s *DialogService) Active(ctx context.Context, identity domain.Identity) (bool, error) {
	session, err := s.sessions.Get(ctx, identity)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return session.State != domain.StateIdle, nil
}

// Cancel clears the session unconditionally.
func (s *DialogService) Cancel(ctx context.Context, identity domain.Identity) error {
	lock := s.lockFor(identity)
	lock.Lock()
	defer lock.Unlock()

	return s.sessions.Delete(ctx, identity)
}

// HandleInput advances the dialog with one message. Invalid input keeps the
// session in its current state and returns a re-prompt; nothing is written
// to the store until the final step.
func (s *DialogService) HandleInput(ctx context.Context, identity domain.Identity, text string) (string, error) {
	lock := s.lockFor(identity)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.sessions.Get(ctx, identity)
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	tracing.RecordDialogState(ctx, string(session.State))

	switch session.State {
	case domain.StateAwaitingTopic:
		return s.handleTopic(ctx, session, text)
	case domain.StateAwaitingDate:
		return s.handleDate(ctx, session, text)
	case domain.StateAwaitingLink:
		return s.handleLink(ctx, session, text)
	}
	return "", fmt.Errorf("load session: %w", domain.ErrSessionNotFound)
}

func (s *DialogService) handleTopic(ctx context.Context, session *domain.Session, text string) (string, error) {
	if err := validation.ValidateTopic(text); err != nil {
		return fmt.Sprintf("Error: %s. Try again.", err), nil
	}

	session.Topic = text
	session.State = domain.StateAwaitingDate
	if err := s.sessions.Put(ctx, session); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return PromptDate, nil
}

func (s *DialogService) handleDate(ctx context.Context, session *domain.Session, text string) (string, error) {
	tokens := strings.Fields(text)
	if len(tokens) < 2 {
		return "Invalid format! Expected: DD.MM.YYYY HH:MM. Try again.", nil
	}
	if err := validation.ValidateConferenceDate(tokens[0]); err != nil {
		return fmt.Sprintf("Error: %s. Try again.", err), nil
	}

	// The time token is accepted verbatim, without any format check.
	session.Date = tokens[0]
	session.Time = tokens[1]
	session.State = domain.StateAwaitingLink
	if err := s.sessions.Put(ctx, session); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return PromptLink, nil
}

func (s *DialogService) handleLink(ctx context.Context, session *domain.Session, text string) (string, error) {
	if err := validation.ValidateConferenceLink(text); err != nil {
		return fmt.Sprintf("Error: %s. Try again.", err), nil
	}

	// Single atomic commit of everything collected so far. On a transient
	// failure the session stays in AwaitingLink so the user can resubmit.
	conf, err := s.conferences.CreateConference(ctx, session.Topic, session.Date, session.Time, text, session.Group)
	if err != nil {
		if appErr := apperrors.GetAppError(err); appErr != nil {
			return "", err
		}
		return "", fmt.Errorf("commit conference: %w", err)
	}

	if err := s.sessions.Delete(ctx, session.Identity); err != nil {
		s.logger.Warnw("failed to clear completed session",
			"identity", session.Identity,
			"error", err,
		)
	}
	logger.With(ctx, s.logger).Infow("conference created",
		"identity", session.Identity,
		"conference_id", conf.ID,
		"group_id", conf.Group,
	)
	return ReplyConferenceCreated, nil
}

var _ ports.DialogService = (*DialogService)(nil)
