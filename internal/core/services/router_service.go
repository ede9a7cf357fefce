package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"confbot/internal/core/domain"
	"confbot/internal/core/ports"
	"confbot/internal/infrastructure/monitoring"
	apperrors "confbot/pkg/errors"
	"confbot/pkg/logger"
	"confbot/pkg/tracing"

	"go.uber.org/zap"
)

const helpText = `Available commands:
/start - show your role
/create_group <name> - create a study group
/join_group <name> - join a study group
/create_conference - schedule a conference
/cancel - cancel the current action`

// RouterService dispatches incoming chat messages. Slash commands are handled
// directly; any other text is fed to the active dialog, if one exists.
type RouterService struct {
	auth      ports.AuthService
	groups    ports.GroupService
	dialog    ports.DialogService
	collector *monitoring.PrometheusCollector
	logger    *zap.SugaredLogger
}

func NewRouterService(
	auth ports.AuthService,
	groups ports.GroupService,
	dialog ports.DialogService,
	collector *monitoring.PrometheusCollector,
	logger *zap.SugaredLogger,
) *RouterService {
	return &RouterService{
		auth:      auth,
		groups:    groups,
		dialog:    dialog,
		collector: collector,
		logger:    logger,
	}
}

// Route processes one message from identity and returns the reply text.
// Errors from the layers below are translated into user-facing replies here;
// Route itself only fails on broken infrastructure.
func (s *RouterService) Route(ctx context.Context, identity domain.Identity, text string) (string, error) {
	command, args := parseCommand(text)
	label := command
	if label == "" {
		label = "message"
	}

	ctx, span := tracing.TraceCommand(ctx, label, int64(identity))
	defer span.End()

	start := time.Now()
	reply, outcome, err := s.dispatch(ctx, identity, command, args, text)
	s.collector.RecordCommand(label, outcome, time.Since(start))

	if err != nil {
		tracing.RecordError(ctx, err)
		logger.With(ctx, s.logger).Errorw("command failed",
			"identity", identity,
			"command", command,
			"error", err,
		)
		return "", err
	}
	return reply, nil
}

func (s *RouterService) dispatch(ctx context.Context, identity domain.Identity, command, args, text string) (string, string, error) {
	switch command {
	case "/start":
		return s.handleStart(ctx, identity)
	case "/create_group":
		return s.handleCreateGroup(ctx, identity, args)
	case "/join_group":
		return s.handleJoinGroup(ctx, identity, args)
	case "/create_conference":
		return s.handleCreateConference(ctx, identity)
	case "/cancel":
		return s.handleCancel(ctx, identity)
	case "":
		return s.handleText(ctx, identity, text)
	}
	return helpText, monitoring.OutcomeInvalid, nil
}

// parseCommand splits a leading slash command from its arguments. Plain text
// yields an empty command.
func parseCommand(text string) (command, args string) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "/") {
		return "", trimmed
	}

	command, args, _ = strings.Cut(trimmed, " ")
	return strings.ToLower(command), strings.TrimSpace(args)
}

func (s *RouterService) handleStart(ctx context.Context, identity domain.Identity) (string, string, error) {
	role, err := s.auth.Role(ctx, identity)
	if err != nil {
		return "", monitoring.OutcomeError, fmt.Errorf("resolve role: %w", err)
	}

	reply := fmt.Sprintf("Hello! Your role: %s", role)
	if role.CanSchedule() {
		reply += "\nYou can schedule a conference with /create_conference."
	}
	return reply, monitoring.OutcomeOK, nil
}

func (s *RouterService) handleCreateGroup(ctx context.Context, identity domain.Identity, name string) (string, string, error) {
	if name == "" {
		return "Usage: /create_group <name>", monitoring.OutcomeInvalid, nil
	}

	group, err := s.groups.CreateGroup(ctx, identity, name)
	if err != nil {
		return s.replyForError(err)
	}

	s.collector.RecordGroupCreated()
	return fmt.Sprintf("Group %q created!", group.Name), monitoring.OutcomeOK, nil
}

func (s *RouterService) handleJoinGroup(ctx context.Context, identity domain.Identity, name string) (string, string, error) {
	if name == "" {
		return "Usage: /join_group <name>", monitoring.OutcomeInvalid, nil
	}

	if err := s.groups.JoinGroup(ctx, identity, name); err != nil {
		return s.replyForError(err)
	}
	return fmt.Sprintf("You joined the group %q!", name), monitoring.OutcomeOK, nil
}

func (s *RouterService) handleCreateConference(ctx context.Context, identity domain.Identity) (string, string, error) {
	active, err := s.dialog.Active(ctx, identity)
	if err != nil {
		return "", monitoring.OutcomeError, fmt.Errorf("check dialog: %w", err)
	}

	prompt, err := s.dialog.Start(ctx, identity)
	if err != nil {
		return s.replyForError(err)
	}

	// A restart replaces the existing session; the gauge counts identities
	// with a dialog open, not starts.
	if !active {
		s.collector.RecordDialogStarted()
	}
	return prompt, monitoring.OutcomeOK, nil
}

func (s *RouterService) handleCancel(ctx context.Context, identity domain.Identity) (string, string, error) {
	active, err := s.dialog.Active(ctx, identity)
	if err != nil {
		return "", monitoring.OutcomeError, fmt.Errorf("check dialog: %w", err)
	}
	if err := s.dialog.Cancel(ctx, identity); err != nil {
		return "", monitoring.OutcomeError, fmt.Errorf("cancel dialog: %w", err)
	}

	if active {
		s.collector.RecordDialogEnded()
	}
	return "Action cancelled.", monitoring.OutcomeOK, nil
}

func (s *RouterService) handleText(ctx context.Context, identity domain.Identity, text string) (string, string, error) {
	active, err := s.dialog.Active(ctx, identity)
	if err != nil {
		return "", monitoring.OutcomeError, fmt.Errorf("check dialog: %w", err)
	}
	if !active {
		return helpText, monitoring.OutcomeInvalid, nil
	}

	reply, err := s.dialog.HandleInput(ctx, identity, text)
	if err != nil {
		return s.replyForError(err)
	}

	if reply == ReplyConferenceCreated {
		s.collector.RecordConferenceCreated()
		s.collector.RecordDialogEnded()
	}
	return reply, monitoring.OutcomeOK, nil
}

// replyForError turns an AppError into reply text. The wording distinguishes
// rejected input, business-rule conflicts, denials and transient store
// trouble, so the user knows whether retrying the same input can help.
func (s *RouterService) replyForError(err error) (string, string, error) {
	appErr := apperrors.GetAppError(err)
	if appErr == nil {
		return "", monitoring.OutcomeError, err
	}

	switch appErr.Code {
	case apperrors.ErrCodeInvalidInput:
		return fmt.Sprintf("Error: %s. Try again.", appErr.Message), monitoring.OutcomeInvalid, nil
	case apperrors.ErrCodeConflict:
		return fmt.Sprintf("%s.", appErr.Message), monitoring.OutcomeConflict, nil
	case apperrors.ErrCodeNotFound:
		return fmt.Sprintf("%s.", appErr.Message), monitoring.OutcomeNotFound, nil
	case apperrors.ErrCodeForbidden:
		return "You don't have permission to do that.", monitoring.OutcomeDenied, nil
	case apperrors.ErrCodeUnavailable:
		return "The service is busy right now, please try again.", monitoring.OutcomeBusy, nil
	}
	return "", monitoring.OutcomeError, err
}

var _ ports.CommandRouter = (*RouterService)(nil)
