package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/streetbars/streetbars-api/internal/dto"
	"github.com/streetbars/streetbars-api/internal/models"
	"github.com/streetbars/streetbars-api/internal/observability"
	"github.com/streetbars/streetbars-api/internal/repository"
)

// ModerationService is the admin-facing side of the submission queue. The
// transactional apply+audit+resolve lives in the repository; this layer adds
// error mapping, cache invalidation, tracing and event fan-out.
type ModerationService interface {
	Approve(ctx context.Context, submissionID, reviewerID uuid.UUID) (dto.SubmissionResponse, error)
	Reject(ctx context.Context, submissionID, reviewerID uuid.UUID) (dto.SubmissionResponse, error)
}

type moderationService struct {
	repo       repository.ModerationRepository
	skillCache *CatalogCache
	placeCache *CatalogCache
	events     *nats.Conn
	subject    string
	tracer     trace.Tracer
	logger     zerolog.Logger
}

// moderationEvent is published after a submission leaves the pending state.
type moderationEvent struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	EntityType   string    `json:"entity_type"`
	Action       string    `json:"action"`
	Status       string    `json:"status"`
	ReviewerID   uuid.UUID `json:"reviewer_id"`
	ResolvedAt   time.Time `json:"resolved_at"`
}

// NewModerationService constructs the moderation service. A nil NATS
// connection disables event publication.
func NewModerationService(
	repo repository.ModerationRepository,
	skillCache, placeCache *CatalogCache,
	events *nats.Conn,
	subject string,
	logger zerolog.Logger,
) ModerationService {
	if subject == "" {
		subject = "streetbars.moderation.resolved"
	}
	return &moderationService{
		repo:       repo,
		skillCache: skillCache,
		placeCache: placeCache,
		events:     events,
		subject:    subject,
		tracer:     otel.Tracer("github.com/streetbars/streetbars-api/internal/service/moderation"),
		logger:     logger.With().Str("component", "moderation_service").Logger(),
	}
}

func (s *moderationService) Approve(ctx context.Context, submissionID, reviewerID uuid.UUID) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "moderation.approve", trace.WithAttributes(
		attribute.String("submission_id", submissionID.String()),
	))
	defer span.End()

	submission, err := s.repo.Approve(ctx, submissionID, reviewerID)
	if err != nil {
		observability.ModerationResolutions().WithLabelValues("approve", "error").Inc()
		return dto.SubmissionResponse{}, mapModerationError(err)
	}

	span.SetAttributes(
		attribute.String("entity_type", submission.EntityType),
		attribute.String("action", submission.Action),
	)
	observability.ModerationResolutions().WithLabelValues("approve", "success").Inc()

	// The approved payload changed catalogue data; stale list pages go now.
	switch submission.EntityType {
	case models.EntityTypeSkill:
		s.skillCache.bump(ctx)
	case models.EntityTypePlace:
		s.placeCache.bump(ctx)
	}

	s.publish(submission, reviewerID)

	s.logger.Info().
		Str("submission_id", submission.ID.String()).
		Str("entity_type", submission.EntityType).
		Str("action", submission.Action).
		Str("reviewer_id", reviewerID.String()).
		Msg("submission approved")

	return dto.NewSubmissionResponse(submission), nil
}

func (s *moderationService) Reject(ctx context.Context, submissionID, reviewerID uuid.UUID) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "moderation.reject", trace.WithAttributes(
		attribute.String("submission_id", submissionID.String()),
	))
	defer span.End()

	submission, err := s.repo.Reject(ctx, submissionID, reviewerID)
	if err != nil {
		observability.ModerationResolutions().WithLabelValues("reject", "error").Inc()
		return dto.SubmissionResponse{}, mapModerationError(err)
	}

	observability.ModerationResolutions().WithLabelValues("reject", "success").Inc()
	s.publish(submission, reviewerID)

	s.logger.Info().
		Str("submission_id", submission.ID.String()).
		Str("reviewer_id", reviewerID.String()).
		Msg("submission rejected")

	return dto.NewSubmissionResponse(submission), nil
}

// publish is best-effort: the state transition already committed, so a
// broker hiccup must not fail the request.
func (s *moderationService) publish(submission models.Submission, reviewerID uuid.UUID) {
	if s.events == nil {
		return
	}

	resolvedAt := time.Now().UTC()
	if submission.ReviewedAt != nil {
		resolvedAt = *submission.ReviewedAt
	}

	payload, err := json.Marshal(moderationEvent{
		SubmissionID: submission.ID,
		EntityType:   submission.EntityType,
		Action:       submission.Action,
		Status:       submission.Status,
		ReviewerID:   reviewerID,
		ResolvedAt:   resolvedAt,
	})
	if err != nil {
		return
	}

	if err := s.events.Publish(s.subject, payload); err != nil {
		s.logger.Warn().Err(err).Str("subject", s.subject).Msg("failed to publish moderation event")
	}
}

func mapModerationError(err error) error {
	switch {
	case errors.Is(err, repository.ErrSubmissionResolved):
		return ErrAlreadyResolved
	case errors.Is(err, repository.ErrInvalidSubmission):
		return ErrInvalidPayload
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	default:
		return err
	}
}
