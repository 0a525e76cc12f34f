package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/streetbars/streetbars-api/internal/dto"
	"github.com/streetbars/streetbars-api/internal/repository"
)

// AuditService exposes the admin audit trail. The trail itself is written by
// the mutating transactions; this service only reads it.
type AuditService interface {
	List(ctx context.Context, req dto.AuditLogListRequest) (dto.AuditLogListResponse, error)
}

const defaultAuditLimit = 50

type auditService struct {
	repo   repository.AuditLogRepository
	logger zerolog.Logger
}

// NewAuditService constructs the audit service.
func NewAuditService(repo repository.AuditLogRepository, logger zerolog.Logger) AuditService {
	return &auditService{
		repo:   repo,
		logger: logger.With().Str("component", "audit_service").Logger(),
	}
}

func (s *auditService) List(ctx context.Context, req dto.AuditLogListRequest) (dto.AuditLogListResponse, error) {
	page := maxInt(req.Page, 1)
	limit := clampLimit(req.Limit, defaultAuditLimit)

	entries, total, err := s.repo.List(ctx, repository.AuditLogFilter{
		EntityType: req.EntityType,
		Action:     req.Action,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return dto.AuditLogListResponse{}, err
	}

	return dto.AuditLogListResponse{
		Data:       dto.NewAuditLogResponses(entries),
		Pagination: dto.NewPaginationMeta(page, limit, total),
	}, nil
}
