package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bytedocker/site/internal/activity"
	"github.com/bytedocker/site/internal/inquiries/domain"
	"github.com/bytedocker/site/internal/logging"
)

const activityKind = "inquiries"

type Repository interface {
	Create(ctx context.Context, in *domain.Inquiry) error
	List(ctx context.Context, limit int, openOnly bool) ([]domain.Inquiry, error)
	MarkHandled(ctx context.Context, id int64, handled bool) error
	CountOpen(ctx context.Context) (int, error)
}

type InquiryService struct {
	repo     Repository
	activity *activity.Recorder
}

func NewInquiryService(repo Repository, rec *activity.Recorder) *InquiryService {
	return &InquiryService{repo: repo, activity: rec}
}

// Submit validates and stores a contact form submission.
func (s *InquiryService) Submit(ctx context.Context, in *domain.Inquiry) error {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, in); err != nil {
		return fmt.Errorf("submit inquiry: %w", err)
	}
	logging.Op(ctx, "inquiries.submit").Info("inquiry received", zap.Int64("inquiry_id", in.ID))
	return nil
}

func (s *InquiryService) List(ctx context.Context, limit int, openOnly bool) ([]domain.Inquiry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.List(ctx, limit, openOnly)
}

func (s *InquiryService) MarkHandled(ctx context.Context, id int64, handled bool) error {
	if err := s.repo.MarkHandled(ctx, id, handled); err != nil {
		return err
	}
	action := "handled"
	if !handled {
		action = "reopened"
	}
	s.activity.Record(ctx, activity.ActionUpdate, activityKind, fmt.Sprint(id), action)
	return nil
}

func (s *InquiryService) CountOpen(ctx context.Context) (int, error) {
	return s.repo.CountOpen(ctx)
}
