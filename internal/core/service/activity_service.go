package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/zapastore/storefront/internal/core/domain"
	"github.com/zapastore/storefront/internal/core/ports"
)

type activityService struct {
	repo ports.ActivityRepository
	log  zerolog.Logger
}

// NewActivityService returns an ActivityService that writes cart activity
// to the audit collection.
func NewActivityService(repo ports.ActivityRepository, log zerolog.Logger) ports.ActivityService {
	return &activityService{repo: repo, log: log}
}

// Record persists one activity entry. The entry gets a fresh event id; a
// zero timestamp is stamped with the current time.
func (s *activityService) Record(ctx context.Context, in ports.CartActivityInput) error {
	ts := in.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	entry := &domain.CartActivity{
		EventID:   uuid.NewString(),
		UserID:    in.UserID,
		Action:    in.Action,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Total:     in.Total,
		Timestamp: ts,
	}

	if err := s.repo.Insert(ctx, entry); err != nil {
		return fmt.Errorf("record activity: %w", err)
	}

	s.log.Debug().
		Str("user_id", in.UserID).
		Str("action", string(in.Action)).
		Msg("cart activity recorded")

	return nil
}
