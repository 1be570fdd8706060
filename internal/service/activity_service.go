package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"caseboard/api/internal/config"
	"caseboard/api/internal/ids"
	"caseboard/api/internal/models"
	"caseboard/api/internal/storage"
)

// ActivityStore is the persistence surface the audit trail writes to.
// Backed by ActivityRepository in production, by fakes in tests.
type ActivityStore interface {
	Insert(ctx context.Context, activity models.Activity) error
	ListByCard(ctx context.Context, cardID string, limit, offset int) ([]models.Activity, error)
}

// ActivityService writes the append-only audit trail. Record is best
// effort: a failed insert is logged and never rolls back the primary
// mutation. Every row is also mirrored to a Redis stream, fire-and-forget.
type ActivityService struct {
	activities ActivityStore
	store      *storage.ObjectStore
	queue      *redis.Client
	cfg        *config.AppConfig
	log        zerolog.Logger
}

func NewActivityService(
	activities ActivityStore,
	store *storage.ObjectStore,
	queue *redis.Client,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *ActivityService {
	return &ActivityService{
		activities: activities,
		store:      store,
		queue:      queue,
		cfg:        cfg,
		log:        log,
	}
}

// Record appends an audit row as a side effect of a mutation that already
// succeeded. The actor's name is denormalized at write time.
func (s *ActivityService) Record(ctx context.Context, actor models.User, cardID, listID *string, action, details string) {
	activity := models.Activity{
		ID:       ids.New(),
		UserID:   actor.ID,
		UserName: actor.FullName(),
		CardID:   cardID,
		ListID:   listID,
		Action:   action,
		Details:  details,
	}

	if err := s.activities.Insert(ctx, activity); err != nil {
		s.log.Error().Err(err).Str("action", action).Msg("activity insert failed")
		return
	}
	s.mirror(ctx, activity)
}

// Comment is the one case where the activity row is the primary mutation,
// so insert failures surface to the caller. An optional attachment goes to
// the object store first.
func (s *ActivityService) Comment(
	ctx context.Context,
	actor models.User,
	card models.BoardCard,
	body string,
	file multipart.File,
	header *multipart.FileHeader,
) (models.Activity, error) {
	activity := models.Activity{
		ID:       ids.New(),
		UserID:   actor.ID,
		UserName: actor.FullName(),
		CardID:   &card.ID,
		ListID:   &card.BoardListID,
		Action:   "commented",
		Details:  body,
	}

	if file != nil && header != nil {
		objectKey := buildAttachmentKey(activity.ID, header.Filename)
		contentType := header.Header.Get("Content-Type")
		if err := s.store.PutAttachment(ctx, objectKey, file, header.Size, contentType); err != nil {
			return models.Activity{}, fmt.Errorf("store attachment: %w", err)
		}
		name := header.Filename
		activity.AttachmentName = &name
		activity.AttachmentKey = &objectKey
	}

	if err := s.activities.Insert(ctx, activity); err != nil {
		return models.Activity{}, fmt.Errorf("save comment: %w", err)
	}
	s.mirror(ctx, activity)
	return activity, nil
}

func (s *ActivityService) ListByCard(ctx context.Context, cardID string, limit, offset int) ([]models.Activity, error) {
	return s.activities.ListByCard(ctx, cardID, limit, offset)
}

func (s *ActivityService) mirror(ctx context.Context, activity models.Activity) {
	if s.queue == nil {
		return
	}
	values := map[string]any{
		"id":        activity.ID,
		"user_id":   activity.UserID,
		"user_name": activity.UserName,
		"action":    activity.Action,
		"details":   activity.Details,
	}
	if activity.CardID != nil {
		values["card_id"] = *activity.CardID
	}
	if activity.ListID != nil {
		values["list_id"] = *activity.ListID
	}
	if err := s.queue.XAdd(ctx, &redis.XAddArgs{
		Stream: s.cfg.Activity.Stream,
		Values: values,
	}).Err(); err != nil {
		s.log.Warn().Err(err).Msg("activity stream mirror failed")
	}
}

func buildAttachmentKey(activityID string, filename string) string {
	datePrefix := time.Now().UTC().Format("2006/01/02")
	return path.Join(datePrefix, fmt.Sprintf("%s%s", activityID, path.Ext(filename)))
}
