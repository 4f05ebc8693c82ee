package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"autoscuola/internal/repository"
)

const reminderLeadTime = 24 * time.Hour

// JobService runs the periodic maintenance invoked by cron.
type JobService struct {
	repo     *repository.JobRepository
	notifier Notifier
	logger   *zap.Logger
}

func NewJobService(repo *repository.JobRepository, notifier Notifier, logger *zap.Logger) *JobService {
	return &JobService{repo: repo, notifier: notifier, logger: logger}
}

// SendUpcomingReminders notifies students of active lessons starting
// within the next day, once per lesson.
func (s *JobService) SendUpcomingReminders(ctx context.Context) error {
	now := time.Now().UTC()
	lessons, err := s.repo.ListDueReminders(ctx, now, now.Add(reminderLeadTime))
	if err != nil {
		return err
	}
	if len(lessons) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(lessons))
	for i := range lessons {
		s.notifier.LessonReminder(&lessons[i])
		ids = append(ids, lessons[i].ID)
	}
	if err := s.repo.MarkReminded(ctx, ids); err != nil {
		return err
	}

	s.logger.Info("lesson reminders sent", zap.Int("count", len(ids)))
	return nil
}
