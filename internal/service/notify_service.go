package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"autoscuola/internal/db"
	"autoscuola/internal/entities"
	"autoscuola/internal/repository"
)

const notifyTimeout = 10 * time.Second

// NotifyService sends lesson state changes to the student over email
// and SMS. Sends are fire-and-forget: a delivery failure is logged,
// never surfaced to the booking flow.
type NotifyService struct {
	users  repository.UserRepository
	sender *SenderService
	logger *zap.Logger
	loc    *time.Location
}

func NewNotifyService(users repository.UserRepository, sender *SenderService, logger *zap.Logger) *NotifyService {
	loc, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		loc = time.FixedZone("CET", 1*60*60)
	}
	return &NotifyService{users: users, sender: sender, logger: logger, loc: loc}
}

func (s *NotifyService) LessonBooked(l *db.Lesson) {
	s.send(l, "booked")
}

func (s *NotifyService) LessonConfirmed(l *db.Lesson) {
	s.send(l, "confirmed")
}

func (s *NotifyService) LessonCancelled(l *db.Lesson) {
	s.send(l, "cancelled")
}

func (s *NotifyService) LessonReminder(l *db.Lesson) {
	s.send(l, "starting soon")
}

func (s *NotifyService) send(l *db.Lesson, status string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		student, err := s.users.GetByID(ctx, l.StudentID)
		if err != nil {
			s.logger.Warn("cannot notify: student lookup failed",
				zap.Int64("lesson_id", l.ID), zap.Error(err))
			return
		}
		instructor, err := s.users.GetByID(ctx, l.InstructorID)
		if err != nil {
			s.logger.Warn("cannot notify: instructor lookup failed",
				zap.Int64("lesson_id", l.ID), zap.Error(err))
			return
		}

		data := entities.LessonEmailData{
			StudentName:        student.FullName,
			LessonCode:         l.Code,
			InstructorName:     instructor.FullName,
			Location:           l.Location,
			StartTimeFormatted: l.StartAt.In(s.loc).Format("02 Jan 2006 15:04 MST"),
			EndTimeFormatted:   l.EndAt.In(s.loc).Format("02 Jan 2006 15:04 MST"),
			Status:             status,
		}

		subject := fmt.Sprintf("Your driving lesson is %s - %s", data.Status, data.StartTimeFormatted)
		body := fmt.Sprintf(
			"Hello %s,\n\nYour driving lesson is %s.\n\n"+
				"Lesson code: %s\n"+
				"Instructor: %s\n"+
				"Location: %s\n"+
				"Start: %s\n"+
				"End: %s\n\n"+
				"See you on the road.",
			data.StudentName, data.Status, data.LessonCode, data.InstructorName,
			data.Location, data.StartTimeFormatted, data.EndTimeFormatted,
		)

		if student.Email != "" {
			if err := s.sender.SendEmail(student.Email, student.FullName, subject, body, ""); err != nil {
				s.logger.Warn("lesson email failed",
					zap.Int64("lesson_id", l.ID), zap.Error(err))
			}
		}
		if student.Phone != "" {
			sms := fmt.Sprintf("Autoscuola: your lesson on %s is %s. Details in your email.",
				l.StartAt.In(s.loc).Format("02/01 15:04"), status)
			if err := s.sender.SendSMS(student.Phone, sms); err != nil {
				s.logger.Warn("lesson SMS failed",
					zap.Int64("lesson_id", l.ID), zap.Error(err))
			}
		}
	}()
}
