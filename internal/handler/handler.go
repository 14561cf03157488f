package handler

import (
	"context"

	"socialdesk/internal/domain"
	"socialdesk/internal/services"
)

// Notifier receives new submissions after the response has been written.
type Notifier interface {
	BookingCreated(ctx context.Context, b *domain.Booking)
	ReportCreated(ctx context.Context, r *domain.Report)
	RecoveryCreated(ctx context.Context, a *domain.AccountRecovery)
}

type nopNotifier struct{}

func (nopNotifier) BookingCreated(context.Context, *domain.Booking)          {}
func (nopNotifier) ReportCreated(context.Context, *domain.Report)            {}
func (nopNotifier) RecoveryCreated(context.Context, *domain.AccountRecovery) {}

type Handlers struct {
	Auth       *AuthHandler
	Admin      *AdminHandler
	Bookings   *BookingHandler
	Recoveries *RecoveryHandler
	Reports    *ReportHandler
	Feedback   *FeedbackHandler
	Blogs      *BlogHandler
}

func New(s *services.Services, n Notifier) *Handlers {
	if n == nil {
		n = nopNotifier{}
	}
	return &Handlers{
		Auth:       NewAuthHandler(s.Auth),
		Admin:      NewAdminHandler(s.Admin),
		Bookings:   NewBookingHandler(s.Bookings, n),
		Recoveries: NewRecoveryHandler(s.Recoveries, n),
		Reports:    NewReportHandler(s.Reports, n),
		Feedback:   NewFeedbackHandler(s.Feedback),
		Blogs:      NewBlogHandler(s.Blogs),
	}
}
