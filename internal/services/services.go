package services

import (
	"socialdesk/config"
	"socialdesk/internal/media"
	"socialdesk/internal/repository"
	"socialdesk/pkg/logger"
)

type Deps struct {
	Config      *config.Config
	Collections *repository.Collections
	Media       *media.Handler
	Cache       CountsCache
	Logger      *logger.Logger
}

type Services struct {
	Auth       *AuthService
	Bookings   *BookingService
	Recoveries *RecoveryService
	Reports    *ReportService
	Feedback   *FeedbackService
	Blogs      *BlogService
	Admin      *AdminService
}

func New(d Deps) *Services {
	counts := countsTracker{cache: d.Cache, logger: d.Logger}
	c := d.Collections
	return &Services{
		Auth:       NewAuthService(c.Admins, d.Config, d.Logger),
		Bookings:   NewBookingService(c.Bookings, counts),
		Recoveries: NewRecoveryService(c.Recoveries, d.Media, counts),
		Reports:    NewReportService(c.Reports, d.Media, counts),
		Feedback:   NewFeedbackService(c.Feedback, d.Media, counts),
		Blogs:      NewBlogService(c.Blogs, d.Media, counts),
		Admin:      NewAdminService(c, d.Media, d.Cache, d.Logger),
	}
}
