package repository

import (
	"context"

	"socialdesk/internal/domain"
	desk_errors "socialdesk/pkg/errors"
	"socialdesk/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
)

type (
	BookingRepository  = Repository[domain.Booking, *domain.Booking]
	RecoveryRepository = Repository[domain.AccountRecovery, *domain.AccountRecovery]
	ReportRepository   = Repository[domain.Report, *domain.Report]
	FeedbackRepository = Repository[domain.Feedback, *domain.Feedback]
	BlogRepository     = Repository[domain.Blog, *domain.Blog]
	AdminRepository    = Repository[domain.Admin, *domain.Admin]
)

var BookingSchema = Schema[*domain.Booking]{
	Collection: "bookings",
	Indexes: []Index{
		{Name: "bookings_slot_unique", Keys: []string{"appointmentDate", "appointmentTime"}, Unique: true},
		{Name: "bookings_created_at", Keys: []string{"createdAt"}},
	},
	OnDuplicate: desk_errors.Invalid(domain.MsgSlotTaken),
}

var RecoverySchema = Schema[*domain.AccountRecovery]{
	Collection: "accountrecoveries",
	Indexes: []Index{
		{Name: "accountrecoveries_platform_status", Keys: []string{"platform", "status"}},
		{Name: "accountrecoveries_created_at", Keys: []string{"createdAt"}},
	},
	Check: func(r *domain.AccountRecovery) error {
		if len(r.Attachments()) == 0 {
			return desk_errors.Invalid(domain.MsgIdentityRequired)
		}
		return domain.ValidateStatus(r.Status)
	},
}

var ReportSchema = Schema[*domain.Report]{
	Collection: "reports",
	Indexes: []Index{
		{Name: "reports_created_at", Keys: []string{"createdAt"}},
	},
	Check: func(r *domain.Report) error {
		if len(r.Attachments()) == 0 {
			return desk_errors.Invalid(domain.MsgReportDocumentsRequired)
		}
		return nil
	},
}

var FeedbackSchema = Schema[*domain.Feedback]{
	Collection: "feedbacks",
	Indexes: []Index{
		{Name: "feedbacks_created_at", Keys: []string{"createdAt"}},
	},
}

var BlogSchema = Schema[*domain.Blog]{
	Collection: "blogs",
	Indexes: []Index{
		{Name: "blogs_created_at", Keys: []string{"createdAt"}},
	},
	Check: func(b *domain.Blog) error {
		if !b.Image.Valid() {
			return desk_errors.Invalid(domain.MsgBlogImageRequired)
		}
		return nil
	},
}

var AdminSchema = Schema[*domain.Admin]{
	Collection: "admins",
	Indexes: []Index{
		{Name: "admins_email_unique", Keys: []string{"email"}, Unique: true},
	},
	OnDuplicate: desk_errors.ErrConflict,
}

// Collections groups the repository of every entity type.
type Collections struct {
	Bookings   *BookingRepository
	Recoveries *RecoveryRepository
	Reports    *ReportRepository
	Feedback   *FeedbackRepository
	Blogs      *BlogRepository
	Admins     *AdminRepository
}

type stores struct {
	bookings   Store[domain.Booking]
	recoveries Store[domain.AccountRecovery]
	reports    Store[domain.Report]
	feedback   Store[domain.Feedback]
	blogs      Store[domain.Blog]
	admins     Store[domain.Admin]
}

func newCollections(s stores, media Destroyer, l *logger.Logger) *Collections {
	return &Collections{
		Bookings:   NewRepository(s.bookings, BookingSchema, media, l),
		Recoveries: NewRepository(s.recoveries, RecoverySchema, media, l),
		Reports:    NewRepository(s.reports, ReportSchema, media, l),
		Feedback:   NewRepository(s.feedback, FeedbackSchema, media, l),
		Blogs:      NewRepository(s.blogs, BlogSchema, media, l),
		Admins:     NewRepository(s.admins, AdminSchema, media, l),
	}
}

func NewMongoCollections(db *mongo.Database, media Destroyer, l *logger.Logger) *Collections {
	return newCollections(stores{
		bookings:   NewMongoStore[domain.Booking](db, BookingSchema.Collection),
		recoveries: NewMongoStore[domain.AccountRecovery](db, RecoverySchema.Collection),
		reports:    NewMongoStore[domain.Report](db, ReportSchema.Collection),
		feedback:   NewMongoStore[domain.Feedback](db, FeedbackSchema.Collection),
		blogs:      NewMongoStore[domain.Blog](db, BlogSchema.Collection),
		admins:     NewMongoStore[domain.Admin](db, AdminSchema.Collection),
	}, media, l)
}

func NewPostgresCollections(pool *pgxpool.Pool, media Destroyer, l *logger.Logger) *Collections {
	return newCollections(stores{
		bookings:   NewPostgresStore[domain.Booking](pool, BookingSchema.Collection),
		recoveries: NewPostgresStore[domain.AccountRecovery](pool, RecoverySchema.Collection),
		reports:    NewPostgresStore[domain.Report](pool, ReportSchema.Collection),
		feedback:   NewPostgresStore[domain.Feedback](pool, FeedbackSchema.Collection),
		blogs:      NewPostgresStore[domain.Blog](pool, BlogSchema.Collection),
		admins:     NewPostgresStore[domain.Admin](pool, AdminSchema.Collection),
	}, media, l)
}

func NewMemoryCollections(media Destroyer, l *logger.Logger) *Collections {
	return newCollections(stores{
		bookings:   NewMemoryStore[domain.Booking](),
		recoveries: NewMemoryStore[domain.AccountRecovery](),
		reports:    NewMemoryStore[domain.Report](),
		feedback:   NewMemoryStore[domain.Feedback](),
		blogs:      NewMemoryStore[domain.Blog](),
		admins:     NewMemoryStore[domain.Admin](),
	}, media, l)
}

// Migrate creates tables and indexes for every collection.
func (c *Collections) Migrate(ctx context.Context) error {
	steps := []func(context.Context) error{
		c.Bookings.Migrate,
		c.Recoveries.Migrate,
		c.Reports.Migrate,
		c.Feedback.Migrate,
		c.Blogs.Migrate,
		c.Admins.Migrate,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collections) Ping(ctx context.Context) error {
	return c.Admins.Ping(ctx)
}
