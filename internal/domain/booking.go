package domain

import (
	"strings"
	"time"

	desk_errors "socialdesk/pkg/errors"
)

const (
	MsgInvalidPlatform    = "المنصة غير صحيحة"
	MsgInvalidServiceType = "نوع الخدمة غير صحيح"
	MsgInvalidTime        = "وقت الموعد غير صحيح"
	MsgInvalidDate        = "تاريخ الموعد غير صحيح"
	MsgPastDate           = "لا يمكن حجز موعد في تاريخ سابق"
	MsgSlotTaken          = "هذا الموعد محجوز مسبقاً، يرجى اختيار وقت آخر"
)

type Booking struct {
	Base            `bson:",inline"`
	FullName        string    `bson:"fullName" json:"fullName"`
	PhoneNumber     string    `bson:"phoneNumber" json:"phoneNumber"`
	Email           string    `bson:"email" json:"email"`
	Platform        string    `bson:"platform" json:"platform"`
	ServiceType     string    `bson:"serviceType" json:"serviceType"`
	AppointmentDate time.Time `bson:"appointmentDate" json:"appointmentDate"`
	AppointmentTime string    `bson:"appointmentTime" json:"appointmentTime"`
	AdditionalNotes string    `bson:"additionalNotes,omitempty" json:"additionalNotes,omitempty"`
}

func (b *Booking) Attachments() []Attachment {
	return nil
}

type BookingInput struct {
	FullName        string `json:"fullName" form:"fullName"`
	PhoneNumber     string `json:"phoneNumber" form:"phoneNumber"`
	Email           string `json:"email" form:"email"`
	Platform        string `json:"platform" form:"platform"`
	ServiceType     string `json:"serviceType" form:"serviceType"`
	AppointmentDate string `json:"appointmentDate" form:"appointmentDate"`
	AppointmentTime string `json:"appointmentTime" form:"appointmentTime"`
	AdditionalNotes string `json:"additionalNotes" form:"additionalNotes"`
}

// NewBooking validates in against the booking rules as of now. The service
// type is stored as its display label.
func NewBooking(in BookingInput, now time.Time) (*Booking, error) {
	if err := missing(
		required("fullName", in.FullName),
		required("phoneNumber", in.PhoneNumber),
		required("email", in.Email),
		required("platform", in.Platform),
		required("serviceType", in.ServiceType),
		required("appointmentDate", in.AppointmentDate),
		required("appointmentTime", in.AppointmentTime),
	); err != nil {
		return nil, err
	}

	platform := strings.TrimSpace(in.Platform)
	if _, ok := BookingPlatforms.Label(platform); !ok {
		return nil, desk_errors.InvalidWith(MsgInvalidPlatform, BookingPlatforms.Map())
	}
	service, ok := ServiceTypes.Label(strings.TrimSpace(in.ServiceType))
	if !ok {
		return nil, desk_errors.InvalidWith(MsgInvalidServiceType, ServiceTypes.Map())
	}
	slot := strings.TrimSpace(in.AppointmentTime)
	if !contains(AppointmentTimes, slot) {
		return nil, desk_errors.InvalidWith(MsgInvalidTime, AppointmentTimes)
	}
	date, ok := ParseDate(in.AppointmentDate)
	if !ok {
		return nil, desk_errors.Invalid(MsgInvalidDate)
	}
	if date.Before(now) {
		return nil, desk_errors.Invalid(MsgPastDate)
	}

	return &Booking{
		FullName:        strings.TrimSpace(in.FullName),
		PhoneNumber:     strings.TrimSpace(in.PhoneNumber),
		Email:           normalizeEmail(in.Email),
		Platform:        platform,
		ServiceType:     service,
		AppointmentDate: date,
		AppointmentTime: slot,
		AdditionalNotes: strings.TrimSpace(in.AdditionalNotes),
	}, nil
}
