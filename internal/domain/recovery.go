package domain

import (
	"strings"

	desk_errors "socialdesk/pkg/errors"
)

const (
	MsgInvalidRecoveryPlatform = "يرجى اختيار منصة صالحة"
	MsgIdentityRequired        = "يجب إرفاق مستند هوية واحد على الأقل"
	MsgInvalidStatus           = "حالة الطلب غير صالحة"
)

type AccountRecovery struct {
	Base              `bson:",inline"`
	Platform          string       `bson:"platform" json:"platform"`
	Username          string       `bson:"username" json:"username"`
	PhoneNumber       string       `bson:"phoneNumber" json:"phoneNumber"`
	Email             string       `bson:"email" json:"email"`
	FullName          string       `bson:"fullName" json:"fullName"`
	IDNumber          string       `bson:"idNumber" json:"idNumber"`
	Description       string       `bson:"description" json:"description"`
	IdentityDocuments []Attachment `bson:"identityDocuments" json:"identityDocuments"`
	Status            string       `bson:"status" json:"status"`
}

func (r *AccountRecovery) Attachments() []Attachment {
	return collect(r.IdentityDocuments)
}

type RecoveryInput struct {
	Platform          string       `json:"platform" form:"platform"`
	Username          string       `json:"username" form:"username"`
	PhoneNumber       string       `json:"phoneNumber" form:"phoneNumber"`
	Email             string       `json:"email" form:"email"`
	FullName          string       `json:"fullName" form:"fullName"`
	IDNumber          string       `json:"idNumber" form:"idNumber"`
	Description       string       `json:"description" form:"description"`
	IdentityDocuments []Attachment `json:"identityDocuments" form:"-"`
}

func NewAccountRecovery(in RecoveryInput) (*AccountRecovery, error) {
	if err := missing(
		required("platform", in.Platform),
		required("username", in.Username),
		required("phoneNumber", in.PhoneNumber),
		required("email", in.Email),
		required("fullName", in.FullName),
		required("idNumber", in.IDNumber),
		required("description", in.Description),
	); err != nil {
		return nil, err
	}
	platform := strings.TrimSpace(in.Platform)
	if !contains(RecoveryPlatforms, platform) {
		return nil, desk_errors.InvalidWith(MsgInvalidRecoveryPlatform, RecoveryPlatforms)
	}
	docs := collect(in.IdentityDocuments)
	if len(docs) == 0 {
		return nil, desk_errors.Invalid(MsgIdentityRequired)
	}
	for _, d := range docs {
		if !d.Valid() {
			return nil, desk_errors.Invalid(MsgIdentityRequired)
		}
	}

	return &AccountRecovery{
		Platform:          platform,
		Username:          strings.TrimSpace(in.Username),
		PhoneNumber:       strings.TrimSpace(in.PhoneNumber),
		Email:             normalizeEmail(in.Email),
		FullName:          strings.TrimSpace(in.FullName),
		IDNumber:          strings.TrimSpace(in.IDNumber),
		Description:       strings.TrimSpace(in.Description),
		IdentityDocuments: docs,
		Status:            StatusPending,
	}, nil
}

// ValidateStatus checks an admin supplied status value.
func ValidateStatus(status string) error {
	if !contains(RecoveryStatuses, status) {
		return desk_errors.InvalidWith(MsgInvalidStatus, RecoveryStatuses)
	}
	return nil
}
