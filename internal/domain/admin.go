package domain

import (
	"net/mail"
	"strings"

	desk_errors "socialdesk/pkg/errors"
)

const (
	MsgInvalidEmail     = "البريد الإلكتروني غير صالح"
	MsgPasswordRequired = "كلمة المرور مطلوبة"
)

type Admin struct {
	Base         `bson:",inline"`
	Email        string `bson:"email" json:"email"`
	PasswordHash string `bson:"password" json:"-"`
	Name         string `bson:"name" json:"name"`
}

func (a *Admin) Attachments() []Attachment {
	return nil
}

// ValidateEmail normalizes email and checks its syntax.
func ValidateEmail(email string) (string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return "", desk_errors.Invalid(MsgInvalidEmail)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", desk_errors.Invalid(MsgInvalidEmail)
	}
	return email, nil
}

type ProfileInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func (p ProfileInput) Apply(a *Admin) error {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return desk_errors.MissingFields([]string{"name"})
		}
		a.Name = name
	}
	if p.Email != nil {
		email, err := ValidateEmail(*p.Email)
		if err != nil {
			return err
		}
		a.Email = email
	}
	return nil
}
