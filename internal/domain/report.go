package domain

import (
	"strings"
	"time"

	desk_errors "socialdesk/pkg/errors"
)

const (
	MsgReportDocumentsRequired = "يجب إرفاق المستندات المطلوبة"
	MsgInvalidOccupation       = "المهنة غير صحيحة"
	MsgInvalidIDExpiry         = "تاريخ انتهاء الهوية غير صحيح"
)

type FakeAccount struct {
	Username    string `bson:"username" json:"username" form:"username"`
	Platform    string `bson:"platform" json:"platform" form:"platform"`
	AccountLink string `bson:"accountLink" json:"accountLink" form:"accountLink"`
	Description string `bson:"description" json:"description" form:"description"`
}

type ReportDocuments struct {
	IDImage             *Attachment  `bson:"idImage,omitempty" json:"idImage,omitempty"`
	Screenshots         []Attachment `bson:"screenshots" json:"screenshots"`
	AdditionalDocuments []Attachment `bson:"additionalDocuments" json:"additionalDocuments"`
}

type PersonalInfo struct {
	FirstName     string       `bson:"firstName" json:"firstName"`
	LastName      string       `bson:"lastName" json:"lastName"`
	Occupation    string       `bson:"occupation" json:"occupation"`
	IDNumber      string       `bson:"idNumber" json:"idNumber"`
	IDExpiry      time.Time    `bson:"idExpiry" json:"idExpiry"`
	IdentityProof []Attachment `bson:"identityProof" json:"identityProof"`
}

type RealAccounts struct {
	Facebook  string `bson:"facebook,omitempty" json:"facebook,omitempty"`
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
	Snapchat  string `bson:"snapchat,omitempty" json:"snapchat,omitempty"`
	Tiktok    string `bson:"tiktok,omitempty" json:"tiktok,omitempty"`
	Website   string `bson:"website,omitempty" json:"website,omitempty"`
}

type Report struct {
	Base         `bson:",inline"`
	FakeAccount  FakeAccount     `bson:"fakeAccount" json:"fakeAccount"`
	Documents    ReportDocuments `bson:"documents" json:"documents"`
	PersonalInfo PersonalInfo    `bson:"personalInfo" json:"personalInfo"`
	RealAccounts RealAccounts    `bson:"realAccounts" json:"realAccounts"`
}

func (r *Report) Attachments() []Attachment {
	return collect(
		single(r.Documents.IDImage),
		r.Documents.Screenshots,
		r.Documents.AdditionalDocuments,
		r.PersonalInfo.IdentityProof,
	)
}

type PersonalInfoInput struct {
	FirstName     string       `json:"firstName"`
	LastName      string       `json:"lastName"`
	Occupation    string       `json:"occupation"`
	IDNumber      string       `json:"idNumber"`
	IDExpiry      string       `json:"idExpiry"`
	IdentityProof []Attachment `json:"identityProof"`
}

type ReportInput struct {
	FakeAccount  FakeAccount       `json:"fakeAccount"`
	PersonalInfo PersonalInfoInput `json:"personalInfo"`
	RealAccounts RealAccounts      `json:"realAccounts"`
	Documents    ReportDocuments   `json:"documents"`
}

// HasAttachments reports whether any of the four document slots is filled.
func (in ReportInput) HasAttachments() bool {
	return in.Documents.IDImage != nil ||
		len(in.Documents.Screenshots) > 0 ||
		len(in.Documents.AdditionalDocuments) > 0 ||
		len(in.PersonalInfo.IdentityProof) > 0
}

func NewReport(in ReportInput) (*Report, error) {
	if err := missing(
		required("fakeAccount.username", in.FakeAccount.Username),
		required("fakeAccount.platform", in.FakeAccount.Platform),
		required("fakeAccount.accountLink", in.FakeAccount.AccountLink),
		required("fakeAccount.description", in.FakeAccount.Description),
		required("personalInfo.firstName", in.PersonalInfo.FirstName),
		required("personalInfo.lastName", in.PersonalInfo.LastName),
		required("personalInfo.occupation", in.PersonalInfo.Occupation),
		required("personalInfo.idNumber", in.PersonalInfo.IDNumber),
		required("personalInfo.idExpiry", in.PersonalInfo.IDExpiry),
	); err != nil {
		return nil, err
	}
	platform := strings.TrimSpace(in.FakeAccount.Platform)
	if !contains(ReportPlatforms, platform) {
		return nil, desk_errors.InvalidWith(MsgInvalidPlatform, ReportPlatforms)
	}
	occupation := strings.TrimSpace(in.PersonalInfo.Occupation)
	if !contains(Occupations, occupation) {
		return nil, desk_errors.InvalidWith(MsgInvalidOccupation, Occupations)
	}
	expiry, ok := ParseDate(in.PersonalInfo.IDExpiry)
	if !ok {
		return nil, desk_errors.Invalid(MsgInvalidIDExpiry)
	}
	if !in.HasAttachments() {
		return nil, desk_errors.Invalid(MsgReportDocumentsRequired)
	}

	r := &Report{
		FakeAccount: FakeAccount{
			Username:    strings.TrimSpace(in.FakeAccount.Username),
			Platform:    platform,
			AccountLink: strings.TrimSpace(in.FakeAccount.AccountLink),
			Description: strings.TrimSpace(in.FakeAccount.Description),
		},
		Documents: ReportDocuments{
			IDImage:             in.Documents.IDImage,
			Screenshots:         collect(in.Documents.Screenshots),
			AdditionalDocuments: collect(in.Documents.AdditionalDocuments),
		},
		PersonalInfo: PersonalInfo{
			FirstName:     strings.TrimSpace(in.PersonalInfo.FirstName),
			LastName:      strings.TrimSpace(in.PersonalInfo.LastName),
			Occupation:    occupation,
			IDNumber:      strings.TrimSpace(in.PersonalInfo.IDNumber),
			IDExpiry:      expiry,
			IdentityProof: collect(in.PersonalInfo.IdentityProof),
		},
		RealAccounts: in.RealAccounts,
	}
	for _, a := range r.Attachments() {
		if !a.Valid() {
			return nil, desk_errors.Invalid(MsgReportDocumentsRequired)
		}
	}
	if r.Documents.IDImage != nil && !r.Documents.IDImage.Valid() {
		return nil, desk_errors.Invalid(MsgReportDocumentsRequired)
	}
	return r, nil
}
