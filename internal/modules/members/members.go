// Package members implements the member list and the add-member form.
package members

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/puyolnw/F/internal/clients/fundapi"
	"github.com/puyolnw/F/internal/domain"
)

const (
	MsgCreated    = "สมาชิกและบัญชีถูกสร้างเรียบร้อยแล้ว"
	MsgFailed     = "เกิดข้อผิดพลาดในการเพิ่มข้อมูล"
	MsgLoginFirst = "กรุณาเข้าสู่ระบบก่อนทำรายการ"
	MsgLoadFailed = "ไม่สามารถโหลดข้อมูลได้"
)

// Allowed choice values.
var (
	Genders         = []string{"ชาย", "หญิง"}
	MaritalStatuses = []string{"โสด", "แต่งงาน"}
)

// API is the part of the fund client used here.
type API interface {
	ListMembers(ctx context.Context) ([]domain.Member, error)
	CreateMember(ctx context.Context, in domain.MemberInput) error
}

// Form is the add-member input.
type Form struct {
	IDCardNumber  string
	FullName      string
	BirthDate     string
	Gender        string
	HouseCode     string
	Address       string
	PhoneNumber   string
	MaritalStatus string
}

// FormFrom reads a Form through get (usually r.PostFormValue).
func FormFrom(get func(string) string) Form {
	v := func(k string) string { return strings.TrimSpace(get(k)) }
	return Form{
		IDCardNumber:  v("id_card_number"),
		FullName:      v("full_name"),
		BirthDate:     v("birth_date"),
		Gender:        v("gender"),
		HouseCode:     v("house_code"),
		Address:       v("address"),
		PhoneNumber:   v("phone_number"),
		MaritalStatus: v("marital_status"),
	}
}

// Validate returns field errors keyed by input name.
func (f Form) Validate() map[string]string {
	errs := map[string]string{}
	if f.IDCardNumber == "" {
		errs["id_card_number"] = "กรุณากรอกเลขบัตรประชาชน"
	}
	if f.FullName == "" {
		errs["full_name"] = "กรุณากรอกชื่อ-นามสกุล"
	}
	if f.BirthDate == "" {
		errs["birth_date"] = "กรุณากรอกวันเกิด"
	}
	if f.PhoneNumber == "" {
		errs["phone_number"] = "กรุณากรอกเบอร์โทรศัพท์"
	}
	if f.Gender != "" && !oneOf(f.Gender, Genders) {
		errs["gender"] = "กรุณาเลือกเพศ"
	}
	if f.MaritalStatus != "" && !oneOf(f.MaritalStatus, MaritalStatuses) {
		errs["marital_status"] = "กรุณาเลือกสถานภาพ"
	}
	return errs
}

func oneOf(v string, options []string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}

// ErrNoUser is returned when nobody is signed in.
var ErrNoUser = errors.New("no signed-in user")

// InvalidFormError carries field errors.
type InvalidFormError struct {
	Fields map[string]string
}

func (e *InvalidFormError) Error() string {
	return "member form is invalid"
}

// Service runs the member screens.
type Service struct {
	api API
	log zerolog.Logger
}

// NewService creates the member service.
func NewService(api API, log zerolog.Logger) *Service {
	return &Service{
		api: api,
		log: log.With().Str("service", "members").Logger(),
	}
}

// List returns every member in API order.
func (s *Service) List(ctx context.Context) ([]domain.Member, error) {
	return s.api.ListMembers(ctx)
}

// Create registers a member stamped with the acting user. New members start
// without an account flag; the API opens the account.
func (s *Service) Create(ctx context.Context, f Form, createdBy string) (string, error) {
	if strings.TrimSpace(createdBy) == "" {
		return MsgLoginFirst, ErrNoUser
	}
	if errs := f.Validate(); len(errs) > 0 {
		return "", &InvalidFormError{Fields: errs}
	}

	in := domain.MemberInput{
		IDCardNumber:  f.IDCardNumber,
		FullName:      f.FullName,
		BirthDate:     f.BirthDate,
		Gender:        f.Gender,
		HouseCode:     f.HouseCode,
		Address:       f.Address,
		PhoneNumber:   f.PhoneNumber,
		MaritalStatus: f.MaritalStatus,
		HasAccount:    "0",
		CreatedBy:     createdBy,
	}
	if err := s.api.CreateMember(ctx, in); err != nil {
		s.log.Warn().Err(err).Str("created_by", createdBy).Msg("Member registration rejected")
		return fundapi.MessageOr(err, MsgFailed), err
	}

	s.log.Info().Str("created_by", createdBy).Msg("Member registered")
	return MsgCreated, nil
}
