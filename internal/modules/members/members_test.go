package members

import (
	"context"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puyolnw/F/internal/clients/fundapi"
	testingpkg "github.com/puyolnw/F/internal/testing"
)

func newService(t *testing.T) (*Service, *testingpkg.FakeFundAPI) {
	t.Helper()
	fake := testingpkg.NewFakeFundAPI(t)
	return NewService(fundapi.NewClient(fake.URL(), 0, zerolog.Nop()), zerolog.Nop()), fake
}

func validForm() Form {
	return Form{
		IDCardNumber:  "1100100100199",
		FullName:      "ชูใจ ใฝ่ดี",
		BirthDate:     "1995-03-04",
		Gender:        "หญิง",
		PhoneNumber:   "0801234567",
		MaritalStatus: "โสด",
	}
}

func TestForm_Validate(t *testing.T) {
	errs := Form{}.Validate()
	assert.Len(t, errs, 4)
	assert.Contains(t, errs, "id_card_number")
	assert.Contains(t, errs, "full_name")
	assert.Contains(t, errs, "birth_date")
	assert.Contains(t, errs, "phone_number")

	f := validForm()
	assert.Empty(t, f.Validate())

	f.Gender = "อื่น"
	assert.Contains(t, f.Validate(), "gender")
}

func TestFormFrom_Trims(t *testing.T) {
	values := map[string]string{"full_name": "  ชูใจ  ", "phone_number": " 080 "}
	f := FormFrom(func(k string) string { return values[k] })
	assert.Equal(t, "ชูใจ", f.FullName)
	assert.Equal(t, "080", f.PhoneNumber)
}

func TestCreate_RequiresUser(t *testing.T) {
	svc, fake := newService(t)
	msg, err := svc.Create(context.Background(), validForm(), "")
	assert.ErrorIs(t, err, ErrNoUser)
	assert.Equal(t, MsgLoginFirst, msg)
	assert.Equal(t, 0, fake.TotalRequests())
}

func TestCreate_InvalidFormMakesNoCall(t *testing.T) {
	svc, fake := newService(t)
	_, err := svc.Create(context.Background(), Form{FullName: "x"}, "admin")
	var invalid *InvalidFormError
	require.ErrorAs(t, err, &invalid)
	assert.NotContains(t, invalid.Fields, "full_name")
	assert.Equal(t, 0, fake.TotalRequests())
}

func TestCreate_PostsStampedPayload(t *testing.T) {
	svc, fake := newService(t)
	msg, err := svc.Create(context.Background(), validForm(), "admin")
	require.NoError(t, err)
	assert.Equal(t, MsgCreated, msg)

	reqs := fake.Requests(http.MethodPost, "/api/members")
	require.Len(t, reqs, 1)
	body := reqs[0].DecodeBody()
	assert.Equal(t, "0", body["has_account"])
	assert.Equal(t, "admin", body["created_by"])
	assert.Equal(t, "ชูใจ ใฝ่ดี", body["full_name"])
}

func TestCreate_DuplicateShowsServerMessage(t *testing.T) {
	svc, _ := newService(t)
	f := validForm()
	f.IDCardNumber = "1100100100101"

	msg, err := svc.Create(context.Background(), f, "admin")
	require.Error(t, err)
	assert.Equal(t, "เลขบัตรประชาชนนี้มีอยู่ในระบบแล้ว", msg)
}

func TestCreate_FallbackMessage(t *testing.T) {
	svc, fake := newService(t)
	fake.Fail(http.MethodPost, "/api/members", http.StatusInternalServerError, "")

	msg, err := svc.Create(context.Background(), validForm(), "admin")
	require.Error(t, err)
	assert.Equal(t, MsgFailed, msg)
}
