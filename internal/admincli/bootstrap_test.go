package admincli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/server/services"
)

type fakeCreator struct {
	got services.RegisterInput
	err error
}

func (f *fakeCreator) CreateAdmin(_ context.Context, in services.RegisterInput) (*services.AuthResult, error) {
	f.got = in
	if f.err != nil {
		return nil, f.err
	}
	return &services.AuthResult{Token: "t", AccountID: "admin-1", Email: in.Email}, nil
}

func notTerminal(t *testing.T) {
	t.Helper()
	old := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = old })
}

func TestRun_CreatesAdmin(t *testing.T) {
	notTerminal(t)

	fc := &fakeCreator{}
	var out bytes.Buffer
	in := strings.NewReader("Root\nAdmin\nroot@x.io\n+1 555\ns3cret\ns3cret\n")

	require.NoError(t, Run(context.Background(), fc, in, &out))

	assert.Equal(t, services.RegisterInput{
		FirstName: "Root", LastName: "Admin", Email: "root@x.io", MobileNumber: "+1 555", Password: "s3cret",
	}, fc.got)
	assert.Contains(t, out.String(), "Admin created: id=admin-1 email=root@x.io")
}

func TestRun_PasswordMismatch(t *testing.T) {
	notTerminal(t)

	fc := &fakeCreator{}
	in := strings.NewReader("Root\nAdmin\nroot@x.io\n1\none\ntwo\n")

	err := Run(context.Background(), fc, in, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrPasswordMismatch)
	assert.Empty(t, fc.got.Email, "nothing created")
}

func TestRun_ServiceError(t *testing.T) {
	notTerminal(t)

	fc := &fakeCreator{err: common.ErrEmailTaken}
	in := strings.NewReader("Root\nAdmin\nroot@x.io\n1\npw\npw\n")

	err := Run(context.Background(), fc, in, &bytes.Buffer{})
	assert.ErrorIs(t, err, common.ErrEmailTaken)
}

func TestRun_ShortInput(t *testing.T) {
	notTerminal(t)

	err := Run(context.Background(), &fakeCreator{}, strings.NewReader("Root\n"), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Last name")
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(bufio.NewReader(strings.NewReader("  hello world \n")), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())

	got, err = GetSimpleText(bufio.NewReader(strings.NewReader("lastline")), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)
}

func TestGetPassword_Terminal(t *testing.T) {
	oldTerm, oldRead := isTerminal, readPassword
	t.Cleanup(func() { isTerminal, readPassword = oldTerm, oldRead })
	isTerminal = func(int) bool { return true }

	readPassword = func(int) ([]byte, error) { return []byte("hidden"), nil }
	var out bytes.Buffer
	got, err := GetPassword(bufio.NewReader(strings.NewReader("")), "Password", &out)
	require.NoError(t, err)
	assert.Equal(t, "hidden", got)
	assert.Equal(t, "Password: \n", out.String())

	readPassword = func(int) ([]byte, error) { return nil, errors.New("boom") }
	_, err = GetPassword(bufio.NewReader(strings.NewReader("")), "Password", &out)
	assert.Error(t, err)
}
