package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls  []string
	search string
	err    error
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Guest(ctx context.Context) error {
	f.calls = append(f.calls, "guest")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) Profile(ctx context.Context) error {
	f.calls = append(f.calls, "profile")
	return f.err
}
func (f *fakeExec) EditProfile(ctx context.Context) error {
	f.calls = append(f.calls, "edit")
	return nil
}
func (f *fakeExec) ListUsers(ctx context.Context, search string) error {
	f.calls = append(f.calls, "users")
	f.search = search
	return nil
}
func (f *fakeExec) Ping(ctx context.Context) error { f.calls = append(f.calls, "ping"); return nil }

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	input := rdr("help\n\nlogin\nhelp\nprofile\nedit\nusers jo hn\nping\nfoobar\nlogout\nexit\nprofile\n")
	var out bytes.Buffer
	exec := &fakeExec{}

	runREPL(context.Background(), exec, func() string { return "(s)" }, input, &out)

	assert.Equal(t, []string{"login", "profile", "edit", "users", "ping", "logout"}, exec.calls)
	assert.Equal(t, "jo hn", exec.search)
	assert.Contains(t, out.String(), "chat (s)> ")
	assert.Contains(t, out.String(), "Available commands: register, login, guest, ping, exit")
	assert.Contains(t, out.String(), "Available commands: profile, edit, users [search], ping, logout, exit")
	assert.Contains(t, out.String(), "Unknown command: foobar")
	assert.Contains(t, out.String(), "Bye!")
}

func TestRunREPL_ProtectedCommandsNeedLogin(t *testing.T) {
	var out bytes.Buffer
	exec := &fakeExec{}

	runREPL(context.Background(), exec, func() string { return "" }, rdr("profile\nedit\nusers\nquit\n"), &out)

	assert.Empty(t, exec.calls)
	assert.Contains(t, out.String(), errNotLoggedIn.Error())
}

func TestRunREPL_PrintsCommandErrors(t *testing.T) {
	var out bytes.Buffer
	exec := &fakeExec{loggedIn: true, err: errors.New("boom")}

	runREPL(context.Background(), exec, func() string { return "" }, rdr("me\n"), &out)

	assert.Equal(t, []string{"profile"}, exec.calls)
	assert.Contains(t, out.String(), "error: boom")
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	var out bytes.Buffer
	exec := &fakeExec{}

	runREPL(context.Background(), exec, func() string { return "" }, rdr("guest"), &out)

	assert.Equal(t, []string{"guest"}, exec.calls)
}
