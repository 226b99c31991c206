package account

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/questlog/internal/client/client"
	"github.com/dmitrijs2005/questlog/internal/logging"
)

// ---- fake client ----

type fakeClient struct {
	SignUpErr     error
	SignInErr     error
	SignOutErr    error
	GetUserRet    *client.Principal
	GetUserErr    error
	GetProfileRet *client.Profile
	GetProfileErr error
	RPCErr        error

	LastSignUpEmail       string
	LastSignUpPassword    string
	LastSignUpDisplayName string
	LastSignInEmail       string
	LastSignInPassword    string
	LastProfileID         string
	LastRPCName           string

	// during runs inside every remote call, before it returns.
	during func(method string)

	mu    sync.Mutex
	calls []string
}

func (f *fakeClient) record(method string) {
	f.mu.Lock()
	f.calls = append(f.calls, method)
	f.mu.Unlock()
	if f.during != nil {
		f.during(method)
	}
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeClient) count(method string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == method {
			n++
		}
	}
	return n
}

func (f *fakeClient) SignUp(ctx context.Context, email, password, displayName string) error {
	f.LastSignUpEmail, f.LastSignUpPassword, f.LastSignUpDisplayName = email, password, displayName
	f.record("SignUp")
	return f.SignUpErr
}

func (f *fakeClient) SignInWithPassword(ctx context.Context, email, password string) error {
	f.LastSignInEmail, f.LastSignInPassword = email, password
	f.record("SignIn")
	return f.SignInErr
}

func (f *fakeClient) SignOut(ctx context.Context) error {
	f.record("SignOut")
	return f.SignOutErr
}

func (f *fakeClient) GetUser(ctx context.Context) (*client.Principal, error) {
	f.record("GetUser")
	return f.GetUserRet, f.GetUserErr
}

func (f *fakeClient) GetProfile(ctx context.Context, userID string) (*client.Profile, error) {
	f.LastProfileID = userID
	f.record("GetProfile")
	return f.GetProfileRet, f.GetProfileErr
}

func (f *fakeClient) RPC(ctx context.Context, name string) error {
	f.LastRPCName = name
	f.record("RPC")
	return f.RPCErr
}

func (f *fakeClient) VerifyEmail(ctx context.Context, token string) error { return nil }
func (f *fakeClient) Ping(ctx context.Context) error                      { return nil }
func (f *fakeClient) Close() error                                        { return nil }

// ---- fake navigator ----

type fakeNav struct {
	events []string
}

func (n *fakeNav) Push(v View)   { n.events = append(n.events, "push "+string(v)) }
func (n *fakeNav) Refresh()      { n.events = append(n.events, "refresh") }
func (n *fakeNav) Reload(v View) { n.events = append(n.events, "reload "+string(v)) }

// ---- fake storage ----

type fakeStorage struct {
	data      map[string]string
	DeleteErr error
	deletes   int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{data: map[string]string{}}
}

func (s *fakeStorage) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *fakeStorage) Delete(ctx context.Context, key string) error {
	s.deletes++
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	delete(s.data, key)
	return nil
}

// ---- recording logger ----

type logEntry struct {
	level string
	msg   string
}

type recLogger struct {
	mu      *sync.Mutex
	entries *[]logEntry
}

func newRecLogger() recLogger {
	return recLogger{mu: &sync.Mutex{}, entries: &[]logEntry{}}
}

func (l recLogger) add(level, msg string) {
	l.mu.Lock()
	*l.entries = append(*l.entries, logEntry{level: level, msg: msg})
	l.mu.Unlock()
}

func (l recLogger) Debug(ctx context.Context, msg string, args ...any) { l.add("debug", msg) }
func (l recLogger) Info(ctx context.Context, msg string, args ...any)  { l.add("info", msg) }
func (l recLogger) Warn(ctx context.Context, msg string, args ...any)  { l.add("warn", msg) }
func (l recLogger) Error(ctx context.Context, msg string, args ...any) { l.add("error", msg) }
func (l recLogger) With(args ...any) logging.Logger                    { return l }

func (l recLogger) has(level string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range *l.entries {
		if e.level == level {
			return true
		}
	}
	return false
}
