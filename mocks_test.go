package auth_test

import (
	"context"
	"encoding/json"

	auth "github.com/goliatone/customer-auth"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-router"
)

// testConfig satisfies auth.Config for wiring authenticators in tests.
type testConfig struct {
	signingKey      string
	tokenExpiration int
	issuer          string
	audience        []string
}

func (c testConfig) GetSigningKey() string    { return c.signingKey }
func (c testConfig) GetSigningMethod() string { return "HS256" }
func (c testConfig) GetContextKey() string    { return auth.ContextKey }
func (c testConfig) GetTokenExpiration() int  { return c.tokenExpiration }
func (c testConfig) GetIssuer() string        { return c.issuer }
func (c testConfig) GetAudience() []string    { return c.audience }

func newTestConfig() testConfig {
	return testConfig{
		signingKey:      "test-signing-key-for-unit-tests!!",
		tokenExpiration: 1,
		issuer:          "test-issuer",
		audience:        []string{"test-audience"},
	}
}

// testIdentity is a plain identity fixture.
type testIdentity struct {
	id       string
	username string
	email    string
	role     string
	locked   bool
}

func (t testIdentity) ID() string       { return t.id }
func (t testIdentity) Username() string { return t.username }
func (t testIdentity) Email() string    { return t.email }
func (t testIdentity) Role() string     { return t.role }
func (t testIdentity) Locked() bool     { return t.locked }

// stubUserStore lets each test plug in just the lookups it needs. Unset
// lookups report record-not-found.
type stubUserStore struct {
	getByUsername   func(ctx context.Context, username string, criteria ...repository.SelectCriteria) (*auth.User, error)
	getByEmail      func(ctx context.Context, email string, criteria ...repository.SelectCriteria) (*auth.User, error)
	getByPhone      func(ctx context.Context, phone string, criteria ...repository.SelectCriteria) (*auth.User, error)
	getByIdentifier func(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*auth.User, error)

	attemptedLogins  int
	successfulLogins int
}

func (s *stubUserStore) GetByUsername(ctx context.Context, username string, criteria ...repository.SelectCriteria) (*auth.User, error) {
	if s.getByUsername == nil {
		return nil, repository.NewRecordNotFound()
	}
	return s.getByUsername(ctx, username, criteria...)
}

func (s *stubUserStore) GetByEmail(ctx context.Context, email string, criteria ...repository.SelectCriteria) (*auth.User, error) {
	if s.getByEmail == nil {
		return nil, repository.NewRecordNotFound()
	}
	return s.getByEmail(ctx, email, criteria...)
}

func (s *stubUserStore) GetByPhone(ctx context.Context, phone string, criteria ...repository.SelectCriteria) (*auth.User, error) {
	if s.getByPhone == nil {
		return nil, repository.NewRecordNotFound()
	}
	return s.getByPhone(ctx, phone, criteria...)
}

func (s *stubUserStore) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*auth.User, error) {
	if s.getByIdentifier == nil {
		return nil, repository.NewRecordNotFound()
	}
	return s.getByIdentifier(ctx, identifier, criteria...)
}

func (s *stubUserStore) TrackAttemptedLogin(ctx context.Context, user *auth.User) error {
	s.attemptedLogins++
	return nil
}

func (s *stubUserStore) TrackSuccessfulLogin(ctx context.Context, user *auth.User) error {
	s.successfulLogins++
	return nil
}

// stubOTPVerifier scripts the OTP backend verdict.
type stubOTPVerifier struct {
	outcome auth.OTPOutcome
	err     error
	calls   int
}

func (s *stubOTPVerifier) VerifyCode(ctx context.Context, userID, code string) (auth.OTPOutcome, error) {
	s.calls++
	return s.outcome, s.err
}

// stubVerifier scripts a chain step.
type stubVerifier struct {
	kind   auth.CredentialKind
	verify func(ctx context.Context, candidate auth.Candidate) (auth.Identity, error)
	calls  int
}

func (s *stubVerifier) Kind() auth.CredentialKind { return s.kind }

func (s *stubVerifier) Verify(ctx context.Context, candidate auth.Candidate) (auth.Identity, error) {
	s.calls++
	if candidate.Kind != s.kind {
		return nil, auth.ErrVerifierNotApplicable
	}
	return s.verify(ctx, candidate)
}

// fakeContext is a stateful router.Context for middleware and controller
// tests: locals, headers, and the written response are all inspectable.
type fakeContext struct {
	path    string
	method  string
	headers map[string]string
	query   map[string]string
	cookies map[string]string
	locals  map[any]any
	ctx     context.Context

	body []byte

	nextCalled  bool
	statusCode  int
	jsonCode    int
	jsonBody    any
	sentString  string
	respHeaders map[string]string
}

func newFakeContext(method, path string) *fakeContext {
	return &fakeContext{
		path:        path,
		method:      method,
		headers:     map[string]string{},
		query:       map[string]string{},
		cookies:     map[string]string{},
		locals:      map[any]any{},
		respHeaders: map[string]string{},
		ctx:         context.Background(),
	}
}

func (f *fakeContext) Next() error { f.nextCalled = true; return nil }

func (f *fakeContext) Context() context.Context       { return f.ctx }
func (f *fakeContext) SetContext(ctx context.Context) { f.ctx = ctx }

func (f *fakeContext) Path() string   { return f.path }
func (f *fakeContext) Method() string { return f.method }
func (f *fakeContext) Body() []byte   { return f.body }

func (f *fakeContext) Status(code int) router.Context {
	f.statusCode = code
	return f
}

func (f *fakeContext) SendString(s string) error { f.sentString = s; return nil }
func (f *fakeContext) Send(b []byte) error       { return nil }

func (f *fakeContext) JSON(code int, val any) error {
	f.jsonCode = code
	f.jsonBody = val
	return nil
}

func (f *fakeContext) NoContent(code int) error { f.statusCode = code; return nil }

func (f *fakeContext) Render(name string, bind any, layout ...string) error { return nil }

func (f *fakeContext) Redirect(path string, status ...int) error { return nil }

func (f *fakeContext) RedirectToRoute(name string, data router.ViewContext, status ...int) error {
	return nil
}

func (f *fakeContext) RedirectBack(fallback string, status ...int) error { return nil }

func (f *fakeContext) SetHeader(key, val string) router.Context {
	f.respHeaders[key] = val
	return f
}

func (f *fakeContext) Header(key string) string { return f.headers[key] }

func (f *fakeContext) Get(key string, defaultValue any) any {
	if v, ok := f.locals[key]; ok {
		return v
	}
	return defaultValue
}

func (f *fakeContext) GetBool(key string, defaultValue bool) bool { return defaultValue }
func (f *fakeContext) GetInt(key string, def int) int             { return def }
func (f *fakeContext) Set(key string, val any)                    { f.locals[key] = val }

func (f *fakeContext) Bind(i any) error {
	if len(f.body) == 0 {
		return nil
	}
	return json.Unmarshal(f.body, i)
}

func (f *fakeContext) BindJSON(i any) error  { return f.Bind(i) }
func (f *fakeContext) BindXML(i any) error   { return nil }
func (f *fakeContext) BindQuery(i any) error { return nil }

func (f *fakeContext) CookieParser(i any) error     { return nil }
func (f *fakeContext) Cookie(cookie *router.Cookie) {}

func (f *fakeContext) Cookies(key string, defaultValue ...string) string {
	if v, ok := f.cookies[key]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (f *fakeContext) Param(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (f *fakeContext) ParamsInt(key string, defaultValue int) int { return defaultValue }

func (f *fakeContext) Query(key string, defaultValue string) string {
	if v, ok := f.query[key]; ok {
		return v
	}
	return defaultValue
}

func (f *fakeContext) QueryInt(key string, defaultValue int) int { return defaultValue }
func (f *fakeContext) Queries() map[string]string                { return f.query }

func (f *fakeContext) GetString(key string, defaultValue string) string {
	if v, ok := f.headers[key]; ok {
		return v
	}
	return defaultValue
}

func (f *fakeContext) Locals(key any, value ...any) any {
	if len(value) > 0 {
		f.locals[key] = value[0]
		return nil
	}
	return f.locals[key]
}

func (f *fakeContext) OriginalURL() string          { return f.path }
func (f *fakeContext) OnNext(callback func() error) {}
func (f *fakeContext) Referer() string              { return "" }
