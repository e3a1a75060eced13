package blog_test

import (
	"context"
	"mime/multipart"
	"time"

	blog "github.com/goliatone/go-blog"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// testIdentity implements blog.Identity
type testIdentity struct {
	id    string
	name  string
	email string
	role  string
}

func (i testIdentity) ID() string    { return i.id }
func (i testIdentity) Name() string  { return i.name }
func (i testIdentity) Email() string { return i.email }
func (i testIdentity) Role() string  { return i.role }

func newTestIdentity() testIdentity {
	return testIdentity{
		id:    uuid.NewString(),
		name:  "Ada Lovelace",
		email: "ada@example.com",
		role:  "user",
	}
}

// testConfig implements blog.Config
type testConfig struct {
	signingKey        string
	tokenExpiration   int
	refreshExpiration int
}

func (c testConfig) GetSigningKey() string {
	if c.signingKey == "" {
		return "test-signing-key"
	}
	return c.signingKey
}

func (c testConfig) GetSigningMethod() string { return "HS256" }
func (c testConfig) GetContextKey() string    { return "user" }

func (c testConfig) GetTokenExpiration() int {
	if c.tokenExpiration == 0 {
		return 1
	}
	return c.tokenExpiration
}

func (c testConfig) GetRefreshExpiration() int {
	if c.refreshExpiration == 0 {
		return 24 * 7
	}
	return c.refreshExpiration
}

func (c testConfig) GetTokenLookup() string { return "" }
func (c testConfig) GetAuthScheme() string  { return "Bearer" }
func (c testConfig) GetIssuer() string      { return "go-blog-test" }
func (c testConfig) GetAudience() []string  { return nil }

// MockAuthenticator implements blog.Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, email, password string) (*blog.TokenPair, blog.Identity, error) {
	args := m.Called(ctx, email, password)
	var pair *blog.TokenPair
	if p, ok := args.Get(0).(*blog.TokenPair); ok {
		pair = p
	}
	var identity blog.Identity
	if i, ok := args.Get(1).(blog.Identity); ok {
		identity = i
	}
	return pair, identity, args.Error(2)
}

func (m *MockAuthenticator) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	args := m.Called(ctx, refreshToken)
	exp, _ := args.Get(1).(time.Time)
	return args.String(0), exp, args.Error(2)
}

// fakeRegistry implements blog.AccountRegistrerer
type fakeRegistry struct {
	err error
	got []blog.RegisterUserMessage
}

func (f *fakeRegistry) RegisterUser(ctx context.Context, msg blog.RegisterUserMessage) error {
	f.got = append(f.got, msg)
	return f.err
}

// fakeUserStore implements blog.UserStore keyed by normalized email
type fakeUserStore struct {
	users map[string]*blog.User
	err   error
}

func (s fakeUserStore) GetByEmail(ctx context.Context, email string) (*blog.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	user, ok := s.users[email]
	if !ok {
		return nil, repository.NewRecordNotFound()
	}
	return user, nil
}

// fakePosts stubs the post store for controller tests. Unused methods
// panic through the embedded nil interface.
type fakePosts struct {
	blog.Posts
	byID    map[uuid.UUID]*blog.Post
	created *blog.Post
	updated *blog.Post
	deleted []uuid.UUID
}

func newFakePosts(records ...*blog.Post) *fakePosts {
	byID := map[uuid.UUID]*blog.Post{}
	for _, p := range records {
		byID[p.ID] = p
	}
	return &fakePosts{byID: byID}
}

func (f *fakePosts) GetWithAuthor(ctx context.Context, id uuid.UUID) (*blog.Post, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, repository.NewRecordNotFound()
	}
	return p, nil
}

func (f *fakePosts) Create(ctx context.Context, record *blog.Post, criteria ...repository.InsertCriteria) (*blog.Post, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	f.created = record
	return record, nil
}

func (f *fakePosts) Update(ctx context.Context, record *blog.Post, criteria ...repository.UpdateCriteria) (*blog.Post, error) {
	f.updated = record
	return record, nil
}

func (f *fakePosts) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return repository.NewRecordNotFound()
	}
	f.deleted = append(f.deleted, id)
	delete(f.byID, id)
	return nil
}

func (f *fakePosts) ListAll(ctx context.Context) ([]*blog.Post, error) {
	records := []*blog.Post{}
	for _, p := range f.byID {
		records = append(records, p)
	}
	return records, nil
}

func (f *fakePosts) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*blog.Post, error) {
	records := []*blog.Post{}
	for _, p := range f.byID {
		if p.AuthorID == authorID {
			records = append(records, p)
		}
	}
	return records, nil
}

// accessClaims builds validated-looking claims for authorization tests
func accessClaims(userID uuid.UUID, role blog.UserRole) blog.AuthClaims {
	return &blog.JWTClaims{
		UID:      userID.String(),
		UserRole: string(role),
		TokenUse: blog.TokenPurposeAccess,
	}
}

// MockContext mocks router.Context
type MockContext struct {
	mock.Mock
	NextCalled bool
}

func (m *MockContext) Next() error {
	m.NextCalled = true
	return nil
}

func (m *MockContext) Context() context.Context {
	args := m.Called()
	c, ok := args.Get(0).(context.Context)
	if !ok {
		panic("arg needs to be context.Context")
	}
	return c
}

func (m *MockContext) SetContext(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockContext) Path() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) Method() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) Body() []byte {
	args := m.Called()
	return args.Get(0).([]byte)
}

func (m *MockContext) Status(code int) router.Context {
	m.Called(code)
	return m
}

func (m *MockContext) SendString(s string) error {
	args := m.Called(s)
	return args.Error(0)
}

func (m *MockContext) Send(b []byte) error {
	args := m.Called(b)
	return args.Error(0)
}

func (m *MockContext) JSON(code int, val any) error {
	args := m.Called(code, val)
	return args.Error(0)
}

func (m *MockContext) NoContent(code int) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *MockContext) Render(name string, bind any, layout ...string) error {
	if len(layout) > 0 {
		args := m.Called(name, bind, layout[0])
		return args.Error(0)
	}
	args := m.Called(name, bind)
	return args.Error(0)
}

func (m *MockContext) Redirect(path string, status ...int) error {
	if len(status) > 0 {
		args := m.Called(path, status)
		return args.Error(0)
	}
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockContext) RedirectToRoute(name string, data router.ViewContext, status ...int) error {
	if len(status) > 0 {
		args := m.Called(name, data, status[0])
		return args.Error(0)
	}
	args := m.Called(name, data)
	return args.Error(0)
}

func (m *MockContext) RedirectBack(fallback string, status ...int) error {
	if len(status) > 0 {
		args := m.Called(fallback, status)
		return args.Error(0)
	}
	args := m.Called(fallback)
	return args.Error(0)
}

func (m *MockContext) SetHeader(key, val string) router.Context {
	m.Called(key, val)
	return m
}

func (m *MockContext) Header(key string) string {
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) Get(key string, defaultValue any) any {
	args := m.Called(key, defaultValue)
	return args.Get(0)
}

func (m *MockContext) GetBool(key string, defaultValue bool) bool {
	args := m.Called(key, defaultValue)
	return args.Bool(0)
}

func (m *MockContext) GetInt(key string, def int) int {
	args := m.Called(key, def)
	return args.Int(0)
}

func (m *MockContext) Set(key string, val any) {
	m.Called(key, val)
}

func (m *MockContext) Bind(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindJSON(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindXML(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindQuery(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) CookieParser(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) Cookie(cookie *router.Cookie) {
	m.Called(cookie)
}

func (m *MockContext) Cookies(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) Param(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) ParamsInt(key string, defaultValue int) int {
	args := m.Called(key, defaultValue)
	return args.Int(0)
}

func (m *MockContext) Query(key string, defaultValue ...string) string {
	args := m.Called(key, defaultValue)
	return args.String(0)
}

func (m *MockContext) QueryInt(key string, defaultValue int) int {
	args := m.Called(key, defaultValue)
	return args.Int(0)
}

func (m *MockContext) Queries() map[string]string {
	args := m.Called()
	return args.Get(0).(map[string]string)
}

func (m *MockContext) FormValue(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) FormFile(key string) (*multipart.FileHeader, error) {
	args := m.Called(key)
	header, _ := args.Get(0).(*multipart.FileHeader)
	return header, args.Error(1)
}

func (m *MockContext) GetString(key string, defaultValue string) string {
	args := m.Called(key, defaultValue)
	return args.String(0)
}

func (m *MockContext) Locals(key any, value ...any) any {
	if len(value) > 0 {
		m.Called(key, value[0])
		return nil
	}
	args := m.Called(key)
	return args.Get(0)
}

func (m *MockContext) OriginalURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) OnNext(callback func() error) {
	m.Called(callback)
}

func (m *MockContext) Referer() string {
	args := m.Called()
	return args.String(0)
}
