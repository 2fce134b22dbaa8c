package http

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watchlist/internal/domain"
	"watchlist/internal/repository/orm"
	"watchlist/internal/service"
	"watchlist/internal/session"
	"watchlist/internal/testutil"
)

const (
	testUsername = "admin"
	testPassword = "hunter2"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	store  *orm.Store
	router *gin.Engine
	owner  *domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.OpenStore(t)
	owner := testutil.CreateUser(t, store, "Grey Li", testUsername, testPassword)

	sessions, err := session.NewManager(session.Config{Secret: "test-secret"})
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	h := NewHandler(
		service.NewMovieService(store.Movies()),
		service.NewUserService(store.Users()),
		sessions,
		logger,
	)
	return &fixture{store: store, router: NewRouter(h), owner: owner}
}

func (f *fixture) movies(t *testing.T) []domain.Movie {
	t.Helper()
	list, err := f.store.Movies().List(t.Context())
	require.NoError(t, err)
	return list
}

// browser replays cookies between requests like a real client would.
type browser struct {
	t      *testing.T
	router http.Handler
	jar    *cookiejar.Jar
	base   *url.URL
}

func newBrowser(t *testing.T, f *fixture) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	base, _ := url.Parse("http://watchlist.test/")
	return &browser{t: t, router: f.router, jar: jar, base: base}
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	for _, c := range b.jar.Cookies(b.base) {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.router.ServeHTTP(rec, req)
	b.jar.SetCookies(b.base, rec.Result().Cookies())
	return rec
}

func (b *browser) login() {
	b.t.Helper()
	rec := b.post("/login", url.Values{"username": {testUsername}, "password": {testPassword}})
	require.Equal(b.t, http.StatusSeeOther, rec.Code)
	require.Equal(b.t, "/", rec.Header().Get("Location"))
}

func movieValues(title, year string) url.Values {
	return url.Values{"title": {title}, "year": {year}}
}

func editPath(id int64) string {
	return "/movie/edit/" + strconv.FormatInt(id, 10)
}

func deletePath(id int64) string {
	return "/movie/delete/" + strconv.FormatInt(id, 10)
}

func TestIndex_ListsMovies(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	testutil.CreateMovie(t, f.store, "My Neighbor Totoro", "1988")
	testutil.CreateMovie(t, f.store, "WALL-E", "2008")

	rec := newBrowser(t, f).get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Grey Li's Watchlist")
	assert.Contains(t, body, "2 Titles")
	assert.Contains(t, body, "My Neighbor Totoro - 1988")
	assert.Contains(t, body, "WALL-E - 2008")
	assert.NotContains(t, body, `action="/"`, "anonymous visitors get no create form")
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestCreateMovie(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	b := newBrowser(t, f)
	b.login()

	rec := b.post("/", movieValues("Leon", "1994"))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	movies := f.movies(t)
	require.Len(t, movies, 1)
	assert.Equal(t, "Leon", movies[0].Title)
	assert.Equal(t, "1994", movies[0].Year)

	page := b.get("/")
	assert.Contains(t, page.Body.String(), "Item created.")
	assert.Contains(t, page.Body.String(), "Leon - 1994")

	// the flash is shown once
	assert.NotContains(t, b.get("/").Body.String(), "Item created.")
}

func TestCreateMovie_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		title string
		year  string
	}{
		{name: "empty title", title: "", year: "1994"},
		{name: "title too long", title: strings.Repeat("t", 61), year: "1994"},
		{name: "empty year", title: "Leon", year: ""},
		{name: "short year", title: "Leon", year: "94"},
		{name: "long year", title: "Leon", year: "19999"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			b := newBrowser(t, f)
			b.login()

			rec := b.post("/", movieValues(test.title, test.year))
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/", rec.Header().Get("Location"))
			assert.Empty(t, f.movies(t))
			assert.Contains(t, b.get("/").Body.String(), "Invalid input.")
		})
	}
}

func TestAnonymousWritesAreRejected(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	movie := testutil.CreateMovie(t, f.store, "Mahjong", "1996")
	b := newBrowser(t, f)

	tests := []struct {
		path     string
		form     url.Values
		location string
	}{
		{path: "/", form: movieValues("Leon", "1994"), location: "/"},
		{path: deletePath(movie.ID), location: "/login"},
		{path: editPath(movie.ID), form: movieValues("Changed", "2000"), location: "/login"},
		{path: "/settings", form: url.Values{"name": {"Mallory"}}, location: "/login"},
	}
	for _, test := range tests {
		rec := b.post(test.path, test.form)
		assert.Equal(t, http.StatusSeeOther, rec.Code, test.path)
		assert.Equal(t, test.location, rec.Header().Get("Location"), test.path)
	}

	movies := f.movies(t)
	require.Len(t, movies, 1)
	assert.Equal(t, "Mahjong", movies[0].Title)
	assert.Equal(t, "1996", movies[0].Year)

	owner, err := f.store.Users().GetByID(t.Context(), f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grey Li", owner.Name)
}

func TestProtectedPagesRedirectToLogin(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	movie := testutil.CreateMovie(t, f.store, "Mahjong", "1996")
	b := newBrowser(t, f)

	for _, path := range []string{"/settings", "/logout", editPath(movie.ID)} {
		rec := b.get(path)
		assert.Equal(t, http.StatusFound, rec.Code, path)
		assert.Equal(t, "/login", rec.Header().Get("Location"), path)
	}
}

func TestEditMovie(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	movie := testutil.CreateMovie(t, f.store, "Mahjong", "1996")
	b := newBrowser(t, f)
	b.login()

	page := b.get(editPath(movie.ID))
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), `value="Mahjong"`)
	assert.Contains(t, page.Body.String(), `value="1996"`)

	rec := b.post(editPath(movie.ID), movieValues("Mahjong", "19999"))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, editPath(movie.ID), rec.Header().Get("Location"))
	assert.Equal(t, "1996", f.movies(t)[0].Year)
	assert.Contains(t, b.get(editPath(movie.ID)).Body.String(), "Invalid input.")

	rec = b.post(editPath(movie.ID), movieValues("Mahjong Redux", "1997"))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	movies := f.movies(t)
	require.Len(t, movies, 1)
	assert.Equal(t, movie.ID, movies[0].ID)
	assert.Equal(t, "Mahjong Redux", movies[0].Title)
	assert.Equal(t, "1997", movies[0].Year)
	assert.Contains(t, b.get("/").Body.String(), "Item updated.")
}

func TestEditMovie_NotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	existing := testutil.CreateMovie(t, f.store, "Leon", "1994")
	b := newBrowser(t, f)
	b.login()

	missing := existing.ID + 100
	assert.Equal(t, http.StatusNotFound, b.get(editPath(missing)).Code)

	rec := b.post(editPath(missing), movieValues("Ghost", "2001"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page Not Found")

	assert.Equal(t, http.StatusNotFound, b.get("/movie/edit/abc").Code)

	movies := f.movies(t)
	require.Len(t, movies, 1)
	assert.Equal(t, "Leon", movies[0].Title)
}

func TestDeleteMovie(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	keep := testutil.CreateMovie(t, f.store, "Leon", "1994")
	target := testutil.CreateMovie(t, f.store, "WALL-E", "2008")
	b := newBrowser(t, f)
	b.login()

	rec := b.post(deletePath(target.ID), nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	movies := f.movies(t)
	require.Len(t, movies, 1)
	assert.Equal(t, keep.ID, movies[0].ID)
	assert.Contains(t, b.get("/").Body.String(), "Item deleted.")

	assert.Equal(t, http.StatusNotFound, b.post(deletePath(target.ID), nil).Code)
	assert.Len(t, f.movies(t), 1)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		username string
		password string
		flash    string
	}{
		{name: "wrong password", username: testUsername, password: "nope", flash: "Invalid username or password."},
		{name: "wrong username", username: "root", password: testPassword, flash: "Invalid username or password."},
		{name: "missing password", username: testUsername, password: "", flash: "Invalid input."},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			b := newBrowser(t, f)

			rec := b.post("/login", url.Values{"username": {test.username}, "password": {test.password}})
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/login", rec.Header().Get("Location"))
			assert.Contains(t, b.get("/login").Body.String(), test.flash)

			// still anonymous
			assert.Equal(t, http.StatusFound, b.get("/settings").Code)
		})
	}

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		b := newBrowser(t, f)
		b.login()

		page := b.get("/")
		assert.Contains(t, page.Body.String(), "Login success.")
		assert.Contains(t, page.Body.String(), `href="/logout"`)
		assert.Equal(t, http.StatusOK, b.get("/settings").Code)
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	b := newBrowser(t, f)
	b.login()

	rec := b.get("/logout")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Contains(t, b.get("/").Body.String(), "Goodbye.")

	assert.Equal(t, http.StatusFound, b.get("/settings").Code)
}

func TestSession_UnknownUserIsAnonymous(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	sessions, err := session.NewManager(session.Config{Secret: "test-secret"})
	require.NoError(t, err)

	issued := httptest.NewRecorder()
	require.NoError(t, sessions.Issue(issued, f.owner.ID+50))

	req := httptest.NewRequest(http.MethodGet, "/settings", nil)
	for _, c := range issued.Result().Cookies() {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestSettings(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	b := newBrowser(t, f)
	b.login()

	page := b.get("/settings")
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), `value="Grey Li"`)

	for _, name := range []string{"", strings.Repeat("n", 21)} {
		rec := b.post("/settings", url.Values{"name": {name}})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/settings", rec.Header().Get("Location"))
	}
	owner, err := f.store.Users().GetByID(t.Context(), f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grey Li", owner.Name)

	rec := b.post("/settings", url.Values{"name": {"Sun Zhao"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	page = b.get("/")
	assert.Contains(t, page.Body.String(), "Settings updated.")
	assert.Contains(t, page.Body.String(), "Sun Zhao's Watchlist")
}

func TestNotFoundPage(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	rec := newBrowser(t, f).get("/no/such/page")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page Not Found - 404")
}

func TestServerErrorPage(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	require.NoError(t, f.store.Close())

	rec := newBrowser(t, f).get("/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal Server Error - 500")
}

func TestPanicRecovery(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.router.GET("/boom", func(*gin.Context) { panic("boom") })

	rec := newBrowser(t, f).get("/boom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal Server Error - 500")
}
