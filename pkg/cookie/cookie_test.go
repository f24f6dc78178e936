package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pdfmail/pkg/cookie"
)

const testSecret = "this-is-a-32-byte-or-longer-key!"

func newManager(t *testing.T) *cookie.Manager {
	t.Helper()
	m, err := cookie.New(cookie.Config{Secret: testSecret, Domain: "example.com", Secure: true})
	require.NoError(t, err)
	return m
}

// carry copies the cookies set on rec into a fresh request.
func carry(rec *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/content/42", nil)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 {
			r.AddCookie(c)
		}
	}
	return r
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := cookie.New(cookie.Config{Secret: "short"})
	require.ErrorIs(t, err, cookie.ErrBadSecret)

	m, err := cookie.New(cookie.Config{})
	require.NoError(t, err)
	require.NotNil(t, m)
}

func TestEncrypted_RoundTrip(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	rec := httptest.NewRecorder()
	require.NoError(t, m.SetEncrypted(rec, "state", []byte("hello"), 60))

	c := rec.Result().Cookies()[0]
	assert.Equal(t, "example.com", c.Domain)
	assert.True(t, c.Secure)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.NotContains(t, c.Value, "hello")

	got, err := m.GetEncrypted(carry(rec), "state")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestEncrypted_Errors(t *testing.T) {
	t.Parallel()

	m := newManager(t)

	_, err := m.GetEncrypted(httptest.NewRequest(http.MethodGet, "/", nil), "missing")
	require.ErrorIs(t, err, cookie.ErrNotFound)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "state", Value: "not-base64!"})
	_, err = m.GetEncrypted(r, "state")
	require.ErrorIs(t, err, cookie.ErrDecrypt)

	other, err := cookie.New(cookie.Config{Secret: "another-32-byte-or-longer-secret!"})
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	require.NoError(t, other.SetEncrypted(rec, "state", []byte("x"), 0))
	_, err = m.GetEncrypted(carry(rec), "state")
	require.ErrorIs(t, err, cookie.ErrDecrypt)
}

func TestEncrypted_BoundToName(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	rec := httptest.NewRecorder()
	require.NoError(t, m.SetEncrypted(rec, "a", []byte("x"), 0))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "b", Value: rec.Result().Cookies()[0].Value})
	_, err := m.GetEncrypted(r, "b")
	require.ErrorIs(t, err, cookie.ErrDecrypt)
}

func TestFlash(t *testing.T) {
	t.Parallel()

	m := newManager(t)

	rec := httptest.NewRecorder()
	require.NoError(t, m.AddFlash(rec, httptest.NewRequest(http.MethodPost, "/content/42/email", nil),
		cookie.FlashMessage{Level: cookie.FlashSuccess, Text: "Email sent successfully"}))

	next := carry(rec)
	rec2 := httptest.NewRecorder()
	msgs := m.Flashes(rec2, next)
	require.Equal(t, []cookie.FlashMessage{{Level: cookie.FlashSuccess, Text: "Email sent successfully"}}, msgs)

	cleared := rec2.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)
}

func TestFlash_Accumulates(t *testing.T) {
	t.Parallel()

	m := newManager(t)

	rec := httptest.NewRecorder()
	require.NoError(t, m.AddFlash(rec, httptest.NewRequest(http.MethodGet, "/", nil),
		cookie.FlashMessage{Level: cookie.FlashInfo, Text: "first"}))

	rec2 := httptest.NewRecorder()
	require.NoError(t, m.AddFlash(rec2, carry(rec), cookie.FlashMessage{Level: cookie.FlashError, Text: "second"}))

	msgs := m.Flashes(httptest.NewRecorder(), carry(rec2))
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Text)
	assert.Equal(t, "second", msgs[1].Text)
}

func TestFlashes_NoneOrTampered(t *testing.T) {
	t.Parallel()

	m := newManager(t)

	rec := httptest.NewRecorder()
	assert.Nil(t, m.Flashes(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.Empty(t, rec.Result().Cookies())

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "flash", Value: "garbage"})
	rec = httptest.NewRecorder()
	assert.Nil(t, m.Flashes(rec, r))
	require.Len(t, rec.Result().Cookies(), 1)
}
