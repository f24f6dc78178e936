package cookie

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
)

var (
	ErrNotFound  = errors.New("cookie: not found")
	ErrBadSecret = errors.New("cookie: secret must be 32+ bytes")
	ErrDecrypt   = errors.New("cookie: decryption failed")
)

// Config holds cookie settings. An empty Secret makes New generate a
// random per-process key, so cookies do not survive a restart.
type Config struct {
	Secret   string `env:"COOKIE_SECRET"`
	Domain   string `env:"COOKIE_DOMAIN"`
	Secure   bool   `env:"COOKIE_SECURE" envDefault:"false"`
	SameSite http.SameSite
}

// Manager writes AES-GCM encrypted cookies.
type Manager struct {
	aead     cipher.AEAD
	domain   string
	secure   bool
	sameSite http.SameSite
}

// New creates a Manager. It fails with ErrBadSecret when Secret is set but
// shorter than 32 bytes.
func New(cfg Config) (*Manager, error) {
	secret := []byte(cfg.Secret)
	switch {
	case len(secret) == 0:
		secret = make([]byte, 32)
		if _, err := io.ReadFull(rand.Reader, secret); err != nil {
			return nil, err
		}
	case len(secret) < 32:
		return nil, ErrBadSecret
	}

	key := sha256.Sum256(secret)
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	sameSite := cfg.SameSite
	if sameSite == 0 {
		sameSite = http.SameSiteLaxMode
	}

	return &Manager{
		aead:     aead,
		domain:   cfg.Domain,
		secure:   cfg.Secure,
		sameSite: sameSite,
	}, nil
}

// GetEncrypted returns the decrypted value of the named cookie.
func (m *Manager) GetEncrypted(r *http.Request, name string) ([]byte, error) {
	c, err := r.Cookie(name)
	if errors.Is(err, http.ErrNoCookie) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	data, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil, ErrDecrypt
	}

	size := m.aead.NonceSize()
	if len(data) < size {
		return nil, ErrDecrypt
	}
	// The cookie name is authenticated so a value cannot be moved to another cookie.
	plain, err := m.aead.Open(nil, data[:size], data[size:], []byte(name))
	if err != nil {
		return nil, ErrDecrypt
	}
	return plain, nil
}

// SetEncrypted writes value encrypted. maxAge follows http.Cookie semantics.
func (m *Manager) SetEncrypted(w http.ResponseWriter, name string, value []byte, maxAge int) error {
	nonce := make([]byte, m.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return err
	}

	sealed := m.aead.Seal(nonce, nonce, value, []byte(name))
	http.SetCookie(w, m.cookie(name, base64.RawURLEncoding.EncodeToString(sealed), maxAge))
	return nil
}

// Delete expires the named cookie.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, m.cookie(name, "", -1))
}

func (m *Manager) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   m.domain,
		MaxAge:   maxAge,
		Secure:   m.secure,
		HttpOnly: true,
		SameSite: m.sameSite,
	}
}
