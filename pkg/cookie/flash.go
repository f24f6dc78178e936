package cookie

import (
	"encoding/json"
	"net/http"
)

const flashCookie = "flash"

// Flash levels.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// FlashMessage is a one-shot status message shown on the next page view.
type FlashMessage struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// AddFlash queues msgs on top of any messages already pending in r.
func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, msgs ...FlashMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	data, err := json.Marshal(append(m.pending(r), msgs...))
	if err != nil {
		return err
	}
	return m.SetEncrypted(w, flashCookie, data, 0)
}

// Flashes returns pending messages and clears them. A tampered or stale
// cookie is cleared and yields no messages.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) []FlashMessage {
	if _, err := r.Cookie(flashCookie); err != nil {
		return nil
	}
	m.Delete(w, flashCookie)
	return m.pending(r)
}

func (m *Manager) pending(r *http.Request) []FlashMessage {
	raw, err := m.GetEncrypted(r, flashCookie)
	if err != nil {
		return nil
	}
	var msgs []FlashMessage
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return nil
	}
	return msgs
}
