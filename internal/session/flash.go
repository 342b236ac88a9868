package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	flashCookieName = "taskr_flash"
	flashContextKey = "flash_pending"
)

// Flash queues a one-shot message for the next rendered page.
func (m *Manager) Flash(c echo.Context, message string) {
	// Messages flashed earlier in this request live in the context; the
	// cookie only carries them across the redirect.
	messages, ok := c.Get(flashContextKey).([]string)
	if !ok {
		messages = m.readFlashes(c)
	}
	messages = append(messages, message)
	c.Set(flashContextKey, messages)

	payload, err := json.Marshal(messages)
	if err != nil {
		return
	}
	c.SetCookie(&http.Cookie{
		Name:  flashCookieName,
		Value: base64.URLEncoding.EncodeToString(payload) + "." + m.signFlash(payload),
		Path:  "/",
	})
}

// Flashes returns queued messages and clears them, so each is shown exactly
// once.
func (m *Manager) Flashes(c echo.Context) []string {
	messages := m.readFlashes(c)
	if len(messages) > 0 {
		c.SetCookie(&http.Cookie{
			Name:   flashCookieName,
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})
	}
	return messages
}

func (m *Manager) readFlashes(c echo.Context) []string {
	cookie, err := c.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	// The cookie is payload.signature; an absent or wrong signature means
	// the value was not set by us and is dropped.
	encoded, mac, ok := strings.Cut(cookie.Value, ".")
	if !ok {
		return nil
	}
	payload, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil
	}
	if !hmac.Equal([]byte(mac), []byte(m.signFlash(payload))) {
		return nil
	}

	var messages []string
	if err := json.Unmarshal(payload, &messages); err != nil {
		return nil
	}
	return messages
}

func (m *Manager) signFlash(payload []byte) string {
	h := hmac.New(sha256.New, m.secret)
	h.Write(payload)
	return base64.URLEncoding.EncodeToString(h.Sum(nil))
}
