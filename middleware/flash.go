package middleware

import (
	"encoding/json"

	"skilloria/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// Flash levels, matching the alert classes used by the templates.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashError   = "error"
)

const (
	flashKey    = "flash"
	flashCookie = "skilloria_flash"
)

// FlashMessage is a one-shot message shown on the next rendered page.
type FlashMessage struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Sessions backs flash messages. InitSessions must run before routes serve.
var Sessions *session.Store

// InitSessions creates the session store on storage (nil means in memory).
func InitSessions(storage fiber.Storage) {
	Sessions = session.New(session.Config{
		Storage:        storage,
		KeyLookup:      "cookie:" + flashCookie,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})
}

const pendingFlashKey = "pendingFlashes"

// Flash queues a message. It is shown by a Render in this request, or
// carried to the next request by PersistFlashes.
func Flash(c *fiber.Ctx, level, message string) {
	pending, _ := c.Locals(pendingFlashKey).([]FlashMessage)
	c.Locals(pendingFlashKey, append(pending, FlashMessage{Level: level, Message: message}))
}

// PersistFlashes saves messages that were queued but not rendered.
func PersistFlashes(c *fiber.Ctx) error {
	err := c.Next()
	pending, _ := c.Locals(pendingFlashKey).([]FlashMessage)
	if len(pending) == 0 {
		return err
	}
	sess, serr := Sessions.Get(c)
	if serr != nil {
		utils.Log.Warnw("flash session unavailable", "error", serr)
		return err
	}
	messages := append(decodeFlashes(sess.Get(flashKey)), pending...)
	raw, _ := json.Marshal(messages)
	sess.Set(flashKey, string(raw))
	if serr := sess.Save(); serr != nil {
		utils.Log.Warnw("flash save failed", "error", serr)
	}
	return err
}

// TakeFlashes returns and clears both stored and pending messages.
func TakeFlashes(c *fiber.Ctx) []FlashMessage {
	var messages []FlashMessage
	if c.Cookies(flashCookie) != "" {
		if sess, err := Sessions.Get(c); err == nil {
			messages = decodeFlashes(sess.Get(flashKey))
			if len(messages) > 0 {
				sess.Delete(flashKey)
				if err := sess.Save(); err != nil {
					utils.Log.Warnw("flash save failed", "error", err)
				}
			}
		}
	}
	if pending, _ := c.Locals(pendingFlashKey).([]FlashMessage); len(pending) > 0 {
		messages = append(messages, pending...)
		c.Locals(pendingFlashKey, []FlashMessage(nil))
	}
	return messages
}

func decodeFlashes(v interface{}) []FlashMessage {
	raw, ok := v.(string)
	if !ok || raw == "" {
		return nil
	}
	var messages []FlashMessage
	if err := json.Unmarshal([]byte(raw), &messages); err != nil {
		return nil
	}
	return messages
}
