// Package flash keeps one-shot user messages in a cookie between a
// redirect and the next page view.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	CookieName = "flash"
	pendingKey = "flash.pending"
)

const (
	LevelSuccess = "success"
	LevelError   = "error"
)

type Message struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

func Success(c echo.Context, text string) { Add(c, LevelSuccess, text) }
func Error(c echo.Context, text string) { Add(c, LevelError, text) }

// Add queues a message for the next response that calls Pop.
func Add(c echo.Context, level, text string) {
	msgs := pending(c)
	msgs = append(msgs, Message{Level: level, Text: text})
	c.Set(pendingKey, msgs)

	raw, err := json.Marshal(msgs)
	if err != nil {
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop returns the messages stored by a previous response and clears them.
func Pop(c echo.Context) []Message {
	msgs := decode(c)
	if len(msgs) > 0 {
		c.SetCookie(&http.Cookie{
			Name:     CookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	if msgs == nil {
		msgs = []Message{}
	}
	return msgs
}

func pending(c echo.Context) []Message {
	if v, ok := c.Get(pendingKey).([]Message); ok {
		return v
	}
	return decode(c)
}

func decode(c echo.Context) []Message {
	ck, err := c.Cookie(CookieName)
	if err != nil || ck.Value == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(ck.Value)
	if err != nil {
		return nil
	}
	var msgs []Message
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return nil
	}
	return msgs
}
