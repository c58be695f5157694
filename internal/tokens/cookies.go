package tokens

import (
	"net/http"
	"time"
)

const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"
)

type Cookies struct {
	Secure bool
}

func (f Cookies) Create(name, value, path string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   f.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (f Cookies) Delete(name, path string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   f.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Session returns the access and refresh cookies for p.
func (f Cookies) Session(p *Pair) []*http.Cookie {
	return []*http.Cookie{
		f.Create(AccessCookie, p.AccessToken, "/", p.AccessExp),
		f.Create(RefreshCookie, p.RefreshToken, "/", p.RefreshExp),
	}
}

func (f Cookies) Clear() []*http.Cookie {
	return []*http.Cookie{
		f.Delete(AccessCookie, "/"),
		f.Delete(RefreshCookie, "/"),
	}
}
