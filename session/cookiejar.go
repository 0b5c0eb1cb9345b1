package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/jrsteele09/arcash/kvstore"
	"github.com/rs/zerolog/log"
)

type storedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"httpOnly,omitempty"`
}

// CookieJar is an http.CookieJar that mirrors received cookies into the kvstore so a
// later process can present the refresh cookie.
type CookieJar struct {
	mu     sync.Mutex
	kv     kvstore.Store
	key    string
	jar    *cookiejar.Jar
	byURL  map[string]map[string]storedCookie // origin -> cookie name -> cookie
	nowFun func() time.Time
}

var _ http.CookieJar = (*CookieJar)(nil)

func newCookieJar(ctx context.Context, kv kvstore.Store, key string) (*CookieJar, error) {
	j := &CookieJar{kv: kv, key: key, nowFun: time.Now}
	j.reset()

	data, ok, err := kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load cookies: %w", err)
	}
	if !ok {
		return j, nil
	}
	stored := map[string]map[string]storedCookie{}
	if err := json.Unmarshal(data, &stored); err != nil {
		log.Warn().Err(err).Msg("discarding unreadable persisted cookies")
		return j, nil
	}
	for origin, cookies := range stored {
		u, err := url.Parse(origin)
		if err != nil {
			continue
		}
		j.apply(u, cookies)
	}
	return j, nil
}

func (j *CookieJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.jar.SetCookies(u, cookies)

	origin := u.Scheme + "://" + u.Host
	entry := j.byURL[origin]
	if entry == nil {
		entry = map[string]storedCookie{}
		j.byURL[origin] = entry
	}
	now := j.nowFun()
	for _, c := range cookies {
		if c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(now)) {
			delete(entry, c.Name)
			continue
		}
		expires := c.Expires
		if c.MaxAge > 0 {
			expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		entry[c.Name] = storedCookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		}
	}
	j.persist()
}

func (j *CookieJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.jar.Cookies(u)
}

// apply loads stored cookies into the in-memory jar during construction.
func (j *CookieJar) apply(u *url.URL, cookies map[string]storedCookie) {
	origin := u.Scheme + "://" + u.Host
	entry := map[string]storedCookie{}
	httpCookies := make([]*http.Cookie, 0, len(cookies))
	now := j.nowFun()
	for name, c := range cookies {
		if !c.Expires.IsZero() && c.Expires.Before(now) {
			continue
		}
		entry[name] = c
		httpCookies = append(httpCookies, &http.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		})
	}
	j.byURL[origin] = entry
	j.jar.SetCookies(u, httpCookies)
}

func (j *CookieJar) persist() {
	data, err := json.Marshal(j.byURL)
	if err != nil {
		log.Warn().Err(err).Msg("failed to encode cookies")
		return
	}
	if err := j.kv.Set(context.Background(), j.key, data); err != nil {
		log.Warn().Err(err).Msg("failed to persist cookies")
	}
}

// Reset drops all cookies held in memory. Persisted cookies are removed by Store.Clear.
func (j *CookieJar) Reset() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.reset()
}

func (j *CookieJar) reset() {
	jar, _ := cookiejar.New(nil)
	j.jar = jar
	j.byURL = map[string]map[string]storedCookie{}
}
