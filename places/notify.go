package places

import (
	"fmt"
	"html"
	"strconv"
	"sync"
	"time"
)

// BannerKind names one of the two banner slots.
type BannerKind string

const (
	BannerError     BannerKind = "error"
	BannerRateLimit BannerKind = "rate-limit"
)

const (
	ErrorBannerTTL     = 5 * time.Second
	RateLimitBannerTTL = 10 * time.Second
)

// Banner is a transient notification.
type Banner struct {
	ID      uint64        `json:"id"`
	Kind    BannerKind    `json:"kind"`
	Message string        `json:"message"`
	Shown   time.Time     `json:"shown"`
	TTL     time.Duration `json:"ttl"`
}

// Remaining is how long the banner stays up after now.
func (b Banner) Remaining(now time.Time) time.Duration {
	left := b.TTL - now.Sub(b.Shown)
	if left < 0 {
		return 0
	}
	return left
}

// Banners holds at most one live banner per kind. Showing a banner replaces
// the current one of its kind; each banner's expiry timer only removes that
// banner, so a timer firing after replacement does nothing.
type Banners struct {
	mu    sync.Mutex
	slots map[BannerKind]*Banner
	seq   uint64

	now   func() time.Time
	after func(time.Duration, func())
}

// NewBanners returns an empty surface using wall-clock timers.
func NewBanners() *Banners {
	return &Banners{
		slots: make(map[BannerKind]*Banner),
		now:   time.Now,
		after: func(d time.Duration, f func()) { time.AfterFunc(d, f) },
	}
}

func (b *Banners) show(kind BannerKind, message string, ttl time.Duration) Banner {
	b.mu.Lock()
	b.seq++
	banner := &Banner{
		ID:      b.seq,
		Kind:    kind,
		Message: message,
		Shown:   b.now(),
		TTL:     ttl,
	}
	b.slots[kind] = banner
	b.mu.Unlock()

	id := banner.ID
	b.after(ttl, func() { b.expire(kind, id) })
	return *banner
}

func (b *Banners) expire(kind BannerKind, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if cur, ok := b.slots[kind]; ok && cur.ID == id {
		delete(b.slots, kind)
	}
}

// ShowError replaces the error banner.
func (b *Banners) ShowError(message string) Banner {
	return b.show(BannerError, message, ErrorBannerTTL)
}

// ShowRateLimit replaces the rate-limit banner with one built from info.
// When info has neither counter the old banner is removed and nothing is
// shown.
func (b *Banners) ShowRateLimit(info *RateLimitInfo) (Banner, bool) {
	b.Dismiss(BannerRateLimit)
	message, ok := RateLimitMessage(info)
	if !ok {
		return Banner{}, false
	}
	return b.show(BannerRateLimit, message, RateLimitBannerTTL), true
}

// Dismiss removes the banner of the given kind.
func (b *Banners) Dismiss(kind BannerKind) {
	b.mu.Lock()
	delete(b.slots, kind)
	b.mu.Unlock()
}

// Current returns the live banner of the given kind.
func (b *Banners) Current(kind BannerKind) (Banner, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	cur, ok := b.slots[kind]
	if !ok {
		return Banner{}, false
	}
	return *cur, true
}

// Active returns the live banners, error first.
func (b *Banners) Active() []Banner {
	var active []Banner
	for _, kind := range []BannerKind{BannerError, BannerRateLimit} {
		if cur, ok := b.Current(kind); ok {
			active = append(active, cur)
		}
	}
	return active
}

// RateLimitMessage composes the counters text, degrading to whichever
// counter is present. It reports false when neither is.
func RateLimitMessage(info *RateLimitInfo) (string, bool) {
	if info == nil {
		return "", false
	}
	ip, global := info.RemainingIPRequests, info.RemainingGlobalRequests
	switch {
	case ip != nil && global != nil:
		return fmt.Sprintf("%d requests remaining for your IP, %d globally", *ip, *global), true
	case ip != nil:
		return fmt.Sprintf("%d requests remaining for your IP", *ip), true
	case global != nil:
		return fmt.Sprintf("%d requests remaining globally", *global), true
	}
	return "", false
}

// bannerHTML renders a banner with its remaining lifetime so the page can
// drop it on time.
func bannerHTML(b Banner, now time.Time) string {
	ttl := strconv.FormatInt(b.Remaining(now).Milliseconds(), 10)
	id := strconv.FormatUint(b.ID, 10)
	switch b.Kind {
	case BannerRateLimit:
		return `<div class="rate-limit-info" data-banner-id="` + id + `" data-ttl-ms="` + ttl + `">` +
			`<div class="rate-limit-box">ℹ️ Rate limit status: ` + html.EscapeString(b.Message) + `</div></div>`
	default:
		return `<div class="error-message" data-banner-id="` + id + `" data-ttl-ms="` + ttl + `">` +
			html.EscapeString(b.Message) + `</div>`
	}
}
