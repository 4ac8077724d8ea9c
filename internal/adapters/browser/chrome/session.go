// Package chrome drives a persistent Chrome profile through go-rod. The page
// it owns holds both the chat login and the game extension frame.
package chrome

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bnema/pcg-autocatch/internal/ports"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/rs/zerolog"
)

const (
	DefaultLoginURL    = "https://www.twitch.tv/login"
	DefaultExtensionID = "pm0qkv9g4h87t5y6lg329oam8j7ze9"

	authCookie = "auth-token"

	defaultNavigationTimeout = 30 * time.Second
	defaultScrollSettle      = 2 * time.Second
)

var errFrameNotFound = errors.New("extension frame not found")

// interruptions are overlays that keep the player, and with it the
// extension, from loading.
var interruptions = []string{
	`[data-a-target="player-overlay-mature-accept"]`,
	`[data-a-target="content-classification-gate-overlay-start-watching-button"]`,
	`button[aria-label="Start Watching"]`,
}

type Config struct {
	ProfileDir        string
	Headless          bool
	Bin               string
	LoginURL          string
	ExtensionID       string
	NavigationTimeout time.Duration
	ScrollSettle      time.Duration
}

func (c *Config) defaults() {
	if c.LoginURL == "" {
		c.LoginURL = DefaultLoginURL
	}
	if c.ExtensionID == "" {
		c.ExtensionID = DefaultExtensionID
	}
	if c.NavigationTimeout <= 0 {
		c.NavigationTimeout = defaultNavigationTimeout
	}
	if c.ScrollSettle <= 0 {
		c.ScrollSettle = defaultScrollSettle
	}
}

// Session is a lazily launched browser. The first call that needs the page
// starts Chrome; Close tears it down.
type Session struct {
	cfg    Config
	logger zerolog.Logger

	mu        sync.Mutex
	browser   *rod.Browser
	launcher  *launcher.Launcher
	page      *rod.Page
	stopSniff context.CancelFunc

	listeners responseListeners
}

var _ ports.BrowserSession = (*Session)(nil)

func NewSession(cfg Config, logger zerolog.Logger) *Session {
	cfg.defaults()
	return &Session{
		cfg:    cfg,
		logger: logger.With().Str("component", "browser").Logger(),
	}
}

func (s *Session) OnResponse(urlSubstring string, handler ports.ResponseHandler) {
	s.listeners.add(urlSubstring, handler)
}

func (s *Session) Login(ctx context.Context) error {
	page, err := s.ensurePage(ctx)
	if err != nil {
		return err
	}
	return s.navigate(ctx, page, s.cfg.LoginURL)
}

func (s *Session) IsLoggedIn(ctx context.Context) (bool, error) {
	cookies, err := s.Cookies(ctx)
	if err != nil {
		return false, err
	}
	return hasAuthCookie(cookies), nil
}

func (s *Session) Cookies(ctx context.Context) ([]ports.Cookie, error) {
	if _, err := s.ensurePage(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	browser := s.browser
	s.mu.Unlock()

	raw, err := browser.Context(ctx).GetCookies()
	if err != nil {
		return nil, fmt.Errorf("read cookies: %w", err)
	}
	cookies := make([]ports.Cookie, 0, len(raw))
	for _, c := range raw {
		cookies = append(cookies, ports.Cookie{Name: c.Name, Value: c.Value})
	}
	return cookies, nil
}

// FetchSigned runs fetch() inside the extension frame so the request carries
// the frame's origin.
func (s *Session) FetchSigned(ctx context.Context, url string, headers map[string]string) (ports.FetchResult, error) {
	page, err := s.ensurePage(ctx)
	if err != nil {
		return ports.FetchResult{}, err
	}

	if _, err := page.Context(ctx).Eval(`() => window.scrollTo(0, document.body.scrollHeight)`); err != nil {
		s.logger.Debug().Err(err).Msg("scroll page")
	}
	select {
	case <-ctx.Done():
		return ports.FetchResult{}, ctx.Err()
	case <-time.After(s.cfg.ScrollSettle):
	}

	frame, err := s.extensionFrame(ctx, page)
	if err != nil {
		return ports.FetchResult{}, err
	}

	if headers == nil {
		headers = map[string]string{}
	}
	res, err := frame.Context(ctx).Eval(fetchScript, url, headers)
	if err != nil {
		return ports.FetchResult{}, fmt.Errorf("evaluate fetch: %w", err)
	}
	raw, err := res.Value.MarshalJSON()
	if err != nil {
		return ports.FetchResult{}, fmt.Errorf("read fetch result: %w", err)
	}
	return parseFetchResult(raw)
}

func (s *Session) CaptureHeaderOnce(ctx context.Context, urlSubstring, header string, timeout time.Duration) (string, error) {
	page, err := s.ensurePage(ctx)
	if err != nil {
		return "", err
	}

	captureCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var value string
	wait := page.Context(captureCtx).EachEvent(func(ev *proto.NetworkRequestWillBeSent) bool {
		if ev.Request == nil || !strings.Contains(ev.Request.URL, urlSubstring) {
			return false
		}
		v, ok := ev.Request.Headers[header]
		if !ok {
			return false
		}
		value = strings.TrimSpace(v.Str())
		return value != ""
	})
	wait()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if value == "" {
		s.logger.Debug().Str("header", header).Dur("timeout", timeout).Msg("header not seen")
	}
	return value, nil
}

func (s *Session) Reload(ctx context.Context) error {
	page, err := s.ensurePage(ctx)
	if err != nil {
		return err
	}

	navCtx, cancel := context.WithTimeout(ctx, s.cfg.NavigationTimeout)
	defer cancel()
	if err := page.Context(navCtx).Reload(); err != nil {
		return fmt.Errorf("reload page: %w", err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		s.logger.Warn().Err(err).Msg("wait load after reload")
	}
	s.dismissInterruptions(ctx, page)
	return nil
}

func (s *Session) ClearSession(ctx context.Context) error {
	page, err := s.ensurePage(ctx)
	if err != nil {
		return err
	}
	if err := (proto.NetworkClearBrowserCookies{}).Call(page.Context(ctx)); err != nil {
		return fmt.Errorf("clear cookies: %w", err)
	}
	s.logger.Info().Msg("browser cookies cleared")
	return nil
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopSniff != nil {
		s.stopSniff()
		s.stopSniff = nil
	}
	var err error
	if s.browser != nil {
		err = s.browser.Close()
		s.browser = nil
		s.page = nil
	}
	if s.launcher != nil {
		s.launcher.Cleanup()
		s.launcher = nil
	}
	return err
}

func (s *Session) ensurePage(ctx context.Context) (*rod.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.page != nil {
		return s.page, nil
	}

	l := launcher.New().
		Headless(s.cfg.Headless).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-infobars").
		Set("disk-cache-size", "1").
		Delete("enable-automation")
	if s.cfg.ProfileDir != "" {
		l = l.UserDataDir(s.cfg.ProfileDir)
	}
	if s.cfg.Bin != "" {
		l = l.Bin(s.cfg.Bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	page, err := stealth.Page(browser)
	if err != nil {
		_ = browser.Close()
		l.Cleanup()
		return nil, fmt.Errorf("open page: %w", err)
	}
	if err := (proto.NetworkSetCacheDisabled{CacheDisabled: true}).Call(page); err != nil {
		s.logger.Warn().Err(err).Msg("disable browser cache")
	}

	sniffCtx, stop := context.WithCancel(context.Background())
	go s.sniff(sniffCtx, page)

	s.launcher, s.browser, s.page, s.stopSniff = l, browser, page, stop
	s.logger.Info().Str("profile", s.cfg.ProfileDir).Bool("headless", s.cfg.Headless).Msg("browser launched")
	return page, nil
}

// sniff hands successful game responses to the registered listeners once
// their body has finished loading.
func (s *Session) sniff(ctx context.Context, page *rod.Page) {
	pending := map[proto.NetworkRequestID]string{}

	wait := page.Context(ctx).EachEvent(
		func(ev *proto.NetworkResponseReceived) {
			if ev.Response == nil || ev.Response.Status != 200 || isAssetURL(ev.Response.URL) {
				return
			}
			if s.listeners.matching(ev.Response.URL) == nil {
				return
			}
			pending[ev.RequestID] = ev.Response.URL
		},
		func(ev *proto.NetworkLoadingFinished) {
			url, ok := pending[ev.RequestID]
			if !ok {
				return
			}
			delete(pending, ev.RequestID)
			go s.deliver(ctx, page, ev.RequestID, url)
		},
		func(ev *proto.NetworkLoadingFailed) {
			delete(pending, ev.RequestID)
		},
	)
	wait()
}

func (s *Session) deliver(ctx context.Context, page *rod.Page, id proto.NetworkRequestID, url string) {
	res, err := proto.NetworkGetResponseBody{RequestID: id}.Call(page.Context(ctx))
	if err != nil {
		s.logger.Debug().Err(err).Str("url", url).Msg("read response body")
		return
	}
	body, err := decodeBody(res.Body, res.Base64Encoded)
	if err != nil {
		s.logger.Debug().Err(err).Str("url", url).Msg("decode response body")
		return
	}
	for _, handler := range s.listeners.matching(url) {
		handler(ctx, url, body)
	}
}

// extensionFrame looks for the extension iframe in the page and one level
// of nested frames below it.
func (s *Session) extensionFrame(ctx context.Context, page *rod.Page) (*rod.Page, error) {
	var seen []string
	frames := []*rod.Page{page}
	for depth := 0; depth < 2 && len(frames) > 0; depth++ {
		var next []*rod.Page
		for _, parent := range frames {
			iframes, err := parent.Context(ctx).Elements("iframe")
			if err != nil {
				continue
			}
			for _, el := range iframes {
				src, err := el.Attribute("src")
				if err != nil || src == nil {
					continue
				}
				seen = append(seen, *src)
				frame, err := el.Frame()
				if err != nil {
					continue
				}
				if isExtensionFrame(*src, s.cfg.ExtensionID) {
					return frame, nil
				}
				next = append(next, frame)
			}
		}
		frames = next
	}
	s.logger.Warn().Strs("frames", seen).Msg("extension frame not found")
	return nil, fmt.Errorf("%w among %d frames", errFrameNotFound, len(seen))
}

func (s *Session) dismissInterruptions(ctx context.Context, page *rod.Page) {
	for _, selector := range interruptions {
		has, el, err := page.Context(ctx).Has(selector)
		if err != nil || !has {
			continue
		}
		if visible, _ := el.Visible(); !visible {
			continue
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
			s.logger.Debug().Err(err).Str("selector", selector).Msg("dismiss overlay")
			continue
		}
		s.logger.Info().Str("selector", selector).Msg("stream overlay dismissed")
	}
}

func (s *Session) navigate(ctx context.Context, page *rod.Page, url string) error {
	navCtx, cancel := context.WithTimeout(ctx, s.cfg.NavigationTimeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		s.logger.Warn().Err(err).Str("url", url).Msg("wait load timeout")
	}
	return nil
}
