package api

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SupportedBrowser is the browser engine of a session. It travels as an
// integer.
type SupportedBrowser int

const (
	BrowserChrome SupportedBrowser = iota
	BrowserFirefox
	BrowserChromium
	BrowserChromeHeadlessShell
)

func (b SupportedBrowser) String() string {
	switch b {
	case BrowserChrome:
		return "chrome"
	case BrowserFirefox:
		return "firefox"
	case BrowserChromium:
		return "chromium"
	case BrowserChromeHeadlessShell:
		return "chrome-headless-shell"
	default:
		return "browser(" + strconv.Itoa(int(b)) + ")"
	}
}

// ParseBrowser parses an engine name as printed by String.
func ParseBrowser(s string) (SupportedBrowser, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "chrome":
		return BrowserChrome, nil
	case "firefox":
		return BrowserFirefox, nil
	case "chromium":
		return BrowserChromium, nil
	case "chrome-headless-shell", "chromeheadlessshell":
		return BrowserChromeHeadlessShell, nil
	}
	return 0, fmt.Errorf("unknown browser %q", s)
}

// Proxy routes the remote browser's traffic.
type Proxy struct {
	Host     string `json:"host,omitempty"`
	Port     string `json:"port,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// BrowserOptions configures a new session. Pointer fields are omitted from
// the request when nil so the service applies its own default.
type BrowserOptions struct {
	Args               []string          `json:"args,omitempty"`
	IgnoredDefaultArgs []string          `json:"ignoredDefaultArgs,omitempty"`
	Headless           *bool             `json:"headless,omitempty"`
	Extensions         [][]byte          `json:"extensions,omitempty"` // raw bundles, base64 on the wire
	Stealth            *bool             `json:"stealth,omitempty"`
	Browser            *SupportedBrowser `json:"browser,omitempty"`
	Proxy              *Proxy            `json:"proxy,omitempty"`
	KeepOpen           *int              `json:"keepOpen,omitempty"` // idle seconds before the service closes the session
	Label              string            `json:"label,omitempty"`
}

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Browser returns a pointer to b.
func Browser(b SupportedBrowser) *SupportedBrowser { return &b }

// Timestamp is a service time. The service may omit the zone, in which
// case UTC is assumed.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("timestamp %s: %w", data, err)
	}
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, perr := time.Parse(layout, s); perr == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp %q: unrecognized layout", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(t.UTC().Format(time.RFC3339Nano))), nil
}

// Session is a live remote browser.
type Session struct {
	StartedOn Timestamp `json:"startedOn"`
	Label     string    `json:"label,omitempty"`
	Address   string    `json:"address"`
	VNCPass   string    `json:"vncPass,omitempty"`
}

// AddressRequest names a session by its address.
type AddressRequest struct {
	Address string `json:"address"`
}

// OpenResponse answers Open and OpenAdvanced.
type OpenResponse struct {
	Status  int    `json:"status"`
	Address string `json:"address,omitempty"`
}

func (r OpenResponse) RemoteStatus() int { return r.Status }

// SimpleResponse answers Close.
type SimpleResponse struct {
	Status int `json:"status"`
}

func (r SimpleResponse) RemoteStatus() int { return r.Status }

// GetResponse answers Get. The service reports its status in the error
// field on this endpoint.
type GetResponse struct {
	Error    int       `json:"error"`
	Sessions []Session `json:"sessions"`
}

func (r GetResponse) RemoteStatus() int { return r.Error }

// StartRemoteDesktopResponse answers StartRemoteDesktop.
type StartRemoteDesktopResponse struct {
	Status  int    `json:"status"`
	Address string `json:"address,omitempty"`
	VNCPass string `json:"vncPass,omitempty"`
}

func (r StartRemoteDesktopResponse) RemoteStatus() int { return r.Status }

// StopRemoteDesktopResponse answers StopRemoteDesktop.
type StopRemoteDesktopResponse struct {
	Status int `json:"status"`
}

func (r StopRemoteDesktopResponse) RemoteStatus() int { return r.Status }
