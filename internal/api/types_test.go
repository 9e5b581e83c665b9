package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/cloudbrowser/internal/codec"
)

func TestBrowserOptionsRoundTrip(t *testing.T) {
	in := BrowserOptions{
		Args:               []string{"--lang=en"},
		IgnoredDefaultArgs: []string{"--mute-audio"},
		Headless:           Bool(false),
		Extensions:         [][]byte{{0x50, 0x4b, 0x03, 0x04}, []byte("crx")},
		Stealth:            Bool(true),
		Browser:            Browser(BrowserChromium),
		Proxy:              &Proxy{Host: "10.0.0.1", Port: "3128", Username: "u", Password: "p"},
		KeepOpen:           Int(0),
		Label:              "nightly",
	}

	data, err := codec.Encode(in)
	require.NoError(t, err)

	out, err := codec.Decode[BrowserOptions](data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestBrowserOptionsWireNames(t *testing.T) {
	data, err := codec.Encode(BrowserOptions{
		Headless: Bool(true),
		Browser:  Browser(BrowserChromeHeadlessShell),
		KeepOpen: Int(30),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"headless":true,"browser":3,"keepOpen":30}`, string(data))

	data, err = codec.Encode(BrowserOptions{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestBrowserNames(t *testing.T) {
	for _, b := range []SupportedBrowser{BrowserChrome, BrowserFirefox, BrowserChromium, BrowserChromeHeadlessShell} {
		parsed, err := ParseBrowser(b.String())
		require.NoError(t, err)
		assert.Equal(t, b, parsed)
	}

	_, err := ParseBrowser("netscape")
	assert.Error(t, err)
	assert.Equal(t, "browser(9)", SupportedBrowser(9).String())
}

func TestGetResponseDecode(t *testing.T) {
	payload := []byte(`{
		"error": 200,
		"sessions": [
			{"startedOn": "2024-03-01T10:00:00Z", "label": "c", "address": "ws://c", "vncPass": "x"},
			{"startedOn": "2024-03-01T09:00:00.5", "label": "a", "address": "ws://a"},
			{"startedOn": null, "label": "b", "address": "ws://b"}
		]
	}`)

	resp, err := codec.Decode[GetResponse](payload)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.RemoteStatus())
	require.Len(t, resp.Sessions, 3)

	assert.Equal(t, []string{"c", "a", "b"}, []string{resp.Sessions[0].Label, resp.Sessions[1].Label, resp.Sessions[2].Label})
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), resp.Sessions[0].StartedOn.Time)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 0, 0, 500_000_000, time.UTC), resp.Sessions[1].StartedOn.Time)
	assert.True(t, resp.Sessions[2].StartedOn.IsZero())
	assert.Equal(t, "x", resp.Sessions[0].VNCPass)
}

func TestTimestampRejectsGarbage(t *testing.T) {
	_, err := codec.Decode[Session]([]byte(`{"startedOn":"yesterday"}`))
	var derr *codec.DeserializationError
	assert.ErrorAs(t, err, &derr)
}

func TestTimestampRoundTrip(t *testing.T) {
	in := Session{StartedOn: Timestamp{time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}, Address: "ws://x"}
	data, err := codec.Encode(in)
	require.NoError(t, err)

	out, err := codec.Decode[Session](data)
	require.NoError(t, err)
	assert.True(t, in.StartedOn.Equal(out.StartedOn.Time))
}
