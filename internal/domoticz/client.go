package domoticz

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// defaultTimeout bounds a single Domoticz API call when the config does not
// set one.
const defaultTimeout = 5 * time.Second

// Config holds the Domoticz connection settings and bridge options.
type Config struct {
	// URL is the Domoticz base URL, e.g. "http://127.0.0.1:8080".
	URL string

	// Username and Password enable HTTP basic auth when non-empty.
	Username string
	Password string

	// Timeout bounds a single API call.
	Timeout time.Duration

	// InsecureTLS skips certificate verification for https URLs.
	InsecureTLS bool

	// IncludeScenesGroups enables enumeration of Domoticz scenes and groups
	// during discovery.
	IncludeScenesGroups bool

	// ManufacturerName is advertised on every discovered endpoint.
	ManufacturerName string
}

// Logger is the minimal logging interface the package uses. Satisfied by
// *logging.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// apiResponse is the envelope every Domoticz JSON API call answers with.
type apiResponse struct {
	Status string   `json:"status"`
	Result []Device `json:"result"`
}

// Client issues requests against the Domoticz JSON API. All traffic is
// GET-style against /json.htm.
type Client struct {
	baseURL  string
	username string
	password string
	http     *http.Client
	logger   Logger
}

// NewClient builds a client from connection settings.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := http.DefaultTransport
	if cfg.InsecureTLS {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.URL, "/"),
		username: cfg.Username,
		password: cfg.Password,
		http:     &http.Client{Timeout: timeout, Transport: transport},
		logger:   nopLogger{},
	}
}

// SetLogger installs a logger for request tracing.
func (c *Client) SetLogger(l Logger) {
	if l != nil {
		c.logger = l
	}
}

// call performs one GET against /json.htm and decodes the response
// envelope.
func (c *Client) call(ctx context.Context, params url.Values) (*apiResponse, error) {
	reqURL := c.baseURL + "/json.htm?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrRequestFailed, err)
	}

	c.logger.Debug("domoticz call", "param", params.Get("param"), "results", len(out.Result))
	return &out, nil
}

// command runs the named Domoticz command with extra parameters. The result
// payload is discarded.
func (c *Client) command(ctx context.Context, param string, extra url.Values) error {
	params := url.Values{}
	params.Set("type", "command")
	params.Set("param", param)
	for key, values := range extra {
		for _, v := range values {
			params.Add(key, v)
		}
	}
	_, err := c.call(ctx, params)
	return err
}

// Devices fetches every in-use device record.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	params := url.Values{}
	params.Set("type", "command")
	params.Set("param", "getdevices")
	params.Set("filter", "all")
	params.Set("used", "true")

	out, err := c.call(ctx, params)
	if err != nil {
		return nil, err
	}
	return out.Result, nil
}

// Device fetches a single device record by index. Returns nil when the
// index is unknown.
func (c *Client) Device(ctx context.Context, idx string) (*Device, error) {
	params := url.Values{}
	params.Set("type", "command")
	params.Set("param", "getdevices")
	params.Set("rid", idx)

	out, err := c.call(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(out.Result) == 0 {
		return nil, nil
	}
	return &out.Result[0], nil
}

// Scenes fetches every scene and group record.
func (c *Client) Scenes(ctx context.Context) ([]Device, error) {
	params := url.Values{}
	params.Set("type", "command")
	params.Set("param", "getscenes")

	out, err := c.call(ctx, params)
	if err != nil {
		return nil, err
	}
	return out.Result, nil
}

// SwitchLight issues a switchlight command ("On", "Off").
func (c *Client) SwitchLight(ctx context.Context, idx, cmd string) error {
	extra := url.Values{}
	extra.Set("idx", idx)
	extra.Set("switchcmd", cmd)
	return c.command(ctx, "switchlight", extra)
}

// SetLevel sets a dimmer or selector level.
func (c *Client) SetLevel(ctx context.Context, idx string, level int) error {
	extra := url.Values{}
	extra.Set("idx", idx)
	extra.Set("switchcmd", "Set Level")
	extra.Set("level", strconv.Itoa(level))
	return c.command(ctx, "switchlight", extra)
}

// SetColor sets an RGB color at full brightness.
func (c *Client) SetColor(ctx context.Context, idx string, r, g, b int) error {
	extra := url.Values{}
	extra.Set("idx", idx)
	extra.Set("r", strconv.Itoa(r))
	extra.Set("g", strconv.Itoa(g))
	extra.Set("b", strconv.Itoa(b))
	extra.Set("brightness", "100")
	return c.command(ctx, "setcolbrightnessvalue", extra)
}

// SetWhiteLevel sets the white color temperature level (0-100).
func (c *Client) SetWhiteLevel(ctx context.Context, idx string, level int) error {
	extra := url.Values{}
	extra.Set("idx", idx)
	extra.Set("color", fmt.Sprintf(`{"m":3,"t":%d}`, level))
	return c.command(ctx, "setcolbrightnessvalue", extra)
}

// SetSetpoint sets a thermostat setpoint in degrees Celsius.
func (c *Client) SetSetpoint(ctx context.Context, idx string, value float64) error {
	extra := url.Values{}
	extra.Set("idx", idx)
	extra.Set("setpoint", strconv.FormatFloat(value, 'f', -1, 64))
	return c.command(ctx, "setsetpoint", extra)
}

// SwitchScene activates or deactivates a scene or group.
func (c *Client) SwitchScene(ctx context.Context, idx, cmd string) error {
	extra := url.Values{}
	extra.Set("idx", idx)
	extra.Set("switchcmd", cmd)
	return c.command(ctx, "switchscene", extra)
}
