package jwxt

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"

	"gradewatch-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

var LoginFailed = fmt.Errorf("Failed to login to your account.")

// LoginClient drives the interactive login flow against the portal:
// prime a server-side session, fetch the captcha image, then trade
// credentials plus the solved captcha for session cookies. The
// cookies it collects are exactly what a session record stores for
// the periodic checks.
type LoginClient struct {
	BaseUrl *url.URL
	Http    *resty.Client
}

// NewLoginClient opens a fresh portal session. The portal only
// issues a session cookie once the main frame has been loaded, so
// the constructor requests it before handing the client back.
func NewLoginClient(ctx context.Context, opts ClientOptions) (*LoginClient, error) {
	ctx, span := tracer.Start(ctx, "NewLoginClient")
	defer span.End()

	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(timeout)

	telemetry.InstrumentResty(client, "scrapers/jwxt/http")

	c := &LoginClient{
		BaseUrl: baseUrl,
		Http:    client,
	}

	_, err = c.Http.R().
		SetContext(ctx).
		Get("/framework/xsMain.jsp")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to prime portal session")
		return nil, err
	}
	return c, nil
}

// Captcha fetches the current captcha image for this session. Every
// call renders a new image and invalidates the previous one.
func (c *LoginClient) Captcha(ctx context.Context) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "client:Captcha")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get("/verifycode.servlet")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch captcha")
		return nil, err
	}
	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		err := fmt.Errorf("captcha request returned status %d", res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return res.Body(), nil
}

var alertRegex = regexp.MustCompile(`(?is)alert\(['"](.*?)['"]\)`)

var alertUnescaper = strings.NewReplacer(
	`\r`, "\r",
	`\n`, "\n",
	`\t`, "\t",
	`\"`, `"`,
	`\'`, "'",
)

// extractAlert pulls the message out of the inline alert() the
// portal answers rejected logins with.
func extractAlert(page string) string {
	groups := alertRegex.FindStringSubmatch(page)
	if len(groups) < 2 {
		return ""
	}
	return strings.TrimSpace(alertUnescaper.Replace(groups[1]))
}

const mainFrameMarker = "xsMain.jsp"

// Login submits the credential form. The portal takes the username
// and password base64-encoded and joined by a literal "%%%" in a
// single field, the named account fields stay blank. Success is a
// response that lands on, or links back to, the main frame.
func (c *LoginClient) Login(ctx context.Context, username, password, captcha string) error {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	encoded := base64.StdEncoding.EncodeToString([]byte(username)) +
		"%%%" +
		base64.StdEncoding.EncodeToString([]byte(password))

	res, err := c.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"userAccount":  "",
			"userPassword": "",
			"RANDOMCODE":   captcha,
			"encoded":      encoded,
		}).
		Post("/xk/LoginToXkLdap")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to make login request")
		return err
	}

	page := string(res.Body())
	var finalUrl string
	if res.RawResponse != nil && res.RawResponse.Request != nil && res.RawResponse.Request.URL != nil {
		finalUrl = res.RawResponse.Request.URL.String()
	}
	if strings.Contains(page, mainFrameMarker) || strings.Contains(finalUrl, mainFrameMarker) {
		return nil
	}

	if alert := extractAlert(page); alert != "" {
		err := fmt.Errorf("%w %s", LoginFailed, alert)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetStatus(codes.Error, LoginFailed.Error())
	return LoginFailed
}

// Cookies renders the session cookies in the "name=value" form the
// session store keeps.
func (c *LoginClient) Cookies() []string {
	var out []string
	for _, cookie := range c.Http.GetClient().Jar.Cookies(c.BaseUrl) {
		out = append(out, cookie.Name+"="+cookie.Value)
	}
	return out
}
