package jwxt

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"gradewatch-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/jwxt")

const defaultTimeout = time.Second * 15

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
}

type ClientOptions struct {
	// the jsxsd root, e.g. "http://zhjw.qfnu.edu.cn/jsxsd"
	BaseUrl string
	// zero means the 15s default
	Timeout time.Duration
}

func NewClient(opts ClientOptions) (*Client, error) {
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
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(timeout)

	telemetry.InstrumentResty(client, "scrapers/jwxt/http")

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}, nil
}

// FetchGradeList requests the "list everything" mode of the grade
// query page using the stored session cookies. It makes exactly one
// attempt, retry policy belongs to the caller's schedule.
func (c *Client) FetchGradeList(ctx context.Context, cookies []string) (string, error) {
	ctx, span := tracer.Start(ctx, "client:FetchGradeList")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetHeader("cookie", strings.Join(cookies, "; ")).
		SetFormData(map[string]string{
			"kksj": "",
			"kcxz": "",
			"kcmc": "",
			"xsfs": "all",
		}).
		Post("/kscj/cjcx_list")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch grade list")
		return "", err
	}
	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		err := fmt.Errorf("grade list request returned status %d", res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	span.SetAttributes(attribute.Int("body_size", len(res.Body())))
	return string(res.Body()), nil
}
