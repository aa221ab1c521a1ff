package wikipedia

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
}

type ClientOptions struct {
	BaseUrl string
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = "https://en.wikipedia.org"
	}
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
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
	client.SetTimeout(time.Second * 30)

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}, nil
}

// ArticlePath derives the article path for a subject name, e.g.
// "Jane Q. Doe" -> "/wiki/Jane_Q._Doe".
func ArticlePath(name string) string {
	return "/wiki/" + url.PathEscape(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
}

// FetchArticle fetches the biography article for a subject name and
// returns the raw markup, or an error when the article doesn't exist.
func (c *Client) FetchArticle(ctx context.Context, name string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "client:FetchArticle")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(ArticlePath(name))
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch article")
		return nil, err
	}
	if res.StatusCode() >= 400 {
		err := fmt.Errorf("fetch article for '%s': status %d", name, res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return res.Body(), nil
}
