package macfound

import (
	"bytes"
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"

	"fellowharvest/lib/htmlutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
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

// FellowLinks fetches a fellowship class listing page (for example
// /fellows/search/?year=2015) and returns one anchor per fellow profile.
func (c *Client) FellowLinks(ctx context.Context, classPath string) ([]htmlutil.Anchor, error) {
	ctx, span := tracer.Start(ctx, "client:FellowLinks")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(classPath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch class page")
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse class page html")
		return nil, err
	}

	anchors := htmlutil.GetAnchors(ctx, doc.Find("a.fellow-card__link, .fellow-listing a"))
	if len(anchors) == 0 {
		return nil, fmt.Errorf("no fellow profile links found under '%s'", classPath)
	}
	return anchors, nil
}

// FetchProfile fetches one fellow profile page and returns the raw
// markup so the caller can persist it to the document store.
func (c *Client) FetchProfile(ctx context.Context, href string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "client:FetchProfile")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(href)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch profile")
		return nil, err
	}
	if res.StatusCode() >= 400 {
		err := fmt.Errorf("fetch profile '%s': status %d", href, res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return res.Body(), nil
}
