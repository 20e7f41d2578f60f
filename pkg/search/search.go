package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	retryablehttp "github.com/hashicorp/go-retryablehttp"
	"github.com/partstash/partstash/internal/utils"
	"github.com/partstash/partstash/pkg/whttp"
	"github.com/tidwall/gjson"
)

// Result is one component hit from the search endpoint.
type Result struct {
	MPN          string
	Manufacturer string
	Description  string
	DatasheetURL string
}

// Client talks to the component search endpoint. This is a separate
// service from the inventory API: different base URL and no
// Authorization header ever goes out.
type Client struct {
	BaseURL string
	HTTP    *retryablehttp.Client
}

// NewClient builds an unauthenticated search client.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTP:    whttp.GetDefaultClient(),
	}
}

// Search looks up components by MPN or manufacturer. With prefix set the
// match is prefix-based, otherwise exact. Malformed items in the result
// batch are dropped individually; the batch itself never fails on them.
func (c *Client) Search(ctx context.Context, query string, prefix bool) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("q", query)
	if prefix {
		q.Set("match", "prefix")
	} else {
		q.Set("match", "exact")
	}

	res, err := whttp.SendHTTPRequest(&whttp.WHTTPReq{
		Method: "GET",
		URL:    c.BaseURL + "/components?" + q.Encode(),
	}, c.HTTP)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != 200 {
		return nil, fmt.Errorf("search failed with status %d", res.StatusCode)
	}

	var results []Result
	items := gjson.Get(res.BodyString, "results")
	items.ForEach(func(_, item gjson.Result) bool {
		mpn := item.Get("mpn").Str
		manufacturer := item.Get("manufacturer").Str
		if mpn == "" || manufacturer == "" {
			utils.Log.Debug("Dropping malformed search result: ", item.Raw)
			return true
		}
		results = append(results, Result{
			MPN:          mpn,
			Manufacturer: manufacturer,
			Description:  stripHTML(item.Get("description").Str),
			DatasheetURL: item.Get("datasheet_url").Str,
		})
		return true
	})

	return results, nil
}

// stripHTML flattens any markup the search service embeds in
// descriptions down to plain text.
func stripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}
