package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// Report type identifiers as the backend expects them.
const (
	ReportTypeECCN      = "eccn"
	ReportTypeLicensing = "licensing"
)

// SubmitECCNReport requests an ECCN determination for a part and returns
// the opaque "when" token the status endpoint is keyed by.
func (c *Client) SubmitECCNReport(ctx context.Context, mpn, manufacturer string) (string, error) {
	payload := map[string]string{"mpn": mpn, "manufacturer": manufacturer}
	res, err := c.do(ctx, "POST", "/expert_eccn", payload, true)
	if err != nil {
		return "", err
	}
	when := gjson.Get(res.BodyString, "when").Str
	if when == "" {
		return "", fmt.Errorf("report submission response missing token")
	}
	return when, nil
}

// LicensingReportID derives the deterministic report id for a licensing
// lookup: normalized ECCN concatenated with the destination country.
// The licensing flow never gets a server-issued token; this derived key
// is what the status endpoint is polled with.
func LicensingReportID(eccn, country string) string {
	norm := func(s string) string {
		return strings.ToUpper(strings.TrimSpace(s))
	}
	return norm(eccn) + norm(country)
}

// SubmitLicensingReport requests a licensing lookup for an ECCN and
// destination country. The report id is derived client-side.
func (c *Client) SubmitLicensingReport(ctx context.Context, eccn, country string) (string, error) {
	payload := map[string]string{"eccn": eccn, "country": country, "reportType": ReportTypeLicensing}
	if _, err := c.do(ctx, "POST", "/expert_eccn", payload, true); err != nil {
		return "", err
	}
	return LicensingReportID(eccn, country), nil
}

type reportStatus struct {
	Exists bool   `json:"exists"`
	Body   string `json:"body"`
}

// ReportStatus polls whether a report exists yet. When it does, the
// returned body is the report's Markdown source.
func (c *Client) ReportStatus(ctx context.Context, reportID, reportType string) (body string, exists bool, err error) {
	q := url.Values{}
	q.Set("reportId", reportID)
	q.Set("reportType", reportType)
	res, err := c.do(ctx, "GET", "/mpn_datasheet_status?"+q.Encode(), nil, true)
	if err != nil {
		return "", false, err
	}

	var rs reportStatus
	if err := json.Unmarshal([]byte(res.BodyString), &rs); err != nil {
		return "", false, fmt.Errorf("malformed report status response: %w", err)
	}
	return rs.Body, rs.Exists, nil
}
