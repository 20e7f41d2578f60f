package tableview

import (
	"strconv"
	"time"

	"github.com/partstash/partstash/pkg/inventory"
)

// PartRows converts parts into filterable rows. Content fields use the
// display rule (manual wins over generated per field), and every content
// value participates in all-fields matching.
func PartRows(parts []inventory.Part) []Row {
	rows := make([]Row, 0, len(parts))
	for i := range parts {
		p := &parts[i]
		content := p.DisplayContent()
		contentValues := make([]string, 0, len(content))
		for _, v := range content {
			contentValues = append(contentValues, v)
		}
		rows = append(rows, Row{Fields: map[string][]string{
			"id":           {p.ID},
			"mpn":          {p.MPN},
			"ipn":          {p.IPN},
			"manufacturer": {p.Manufacturer},
			"description":  {p.Description},
			"date_code":    {p.DateCode},
			"quantity":     {strconv.Itoa(p.Quantity)},
			"status":       {p.ReviewStatus},
			"content":      contentValues,
			"updated":      {p.UpdatedAt.Format(time.RFC3339)},
		}})
	}
	return rows
}

// UserRows converts accounts into filterable rows. Sub-account usernames
// are matchable under the parent row.
func UserRows(users []inventory.User) []Row {
	rows := make([]Row, 0, len(users))
	for i := range users {
		u := &users[i]
		subs := make([]string, 0, len(u.SubAccounts))
		for _, s := range u.SubAccounts {
			subs = append(subs, s.Username)
		}
		rows = append(rows, Row{Fields: map[string][]string{
			"id":       {u.ID},
			"username": {u.Username},
			"status":   {u.Status},
			"plan":     {u.PricingPlan},
			"credits":  {strconv.Itoa(u.CreditsUsed)},
			"subs":     subs,
			"created":  {u.CreatedAt.Format(time.RFC3339)},
		}})
	}
	return rows
}
