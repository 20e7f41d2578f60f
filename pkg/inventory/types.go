package inventory

import (
	"time"

	"github.com/partstash/partstash/internal/utils"
)

// Review status values a part can carry.
const (
	ReviewNever        = "never_reviewed"
	ReviewDone         = "reviewed"
	ReviewNeedsFurther = "needs_further_review"
	ReviewMorePhotos   = "more_photos_requested"
)

// Image type values.
const (
	ImagePrimary      = "primary"
	ImageSupplemental = "supplemental"
	ImageIPNLabel     = "ipn_label"
)

// Project groups a box hierarchy under one owner.
type Project struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	OwnerID       string     `json:"owner_id"`
	PackingSlipID string     `json:"packing_slip_id,omitempty"`
	ExpectedItems []Expected `json:"expected_line_items,omitempty"`
	Boxes         []Box      `json:"boxes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Expected is a packing-slip line item the comparison tool matches
// actual parts against.
type Expected struct {
	ID           int    `json:"id"`
	MPN          string `json:"mpn"`
	Manufacturer string `json:"manufacturer"`
	Quantity     int    `json:"quantity"`
}

// Box is a storage location. Boxes nest arbitrarily deep; the child and
// part collections are only as complete as what has been fetched, the
// denormalized counts are always present.
type Box struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ProjectID   string `json:"project_id"`
	ParentBoxID string `json:"parent_box_id,omitempty"`
	PartCount   int    `json:"part_count"`
	SubBoxCount int    `json:"sub_box_count"`
	Boxes       []Box  `json:"boxes,omitempty"`
	Parts       []Part `json:"parts,omitempty"`
}

// Part is an inventoried item located in exactly one box. Generated
// content is machine-derived from its images; manual content is the
// human override layer.
type Part struct {
	ID               string            `json:"id"`
	BoxID            string            `json:"box_id"`
	MPN              string            `json:"mpn"`
	IPN              string            `json:"ipn,omitempty"`
	Manufacturer     string            `json:"manufacturer"`
	Description      string            `json:"description,omitempty"`
	DateCode         string            `json:"date_code,omitempty"`
	Quantity         int               `json:"quantity"`
	GeneratedContent map[string]string `json:"generatedContent,omitempty"`
	ManualContent    map[string]string `json:"manualContent,omitempty"`
	ReviewStatus     string            `json:"review_status"`
	Images           []Image           `json:"images,omitempty"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// Image is a photo attached to a part. Rotation is one of 0/90/180/270.
type Image struct {
	ID               string            `json:"id"`
	URI              string            `json:"uri"`
	Type             string            `json:"type"`
	Rotation         int               `json:"rotation"`
	ExtractedText    string            `json:"extracted_text,omitempty"`
	GeneratedContent map[string]string `json:"generatedContent,omitempty"`
}

// DisplayField returns manual content for a field when present, falling
// back to generated content. This is a display-time rule only; storage
// keeps both layers independent.
func (p *Part) DisplayField(field string) string {
	if v, ok := p.ManualContent[field]; ok && v != "" {
		return v
	}
	return p.GeneratedContent[field]
}

// DisplayContent merges the two content layers for rendering, manual
// entries winning per field.
func (p *Part) DisplayContent() map[string]string {
	out := make(map[string]string, len(p.GeneratedContent)+len(p.ManualContent))
	for k, v := range p.GeneratedContent {
		out[k] = v
	}
	for k, v := range p.ManualContent {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// NeedsManualSave reports whether saving the given manual content would
// change anything. Content deeply equal to the generated layer is a no-op:
// no network call should be issued.
func (p *Part) NeedsManualSave(manual map[string]string) bool {
	return !utils.AreStringMapsEqual(manual, p.GeneratedContent)
}

// User status values.
const (
	UserActive   = "active"
	UserInactive = "inactive"
	UserPending  = "pending"
)

// User is an account as seen by the admin listing. Sub-accounts nest a
// single level of delegation.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Status       string    `json:"status"`
	PricingPlan  string    `json:"pricing_plan"`
	CreditsUsed  int       `json:"credits_used"`
	CreditsLimit int       `json:"credits_limit"`
	ParentUserID string    `json:"parent_user_id,omitempty"`
	SubAccounts  []User    `json:"sub_accounts,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
