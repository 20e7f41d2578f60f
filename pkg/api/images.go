package api

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/partstash/partstash/pkg/whttp"
)

type presignResponse struct {
	URL string `json:"url"`
	URI string `json:"uri"`
}

// UploadImage asks the API for a presigned object-storage URL and PUTs
// the raw bytes straight to it, returning the stored URI. The object
// name is a fresh uuid keeping the original extension; entity ids are
// always server-issued, object names are not entity ids.
func (c *Client) UploadImage(ctx context.Context, partID, filename string, data []byte, imageType string) (string, error) {
	objectName := uuid.New().String() + filepath.Ext(filename)
	payload := map[string]string{
		"part_id":     partID,
		"object_name": objectName,
		"type":        imageType,
	}

	var pr presignResponse
	if err := c.send(ctx, "POST", "/get-presigned-url", payload, &pr); err != nil {
		return "", err
	}
	if pr.URL == "" {
		return "", fmt.Errorf("presign response missing upload URL")
	}

	res, err := whttp.SendHTTPRequest(&whttp.WHTTPReq{
		Method: "PUT",
		URL:    pr.URL,
		Body:   data,
	}, c.HTTP)
	if err != nil {
		return "", err
	}
	if res.StatusCode >= 400 {
		return "", fmt.Errorf("object storage upload failed with status %d", res.StatusCode)
	}

	return pr.URI, nil
}

// RotationTracker remembers the last rotation the server accepted per
// image. The API consumes incremental rotation, not absolute values, so
// each save sends only the delta since the last successful save and the
// baseline advances only when the save succeeds.
type RotationTracker struct {
	mu       sync.Mutex
	baseline map[string]int
}

// NewRotationTracker seeds baselines from the rotations the images were
// loaded with.
func NewRotationTracker() *RotationTracker {
	return &RotationTracker{baseline: make(map[string]int)}
}

// Seed records the server-side rotation an image currently has.
func (rt *RotationTracker) Seed(imageID string, rotation int) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.baseline[imageID] = normalizeRotation(rotation)
}

// Delta returns the incremental rotation to send for a new absolute
// value, in [0, 360).
func (rt *RotationTracker) Delta(imageID string, newRotation int) int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return normalizeRotation(newRotation - rt.baseline[imageID])
}

// Commit advances the baseline after a successful save.
func (rt *RotationTracker) Commit(imageID string, newRotation int) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.baseline[imageID] = normalizeRotation(newRotation)
}

// Baseline returns the last saved rotation for an image.
func (rt *RotationTracker) Baseline(imageID string) int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.baseline[imageID]
}

func normalizeRotation(deg int) int {
	return ((deg % 360) + 360) % 360
}

// RotateImage saves a new absolute rotation for an image by sending the
// delta since the tracker's baseline. A zero delta never reaches the
// wire. The baseline moves only on success; on failure the caller's
// display value should roll back to the baseline.
func (c *Client) RotateImage(ctx context.Context, tracker *RotationTracker, imageID string, newRotation int) error {
	delta := tracker.Delta(imageID, newRotation)
	if delta == 0 {
		return nil
	}
	if err := c.send(ctx, "PUT", "/image/"+imageID, map[string]interface{}{"rotation": delta}, nil); err != nil {
		return err
	}
	tracker.Commit(imageID, newRotation)
	return nil
}
