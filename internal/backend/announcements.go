package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Announcement is a scheduled notice shown on the public updates page.
type Announcement struct {
	ID          int64           `json:"id,omitempty"`
	Title       string          `json:"title"`
	Content     string          `json:"content,omitempty"`
	DataJSON    json.RawMessage `json:"data_json,omitempty"`
	Priority    string          `json:"priority,omitempty"`
	ScheduledAt *time.Time      `json:"scheduled_at"`
	ImageBase64 string          `json:"image_base64,omitempty"`
}

const announcementsPath = "/api/announcements"

// ListAnnouncements returns every announcement.
func (c *Client) ListAnnouncements(ctx context.Context) ([]Announcement, error) {
	data, err := c.doJSON(ctx, http.MethodGet, announcementsPath, nil)
	if err != nil {
		return nil, err
	}
	var out []Announcement
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode announcements: %w", err)
	}
	return out, nil
}

// CreateAnnouncement stores a new announcement.
func (c *Client) CreateAnnouncement(ctx context.Context, a Announcement) (Announcement, error) {
	a.ID = 0
	data, err := c.doJSON(ctx, http.MethodPost, announcementsPath, a)
	if err != nil {
		return Announcement{}, err
	}
	return decodeAnnouncement(data, a)
}

// UpdateAnnouncement replaces the announcement with a.ID.
func (c *Client) UpdateAnnouncement(ctx context.Context, a Announcement) (Announcement, error) {
	if a.ID <= 0 {
		return Announcement{}, fmt.Errorf("%w: announcement id %d", ErrInvalidID, a.ID)
	}
	data, err := c.doJSON(ctx, http.MethodPut, announcementsPath+"/"+strconv.FormatInt(a.ID, 10), a)
	if err != nil {
		return Announcement{}, err
	}
	return decodeAnnouncement(data, a)
}

// DeleteAnnouncement removes an announcement.
func (c *Client) DeleteAnnouncement(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: announcement id %d", ErrInvalidID, id)
	}
	_, err := c.doJSON(ctx, http.MethodDelete, announcementsPath+"/"+strconv.FormatInt(id, 10), nil)
	return err
}

// decodeAnnouncement decodes the echoed announcement, falling back to sent when the
// backend answers without a body.
func decodeAnnouncement(data []byte, sent Announcement) (Announcement, error) {
	if len(data) == 0 {
		return sent, nil
	}
	var out Announcement
	if err := json.Unmarshal(data, &out); err != nil {
		return Announcement{}, fmt.Errorf("failed to decode announcement: %w", err)
	}
	return out, nil
}
