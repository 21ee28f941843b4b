package models

import "time"

// Image is embedded in a Share. URLs may point anywhere; previews are
// best-effort, so PreviewURL falls back to URL when none was generated.
type Image struct {
	URL         string `json:"url"`
	PreviewURL  string `json:"preview_url,omitempty"`
	Filename    string `json:"filename,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// Share is a named, ordered collection of images owned by one user.
type Share struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Name        string     `json:"name"` // creator label shown on the public page
	Description string     `json:"description"`
	Images      []Image    `json:"images"`
	CreatorID   string     `json:"creator_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// Normalize fills optional fields with defined defaults so consumers
// never branch on missing vs empty.
func (s *Share) Normalize() {
	if s.Images == nil {
		s.Images = []Image{}
	}
}
