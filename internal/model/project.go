package model

import "time"

// ProjectID identifies a row in the `projects` table.
type ProjectID uint64

// Project is a portfolio entry managed by admins.
type Project struct {
	ID           ProjectID `json:"id"`
	Name         string    `json:"name"`
	ThumbnailURL string    `json:"thumbnail_url"`
	LiveURL      string    `json:"live_url"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProjectPatch carries a partial update.  Nil fields are left unchanged.
type ProjectPatch struct {
	Name         *string `json:"name"`
	ThumbnailURL *string `json:"thumbnail_url"`
	LiveURL      *string `json:"live_url"`
	Description  *string `json:"description"`
}

// Apply copies the non-nil fields of the patch onto p.
func (pp ProjectPatch) Apply(p *Project) {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.ThumbnailURL != nil {
		p.ThumbnailURL = *pp.ThumbnailURL
	}
	if pp.LiveURL != nil {
		p.LiveURL = *pp.LiveURL
	}
	if pp.Description != nil {
		p.Description = *pp.Description
	}
}

// Empty reports whether the patch changes nothing.
func (pp ProjectPatch) Empty() bool {
	return pp.Name == nil && pp.ThumbnailURL == nil && pp.LiveURL == nil && pp.Description == nil
}
