package model

import "time"

// Resolution is one of the fixed video qualities.
type Resolution string

// Resolutions lists every accepted value in ascending order.
var Resolutions = []Resolution{"P144", "P240", "P360", "P480", "P720", "P1080", "P1440", "P2160"}

// ValidResolution reports whether r is known.
func ValidResolution(r Resolution) bool {
	for _, known := range Resolutions {
		if r == known {
			return true
		}
	}
	return false
}

type Video struct {
	ID                   int64        `json:"id"`
	Title                string       `json:"title"`
	Author               string       `json:"author"`
	CanBeDownloaded      bool         `json:"canBeDownloaded"`
	MinAgeRestriction    *int         `json:"minAgeRestriction"`
	CreatedAt            time.Time    `json:"createdAt"`
	PublicationDate      time.Time    `json:"publicationDate"`
	AvailableResolutions []Resolution `json:"availableResolutions"`
}

// VideoCreateInput is the body of POST /videos.
type VideoCreateInput struct {
	Title                string       `json:"title"`
	Author               string       `json:"author"`
	AvailableResolutions []Resolution `json:"availableResolutions"`
}

// VideoPatch is the body of PUT /videos/{id}. Absent fields keep their value.
type VideoPatch struct {
	Title                *string      `json:"title"`
	Author               *string      `json:"author"`
	AvailableResolutions []Resolution `json:"availableResolutions"`
	CanBeDownloaded      *bool        `json:"canBeDownloaded"`
	MinAgeRestriction    *int         `json:"minAgeRestriction"`
	PublicationDate      *time.Time   `json:"publicationDate"`
}

// Apply writes every present field onto v.
func (p VideoPatch) Apply(v *Video) {
	setIfPresent(&v.Title, p.Title)
	setIfPresent(&v.Author, p.Author)
	if p.AvailableResolutions != nil {
		v.AvailableResolutions = p.AvailableResolutions
	}
	if p.CanBeDownloaded != nil {
		v.CanBeDownloaded = *p.CanBeDownloaded
	}
	if p.MinAgeRestriction != nil {
		age := *p.MinAgeRestriction
		v.MinAgeRestriction = &age
	}
	if p.PublicationDate != nil {
		v.PublicationDate = p.PublicationDate.UTC()
	}
}
