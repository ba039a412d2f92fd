package models

import "encoding/json"

/*
Content is the canonical copy of the site: a flat mapping of every
user-facing text field to its current value.
*/
type Content struct {
	SiteKicker          string `json:"siteKicker"`
	SiteTitle           string `json:"siteTitle"`
	HeroDate            string `json:"heroDate"`
	HeroHeadline        string `json:"heroHeadline"`
	HeroIntro           string `json:"heroIntro"`
	HeroCtaPrimary      string `json:"heroCtaPrimary"`
	HeroCtaSecondary    string `json:"heroCtaSecondary"`
	HeroCardTitle       string `json:"heroCardTitle"`
	HeroCardDetail      string `json:"heroCardDetail"`
	GalleryTitle        string `json:"galleryTitle"`
	GalleryDescription  string `json:"galleryDescription"`
	AlbumsTitle         string `json:"albumsTitle"`
	UploadTitle         string `json:"uploadTitle"`
	UploadDescription   string `json:"uploadDescription"`
	TimelineTitle       string `json:"timelineTitle"`
	TimelineDescription string `json:"timelineDescription"`
	AboutTitle          string `json:"aboutTitle"`
	AboutBody           string `json:"aboutBody"`
	ContactLabel        string `json:"contactLabel"`
	ContactText         string `json:"contactText"`
	ContactEmail        string `json:"contactEmail"`
}

/*
Fields returns the content as a field name to value map, keyed by the
JSON names. This is the shape broadcast to other windows.
*/
func (c Content) Fields() map[string]string {
	var (
		b      []byte
		result map[string]string
	)

	b, _ = json.Marshal(c)
	_ = json.Unmarshal(b, &result)
	return result
}

/*
Merge applies the provided fields onto the content, leaving every field
not named in the map untouched. Unknown field names are ignored.
*/
func (c *Content) Merge(fields map[string]string) {
	if len(fields) == 0 {
		return
	}

	b, err := json.Marshal(fields)

	if err != nil {
		return
	}

	_ = json.Unmarshal(b, c)
}
