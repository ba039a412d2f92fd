package models

/*
Album is a named collection of uploads. Src/Alt/Type describe the
fallback cover used until the album has uploads; CoverID, when set,
names the upload shown first and used as the album cover.
*/
type Album struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Count   string    `json:"count"`
	Date    string    `json:"date"`
	Mood    string    `json:"mood"`
	Privacy string    `json:"privacy"`
	Src     string    `json:"src"`
	Alt     string    `json:"alt"`
	Type    MediaType `json:"type"`
	CoverID string    `json:"coverId,omitempty"`
}

type AlbumPatch struct {
	Title   *string `json:"title,omitempty"`
	Count   *string `json:"count,omitempty"`
	Date    *string `json:"date,omitempty"`
	Mood    *string `json:"mood,omitempty"`
	Privacy *string `json:"privacy,omitempty"`
	CoverID *string `json:"coverId,omitempty"`
}

func (a *Album) Apply(patch AlbumPatch) {
	if patch.Title != nil {
		a.Title = *patch.Title
	}

	if patch.Count != nil {
		a.Count = *patch.Count
	}

	if patch.Date != nil {
		a.Date = *patch.Date
	}

	if patch.Mood != nil {
		a.Mood = *patch.Mood
	}

	if patch.Privacy != nil {
		a.Privacy = *patch.Privacy
	}

	if patch.CoverID != nil {
		a.CoverID = *patch.CoverID
	}
}
