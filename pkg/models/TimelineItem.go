package models

/*
TimelineItem is one entry in the "moments" feed. Curated entries are
editable and persisted; generated entries are derived views over recent
uploads and are neither editable nor deletable.
*/
type TimelineItem struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	Title       string    `json:"title"`
	Detail      string    `json:"detail"`
	Src         string    `json:"src"`
	Alt         string    `json:"alt"`
	Type        MediaType `json:"type"`
	VideoSrc    string    `json:"videoSrc,omitempty"`
	IsGenerated bool      `json:"isGenerated,omitempty"`
}

type TimelineItemPatch struct {
	Date   *string `json:"date,omitempty"`
	Title  *string `json:"title,omitempty"`
	Detail *string `json:"detail,omitempty"`
}

func (t *TimelineItem) Apply(patch TimelineItemPatch) {
	if patch.Date != nil {
		t.Date = *patch.Date
	}

	if patch.Title != nil {
		t.Title = *patch.Title
	}

	if patch.Detail != nil {
		t.Detail = *patch.Detail
	}
}
