package models

/*
EditorSnapshot is an immutable point-in-time copy of the editable fields
tracked by undo/redo. Applying a snapshot restores every one of these
fields; partial application is never valid.
*/
type EditorSnapshot struct {
	Content          Content           `json:"content"`
	TextOverrides    map[string]string `json:"textOverrides"`
	GlobalTheme      Theme             `json:"globalTheme"`
	AlbumThemes      map[string]Theme  `json:"albumThemes"`
	HeroHeight       float64           `json:"heroHeight"`
	HeroScale        float64           `json:"heroScale"`
	AlbumImageHeight float64           `json:"albumImageHeight"`
	GalleryScale     float64           `json:"galleryScale"`
}

func CopyStringMap(src map[string]string) map[string]string {
	result := make(map[string]string, len(src))

	for k, v := range src {
		result[k] = v
	}

	return result
}

func CopyThemeMap(src map[string]Theme) map[string]Theme {
	result := make(map[string]Theme, len(src))

	for k, v := range src {
		result[k] = v
	}

	return result
}

func CopyImageEditMap(src map[string]ImageEdit) map[string]ImageEdit {
	result := make(map[string]ImageEdit, len(src))

	for k, v := range src {
		result[k] = v
	}

	return result
}
