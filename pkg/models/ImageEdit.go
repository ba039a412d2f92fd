package models

/*
ImageEdit is a display-only crop/zoom applied per media key. The
underlying binary is never mutated.
*/
type ImageEdit struct {
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

func DefaultImageEdit() ImageEdit {
	return ImageEdit{Scale: 1, OffsetX: 0, OffsetY: 0}
}

type ImageEditPatch struct {
	Scale   *float64 `json:"scale,omitempty"`
	OffsetX *float64 `json:"offsetX,omitempty"`
	OffsetY *float64 `json:"offsetY,omitempty"`
}

func (e *ImageEdit) Apply(patch ImageEditPatch) {
	if patch.Scale != nil {
		e.Scale = *patch.Scale
	}

	if patch.OffsetX != nil {
		e.OffsetX = *patch.OffsetX
	}

	if patch.OffsetY != nil {
		e.OffsetY = *patch.OffsetY
	}
}
