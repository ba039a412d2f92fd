package models

type ThemePalette struct {
	Paper  string `json:"paper"`
	Paper2 string `json:"paper2"`
	Ink    string `json:"ink"`
	Accent string `json:"accent"`
	Muted  string `json:"muted"`
	Olive  string `json:"olive"`
	Shadow string `json:"shadow"`
}

type ThemeFonts struct {
	Display string `json:"display"`
	Body    string `json:"body"`
}

type TextEffect string

const (
	TextEffectNone         TextEffect = "none"
	TextEffectSoftShadow   TextEffect = "soft-shadow"
	TextEffectOutline      TextEffect = "outline"
	TextEffectGlow         TextEffect = "glow"
	TextEffectEmboss       TextEffect = "emboss"
	TextEffectShadowStrong TextEffect = "shadow-strong"
	TextEffectNeon         TextEffect = "neon"
)

type ThemeTexture string

const (
	ThemeTextureNone       ThemeTexture = "none"
	ThemeTextureWatercolor ThemeTexture = "watercolor"
	ThemeTextureKraft      ThemeTexture = "kraft"
	ThemeTextureGraph      ThemeTexture = "graph"
	ThemeTextureDot        ThemeTexture = "dot"
	ThemeTextureWashi      ThemeTexture = "washi"
	ThemeTextureCardstock  ThemeTexture = "cardstock"
)

type ThemeEffects struct {
	Display TextEffect `json:"display"`
	Body    TextEffect `json:"body"`
	Label   TextEffect `json:"label"`
}

/*
Theme bundles the palette, font pair, per-role text effects, and
background texture. Themes are global or overridden per album; per-album
overrides win when the album is selected.
*/
type Theme struct {
	Palette ThemePalette `json:"palette"`
	Fonts   ThemeFonts   `json:"fonts"`
	Effects ThemeEffects `json:"effects"`
	Texture ThemeTexture `json:"texture"`
}

// Normalize fills enum fields left empty by older persisted documents.
func (t *Theme) Normalize() {
	if t.Texture == "" {
		t.Texture = ThemeTextureNone
	}

	if t.Effects.Display == "" {
		t.Effects.Display = TextEffectNone
	}

	if t.Effects.Body == "" {
		t.Effects.Body = TextEffectNone
	}

	if t.Effects.Label == "" {
		t.Effects.Label = TextEffectNone
	}
}
