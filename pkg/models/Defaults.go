package models

// DefaultHeroSrc is shown when no hero source album is selected.
const DefaultHeroSrc = "/static/media/hero-sunday-light.svg"

// DefaultHeroAlt matches DefaultHeroSrc.
const DefaultHeroAlt = "Warm morning light through a kitchen window"

// DefaultAlbumCoverSrc is the fallback cover for newly created albums.
const DefaultAlbumCoverSrc = "/static/media/album-winter-kitchen.svg"

func DefaultContent() Content {
	return Content{
		SiteKicker:          "personal archive",
		SiteTitle:           "Sunday Album",
		HeroDate:            "Feb 2026 · Prague",
		HeroHeadline:        "Photographs and film, arranged like a quiet journal.",
		HeroIntro:           "A personal archive for friends and family. Browse the latest moments, then dive into each album when you have time to linger.",
		HeroCtaPrimary:      "open gallery",
		HeroCtaSecondary:    "browse albums",
		HeroCardTitle:       "Sunday light",
		HeroCardDetail:      "7:06 AM · 4 photos · kitchen window",
		GalleryTitle:        "A living wall of moments",
		GalleryDescription:  "Mixed sizes, like pages on a table.",
		AlbumsTitle:         "Collections for friends",
		UploadTitle:         "Add new moments",
		UploadDescription:   "Drag and drop images or videos, or use the picker.",
		TimelineTitle:       "Recent moments",
		TimelineDescription: "A quiet feed of the week, saved in order so it feels like turning pages.",
		AboutTitle:          "Made for friends and family",
		AboutBody:           "This space is private by default. Every album can be shared with a link, and videos play softly until you choose to listen. I add new moments every Sunday.",
		ContactLabel:        "contact",
		ContactText:         "Send a note for a private link or a download.",
		ContactEmail:        "hello@sundayalbum.com",
	}
}

func DefaultTheme() Theme {
	return Theme{
		Palette: ThemePalette{
			Paper:  "#efe7dc",
			Paper2: "#e7dccf",
			Ink:    "#2b2723",
			Accent: "#b86f55",
			Muted:  "#c9beae",
			Olive:  "#5a5f45",
			Shadow: "rgba(43, 39, 35, 0.12)",
		},
		Fonts: ThemeFonts{
			Display: "'Playfair Display', serif",
			Body:    "'Manrope', sans-serif",
		},
		Effects: ThemeEffects{
			Display: TextEffectNone,
			Body:    TextEffectNone,
			Label:   TextEffectNone,
		},
		Texture: ThemeTextureNone,
	}
}

func SeedAlbums() []Album {
	return []Album{
		{
			ID:      "album-winter-kitchen",
			Title:   "Winter Kitchen",
			Count:   "18 photos",
			Date:    "Jan 2026",
			Mood:    "Morning light and warm tea.",
			Privacy: "Private link",
			Src:     "/static/media/album-winter-kitchen.svg",
			Alt:     "Cozy kitchen scene",
			Type:    MediaTypeImage,
		},
		{
			ID:      "album-snow-walks",
			Title:   "Snow Walks",
			Count:   "12 photos · 2 videos",
			Date:    "Dec 2025",
			Mood:    "Soft footsteps and quiet streets.",
			Privacy: "Friends",
			Src:     "/static/media/album-snow-walks.svg",
			Alt:     "Snowy walk in a quiet neighborhood",
			Type:    MediaTypeImage,
		},
		{
			ID:      "album-sunday-tables",
			Title:   "Sunday Tables",
			Count:   "24 photos",
			Date:    "Nov 2025",
			Mood:    "Family lunches, small rituals.",
			Privacy: "Private link",
			Src:     "/static/media/album-sunday-tables.svg",
			Alt:     "Family lunch table",
			Type:    MediaTypeImage,
		},
		{
			ID:      "album-autumn-woods",
			Title:   "Autumn Woods",
			Count:   "15 photos",
			Date:    "Oct 2025",
			Mood:    "Leaves, fog, and an old thermos.",
			Privacy: "Friends",
			Src:     "/static/media/album-autumn-woods.svg",
			Alt:     "Autumn woods with soft fog",
			Type:    MediaTypeImage,
		},
	}
}

func SeedTimeline() []TimelineItem {
	return []TimelineItem{
		{
			ID:     "moment-snow-window",
			Date:   "Today",
			Title:  "First snow by the window",
			Detail: "7:06 AM · 4 photos",
			Src:    "/static/media/thumb-snow-window.svg",
			Alt:    "Snow at the window",
			Type:   MediaTypeImage,
		},
		{
			ID:     "moment-candlelight",
			Date:   "Yesterday",
			Title:  "Candlelight dinner",
			Detail: "9:12 PM · 1 video",
			Src:    "/static/media/thumb-candlelight.svg",
			Alt:    "Candlelight glow",
			Type:   MediaTypeVideo,
		},
		{
			ID:     "moment-market",
			Date:   "Jan 30",
			Title:  "Market morning",
			Detail: "10:18 AM · 6 photos",
			Src:    "/static/media/thumb-market.svg",
			Alt:    "Morning market stalls",
			Type:   MediaTypeImage,
		},
	}
}
