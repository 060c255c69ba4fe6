package views

import "lingoplay/internal/models"

// LevelStyle is how a lesson level is presented
type LevelStyle struct {
	Label string
	Badge string // CSS class of the level badge
	Bar   string // CSS class of the progress bar
}

var levelStyles = map[models.Level]LevelStyle{
	models.LevelBeginner:     {Label: "Beginner", Badge: "badge-green", Bar: "bar-green"},
	models.LevelIntermediate: {Label: "Intermediate", Badge: "badge-amber", Bar: "bar-amber"},
	models.LevelAdvanced:     {Label: "Advanced", Badge: "badge-red", Bar: "bar-red"},
}

var unknownLevel = LevelStyle{Label: "Unrated", Badge: "badge-grey", Bar: "bar-grey"}

// StyleForLevel looks up the presentation of level
func StyleForLevel(level models.Level) LevelStyle {
	if style, ok := levelStyles[level]; ok {
		return style
	}
	return unknownLevel
}
