package domain

// Theme names a colour scheme.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeNeon   Theme = "neon"
	ThemeSakura Theme = "sakura"
)

var themeCycle = []Theme{ThemeLight, ThemeDark, ThemeNeon, ThemeSakura}

// Next returns the theme that follows t in the cycle.
func (t Theme) Next() Theme {
	for i, theme := range themeCycle {
		if theme == t {
			return themeCycle[(i+1)%len(themeCycle)]
		}
	}
	return ThemeLight
}

func (t Theme) Valid() bool {
	for _, theme := range themeCycle {
		if theme == t {
			return true
		}
	}
	return false
}

// Settings are display preferences stored alongside the progress.
type Settings struct {
	Theme         Theme `json:"theme"`
	ReducedMotion bool  `json:"reducedMotion"`
	HighContrast  bool  `json:"highContrast"`
	Notifications bool  `json:"notifications"`
}

func DefaultSettings() Settings {
	return Settings{
		Theme:         ThemeLight,
		Notifications: true,
	}
}

// SettingsPatch overlays individual settings. Nil means "keep".
type SettingsPatch struct {
	Theme         *Theme `json:"theme,omitempty"`
	ReducedMotion *bool  `json:"reducedMotion,omitempty"`
	HighContrast  *bool  `json:"highContrast,omitempty"`
	Notifications *bool  `json:"notifications,omitempty"`
}

// Apply returns s with the patch applied, rejecting unknown themes.
func (s Settings) Apply(patch SettingsPatch) (Settings, error) {
	if patch.Theme != nil {
		if !patch.Theme.Valid() {
			return s, Invalidf("unknown theme %q", *patch.Theme)
		}
		s.Theme = *patch.Theme
	}
	if patch.ReducedMotion != nil {
		s.ReducedMotion = *patch.ReducedMotion
	}
	if patch.HighContrast != nil {
		s.HighContrast = *patch.HighContrast
	}
	if patch.Notifications != nil {
		s.Notifications = *patch.Notifications
	}
	return s, nil
}
