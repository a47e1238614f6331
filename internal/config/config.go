package config

// Config is the root configuration structure.
type Config struct {
	Picker PickerConfig `json:"picker"`
	Keymap KeymapConfig `json:"keymap"`
	UI     UIConfig     `json:"ui"`
}

// PickerConfig configures picker behavior.
type PickerConfig struct {
	// DefaultTone is the skin tone rank applied at startup, 0 = base.
	DefaultTone int `json:"defaultTone"`
	// RecentLimit caps the "Recently Used" history.
	RecentLimit int `json:"recentLimit"`
	// CopyToClipboard also places committed glyphs on the system
	// clipboard in addition to inserting into the document.
	CopyToClipboard bool `json:"copyToClipboard"`
}

// KeymapConfig holds key binding overrides. Keys are action IDs
// (e.g. "picker.open"), values are bubbletea key names.
type KeymapConfig struct {
	Overrides map[string]string `json:"overrides"`
}

// UIConfig configures UI appearance.
type UIConfig struct {
	ShowFooter  bool `json:"showFooter"`
	ShowInfoBar bool `json:"showInfoBar"`
}

// maxToneRank is the highest skin tone rank in the Unicode modifier set.
const maxToneRank = 5

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Picker: PickerConfig{
			DefaultTone:     0,
			RecentLimit:     24,
			CopyToClipboard: true,
		},
		Keymap: KeymapConfig{
			Overrides: make(map[string]string),
		},
		UI: UIConfig{
			ShowFooter:  true,
			ShowInfoBar: true,
		},
	}
}

// Validate normalizes out-of-range values in place.
func (c *Config) Validate() error {
	if c.Picker.DefaultTone < 0 || c.Picker.DefaultTone > maxToneRank {
		c.Picker.DefaultTone = 0
	}
	if c.Picker.RecentLimit <= 0 {
		c.Picker.RecentLimit = 24
	}
	if c.Keymap.Overrides == nil {
		c.Keymap.Overrides = make(map[string]string)
	}
	return nil
}
