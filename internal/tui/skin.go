package tui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Skin holds the color palette for the landing page. Custom skins are
// yaml files in <configDir>/skins/<name>.yml; missing keys keep their
// defaults.
type Skin struct {
	Accent    string `yaml:"accent"`
	AccentAlt string `yaml:"accent-alt"`
	Text      string `yaml:"text"`
	Muted     string `yaml:"muted"`
	Surface   string `yaml:"surface"`
	Border    string `yaml:"border"`
	Good      string `yaml:"good"`
}

func defaultSkin() Skin {
	// The demo app's palette: blue gradient accents on a soft surface.
	return Skin{
		Accent:    "#3B82F6",
		AccentAlt: "#60A5FA",
		Text:      "#F9FAFB",
		Muted:     "#6B7280",
		Surface:   "#111827",
		Border:    "#374151",
		Good:      "#34D399",
	}
}

// Palette colors, initialized from the default skin and overridden by
// InitializeSkin before the program starts.
var (
	ColorAccent    lipgloss.Color
	ColorAccentAlt lipgloss.Color
	ColorText      lipgloss.Color
	ColorMuted     lipgloss.Color
	ColorSurface   lipgloss.Color
	ColorBorder    lipgloss.Color
	ColorGood      lipgloss.Color
)

func init() {
	applySkin(defaultSkin())
}

// InitializeSkin loads the named skin from configDir and applies it.
// The "default" skin never touches the filesystem.
func InitializeSkin(name, configDir string) error {
	if name == "" || name == "default" {
		applySkin(defaultSkin())
		return nil
	}

	path := filepath.Join(configDir, "skins", name+".yml")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("skin %q: %w", name, err)
	}

	skin := defaultSkin()
	if err := yaml.Unmarshal(data, &skin); err != nil {
		return fmt.Errorf("skin %q: %w", name, err)
	}
	applySkin(skin)
	return nil
}

func applySkin(s Skin) {
	ColorAccent = lipgloss.Color(s.Accent)
	ColorAccentAlt = lipgloss.Color(s.AccentAlt)
	ColorText = lipgloss.Color(s.Text)
	ColorMuted = lipgloss.Color(s.Muted)
	ColorSurface = lipgloss.Color(s.Surface)
	ColorBorder = lipgloss.Color(s.Border)
	ColorGood = lipgloss.Color(s.Good)
	rebuildStyles()
}
