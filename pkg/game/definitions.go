package game

import (
	"fmt"
	"strings"

	"github.com/decker502/scenery/pkg/companion"
	"github.com/decker502/scenery/pkg/config"
	"github.com/hajimehoshi/ebiten/v2"
	"gopkg.in/yaml.v3"
)

// CompanionDefinition represents a companion definition file.
// Definitions are YAML documents; JSON documents are accepted as well since
// YAML is a superset of JSON. The images belonging to a definition are the
// image files next to it whose base name starts with the definition's base name.
//
// Structure:
//
//	name: Ranger
//	description: A forest ranger who likes folk music
//	language: en
//	fontFace: gobold
//	fontSize: 32
//	textColor: "0xFFFFFF"
//	textBgColor: "0x203020"
//	trackChange:
//	  - Up next, ${track} by ${artist}.
//	triggers:
//	  - artist: The Beatles
//	    track: Hey Jude
//	    scenery: [studio]
//	    responses: [...]
//	idleChatter: [...]
type CompanionDefinition struct {
	Name        string              `yaml:"name"`        // Companion name (required)
	Description string              `yaml:"description"` // Free-form description
	Language    *string             `yaml:"language"`    // Optional, but must not be blank when present
	FontFace    string              `yaml:"fontFace"`    // Caption font override
	FontSize    int                 `yaml:"fontSize"`    // Caption font size (clamped to 4..88)
	TextColor   string              `yaml:"textColor"`   // Caption text color, 0xRRGGBB
	TextBgColor string              `yaml:"textBgColor"` // Caption background color, 0xRRGGBB
	TrackChange []string            `yaml:"trackChange"` // Track change announcement templates
	Triggers    []TriggerDefinition `yaml:"triggers"`    // At least one trigger is required
	IdleChatter []string            `yaml:"idleChatter"` // Lines used when no trigger matches
}

// TriggerDefinition represents a single trigger inside a companion definition.
//
// Fields:
//   - Artist: Artist name to match (case-insensitive), optional
//   - Track: Track title to match (case-insensitive), optional
//   - Scenery: Scenery tags that must all be present, optional
//   - Responses: Candidate lines (at least one non-blank)
type TriggerDefinition struct {
	Artist    string   `yaml:"artist"`
	Track     string   `yaml:"track"`
	Scenery   []string `yaml:"scenery"`
	Responses []string `yaml:"responses"`
}

// SceneryDefinition represents a scenery definition file.
//
// Example:
//
//	tags: [forest, night, calm]
type SceneryDefinition struct {
	Tags []string `yaml:"tags"` // Descriptive tags (at least one)
}

// ParseCompanionDefinition decodes and validates a companion definition document.
//
// Returns:
//   - The parsed definition.
//   - An error if the document is malformed, has no name, has a blank language,
//     has no triggers or uses a malformed color.
func ParseCompanionDefinition(data []byte) (*CompanionDefinition, error) {
	var def CompanionDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse companion definition: %w", err)
	}

	if strings.TrimSpace(def.Name) == "" {
		return nil, fmt.Errorf("companion definition must specify a name: %w", companion.ErrBlankName)
	}
	if def.Language != nil && strings.TrimSpace(*def.Language) == "" {
		return nil, fmt.Errorf("companion %q: %w", def.Name, companion.ErrBlankLanguage)
	}
	if len(def.Triggers) == 0 {
		return nil, fmt.Errorf("companion %q: %w", def.Name, companion.ErrNoTriggers)
	}
	if def.TextColor != "" {
		if _, err := config.ParseRGB(def.TextColor); err != nil {
			return nil, fmt.Errorf("companion %q textColor: %w", def.Name, err)
		}
	}
	if def.TextBgColor != "" {
		if _, err := config.ParseRGB(def.TextBgColor); err != nil {
			return nil, fmt.Errorf("companion %q textBgColor: %w", def.Name, err)
		}
	}

	return &def, nil
}

// BuildTriggers converts the trigger definitions into validated triggers.
func (d *CompanionDefinition) BuildTriggers() ([]companion.Trigger, error) {
	triggers := make([]companion.Trigger, 0, len(d.Triggers))
	for i, td := range d.Triggers {
		t, err := companion.NewTrigger(td.Artist, td.Track, td.Scenery, td.Responses)
		if err != nil {
			return nil, fmt.Errorf("companion %q trigger #%d: %w", d.Name, i+1, err)
		}
		triggers = append(triggers, t)
	}
	return triggers, nil
}

// Style returns the caption style override described by the definition.
// Unset fields stay zero, meaning "use the default".
func (d *CompanionDefinition) Style() companion.Style {
	s := companion.Style{
		FontFace: d.FontFace,
		FontSize: float64(d.FontSize),
	}
	if c, err := config.ParseRGB(d.TextColor); err == nil {
		s.TextColor = c
	}
	if c, err := config.ParseRGB(d.TextBgColor); err == nil {
		s.BackgroundColor = c
	}
	return s
}

// Build creates the companion from the definition and its (already scaled) portraits.
func (d *CompanionDefinition) Build(images []*ebiten.Image) (*companion.Companion, error) {
	triggers, err := d.BuildTriggers()
	if err != nil {
		return nil, err
	}

	opts := []companion.Option{
		companion.WithDescription(d.Description),
		companion.WithStyle(d.Style()),
		companion.WithTrackChangeMessages(d.TrackChange),
		companion.WithIdleChatter(d.IdleChatter),
	}
	if d.Language != nil {
		opts = append(opts, companion.WithLanguage(strings.TrimSpace(*d.Language)))
	}

	c, err := companion.New(strings.TrimSpace(d.Name), images, triggers, opts...)
	if err != nil {
		return nil, fmt.Errorf("companion %q: %w", d.Name, err)
	}
	return c, nil
}

// ParseSceneryDefinition decodes and validates a scenery definition document.
func ParseSceneryDefinition(data []byte) (*SceneryDefinition, error) {
	var def SceneryDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse scenery definition: %w", err)
	}

	for _, tag := range def.Tags {
		if strings.TrimSpace(tag) != "" {
			return &def, nil
		}
	}
	return nil, fmt.Errorf("scenery definition: %w", companion.ErrNoTags)
}
