package game

import (
	"errors"
	"image/color"
	"testing"

	"github.com/decker502/scenery/pkg/companion"
	"github.com/hajimehoshi/ebiten/v2"
)

const rangerYAML = `
name: Ranger
description: Forest ranger
language: fr
fontFace: gobold
fontSize: 200
textColor: "0xFF0000"
trackChange:
  - "Up next: ${track}"
triggers:
  - artist: The Band
    responses: ["Great band!"]
  - scenery: [forest]
    responses: ["Nice trees.", ""]
idleChatter: ["Hmm."]
`

func TestParseCompanionDefinition(t *testing.T) {
	def, err := ParseCompanionDefinition([]byte(rangerYAML))
	if err != nil {
		t.Fatalf("ParseCompanionDefinition() error = %v", err)
	}

	c, err := def.Build([]*ebiten.Image{ebiten.NewImage(4, 4)})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if c.Name() != "Ranger" || c.Language() != "fr" || c.Description() != "Forest ranger" {
		t.Errorf("metadata = %q/%q/%q", c.Name(), c.Language(), c.Description())
	}
	if c.TriggerCount() != 2 {
		t.Errorf("TriggerCount() = %d, 期望 2", c.TriggerCount())
	}
	if c.TotalResponseCount() != 3 {
		t.Errorf("TotalResponseCount() = %d, 期望 3", c.TotalResponseCount())
	}

	style := c.Style()
	if style.FontFace != "gobold" || style.FontSize != 88 {
		t.Errorf("Style() = %+v, 期望 gobold 88", style)
	}
	if style.TextColor != (color.RGBA{R: 0xff, A: 0xff}) {
		t.Errorf("TextColor = %v", style.TextColor)
	}
	if style.BackgroundColor != nil {
		t.Errorf("BackgroundColor = %v, 期望不覆盖", style.BackgroundColor)
	}
}

// TestParseCompanionDefinitionJSON JSON 格式的定义同样可以解析
func TestParseCompanionDefinitionJSON(t *testing.T) {
	doc := `{"name": "Json", "triggers": [{"track": "Song", "responses": ["ok"]}]}`
	def, err := ParseCompanionDefinition([]byte(doc))
	if err != nil {
		t.Fatalf("ParseCompanionDefinition(json) error = %v", err)
	}
	c, err := def.Build([]*ebiten.Image{ebiten.NewImage(2, 2)})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if c.Language() != companion.DefaultLanguage {
		t.Errorf("Language() = %q, 期望默认语言", c.Language())
	}
}

func TestParseCompanionDefinitionErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{"缺少名称", `triggers: [{artist: a, responses: [r]}]`, companion.ErrBlankName},
		{"语言为空白", "name: x\nlanguage: ' '\ntriggers: [{artist: a, responses: [r]}]", companion.ErrBlankLanguage},
		{"没有触发器", `name: x`, companion.ErrNoTriggers},
		{"颜色格式错误", "name: x\ntextColor: red\ntriggers: [{artist: a, responses: [r]}]", nil},
		{"YAML 语法错误", "name: [unterminated", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCompanionDefinition([]byte(tt.doc))
			if err == nil {
				t.Fatal("期望返回错误")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, 期望 %v", err, tt.wantErr)
			}
		})
	}
}

// TestBuildInvalidTrigger 触发器无效时整个导游被拒绝
func TestBuildInvalidTrigger(t *testing.T) {
	def, err := ParseCompanionDefinition([]byte("name: x\ntriggers: [{responses: [r]}]"))
	if err != nil {
		t.Fatalf("ParseCompanionDefinition() error = %v", err)
	}
	if _, err := def.Build([]*ebiten.Image{ebiten.NewImage(2, 2)}); !errors.Is(err, companion.ErrNoTriggerFields) {
		t.Errorf("Build() error = %v, 期望 ErrNoTriggerFields", err)
	}
}

func TestParseSceneryDefinition(t *testing.T) {
	def, err := ParseSceneryDefinition([]byte(`tags: [Forest, night]`))
	if err != nil {
		t.Fatalf("ParseSceneryDefinition() error = %v", err)
	}
	if len(def.Tags) != 2 {
		t.Errorf("Tags = %v", def.Tags)
	}

	for _, doc := range []string{`tags: []`, `tags: [" "]`, `other: 1`} {
		if _, err := ParseSceneryDefinition([]byte(doc)); !errors.Is(err, companion.ErrNoTags) {
			t.Errorf("ParseSceneryDefinition(%q) error = %v, 期望 ErrNoTags", doc, err)
		}
	}
}
