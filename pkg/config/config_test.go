package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"github.com/imavis/jta-annotations/pkg/pose"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load(viper.New())
	if err != nil {
		t.Fatal(err)
	}

	if c.Pose != pose.DefaultConfig() {
		t.Errorf("Wrong pose config: %+v, expected: %+v", c.Pose, pose.DefaultConfig())
	}
	if c.FrameWidth != 1920 || c.FrameHeight != 1080 || c.FPS != 20 {
		t.Errorf("Wrong frame defaults: %dx%d@%v", c.FrameWidth, c.FrameHeight, c.FPS)
	}
	if c.PaletteSize != 42 {
		t.Errorf("Wrong palette size: %d", c.PaletteSize)
	}
	if !c.Encode.HideInvisible || c.Encode.HideHalfNotVisible || !c.Encode.ClampToFrame {
		t.Errorf("Wrong encode defaults: %+v", c.Encode)
	}
	if c.Render.BBox || !c.Render.Hide || c.Render.Thickness != 2 {
		t.Errorf("Wrong render defaults: %+v", c.Render)
	}

	tax, err := c.Taxonomy()
	if err != nil {
		t.Fatal(err)
	}
	if name, id, err := tax.Resolve("motorbike"); err != nil || name != "motorcycle" || id != 5 {
		t.Errorf("Wrong default taxonomy: got (%s, %d, %v)", name, id, err)
	}
	if _, err := c.Codec(); err != nil {
		t.Errorf("Default codec: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
pose:
  padding: 5
frame:
  fps: 30
render:
  bbox: true
taxonomy:
  labels:
    person: 1
    bicycle: 2
  synonyms:
    bike: bicycle
`
	if err := ioutil.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	v := viper.New()
	if err := Read(v, path); err != nil {
		t.Fatal(err)
	}
	c, err := Load(v)
	if err != nil {
		t.Fatal(err)
	}

	if c.Pose.Padding != 5 || c.FPS != 30 || !c.Render.BBox {
		t.Errorf("Overrides not applied: %+v", c)
	}
	if c.Pose.HalfFraction != 0.5 {
		t.Errorf("Missing key should keep its default, got %v", c.Pose.HalfFraction)
	}
	tax, err := c.Taxonomy()
	if err != nil {
		t.Fatal(err)
	}
	if name, id, err := tax.Resolve("bike"); err != nil || name != "bicycle" || id != 2 {
		t.Errorf("Wrong taxonomy: got (%s, %d, %v)", name, id, err)
	}
}

func TestLoadDerivesSynonymsFromLabels(t *testing.T) {
	v := viper.New()
	v.Set("taxonomy.labels", map[string]interface{}{"person": 1, "car": 3, "motorcycle": 5})
	c, err := Load(v)
	if err != nil {
		t.Fatalf("Labels without every synonym target should load, got '%v'", err)
	}

	tax, err := c.Taxonomy()
	if err != nil {
		t.Fatal(err)
	}
	if name, _, err := tax.Resolve("motorbike"); err != nil || name != "motorcycle" {
		t.Errorf("motorbike should still resolve, got (%s, %v)", name, err)
	}
	if _, _, err := tax.Resolve("bus"); err == nil {
		t.Error("bus should not resolve without a truck label")
	}
}

func TestLoadInvalid(t *testing.T) {
	cases := map[string]interface{}{
		"pose.padding":       -1,
		"pose.head_joint":    22,
		"pose.half_fraction": 0,
		"frame.max_count":    0,
		"frame.width":        0,
		"palette.size":       0,
		"taxonomy.labels":    map[string]interface{}{"person": 1, "dog": 1},
		"taxonomy.synonyms":  map[string]interface{}{"cat": "lion"},
	}

	for key, value := range cases {
		v := viper.New()
		v.Set(key, value)
		if _, err := Load(v); err == nil {
			t.Errorf("%s = %v should be rejected", key, value)
		}
	}
}

func TestReadMissingDefaultFile(t *testing.T) {
	v := viper.New()
	v.AddConfigPath(t.TempDir())
	if err := Read(v, ""); err != nil {
		t.Errorf("Missing config.yaml should not be an error, got '%v'", err)
	}
}
