package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/imavis/jta-annotations/pkg/annotation"
	"github.com/imavis/jta-annotations/pkg/overlay"
	"github.com/imavis/jta-annotations/pkg/pose"
	"github.com/imavis/jta-annotations/pkg/utils"
)

//Config is the loaded configuration. It is built once in main and passed to constructors.
type Config struct {
	Pose        pose.Config
	FrameWidth  int
	FrameHeight int
	FPS         float64
	PaletteSize int
	Labels      map[string]int
	Synonyms    map[string]string
	Encode      annotation.EncodeOptions
	Render      overlay.Options
}

//SetDefaults registers the default value of every key in v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("pose.padding", utils.DefaultPadding)
	v.SetDefault("pose.head_joint", utils.HeadJointType)
	v.SetDefault("pose.half_fraction", 0.5)

	v.SetDefault("frame.width", utils.FrameWidth)
	v.SetDefault("frame.height", utils.FrameHeight)
	v.SetDefault("frame.fps", utils.FPS)
	v.SetDefault("frame.max_count", utils.MaxFrameCount)

	v.SetDefault("palette.size", utils.MaxColors)

	labels := make(map[string]interface{}, len(annotation.DefaultLabels))
	for name, id := range annotation.DefaultLabels {
		labels[name] = id
	}
	v.SetDefault("taxonomy.labels", labels)

	v.SetDefault("encode.hide_invisible", true)
	v.SetDefault("encode.hide_half_visible", false)
	v.SetDefault("encode.clamp_to_frame", true)
	v.SetDefault("encode.task_name", "")

	v.SetDefault("render.thickness", 2)
	v.SetDefault("render.joint_radius", 3)
	v.SetDefault("render.bbox", false)
	v.SetDefault("render.hide", true)
}

//Read loads the yaml file at path into v. An empty path looks for 'config.yaml' in the working directory, which may be missing.
func Read(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "Read: '%s'", path)
		}
		return nil
	}

	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return errors.Wrap(err, "Read")
	}
	return nil
}

//Load builds and validates a Config from v. Defaults are registered first, so keys missing in v keep their default.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	c := &Config{
		Pose: pose.Config{
			Padding:      v.GetFloat64("pose.padding"),
			HeadJoint:    pose.JointType(v.GetInt("pose.head_joint")),
			HalfFraction: v.GetFloat64("pose.half_fraction"),
			MaxFrames:    v.GetInt("frame.max_count"),
		},
		FrameWidth:  v.GetInt("frame.width"),
		FrameHeight: v.GetInt("frame.height"),
		FPS:         v.GetFloat64("frame.fps"),
		PaletteSize: v.GetInt("palette.size"),
		Render: overlay.Options{
			Thickness:   v.GetInt("render.thickness"),
			JointRadius: v.GetInt("render.joint_radius"),
			BBox:        v.GetBool("render.bbox"),
			Hide:        v.GetBool("render.hide"),
		},
	}

	c.Encode = annotation.EncodeOptions{
		FrameWidth:         c.FrameWidth,
		FrameHeight:        c.FrameHeight,
		HideInvisible:      v.GetBool("encode.hide_invisible"),
		HideHalfNotVisible: v.GetBool("encode.hide_half_visible"),
		ClampToFrame:       v.GetBool("encode.clamp_to_frame"),
		TaskName:           v.GetString("encode.task_name"),
		MaxFrames:          c.Pose.MaxFrames,
	}

	c.Labels = make(map[string]int)
	for name, raw := range v.GetStringMap("taxonomy.labels") {
		id, err := cast.ToIntE(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "Load: id of label '%s'", name)
		}
		c.Labels[name] = id
	}

	//without explicit synonyms, the default ones whose target is a configured label apply
	if v.IsSet("taxonomy.synonyms") {
		c.Synonyms = v.GetStringMapString("taxonomy.synonyms")
	} else {
		c.Synonyms = annotation.DefaultSynonymsFor(c.Labels)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	if c.Pose.Padding < 0 {
		return errors.Errorf("Load: negative pose.padding %v", c.Pose.Padding)
	}
	if !c.Pose.HeadJoint.Valid() {
		return errors.Errorf("Load: pose.head_joint %d is not a joint type", int(c.Pose.HeadJoint))
	}
	if c.Pose.HalfFraction <= 0 || c.Pose.HalfFraction > 1 {
		return errors.Errorf("Load: pose.half_fraction %v is out of (0, 1]", c.Pose.HalfFraction)
	}
	if c.FrameWidth <= 0 || c.FrameHeight <= 0 {
		return errors.Errorf("Load: invalid frame size %dx%d", c.FrameWidth, c.FrameHeight)
	}
	if c.Pose.MaxFrames <= 0 {
		return errors.Errorf("Load: invalid frame.max_count %d", c.Pose.MaxFrames)
	}
	if c.FPS <= 0 {
		return errors.Errorf("Load: invalid frame.fps %v", c.FPS)
	}
	if c.PaletteSize <= 0 {
		return errors.Errorf("Load: invalid palette.size %d", c.PaletteSize)
	}
	if _, err := c.Taxonomy(); err != nil {
		return errors.Wrap(err, "Load")
	}
	return nil
}

//Taxonomy builds the label taxonomy shared by encoding and decoding
func (c *Config) Taxonomy() (*annotation.Taxonomy, error) {
	return annotation.NewTaxonomy(c.Labels, c.Synonyms)
}

//Codec builds the interchange codec
func (c *Config) Codec() (*annotation.Codec, error) {
	tax, err := c.Taxonomy()
	if err != nil {
		return nil, err
	}
	return annotation.NewCodec(tax, c.Encode)
}

//Renderer builds the overlay renderer with a jet palette of the configured size
func (c *Config) Renderer() *overlay.Renderer {
	return overlay.NewRenderer(overlay.NewJetPalette(c.PaletteSize), c.Render)
}
