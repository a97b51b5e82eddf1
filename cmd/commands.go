package main

import (
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/imavis/jta-annotations/pkg/annotation"
	"github.com/imavis/jta-annotations/pkg/config"
	"github.com/imavis/jta-annotations/pkg/convert"
	"github.com/imavis/jta-annotations/pkg/pose"
	"github.com/imavis/jta-annotations/pkg/utils"
	"github.com/imavis/jta-annotations/pkg/video"
)

//newFlagSet returns the flags shared by every command
func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ExitOnError)
	fs.String("config", "", "configuration file, default: ./config.yaml when present")
	fs.Bool("progress", true, "show a progress bar")
	return fs
}

//loadConfig binds the parsed flags to their configuration keys and loads the configuration
func loadConfig(fs *pflag.FlagSet, keys map[string]string) (*config.Config, error) {
	v := viper.GetViper()
	for flag, key := range keys {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, errors.Wrapf(err, "loadConfig: flag '%s'", flag)
		}
	}

	path, _ := fs.GetString("config")
	if err := config.Read(v, path); err != nil {
		return nil, err
	}
	return config.Load(v)
}

func required(fs *pflag.FlagSet, names ...string) error {
	for _, name := range names {
		if s, _ := fs.GetString(name); s == "" {
			return errors.Errorf("missing --%s", name)
		}
	}
	return nil
}

func writeRows(path string, rows [][]float64) error {
	return annotation.WriteFile(path, func(w io.Writer) error {
		return annotation.WriteRows(w, rows)
	})
}

//readSequence reads a compact joints file and indexes it by frame
func readSequence(path string, schema pose.Schema, cfg *config.Config) (*pose.Sequence, error) {
	rows, err := annotation.ReadRowsFile(path, schema)
	if err != nil {
		return nil, err
	}
	return pose.Index(rows, schema, cfg.Pose)
}

func runCSV2JSON(args []string) error {
	fs := newFlagSet("csv2json")
	in := fs.String("in", "", "JTA coords.csv export")
	out := fs.String("out", "", "compact joints file to write")
	fs.Parse(args)
	if err := required(fs, "in", "out"); err != nil {
		return err
	}

	rows, err := annotation.ReadJTACSVFile(*in)
	if err != nil {
		return err
	}
	if err := writeRows(*out, rows); err != nil {
		return err
	}

	log.Printf("csv2json: %d joint rows written to '%s'", len(rows), *out)
	return nil
}

func runEncode(args []string) error {
	fs := newFlagSet("encode")
	in := fs.String("in", "", "compact joints file")
	schemaName := fs.String("schema", pose.SchemaJointsJTA.String(), "schema of the joints file: joints2d or joints_jta")
	out := fs.String("out", "", "document to write")
	boxes := fs.String("boxes", "", "compact boxes file to write, optional")
	fs.Float64("padding", 20, "margin added around the joints extent")
	fs.Bool("hide-half-visible", false, "skip persons with more than half of their joints hidden")
	fs.Parse(args)
	if err := required(fs, "in", "out"); err != nil {
		return err
	}

	cfg, err := loadConfig(fs, map[string]string{
		"padding":           "pose.padding",
		"hide-half-visible": "encode.hide_half_visible",
	})
	if err != nil {
		return err
	}
	cfg.Encode.Progress, _ = fs.GetBool("progress")
	if cfg.Encode.TaskName == "" {
		cfg.Encode.TaskName = utils.TrimExt(*in)
	}

	schema, err := pose.ParseSchema(*schemaName)
	if err != nil {
		return err
	}
	if !schema.IsJoints() {
		return errors.Errorf("encode: '%s' is not a joints schema", schema)
	}

	codec, err := cfg.Codec()
	if err != nil {
		return err
	}
	seq, err := readSequence(*in, schema, cfg)
	if err != nil {
		return err
	}

	doc, err := codec.Encode(seq)
	if err != nil {
		return err
	}
	if err := annotation.WriteFile(*out, doc.Write); err != nil {
		return err
	}
	if *boxes != "" {
		if err := writeRows(*boxes, codec.PoseRows(seq)); err != nil {
			return err
		}
	}

	log.Printf("encode: %d frames written to '%s'", seq.Len(), *out)
	return nil
}

func runDecode(args []string) error {
	fs := newFlagSet("decode")
	in := fs.String("in", "", "document to read")
	out := fs.String("out", "", "compact boxes file to write")
	fs.Parse(args)
	if err := required(fs, "in", "out"); err != nil {
		return err
	}

	cfg, err := loadConfig(fs, nil)
	if err != nil {
		return err
	}
	tax, err := cfg.Taxonomy()
	if err != nil {
		return err
	}

	res, err := annotation.ParseDocumentFile(*in, tax)
	if err != nil {
		return err
	}
	if res.SoftFailure != nil {
		log.Printf("decode: Warning, '%s' skipped, got '%v'", *in, res.SoftFailure)
	}

	rows := annotation.DetectionRows(res.Frames)
	if err := writeRows(*out, rows); err != nil {
		return err
	}

	log.Printf("decode: %d boxes in %d frames written to '%s'", len(rows), len(res.Frames), *out)
	return nil
}

//readAnnotations reads a document (.xml) or a compact rows file of given schema
func readAnnotations(path string, schema pose.Schema, cfg *config.Config) (video.Annotations, error) {
	codec, err := cfg.Codec()
	if err != nil {
		return video.Annotations{}, err
	}

	if strings.EqualFold(filepath.Ext(path), ".xml") {
		res, err := annotation.ParseDocumentFile(path, codec.Taxonomy())
		if err != nil {
			return video.Annotations{}, err
		}
		if res.SoftFailure != nil {
			log.Printf("visualize: Warning, '%s' skipped, got '%v'", path, res.SoftFailure)
		}
		return video.Annotations{Detections: res.Frames}, nil
	}

	if schema.IsJoints() {
		seq, err := readSequence(path, schema, cfg)
		if err != nil {
			return video.Annotations{}, err
		}
		return video.Annotations{Poses: seq}, nil
	}

	rows, err := annotation.ReadRowsFile(path, schema)
	if err != nil {
		return video.Annotations{}, err
	}
	frames, err := codec.DetectionsFromRows(rows, 0)
	if err != nil {
		return video.Annotations{}, err
	}
	return video.Annotations{Detections: frames}, nil
}

func runVisualize(args []string) error {
	fs := newFlagSet("visualize")
	src := fs.String("video", "", "video file or image sequence directory")
	in := fs.String("annotations", "", "document (.xml) or compact rows file")
	schemaName := fs.String("schema", pose.SchemaJointsJTA.String(), "schema of a compact rows file: joints2d, joints_jta or boxes")
	out := fs.String("out", "", "annotated video to write")
	fs.Bool("bbox", false, "draw padded boxes instead of skeletons")
	fs.Bool("hide", true, "skip persons without any visible joint")
	fs.Float64("fps", 20, "frame rate of the written video")
	fs.Parse(args)
	if err := required(fs, "video", "annotations", "out"); err != nil {
		return err
	}

	cfg, err := loadConfig(fs, map[string]string{
		"bbox": "render.bbox",
		"hide": "render.hide",
		"fps":  "frame.fps",
	})
	if err != nil {
		return err
	}

	schema, err := pose.ParseSchema(*schemaName)
	if err != nil {
		return err
	}
	ann, err := readAnnotations(*in, schema, cfg)
	if err != nil {
		return err
	}

	progress, _ := fs.GetBool("progress")
	n, err := video.Visualize(*src, *out, ann, cfg.Renderer(), video.VisualizeOptions{FPS: cfg.FPS, Progress: progress})
	if err != nil {
		return err
	}

	log.Printf("visualize: %d frames written to '%s'", n, *out)
	return nil
}

func runFramesToVideo(args []string) error {
	fs := newFlagSet("frames2video")
	dir := fs.String("dir", "", "sequence directory of numbered images")
	out := fs.String("out", "", "video to write, default: <dir>/<dir name>.mp4")
	fs.Float64("fps", 20, "frame rate of the written video")
	fs.Parse(args)
	if err := required(fs, "dir"); err != nil {
		return err
	}

	cfg, err := loadConfig(fs, map[string]string{"fps": "frame.fps"})
	if err != nil {
		return err
	}
	if *out == "" {
		*out = convert.SequencePaths(*dir).Video
	}

	n, err := video.FramesToVideo(*dir, *out, cfg.FPS)
	if err != nil {
		return err
	}

	log.Printf("frames2video: %d frames written to '%s'", n, *out)
	return nil
}

func runBatch(args []string) error {
	fs := newFlagSet("batch")
	root := fs.String("root", "", "dataset directory holding seq_N directories")
	withVideo := fs.Bool("video", false, "also assemble each sequence video and its overlay")
	fs.Float64("padding", 20, "margin added around the joints extent")
	fs.Parse(args)
	if err := required(fs, "root"); err != nil {
		return err
	}

	cfg, err := loadConfig(fs, map[string]string{"padding": "pose.padding"})
	if err != nil {
		return err
	}
	codec, err := cfg.Codec()
	if err != nil {
		return err
	}

	runner := convert.NewRunner(codec, cfg.Pose)
	runner.Progress, _ = fs.GetBool("progress")
	if *withVideo {
		renderer := cfg.Renderer()
		runner.Render = func(paths convert.Paths, seq *pose.Sequence, _ [][]annotation.Detection) error {
			if _, err := video.FramesToVideo(paths.Dir, paths.Video, cfg.FPS); err != nil {
				return err
			}
			_, err := video.Visualize(paths.Video, paths.Overlay, video.Annotations{Poses: seq}, renderer, video.VisualizeOptions{FPS: cfg.FPS})
			return err
		}
	}

	report, err := runner.Run(*root)
	if err != nil {
		return err
	}

	log.Printf("batch %s: %d/%d sequences converted (%d documents skipped on read back) in %v",
		report.RunID, len(report.Converted), report.Sequences, report.SoftFailures(), report.Duration)
	if len(report.Failures) > 0 {
		return errors.Errorf("%d sequences failed", len(report.Failures))
	}
	return nil
}
