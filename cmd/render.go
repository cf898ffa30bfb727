package cmd

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"path/filepath"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/df07/go-tiled-pathtracer/pkg/config"
	"github.com/df07/go-tiled-pathtracer/pkg/imageio"
	"github.com/df07/go-tiled-pathtracer/pkg/log"
	"github.com/df07/go-tiled-pathtracer/pkg/renderer"
	"github.com/df07/go-tiled-pathtracer/pkg/scene"
)

// RenderFlags are the flags accepted by the render command
func RenderFlags() []cli.Flag {
	defaults := renderer.DefaultConfig()
	return []cli.Flag{
		cli.StringFlag{
			Name:  "scene, s",
			Value: "default",
			Usage: "built-in scene id, scene file id or path to a YAML scene",
		},
		cli.StringFlag{
			Name:  "scenes-dir",
			Value: "scenes",
			Usage: "directory searched for YAML scenes",
		},
		cli.StringFlag{
			Name:  "config, c",
			Usage: "TOML render preset; explicit flags override it",
		},
		cli.IntFlag{
			Name:  "width",
			Value: defaults.Width,
			Usage: "frame width",
		},
		cli.IntFlag{
			Name:  "height",
			Value: defaults.Height,
			Usage: "frame height",
		},
		cli.IntFlag{
			Name:  "spp",
			Value: defaults.SamplesPerPixel,
			Usage: "samples per pixel",
		},
		cli.IntFlag{
			Name:  "depth",
			Value: defaults.MaxDepth,
			Usage: "maximum number of bounces per path",
		},
		cli.IntFlag{
			Name:  "workers",
			Value: defaults.NumWorkers,
			Usage: "number of row bands rendered in parallel (0 = one per CPU)",
		},
		cli.Int64Flag{
			Name:  "seed",
			Value: defaults.Seed,
			Usage: "master random seed",
		},
		cli.Float64Flag{
			Name:  "gamma",
			Value: defaults.Gamma,
			Usage: "output gamma",
		},
		cli.BoolTFlag{
			Name:  "emission",
			Usage: "accumulate light from emissive surfaces (defaults to on for emissive scenes)",
		},
		cli.StringFlag{
			Name:  "out, o",
			Usage: "output image (.bmp or .png); defaults to output/<scene>/render_<timestamp>.png",
		},
		cli.UintFlag{
			Name:  "thumbnail",
			Usage: "also write a thumbnail no larger than this many pixels per side",
		},
		cli.BoolFlag{
			Name:  "upload",
			Usage: "upload the image to the S3 bucket configured by PATHTRACER_S3_* variables",
		},
		cli.StringFlag{
			Name:  "upload-prefix",
			Value: "renders",
			Usage: "object key prefix for uploads",
		},
		cli.StringFlag{
			Name:  "env",
			Value: ".env",
			Usage: "dotenv file with upload settings",
		},
	}
}

// RenderFrame renders a single frame and writes it to disk.
func RenderFrame(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	info, err := resolveScene(ctx.String("scene"), ctx.String("scenes-dir"))
	if err != nil {
		return err
	}

	opts, output, err := renderOptions(ctx, info)
	if err != nil {
		return err
	}

	logger.Noticef("loading scene %q", info.DisplayName)
	sc, err := scene.NewSceneFromInfo(info, opts.Aspect(), opts.Seed)
	if err != nil {
		return err
	}
	defer sc.Destroy()

	stats := sc.Stats()
	logger.Infof("scene has %d objects, %d BVH nodes, depth %d", sc.Len(), stats.Nodes, stats.MaxDepth)

	r, err := renderer.New(sc, opts, log.New("renderer"))
	if err != nil {
		return err
	}

	logger.Noticef("rendering %dx%d at %d spp", opts.Width, opts.Height, opts.SamplesPerPixel)
	frame, renderStats, err := r.Render()
	if err != nil {
		return err
	}
	displayBandStats(renderStats)

	img := imageio.ToRGBA(frame)
	if err := imageio.Save(output, img); err != nil {
		return err
	}
	logger.Noticef("render saved as %s", output)
	outputs := map[string]image.Image{output: img}

	if size := ctx.Uint("thumbnail"); size > 0 {
		thumbPath := imageio.ThumbnailPath(output)
		thumb := imageio.Thumbnail(img, size, size)
		if err := imageio.Save(thumbPath, thumb); err != nil {
			return err
		}
		logger.Noticef("thumbnail saved as %s", thumbPath)
		outputs[thumbPath] = thumb
	}

	if ctx.Bool("upload") {
		return uploadImages(ctx, outputs)
	}
	return nil
}

// renderOptions merges defaults, the optional preset and explicit flags, in
// that order of precedence.
func renderOptions(ctx *cli.Context, info scene.SceneInfo) (renderer.Config, string, error) {
	opts := renderer.DefaultConfig()
	opts.AccumulateEmission = info.Emissive

	var output string
	if presetFile := ctx.String("config"); presetFile != "" {
		preset, err := config.Load(presetFile)
		if err != nil {
			return opts, "", err
		}
		if opts, err = preset.Apply(opts); err != nil {
			return opts, "", err
		}
		output = preset.Output
	}

	if ctx.IsSet("width") {
		opts.Width = ctx.Int("width")
	}
	if ctx.IsSet("height") {
		opts.Height = ctx.Int("height")
	}
	if ctx.IsSet("spp") {
		opts.SamplesPerPixel = ctx.Int("spp")
	}
	if ctx.IsSet("depth") {
		opts.MaxDepth = ctx.Int("depth")
	}
	if ctx.IsSet("workers") {
		opts.NumWorkers = ctx.Int("workers")
	}
	if ctx.IsSet("seed") {
		opts.Seed = ctx.Int64("seed")
	}
	if ctx.IsSet("gamma") {
		opts.Gamma = ctx.Float64("gamma")
	}
	if ctx.IsSet("emission") {
		opts.AccumulateEmission = ctx.BoolT("emission")
	}
	if ctx.IsSet("out") {
		output = ctx.String("out")
	}

	if output == "" {
		timestamp := time.Now().Format("20060102_150405")
		output = filepath.Join("output", filepath.Base(info.ID), fmt.Sprintf("render_%s.png", timestamp))
	}
	return opts, output, opts.Validate()
}

func uploadImages(ctx *cli.Context, outputs map[string]image.Image) error {
	if err := loadEnv(ctx.String("env")); err != nil {
		return err
	}
	s3Config, err := s3ConfigFromEnv()
	if err != nil {
		return err
	}
	uploader, err := imageio.NewS3Uploader(s3Config)
	if err != nil {
		return err
	}

	for path, img := range outputs {
		format, err := imageio.FormatFromPath(path)
		if err != nil {
			return err
		}
		data, err := imageio.EncodeBytes(img, format)
		if err != nil {
			return err
		}

		key := filepath.ToSlash(filepath.Join(ctx.String("upload-prefix"), filepath.Base(path)))
		url, err := uploader.Upload(context.Background(), key, data, imageio.ContentType(format))
		if err != nil {
			return err
		}
		logger.Noticef("uploaded %s", url)
	}
	return nil
}

func displayBandStats(stats renderer.RenderStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Band", "Rows", "Samples", "Bounces", "Escaped", "Luminance", "Render time"})
	escaped := 0
	for _, band := range stats.Bands {
		escaped += band.Escaped
		table.Append([]string{
			fmt.Sprintf("%d", band.Band.Index),
			fmt.Sprintf("%d-%d", band.Band.Start, band.Band.End),
			fmt.Sprintf("%d", band.Samples),
			fmt.Sprintf("%d", band.Bounces),
			fmt.Sprintf("%d", band.Escaped),
			fmt.Sprintf("%.3f", band.AverageLuminance()),
			band.Duration.String(),
		})
	}
	table.SetFooter([]string{
		"", "TOTAL",
		fmt.Sprintf("%d", stats.TotalSamples),
		fmt.Sprintf("%d", stats.TotalBounces),
		fmt.Sprintf("%d", escaped),
		fmt.Sprintf("%.3f", stats.AverageLuminance),
		stats.RenderTime.String(),
	})

	table.Render()
	logger.Noticef("frame statistics (%.0f samples/s, %.2f bounces/sample, peak %.3f)\n%s",
		stats.SamplesPerSecond(), stats.AverageBounces(), stats.Peak, buf.String())
}
