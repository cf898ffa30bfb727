package renderer

import (
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/log"
	"github.com/df07/go-tiled-pathtracer/pkg/scene"
)

// Renderer traces a built scene into a frame
type Renderer struct {
	scene  *scene.Scene
	config Config
	logger log.Logger
}

// New creates a renderer. The scene must already be built and is never modified.
func New(s *scene.Scene, config Config, logger log.Logger) (*Renderer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if s == nil || !s.Built() {
		return nil, errors.Wrap(core.ErrInvariantViolation, "scene must be built before rendering")
	}
	if s.Camera == nil {
		return nil, errors.Wrap(core.ErrInvalidArgument, "scene has no camera")
	}
	if err := s.Camera.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New("renderer")
	}

	return &Renderer{scene: s, config: config, logger: logger}, nil
}

// Config returns the renderer configuration
func (r *Renderer) Config() Config {
	return r.config
}

// Render traces the whole image. Rows are split into bands, one goroutine per
// band, each with its own deterministically seeded sampler; the call returns
// once every band has finished. The result is identical for a given scene
// and configuration regardless of scheduling.
func (r *Renderer) Render() (*core.Frame, RenderStats, error) {
	frame := core.NewFrame(r.config.Width, r.config.Height)
	bands := Bands(r.config.Height, r.config.Workers())
	bandStats := make([]BandStats, len(bands))

	r.logger.Debugf("rendering %dx%d at %d spp in %d bands",
		r.config.Width, r.config.Height, r.config.SamplesPerPixel, len(bands))

	start := time.Now()
	var group errgroup.Group
	for i, band := range bands {
		i, band := i, band
		group.Go(func() error {
			stats, err := r.renderBand(frame, band)
			bandStats[i] = stats
			return err
		})
	}
	if err := group.Wait(); err != nil {
		return nil, RenderStats{}, err
	}

	stats := RenderStats{}.withBands(bandStats, time.Since(start))
	r.logger.Infof("rendered %d samples in %d ms (%.0f samples/s, %.2f bounces/sample)",
		stats.TotalSamples, stats.RenderTime.Nanoseconds()/1e6, stats.SamplesPerSecond(), stats.AverageBounces())
	return frame, stats, nil
}

// renderBand renders rows [band.Start, band.End) into the frame. Bands write
// disjoint pixel ranges so no synchronization is needed.
func (r *Renderer) renderBand(frame *core.Frame, band Band) (BandStats, error) {
	start := time.Now()
	sampler := core.NewSeededSampler(core.DeriveSeed(r.config.Seed, band.Index))
	pixels := frame.Rows(band.Start, band.End)

	var paths pathStats
	var luminance, peak float64
	for y := band.Start; y < band.End; y++ {
		row := pixels[(y-band.Start)*frame.Width : (y-band.Start+1)*frame.Width]
		for x := range row {
			c := r.renderPixel(x, y, sampler, &paths)
			row[x] = c
			luminance += c.Luminance()
			peak = max(peak, c.MaxComponent())
		}
	}

	pixelCount := band.Rows() * frame.Width
	stats := BandStats{
		Band:     band,
		Pixels:   pixelCount,
		Samples:  pixelCount * r.config.SamplesPerPixel,
		Bounces:  paths.bounces,
		Escaped:  paths.escaped,
		Duration: time.Since(start),

		Luminance: luminance,
		Peak:      peak,
	}
	r.logger.Debugf("band %d rows %d-%d done in %d ms", band.Index, band.Start, band.End, stats.Duration.Nanoseconds()/1e6)
	return stats, nil
}

// renderPixel averages SamplesPerPixel jittered paths and gamma encodes the result
func (r *Renderer) renderPixel(x, y int, sampler core.Sampler, paths *pathStats) core.Vec3 {
	width := float64(r.config.Width)
	height := float64(r.config.Height)
	cam := r.scene.Camera

	var colorAccum core.Vec3
	for s := 0; s < r.config.SamplesPerPixel; s++ {
		jx, jy := sampler.Get2D()

		// Row 0 is the top of the image, where NDC y is +1
		ndcX := (float64(x)+jx)/width*2 - 1
		ndcY := 1 - (float64(y)+jy)/height*2

		ray := cam.GetRay(ndcX, ndcY, sampler)
		colorAccum = colorAccum.Add(r.trace(ray, sampler, paths))
	}

	return colorAccum.Multiply(1.0 / float64(r.config.SamplesPerPixel)).GammaCorrect(r.config.Gamma)
}

// Trace returns the linear radiance carried back along ray
func (r *Renderer) Trace(ray core.Ray, sampler core.Sampler) core.Vec3 {
	return r.trace(ray, sampler, &pathStats{})
}

// trace follows a path until it escapes, is absorbed or reaches MaxDepth.
// Throughput is the product of the attenuations collected so far.
func (r *Renderer) trace(ray core.Ray, sampler core.Sampler, paths *pathStats) core.Vec3 {
	throughput := core.NewVec3(1, 1, 1)
	var radiance core.Vec3

	for depth := 0; depth < r.config.MaxDepth; depth++ {
		hit, isHit := r.scene.Intersect(ray, r.config.TMin, r.config.TMax)
		if !isHit {
			paths.escaped++
			return radiance.Add(throughput.MultiplyVec(r.scene.Sky(ray.Direction)))
		}

		if r.config.AccumulateEmission {
			if emitted, ok := hit.Material.Emit(&hit); ok {
				radiance = radiance.Add(throughput.MultiplyVec(emitted))
			}
		}

		scatter, didScatter := hit.Material.Scatter(ray, &hit, sampler)
		if !didScatter {
			return radiance
		}

		paths.bounces++
		throughput = throughput.MultiplyVec(scatter.Attenuation)
		ray = scatter.Scattered
	}

	// Bounce limit reached: no more light is gathered
	return radiance
}
