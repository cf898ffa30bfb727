package renderer

import "time"

// BandStats contains statistics about one rendered band
type BandStats struct {
	Band     Band
	Pixels   int           // Number of pixels rendered
	Samples  int           // Number of camera samples traced
	Bounces  int           // Total scattering events over all paths
	Escaped  int           // Paths that left the scene and picked up sky light
	Duration time.Duration // Wall time spent rendering the band

	Luminance float64 // Sum of gamma corrected pixel luminance
	Peak      float64 // Brightest gamma corrected channel
}

// AverageLuminance returns the mean pixel luminance of the band
func (b BandStats) AverageLuminance() float64 {
	if b.Pixels == 0 {
		return 0
	}
	return b.Luminance / float64(b.Pixels)
}

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Bands        []BandStats
	TotalPixels  int
	TotalSamples int
	TotalBounces int
	RenderTime   time.Duration

	AverageLuminance float64 // Mean luminance over the whole frame
	Peak             float64 // Brightest channel in the frame, above 1 when clipped
}

// AverageBounces returns the mean path length
func (s RenderStats) AverageBounces() float64 {
	if s.TotalSamples == 0 {
		return 0
	}
	return float64(s.TotalBounces) / float64(s.TotalSamples)
}

// SamplesPerSecond returns the overall tracing throughput
func (s RenderStats) SamplesPerSecond() float64 {
	if s.RenderTime <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.RenderTime.Seconds()
}

// pathStats counts events along traced paths within a band
type pathStats struct {
	bounces int
	escaped int
}

func (s RenderStats) withBands(bands []BandStats, elapsed time.Duration) RenderStats {
	s.Bands = bands
	s.RenderTime = elapsed
	var luminance float64
	for _, b := range bands {
		s.TotalPixels += b.Pixels
		s.TotalSamples += b.Samples
		s.TotalBounces += b.Bounces
		luminance += b.Luminance
		s.Peak = max(s.Peak, b.Peak)
	}
	if s.TotalPixels > 0 {
		s.AverageLuminance = luminance / float64(s.TotalPixels)
	}
	return s
}
