// Command sweep runs a design-and-simulation sweep locally, without the
// HTTP service, writing per-frequency heatmaps and the attenuation curve
// to an output directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mvelasco/metasim/internal/render"
	"github.com/mvelasco/metasim/internal/simulation"
	"github.com/mvelasco/metasim/internal/storage"
	"github.com/mvelasco/metasim/pkg/design"
	"github.com/mvelasco/metasim/pkg/mesh"
	"github.com/mvelasco/metasim/pkg/solver"
)

func main() {
	freqMin := flag.Float64("fmin", 200, "lower bound of the design band in Hz")
	freqMax := flag.Float64("fmax", 1000, "upper bound of the design band in Hz")
	materialName := flag.String("material", "Silicone Rubber", "substrate material name")
	dim := flag.String("dim", mesh.Dim2D, "mesh dimensionality: 2D or 3D")
	length := flag.Float64("length", 1.0, "domain length in m")
	width := flag.Float64("width", 1.0, "domain width in m")
	height := flag.Float64("height", 1.0, "domain height in m (3D only)")
	res := flag.String("res", "", "cell resolution, comma separated (e.g. 64,64)")
	sourceList := flag.String("sources", "", "source positions, e.g. 0.5,0.5;0.2,0.8 (default: domain center)")
	outDir := flag.String("out", "out", "output directory for rendered artifacts")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	dims, err := design.DesignFor(*freqMin, *freqMax, *materialName)
	if err != nil {
		log.Fatal().Err(err).Msg("Design failed")
	}
	for _, d := range dims {
		log.Info().
			Float64("frequency", d.Frequency).
			Float64("volume", d.Volume).
			Msg("Designed resonator")
	}

	spec := mesh.Spec{
		Dimensionality: *dim,
		Length:         *length,
		Width:          *width,
		Height:         *height,
	}
	if *res != "" {
		if spec.Resolution, err = parseResolution(*res); err != nil {
			log.Fatal().Err(err).Msg("Invalid resolution")
		}
	}

	sources, err := parseSources(*sourceList, spec)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid sources")
	}

	runner := &simulation.Runner{
		Viz: &simulation.ArtifactVisualizer{
			Renderer:  render.NewRenderer(),
			Store:     storage.NewFSStore(*outDir),
			SweepID:   "local",
			Offscreen: true,
		},
	}

	results, err := runner.Run(context.Background(), spec, design.Frequencies(dims), sources)
	if err != nil {
		log.Fatal().Err(err).Msg("Sweep failed")
	}

	for _, r := range results {
		fmt.Printf("%8.1f Hz  %8.3f dB\n", r.Frequency, r.AttenuationDB)
	}

	curve, err := render.PlotAttenuation(results)
	if err != nil {
		log.Fatal().Err(err).Msg("Plot failed")
	}
	plotPath := filepath.Join(*outDir, "attenuation.png")
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create output directory")
	}
	if err := os.WriteFile(plotPath, curve, 0o644); err != nil {
		log.Fatal().Err(err).Msg("Failed to write plot")
	}
	log.Info().Str("path", plotPath).Msg("Wrote attenuation curve")
}

func parseResolution(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	res := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("resolution entry %q: %w", p, err)
		}
		res = append(res, n)
	}
	return res, nil
}

func parseSources(s string, spec mesh.Spec) ([]solver.Source, error) {
	if s == "" {
		center := []float64{spec.Length / 2, spec.Width / 2}
		if spec.Dimensionality == mesh.Dim3D {
			center = append(center, spec.Height/2)
		}
		return []solver.Source{{Position: center}}, nil
	}
	var sources []solver.Source
	for _, group := range strings.Split(s, ";") {
		parts := strings.Split(group, ",")
		pos := make([]float64, 0, len(parts))
		for _, p := range parts {
			x, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return nil, fmt.Errorf("source coordinate %q: %w", p, err)
			}
			pos = append(pos, x)
		}
		sources = append(sources, solver.Source{Position: pos})
	}
	return sources, nil
}
