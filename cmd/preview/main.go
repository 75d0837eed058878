package main

import (
	"os"
	"path/filepath"

	"github.com/woozymasta/transitgeo/internal/config"
	"github.com/woozymasta/transitgeo/internal/logger"
	"github.com/woozymasta/transitgeo/internal/network"
	"github.com/woozymasta/transitgeo/internal/render"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	NetworkFile string   `short:"n" long:"network"     env:"NETWORK_FILE" description:"Path to network file" default:"network.yaml"`
	Output      string   `short:"o" long:"out"         description:"Output image path" required:"true"`
	Format      string   `short:"f" long:"format"      description:"Image format" choice:"webp" choice:"png" default:"webp"`
	Limit       []string `short:"l" long:"limit"       env:"LIMIT_ROADS"  description:"Draw only these roads"`
	Quality     float32  `short:"q" long:"quality"     description:"WebP quality, 100 is lossless" default:"90"`
	Size        int      `short:"s" long:"size"        description:"Longest side of the drawing in pixels" default:"1024"`
	Padding     int      `short:"p" long:"padding"     description:"Padding in pixels" default:"16"`
	Supersample int      `short:"a" long:"supersample" description:"Render at this multiple and scale down" default:"2"`
	RoadWidth   float64  `short:"w" long:"road-width"  description:"Road width in pixels" default:"3"`
	NoCrossings bool     `long:"no-crossings"          description:"Do not mark road crossings"`
	NoPlaces    bool     `long:"no-places"             description:"Do not mark stops and stations"`
	Strict      bool     `long:"strict"                description:"Fail on invalid roads instead of skipping them"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.NetworkFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load network")
	}

	n, err := network.FromConfig(cfg, opts.Strict)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build network")
	}
	n = n.Limit(opts.Limit)

	img, err := render.Preview(n, render.Options{
		Size:        opts.Size,
		Padding:     opts.Padding,
		Supersample: opts.Supersample,
		RoadWidth:   opts.RoadWidth,
		Crossings:   !opts.NoCrossings,
		Places:      !opts.NoPlaces,
	})
	if err != nil {
		log.Fatal().Err(err).Str("network", n.Name).Msg("Failed to render preview")
	}

	if err := os.MkdirAll(filepath.Dir(opts.Output), 0755); err != nil {
		log.Fatal().Err(err).Str("path", opts.Output).Msg("Failed to create output directory")
	}
	f, err := os.Create(opts.Output)
	if err != nil {
		log.Fatal().Err(err).Str("path", opts.Output).Msg("Failed to create output file")
	}
	if err := render.Encode(f, img, opts.Format, opts.Quality); err != nil {
		_ = f.Close()
		log.Fatal().Err(err).Str("format", opts.Format).Msg("Failed to encode preview")
	}
	if err := f.Close(); err != nil {
		log.Fatal().Err(err).Str("path", opts.Output).Msg("Failed to close output file")
	}

	log.Info().
		Str("path", opts.Output).
		Int("width", img.Bounds().Dx()).
		Int("height", img.Bounds().Dy()).
		Msg("Preview written")
}
