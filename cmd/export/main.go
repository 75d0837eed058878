package main

import (
	"fmt"
	"io"
	"os"

	"github.com/woozymasta/transitgeo/internal/config"
	"github.com/woozymasta/transitgeo/internal/export"
	"github.com/woozymasta/transitgeo/internal/logger"
	"github.com/woozymasta/transitgeo/internal/network"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Input       string   `short:"i" long:"in"     description:"Network file path. Reads from stdin if empty"`
	Output      string   `short:"o" long:"out"    description:"Output file path. Writes to stdout if empty"`
	Format      string   `short:"f" long:"format" description:"Output format. json and yaml convert the network file itself" choice:"geojson" choice:"json" choice:"yaml" default:"geojson"`
	Limit       []string `short:"l" long:"limit"  description:"Export only these roads"`
	Minify      bool     `short:"m" long:"minify" description:"Minify JSON output"`
	NoCrossings bool     `long:"no-crossings"     description:"Do not export road crossings"`
	NoPlaces    bool     `long:"no-places"        description:"Do not export stops and stations"`
	Strict      bool     `long:"strict"           description:"Fail on invalid roads instead of skipping them"`
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

	var data []byte
	var err error
	if opts.Input != "" {
		data, err = os.ReadFile(opts.Input)
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		log.Fatal().Err(err).Str("in", opts.Input).Msg("Failed to read input")
	}

	cfg, err := config.Parse(data)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse network")
	}

	var out []byte
	switch opts.Format {
	case "yaml":
		out, err = yaml.Marshal(cfg)
	case "json":
		out, err = export.JSON(cfg, opts.Minify)
	default:
		out, err = geoJSON(cfg, opts)
	}
	if err != nil {
		log.Fatal().Err(err).Str("format", opts.Format).Msg("Failed to marshal output")
	}

	if opts.Output == "" {
		fmt.Println(string(out))
		return
	}
	if err := export.Save(opts.Output, out); err != nil {
		log.Fatal().Err(err).Str("path", opts.Output).Msg("Failed to write output")
	}
	log.Info().
		Str("path", opts.Output).
		Str("format", opts.Format).
		Int("bytes", len(out)).
		Msg("Network exported")
}

func geoJSON(cfg *config.Config, opts Options) ([]byte, error) {
	n, err := network.FromConfig(cfg, opts.Strict)
	if err != nil {
		return nil, err
	}
	n = n.Limit(opts.Limit)

	fc := export.FeatureCollection(n, export.Options{
		Roads:     true,
		Places:    !opts.NoPlaces,
		Crossings: !opts.NoCrossings,
	})
	log.Debug().Int("features", len(fc.Features)).Msg("Feature collection built")

	return export.Marshal(fc, opts.Minify)
}
