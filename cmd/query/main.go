package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/woozymasta/transitgeo/internal/config"
	"github.com/woozymasta/transitgeo/internal/export"
	"github.com/woozymasta/transitgeo/internal/geo"
	"github.com/woozymasta/transitgeo/internal/logger"
	"github.com/woozymasta/transitgeo/internal/network"
	"github.com/woozymasta/transitgeo/internal/transit"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	NetworkFile string   `short:"n" long:"network"   env:"NETWORK_FILE" description:"Path to network file" default:"network.yaml"`
	Limit       []string `short:"l" long:"limit"     env:"LIMIT_ROADS"  description:"Limit queries to specific road names"`
	At          string   `short:"p" long:"at"        description:"Query point as lat,lon"`
	Mode        string   `short:"m" long:"mode"      description:"Travel mode used to pick roads" choice:"any" choice:"walk" choice:"bike" default:"any"`
	Radius      float64  `short:"r" long:"radius"    description:"Radius in km for nearby places" default:"1"`
	Output      string   `short:"o" long:"out"       description:"Output file path. Writes to stdout if empty"`
	Format      string   `short:"f" long:"format"    description:"Output format" choice:"json" choice:"yaml" default:"json"`
	Crossings   bool     `short:"x" long:"crossings" description:"List road crossings"`
	Stops       bool     `short:"s" long:"stops"     description:"Place every bus stop on the network"`
	TripFrom    string   `long:"trip-from"           description:"Train station id a trip starts at"`
	TripTo      string   `long:"trip-to"             description:"Train station id a trip ends at"`
	Depart      string   `long:"depart"              description:"Earliest departure as RFC3339. Defaults to now"`
	Strict      bool     `long:"strict"              description:"Fail on invalid roads instead of skipping them"`
}

// Report is the query output document.
type Report struct {
	Query          *PointReport            `yaml:"query,omitempty" json:"query,omitempty"`
	Trip           *transit.TrainTrip      `yaml:"trip,omitempty" json:"trip,omitempty"`
	Network        string                  `yaml:"network,omitempty" json:"network,omitempty"`
	Crossings      []network.Crossing      `yaml:"crossings,omitempty" json:"crossings,omitempty"`
	CrossingPoints []geo.Coord             `yaml:"crossing_points,omitempty" json:"crossing_points,omitempty"`
	Stops          []network.StopPlacement `yaml:"stops,omitempty" json:"stops,omitempty"`
	Roads          int                     `yaml:"roads" json:"roads"`
	LengthKm       float64                 `yaml:"length_km" json:"length_km"`
}

// PointReport answers a query point.
type PointReport struct {
	Placement *network.Placement      `yaml:"placement,omitempty" json:"placement,omitempty"`
	Nearest   *transit.StationHandle  `yaml:"nearest_place,omitempty" json:"nearest_place,omitempty"`
	Point     geo.Coord               `yaml:"point" json:"point"`
	Nearby    []transit.StationHandle `yaml:"nearby,omitempty" json:"nearby,omitempty"`
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

	mode, err := network.ParseMode(opts.Mode)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid mode")
	}

	cfg, err := config.Load(opts.NetworkFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load network")
	}

	n, err := network.FromConfig(cfg, opts.Strict)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build network")
	}
	n = n.Limit(opts.Limit)

	report := Report{
		Network:  n.Name,
		Roads:    len(n.Roads),
		LengthKm: n.Length(),
	}

	if opts.At != "" {
		p, err := parseCoord(opts.At)
		if err != nil {
			log.Fatal().Err(err).Str("at", opts.At).Msg("Invalid query point")
		}
		report.Query, err = queryPoint(context.Background(), n, p, mode, opts.Radius)
		if err != nil {
			log.Fatal().Err(err).Msg("Query failed")
		}
	}

	if opts.TripFrom != "" || opts.TripTo != "" {
		report.Trip, err = queryTrip(context.Background(), n, opts.TripFrom, opts.TripTo, opts.Depart)
		if err != nil {
			log.Fatal().Err(err).Msg("Trip lookup failed")
		}
	}

	if opts.Crossings {
		report.Crossings = n.Crossings()
		report.CrossingPoints = n.CrossingPoints()
		log.Debug().
			Int("crossings", len(report.Crossings)).
			Int("points", len(report.CrossingPoints)).
			Msg("Crossings computed")
	}

	if opts.Stops {
		report.Stops = n.PlaceStops(mode)
		snapped := 0
		for _, s := range report.Stops {
			if s.Snapped {
				snapped++
			}
		}
		log.Debug().
			Int("stops", len(report.Stops)).
			Int("snapped", snapped).
			Msg("Stops placed")
	}

	var out []byte
	if opts.Format == "yaml" {
		out, err = yaml.Marshal(report)
	} else {
		out, err = json.MarshalIndent(report, "", "  ")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal report")
	}

	if opts.Output == "" {
		fmt.Println(string(out))
		return
	}
	if err := export.Save(opts.Output, out); err != nil {
		log.Fatal().Err(err).Str("path", opts.Output).Msg("Failed to write report")
	}
	log.Info().Str("path", opts.Output).Msg("Report written")
}

func queryPoint(ctx context.Context, n *network.Network, p geo.Coord, mode network.Mode, radius float64) (*PointReport, error) {
	pr := &PointReport{Point: p}

	if pl, ok := n.Place(p, mode); ok {
		pr.Placement = &pl
	} else {
		log.Warn().Stringer("mode", mode).Msg("No road open to the requested mode")
	}

	nearest, err := n.Catalog().ResolveNearest(ctx, p)
	switch {
	case errors.Is(err, transit.ErrNoStations):
		log.Debug().Msg("Network has no places")
	case err != nil:
		return nil, err
	default:
		pr.Nearest = &nearest
	}

	pr.Nearby, err = n.Catalog().Within(ctx, p, radius)
	if err != nil {
		return nil, err
	}
	return pr, nil
}

func queryTrip(ctx context.Context, n *network.Network, fromID, toID, depart string) (*transit.TrainTrip, error) {
	from, ok := n.TrainStation(fromID)
	if !ok {
		return nil, fmt.Errorf("unknown train station %q", fromID)
	}
	to, ok := n.TrainStation(toID)
	if !ok {
		return nil, fmt.Errorf("unknown train station %q", toID)
	}

	at := time.Now()
	if depart != "" {
		var err error
		if at, err = time.Parse(time.RFC3339, depart); err != nil {
			return nil, err
		}
	}

	trip, err := n.Timetable().Trip(ctx, from, to, at)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("train", trip.Train).
		Time("departure", trip.Departure).
		Dur("duration", trip.Duration()).
		Msg("Trip found")
	return &trip, nil
}

// parseCoord reads "lat,lon".
func parseCoord(s string) (geo.Coord, error) {
	latStr, lonStr, ok := strings.Cut(s, ",")
	if !ok {
		return geo.Coord{}, fmt.Errorf("expected lat,lon, got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return geo.Coord{}, err
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return geo.Coord{}, err
	}
	return geo.Coord{Lat: lat, Lon: lon}, nil
}
