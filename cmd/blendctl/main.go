// Command blendctl runs the blend engine from the command line against a
// JSON tank file or a cellar stored in the database.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"winecalc/internal/blend"
	"winecalc/internal/config"
	"winecalc/internal/db"
	"winecalc/internal/db/mock"
	"winecalc/models"
)

var openDatabase = func(ctx context.Context) (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Database.UseMock {
		return mock.New(ctx)
	}
	database, err := db.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return database, nil
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "blendctl: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	tanksPath  string
	owner      string
	tab        string
	target     float64
	drain      string
	ranges     string
	mode       string
	ids        string
	volumes    string
	iterations int
	show       int
	topK       int
	seed       uint64
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("blendctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.tanksPath, "tanks", "", "JSON file holding an array of tanks")
	fs.StringVar(&opts.owner, "owner", "", "email of the user whose cellar is loaded from the database")
	fs.StringVar(&opts.tab, "tab", "target", "tanks, target or random")
	fs.Float64Var(&opts.target, "target", 0, "target alcohol percent")
	fs.StringVar(&opts.drain, "drain", "", "tank id to empty completely")
	fs.StringVar(&opts.ranges, "ranges", "", "reading ranges, e.g. pH=3.3:3.6,totalAcidity=5:")
	fs.StringVar(&opts.mode, "mode", "best", "random mode: full, selected or best")
	fs.StringVar(&opts.ids, "ids", "", "comma separated tank ids for selected random mode")
	fs.StringVar(&opts.volumes, "volumes", "", "allocations for the tanks tab, e.g. a=120,b=1.5hL")
	fs.IntVar(&opts.iterations, "iterations", 0, "random draws for best mode")
	fs.IntVar(&opts.show, "show", 0, "blends to keep in best mode")
	fs.IntVar(&opts.topK, "top", blend.DefaultTopK, "combinations to keep in target mode")
	fs.Uint64Var(&opts.seed, "seed", 0, "random seed; zero uses the clock")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if (opts.tanksPath == "") == (opts.owner == "") {
		return opts, errors.New("exactly one of -tanks or -owner is required")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}

	tanks, err := loadTanks(ctx, opts)
	if err != nil {
		return err
	}
	req, err := buildRequest(opts)
	if err != nil {
		return err
	}

	engine := blend.NewEngine(blend.Options{TopK: opts.topK, Rand: blend.NewRand(opts.seed)})
	outcome, err := engine.Run(blend.NewCellar(tanks), req)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(outcome)
}

func loadTanks(ctx context.Context, opts options) ([]blend.Tank, error) {
	if opts.tanksPath != "" {
		raw, err := os.ReadFile(opts.tanksPath)
		if err != nil {
			return nil, fmt.Errorf("read tanks: %w", err)
		}
		var tanks []blend.Tank
		if err := json.Unmarshal(raw, &tanks); err != nil {
			return nil, fmt.Errorf("decode tanks: %w", err)
		}
		return tanks, nil
	}

	database, err := openDatabase(ctx)
	if err != nil {
		return nil, err
	}
	var user models.User
	err = database.WithContext(ctx).
		Preload("Tanks", func(tx *gorm.DB) *gorm.DB { return tx.Order("name asc") }).
		Where("lower(email) = ?", strings.ToLower(opts.owner)).
		First(&user).Error
	if err != nil {
		return nil, fmt.Errorf("load cellar for %s: %w", opts.owner, err)
	}
	return models.Snapshots(user.Tanks), nil
}

func buildRequest(opts options) (blend.Request, error) {
	tab, err := blend.ParseTab(opts.tab)
	if err != nil {
		return blend.Request{}, err
	}
	req := blend.Request{Tab: tab}

	switch tab {
	case blend.FromTanks:
		req.Allocations, err = parseVolumes(opts.volumes)
	case blend.FromTarget:
		req.Target.Alcohol = opts.target
		req.Target.Ranges, err = parseRanges(opts.ranges)
		req.Constraint = blend.FreeMode{}
		if opts.drain != "" {
			req.Constraint = blend.DrainMode{TankID: opts.drain}
		}
	case blend.Random:
		req.Mode, err = blend.ParseRandomMode(opts.mode)
		req.TankIDs = splitList(opts.ids)
		req.Iterations = opts.iterations
		req.ToShow = opts.show
	}
	return req, err
}

// parseVolumes reads "id=120,id=1.5hL" into allocations.
func parseVolumes(s string) ([]blend.Allocation, error) {
	var out []blend.Allocation
	for _, part := range splitList(s) {
		id, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("volume %q must look like id=liters", part)
		}
		unit := blend.Liters
		if trimmed, found := strings.CutSuffix(strings.TrimSpace(value), "hL"); found {
			value, unit = trimmed, blend.Hectoliters
		} else {
			value = strings.TrimSuffix(strings.TrimSpace(value), "L")
		}
		volume, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("volume %q: %w", part, err)
		}
		out = append(out, blend.Allocation{TankID: strings.TrimSpace(id), Volume: volume, Unit: unit})
	}
	return out, nil
}

// parseRanges reads "pH=3.3:3.6,totalAcidity=5:" where either bound may be empty.
func parseRanges(s string) (map[blend.Field]blend.Range, error) {
	parts := splitList(s)
	if len(parts) == 0 {
		return nil, nil
	}
	out := make(map[blend.Field]blend.Range, len(parts))
	for _, part := range parts {
		name, bounds, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("range %q must look like field=min:max", part)
		}
		field, known := blend.ParseField(strings.TrimSpace(name))
		if !known {
			return nil, fmt.Errorf("unknown reading %q", name)
		}
		lo, hi, _ := strings.Cut(bounds, ":")
		var r blend.Range
		var err error
		if r.Min, err = parseBound(lo); err != nil {
			return nil, fmt.Errorf("range %q: %w", part, err)
		}
		if r.Max, err = parseBound(hi); err != nil {
			return nil, fmt.Errorf("range %q: %w", part, err)
		}
		if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
			return nil, fmt.Errorf("range %q: min is above max", part)
		}
		out[field] = r
	}
	return out, nil
}

func parseBound(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("bound %q is not a finite number", s)
	}
	return &v, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
