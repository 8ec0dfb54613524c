package scenario

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Paths helper for default/profile/variant files.
type Paths struct {
	BaseDir string // base directory, e.g., ./configs
}

func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, "profiles", "default.yaml")
}
func (p Paths) ProfilePath(profile string) string {
	return filepath.Join(p.BaseDir, "profiles", profile+".yaml")
}
func (p Paths) VariantPath(profile, variant string) string {
	return filepath.Join(p.BaseDir, "profiles", profile, "variants", variant+".yaml")
}

// Loader reads YAML profiles and merges default → profile → variant.
type Loader struct {
	paths Paths
	read  func(path string) (RawConfig, error)

	mu    sync.RWMutex
	cache map[string]RawConfig // key: "profile" or "profile/variant"
	gen   uint64               // bumped by Invalidate
}

// NewLoader creates a profile loader with the given base directory.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		read:  readYAML,
		cache: make(map[string]RawConfig),
	}
}

func (l *Loader) Paths() Paths { return l.paths }

func cacheKey(profile, variant string) string {
	if variant == "" {
		return profile
	}
	return profile + "/" + variant
}

// LoadMerged loads and merges default → profile → variant (both optional).
// It returns the merged RawConfig without defaults applied.
func (l *Loader) LoadMerged(profile, variant string) (RawConfig, error) {
	if err := checkName(profile); err != nil {
		return RawConfig{}, err
	}
	if err := checkName(variant); err != nil {
		return RawConfig{}, err
	}
	key := cacheKey(profile, variant)

	l.mu.RLock()
	if cfg, ok := l.cache[key]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	gen := l.gen
	l.mu.RUnlock()

	defCfg, err := l.read(l.paths.DefaultPath())
	if err != nil {
		return RawConfig{}, fmt.Errorf("read default: %w", err)
	}
	merged := defCfg
	if profile != "" && profile != "default" {
		profCfg, err := l.read(l.paths.ProfilePath(profile))
		if err != nil {
			return RawConfig{}, fmt.Errorf("read profile %q: %w", profile, err)
		}
		merged = mergeRaw(merged, profCfg)
	}
	if variant != "" {
		varCfg, err := l.read(l.paths.VariantPath(profile, variant))
		if err != nil {
			return RawConfig{}, fmt.Errorf("read variant %q: %w", variant, err)
		}
		merged = mergeRaw(merged, varCfg)
	}

	// files read before an Invalidate may already be stale
	l.mu.Lock()
	if l.gen == gen {
		l.cache[key] = merged
	}
	l.mu.Unlock()

	return merged, nil
}

// List returns profile names found under BaseDir/profiles, default first.
func (l *Loader) List() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(l.paths.BaseDir, "profiles"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{"default"}, nil
		}
		return nil, err
	}
	names := []string{"default"}
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".yaml")
		if e.IsDir() || !ok || name == "default" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names[1:])
	return names, nil
}

// Invalidate clears loader's cache. Call after hot-reload detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawConfig)
	l.gen++
}

// checkName keeps profile names from escaping the profiles directory.
func checkName(name string) error {
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrBadName, name)
	}
	return nil
}

// readYAML loads a YAML file into RawConfig. A missing default yields the
// zero config; callers decide whether other missing files are errors.
func readYAML(path string) (RawConfig, error) {
	var cfg RawConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && filepath.Base(path) == "default.yaml" {
			return RawConfig{}, nil
		}
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return RawConfig{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func pick[T any](a, b *T) *T {
	if b != nil {
		return b
	}
	return a
}

// mergeRaw overlays b onto a: any field set in b wins.
// Slices in b replace those in a when non-empty.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}

	// inputs
	out.Inputs.Revenue = pick(a.Inputs.Revenue, b.Inputs.Revenue)
	out.Inputs.COGS = pick(a.Inputs.COGS, b.Inputs.COGS)
	out.Inputs.NonMarketingOpex = pick(a.Inputs.NonMarketingOpex, b.Inputs.NonMarketingOpex)
	out.Inputs.TotalMarketingSpend = pick(a.Inputs.TotalMarketingSpend, b.Inputs.TotalMarketingSpend)
	out.Inputs.TaxRate = pick(a.Inputs.TaxRate, b.Inputs.TaxRate)
	out.Inputs.InvestedCapital = pick(a.Inputs.InvestedCapital, b.Inputs.InvestedCapital)

	// growth
	out.Growth.Marketing = pick(a.Growth.Marketing, b.Growth.Marketing)
	out.Growth.Capital = pick(a.Growth.Capital, b.Growth.Capital)

	// simulation
	out.Simulation.Years = pick(a.Simulation.Years, b.Simulation.Years)
	out.Simulation.Simulations = pick(a.Simulation.Simulations, b.Simulation.Simulations)
	out.Simulation.BaseEffectiveness = pick(a.Simulation.BaseEffectiveness, b.Simulation.BaseEffectiveness)
	out.Simulation.RevenueStd = pick(a.Simulation.RevenueStd, b.Simulation.RevenueStd)
	out.Simulation.ROICImpact = pick(a.Simulation.ROICImpact, b.Simulation.ROICImpact)
	out.Simulation.Seed = pick(a.Simulation.Seed, b.Simulation.Seed)

	// scenario sets
	if len(b.Scenarios.Effectiveness) > 0 {
		out.Scenarios.Effectiveness = append([]float64(nil), b.Scenarios.Effectiveness...)
	}
	if len(b.Scenarios.Removal) > 0 {
		out.Scenarios.Removal = append([]float64(nil), b.Scenarios.Removal...)
	}
	out.Scenarios.Points = pick(a.Scenarios.Points, b.Scenarios.Points)

	return out
}
