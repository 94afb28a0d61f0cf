package automation

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/bclonan/sight/internal/digest"
	"github.com/bclonan/sight/internal/grid"
	"github.com/bclonan/sight/internal/transform"
)

// Scenario is a scripted sequence of transforms applied to one grid.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Digest      string         `yaml:"digest"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep names a registered transform and its parameters. Repeat
// runs the same op that many times (default once).
type ScenarioStep struct {
	Op     string         `yaml:"op"`
	Params map[string]int `yaml:"params"`
	Repeat int            `yaml:"repeat"`
	// Expect, when set, must equal the fingerprint after the step.
	Expect string `yaml:"expect"`
}

// StepResult is the grid state after one scenario step.
type StepResult struct {
	Step    int
	Op      string
	Digest  string
	Average string
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s: no steps", path)
	}
	return &scenario, nil
}

// Observer is called with the grid after each completed step.
type Observer func(g *grid.Grid, step int, label, digest string)

// RunScenario applies every step to g in order. It stops at the first
// failing step or mismatched expectation and returns the results so far.
func RunScenario(ctx context.Context, g *grid.Grid, scenario *Scenario, registry *transform.Registry) ([]StepResult, error) {
	return RunScenarioObserved(ctx, g, scenario, registry, nil)
}

func RunScenarioObserved(ctx context.Context, g *grid.Grid, scenario *Scenario, registry *transform.Registry, observe Observer) ([]StepResult, error) {
	algo, err := digest.ParseAlgorithm(scenario.Digest)
	if err != nil {
		return nil, err
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		grid.Logger().Info("automation: step", "step", i+1, "of", len(scenario.Steps), "op", step.Op)

		op, err := registry.Get(step.Op, step.Params)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		n := step.Repeat
		if n <= 0 {
			n = 1
		}
		for j := 0; j < n; j++ {
			if err := op.Apply(g); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}

		res := StepResult{
			Step:    i + 1,
			Op:      op.Name(),
			Digest:  digest.Sum(g, algo),
			Average: g.Average().Hex(),
		}
		results = append(results, res)
		if observe != nil {
			observe(g, res.Step, res.Op, res.Digest)
		}

		if step.Expect != "" && step.Expect != res.Digest {
			return results, fmt.Errorf("step %d: digest %s, expected %s", i+1, res.Digest, step.Expect)
		}
	}

	return results, nil
}

// SweepResult is the state reached by one resonance frequency.
type SweepResult struct {
	Frequency int
	Digest    string
	Average   string
}

// SweepResonance applies each frequency in [lo, hi] to its own clone of
// g, at most GOMAXPROCS at a time. The input grid is only read. Results
// are ordered by frequency.
func SweepResonance(ctx context.Context, g *grid.Grid, lo, hi int) ([]SweepResult, error) {
	if hi < lo {
		return nil, fmt.Errorf("sweep: max %d below min %d", hi, lo)
	}
	results := make([]SweepResult, hi-lo+1)

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i := range results {
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f := lo + i
			c := g.Clone()
			if err := transform.Resonance(c, f); err != nil {
				return fmt.Errorf("sweep: frequency %d: %w", f, err)
			}
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = SweepResult{
				Frequency: f,
				Digest:    digest.Fingerprint(c),
				Average:   c.Average().Hex(),
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// RandomWalkConfig drives a chain of random-frequency resonances, the
// scripted form of clicking the grid repeatedly.
type RandomWalkConfig struct {
	Clicks   int
	Seed     int64
	Observer Observer
}

type RandomWalkResult struct {
	Click     int
	Frequency int
	Digest    string
	Average   string
}

func RunRandomWalk(ctx context.Context, g *grid.Grid, cfg RandomWalkConfig) ([]RandomWalkResult, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	results := make([]RandomWalkResult, 0, cfg.Clicks)
	for i := 0; i < cfg.Clicks; i++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		f := transform.RandomFrequency(rng)
		if err := transform.Resonance(g, f); err != nil {
			return results, err
		}
		res := RandomWalkResult{
			Click:     i + 1,
			Frequency: f,
			Digest:    digest.Fingerprint(g),
			Average:   g.Average().Hex(),
		}
		results = append(results, res)
		if cfg.Observer != nil {
			cfg.Observer(g, res.Click, fmt.Sprintf("resonance %d", f), res.Digest)
		}
	}
	return results, nil
}

// DistinctStates counts how many different fingerprints a walk visited.
func DistinctStates(results []RandomWalkResult) int {
	seen := make(map[string]struct{}, len(results))
	for _, r := range results {
		seen[r.Digest] = struct{}{}
	}
	return len(seen)
}
