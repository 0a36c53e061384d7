package grid

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"github.com/bcdannyboy/qp/models"
	"github.com/bcdannyboy/qp/options"
	"github.com/shirou/gopsutil/cpu"
	"golang.org/x/sync/errgroup"
)

const jobBufferSize = 256

// Request describes a strike by maturity surface priced off one set of
// market parameters. Base.Strike and Base.Maturity are replaced per point.
// Steps of zero prices European points in closed form.
type Request struct {
	Base       models.MarketParameters
	Type       models.OptionType
	Style      models.ExerciseStyle
	Steps      int
	Strikes    []float64
	Maturities []float64
}

type Point struct {
	Strike   float64        `json:"strike"`
	Maturity float64        `json:"maturity"`
	Price    float64        `json:"price"`
	Greeks   *models.Greeks `json:"greeks,omitempty"`
}

type job struct {
	index    int
	strike   float64
	maturity float64
}

func (r Request) Validate() error {
	if len(r.Strikes) == 0 || len(r.Maturities) == 0 {
		return fmt.Errorf("%w: grid needs at least one strike and one maturity", models.ErrInvalidParameter)
	}
	if r.Steps < 0 {
		return fmt.Errorf("%w: steps must be non-negative, got %d", models.ErrInvalidParameter, r.Steps)
	}
	if r.Style == models.American && r.Steps == 0 {
		return fmt.Errorf("%w: american grid needs a lattice step count", models.ErrInvalidParameter)
	}
	return nil
}

// Size is the number of points in the grid.
func (r Request) Size() int {
	return len(r.Strikes) * len(r.Maturities)
}

// DefaultWorkers sizes the pool to the physical core count, falling back to
// the logical CPUs when the host does not report it.
func DefaultWorkers() int {
	n, err := cpu.Counts(false)
	if err != nil || n < 1 {
		return runtime.NumCPU()
	}
	return n
}

// Price evaluates every grid point on a pool of workers. progress, if not
// nil, is called once per finished point from the worker goroutines. The
// result is ordered by maturity then strike.
func Price(ctx context.Context, req Request, workers int, progress func()) ([]Point, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = DefaultWorkers()
	}

	points := make([]Point, req.Size())
	jobs := make(chan job, jobBufferSize)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		i := 0
		for _, m := range req.Maturities {
			for _, k := range req.Strikes {
				select {
				case jobs <- job{index: i, strike: k, maturity: m}:
				case <-ctx.Done():
					return ctx.Err()
				}
				i++
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for j := range jobs {
				p, err := req.pricePoint(j)
				if err != nil {
					return err
				}
				// each index is written by exactly one worker
				points[j.index] = p
				if progress != nil {
					progress()
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(points, func(a, b int) bool {
		if points[a].Maturity != points[b].Maturity {
			return points[a].Maturity < points[b].Maturity
		}
		return points[a].Strike < points[b].Strike
	})
	return points, nil
}

func (r Request) pricePoint(j job) (Point, error) {
	p := r.Base
	p.Strike = j.strike
	p.Maturity = j.maturity

	pt := Point{Strike: j.strike, Maturity: j.maturity}
	if r.Steps == 0 {
		g, err := options.BlackScholesGreeks(p, r.Type)
		if err != nil {
			return Point{}, fmt.Errorf("strike %v maturity %v: %w", j.strike, j.maturity, err)
		}
		pt.Price = g.Price
		pt.Greeks = &g
		return pt, nil
	}

	price, err := options.BinomialPrice(p, r.Steps, r.Type, r.Style)
	if err != nil {
		return Point{}, fmt.Errorf("strike %v maturity %v: %w", j.strike, j.maturity, err)
	}
	pt.Price = price
	return pt, nil
}
