package planner

import (
	"math"
	"math/rand/v2"
	"runtime"
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// trialChunkSize fixes how many trials share one PCG stream. Seeding per
// chunk rather than per worker keeps results bit-identical for a given
// (seed, trials) pair regardless of how many workers run the fan-out.
const trialChunkSize = 2048

// Trial is the outcome of a single Monte Carlo draw.
type Trial struct {
	// DemandWPW is the simulated weekly demand.
	DemandWPW float64

	// CapacityWPW is the simulated effective weekly capacity.
	CapacityWPW float64

	// ShortfallWPW is max(0, demand - capacity).
	ShortfallWPW float64

	// SurplusWPW is max(0, capacity - demand).
	SurplusWPW float64

	// Utilization is min(demand/capacity, 1.0).
	Utilization float64

	// Yield and Availability are the drawn degradation factors.
	Yield        float64
	Availability float64
}

// RiskMetrics summarizes the shortfall distribution across all trials.
type RiskMetrics struct {
	BaselineCapacityWPW float64
	MeanDemandWPW       float64

	MeanShortfallWPW   float64
	MedianShortfallWPW float64
	P95ShortfallWPW    float64
	P99ShortfallWPW    float64

	// ShortfallProbability is the fraction of trials with any shortfall.
	ShortfallProbability float64

	// ServiceLevel is the fraction of trials with zero shortfall.
	ServiceLevel float64

	MeanUtilization float64
	P95Utilization  float64

	// CapacityAtRiskP95 is the 5th percentile of simulated capacity.
	CapacityAtRiskP95 float64

	// DemandAtRiskP95 is the 95th percentile of simulated demand.
	DemandAtRiskP95 float64

	// HorizonQuarters records the forecast horizon the run was made for.
	HorizonQuarters int

	Trials int
	Seed   uint64
}

// SimulateRisk runs a Monte Carlo simulation of weekly demand against
// effective capacity. Each trial independently draws a demand multiplier,
// a yield factor, an availability factor, and a cycle-time multiplier
// whose reciprocal scales throughput. Trials are i.i.d. and fan out
// across workers; the only synchronization is the final reduction.
//
// trials <= 0 selects the configured default. The same seed and trial
// count always reproduce identical metrics.
func (m *Model) SimulateRisk(trials, horizonQuarters int, seed uint64) (RiskMetrics, []Trial, error) {
	if trials <= 0 {
		trials = m.cfg.MonteCarlo.DefaultTrials
	}
	baselineCapacity, err := m.currentWeeklyCapacity()
	if err != nil {
		return RiskMetrics{}, nil, err
	}
	if baselineCapacity == 0 {
		return RiskMetrics{}, nil, &NumericError{
			Quantity: "baseline weekly capacity",
			Detail:   "latest operations day recorded no output",
		}
	}
	meanDemand, err := m.currentWeeklyDemand()
	if err != nil {
		return RiskMetrics{}, nil, err
	}

	results := make([]Trial, trials)
	chunks := (trials + trialChunkSize - 1) / trialChunkSize
	workers := runtime.GOMAXPROCS(0)
	if workers > chunks {
		workers = chunks
	}

	var wg sync.WaitGroup
	chunkCh := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for chunk := range chunkCh {
				start := chunk * trialChunkSize
				end := start + trialChunkSize
				if end > trials {
					end = trials
				}
				m.runTrialChunk(results[start:end], baselineCapacity, meanDemand, seed, uint64(chunk))
			}
		}()
	}
	for chunk := 0; chunk < chunks; chunk++ {
		chunkCh <- chunk
	}
	close(chunkCh)
	wg.Wait()

	metrics := m.reduceTrials(results, baselineCapacity, meanDemand)
	metrics.HorizonQuarters = horizonQuarters
	metrics.Seed = seed

	m.log.V(1).Info("risk simulation complete",
		"trials", trials,
		"serviceLevel", metrics.ServiceLevel,
		"meanShortfallWPW", metrics.MeanShortfallWPW,
		"p95ShortfallWPW", metrics.P95ShortfallWPW)
	return metrics, results, nil
}

// runTrialChunk fills out with draws from a PCG stream derived from the
// run seed and the chunk index.
func (m *Model) runTrialChunk(out []Trial, baselineCapacity, meanDemand float64, seed, chunk uint64) {
	mc := m.cfg.MonteCarlo
	src := rand.NewPCG(seed, chunk)

	demandDist := distuv.Normal{Mu: 1.0, Sigma: mc.DemandVolatility, Src: src}
	yieldDist := distuv.Normal{Mu: mc.YieldMean, Sigma: mc.YieldStdDev, Src: src}
	availDist := distuv.Beta{Alpha: mc.AvailabilityAlpha, Beta: mc.AvailabilityBeta, Src: src}
	cycleDist := distuv.LogNormal{Mu: 0, Sigma: mc.CycleTimeSigma, Src: src}

	for i := range out {
		demand := meanDemand * demandDist.Rand()

		yield := yieldDist.Rand()
		yield = math.Max(mc.YieldFloor, math.Min(mc.YieldCeiling, yield))

		availability := availDist.Rand()
		throughputImpact := 1 / cycleDist.Rand()

		capacity := baselineCapacity * yield * availability * throughputImpact

		out[i] = Trial{
			DemandWPW:    demand,
			CapacityWPW:  capacity,
			ShortfallWPW: math.Max(0, demand-capacity),
			SurplusWPW:   math.Max(0, capacity-demand),
			Utilization:  math.Min(demand/capacity, 1.0),
			Yield:        yield,
			Availability: availability,
		}
	}
}

// reduceTrials aggregates per-trial outcomes into summary metrics.
func (m *Model) reduceTrials(results []Trial, baselineCapacity, meanDemand float64) RiskMetrics {
	n := len(results)
	shortfalls := make([]float64, n)
	utilizations := make([]float64, n)
	capacities := make([]float64, n)
	demands := make([]float64, n)
	var short int
	for i, r := range results {
		shortfalls[i] = r.ShortfallWPW
		utilizations[i] = r.Utilization
		capacities[i] = r.CapacityWPW
		demands[i] = r.DemandWPW
		if r.ShortfallWPW > 0 {
			short++
		}
	}
	sort.Float64s(shortfalls)
	sort.Float64s(utilizations)
	sort.Float64s(capacities)
	sort.Float64s(demands)

	return RiskMetrics{
		BaselineCapacityWPW:  baselineCapacity,
		MeanDemandWPW:        meanDemand,
		MeanShortfallWPW:     stat.Mean(shortfalls, nil),
		MedianShortfallWPW:   stat.Quantile(0.50, stat.Empirical, shortfalls, nil),
		P95ShortfallWPW:      stat.Quantile(0.95, stat.Empirical, shortfalls, nil),
		P99ShortfallWPW:      stat.Quantile(0.99, stat.Empirical, shortfalls, nil),
		ShortfallProbability: float64(short) / float64(n),
		ServiceLevel:         float64(n-short) / float64(n),
		MeanUtilization:      stat.Mean(utilizations, nil),
		P95Utilization:       stat.Quantile(0.95, stat.Empirical, utilizations, nil),
		CapacityAtRiskP95:    stat.Quantile(0.05, stat.Empirical, capacities, nil),
		DemandAtRiskP95:      stat.Quantile(0.95, stat.Empirical, demands, nil),
		Trials:               n,
	}
}
