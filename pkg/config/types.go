package config

// Study is the root of a study configuration: the problem to optimize, the
// oracle that scores it, and the solver that searches it.
type Study struct {
	Name     string  `yaml:"name,omitempty"`
	LogLevel string  `yaml:"log_level"`
	Seed     int64   `yaml:"seed"`
	Restarts int     `yaml:"restarts,omitempty"`
	Problem  Problem `yaml:"problem"`
	Oracle   Oracle  `yaml:"oracle"`
	Solver   Solver  `yaml:"solver"`
}

// Problem describes the feasible region as one bounded lattice per input.
type Problem struct {
	Inputs []Input `yaml:"inputs"`
}

// Input is one decision variable.
type Input struct {
	Name        string  `yaml:"name"`
	Min         float64 `yaml:"min"`
	Max         float64 `yaml:"max"`
	Granularity float64 `yaml:"granularity"`
}

// Oracle selects a benchmark objective and its noise level.
type Oracle struct {
	Benchmark string    `yaml:"benchmark"` // quadratic or sphere
	Optimum   []float64 `yaml:"optimum,omitempty"`
	NoiseStd  float64   `yaml:"noise_std"`
	Cache     bool      `yaml:"cache,omitempty"`
}

// Solver selects an algorithm and its parameters. Only the sections
// relevant to the chosen algorithm are read; zero values fall back to the
// algorithm's defaults.
type Solver struct {
	Algorithm     string        `yaml:"algorithm"` // hill_climber, annealing, cross_entropy, rspline
	MaxIterations int           `yaml:"max_iterations,omitempty"`
	StreamNumber  int           `yaml:"stream_number,omitempty"`
	Replications  *Replications `yaml:"replications,omitempty"`

	// Hill climber and cross-entropy stagnation stop.
	StabilityWindow int `yaml:"stability_window,omitempty"`

	// Simulated annealing.
	Cooling          *Cooling `yaml:"cooling,omitempty"`
	TemperatureFloor float64  `yaml:"temperature_floor,omitempty"`

	// Cross-entropy.
	SampleSize    int       `yaml:"sample_size,omitempty"`
	ElitePct      float64   `yaml:"elite_pct,omitempty"`
	MinEliteSize  int       `yaml:"min_elite_size,omitempty"`
	Smoothing     float64   `yaml:"smoothing,omitempty"`
	CVThreshold   float64   `yaml:"cv_threshold,omitempty"`
	InitialMean   []float64 `yaml:"initial_mean,omitempty"`
	InitialStdDev []float64 `yaml:"initial_stddev,omitempty"`

	// R-SPLINE.
	InitialSampleSize   int           `yaml:"initial_sample_size,omitempty"`
	SampleGrowthRate    float64       `yaml:"sample_growth_rate,omitempty"`
	InitialCallLimit    int           `yaml:"initial_call_limit,omitempty"`
	CallLimitGrowthRate float64       `yaml:"call_limit_growth_rate,omitempty"`
	PerturbationFactor  float64       `yaml:"perturbation_factor,omitempty"`
	SPLIIterationLimit  int           `yaml:"spli_iteration_limit,omitempty"`
	InitialStepSize     float64       `yaml:"initial_step_size,omitempty"`
	StepGrowthFactor    float64       `yaml:"step_growth_factor,omitempty"`
	Neighborhood        *Neighborhood `yaml:"neighborhood,omitempty"`
}

// Replications configures the per-evaluation replication schedule.
type Replications struct {
	Schedule string `yaml:"schedule"` // fixed or growth
	Count    int    `yaml:"count,omitempty"`
	Initial  int    `yaml:"initial,omitempty"`
	// GrowthRate applies per iteration: ceil(initial·(1+rate)^n).
	GrowthRate float64 `yaml:"growth_rate,omitempty"`
	Ceiling    int     `yaml:"ceiling,omitempty"`
}

// Cooling configures the annealing temperature schedule.
type Cooling struct {
	Schedule string  `yaml:"schedule"` // linear, exponential, or logarithmic
	Initial  float64 `yaml:"initial"`
	Rate     float64 `yaml:"rate,omitempty"`  // exponential decay in (0, 1)
	Step     float64 `yaml:"step,omitempty"`  // linear decrement per iteration
	Floor    float64 `yaml:"floor,omitempty"` // linear floor
}

// Neighborhood configures lattice neighborhood enumeration.
type Neighborhood struct {
	Metric    string `yaml:"metric"` // von_neumann or moore
	Traversal string `yaml:"traversal,omitempty"`
	Radius    int    `yaml:"radius"`
}
