package config

import (
	"fmt"
	"os"
)

// LoadStudy loads and parses a study file
func LoadStudy(path string) (*Study, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read study file %s: %w", path, err)
	}
	study, err := ParseStudyYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse study file %s: %w", path, err)
	}
	return study, nil
}

// validateStudy performs validation on the study configuration
func validateStudy(s *Study) error {
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[s.LogLevel] {
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", s.LogLevel)
	}

	if s.Restarts < 0 {
		return fmt.Errorf("restarts cannot be negative, got %d", s.Restarts)
	}

	if err := validateProblem(&s.Problem); err != nil {
		return fmt.Errorf("problem validation failed: %w", err)
	}
	if err := validateOracle(&s.Oracle, len(s.Problem.Inputs)); err != nil {
		return fmt.Errorf("oracle validation failed: %w", err)
	}
	if err := validateSolver(&s.Solver, len(s.Problem.Inputs)); err != nil {
		return fmt.Errorf("solver validation failed: %w", err)
	}

	return nil
}

// validateProblem validates the decision-variable definitions
func validateProblem(p *Problem) error {
	if len(p.Inputs) == 0 {
		return fmt.Errorf("at least one input must be defined")
	}
	names := make(map[string]bool)
	for i, in := range p.Inputs {
		if in.Name == "" {
			return fmt.Errorf("input %d: name cannot be empty", i)
		}
		if names[in.Name] {
			return fmt.Errorf("duplicate input name: %s", in.Name)
		}
		names[in.Name] = true
		if in.Min >= in.Max {
			return fmt.Errorf("input %s: min %g must be below max %g", in.Name, in.Min, in.Max)
		}
		if in.Granularity <= 0 {
			return fmt.Errorf("input %s: granularity must be positive, got %g", in.Name, in.Granularity)
		}
	}
	return nil
}

// validateOracle validates the benchmark oracle selection
func validateOracle(o *Oracle, dimension int) error {
	validBenchmarks := map[string]bool{
		"quadratic": true,
		"sphere":    true,
	}
	if !validBenchmarks[o.Benchmark] {
		return fmt.Errorf("invalid benchmark: %s (must be quadratic or sphere)", o.Benchmark)
	}
	if o.Benchmark == "quadratic" && len(o.Optimum) != dimension {
		return fmt.Errorf("quadratic optimum has %d values, problem has %d inputs", len(o.Optimum), dimension)
	}
	if o.NoiseStd < 0 {
		return fmt.Errorf("noise_std cannot be negative, got %g", o.NoiseStd)
	}
	return nil
}

// validateSolver validates the algorithm selection and its parameters
func validateSolver(s *Solver, dimension int) error {
	validAlgorithms := map[string]bool{
		"hill_climber":  true,
		"annealing":     true,
		"cross_entropy": true,
		"rspline":       true,
	}
	if !validAlgorithms[s.Algorithm] {
		return fmt.Errorf("invalid algorithm: %s (must be hill_climber, annealing, cross_entropy, or rspline)", s.Algorithm)
	}
	if s.MaxIterations < 0 {
		return fmt.Errorf("max_iterations cannot be negative, got %d", s.MaxIterations)
	}
	if s.StreamNumber < 0 {
		return fmt.Errorf("stream_number cannot be negative, got %d", s.StreamNumber)
	}

	if s.Replications != nil {
		if err := validateReplications(s.Replications); err != nil {
			return fmt.Errorf("replications: %w", err)
		}
	}
	if s.Cooling != nil {
		if err := validateCooling(s.Cooling); err != nil {
			return fmt.Errorf("cooling: %w", err)
		}
	}
	if s.Neighborhood != nil {
		if err := validateNeighborhood(s.Neighborhood); err != nil {
			return fmt.Errorf("neighborhood: %w", err)
		}
	}

	if s.Algorithm == "cross_entropy" {
		if len(s.InitialMean) != dimension {
			return fmt.Errorf("initial_mean has %d values, problem has %d inputs", len(s.InitialMean), dimension)
		}
		if len(s.InitialStdDev) != dimension {
			return fmt.Errorf("initial_stddev has %d values, problem has %d inputs", len(s.InitialStdDev), dimension)
		}
		for i, sd := range s.InitialStdDev {
			if sd <= 0 {
				return fmt.Errorf("initial_stddev[%d] must be positive, got %g", i, sd)
			}
		}
	}

	return nil
}

// validateReplications validates a replication schedule section
func validateReplications(r *Replications) error {
	switch r.Schedule {
	case "fixed":
		if r.Count <= 0 {
			return fmt.Errorf("fixed schedule needs a positive count, got %d", r.Count)
		}
	case "growth":
		if r.Initial <= 0 {
			return fmt.Errorf("growth schedule needs a positive initial count, got %d", r.Initial)
		}
		if r.GrowthRate < 0 {
			return fmt.Errorf("growth_rate cannot be negative, got %g", r.GrowthRate)
		}
		if r.Ceiling != 0 && r.Ceiling < r.Initial {
			return fmt.Errorf("ceiling %d is below initial count %d", r.Ceiling, r.Initial)
		}
	default:
		return fmt.Errorf("invalid schedule: %s (must be fixed or growth)", r.Schedule)
	}
	return nil
}

// validateCooling validates a cooling schedule section
func validateCooling(c *Cooling) error {
	if c.Initial <= 0 {
		return fmt.Errorf("initial temperature must be positive, got %g", c.Initial)
	}
	switch c.Schedule {
	case "linear":
		if c.Step <= 0 {
			return fmt.Errorf("linear schedule needs a positive step, got %g", c.Step)
		}
		if c.Floor < 0 || c.Floor >= c.Initial {
			return fmt.Errorf("floor %g must be in [0, initial temperature)", c.Floor)
		}
	case "exponential":
		if c.Rate <= 0 || c.Rate >= 1 {
			return fmt.Errorf("exponential schedule needs a rate in (0, 1), got %g", c.Rate)
		}
	case "logarithmic":
		// Initial temperature is the only parameter.
	default:
		return fmt.Errorf("invalid schedule: %s (must be linear, exponential, or logarithmic)", c.Schedule)
	}
	return nil
}

// validateNeighborhood validates a neighborhood section
func validateNeighborhood(n *Neighborhood) error {
	if n.Metric != "von_neumann" && n.Metric != "moore" {
		return fmt.Errorf("invalid metric: %s (must be von_neumann or moore)", n.Metric)
	}
	if n.Traversal != "" && n.Traversal != "scan" && n.Traversal != "bfs" {
		return fmt.Errorf("invalid traversal: %s (must be scan or bfs)", n.Traversal)
	}
	if n.Radius <= 0 {
		return fmt.Errorf("radius must be positive, got %d", n.Radius)
	}
	return nil
}
