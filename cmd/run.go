package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/robashaw/basisopt/internal/basis"
	"github.com/robashaw/basisopt/internal/config"
	"github.com/robashaw/basisopt/internal/opt"
	"github.com/robashaw/basisopt/internal/store"
	"github.com/robashaw/basisopt/internal/strategy"
	"github.com/robashaw/basisopt/internal/wrapper"
)

var (
	jobPath  string
	dataDir  string
	parallel bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an optimization job",
	Long:  `Runs a basis set optimization described by a YAML job file and saves the session.`,
	RunE:  runJob,
}

func init() {
	runCmd.Flags().StringVar(&jobPath, "job", "", "Job file path (required)")
	runCmd.Flags().StringVar(&dataDir, "data-dir", "./data", "Base directory for session storage")
	runCmd.Flags().BoolVar(&parallel, "parallel", false, "Batch structure evaluations through the backend")

	runCmd.MarkFlagRequired("job")
	rootCmd.AddCommand(runCmd)
}

func runJob(cmd *cobra.Command, args []string) error {
	job, err := config.Load(jobPath)
	if err != nil {
		return err
	}
	slog.Info("Loaded job", "title", job.Title, "element", job.Element,
		"strategy", job.Strategy, "algorithm", job.Algorithm)

	b := job.BuildBasis()
	strat, err := buildStrategy(job)
	if err != nil {
		return err
	}
	reg, ok := opt.RegularizerByName(job.Regularizer)
	if !ok {
		return fmt.Errorf("unknown regularizer %q", job.Regularizer)
	}
	params := opt.Params{MaxIterations: job.MaxIterations, Tolerance: job.Tolerance}

	start := time.Now()
	var results *opt.OptResult
	if len(job.Structures) > 0 {
		results, err = runCollective(job, b, strat, reg, params)
	} else {
		target := wrapper.NewStructure(job.Element, job.Method)
		target.Basis = b
		results, err = opt.Optimize(target, job.Element, job.Algorithm, strat, reg, params)
	}
	if err != nil {
		return fmt.Errorf("optimization failed: %w", err)
	}
	slog.Info("Optimization complete", "steps", results.Len(),
		"objective", strat.LastObjective(), "elapsed", time.Since(start))

	return saveSession(job, strat, b, results)
}

func runCollective(job *config.JobConfig, b basis.InternalBasis, strat strategy.Strategy, reg opt.Regularizer, params opt.Params) (*opt.OptResult, error) {
	structures := make([]*wrapper.Structure, 0, len(job.Structures))
	for _, sc := range job.Structures {
		s := wrapper.NewStructure(sc.Name, sc.Method)
		s.Basis = b
		if sc.Reference != nil {
			s.SetReference(job.EvalType, sc.Reference)
		}
		structures = append(structures, s)
	}
	runner := opt.SequentialRunner
	if parallel {
		runner = opt.BatchRunner
	}
	optData := []opt.OptData{{
		Element:   job.Element,
		Algorithm: job.Algorithm,
		Strategy:  strat,
		Reg:       reg,
		Params:    params,
	}}
	collection, err := opt.CollectiveOptimize(structures, b, optData, job.NPass, runner)
	if err != nil {
		return nil, err
	}
	// Report the final pass's log for the single atom tuple.
	label := fmt.Sprintf("pass%d_opt1", job.NPass-1)
	return collection[label], nil
}

func buildStrategy(job *config.JobConfig) (strategy.Strategy, error) {
	switch job.Strategy {
	case "default":
		return strategy.NewDefault(job.EvalType)
	case "eventemper":
		return strategy.NewEvenTempered(job.EvalType, job.Target, job.MaxN, job.MaxL)
	case "reduce":
		return strategy.NewReduce(job.BuildBasis(), job.EvalType, job.Method,
			job.Target, job.ShellMins, job.MaxL, job.ReoptAll)
	}
	return nil, fmt.Errorf("unknown strategy %q", job.Strategy)
}

func saveSession(job *config.JobConfig, strat strategy.Strategy, b basis.InternalBasis, results *opt.OptResult) error {
	sessionStore, err := store.NewFSStore(dataDir)
	if err != nil {
		return fmt.Errorf("failed to create session store: %w", err)
	}
	session := store.NewSession(job.Element, strat, b)
	session.Results = results

	if err := sessionStore.SaveSession(session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	trace, err := store.NewTraceWriter(dataDir, session.ID, false)
	if err != nil {
		return err
	}
	defer trace.Close()
	for i, label := range results.Labels {
		step := results.Steps[label]
		entry := store.TraceEntry{
			Step:      i + 1,
			Label:     label,
			Objective: step.Fun,
			Timestamp: time.Now(),
			Params:    step.X,
		}
		if err := trace.Write(entry); err != nil {
			return err
		}
	}

	slog.Info("Session saved", "id", session.ID, "dir", dataDir)
	fmt.Printf("session %s\n", session.ID)
	return nil
}
