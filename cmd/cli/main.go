package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"assesscore/adapters/memory"
	"assesscore/adapters/postgres"
	appcore "assesscore/app/core"
	"assesscore/app/interview"
	"assesscore/app/match"
	"assesscore/app/session"
	"assesscore/domain/assessment"
	"assesscore/domain/core"
	"assesscore/internal"
	"assesscore/internal/config"
	"assesscore/internal/irt"
	"assesscore/ports"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "assesscore-cli",
		Short: "Exercise the assessment platform's core operations from the command line",
	}

	rootCmd.AddCommand(
		newCreateCandidateCmd(),
		newCreateAssessmentCmd(),
		newStartCmd(),
		newNextCmd(),
		newRespondCmd(),
		newCompleteCmd(),
		newMatchCmd(),
		newInterviewCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newAppService wires app/core.Service against postgres when DATABASE_URL
// is set, otherwise empty in-memory repositories.
func newAppService() (*appcore.Service, error) {
	_ = godotenv.Load() // no .env file is not fatal; system env vars still apply

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := internal.DefaultLogger

	var (
		candidates  ports.CandidateRepository
		assessments ports.AssessmentRepository
		items       ports.ItemRepository
		scales      ports.ScaleRepository
		scores      ports.ScaleScoreRepository
		models      ports.PerformanceModelRepository
	)

	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		candidates = postgres.NewCandidateRepository(db)
		assessments = postgres.NewAssessmentRepository(db)
		items = postgres.NewItemRepository(db)
		scales = postgres.NewScaleRepository(db)
		scores = postgres.NewScaleScoreRepository(db)
		models = postgres.NewPerformanceModelRepository(db)
	} else {
		candidates = memory.NewCandidateRepository()
		assessments = memory.NewAssessmentRepository()
		items = memory.NewItemRepository(nil)
		scales = memory.NewScaleRepository(nil)
		scores = memory.NewScaleScoreRepository()
		models = memory.NewPerformanceModelRepository(nil)
	}

	termination := irt.TerminationConfig{MinItems: cfg.IRT.MinItems, MaxItems: cfg.IRT.MaxItems, TargetSEM: cfg.IRT.TargetSEM}
	prior := irt.Prior{Mu: cfg.IRT.PriorMu, Sigma: cfg.IRT.PriorSigma}

	sessions := session.NewManager(assessments, items, scales, scores, termination, prior, cfg.Scoring, logger)
	matcher := match.NewEngine(assessments, scores, scales, models, logger)
	interviews := interview.NewGenerator(matcher, scales, logger)
	return appcore.NewService(candidates, assessments, sessions, matcher, interviews, cfg, logger), nil
}

func printJSON(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Println(string(b))
}

func newCreateCandidateCmd() *cobra.Command {
	var attributesJSON string

	cmd := &cobra.Command{
		Use:   "create-candidate",
		Short: "Register a new candidate",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAppService()
			if err != nil {
				return err
			}
			attrs := map[string]interface{}{}
			if attributesJSON != "" {
				if err := json.Unmarshal([]byte(attributesJSON), &attrs); err != nil {
					return fmt.Errorf("invalid --attributes JSON: %w", err)
				}
			}
			id, err := svc.CreateCandidate(context.Background(), attrs)
			if err != nil {
				return err
			}
			printJSON(map[string]string{"candidateId": id.String()})
			return nil
		},
	}
	cmd.Flags().StringVar(&attributesJSON, "attributes", "", `candidate attributes as a JSON object, e.g. '{"name":"Jane Doe"}'`)
	return cmd
}

func newCreateAssessmentCmd() *cobra.Command {
	var candidateID, typ string

	cmd := &cobra.Command{
		Use:   "create-assessment",
		Short: "Create a new assessment for a candidate",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAppService()
			if err != nil {
				return err
			}
			id, err := svc.CreateAssessment(context.Background(), core.CandidateID(candidateID), assessment.Type(typ))
			if err != nil {
				return err
			}
			printJSON(map[string]string{"assessmentId": id.String()})
			return nil
		},
	}
	cmd.Flags().StringVar(&candidateID, "candidate", "", "candidate id")
	cmd.Flags().StringVar(&typ, "type", string(assessment.TypeFull), "assessment type: full|cognitive_only|behavioral_only|interests_only")
	cmd.MarkFlagRequired("candidate")
	return cmd
}

func newStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start [assessment-id]",
		Short: "Start an assessment, returning its first section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAppService()
			if err != nil {
				return err
			}
			section, err := svc.StartAssessment(context.Background(), core.AssessmentID(args[0]))
			if err != nil {
				return err
			}
			printJSON(map[string]string{"firstSection": string(section)})
			return nil
		},
	}
}

func newNextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next [assessment-id]",
		Short: "Fetch the next item (or section/assessment completion) for an assessment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAppService()
			if err != nil {
				return err
			}
			res, err := svc.NextItem(context.Background(), core.AssessmentID(args[0]))
			if err != nil {
				return err
			}
			printJSON(res)
			return nil
		},
	}
}

func newRespondCmd() *cobra.Command {
	var likert int
	var multipleChoice, forcedChoice string
	var binary bool
	var responseTimeMs int

	cmd := &cobra.Command{
		Use:   "respond [assessment-id] [item-id]",
		Short: "Submit a response to an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAppService()
			if err != nil {
				return err
			}

			var value assessment.ResponseValue
			switch {
			case cmd.Flags().Changed("likert"):
				value, err = assessment.ParseLikert(likert)
			case cmd.Flags().Changed("multiple-choice"):
				value = assessment.MultipleChoiceResponse{Value: multipleChoice}
			case cmd.Flags().Changed("forced-choice"):
				value, err = assessment.ParseForcedChoice(forcedChoice)
			case cmd.Flags().Changed("binary"):
				value = assessment.BinaryResponse{Value: binary}
			default:
				return fmt.Errorf("exactly one of --likert/--multiple-choice/--forced-choice/--binary must be set")
			}
			if err != nil {
				return err
			}

			if err := svc.RespondItem(context.Background(), core.AssessmentID(args[0]), core.ItemID(args[1]), value, responseTimeMs); err != nil {
				return err
			}
			printJSON(map[string]bool{"ack": true})
			return nil
		},
	}
	cmd.Flags().IntVar(&likert, "likert", 0, "Likert response, 1..5")
	cmd.Flags().StringVar(&multipleChoice, "multiple-choice", "", "multiple-choice option text")
	cmd.Flags().StringVar(&forcedChoice, "forced-choice", "", `forced-choice selection, "A" or "B"`)
	cmd.Flags().BoolVar(&binary, "binary", false, "binary true/false response")
	cmd.Flags().IntVar(&responseTimeMs, "response-time-ms", 0, "time taken to respond, in milliseconds")
	return cmd
}

func newCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete [assessment-id]",
		Short: "Finalize an assessment and print its per-scale scores",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAppService()
			if err != nil {
				return err
			}
			scores, err := svc.CompleteAssessment(context.Background(), core.AssessmentID(args[0]))
			if err != nil {
				return err
			}
			printJSON(scores)
			return nil
		},
	}
}

func newMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match [assessment-id] [model-id]",
		Short: "Compute job-match fit against a performance model",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAppService()
			if err != nil {
				return err
			}
			m, err := svc.ComputeMatch(context.Background(), core.AssessmentID(args[0]), core.PerformanceModelID(args[1]))
			if err != nil {
				return err
			}
			printJSON(m)
			return nil
		},
	}
}

func newInterviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interview [assessment-id] [model-id]",
		Short: "Generate interview question blocks for the out-of-band scales",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAppService()
			if err != nil {
				return err
			}
			blocks, err := svc.InterviewQuestions(context.Background(), core.AssessmentID(args[0]), core.PerformanceModelID(args[1]))
			if err != nil {
				return err
			}
			printJSON(blocks)
			return nil
		},
	}
}
