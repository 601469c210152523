// ABOUTME: classify subcommand: offline evaluation of a prompt against the backend config
// ABOUTME: Prints signals, confidence, decision and category as a table or JSON

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mauromedda/unpack/internal/clarify"
	"github.com/mauromedda/unpack/internal/config"
	"github.com/mauromedda/unpack/internal/engine"
)

type classifyOptions struct {
	configPath string
	answers    []string
	asJSON     bool
}

type classifyReport struct {
	engine.Evaluation
	Threshold       float64          `json:"threshold"`
	AnswersCategory *clarify.Category `json:"answersCategory,omitempty"`
	Preferred       *clarify.Category `json:"preferredCategory,omitempty"`
	PreferredSource string           `json:"preferredSource,omitempty"`
}

func newClassifyCmd() *cobra.Command {
	var opts classifyOptions
	cmd := &cobra.Command{
		Use:   "classify <prompt>",
		Short: "Show how a prompt would be routed, without calling a model",
		Example: `  unpack classify "should I take this job offer"
  unpack classify --answer "we can't afford it" "should we buy a house"
  unpack classify --json "hello"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openBackend(opts.configPath)
			if err != nil {
				return err
			}
			return writeClassification(cmd.OutOrStdout(), store.Load(), strings.Join(args, " "), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Backend config YAML")
	cmd.Flags().StringArrayVarP(&opts.answers, "answer", "a", nil, "Clarification answer (repeatable)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print JSON")
	return cmd
}

func classify(snap *config.Snapshot, prompt string, answers []string) classifyReport {
	r := classifyReport{
		Evaluation: engine.Evaluate(snap, prompt),
		Threshold:  snap.Backend.Confidence.MinConfidence,
	}
	if len(answers) > 0 {
		ac := clarify.ClassifyFromAnswers(answers)
		pc, src := engine.PreferredCategory(snap, prompt, answers)
		r.AnswersCategory, r.Preferred, r.PreferredSource = &ac, &pc, src
	}
	return r
}

func writeClassification(w io.Writer, snap *config.Snapshot, prompt string, opts classifyOptions) error {
	r := classify(snap, prompt, opts.answers)
	if opts.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "needs clarification:\t%t\n", r.NeedsClarification)
	fmt.Fprintf(tw, "confidence:\t%.2f (threshold %.2f)\n", r.Confidence, r.Threshold)
	fmt.Fprintf(tw, "decision / vague / keyword:\t%t / %t / %t\n", r.DecisionHit, r.VagueHit, r.KeywordHit)
	fmt.Fprintf(tw, "casual greeting:\t%t\n", r.Casual)
	fmt.Fprintf(tw, "category:\t%s\n", r.Category)
	if r.AnswersCategory != nil {
		fmt.Fprintf(tw, "answers category:\t%s\n", *r.AnswersCategory)
		fmt.Fprintf(tw, "final prompt category:\t%s (from %s)\n", *r.Preferred, r.PreferredSource)
	}
	if len(r.Signals) > 0 {
		fmt.Fprintln(tw, "signals:\t")
		for _, s := range r.Signals {
			fmt.Fprintf(tw, "  %s\t%.2f  %s\n", s.Name, s.Weight, s.Detail)
		}
	}
	return tw.Flush()
}
