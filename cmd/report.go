package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/harishgm1236-debug/interview-text/orchestrator"
	"github.com/harishgm1236-debug/interview-text/report"
)

var reportCmd = &cobra.Command{
	Use:   "report <session dir | evaluation.json ...>",
	Short: "Summarize a session from saved evaluations",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().Bool("as-json", false, "print the summary as JSON")
}

// collectEvaluations expands directories to the evaluation files they hold.
func collectEvaluations(args []string) ([]string, error) {
	var files []string
	for _, a := range args {
		st, err := os.Stat(a)
		if err != nil {
			return nil, err
		}
		if !st.IsDir() {
			files = append(files, a)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(a, "evaluation_*.json"))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no evaluation files in %s", strings.Join(args, ", "))
	}
	return files, nil
}

func readAnswers(files []string) ([]report.Answer, error) {
	answers := make([]report.Answer, 0, len(files))
	for _, p := range files {
		raw, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		var ev orchestrator.Evaluation
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		answers = append(answers, report.Answer{Weight: ev.Weight, Result: ev.Result})
	}
	return answers, nil
}

func runReport(cmd *cobra.Command, args []string) error {
	files, err := collectEvaluations(args)
	if err != nil {
		return err
	}
	answers, err := readAnswers(files)
	if err != nil {
		return err
	}
	sum := report.Summarize(answers)
	out := cmd.OutOrStdout()

	if asJSON, _ := cmd.Flags().GetBool("as-json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}

	table := tablewriter.NewWriter(out)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk([][]string{
		{"Answers", fmt.Sprint(sum.Answers)},
		{"Marks", fmt.Sprintf("%.1f / %.1f", sum.TotalMarks, sum.MaxPossible)},
		{"Percentage", fmt.Sprintf("%.1f%%", sum.Percentage)},
		{"Grade", sum.Grade},
		{"Average score", fmt.Sprintf("%.1f", sum.AverageScore)},
		{"Technical", fmt.Sprintf("%.1f", sum.SkillAverages["technical"])},
		{"Communication", fmt.Sprintf("%.1f", sum.SkillAverages["communication"])},
		{"Problem solving", fmt.Sprintf("%.1f", sum.SkillAverages["problem_solving"])},
		{"Confidence", fmt.Sprintf("%.1f", sum.SkillAverages["confidence"])},
		{"Strengths", strings.Join(sum.Strengths, ", ")},
		{"Weaknesses", strings.Join(sum.Weaknesses, ", ")},
		{"Dominant emotion", sum.DominantEmotion},
	})
	table.Render()
	return nil
}
