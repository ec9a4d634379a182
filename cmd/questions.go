package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/harishgm1236-debug/interview-text/questionbank"
)

var questionsCmd = &cobra.Command{
	Use:   "questions [track]",
	Short: "List the question bank",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runQuestions,
}

func init() {
	rootCmd.AddCommand(questionsCmd)
	questionsCmd.Flags().StringP("level", "l", questionbank.LevelAll, "round to list, or all")
}

func runQuestions(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup()
	if err != nil {
		return err
	}
	bank, err := questionbank.Load(cfg.Paths.QuestionBank)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		for _, t := range bank.Tracks() {
			fmt.Fprintln(out, t)
		}
		return nil
	}

	level, _ := cmd.Flags().GetString("level")
	entries, err := bank.Questions(args[0], level)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Round", "#", "Category", "Weight", "Question", "Keywords"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, e := range entries {
		table.Append([]string{
			e.Round,
			strconv.Itoa(e.Index),
			e.Category,
			strconv.FormatFloat(e.Weight, 'f', 1, 64),
			e.Prompt,
			strings.Join(e.Keywords, ", "),
		})
	}
	table.Render()
	return nil
}
