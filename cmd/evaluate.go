package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harishgm1236-debug/interview-text/config"
	"github.com/harishgm1236-debug/interview-text/orchestrator"
	"github.com/harishgm1236-debug/interview-text/questionbank"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score one answer and print the evaluation record",
	Example: `  interview-eval evaluate --track backend --round round_2_domain --index 0 --audio answer.webm --image face.jpg
  interview-eval evaluate --text "I would add an index" --keywords index,query --category technical`,
	Args: cobra.NoArgs,
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	f := evaluateCmd.Flags()
	f.String("text", "", "typed answer; used instead of transcribing the audio when long enough")
	f.String("audio", "", "recorded answer (wav, webm, ogg, mp4)")
	f.String("image", "", "snapshot of the candidate's face")
	f.String("track", "", "question bank track; overrides the inline question flags")
	f.String("round", questionbank.RoundBackground, "question bank round")
	f.Int("index", 0, "question index within the round")
	f.StringSlice("keywords", nil, "expected keywords")
	f.String("model-answer", "", "reference answer")
	f.String("category", "", "technical, problem_solving or behavioral")
	f.Float64("weight", 1, "question weight")
	f.Bool("save", true, "write the evaluation under paths.outputs")
}

func evaluateRequest(cmd *cobra.Command, cfg *config.Root) (orchestrator.Request, error) {
	f := cmd.Flags()
	text, _ := f.GetString("text")
	audioPath, _ := f.GetString("audio")
	imagePath, _ := f.GetString("image")
	req := orchestrator.Request{AnswerText: text, AudioPath: audioPath, ImagePath: imagePath}

	if track, _ := f.GetString("track"); track != "" {
		round, _ := f.GetString("round")
		index, _ := f.GetInt("index")
		bank, err := questionbank.Load(cfg.Paths.QuestionBank)
		if err != nil {
			return req, err
		}
		q, err := bank.Lookup(track, round, index)
		if err != nil {
			return req, err
		}
		req.Keywords, req.ModelAnswer, req.Category, req.Weight = q.Keywords, q.ModelAnswer, q.Category, q.Weight
		return req, nil
	}

	req.Keywords, _ = f.GetStringSlice("keywords")
	req.ModelAnswer, _ = f.GetString("model-answer")
	req.Category, _ = f.GetString("category")
	req.Weight, _ = f.GetFloat64("weight")
	if req.Weight <= 0 {
		return req, fmt.Errorf("weight must be positive, got %v", req.Weight)
	}
	return req, nil
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	req, err := evaluateRequest(cmd, cfg)
	if err != nil {
		return err
	}
	if strings.TrimSpace(req.AnswerText) == "" && req.AudioPath == "" {
		log.Warn("neither --text nor --audio given, the answer will score as empty")
	}

	save, _ := cmd.Flags().GetBool("save")
	rt, err := wire(cmd.Context(), cfg, log, wireOpts{saveFiles: save})
	if err != nil {
		return err
	}
	defer rt.Close()

	ev := rt.engine.Run(cmd.Context(), req)
	log.WithField("evaluation_id", ev.ID).Info("answer evaluated")

	out := ev.Result.Record()
	out["evaluation_id"] = ev.ID
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}
