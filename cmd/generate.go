package cmd

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/mcqgen/internal/engine"
	"github.com/abhisek/mcqgen/internal/llm"
	"github.com/abhisek/mcqgen/internal/questiongen"
	"github.com/abhisek/mcqgen/internal/ui/render"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a question bank",
	Example: `  mcqgen generate --topic "TCP congestion control" --count 15 --difficulty Hard
  mcqgen generate --source notes.md --count 20 --json
  mcqgen generate --image slide.png --taxonomy Analyzing
  mcqgen generate --batch requests.yaml --parallel 4 > banks.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}

		if batch, _ := cmd.Flags().GetString("batch"); batch != "" {
			parallel, _ := cmd.Flags().GetInt("parallel")
			return runBatch(cmd, e, batch, parallel)
		}

		req, err := requestFromFlags(cmd)
		if err != nil {
			return err
		}

		res, err := e.Generate(cmd.Context(), req)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), res)
		}
		fmt.Fprint(cmd.OutOrStdout(), render.Result(res))
		return nil
	},
}

func init() {
	f := generateCmd.Flags()
	f.StringP("topic", "t", "", "Topic to generate questions about")
	f.StringP("difficulty", "d", string(questiongen.DifficultyMedium), "Easy, Medium or Hard")
	f.String("taxonomy", string(questiongen.TaxonomyUnderstanding), "Bloom level: Remembering, Understanding, Applying, Analyzing, Evaluating or Creating")
	f.IntP("count", "n", 10, "Number of questions (1-100)")
	f.String("source", "", "Path to a text file the questions must be drawn from")
	f.String("image", "", "Path to an image the questions must be drawn from")
	f.Bool("json", false, "Print JSON instead of formatted output")
	f.String("batch", "", "Path to a YAML file with a list of requests")
	f.Int("parallel", 2, "Concurrent requests in batch mode")
}

func requestFromFlags(cmd *cobra.Command) (questiongen.Request, error) {
	f := cmd.Flags()
	topic, _ := f.GetString("topic")
	difficulty, _ := f.GetString("difficulty")
	taxonomy, _ := f.GetString("taxonomy")
	count, _ := f.GetInt("count")

	req := questiongen.Request{
		Topic:         topic,
		Difficulty:    questiongen.Difficulty(difficulty),
		Taxonomy:      questiongen.Taxonomy(taxonomy),
		QuestionCount: count,
	}

	if path, _ := f.GetString("source"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return req, fmt.Errorf("read source material: %w", err)
		}
		req.SourceMaterial = string(data)
	}

	if path, _ := f.GetString("image"); path != "" {
		img, err := loadImage(path)
		if err != nil {
			return req, err
		}
		req.SourceImage = img
	}

	return req, nil
}

func loadImage(path string) (*llm.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return nil, fmt.Errorf("%s is not an image (detected %s)", path, mime)
	}
	return &llm.Image{MIMEType: mime, Data: base64.StdEncoding.EncodeToString(data)}, nil
}

// batchResult is one entry of the batch output, in input order.
type batchResult struct {
	Index  int                 `json:"index"`
	Topic  string              `json:"topic"`
	Result *questiongen.Result `json:"result,omitempty"`
	Error  string              `json:"error,omitempty"`
}

func runBatch(cmd *cobra.Command, e *engine.Engine, path string, parallel int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read batch file: %w", err)
	}
	var reqs []questiongen.Request
	if err := yaml.Unmarshal(data, &reqs); err != nil {
		return fmt.Errorf("parse batch file %s: %w", path, err)
	}
	if parallel < 1 {
		parallel = 1
	}

	results := make([]batchResult, len(reqs))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(parallel)

	for i, req := range reqs {
		g.Go(func() error {
			res, err := e.Generate(ctx, req)
			results[i] = batchResult{Index: i, Topic: req.Topic, Result: res}
			if err != nil {
				// A failed request does not cancel its siblings.
				logger.Warn("batch request failed", zap.Int("index", i), zap.Error(err))
				results[i].Error = err.Error()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := writeJSON(cmd.OutOrStdout(), results); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d batch requests failed", failed, len(results))
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
