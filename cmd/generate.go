package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/lessonkit/internal/activity"
	"github.com/abhisek/lessonkit/internal/lessongen"
	"github.com/abhisek/lessonkit/internal/llm"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Draft a lesson config with an LLM",
	Long: `Ask the configured LLM provider for a lesson config on a topic.

The draft is parsed and checked before it is written. Output is JSON unless
--out ends in .yaml or .yml. Without --out the config goes to stdout.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("topic", "", "Lesson topic (required)")
	generateCmd.Flags().String("grade", "", "Learner level, e.g. \"kindergarten\" or \"grade 2\"")
	generateCmd.Flags().Int("activities", 0, "Number of activities (default from generator config)")
	generateCmd.Flags().StringSlice("kinds", nil, "Allowed activity types, comma separated")
	generateCmd.Flags().Int("passing", 0, "Passing score percentage to set on the lesson")
	generateCmd.Flags().StringP("out", "o", "", "Write the config to this file")
	_ = generateCmd.MarkFlagRequired("topic")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	topic, _ := cmd.Flags().GetString("topic")
	grade, _ := cmd.Flags().GetString("grade")
	count, _ := cmd.Flags().GetInt("activities")
	kindNames, _ := cmd.Flags().GetStringSlice("kinds")
	passing, _ := cmd.Flags().GetInt("passing")
	out, _ := cmd.Flags().GetString("out")

	kinds := make([]activity.Kind, 0, len(kindNames))
	for _, name := range kindNames {
		k := activity.Kind(strings.TrimSpace(name))
		if !k.Valid() {
			return fmt.Errorf("unknown activity type %q", name)
		}
		kinds = append(kinds, k)
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo())
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}

	svc := lessongen.NewService(provider, lessongen.DefaultConfig())
	res, err := svc.Generate(ctx, lessongen.Input{
		Topic:        topic,
		Grade:        grade,
		Activities:   count,
		Kinds:        kinds,
		PassingScore: passing,
	})
	if err != nil {
		return fmt.Errorf("generate lesson: %w", err)
	}

	data, err := encodeLesson(res.Canonical, out)
	if err != nil {
		return err
	}

	if out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %q (%d activities, %d questions) to %s using %d tokens in %d requests\n",
		res.Config.Title, len(res.Config.Activities), activity.CountTotalQuestions(res.Config.Activities), out,
		res.Usage.TotalTokens, res.Requests)
	return nil
}

// encodeLesson renders canonical config JSON in the format implied by path.
func encodeLesson(raw json.RawMessage, path string) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		// JSON is valid YAML; decoding into a node keeps the key order.
		var doc yaml.Node
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("convert to YAML: %w", err)
		}
		blockStyle(&doc)
		return yaml.Marshal(&doc)
	default:
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return nil, fmt.Errorf("format JSON: %w", err)
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	}
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
