package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/playperu/lovequiz/internal/quiz"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

type scoreReport struct {
	Archetype            quiz.ArchetypePublic      `json:"archetype"`
	Confidence           float64                   `json:"confidence"`
	IsBalanced           bool                      `json:"isBalanced"`
	CompletionPercentage int                       `json:"completionPercentage"`
	Scores               quiz.DBScores             `json:"scores"`
	Debug                *quiz.ClassificationDebug `json:"debug,omitempty"`
}

type catalogReport struct {
	Total     int                  `json:"total"`
	Sections  map[quiz.Section]int `json:"sections"`
	Problems  []string             `json:"problems,omitempty"`
	Questions []catalogEntry       `json:"questions"`
}

type catalogEntry struct {
	ID       string            `json:"id"`
	Type     quiz.QuestionType `json:"type"`
	Section  quiz.Section      `json:"section"`
	Category string            `json:"category,omitempty"`
	Reverse  bool              `json:"reverse,omitempty"`
	Options  []string          `json:"options,omitempty"`
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var (
		format  string
		verbose bool
	)

	root := &cobra.Command{
		Use:           "quizscore",
		Short:         "Score love quiz answer maps offline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if format != formatJSON && format != formatYAML {
				return fmt.Errorf("unknown format %q (want json or yaml)", format)
			}
			return nil
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVarP(&format, "format", "f", formatJSON, "output format: json or yaml")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log engine warnings to stderr")

	logger := func() *slog.Logger {
		level := slog.LevelError
		if verbose {
			level = slog.LevelDebug
		}
		return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	}
	write := func(v any) error { return encode(stdout, format, v) }

	root.AddCommand(
		newScoreCmd(stdin, logger, write),
		newGridCmd(write),
		newCatalogCmd(write),
	)
	return root
}

func newScoreCmd(stdin io.Reader, logger func() *slog.Logger, write func(any) error) *cobra.Command {
	var debug, requireComplete bool

	cmd := &cobra.Command{
		Use:   "score <file|->",
		Short: "Score an answer map read from a JSON or YAML file",
		Long: `Score an answer map in its stored form, e.g.

  {"S1": {"v": 4, "t": 1700000000000}, "COM_SCENARIO_1": {"k": "D", "t": 1700000000001}}

Files ending in .yaml or .yml are read as YAML. Use - to read JSON from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			answers, err := readAnswers(stdin, args[0])
			if err != nil {
				return err
			}
			if err := quiz.ValidateAnswers(answers); err != nil {
				return err
			}

			engine := quiz.NewEngine(logger())
			progress := engine.Preview(answers)
			if requireComplete && !progress.Complete {
				return fmt.Errorf("answer map is %d%% complete", progress.CompletionPercentage)
			}

			scored := engine.Score(answers)
			report := scoreReport{
				Archetype:            scored.Archetype,
				Confidence:           scored.Confidence,
				IsBalanced:           scored.IsBalanced,
				CompletionPercentage: progress.CompletionPercentage,
				Scores:               scored.Results.DBScores(),
			}
			if debug {
				c := engine.ClassifyDebug(scored.Results.Attachment.Scores, scored.Results.Communication.Scores)
				report.Debug = c.Debug
			}
			return write(report)
		},
	}
	cmd.Flags().BoolVar(&debug, "debug", false, "include top grid cells and entropies")
	cmd.Flags().BoolVar(&requireComplete, "complete", false, "fail unless every question is answered")
	return cmd
}

func newGridCmd(write func(any) error) *cobra.Command {
	return &cobra.Command{
		Use:   "grid",
		Short: "Print the archetype grid in tie-break priority order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cells := quiz.Grid().Cells()
			var missing []string
			for _, c := range cells {
				if _, ok := quiz.ArchetypeByID(c.ArchetypeID); !ok {
					missing = append(missing, fmt.Sprintf("%s/%s -> %q", c.Attachment, c.Communication, c.ArchetypeID))
				}
			}
			if len(missing) > 0 {
				return errors.New("unresolved grid cells:\n  " + strings.Join(missing, "\n  "))
			}
			return write(cells)
		},
	}
}

func newCatalogCmd(write func(any) error) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the question catalog and report reverse-flag drift",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			questions := quiz.Questions()
			report := catalogReport{
				Total:     len(questions),
				Sections:  make(map[quiz.Section]int, len(quiz.Sections)),
				Questions: make([]catalogEntry, 0, len(questions)),
				Problems:  quiz.CheckCatalog(),
			}
			for _, q := range questions {
				report.Sections[q.Target.Section]++
				e := catalogEntry{
					ID:       q.ID,
					Type:     q.Type,
					Section:  q.Target.Section,
					Category: q.Target.Category,
					Reverse:  q.Reverse,
				}
				for _, o := range q.Options {
					e.Options = append(e.Options, o.Key)
				}
				report.Questions = append(report.Questions, e)
			}

			if err := write(report); err != nil {
				return err
			}
			if len(report.Problems) > 0 {
				return fmt.Errorf("catalog has %d problems", len(report.Problems))
			}
			return nil
		},
	}
}

func readAnswers(stdin io.Reader, path string) (quiz.DBAnswerMap, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading answers: %w", err)
	}

	var answers quiz.DBAnswerMap
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &answers)
	default:
		err = json.Unmarshal(data, &answers)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding answers: %w", err)
	}
	return answers, nil
}

// encode writes v as indented JSON or as YAML with the same field names.
func encode(w io.Writer, format string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	if format == formatJSON {
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return enc.Close()
}
