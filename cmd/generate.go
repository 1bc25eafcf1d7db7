package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/tutorforge/internal/contentgen"
	"github.com/abhisek/tutorforge/internal/llm"
	"github.com/abhisek/tutorforge/internal/logging"
	"github.com/abhisek/tutorforge/internal/store"
)

var generateCmd = &cobra.Command{
	Use:   "generate <lesson|path|adapt|quiz|feedback>",
	Short: "Generate content from a JSON request and print the result",
	Long: "Reads a request body from --file (or stdin when --file is \"-\" or unset),\n" +
		"runs it through the generation pipeline and prints the result JSON.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := contentgen.ParseKind(args[0])
		if err != nil {
			return err
		}

		raw, err := readRequest(cmd)
		if err != nil {
			return err
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		log := logging.NewNop()
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			if log, err = newLogger(cfg); err != nil {
				return err
			}
			defer log.Sync()
		}

		ctx := cmd.Context()
		var eventRepo store.EventRepo
		var resultRepo store.ResultRepo
		if save, _ := cmd.Flags().GetBool("save"); save {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()
			eventRepo = st.EventRepo()
			resultRepo = st.ResultRepo()
		}

		provider, err := llm.NewProvider(ctx, cfg.LLM, eventRepo, log)
		if err != nil {
			return fmt.Errorf("init llm provider: %w", err)
		}

		result, err := contentgen.NewGenerator(provider, cfg.Generation, log).Generate(ctx, kind, raw)
		if err != nil {
			var ve *contentgen.ValidationError
			if errors.As(err, &ve) {
				for _, f := range ve.Fields {
					fmt.Fprintf(os.Stderr, "  %s: %s\n", fieldLabel(f), f.Message)
				}
			}
			if text, ok := contentgen.RawText(err); ok {
				fmt.Fprintln(os.Stderr, "Model output:")
				fmt.Fprintln(os.Stderr, text)
			}
			return err
		}

		body, err := result.MarshalJSON()
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}

		if resultRepo != nil {
			if err := resultRepo.Save(ctx, &store.StoredResult{
				ID:        result.ID,
				Kind:      string(result.Kind),
				CreatedAt: result.CreatedAt,
				Body:      body,
			}); err != nil {
				return fmt.Errorf("save result: %w", err)
			}
		}

		return printJSON(cmd.OutOrStdout(), body)
	},
}

func readRequest(cmd *cobra.Command) ([]byte, error) {
	path, _ := cmd.Flags().GetString("file")
	if path == "" || path == "-" {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read request: %w", err)
	}
	return raw, nil
}

func fieldLabel(f contentgen.FieldError) string {
	if f.Field == "" {
		return "(body)"
	}
	return f.Field
}

func init() {
	generateCmd.Flags().StringP("file", "f", "", "Request JSON file (\"-\" for stdin)")
	generateCmd.Flags().Bool("save", false, "Record the result and LLM events in the database")
	generateCmd.Flags().BoolP("verbose", "v", false, "Log pipeline activity to stderr")
}
