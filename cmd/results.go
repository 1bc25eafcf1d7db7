package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/tutorforge/internal/contentgen"
	"github.com/abhisek/tutorforge/internal/store"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Inspect stored generation results",
}

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent generation results",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		kindFlag, _ := cmd.Flags().GetString("kind")

		opts := store.ResultListOpts{Limit: limit}
		if kindFlag != "" {
			kind, err := contentgen.ParseKind(kindFlag)
			if err != nil {
				return err
			}
			opts.Kind = string(kind)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		rows, err := s.ResultRepo().List(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("list results: %w", err)
		}
		if len(rows) == 0 {
			fmt.Println("No results found.")
			return nil
		}

		fmt.Printf("%-48s  %-10s  %-19s  %s\n", "ID", "Kind", "Created", "Title")
		fmt.Println(strings.Repeat("─", 100))
		for _, r := range rows {
			fmt.Printf("%-48s  %-10s  %-19s  %s\n",
				r.ID,
				r.Kind,
				r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				truncate(resultTitle(r.Body), 40),
			)
		}
		return nil
	},
}

var resultsViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Print a stored result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		r, err := s.ResultRepo().Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get result: %w", err)
		}
		if r == nil {
			return fmt.Errorf("result %s not found", args[0])
		}
		return printJSON(cmd.OutOrStdout(), r.Body)
	},
}

// resultTitle digs a display title out of a stored body.
func resultTitle(body []byte) string {
	var doc struct {
		Title          string `json:"title"`
		AdaptedContent struct {
			Title string `json:"title"`
		} `json:"adaptedContent"`
		RequestParams struct {
			Topic    string `json:"topic"`
			Progress struct {
				Topic string `json:"topic"`
			} `json:"progress"`
		} `json:"requestParams"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return ""
	}
	switch {
	case doc.Title != "":
		return doc.Title
	case doc.AdaptedContent.Title != "":
		return doc.AdaptedContent.Title
	case doc.RequestParams.Progress.Topic != "":
		return "Feedback: " + doc.RequestParams.Progress.Topic
	default:
		return doc.RequestParams.Topic
	}
}

func printJSON(w io.Writer, body []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return fmt.Errorf("format json: %w", err)
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}

func init() {
	resultsListCmd.Flags().IntP("limit", "n", 20, "Number of results to show")
	resultsListCmd.Flags().StringP("kind", "k", "", "Filter by kind (lesson, path, adapt, quiz)")

	resultsCmd.AddCommand(resultsListCmd)
	resultsCmd.AddCommand(resultsViewCmd)
}
