package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"memoboard/internal/memos/domain/entities"
)

const timeLayout = "2006-01-02 15:04"

func (c *cli) listCmd() *cobra.Command {
	var (
		query    string
		category string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List memos, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			services, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			result, err := services.Memos.List(cmd.Context(), query, category)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			printMemos(cmd.OutOrStdout(), result.Visible)
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d memos (%s storage)\n",
				result.Stats.Filtered, result.Stats.Total, result.Storage)
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "filter by title, content or exact tag")
	cmd.Flags().StringVarP(&category, "category", "c", entities.CategoryAll, "filter by category")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output in JSON format")
	return cmd
}

func (c *cli) statsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show memo counts per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			services, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			result, err := services.Memos.List(cmd.Context(), "", entities.CategoryAll)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), result.Stats)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "total: %d\n", result.Stats.Total)
			categories := make([]string, 0, len(result.Stats.ByCategory))
			for category := range result.Stats.ByCategory {
				categories = append(categories, category)
			}
			sort.Strings(categories)
			for _, category := range categories {
				fmt.Fprintf(out, "%s: %d\n", category, result.Stats.ByCategory[category])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output in JSON format")
	return cmd
}

func (c *cli) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one memo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			memo, err := services.Memos.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printMemo(cmd.OutOrStdout(), memo)
			return nil
		},
	}
}

func (c *cli) summarizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summarize <id>",
		Short: "Generate and store an AI summary for a memo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			result, err := services.Memos.SummarizeMemo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Summary)
			if !result.Saved {
				fmt.Fprintf(cmd.ErrOrStderr(), "summary was not saved: %v\n", result.SaveErr)
			}
			return nil
		},
	}
}

func (c *cli) searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search memos in the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			memos, err := services.Memos.Search(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printMemos(cmd.OutOrStdout(), memos)
			return nil
		},
	}
}

func (c *cli) categoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "category <name>",
		Short: "List memos of one category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			memos, err := services.Memos.ListByCategory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printMemos(cmd.OutOrStdout(), memos)
			return nil
		},
	}
}

func (c *cli) clearCmd() *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every memo in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirmed {
				return ErrClearNotConfirmed
			}
			services, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			if err := services.Memos.ClearAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "all memos deleted")
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm deletion")
	return cmd
}

func printMemos(w io.Writer, memos []*entities.Memo) {
	for _, memo := range memos {
		fmt.Fprintf(w, "%s  [%s]  %s", memo.ID, memo.CategoryLabel(), memo.Title)
		if len(memo.Tags) > 0 {
			fmt.Fprintf(w, "  #%s", strings.Join(memo.Tags, " #"))
		}
		fmt.Fprintln(w)
	}
}

func printMemo(w io.Writer, memo *entities.Memo) {
	fmt.Fprintf(w, "id:       %s\n", memo.ID)
	fmt.Fprintf(w, "title:    %s\n", memo.Title)
	fmt.Fprintf(w, "category: %s\n", memo.CategoryLabel())
	fmt.Fprintf(w, "tags:     %s\n", strings.Join(memo.Tags, ", "))
	fmt.Fprintf(w, "created:  %s\n", memo.CreatedAt.Local().Format(timeLayout))
	fmt.Fprintf(w, "updated:  %s\n", memo.UpdatedAt.Local().Format(timeLayout))
	if memo.AISummary != nil {
		fmt.Fprintf(w, "summary:  %s\n", *memo.AISummary)
	}
	fmt.Fprintf(w, "\n%s\n", memo.Content)
}
