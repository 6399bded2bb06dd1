package main

import (
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/guptarohit/asciigraph"
	"github.com/pbaille/moodmirror/internal/api"
	"github.com/pbaille/moodmirror/internal/domain"
	"github.com/pbaille/moodmirror/internal/importer"
	"github.com/pbaille/moodmirror/internal/journal"
	"github.com/spf13/cobra"
)

func addCmd(a *app) *cobra.Command {
	var tags, from string

	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Write a new entry (reads stdin when no text is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")

			switch {
			case from != "":
				imported, err := importer.Load(cmd.Context(), from)
				if err != nil {
					return fmt.Errorf("import %s: %w", from, err)
				}
				text = imported
			case text == "":
				raw, err := io.ReadAll(a.prompter.Input())
				if err != nil {
					return fmt.Errorf("read entry: %w", err)
				}
				text = string(raw)
			}

			entry, err := a.journal.Submit(cmd.Context(), text, tags)
			if errors.Is(err, domain.ErrEmptyEntry) {
				fmt.Fprintln(a.out, "Empty Entry: Please write something.")
				return err
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Mood Score: %.2f\n", entry.Mood)
			fmt.Fprintln(a.out, journal.MoodMessage(entry.Mood))
			return nil
		},
	}

	cmd.Flags().StringVarP(&tags, "tags", "t", "", "comma separated tags")
	cmd.Flags().StringVar(&from, "from", "", "read the entry from a URL or file")
	return cmd
}

func listCmd(a *app) *cobra.Command {
	var tag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.journal.Entries(cmd.Context(), tag)
			if errors.Is(err, domain.ErrNoEntries) {
				fmt.Fprintln(a.out, "No journal entries found.")
				return nil
			}
			if errors.Is(err, domain.ErrNoMatches) {
				fmt.Fprintf(a.out, "No entries found with tag '%s'.\n", strings.TrimSpace(tag))
				return nil
			}
			if err != nil {
				return err
			}

			label := strings.TrimSpace(tag)
			if label == "" {
				label = "All"
			}
			fmt.Fprintf(a.out, "Journal Entries - Tag: '%s'\n\n", label)
			writeEntries(a.out, entries)
			return nil
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "only show entries with this tag (case-insensitive)")
	return cmd
}

func writeEntries(w io.Writer, entries []domain.Entry) {
	for _, e := range entries {
		tags := "None"
		if len(e.Tags) > 0 {
			tags = strings.Join(e.Tags, ", ")
		}

		fmt.Fprintf(w, "Date: %s\n", e.Date)
		fmt.Fprintf(w, "Mood Score: %.2f\n", e.Mood)
		fmt.Fprintf(w, "Tags: %s\n", tags)
		fmt.Fprintf(w, "Entry Preview:\n%s\n", journal.Preview(e.Text))
		fmt.Fprintf(w, "%s\n\n", strings.Repeat("-", 60))
	}
}

func trendCmd(a *app) *cobra.Command {
	var height int

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Plot mood over time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			points, err := a.journal.Trend(cmd.Context())
			if errors.Is(err, domain.ErrNoEntries) || (err == nil && len(points) == 0) {
				fmt.Fprintln(a.out, "No mood data to display.")
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(a.out, plotTrend(points, height))
			return nil
		},
	}

	cmd.Flags().IntVar(&height, "height", 10, "chart height in rows")
	return cmd
}

func plotTrend(points []domain.TrendPoint, height int) string {
	moods := make([]float64, len(points))
	for i, p := range points {
		moods[i] = p.Mood
	}
	// a single sample still needs two columns to draw a line
	if len(moods) == 1 {
		moods = append(moods, moods[0])
	}

	first := points[0].Date.Format(domain.DateLayout)
	last := points[len(points)-1].Date.Format(domain.DateLayout)

	return asciigraph.Plot(moods,
		asciigraph.Height(height),
		asciigraph.LowerBound(-1),
		asciigraph.UpperBound(1),
		asciigraph.Precision(2),
		asciigraph.Caption(fmt.Sprintf("Mood Trend Over Time (%s to %s)", first, last)),
	)
}

func tagsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List tags with entry counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := a.journal.Tags(cmd.Context())
			if errors.Is(err, domain.ErrNoEntries) {
				fmt.Fprintln(a.out, "No journal entries found.")
				return nil
			}
			if err != nil {
				return err
			}

			if len(tags) == 0 {
				fmt.Fprintln(a.out, "No tags yet. Add some with 'moodmirror add --tags'.")
				return nil
			}

			for _, t := range tags {
				fmt.Fprintf(a.out, "%-20s %d\n", t.Name, t.Count)
			}
			return nil
		},
	}
}

func serveCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local REST API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			server := api.New(a.journal, a.creds, addr)
			return server.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "127.0.0.1:8080", "server address")
	return cmd
}
