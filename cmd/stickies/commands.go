package main

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kalambet/stickies/internal/storage"
)

// --- add ---

var addCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Create a sticky note",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		note := storage.Note{
			ID:        uuid.New().String(),
			Text:      text,
			CreatedAt: time.Now().UTC(),
		}

		resp, err := client.post(cmd.Context(), "/notes", note)
		if err != nil {
			return err
		}

		var result map[string]bool
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Created note %s", note.ID)
		return nil
	},
}

// --- list ---

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sticky notes",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/notes")
		if err != nil {
			return err
		}

		var notes []storage.Note
		if err := decodeJSON(resp, &notes); err != nil {
			return err
		}

		if len(notes) == 0 {
			fmt.Println("No notes yet.")
			return nil
		}

		for _, n := range notes {
			fmt.Printf("%s  %s  %s\n",
				colorize(colorCyan, shortID(n.ID)),
				n.CreatedAt.Format("2006-01-02 15:04"),
				truncate(n.Text, 80),
			)
		}
		return nil
	},
}

// --- group ---

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Group all notes into themes using the local model",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		listResp, err := client.get(cmd.Context(), "/notes")
		if err != nil {
			return err
		}
		var notes []storage.Note
		if err := decodeJSON(listResp, &notes); err != nil {
			return err
		}
		if len(notes) == 0 {
			fmt.Println("No notes to group.")
			return nil
		}

		resp, err := client.post(cmd.Context(), "/notes/group", map[string]any{"notes": notes})
		if err != nil {
			return err
		}

		var result struct {
			Grouped struct {
				Categories []struct {
					Topic string   `json:"topic"`
					Notes []string `json:"notes"`
				} `json:"categories"`
				RawText string `json:"rawText"`
			} `json:"grouped"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		if result.Grouped.RawText != "" {
			fmt.Println(result.Grouped.RawText)
			return nil
		}

		for _, cat := range result.Grouped.Categories {
			fmt.Printf("\n%s\n", colorize(colorBold, cat.Topic))
			for _, text := range cat.Notes {
				fmt.Printf("  - %s\n", text)
			}
		}
		return nil
	},
}

// --- search ---

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Semantic search over notes",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		limit, _ := cmd.Flags().GetInt("limit")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		path := fmt.Sprintf("/notes/search?q=%s&limit=%d", url.QueryEscape(query), limit)
		resp, err := client.get(cmd.Context(), path)
		if err != nil {
			return err
		}

		var results []struct {
			ID    string  `json:"id"`
			Text  string  `json:"text"`
			Score float32 `json:"score"`
		}
		if err := decodeJSON(resp, &results); err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Println("No results found.")
			return nil
		}

		for _, r := range results {
			fmt.Printf("%s [%.3f]  %s\n",
				colorize(colorCyan, shortID(r.ID)),
				r.Score,
				truncate(r.Text, 80),
			)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().Int("limit", 5, "maximum number of results")
}

// --- delete ---

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a sticky note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.delete(cmd.Context(), "/notes/"+url.PathEscape(args[0]))
		if err != nil {
			return err
		}

		var result map[string]bool
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Deleted note %s", args[0])
		return nil
	},
}

// --- digest ---

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Summarize today's notes",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/digest")
		if err != nil {
			return err
		}

		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		fmt.Println(result["digest"])
		return nil
	},
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
