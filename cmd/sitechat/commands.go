package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sitechat/internal/assist"
	"sitechat/internal/config"
	"sitechat/internal/content"
	"sitechat/internal/storage"
)

// --- import ---

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import post files into the content store",
	Long: `Import post files into the content store.

Accepts a single file or a directory. Markdown files may carry YAML
front-matter (title, slug, summary, date, tags); HTML and PDF files are
reduced to plain text with the file name as title.

Examples:
  sitechat import ./posts
  sitechat import ./posts/hello-world.md`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		store, err := storage.Open(cfg.Storage.DataDir)
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}
		defer store.Close()

		importer := content.NewImporter(store)

		info, err := os.Stat(args[0])
		if err != nil {
			return err
		}

		if info.IsDir() {
			count, err := importer.ImportDir(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSuccess("Imported %d posts from %s", count, args[0])
			return nil
		}

		post, err := importer.ImportFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printSuccess("Imported %q as %s", post.Title, post.Slug)
		return nil
	},
}

// --- profile ---

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the owner profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current profile as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/profile")
		if err != nil {
			return err
		}

		var profile any
		if err := decodeJSON(resp, &profile); err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(profile)
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a profile field",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		body := map[string]any{key: value}
		resp, err := client.patch(cmd.Context(), "/profile", body)
		if err != nil {
			return err
		}

		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)
}

// --- ask ---

var askCmd = &cobra.Command{
	Use:   "ask <query>",
	Short: "Ask the assistant a question from the command line",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		sessionID, _ := cmd.Flags().GetString("session")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		req := map[string]string{"query": query}
		if sessionID != "" {
			req["session_id"] = sessionID
		}

		resp, err := client.post(cmd.Context(), "/chat", req)
		if err != nil {
			return err
		}

		var result struct {
			SessionID  string                   `json:"session_id"`
			Message    assist.Message           `json:"message"`
			Navigation *assist.NavigationIntent `json:"navigation,omitempty"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		fmt.Println(result.Message.Content)
		printCard(result.Message)

		if result.Navigation != nil {
			printWarning("Navigating to %s (%s) in %d...",
				result.Navigation.Path, result.Navigation.Label, result.Navigation.Remaining)
		}
		if len(result.Message.Suggestions) > 0 {
			fmt.Println()
			for _, s := range result.Message.Suggestions {
				fmt.Printf("  %s %s\n", colorize(colorBold, "·"), s)
			}
		}
		fmt.Fprintf(os.Stderr, "\nsession: %s\n", result.SessionID)
		return nil
	},
}

func printCard(msg assist.Message) {
	if msg.Card == nil {
		return
	}
	switch msg.CardKind {
	case assist.CardProfile:
		if p := msg.Card.Profile; p != nil {
			fmt.Println()
			fmt.Printf("  %s\n", colorize(colorBold, p.Name))
			if p.Bio != "" {
				fmt.Printf("  %s\n", p.Bio)
			}
			if p.GitHubURL != "" {
				fmt.Printf("  %s\n", p.GitHubURL)
			}
		}
	case assist.CardProjects:
		for _, r := range msg.Card.Projects {
			fmt.Println()
			fmt.Printf("  %s", colorize(colorBold, r.Name))
			if r.Stars > 0 {
				fmt.Printf(" (★ %d)", r.Stars)
			}
			fmt.Println()
			if r.Description != "" {
				fmt.Printf("  %s\n", r.Description)
			}
		}
	case assist.CardBlog:
		for _, p := range msg.Card.Posts {
			fmt.Println()
			fmt.Printf("  %s\n", colorize(colorBold, p.Title))
			if p.Summary != "" {
				fmt.Printf("  %s\n", p.Summary)
			}
		}
	}
}

func init() {
	askCmd.Flags().String("session", "", "continue an existing chat session")
}
