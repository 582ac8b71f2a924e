// molymemo - command line client for the MolyMemo assistant backend.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/dantetu1995723/MolyMemo-sub002/assistant"
)

var (
	configFlag  string
	baseURLFlag string
	tokenFlag   string
	debugFlag   bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "molymemo",
	Short: "Client for the MolyMemo assistant backend",
	Long: `molymemo - command line client for the MolyMemo assistant backend.

Streams assistant replies and prints text and extracted entities
(schedules, contacts, invoices, meetings) as they arrive.

Configuration is read from ~/.molymemo.yaml and can be overridden
with flags.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default: ~/.molymemo.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURLFlag, "base-url", "", "Backend base URL")
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", "", "Bearer token")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(askCmd)
}

// buildClient merges file config with flags and constructs the client.
func buildClient() (*assistant.Client, error) {
	cfg, err := loadConfig(configFlag)
	if err != nil {
		return nil, err
	}
	if baseURLFlag != "" {
		cfg.BaseURL = baseURLFlag
	}
	if tokenFlag != "" {
		cfg.Token = tokenFlag
	}
	if debugFlag {
		cfg.Debug = true
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("no base URL configured (set base_url in %s or pass --base-url)", configPath(configFlag))
	}

	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	header := http.Header{}
	if cfg.Token != "" {
		header.Set("Authorization", "Bearer "+cfg.Token)
	}

	return assistant.NewClient(assistant.Config{
		BaseURL: cfg.BaseURL,
		Header:  header,
		Logger:  logger,
	})
}

var askCmd = &cobra.Command{
	Use:   "ask <prompt>",
	Short: "Send a prompt and stream the reply",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := buildClient()
		if err != nil {
			return err
		}

		out, err := client.Stream(cmd.Context(), map[string]interface{}{"message": args[0]}, func(d assistant.Delta) {
			if d.Text != "" {
				fmt.Println(d.Text)
			}
			if d.ToolRunning != nil && *d.ToolRunning {
				fmt.Fprintln(os.Stderr, "... working")
			}
		})
		if err != nil {
			return err
		}
		if out == nil {
			return nil // cancelled
		}

		printEntities(out)
		return nil
	},
}

func printEntities(out *assistant.StructuredOutput) {
	for _, ev := range out.Schedules {
		end := "(no end time)"
		if ev.EndTimeProvided {
			end = ev.EndTime.Format("15:04")
		}
		fmt.Printf("schedule: %s  %s %s\n", ev.Title, ev.StartTime.Format("2006-01-02 15:04"), end)
	}
	for _, ct := range out.Contacts {
		fmt.Printf("contact: %s  %s\n", ct.Name, ct.Phone)
	}
	for _, inv := range out.Invoices {
		fmt.Printf("invoice: %s  %s\n", inv.Title, inv.Amount)
	}
	for _, mt := range out.Meetings {
		fmt.Printf("meeting: %s  %s\n", mt.Title, mt.StartTime.Format("2006-01-02 15:04"))
	}
}
