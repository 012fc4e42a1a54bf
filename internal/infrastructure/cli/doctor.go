package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/ghprojects/pkg/github"
)

var okStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
var failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
var dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and GitHub API connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			fmt.Printf("%s configuration\n", failStyle.Render("✗"))
			return err
		}
		fmt.Printf("%s configuration (transport=%s, retries=%d, delay=%ds)\n",
			okStyle.Render("✓"), cfg.Transport, cfg.MaxRetries, cfg.RetryDelay)

		client, err := github.NewClient(github.Config{Config: cfg.ClientConfig(newLogger(cfg))})
		if err != nil {
			fmt.Printf("%s client\n", failStyle.Render("✗"))
			return MapError(err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		viewer, limit, err := client.RateLimit(ctx)
		if err != nil {
			fmt.Printf("%s GitHub API\n", failStyle.Render("✗"))
			return MapError(err)
		}

		fmt.Printf("%s authenticated as %s\n", okStyle.Render("✓"), viewer.Login)
		fmt.Printf("%s rate limit: %d/%d remaining %s\n",
			okStyle.Render("✓"), limit.Remaining, limit.Limit,
			dimStyle.Render(fmt.Sprintf("(resets %s)", limit.ResetAt.Format(time.RFC3339))))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(doctorCmd)
}
