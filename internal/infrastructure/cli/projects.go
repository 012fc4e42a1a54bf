package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	domain "github.com/felixgeelhaar/ghprojects/pkg/domain/projects"
	"github.com/felixgeelhaar/ghprojects/pkg/github"
)

var (
	projectsOrg   string
	projectsUser  string
	projectsLimit int
)

var titleStyle = lipgloss.NewStyle().Bold(true)
var closedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Inspect GitHub Projects from the command line",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects for an organization or user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if (projectsOrg == "") == (projectsUser == "") {
			return NewCLIError("exactly one of --org or --user is required", "Pass --org <login> or --user <login>", nil)
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client, err := github.NewClient(github.Config{Config: cfg.ClientConfig(newLogger(cfg))})
		if err != nil {
			return MapError(err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
		defer cancel()

		var conn *domain.ProjectConnection
		if projectsOrg != "" {
			conn, err = client.OrganizationProjects(ctx, projectsOrg, projectsLimit, "")
		} else {
			conn, err = client.UserProjects(ctx, projectsUser, projectsLimit, "")
		}
		if err != nil {
			return MapError(err)
		}

		if len(conn.Nodes) == 0 {
			fmt.Println("No projects found.")
			return nil
		}
		for _, p := range conn.Nodes {
			status := ""
			if p.Closed {
				status = closedStyle.Render(" [closed]")
			}
			fmt.Printf("#%-4d %s%s\n", p.Number, titleStyle.Render(p.Title), status)
			fmt.Printf("      %s\n", dimStyle.Render(p.URL))
		}
		if conn.PageInfo.HasNextPage {
			fmt.Printf("\n%s\n", dimStyle.Render("More projects available; raise --limit to see them."))
		}
		return nil
	},
}

func init() {
	projectsListCmd.Flags().StringVar(&projectsOrg, "org", "", "Organization login")
	projectsListCmd.Flags().StringVar(&projectsUser, "user", "", "User login")
	projectsListCmd.Flags().IntVar(&projectsLimit, "limit", 20, "Number of projects to list (max 100)")
	projectsCmd.AddCommand(projectsListCmd)
	RootCmd.AddCommand(projectsCmd)
}
