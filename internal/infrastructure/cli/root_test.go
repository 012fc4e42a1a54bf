package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/felixgeelhaar/ghprojects/pkg/graphql"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	want := map[string]bool{"mcp": false, "doctor": false, "projects": false}
	for _, cmd := range RootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("expected %s subcommand", name)
		}
	}
}

func TestMCPCommandSkipStart(t *testing.T) {
	t.Setenv("GHPROJECTS_SKIP_MCP_START", "true")

	out := new(bytes.Buffer)
	RootCmd.SetOut(out)
	RootCmd.SetErr(out)
	RootCmd.SetArgs([]string{"mcp"})
	t.Cleanup(func() { RootCmd.SetArgs(nil) })

	if err := RootCmd.Execute(); err != nil {
		t.Fatalf("mcp command failed: %v", err)
	}
}

func TestLoadConfigMissingToken(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")

	_, err := loadConfig()
	var cliErr *CLIError
	if !errors.As(err, &cliErr) {
		t.Fatalf("loadConfig() error = %T, want *CLIError", err)
	}
	if !errors.Is(err, graphql.ErrMissingToken) {
		t.Fatalf("error = %v, want to wrap ErrMissingToken", err)
	}
	if !strings.Contains(cliErr.Hint, "GITHUB_TOKEN") {
		t.Fatalf("hint = %q, want it to mention GITHUB_TOKEN", cliErr.Hint)
	}
}

func TestLoadConfigInvalidTransport(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "tok")
	t.Setenv("MCP_TRANSPORT", "carrier-pigeon")

	if _, err := loadConfig(); err == nil {
		t.Fatal("expected an error for an unsupported transport")
	}
}

func TestProjectsListRequiresExactlyOneOwner(t *testing.T) {
	out := new(bytes.Buffer)
	RootCmd.SetOut(out)
	RootCmd.SetErr(out)
	RootCmd.SetArgs([]string{"projects", "list"})
	t.Cleanup(func() {
		RootCmd.SetArgs(nil)
		projectsOrg, projectsUser = "", ""
	})

	err := RootCmd.Execute()
	var cliErr *CLIError
	if !errors.As(err, &cliErr) {
		t.Fatalf("error = %T (%v), want *CLIError", err, err)
	}
	if !strings.Contains(cliErr.Message, "exactly one") {
		t.Fatalf("message = %q, want the owner-flag rule", cliErr.Message)
	}
}
