package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/DiversioTeam/gemini-cli-mcp/internal/config"
	"github.com/DiversioTeam/gemini-cli-mcp/internal/gemini"
)

var (
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
	bold   = color.New(color.Bold)
)

// newDoctorCmd checks the Gemini CLI installation, version,
// authentication, and environment, and reports what needs fixing.
func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check Gemini CLI setup and provide guidance",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runDoctor(cfg)
		},
	}
}

func runDoctor(cfg *config.Config) error {
	bold.Println("Gemini MCP Setup Check")
	fmt.Println()

	allGood := true

	yellow.Println("1. Checking Gemini CLI installation...")
	binary, err := exec.LookPath(cfg.GeminiCmd)
	if err != nil {
		red.Printf("✗ Gemini CLI %q not found in PATH\n", cfg.GeminiCmd)
		fmt.Println("   Please install Gemini CLI and ensure it's in your PATH.")
		fmt.Println("   Installation guide: https://github.com/google-gemini/gemini-cli")
		fmt.Println()
		allGood = false
	} else {
		green.Printf("✓ Found at: %s\n\n", binary)

		yellow.Println("2. Checking Gemini CLI version...")
		if version, err := probeVersion(binary); err != nil {
			red.Printf("✗ Version check failed: %v\n\n", err)
		} else {
			green.Printf("✓ Version: %s\n\n", version)
		}

		yellow.Println("3. Checking authentication...")
		switch authErr := probeAuth(binary); {
		case authErr == nil:
			green.Println("✓ Authentication working")
			fmt.Println()
		case gemini.LooksLikeAuthError(authErr.Error()):
			red.Println("✗ Not authenticated")
			fmt.Print("   Run: ")
			cyan.Println("gemini auth login")
			fmt.Println()
			allGood = false
		default:
			red.Printf("✗ %v\n\n", authErr)
			allGood = false
		}
	}

	yellow.Println("4. Checking environment...")
	if dirs := os.Getenv(config.EnvAllowedDirs); dirs != "" {
		green.Printf("✓ Allowed directories: %s\n", dirs)
	} else {
		cyan.Println("i Using current directory for file access (default)")
	}

	fmt.Println()
	bold.Println("Summary:")
	if allGood {
		green.Println("✓ Everything looks good! You're ready to use gemini-mcp.")
		fmt.Print("\nRun the server with: ")
		cyan.Println("gemini-mcp")
	} else {
		red.Println("✗ Some issues need to be resolved.")
		fmt.Println("Please address the issues above and run doctor again.")
	}
	return nil
}

// probeVersion asks the CLI for its version, with a short deadline.
func probeVersion(binary string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, binary, "--version").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// probeAuth sends a trivial prompt to verify credentials work.
func probeAuth(binary string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	res, err := gemini.ExecRunner{}.Run(ctx, gemini.Invocation{
		Binary: binary,
		Args:   []string{"-p", "Hello"},
	})
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("%s", strings.TrimSpace(string(res.Stderr)))
	}
	return nil
}
