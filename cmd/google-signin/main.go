package main

import (
	"context"
	"os"
	"runtime/debug"
	"time"

	"github.com/pterm/pterm"

	"github.com/brizzai/google-signin/internal/auth/providers"
	"github.com/brizzai/google-signin/internal/config"
	"github.com/brizzai/google-signin/internal/logger"
	"github.com/brizzai/google-signin/internal/signin"
	"github.com/brizzai/google-signin/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func main() {
	Execute()
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "google-signin",
	Short: "Sign in with a Google account from the terminal",
	Long: `google-signin shows a sign-in screen, delegates authentication to Google
through the system browser and displays the profile of the signed-in account.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	// Place version check in PreRun to ensure flags are parsed first
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		versionFlag, _ := cmd.Flags().GetBool("version")
		if versionFlag {
			pterm.Info.Println(config.GetVersionInfo())
			os.Exit(0)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func init() {
	config.InitFlags(rootCmd.Flags())
	rootCmd.PersistentFlags().BoolP("version", "v", false, "Show version information")
}

// runTUI builds the application graph and runs the sign-in screen
func runTUI(cmd *cobra.Command, args []string) error {
	defer func() {
		if r := recover(); r != nil {
			pterm.Error.Printf("\nCaught panic: %v\n", r)
			pterm.Error.Printf("%s\n", debug.Stack())
			os.Exit(2)
		}
	}()

	var (
		model tui.AppModel
		cfg   *config.Config
	)
	app := fx.New(
		config.Flags(cmd.Flags()),
		config.Module,
		logger.Module,
		providers.Module,
		signin.Module,
		tui.Module,
		fx.Populate(&model, &cfg),
		fx.NopLogger,
	)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = app.Stop(stopCtx)
	}()

	p := tea.NewProgram(model, tea.WithAltScreen())
	m, err := p.Run()
	if err != nil {
		pterm.Error.Printf("Error running program: %v\n", err)
		return err
	}

	finalModel, ok := m.(tui.AppModel)
	if !ok {
		return nil
	}
	return printReport(os.Stdout, cfg.Output, finalModel.Snapshot())
}
