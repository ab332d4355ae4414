// Command ignorefile runs go vet style rules over Go packages and filters
// the findings through an ignore file and //ignorefile:ignore comments.
//
// Exit codes: 0 when nothing is reported, 1 on errors, 3 when findings
// remain after suppression.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mpyw/ignorefile/internal/config"
)

const (
	exitError    = 1
	exitFindings = 3
)

// errFindings signals that findings were reported.
var errFindings = errors.New("findings reported")

var rootCmd = &cobra.Command{
	Use:   "ignorefile",
	Short: "Run vet rules with an ignore file",
	Long: "ignorefile runs go vet analyzers over Go packages and suppresses findings listed in an ignore file " +
		"or marked with //ignorefile:ignore comments. Stale ignore entries can be commented out automatically.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	flagConfig    string
	flagIgnore    string
	flagTempDir   string
	flagLogLevel  string
	flagLogFormat string
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagConfig, "config", "c", "", "Path to the YAML config file (default "+config.DefaultFile+" if present)")
	pf.StringVarP(&flagIgnore, "ignore", "i", "", "Path to the ignore file")
	pf.StringVar(&flagTempDir, "temp-dir", "", "Directory for working copies while rewriting ignore files")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn or error")
	pf.StringVar(&flagLogFormat, "log-format", "text", "Log format: text or json")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx)
	stop()

	os.Exit(code)
}

func execute(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errFindings):
		return exitFindings
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}
}
