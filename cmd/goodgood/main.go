package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"goodgood/internal/app"
	"goodgood/internal/config"
)

var version = "dev"

var (
	flagConfig  string
	flagVerbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "goodgood",
	Short:        "Daily multilingual message generator and server",
	SilenceUsage: true,
}

// configPath returns --config or the default location.
func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return app.GetDefaults(os.Getenv).ConfigPath
}

// runApp reads the config, creates a GGApp for operation and runs fn with
// it. The outcome of fn is recorded on the app before it is closed.
func runApp(operation string, fn func(a *app.GGApp) error) error {
	cfg, err := config.ReadFromFile(configPath())
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewGGApp(cfg, operation, app.Options{Verbose: flagVerbose})
	if err != nil {
		return fmt.Errorf("initializing app: %w", err)
	}

	err = fn(a)
	a.Fail(err)
	if cerr := a.Close(); err == nil {
		err = cerr
	}
	return err
}

// readPassphrase prompts on the terminal without echo. When stdin is not a
// terminal the first line of stdin is used, so scripts can pipe it in.
func readPassphrase(out io.Writer, prompt string) (string, error) {
	if isTerminal() {
		fd := int(os.Stdin.Fd())
		fmt.Fprint(out, prompt)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("reading passphrase: %w", err)
		}
		return string(b), nil
	}
	return readLine(os.Stdin)
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (default $GOODGOOD_CONFIG_PATH or $XDG_CONFIG_HOME/goodgood.toml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log at debug level")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configKeysCmd)

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().Bool("force", false, "Regenerate and overwrite an existing record")
	generateCmd.Flags().String("date", "", "Date to generate (YYYY-MM-DD, default today in UTC)")
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (default from config)")
	serveCmd.Flags().String("metrics-addr", "", "Metrics listen address (default from config; empty disables)")
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().String("date", "", "Date to show (default: latest)")
	showCmd.Flags().String("lang", "en", "Language code")
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(reindexCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to show")
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(archivesCmd)
	rootCmd.AddCommand(restoreCmd)
	restoreCmd.Flags().String("into", "", "Directory to restore into (default: the data directory)")
	rootCmd.AddCommand(versionCmd)
}
