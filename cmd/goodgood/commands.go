package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"goodgood/internal/app"
	"goodgood/internal/config"
	"goodgood/internal/gg"
)

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults := app.GetDefaults(os.Getenv)
		path := configPath()

		cfg := config.NewConfig(defaults.BaseDir)
		if err := config.Init(path, cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration initialized at %s\n", path)
		fmt.Fprintf(out, "Base Dir: %s\n", defaults.BaseDir)
		if env := config.APIKeyEnv(cfg.Provider.Type); env != "" {
			fmt.Fprintf(out, "Set %s or provider.api_key before running generate.\n", env)
		}
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath()
		cfg, err := config.ReadFromFile(path)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration from %s:\n\n", path)
		printConfig(cmd.OutOrStdout(), cfg)
		return nil
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Create the backup encryption key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		pass, err := readPassphrase(out, "Passphrase: ")
		if err != nil {
			return err
		}
		if isTerminal() {
			confirm, err := readPassphrase(out, "Confirm passphrase: ")
			if err != nil {
				return err
			}
			if confirm != pass {
				return fmt.Errorf("passphrases do not match")
			}
		}
		return runApp("config-keys", func(a *app.GGApp) error {
			if err := a.SetupKeys(pass); err != nil {
				return err
			}
			fmt.Fprintln(out, "Encryption keys created. Keep the passphrase safe: restores need it.")
			return nil
		})
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate, validate and store the daily record",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		date, _ := cmd.Flags().GetString("date")

		return runApp("generate", func(a *app.GGApp) error {
			outcome, err := a.Generate(cmd.Context(), gg.GenerateOptions{Date: date, Force: force})
			if err != nil {
				return err
			}
			printOutcome(cmd.OutOrStdout(), outcome)
			return nil
		})
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web assets and the data tree",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return runApp("serve", func(a *app.GGApp) error {
			return a.Serve(ctx, addr, metricsAddr)
		})
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print a stored message",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, _ := cmd.Flags().GetString("date")
		lang, _ := cmd.Flags().GetString("lang")

		return runApp("show", func(a *app.GGApp) error {
			rec, err := a.Show(date)
			if err != nil {
				return err
			}
			printRecord(cmd.OutOrStdout(), rec, lang)
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the index and latest pointer against the records",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp("status", func(a *app.GGApp) error {
			st, err := a.Status()
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), st)
			return nil
		})
	},
}

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the index and latest pointer from the records",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp("reindex", func(a *app.GGApp) error {
			st, err := a.Reindex()
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), st)
			return nil
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View recent generation runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return runApp("history", func(a *app.GGApp) error {
			runs, err := a.History(limit)
			if err != nil {
				return err
			}
			printRuns(cmd.OutOrStdout(), runs)
			return nil
		})
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Upload an encrypted archive of the data directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp("backup", func(a *app.GGApp) error {
			id, err := a.Backup(cmd.Context())
			if err != nil {
				return fmt.Errorf("backup failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backed up to %s\n", id)
			return nil
		})
	},
}

var archivesCmd = &cobra.Command{
	Use:   "archives",
	Short: "List archives in the vault",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp("archives", func(a *app.GGApp) error {
			ids, err := a.Archives(cmd.Context())
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No archives.")
				return nil
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		})
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore ARCHIVE_ID",
	Short: "Restore the data directory from an archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		into, _ := cmd.Flags().GetString("into")
		out := cmd.OutOrStdout()

		pass, err := readPassphrase(out, "Passphrase: ")
		if err != nil {
			return err
		}
		return runApp("restore", func(a *app.GGApp) error {
			n, err := a.Restore(cmd.Context(), args[0], pass, into)
			if err != nil {
				return fmt.Errorf("restore failed: %w", err)
			}
			fmt.Fprintf(out, "Restored %d file(s) from %s\n", n, args[0])
			return nil
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "goodgood %s\n", version)
	},
}
