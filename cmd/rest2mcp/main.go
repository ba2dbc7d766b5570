package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourorg/rest2mcp/internal/config"
	"github.com/yourorg/rest2mcp/internal/converter"
	"github.com/yourorg/rest2mcp/internal/llm"
	"github.com/yourorg/rest2mcp/internal/store"
	"github.com/yourorg/rest2mcp/pkg/types"
)

const defaultConfigContent = `project:
  name: ""
  version: "1.0.0"
  package: ""

server:
  port: 8080

llm:
  provider: "openai"
  api_key: ""
  base_url: "https://api.openai.com/v1"
  model: "gpt-4o"
  region: "us-east-1"
  max_tokens: 4096
  temperature: 0.2

sanitize:
  headers:
    - Authorization
    - Cookie
    - Set-Cookie
    - X-Api-Key
    - X-Auth-Token
  fields:
    - password
    - secret
    - token
    - api_key
    - access_token
    - refresh_token
    - credential
  replacement: "***REDACTED***"

log:
  level: "info"
`

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:   "rest2mcp",
		Short: "Convert REST endpoints into MCP server projects",
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path")

	root.AddCommand(newInitCmd())
	root.AddCommand(newConvertCmd(&cfgPath))
	root.AddCommand(newListCmd(&cfgPath))
	root.AddCommand(newShowCmd(&cfgPath))
	root.AddCommand(newDeleteCmd(&cfgPath))

	return root
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize ~/.rest2mcp directory and default config",
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}
			baseDir := filepath.Join(home, ".rest2mcp")
			if err := os.MkdirAll(baseDir, 0o755); err != nil {
				return err
			}

			cfgFile := filepath.Join(baseDir, "config.yaml")
			if _, err := os.Stat(cfgFile); errors.Is(err, os.ErrNotExist) {
				if err := os.WriteFile(cfgFile, []byte(defaultConfigContent), 0o644); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "created", cfgFile)
			} else if err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "exists", cfgFile)
			} else {
				return err
			}

			dbPath := filepath.Join(baseDir, "rest2mcp.db")
			s, err := store.NewSQLiteStore(dbPath)
			if err != nil {
				return err
			}
			defer s.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "database ready", dbPath)
			fmt.Fprintln(cmd.OutOrStdout(), "please fill project settings and llm.api_key in", cfgFile)
			return nil
		},
	}
}

func newConvertCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <rest_endpoint> <output_path>",
		Short: "Analyze a REST endpoint and scaffold an MCP server project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := runConvert(cmd.Context(), *cfgPath, args[0], args[1])
			// Both success and error results are printed as JSON on
			// stdout with a normal exit.
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
}

func runConvert(ctx context.Context, cfgPath, endpoint, outputPath string) types.Result {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return types.ErrorResult(err)
	}
	if err := cfg.ValidateConvert(); err != nil {
		return types.ErrorResult(err)
	}

	logger := newLogger(cfg.Log.Level)

	var st store.Store
	if cfg.History.Path != "" {
		_ = os.MkdirAll(filepath.Dir(cfg.History.Path), 0o755)
		if s, err := store.NewSQLiteStore(cfg.History.Path); err == nil {
			st = s
			defer s.Close()
		} else {
			logger.Warn("open history store", "error", err)
		}
	}

	client := llm.New(cfg.LLM, logger)
	return converter.New(cfg, client, st, logger).Convert(ctx, endpoint, outputPath)
}

func newListCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List past conversions",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(*cfgPath)
			if err != nil {
				return err
			}
			defer st.Close()
			convs, err := st.ListConversions()
			if err != nil {
				return err
			}
			for _, c := range convs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", c.ID, c.Status, c.Endpoint, c.OutputPath)
			}
			return nil
		},
	}
}

func newShowCmd(cfgPath *string) *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show one conversion with its stage outputs",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(*cfgPath)
			if err != nil {
				return err
			}
			defer st.Close()
			conv, err := st.GetConversion(id)
			if err != nil {
				return err
			}
			stages, err := st.GetStageOutputs(id)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Conversion *types.Conversion   `json:"conversion"`
				Stages     []types.StageOutput `json:"stages"`
			}{conv, stages})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "conversion id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newDeleteCmd(cfgPath *string) *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a conversion record",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(*cfgPath)
			if err != nil {
				return err
			}
			defer st.Close()
			return st.DeleteConversion(id)
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "conversion id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func openStore(cfgPath string) (store.Store, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if cfg.History.Path == "" {
		return nil, errors.New("history.path is not configured")
	}
	_ = os.MkdirAll(filepath.Dir(cfg.History.Path), 0o755)
	return store.NewSQLiteStore(cfg.History.Path)
}

// newLogger writes to stderr so convert's stdout stays pure JSON.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
