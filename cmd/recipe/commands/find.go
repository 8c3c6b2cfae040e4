package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"recipe-finder/internal/bootstrap"
	"recipe-finder/internal/core/document"
	"recipe-finder/internal/core/image"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/spf13/cobra"
)

// queryEnv 未提供 --query 時讀取的環境變數
const queryEnv = "ingredients"

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Find a recipe for the given ingredients",
	Long: `Run the full pipeline: ingredient extraction, catalog lookup, detail
fetch and LLM rewrite. Exits with status 1 and the failure reason when any
stage fails.`,
	Args: cobra.NoArgs,
	RunE: runFind,
}

func init() {
	rootCmd.AddCommand(findCmd)

	flags := findCmd.Flags()
	flags.String("query", "", "free-form description of your ingredients (default: $ingredients)")
	flags.StringP("output", "o", "", "output file, - for stdout (default output/result.pdf)")
	flags.StringP("format", "f", "", "output format: pdf, json, yaml")
	flags.StringP("provider", "p", "", "LLM provider: openai, anthropic, gemini, openrouter")
	flags.StringP("model", "m", "", "model name")
	flags.Duration("timeout", 5*time.Minute, "overall timeout")

	_ = v.BindPFlag("output.path", flags.Lookup("output"))
	_ = v.BindPFlag("output.format", flags.Lookup("format"))
	_ = v.BindPFlag("llm.provider", flags.Lookup("provider"))
	_ = v.BindPFlag("llm.model", flags.Lookup("model"))
}

// resolveQuery 旗標優先，其次是環境變數
func resolveQuery(flag string) (string, error) {
	query := strings.TrimSpace(flag)
	if query == "" {
		query = strings.TrimSpace(os.Getenv(queryEnv))
	}
	if query == "" {
		return "", fmt.Errorf("no query given: pass --query or set $%s", queryEnv)
	}
	return query, nil
}

func runFind(cmd *cobra.Command, _ []string) error {
	flag, _ := cmd.Flags().GetString("query")
	query, err := resolveQuery(flag)
	if err != nil {
		return err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if v.GetBool("quiet") {
		level = "error"
	}
	if err := common.InitLogger(common.LoggerOptions{Level: level, FileDir: cfg.LogDir, Service: "recipe-cli"}); err != nil {
		return err
	}
	defer common.Sync()

	timeout, _ := cmd.Flags().GetDuration("timeout")
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	finder, err := bootstrap.NewFinder(ctx, cfg)
	if err != nil {
		return err
	}
	defer finder.Close()

	logInfo("Searching for a recipe...")
	result, err := finder.Find(ctx, query)
	if err != nil {
		var fe *recipe.FailedError
		if errors.As(err, &fe) {
			return fmt.Errorf("recipe search failed (%s): %w", fe.Reason, fe.Err)
		}
		return err
	}

	out := newOutput(cfg.Output, document.NewBuilder(image.NewService(cfg.Image)), cmd.OutOrStdout())
	path, err := out.write(ctx, result)
	if err != nil {
		return err
	}
	if path != "" {
		logInfo("Wrote %s", path)
	}
	return nil
}
