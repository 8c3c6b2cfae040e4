// Package commands 實作 recipe 命令列工具
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// v CLI 旗標與設定共用的 viper 實例
var v = viper.New()

var rootCmd = &cobra.Command{
	Use:   "recipe",
	Short: "Find and enrich a recipe from the ingredients you have",
	Long: `recipe turns a free-form description of your ingredients into a
complete recipe: it extracts the ingredients with an LLM, finds the best
match in the Spoonacular catalog, rewrites it into friendly step-by-step
guidance and renders the result as PDF, JSON or YAML.

Examples:
  # Render output/result.pdf
  recipe find --query "I have pasta, garlic and some parmesan"

  # Print JSON to stdout
  recipe find --query "rice, eggs, spring onions" -f json -o -

  # Read the query from the environment
  ingredients="chicken, lemon" recipe find`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only log errors")

	_ = v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

// Execute 執行根命令
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		logError("%v", err)
	}
	return err
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

func logInfo(format string, args ...any) {
	if !v.GetBool("quiet") {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
