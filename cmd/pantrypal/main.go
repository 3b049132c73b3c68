// PantryPal keeps a shopping list by conversation and checks recipes
// against the pantry.
//
// Usage:
//
//	pantrypal [--config file] [--verbose|--quiet] [--owner id]
//	pantrypal check <recipe> [--add]
//	pantrypal list
//	pantrypal recipes
//	pantrypal pantry add <name> <qty> [unit]
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	quiet      bool
	logFile    string
	ownerID    string
	addMissing bool
	unitAmount float64
)

var rootCmd = &cobra.Command{
	Use:   "pantrypal",
	Short: "Conversational shopping list and recipe checker",
	Long: `PantryPal edits your shopping list from plain sentences ("add two
litres of milk", "remove the eggs") and tells you what a recipe still needs
from the store.

Run without arguments to start the interactive chat.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer rt.Close()
		return runChat(cmd.Context(), rt)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <recipe>",
	Short: "Check whether the pantry covers a recipe",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the shopping list",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var recipesCmd = &cobra.Command{
	Use:   "recipes",
	Short: "List available recipes",
	Args:  cobra.NoArgs,
	RunE:  runRecipes,
}

var pantryCmd = &cobra.Command{
	Use:   "pantry",
	Short: "Show the pantry",
	Args:  cobra.NoArgs,
	RunE:  runPantry,
}

var pantryAddCmd = &cobra.Command{
	Use:   "add <name> <qty> [unit]",
	Short: "Record stock in the pantry",
	Long: `Records <qty> packages of <name>. Use --unit-amount for the size of one
package, e.g. "pantrypal pantry add flour 2 g --unit-amount 500".`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runPantryAdd,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default pantrypal.yaml if present)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVarP(&quiet, "quiet", "q", false, "disable all logging")
	pf.StringVar(&logFile, "log-file", "", `file to write logs to ("stderr" for console)`)
	pf.StringVar(&ownerID, "owner", "", "owner id for the list and pantry")

	checkCmd.Flags().BoolVar(&addMissing, "add", false, "add anything missing to the shopping list")
	pantryAddCmd.Flags().Float64Var(&unitAmount, "unit-amount", 1, "amount in one package")

	pantryCmd.AddCommand(pantryAddCmd)
	rootCmd.AddCommand(checkCmd, listCmd, recipesCmd, pantryCmd)
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
