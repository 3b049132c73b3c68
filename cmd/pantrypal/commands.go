package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/pantrypal/internal/domain"
)

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rt, err := setup(ctx, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	out := cmd.OutOrStdout()
	owner := rt.cfg.OwnerID

	r, err := rt.engine.FindRecipe(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	v, err := rt.engine.CheckRecipeFeasibility(ctx, owner, r.ID)
	if err != nil {
		return err
	}
	fmt.Fprint(out, formatVerdict(r, v))
	if v.CanCook || !addMissing {
		return nil
	}

	resp, err := rt.engine.ResolveShortfall(ctx, owner, r.ID, nil)
	fmt.Fprintln(out, resp.Message)
	return err
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rt, err := setup(ctx, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	open, done, err := rt.engine.ListItems(ctx, rt.cfg.OwnerID)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatList(open, done))
	return nil
}

func runRecipes(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rt, err := setup(ctx, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	recipes, err := rt.engine.ListRecipes(ctx)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatRecipes(recipes))
	return nil
}

func runPantry(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rt, err := setup(ctx, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	entries, err := rt.engine.Pantry(ctx, rt.cfg.OwnerID)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatPantry(entries))
	return nil
}

func runPantryAdd(cmd *cobra.Command, args []string) error {
	entry, err := parsePantryArgs(args, unitAmount)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	rt, err := setup(ctx, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.engine.StockPantry(ctx, rt.cfg.OwnerID, entry); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Stocked %s.\n", formatPantryEntry(entry))
	return nil
}

// parsePantryArgs reads <name> <qty> [unit].
func parsePantryArgs(args []string, perUnit float64) (domain.PantryEntry, error) {
	if len(args) < 2 {
		return domain.PantryEntry{}, fmt.Errorf("need a name and a quantity")
	}
	qty, err := strconv.ParseFloat(args[1], 64)
	if err != nil || qty <= 0 {
		return domain.PantryEntry{}, fmt.Errorf("quantity %q must be a positive number", args[1])
	}
	if perUnit <= 0 {
		return domain.PantryEntry{}, fmt.Errorf("unit amount must be positive")
	}
	entry := domain.PantryEntry{
		Name:       strings.TrimSpace(args[0]),
		Quantity:   qty,
		UnitAmount: perUnit,
	}
	if entry.Name == "" {
		return domain.PantryEntry{}, fmt.Errorf("name is required")
	}
	if len(args) > 2 {
		entry.Unit = strings.TrimSpace(args[2])
	}
	return entry, nil
}
