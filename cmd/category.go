package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var flagCategoryTasks bool

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"cat"},
	Short:   "Add, rename, clear, delete or reorder categories",
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <label>",
	Short: "Add an empty category",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		label := strings.Join(args, " ")
		id, err := svc.AddCategory(label, flagCategoryTasks)
		if err != nil {
			return err
		}
		done("Added category %s (%s)", label, id)
		return nil
	},
}

var categoryRenameCmd = &cobra.Command{
	Use:   "rename <category> <new label>",
	Short: "Rename a category",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		id, err := svc.CategoryID(args[0])
		if err != nil {
			return err
		}
		label := strings.Join(args[1:], " ")
		if err := svc.RenameCategory(id, label); err != nil {
			return err
		}
		done("Renamed %s to %s", args[0], label)
		return nil
	},
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete <category>",
	Short: "Delete a category, refunding its items to the surplus",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		id, err := svc.CategoryID(args[0])
		if err != nil {
			return err
		}
		ok, err := confirm(fmt.Sprintf("Delete category %s?", args[0]), "Item balances return to the surplus.")
		if err != nil || !ok {
			return err
		}
		if err := svc.DeleteCategory(id); err != nil {
			return err
		}
		done("Deleted category %s", args[0])
		return nil
	},
}

var categoryClearCmd = &cobra.Command{
	Use:   "clear <category>",
	Short: "Remove every item in a category, refunding balances to the surplus",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		id, err := svc.CategoryID(args[0])
		if err != nil {
			return err
		}
		if err := svc.ClearCategory(id); err != nil {
			return err
		}
		done("Cleared category %s", args[0])
		return nil
	},
}

var categoryMoveCmd = &cobra.Command{
	Use:   "move <category> <position>",
	Short: "Move a category to a 1-based position",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		id, err := svc.CategoryID(args[0])
		if err != nil {
			return err
		}
		to, err := parsePosition(args[1])
		if err != nil {
			return err
		}
		st := svc.State()
		_, from, _ := st.Category(id)
		if err := svc.MoveCategory(from, to); err != nil {
			return err
		}
		done("Moved %s to position %d", args[0], to+1)
		return nil
	},
}

func init() {
	categoryAddCmd.Flags().BoolVar(&flagCategoryTasks, "tasks", false, "Items are one-off tasks closed with `fincmd complete`")
	categoryCmd.AddCommand(categoryAddCmd, categoryRenameCmd, categoryDeleteCmd, categoryClearCmd, categoryMoveCmd)
	rootCmd.AddCommand(categoryCmd)
}
