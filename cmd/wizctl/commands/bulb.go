package commands

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/wizlightd/internal/bulb"
)

// NewBulbCommand creates the bulb command group for managing the configured bulb list
func NewBulbCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bulb",
		Short: "Manage the configured bulbs",
	}

	cmd.AddCommand(newBulbListCommand())
	cmd.AddCommand(newBulbAddCommand())
	cmd.AddCommand(newBulbRemoveCommand())
	cmd.AddCommand(newBulbRenameCommand())
	cmd.AddCommand(newBulbIPCommand())
	cmd.AddCommand(newBulbWidgetCommand())

	return cmd
}

// newBulbListCommand creates the bulb list command
func newBulbListCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configured bulbs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			env, err := getEnv(cmd)
			if err != nil {
				return err
			}
			bulbs := env.Store.List()

			switch output {
			case outputYAML:
				return printYAML(bulbDocs(bulbs))
			case outputParseable:
				for _, b := range bulbs {
					fmt.Println(BulbParseable(b))
				}
				return nil
			}

			if len(bulbs) == 0 {
				pterm.Info.Println("No bulbs configured")
				return nil
			}
			return pterm.DefaultTable.WithHasHeader().WithData(BulbTableData(bulbs)).Render()
		},
	}
	addOutputFlag(cmd, &output)
	return cmd
}

// newBulbAddCommand creates the bulb add command
func newBulbAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> [ip]",
		Short: "Add a bulb",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := getEnv(cmd)
			if err != nil {
				return err
			}
			ip := ""
			if len(args) == 2 {
				ip = args[1]
			}
			b, err := env.Store.Add(args[0], ip)
			if err != nil {
				return err
			}
			if err := env.Store.Save(); err != nil {
				return err
			}
			pterm.Success.Printf("Added bulb %s (%s)\n", b.Name, b.ID)
			return nil
		},
	}
}

// newBulbRemoveCommand creates the bulb remove command
func newBulbRemoveCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "remove <bulb>",
		Aliases: []string{"rm", "delete"},
		Short:   "Remove a bulb",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := getEnv(cmd)
			if err != nil {
				return err
			}
			b, err := env.Store.Find(args[0])
			if err != nil {
				return err
			}
			if !yes {
				confirmed, _ := pterm.DefaultInteractiveConfirm.Show(fmt.Sprintf("Remove bulb %s?", b.Name))
				if !confirmed {
					pterm.Info.Println("Cancelled")
					return nil
				}
			}
			if err := env.Store.Delete(b.ID); err != nil {
				return err
			}
			if err := env.Store.Save(); err != nil {
				return err
			}
			pterm.Success.Printf("Removed bulb %s\n", b.Name)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// newBulbRenameCommand creates the bulb rename command
func newBulbRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <bulb> <name>",
		Short: "Rename a bulb",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[1]
			return updateBulb(cmd, args[0], bulb.Update{Name: &name}, "renamed")
		},
	}
}

// newBulbIPCommand creates the bulb ip command
func newBulbIPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ip <bulb> <ip>",
		Short: "Set a bulb's IP address; use \"\" to clear it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ip := args[1]
			return updateBulb(cmd, args[0], bulb.Update{IP: &ip}, "updated")
		},
	}
}

// newBulbWidgetCommand creates the bulb widget command
func newBulbWidgetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "widget <bulb> <on|off>",
		Short: "Show or hide a bulb in the status widget",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var show bool
			switch strings.ToLower(args[1]) {
			case "on", "true", "yes", "show":
				show = true
			case "off", "false", "no", "hide":
				show = false
			default:
				return fmt.Errorf("invalid widget value %q: must be on or off", args[1])
			}
			return updateBulb(cmd, args[0], bulb.Update{ShowInWidget: &show}, "updated")
		},
	}
}

func updateBulb(cmd *cobra.Command, ref string, u bulb.Update, verb string) error {
	env, err := getEnv(cmd)
	if err != nil {
		return err
	}
	b, err := env.Store.Find(ref)
	if err != nil {
		return err
	}
	updated, err := env.Store.Update(b.ID, u)
	if err != nil {
		return err
	}
	if err := env.Store.Save(); err != nil {
		return err
	}
	pterm.Success.Printf("Bulb %s %s\n", updated.Name, verb)
	return nil
}
