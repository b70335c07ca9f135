package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/recarr/api"
)

var (
	editList      string
	editName      string
	editEnabled   bool
	editDisabled  bool
	editItemLimit int
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit a list's settings",
	Long:  `Apply a partial update to a list's settings. Only the flags you pass change.`,
	RunE:  runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().StringVarP(&editList, "list", "l", "", "list to edit (default from config)")
	editCmd.Flags().StringVar(&editName, "name", "", "rename the list")
	editCmd.Flags().BoolVar(&editEnabled, "enable", false, "enable syncing for the list")
	editCmd.Flags().BoolVar(&editDisabled, "disable", false, "disable syncing for the list")
	editCmd.Flags().IntVar(&editItemLimit, "item-limit", 0, "maximum number of items to keep")
}

func runEdit(cmd *cobra.Command, args []string) error {
	if editEnabled && editDisabled {
		return fmt.Errorf("--enable and --disable are mutually exclusive")
	}

	listID := editList
	if listID == "" {
		listID = cfg.Dashboard.DefaultList
	}

	var patch api.ListPatch
	if editName != "" {
		patch.Name = &editName
	}
	if editEnabled || editDisabled {
		enabled := editEnabled
		patch.Enabled = &enabled
	}
	if cmd.Flags().Changed("item-limit") {
		patch.ItemLimit = &editItemLimit
	}

	if patch == (api.ListPatch{}) {
		return fmt.Errorf("nothing to change, pass at least one of --name, --enable, --disable, --item-limit")
	}

	if err := apiClient.UpdateList(context.Background(), listID, patch); err != nil {
		return err
	}

	fmt.Printf("✓ Updated list '%s'\n", listID)
	return nil
}
