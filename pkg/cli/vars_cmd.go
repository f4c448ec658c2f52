package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/getsubst/subst/pkg/vars"
)

var varsFile string

var varsCmd = &cobra.Command{
	Use:   "vars",
	Short: "Manage global variables stored in a globals file",
}

var varsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all global variables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openVars()
		if err != nil {
			return err
		}
		if jsonOutput {
			data, _ := json.MarshalIndent(store.Snapshot(), "", "  ")
			fmt.Println(string(data))
			return nil
		}
		for _, key := range store.Keys() {
			fmt.Printf("%s=%v\n", key, store.Get(key))
		}
		return nil
	},
}

var varsGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print the value of one global variable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openVars()
		if err != nil {
			return err
		}
		value, ok := store.Lookup(args[0])
		if !ok {
			return fmt.Errorf("no such variable %q", args[0])
		}
		if jsonOutput {
			data, _ := json.Marshal(map[string]any{"key": args[0], "value": value})
			fmt.Println(string(data))
			return nil
		}
		fmt.Printf("%v\n", value)
		return nil
	},
}

var varsSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a global variable and save the globals file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		// A missing globals file is created on first set.
		store := vars.New()
		if err := store.LoadFile(varsFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		store.Set(args[0], args[1])
		return store.WriteFile(varsFile)
	},
}

var varsDeleteCmd = &cobra.Command{
	Use:   "delete KEY",
	Short: "Delete a global variable and save the globals file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openVars()
		if err != nil {
			return err
		}
		if !store.Exists(args[0]) {
			return fmt.Errorf("no such variable %q", args[0])
		}
		store.Delete(args[0])
		return store.WriteFile(varsFile)
	},
}

// openVars loads the globals file, tolerating a missing file for set.
func openVars() (*vars.Store, error) {
	store := vars.New()
	if err := store.LoadFile(varsFile); err != nil {
		return nil, err
	}
	return store, nil
}

func init() {
	varsCmd.PersistentFlags().StringVar(&varsFile, "file", "globals.yaml", "Globals file to operate on")
	varsCmd.AddCommand(varsListCmd, varsGetCmd, varsSetCmd, varsDeleteCmd)
	rootCmd.AddCommand(varsCmd)
}
