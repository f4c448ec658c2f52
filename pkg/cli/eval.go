package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getsubst/subst/pkg/coerce"
	"github.com/getsubst/subst/pkg/subst"
)

var (
	evalShape       string
	evalScopes      []string
	evalGlobalsFile string
	evalGlobals     []string
	evalDefault     string
	evalScopeType   string
)

var evalCmd = &cobra.Command{
	Use:   "eval TEXT",
	Short: "Substitute placeholders in a single string",
	Long: `Eval substitutes %key% placeholders in TEXT. When TEXT is exactly one
placeholder the result can be coerced to a typed value with --shape:

  subst eval '%port%' --shape int --global port=8080
  subst eval 'Hello %name%!' --scope people.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		shape, err := coerce.ParseShape(evalShape)
		if err != nil {
			return err
		}
		scopes, err := loadScopes(evalScopes)
		if err != nil {
			return err
		}
		globals, err := buildGlobals(evalGlobalsFile, evalGlobals)
		if err != nil {
			return err
		}
		sel, err := subst.ParseSelector(evalScopeType)
		if err != nil {
			return err
		}

		var def any
		if cmd.Flags().Changed("default") {
			def = evalDefault
		}

		engine := subst.New(globals)
		result, err := engine.Substitute(args[0], shape, def, sel, scopes...)
		if err != nil {
			return err
		}

		if jsonOutput {
			data, _ := json.Marshal(map[string]any{"result": result})
			fmt.Println(string(data))
			return nil
		}
		if result == nil {
			fmt.Println("null")
			return nil
		}
		fmt.Println(result)
		return nil
	},
}

func init() {
	evalCmd.Flags().StringVar(&evalShape, "shape", "string", "Result shape: string, int, float, or bool")
	evalCmd.Flags().StringArrayVar(&evalScopes, "scope", nil, "Scope file consulted during resolution (repeatable, ordered)")
	evalCmd.Flags().StringVar(&evalGlobalsFile, "globals", "", "Globals file (YAML or JSON) forming the global scope")
	evalCmd.Flags().StringArrayVar(&evalGlobals, "global", nil, "Global variable assignment key=value (repeatable)")
	evalCmd.Flags().StringVar(&evalDefault, "default", "", "Default value for keys that resolve to null")
	evalCmd.Flags().StringVar(&evalScopeType, "scope-type", "all", "Eligible scopes: all, local, or global")
	rootCmd.AddCommand(evalCmd)
}
