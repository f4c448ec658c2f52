package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getsubst/subst/pkg/document"
	"github.com/getsubst/subst/pkg/subst"
)

var (
	renderFormat       string
	renderOutFormat    string
	renderOut          string
	renderScopes       []string
	renderGlobalsFile  string
	renderGlobals      []string
	renderDefault      string
	renderScopeType    string
	renderRecurse      bool
	renderIncludeNulls bool
)

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Substitute placeholders throughout a JSON, YAML, or XML document",
	Long: `Render reads a document (or list of documents), resolves every %key%
placeholder in its string values, and writes the substituted document.

Scope files are consulted in the order given; the globals file and
--global assignments form the global scope. With no scopes the document
resolves against its own top-level keys:

  subst render config.yaml --scope env.yaml --global region=eu-west-1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		format, err := detectFormat(path, renderFormat)
		if err != nil {
			return err
		}
		data, err := readInput(path)
		if err != nil {
			return err
		}
		template, err := parseTemplate(data, format)
		if err != nil {
			return err
		}

		scopes, err := loadScopes(renderScopes)
		if err != nil {
			return err
		}
		globals, err := buildGlobals(renderGlobalsFile, renderGlobals)
		if err != nil {
			return err
		}
		sel, err := subst.ParseSelector(renderScopeType)
		if err != nil {
			return err
		}

		var def any
		if cmd.Flags().Changed("default") {
			def = renderDefault
		}

		engine := subst.New(globals)
		var result any
		switch t := template.(type) {
		case *document.Document:
			result, err = engine.SubstituteDocument(t, def, renderRecurse, renderIncludeNulls, sel, scopes...)
		case []*document.Document:
			result, err = engine.SubstituteDocuments(t, def, renderRecurse, renderIncludeNulls, sel, scopes...)
		default:
			err = fmt.Errorf("unsupported template type %T", template)
		}
		if err != nil {
			return err
		}

		outFormat := format
		if renderOutFormat != "" {
			if outFormat, err = detectFormat("", renderOutFormat); err != nil {
				return err
			}
		}
		return writeRendered(result, outFormat, renderOut)
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "", "Input format (json, yaml, xml); detected from the extension by default")
	renderCmd.Flags().StringVar(&renderOutFormat, "output-format", "", "Output format; defaults to the input format")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Write output to a file instead of stdout")
	renderCmd.Flags().StringArrayVar(&renderScopes, "scope", nil, "Scope file consulted during resolution (repeatable, ordered)")
	renderCmd.Flags().StringVar(&renderGlobalsFile, "globals", "", "Globals file (YAML or JSON) forming the global scope")
	renderCmd.Flags().StringArrayVar(&renderGlobals, "global", nil, "Global variable assignment key=value (repeatable)")
	renderCmd.Flags().StringVar(&renderDefault, "default", "", "Default value for keys that resolve to null")
	renderCmd.Flags().StringVar(&renderScopeType, "scope-type", "all", "Eligible scopes: all, local, or global")
	renderCmd.Flags().BoolVar(&renderRecurse, "recurse", true, "Substitute inside nested documents")
	renderCmd.Flags().BoolVar(&renderIncludeNulls, "include-nulls", false, "Keep keys whose values resolve to null")
	rootCmd.AddCommand(renderCmd)
}
