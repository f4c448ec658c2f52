// Package cli provides the command-line interface for subst.
//
// Commands:
//   - render: substitute placeholders throughout a JSON/YAML/XML document
//   - eval: substitute placeholders in a single string, optionally typed
//   - vars: list, get, set, and delete variables in a globals file
//   - serve: run the substitution REST API
//   - version: show version information
//
// Scope files given with repeated --scope flags are consulted in
// command-line order; the first scope holding a key wins. The global
// scope is assembled from --globals (a YAML or JSON file) plus --global
// key=value assignments, and is consulted after all scope files miss.
//
// Usage:
//
//	subst render deployment.yaml --scope staging.yaml --global region=eu-west-1
//	subst eval '%replicas%' --shape int --scope staging.yaml
//	subst vars set region eu-west-1 --file globals.yaml
//	subst serve --port 4680 --globals globals.yaml
package cli
