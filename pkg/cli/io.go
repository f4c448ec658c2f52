package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/getsubst/subst/pkg/document"
	"github.com/getsubst/subst/pkg/vars"
)

// Document formats understood by render and the scope loaders.
const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatXML  = "xml"
)

// detectFormat resolves the document format from an explicit override
// or the file extension. Reading from stdin requires the override.
func detectFormat(path, override string) (string, error) {
	if override != "" {
		switch strings.ToLower(override) {
		case formatJSON, formatYAML, formatXML:
			return strings.ToLower(override), nil
		case "yml":
			return formatYAML, nil
		default:
			return "", fmt.Errorf("unknown format %q (want json, yaml, or xml)", override)
		}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".xml":
		return formatXML, nil
	default:
		return "", fmt.Errorf("cannot detect format of %q, use --format", path)
	}
}

// readInput reads a file, or stdin when path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// parseTemplate decodes template data into a document or document list.
func parseTemplate(data []byte, format string) (any, error) {
	switch format {
	case formatJSON:
		if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
			return document.DecodeJSONList(bytes.NewReader(trimmed))
		}
		return document.ParseJSON(data)
	case formatYAML:
		doc, err := document.ParseYAML(data)
		if err == nil {
			return doc, nil
		}
		if docs, listErr := document.ParseYAMLList(data); listErr == nil {
			return docs, nil
		}
		return nil, err
	case formatXML:
		return document.ParseXML(data)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// loadScope reads one scope document, format detected by extension.
func loadScope(path string) (*document.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scope: %w", err)
	}
	format, err := detectFormat(path, "")
	if err != nil {
		return nil, err
	}
	switch format {
	case formatYAML:
		return document.ParseYAML(data)
	case formatXML:
		return document.ParseXML(data)
	default:
		return document.ParseJSON(data)
	}
}

// loadScopes reads scope files in the order given on the command line;
// that order is the resolution order.
func loadScopes(paths []string) ([]*document.Document, error) {
	scopes := make([]*document.Document, 0, len(paths))
	for _, path := range paths {
		scope, err := loadScope(path)
		if err != nil {
			return nil, err
		}
		scopes = append(scopes, scope)
	}
	return scopes, nil
}

// buildGlobals assembles the global scope from an optional globals file
// and inline key=value assignments. Assignments win over the file.
func buildGlobals(file string, pairs []string) (*vars.Store, error) {
	store := vars.New()
	if file != "" {
		if err := store.LoadFile(file); err != nil {
			return nil, err
		}
	}
	for _, pair := range pairs {
		if err := store.SetPair(pair); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// writeRendered encodes result (a document or document list) in the
// requested format, to outPath or stdout when outPath is empty.
func writeRendered(result any, format, outPath string) error {
	var data []byte
	var err error

	switch format {
	case formatYAML:
		switch t := result.(type) {
		case *document.Document:
			data, err = document.EncodeYAML(t)
		case []*document.Document:
			data, err = document.EncodeYAMLList(t)
		default:
			err = fmt.Errorf("cannot encode %T as yaml", result)
		}
	case formatXML:
		switch t := result.(type) {
		case *document.Document:
			data, err = document.EncodeXML(t, "document")
		case []*document.Document:
			wrapper := document.New()
			wrapper.Put("document", t)
			data, err = document.EncodeXML(wrapper, "documents")
		default:
			err = fmt.Errorf("cannot encode %T as xml", result)
		}
	default:
		data, err = json.MarshalIndent(result, "", "  ")
	}
	if err != nil {
		return err
	}

	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	if outPath == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(outPath, data, 0o644)
}
