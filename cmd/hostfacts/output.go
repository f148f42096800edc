package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"google.golang.org/protobuf/encoding/protojson"
	"gopkg.in/yaml.v3"

	"github.com/zero-day-ai/facts"
	"github.com/zero-day-ai/facts/plugin"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

func checkFormat(format string) error {
	switch format {
	case formatYAML, formatJSON:
		return nil
	default:
		return fmt.Errorf("unsupported format %q (want %s or %s)", format, formatYAML, formatJSON)
	}
}

func writeCollection(w io.Writer, format string, collection *facts.Collection) error {
	if format == formatJSON {
		out, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(collection.Struct())
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}

	if len(collection.Values) == 0 {
		_, err := fmt.Fprintln(w, "{}")
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(collection); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func writePlugins(w io.Writer, plugins []plugin.Plugin) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, p := range plugins {
		d := plugin.ToDescriptor(p)
		fmt.Fprintf(tw, "%s %s\t%s\n", d.Name, d.Version, d.Description)
		for _, f := range d.Facts {
			confine := "-"
			if len(f.Confines) > 0 {
				confine = strings.Join(f.Confines, ", ")
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", f.Name, confine, f.Description)
		}
	}
	return tw.Flush()
}
