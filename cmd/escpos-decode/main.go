// cmd/escpos-decode/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"escpos-service/internal/escpos"
	"escpos-service/internal/model"
	"escpos-service/internal/receipt"
	"escpos-service/internal/service"
	"escpos-service/internal/thermal"
)

// samplePath stands in for a file name when -sample is set
const samplePath = "<sample>"

type output struct {
	File     string              `json:"file"`
	Table    string              `json:"table"`
	Summary  escpos.Summary      `json:"summary"`
	Commands []model.CommandView `json:"commands"`
}

func main() {
	tableName := flag.String("table", "escpos", "command table ("+strings.Join(escpos.TableNames(), ", ")+")")
	asJSON := flag.Bool("json", false, "print JSON instead of a trace")
	showText := flag.Bool("text", false, "print the decoded receipt text after the trace")
	sample := flag.Bool("sample", false, "decode a built-in sample receipt instead of a file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] file.bin|file.thermal|-\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	path := flag.Arg(0)
	switch {
	case *sample && flag.NArg() == 0:
		path = samplePath
	case flag.NArg() != 1:
		flag.Usage()
		os.Exit(2)
	}

	if err := run(path, *tableName, *asJSON, *showText, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "escpos-decode: %v\n", err)
		os.Exit(1)
	}
}

func run(path, tableName string, asJSON, showText bool, w io.Writer) error {
	table, err := escpos.LookupTable(tableName)
	if err != nil {
		return err
	}

	data, err := readInput(path)
	if err != nil {
		return err
	}

	commands := escpos.Parse(table, data)
	events, summary := escpos.NewInterpreter(nil).Run(commands)
	views := service.CommandViews(commands, events)

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(&output{File: path, Table: table.Name(), Summary: summary, Commands: views})
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OFFSET\tCOMMAND\tPREFIX\tPAYLOAD\tDESCRIPTION")
	for _, v := range views {
		name := v.Name
		if v.Nested != "" {
			name += "/" + v.Nested
		}
		fmt.Fprintf(tw, "%06x\t%s\t%s\t%s\t%s\n", v.Offset, name, v.Prefix, abbreviate(v.Payload, 47), v.Description)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d bytes, %d commands, %d unknown, %.2f mm paper\n",
		summary.Bytes, summary.Commands, summary.Unknown,
		service.PaperLengthMM(summary.PaperDots, summary.DPI).InexactFloat64())

	if showText {
		fmt.Fprintln(w)
		fmt.Fprint(w, summary.Text)
	}
	return nil
}

// readInput loads raw bytes, compiling .thermal sources first. "-" reads
// raw bytes from stdin
func readInput(path string) ([]byte, error) {
	if path == samplePath {
		return receipt.Sample(), nil
	}
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	if strings.EqualFold(filepath.Ext(path), ".thermal") {
		return thermal.LoadFile(path)
	}
	return os.ReadFile(path)
}

func abbreviate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
