package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/pretty"

	stagehand "github.com/browserbase/stagehand-go"
	"github.com/browserbase/stagehand-go/i18n"
	"github.com/browserbase/stagehand-go/schemafile"
	"github.com/browserbase/stagehand-go/wire"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "check":
		checkCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "stagehand-schema\n\nUsage:\n  stagehand-schema check -schema file.yaml [-root Name] [-strict] [-lang en|ja] [-in doc.json]\n\nNotes:\n  - Reads the document from stdin when -in is omitted.\n  - Prints the normalized document on success and one issue per line otherwise.")
}

func checkCmd(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	var schemaPath, root, in, lang string
	var strict bool
	fs.StringVar(&schemaPath, "schema", "", "descriptor file (.yaml, .yml or .json)")
	fs.StringVar(&root, "root", "", "$defs entry to check against")
	fs.BoolVar(&strict, "strict", false, "fail on unsupported keywords")
	fs.StringVar(&lang, "lang", "en", "message language")
	fs.StringVar(&in, "in", "", "document to check (default stdin)")
	_ = fs.Parse(args)
	if schemaPath == "" {
		fs.Usage()
		os.Exit(2)
	}
	i18n.SetLanguage(lang)

	c, diag, err := loadSchema(schemaPath, schemafile.Options{Root: root, StrictKeywords: strict})
	if err != nil {
		fatalf("load schema: %v", err)
	}
	for _, w := range diag.Warnings() {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}

	doc, err := readInput(in)
	if err != nil {
		fatalf("read input: %v", err)
	}
	ctx := context.Background()
	v, err := stagehand.CoerceJSON(ctx, c, doc, wire.DecodeOpt{StrictKeys: true})
	if err != nil {
		var iss stagehand.Issues
		if !errors.As(err, &iss) {
			fatalf("check: %v", err)
		}
		for _, it := range iss {
			path := it.Path
			if path == "" {
				path = "<root>"
			}
			fmt.Printf("%s\t%s\t%s\n", path, it.Code, it.Message)
		}
		os.Exit(1)
	}
	out, _, err := stagehand.DumpJSON(ctx, c, v)
	if err != nil {
		fatalf("dump: %v", err)
	}
	os.Stdout.Write(pretty.Pretty(out))
}

func loadSchema(path string, opts schemafile.Options) (stagehand.Converter[wire.Value], schemafile.Diag, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return schemafile.ImportJSON(data, opts)
	}
	return schemafile.ImportYAML(data, opts)
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
