// dispexgen generates the built-in descriptor set of a class state type.
//
//	//go:generate go run ../cmd/dispexgen -type Counter -o counter_builtins.go
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/dispex/classgen"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

func main() {
	typeName := flag.String("type", "", "State type to generate built-ins for (required)")
	output := flag.String("o", "", "Output file (default <type>_builtins.go)")
	dir := flag.String("dir", ".", "Package directory")
	verbose := flag.Bool("v", false, "Verbose output")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: dispexgen -type T [-o file] [-dir pkg]\n\n")
		fmt.Fprintf(os.Stderr, "Generates a vm.BuiltinSet binding T's methods and Get/Set accessors.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *typeName == "" {
		flag.Usage()
		os.Exit(2)
	}
	verbosity := 0
	if *verbose {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)

	model, err := classgen.Introspect(*dir, *typeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	src, err := classgen.Generate(model)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	path := *output
	if path == "" {
		path = strings.ToLower(*typeName) + "_builtins.go"
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(*dir, path)
	}
	if err := os.WriteFile(path, src, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *verbose {
		fmt.Printf("Wrote %d built-ins for %s to %s\n", len(model.Members), *typeName, path)
	}
}
