// dispex CLI - runs dispatch scenarios from a dispex.toml manifest
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/chazu/dispex/classes"
	"github.com/chazu/dispex/manifest"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

func main() {
	manifestPath := flag.String("f", "", "Manifest file (default: dispex.toml found from the current directory up)")
	verbosity := flag.Int("v", -1, "Log verbosity, overriding the manifest")
	logFile := flag.String("log", "", "Log file, overriding the manifest")
	dbPath := flag.String("db", "", "Snapshot database, overriding the manifest")
	root := flag.String("root", "", "Object to save, or name to bind a loaded snapshot to (default: first declared object)")
	save := flag.String("save", "", "Save the root object graph under this name after the run")
	load := flag.String("load", "", "Restore the snapshot with this name before the run")
	list := flag.Bool("list", false, "List saved snapshots and exit")
	listClasses := flag.Bool("classes", false, "List classes and native functions and exit")
	quiet := flag.Bool("q", false, "Only report failures")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: dispex [options]\n\n")
		fmt.Fprintf(os.Stderr, "Creates the objects declared in dispex.toml and runs its steps.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  dispex                          # Run ./dispex.toml\n")
		fmt.Fprintf(os.Stderr, "  dispex -f scenarios.toml -v 2   # Run with debug logging\n")
		fmt.Fprintf(os.Stderr, "  dispex -save base -root o       # Run, then snapshot object o as 'base'\n")
		fmt.Fprintf(os.Stderr, "  dispex -load base -root o       # Restore 'base' as o, then run\n")
		fmt.Fprintf(os.Stderr, "  dispex -list                    # List snapshots\n")
	}
	flag.Parse()

	if *listClasses {
		printClasses()
		return
	}

	m, err := loadManifest(*manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading manifest: %v\n", err)
		os.Exit(1)
	}
	if *verbosity >= 0 {
		m.Log.Verbosity = *verbosity
	}
	if *logFile != "" {
		m.Log.File = *logFile
	}
	if *dbPath != "" {
		m.Store.Path = *dbPath
	}
	commonlog.Configure(m.Log.Verbosity, m.LogPath())

	if *list {
		if err := listSnapshots(m.StorePath()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	rootName := *root
	if rootName == "" && len(m.Objects) > 0 {
		rootName = m.Objects[0].Name
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := runOptions{
		root:  rootName,
		save:  *save,
		load:  *load,
		quiet: *quiet,
	}
	failed, err := run(ctx, m, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func loadManifest(path string) (*manifest.Manifest, error) {
	if path != "" {
		return manifest.LoadFile(path)
	}
	m, err := manifest.FindAndLoad(".")
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("no %s found", manifest.FileName)
	}
	return m, nil
}

func printClasses() {
	reg := classes.NewRegistry()
	fmt.Println("Classes:")
	for _, name := range reg.Names() {
		c := reg.Lookup(name)
		members := c.Builtins.Names()
		if c.Value != nil {
			members = append([]string{"(default " + c.Value.Name + ")"}, members...)
		}
		fmt.Printf("  %-10s %s\n", name, strings.Join(members, " "))
	}
	fmt.Println("Natives:")
	for _, name := range classes.NativeNames() {
		fmt.Printf("  %s\n", name)
	}
}
