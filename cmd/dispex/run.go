package main

import (
	"context"
	"fmt"

	"github.com/chazu/dispex/classes"
	"github.com/chazu/dispex/host"
	"github.com/chazu/dispex/manifest"
	"github.com/chazu/dispex/snapshot"
	"github.com/chazu/dispex/store"
	"github.com/chazu/dispex/vm"
)

type runOptions struct {
	root  string
	save  string
	load  string
	quiet bool
}

// run sets up the manifest's objects, runs its steps and reports each
// result. It returns the number of failed steps.
func run(ctx context.Context, m *manifest.Manifest, opts runOptions) (int, error) {
	worker := host.NewWorker(vm.NewContext(m.Options(), classes.NewRegistry()))
	defer worker.Stop()

	runner := host.NewRunner(worker)
	defer runner.Close(context.Background())

	var db *store.Store
	if opts.save != "" || opts.load != "" {
		var err error
		if db, err = store.Open(m.StorePath()); err != nil {
			return 0, err
		}
		defer db.Close()
	}

	if opts.load != "" && opts.root == "" {
		return 0, fmt.Errorf("-load needs -root to name the restored object")
	}

	if err := runner.Setup(ctx, m.Objects); err != nil {
		return 0, err
	}
	// A restored root replaces a declared object of the same name.
	if opts.load != "" {
		if err := loadSnapshot(ctx, worker, runner, db, opts.load, opts.root); err != nil {
			return 0, err
		}
	}
	results, err := runner.Run(ctx, m.Steps)
	if err != nil {
		return 0, err
	}

	failed := host.Failed(results)
	for _, res := range results {
		if !opts.quiet || !res.Passed {
			fmt.Println(res)
		}
	}
	fmt.Printf("%d steps, %d failed\n", len(results), len(failed))

	if opts.save != "" {
		if err := saveSnapshot(ctx, worker, runner, db, opts.save, opts.root); err != nil {
			return len(failed), err
		}
	}
	return len(failed), nil
}

func loadSnapshot(ctx context.Context, w *host.Worker, r *host.Runner, db *store.Store, name, as string) error {
	g, err := db.Load(name)
	if err != nil {
		return err
	}
	_, err = w.Do(ctx, func(c *vm.Context) (any, error) {
		obj, err := snapshot.Restore(c, g)
		if err != nil {
			return nil, err
		}
		r.Bind(as, obj)
		obj.Release()
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("restoring %s: %w", name, err)
	}
	fmt.Printf("Restored %s as %s (%d objects)\n", name, as, len(g.Objects))
	return nil
}

func saveSnapshot(ctx context.Context, w *host.Worker, r *host.Runner, db *store.Store, name, root string) error {
	out, err := w.Do(ctx, func(*vm.Context) (any, error) {
		obj, ok := r.Object(root)
		if !ok {
			return nil, fmt.Errorf("%w: %s", host.ErrUnknownObject, root)
		}
		return snapshot.Capture(obj)
	})
	if err != nil {
		return fmt.Errorf("capturing %s: %w", root, err)
	}
	g := out.(*snapshot.Graph)
	if err := db.Save(name, g); err != nil {
		return err
	}
	fmt.Printf("Saved %s as %s (%d objects)\n", root, name, len(g.Objects))
	return nil
}

func listSnapshots(path string) error {
	db, err := store.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := db.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No snapshots")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%-20s %-44s %4d objects  %s\n", e.Name, e.Root, e.Objects, e.SavedAt.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}
