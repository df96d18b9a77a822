package host

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chazu/dispex/classes"
	"github.com/chazu/dispex/manifest"
	"github.com/chazu/dispex/vm"
)

// ErrUnknownObject is returned when a step names an object that is not bound.
var ErrUnknownObject = errors.New("unknown object")

// StepResult is the outcome of one scenario step.
type StepResult struct {
	Step   manifest.Step
	Value  vm.Value // borrowed; valid while the runner is open
	Err    error
	Passed bool
	Detail string
}

func (r StepResult) String() string {
	status := "ok"
	if !r.Passed {
		status = "FAIL"
	}
	if r.Detail != "" {
		return fmt.Sprintf("%-4s %s: %s", status, r.Step, r.Detail)
	}
	return fmt.Sprintf("%-4s %s", status, r.Step)
}

// Runner executes manifest scenarios against a worker's context. Objects
// are bound by name in a session of their own.
type Runner struct {
	worker   *Worker
	handles  *HandleStore
	sessions *SessionStore
	session  *Session
}

// NewRunner creates a runner with a fresh session.
func NewRunner(w *Worker) *Runner {
	handles := NewHandleStore()
	sessions := NewSessionStore(handles)
	return &Runner{
		worker:   w,
		handles:  handles,
		sessions: sessions,
		session:  sessions.Create("scenario"),
	}
}

// Handles returns the runner's handle store.
func (r *Runner) Handles() *HandleStore { return r.handles }

// Setup creates the declared objects in order and binds them by name.
func (r *Runner) Setup(ctx context.Context, decls []manifest.ObjectDecl) error {
	_, err := r.worker.Do(ctx, func(c *vm.Context) (any, error) {
		for _, d := range decls {
			if err := r.create(c, d); err != nil {
				return nil, fmt.Errorf("object %s: %w", d.Name, err)
			}
		}
		return nil, nil
	})
	return err
}

func (r *Runner) create(c *vm.Context, d manifest.ObjectDecl) error {
	var proto *vm.Object
	if d.Prototype != "" {
		var ok bool
		if proto, ok = r.handles.Resolve(r.session.ID, d.Prototype); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownObject, d.Prototype)
		}
	}

	var obj *vm.Object
	var err error
	switch {
	case d.Function != "":
		if proto != nil {
			return fmt.Errorf("%w: function object with prototype %s", vm.ErrUnsupported, d.Prototype)
		}
		fn, ok := classes.Native(d.Function)
		if !ok {
			return fmt.Errorf("%w: native %s", vm.ErrUnknownName, d.Function)
		}
		obj, err = classes.NewFunction(c, d.Function, fn)
	case d.Class != "":
		obj, err = c.NewObjectOf(d.Class, proto)
	default:
		obj, err = c.NewObject(nil, proto)
	}
	if err != nil {
		return err
	}
	defer obj.Release()

	for _, name := range d.PropertyNames() {
		v, err := r.value(d.Props[name])
		if err != nil {
			return fmt.Errorf("property %s: %w", name, err)
		}
		if err := obj.Put(name, v); err != nil {
			return fmt.Errorf("property %s: %w", name, err)
		}
	}
	r.handles.Bind(r.session.ID, d.Name, obj)
	log.Debugf("bound %s to %s", d.Name, obj)
	return nil
}

// Bind binds obj under name. The runner takes its own reference.
func (r *Runner) Bind(name string, obj *vm.Object) {
	r.handles.Bind(r.session.ID, name, obj)
}

// Object returns the object bound to name. It must only be used on the
// worker goroutine.
func (r *Runner) Object(name string) (*vm.Object, bool) {
	return r.handles.Resolve(r.session.ID, name)
}

// Run executes steps in order. Step failures are reported in the results;
// the error is only set when the worker could not run a step.
func (r *Runner) Run(ctx context.Context, steps []manifest.Step) ([]StepResult, error) {
	results := make([]StepResult, 0, len(steps))
	for _, step := range steps {
		out, err := r.worker.Do(ctx, func(c *vm.Context) (any, error) {
			return r.step(c, step), nil
		})
		if err != nil {
			return results, fmt.Errorf("step %s: %w", step, err)
		}
		res := out.(StepResult)
		if !res.Passed {
			log.Warningf("%s", res)
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *Runner) step(c *vm.Context, step manifest.Step) StepResult {
	res := StepResult{Step: step}
	res.Value, res.Err = r.exec(c, step)
	res.Passed, res.Detail = r.check(step, res.Value, res.Err)

	obj, isObj := res.Value.Object()
	if res.Err == nil && isObj && step.Bind != "" {
		r.handles.Bind(r.session.ID, step.Bind, obj)
	}
	if res.Err == nil && step.Op == "construct" {
		// constructors hand back an owned reference
		res.Value.Release()
	}
	return res
}

func (r *Runner) exec(c *vm.Context, step manifest.Step) (vm.Value, error) {
	if step.Op == "live" {
		return vm.IntValue(c.Live()), nil
	}
	if step.Op == "release" {
		if !r.handles.ReleaseName(r.session.ID, step.Object) {
			return vm.Empty(), fmt.Errorf("%w: %s", ErrUnknownObject, step.Object)
		}
		return vm.Empty(), nil
	}

	obj, ok := r.Object(step.Object)
	if !ok {
		return vm.Empty(), fmt.Errorf("%w: %s", ErrUnknownObject, step.Object)
	}
	this := obj
	if step.This != "" {
		if this, ok = r.Object(step.This); !ok {
			return vm.Empty(), fmt.Errorf("%w: %s", ErrUnknownObject, step.This)
		}
	}

	switch step.Op {
	case "enum":
		keys, err := obj.Keys()
		return vm.StringValue(strings.Join(keys, ",")), err
	case "delete":
		return vm.Empty(), obj.DeleteMemberByName(step.Member, 0)
	}

	var flags vm.NameFlags
	if step.Ensure || step.Op == "put" {
		flags |= vm.NameEnsure
	}
	id, err := obj.GetDispID(step.Member, flags)
	if err != nil {
		return vm.Empty(), err
	}

	switch step.Op {
	case "dispid":
		return vm.IntValue(int64(id)), nil
	case "kind":
		kind, err := obj.SlotKindOf(id)
		return vm.StringValue(kind.String()), err
	case "props":
		props, err := obj.GetMemberProperties(id)
		return vm.StringValue(props.String()), err
	case "put":
		var args vm.Args
		if step.Value != nil {
			v, err := r.value(step.Value)
			if err != nil {
				return vm.Empty(), err
			}
			args = vm.PutArgs(v)
		}
		return obj.InvokeEx(id, vm.ModePut, this, args)
	}

	mode, err := vm.ParseMode(step.Op)
	if err != nil {
		return vm.Empty(), err
	}
	args, err := r.args(step.Args)
	if err != nil {
		return vm.Empty(), err
	}
	return obj.InvokeEx(id, mode, this, args)
}

func (r *Runner) check(step manifest.Step, got vm.Value, err error) (bool, string) {
	if step.ExpectError != "" {
		if err == nil {
			return false, fmt.Sprintf("got %s, want error %s", got, step.ExpectError)
		}
		if name := vm.ErrorName(err); name != step.ExpectError {
			return false, fmt.Sprintf("got error %v, want %s", err, step.ExpectError)
		}
		return true, ""
	}
	if err != nil {
		return false, err.Error()
	}
	if step.Expect == nil {
		return true, ""
	}
	want, werr := r.value(step.Expect)
	if werr != nil {
		return false, werr.Error()
	}
	if !got.Equal(want) {
		return false, fmt.Sprintf("got %s, want %s", got, want)
	}
	return true, ""
}

func (r *Runner) args(raw []any) (vm.Args, error) {
	if len(raw) == 0 {
		return vm.NoArgs, nil
	}
	vals := make([]vm.Value, len(raw))
	for i, a := range raw {
		v, err := r.value(a)
		if err != nil {
			return vm.NoArgs, fmt.Errorf("argument %d: %w", i, err)
		}
		vals[i] = v
	}
	return vm.Positional(vals...), nil
}

// value converts a decoded TOML value. Tables select the variants TOML has
// no literal for: {ref = "name"}, {null = true} and {empty = true}.
func (r *Runner) value(raw any) (vm.Value, error) {
	switch x := raw.(type) {
	case nil:
		return vm.Empty(), nil
	case bool:
		return vm.BoolValue(x), nil
	case int64:
		return vm.IntValue(x), nil
	case int:
		return vm.IntValue(int64(x)), nil
	case float64:
		return vm.FloatValue(x), nil
	case string:
		return vm.StringValue(x), nil
	case map[string]any:
		if name, ok := x["ref"].(string); ok {
			obj, found := r.Object(name)
			if !found {
				return vm.Empty(), fmt.Errorf("%w: %s", ErrUnknownObject, name)
			}
			return vm.RefValue(obj), nil
		}
		if b, _ := x["null"].(bool); b {
			return vm.Null(), nil
		}
		if b, _ := x["empty"].(bool); b {
			return vm.Empty(), nil
		}
	}
	return vm.Empty(), fmt.Errorf("unsupported value %#v", raw)
}

// Close releases every object the runner holds.
func (r *Runner) Close(ctx context.Context) error {
	_, err := r.worker.Do(ctx, func(*vm.Context) (any, error) {
		return r.sessions.Destroy(r.session.ID), nil
	})
	return err
}

// Failed returns the results that did not pass.
func Failed(results []StepResult) []StepResult {
	var failed []StepResult
	for _, res := range results {
		if !res.Passed {
			failed = append(failed, res)
		}
	}
	return failed
}
