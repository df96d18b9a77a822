package classgen

import (
	"fmt"
	"go/ast"
	"go/types"
	"sort"
	"strings"

	"github.com/tliron/commonlog"
	"golang.org/x/tools/go/packages"
)

var log = commonlog.GetLogger("dispex.classgen")

// Introspect loads the package in dir and returns the member model of its
// type typeName. Methods shaped
//
//	func (*T) Name(this *vm.Object, args vm.Args) (vm.Value, error)
//
// become methods; GetName/SetName pairs shaped
//
//	func (*T) GetName(this *vm.Object) (vm.Value, error)
//	func (*T) SetName(this *vm.Object, v vm.Value) error
//
// become an accessor. Other methods are ignored.
func Introspect(dir, typeName string) (*ClassModel, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedSyntax | packages.NeedTypesInfo,
		Dir:  dir,
	}

	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", dir, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found in %s", dir)
	}

	pkg := pkgs[0]
	if pkg.Types == nil {
		return nil, fmt.Errorf("type information not available for %s", dir)
	}
	// The generated file may be stale or missing while we regenerate it.
	for _, e := range pkg.Errors {
		log.Debugf("ignoring package error: %v", e)
	}

	obj, ok := pkg.Types.Scope().Lookup(typeName).(*types.TypeName)
	if !ok {
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("type %s not found in %s: %v", typeName, pkg.PkgPath, pkg.Errors)
		}
		return nil, fmt.Errorf("type %s not found in %s", typeName, pkg.PkgPath)
	}
	named, ok := obj.Type().(*types.Named)
	if !ok {
		return nil, fmt.Errorf("%s is not a named type", typeName)
	}

	model := &ClassModel{
		PkgPath:  pkg.PkgPath,
		PkgName:  pkg.Name,
		TypeName: typeName,
		GoType:   named,
	}
	constructors := constructorMethods(pkg.Syntax, typeName)
	if err := model.collect(named, constructors); err != nil {
		return nil, err
	}
	return model, nil
}

func (m *ClassModel) collect(named *types.Named, constructors map[string]bool) error {
	members := make(map[string]*MemberModel)
	member := func(name string, kind MemberKind) (*MemberModel, error) {
		mm, ok := members[name]
		if !ok {
			mm = &MemberModel{Name: name, Kind: kind}
			members[name] = mm
			return mm, nil
		}
		if mm.Kind != kind {
			return nil, fmt.Errorf("%s: %q is both a method and an accessor", m.TypeName, name)
		}
		return mm, nil
	}

	mset := types.NewMethodSet(types.NewPointer(named))
	for i := 0; i < mset.Len(); i++ {
		sel := mset.At(i)
		fn, ok := sel.Obj().(*types.Func)
		if !ok || !fn.Exported() {
			continue
		}
		// Only include methods directly defined on this type (not promoted)
		if len(sel.Index()) > 1 {
			continue
		}
		sig := fn.Type().(*types.Signature)
		goName := fn.Name()

		switch {
		case isMethodSig(sig):
			mm, err := member(ScriptName(goName), MemberMethod)
			if err != nil {
				return err
			}
			if mm.Method != "" {
				return fmt.Errorf("%s: %s and %s both map to %q", m.TypeName, mm.Method, goName, mm.Name)
			}
			mm.Method = goName
			mm.Constructor = constructors[goName]
		case isGetterSig(sig) || isSetterSig(sig):
			prefix, name, ok := AccessorName(goName)
			if !ok || (prefix == "Get") != isGetterSig(sig) {
				log.Debugf("skipping %s.%s: accessor shape without a matching name", m.TypeName, goName)
				continue
			}
			if constructors[goName] {
				return fmt.Errorf("%s.%s: accessors cannot be constructors", m.TypeName, goName)
			}
			mm, err := member(name, MemberAccessor)
			if err != nil {
				return err
			}
			if prefix == "Get" {
				mm.Getter = goName
			} else {
				mm.Setter = goName
			}
		default:
			log.Debugf("skipping %s.%s: not a member signature", m.TypeName, goName)
		}
	}

	m.Members = m.Members[:0]
	for _, mm := range members {
		m.Members = append(m.Members, *mm)
	}
	sort.Slice(m.Members, func(i, j int) bool { return m.Members[i].Name < m.Members[j].Name })
	return nil
}

// constructorMethods finds the methods of typeName whose doc comment
// carries ConstructorDirective.
func constructorMethods(files []*ast.File, typeName string) map[string]bool {
	found := make(map[string]bool)
	for _, f := range files {
		for _, decl := range f.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Recv == nil || fd.Doc == nil || len(fd.Recv.List) == 0 {
				continue
			}
			if receiverName(fd.Recv.List[0].Type) != typeName {
				continue
			}
			for _, c := range fd.Doc.List {
				if strings.TrimSpace(c.Text) == ConstructorDirective {
					found[fd.Name.Name] = true
				}
			}
		}
	}
	return found
}

func receiverName(expr ast.Expr) string {
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	if id, ok := expr.(*ast.Ident); ok {
		return id.Name
	}
	return ""
}

// ---------------------------------------------------------------------------
// Signature shapes
// ---------------------------------------------------------------------------

func isMethodSig(sig *types.Signature) bool {
	p, r := sig.Params(), sig.Results()
	return p.Len() == 2 && r.Len() == 2 && !sig.Variadic() &&
		isVMType(p.At(0).Type(), "Object", true) &&
		isVMType(p.At(1).Type(), "Args", false) &&
		isVMType(r.At(0).Type(), "Value", false) &&
		isErrorType(r.At(1).Type())
}

func isGetterSig(sig *types.Signature) bool {
	p, r := sig.Params(), sig.Results()
	return p.Len() == 1 && r.Len() == 2 &&
		isVMType(p.At(0).Type(), "Object", true) &&
		isVMType(r.At(0).Type(), "Value", false) &&
		isErrorType(r.At(1).Type())
}

func isSetterSig(sig *types.Signature) bool {
	p, r := sig.Params(), sig.Results()
	return p.Len() == 2 && r.Len() == 1 &&
		isVMType(p.At(0).Type(), "Object", true) &&
		isVMType(p.At(1).Type(), "Value", false) &&
		isErrorType(r.At(0).Type())
}

func isVMType(t types.Type, name string, pointer bool) bool {
	if pointer {
		ptr, ok := t.(*types.Pointer)
		if !ok {
			return false
		}
		t = ptr.Elem()
	}
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}
	obj := named.Obj()
	return obj.Name() == name && obj.Pkg() != nil && obj.Pkg().Path() == VMPath
}

func isErrorType(t types.Type) bool {
	return types.Identical(t, types.Universe.Lookup("error").Type())
}
