package classgen

import (
	"bytes"
	"fmt"

	"github.com/dave/jennifer/jen"
)

// Generator is the name written in the generated file header.
const Generator = "dispexgen"

// Generate renders the BuiltinSet for m as Go source in m's package.
func Generate(m *ClassModel) ([]byte, error) {
	if len(m.Members) == 0 {
		return nil, fmt.Errorf("%s has no members to generate", m.TypeName)
	}

	f := jen.NewFilePathName(m.PkgPath, m.PkgName)
	f.HeaderComment(fmt.Sprintf("Code generated by %s. DO NOT EDIT.", Generator))

	entries := make([]jen.Code, 0, len(m.Members))
	for _, mm := range m.Members {
		entries = append(entries, jen.Values(jen.Dict{
			jen.Id("Name"):   jen.Lit(mm.Name),
			jen.Id("Flags"):  flags(mm),
			jen.Id("Invoke"): invokeFunc(m, mm),
		}))
	}

	f.Commentf("%s are the built-in members of %s, sorted by name.", m.VarName(), m.TypeName)
	f.Var().Id(m.VarName()).Op("=").Qual(VMPath, "BuiltinSet").Values(entries...)

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", m.VarName(), err)
	}
	return buf.Bytes(), nil
}

func flags(mm MemberModel) jen.Code {
	switch {
	case mm.Kind == MemberAccessor:
		return jen.Lit(0)
	case mm.Constructor:
		return jen.Qual(VMPath, "FlagMethod").Op("|").Qual(VMPath, "FlagConstructor")
	}
	return jen.Qual(VMPath, "FlagMethod")
}

// invokeFunc renders the adapter from a vm.Invocation to the Go method,
// with the owner's state as the Go receiver.
func invokeFunc(m *ClassModel, mm MemberModel) jen.Code {
	body := []jen.Code{
		jen.List(jen.Id("recv"), jen.Id("ok")).Op(":=").Id("inv").Dot("Owner").Dot("State").Call().Assert(jen.Op("*").Id(m.TypeName)),
		jen.If(jen.Op("!").Id("ok")).Block(
			jen.Return(
				jen.Qual(VMPath, "Empty").Call(),
				jen.Qual("fmt", "Errorf").Call(
					jen.Lit("%w: %s is not a "+m.TypeName),
					jen.Qual(VMPath, "ErrNotInvocable"),
					jen.Id("inv").Dot("Owner"),
				),
			),
		),
	}
	if mm.Kind == MemberMethod {
		body = append(body, jen.Return(
			jen.Id("recv").Dot(mm.Method).Call(jen.Id("inv").Dot("This"), jen.Id("inv").Dot("Args")),
		))
	} else {
		body = append(body, accessorSwitch(mm)...)
	}

	return jen.Func().
		Params(jen.Id("inv").Op("*").Qual(VMPath, "Invocation")).
		Params(jen.Qual(VMPath, "Value"), jen.Error()).
		Block(body...)
}

func accessorSwitch(mm MemberModel) []jen.Code {
	var cases []jen.Code
	if mm.Getter != "" {
		cases = append(cases, jen.Case(jen.Qual(VMPath, "ModeGet")).Block(
			jen.Return(jen.Id("recv").Dot(mm.Getter).Call(jen.Id("inv").Dot("This"))),
		))
	}
	if mm.Setter != "" {
		cases = append(cases, jen.Case(jen.Qual(VMPath, "ModePut")).Block(
			jen.List(jen.Id("v"), jen.Id("ok")).Op(":=").Id("inv").Dot("Args").Dot("PutValue").Call(),
			jen.If(jen.Op("!").Id("ok")).Block(
				jen.Return(jen.Qual(VMPath, "Empty").Call(), jen.Qual(VMPath, "ErrParamMissing")),
			),
			jen.Return(
				jen.Qual(VMPath, "Empty").Call(),
				jen.Id("recv").Dot(mm.Setter).Call(jen.Id("inv").Dot("This"), jen.Id("v")),
			),
		))
	}
	return []jen.Code{
		jen.Switch(jen.Id("inv").Dot("Mode")).Block(cases...),
		jen.Return(
			jen.Qual(VMPath, "Empty").Call(),
			jen.Qual("fmt", "Errorf").Call(
				jen.Lit("%w: %s on "+mm.Name),
				jen.Qual(VMPath, "ErrUnsupported"),
				jen.Id("inv").Dot("Mode"),
			),
		),
	}
}
