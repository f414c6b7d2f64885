// Package python implements the dynamic-language provider: symbol and
// reference extraction for the Python buffers this engine analyzes.
package python

import (
	"bytes"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	python_sitter "github.com/smacker/go-tree-sitter/python"

	"github.com/snipeproj/snipe/engine/model"
	"github.com/snipeproj/snipe/internal/lang/provider"
)

// Provider implements provider.LanguageProvider for the Python-like dynamic
// language.
type Provider struct{}

// New returns a Python-like language Provider.
func New() *Provider { return &Provider{} }

var _ provider.LanguageProvider = (*Provider)(nil)

func (*Provider) Lang() string         { return "python" }
func (*Provider) Extensions() []string { return []string{".py"} }

func (*Provider) SitterLanguage() *sitter.Language {
	return python_sitter.GetLanguage()
}

func srcAt(n *sitter.Node, source []byte) string {
	return strings.TrimSpace(n.Content(source))
}

func lineOf(n *sitter.Node, source []byte) int {
	return bytes.Count(source[:n.StartByte()], []byte("\n")) + 1
}

func children(n *sitter.Node) []*sitter.Node {
	out := make([]*sitter.Node, 0, n.ChildCount())
	for i := 0; i < int(n.ChildCount()); i++ {
		out = append(out, n.Child(i))
	}
	return out
}

func childByType(n *sitter.Node, typ string) *sitter.Node {
	for _, c := range children(n) {
		if c.Type() == typ {
			return c
		}
	}
	return nil
}

// typeAnnotation strips the leading ":" or "->" a Tree-sitter annotation
// node carries along with its value.
func typeAnnotation(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	text := strings.TrimSpace(n.Content(source))
	text = strings.TrimPrefix(text, "->")
	text = strings.TrimPrefix(text, ":")
	return strings.TrimSpace(text)
}

// rhsLiteralType maps a Tree-sitter RHS node type to the coarse type name
// checkers reason about.
func rhsLiteralType(n *sitter.Node) string {
	switch n.Type() {
	case "list":
		return "list"
	case "tuple":
		return "tuple"
	case "integer":
		return "int"
	case "float":
		return "float"
	case "string":
		return "str"
	case "true", "false":
		return "bool"
	case "dictionary":
		return "dict"
	}
	return ""
}

func countElements(n *sitter.Node) int {
	count := 0
	for _, c := range children(n) {
		switch c.Type() {
		case "(", ")", "[", "]", ",":
			continue
		}
		count++
	}
	return count
}

// ExtractSymbols walks the parsed buffer, recording functions, classes and
// assignments. Functions and classes push a dotted scope for their body;
// bare assignments at any scope become variable or array symbols depending
// on whether the RHS is a list/tuple literal.
func (*Provider) ExtractSymbols(tree *sitter.Tree, source []byte, file string) []model.Symbol {
	var out []model.Symbol
	if tree == nil || tree.RootNode() == nil {
		return out
	}

	var walk func(n *sitter.Node, scope string)
	walk = func(n *sitter.Node, scope string) {
		switch n.Type() {
		case "function_definition":
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil {
				return
			}
			name := srcAt(nameNode, source)
			params, variadic := extractParams(n.ChildByFieldName("parameters"), source)
			retType := typeAnnotation(n.ChildByFieldName("return_type"), source)

			out = append(out, model.Symbol{
				Name:       name,
				Kind:       model.KindFunction,
				Type:       retType,
				File:       file,
				Line:       lineOf(n, source),
				Scope:      scope,
				Params:     params,
				ReturnType: retType,
				IsVariadic: variadic,
			})
			inner := name
			if scope != "" {
				inner = scope + "." + name
			}
			for _, c := range children(n) {
				walk(c, inner)
			}
			return

		case "class_definition":
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil {
				return
			}
			name := srcAt(nameNode, source)
			out = append(out, model.Symbol{
				Name:  name,
				Kind:  model.KindClass,
				File:  file,
				Line:  lineOf(n, source),
				Scope: scope,
			})
			inner := name
			if scope != "" {
				inner = scope + "." + name
			}
			for _, c := range children(n) {
				walk(c, inner)
			}
			return

		case "assignment":
			rhs := n.ChildByFieldName("right")
			if rhs == nil {
				if cs := children(n); len(cs) >= 3 {
					rhs = cs[len(cs)-1]
				}
			}
			explicitType := typeAnnotation(n.ChildByFieldName("type"), source)

			for _, c := range children(n) {
				if c.Type() == "identifier" {
					name := srcAt(c, source)
					if name != "" && !strings.HasPrefix(name, "_") {
						inferred := explicitType
						var size *int
						kind := model.KindVariable
						if rhs != nil && inferred == "" {
							inferred = rhsLiteralType(rhs)
						}
						if rhs != nil && (rhs.Type() == "list" || rhs.Type() == "tuple") {
							elemCount := countElements(rhs)
							size = &elemCount
							kind = model.KindArray
						}
						out = append(out, model.Symbol{
							Name:      name,
							Kind:      kind,
							Type:      inferred,
							File:      file,
							Line:      lineOf(n, source),
							Scope:     scope,
							ArraySize: size,
						})
					}
					break
				}
				if c.Type() == "tuple_pattern" || c.Type() == "list_pattern" {
					for _, sub := range children(c) {
						if sub.Type() == "identifier" {
							name := srcAt(sub, source)
							if name != "" && !strings.HasPrefix(name, "_") {
								out = append(out, model.Symbol{
									Name:  name,
									Kind:  model.KindVariable,
									File:  file,
									Line:  lineOf(n, source),
									Scope: scope,
								})
							}
						}
					}
				}
			}
		}

		for _, c := range children(n) {
			walk(c, scope)
		}
	}

	walk(tree.RootNode(), "")
	return out
}

func extractParams(paramsNode *sitter.Node, source []byte) ([]model.Param, bool) {
	if paramsNode == nil {
		return nil, false
	}
	var params []model.Param
	variadic := false
	paramName := func(c *sitter.Node) string {
		idNode := c.ChildByFieldName("name")
		if idNode == nil {
			idNode = childByType(c, "identifier")
		}
		if idNode == nil {
			return srcAt(c, source)
		}
		return srcAt(idNode, source)
	}
	for _, c := range children(paramsNode) {
		switch c.Type() {
		case "identifier":
			name := srcAt(c, source)
			if name == "self" || name == "cls" {
				continue
			}
			params = append(params, model.Param{Name: name})
		case "typed_parameter":
			name := paramName(c)
			if name == "self" || name == "cls" {
				continue
			}
			params = append(params, model.Param{Name: name, Type: typeAnnotation(c.ChildByFieldName("type"), source)})
		case "default_parameter":
			name := paramName(c)
			if name == "self" || name == "cls" {
				continue
			}
			params = append(params, model.Param{Name: name, HasDefault: true})
		case "typed_default_parameter":
			name := paramName(c)
			if name == "self" || name == "cls" {
				continue
			}
			params = append(params, model.Param{
				Name:       name,
				Type:       typeAnnotation(c.ChildByFieldName("type"), source),
				HasDefault: true,
			})
		case "list_splat_pattern":
			variadic = true
			idNode := childByType(c, "identifier")
			name := "args"
			if idNode != nil {
				name = srcAt(idNode, source)
			}
			params = append(params, model.Param{Name: "*" + name})
		case "dictionary_splat_pattern":
			variadic = true
			idNode := childByType(c, "identifier")
			name := "kwargs"
			if idNode != nil {
				name = srcAt(idNode, source)
			}
			params = append(params, model.Param{Name: "**" + name})
		}
	}
	return params, variadic
}

// ExtractReferences walks the parsed buffer and records calls, subscript
// reads, bare-identifier reads, imports, typed returns and annotated
// assignments.
func (*Provider) ExtractReferences(tree *sitter.Tree, source []byte, file string) []model.Reference {
	var out []model.Reference
	if tree == nil || tree.RootNode() == nil {
		return out
	}

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "call", "call_expression":
			if fn := n.ChildByFieldName("function"); fn != nil {
				name := srcAt(fn, source)
				args := n.ChildByFieldName("arguments")
				var argTypes []string
				nargs := 0
				anyTyped := false
				if args != nil {
					for _, ac := range children(args) {
						switch ac.Type() {
						case "(", ")", ",":
							continue
						}
						nargs++
						t := rhsLiteralType(ac)
						if t != "" {
							anyTyped = true
						}
						argTypes = append(argTypes, t)
					}
				}
				if !anyTyped {
					argTypes = nil
				}
				out = append(out, model.Reference{
					Kind: model.RefCall, Name: name, Line: lineOf(n, source),
					ArgCount: nargs, ArgTypes: argTypes,
				})
			}

		case "subscript", "subscript_expression":
			obj := n.ChildByFieldName("value")
			idx := n.ChildByFieldName("subscript")
			if idx == nil {
				idx = n.ChildByFieldName("index")
			}
			if obj != nil && idx != nil {
				ref := model.Reference{Kind: model.RefArrayAccess, Name: srcAt(obj, source), Line: lineOf(n, source)}
				if v, err := strconv.ParseInt(srcAt(idx, source), 0, 64); err == nil {
					ref.IndexValue = int(v)
					ref.HasIndexValue = true
				}
				out = append(out, ref)
			}

		case "identifier":
			if parent := n.Parent(); parent != nil {
				switch parent.Type() {
				case "call", "call_expression", "function_definition", "parameters", "attribute":
				default:
					name := srcAt(n, source)
					if name != "" && !strings.HasPrefix(name, "_") {
						out = append(out, model.Reference{Kind: model.RefRead, Name: name, Line: lineOf(n, source)})
					}
				}
			}

		case "import_statement":
			var imported []string
			for _, c := range children(n) {
				switch c.Type() {
				case "dotted_name":
					imported = append(imported, srcAt(c, source))
				case "aliased_import":
					local := c.ChildByFieldName("alias")
					if local == nil {
						local = c.ChildByFieldName("name")
					}
					if local != nil {
						imported = append(imported, srcAt(local, source))
					}
				}
			}
			if len(imported) > 0 {
				out = append(out, model.Reference{
					Kind: model.RefImport, Name: "__import__", Line: lineOf(n, source),
					ImportedNames: imported,
				})
			}
			// The statement's own identifiers are bindings, not uses; a name
			// only counts as referenced outside its import.
			return

		case "import_from_statement":
			moduleNode := n.ChildByFieldName("module_name")
			modName := ""
			if moduleNode != nil {
				modName = srcAt(moduleNode, source)
			}
			var imported []string
			for _, c := range children(n) {
				if c == moduleNode {
					continue
				}
				switch c.Type() {
				case "dotted_name", "identifier":
					imported = append(imported, srcAt(c, source))
				case "aliased_import":
					local := c.ChildByFieldName("alias")
					if local == nil {
						local = c.ChildByFieldName("name")
					}
					if local != nil {
						imported = append(imported, srcAt(local, source))
					}
				case "wildcard_import":
					imported = append(imported, "*")
				}
			}
			if len(imported) > 0 {
				out = append(out, model.Reference{
					Kind: model.RefImport, Name: "__import__", Line: lineOf(n, source),
					ImportedNames: imported, ModuleName: modName,
				})
			}
			return

		case "attribute":
			obj := n.ChildByFieldName("object")
			attr := n.ChildByFieldName("attribute")
			if obj != nil && attr != nil {
				out = append(out, model.Reference{
					Kind: model.RefMemberAccess, Name: srcAt(obj, source), Line: lineOf(n, source),
					MemberName: srcAt(attr, source),
				})
			}

		case "return_statement":
			funcName, declaredRet := enclosingFunctionReturn(n, source)
			var retValue *sitter.Node
			for _, c := range children(n) {
				if c.Type() != "return" {
					retValue = c
					break
				}
			}
			retType := "None"
			if retValue != nil {
				retType = rhsLiteralType(retValue)
			}
			if declaredRet != "" {
				out = append(out, model.Reference{
					Kind: model.RefReturnValue, Name: funcName, Line: lineOf(n, source),
					ReturnValueType: retType, DeclaredReturnType: declaredRet, Scope: funcName,
				})
			}

		case "assignment":
			typeNode := n.ChildByFieldName("type")
			if typeNode != nil {
				annotation := typeAnnotation(typeNode, source)
				rhs := n.ChildByFieldName("right")
				if rhs == nil {
					if cs := children(n); len(cs) >= 3 {
						rhs = cs[len(cs)-1]
					}
				}
				rhsType := ""
				if rhs != nil {
					rhsType = rhsLiteralType(rhs)
				}
				lhs := childByType(n, "identifier")
				if lhs != nil && annotation != "" && rhsType != "" {
					out = append(out, model.Reference{
						Kind: model.RefAssignment, Name: srcAt(lhs, source), Line: lineOf(n, source),
						AnnotationType: annotation, InferredType: rhsType,
					})
				}
			}
		}

		for _, c := range children(n) {
			walk(c)
		}
	}

	walk(tree.RootNode())
	return out
}

func enclosingFunctionReturn(n *sitter.Node, source []byte) (funcName, declaredRet string) {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Type() == "function_definition" {
			if nameNode := p.ChildByFieldName("name"); nameNode != nil {
				funcName = srcAt(nameNode, source)
			}
			declaredRet = typeAnnotation(p.ChildByFieldName("return_type"), source)
			return
		}
	}
	return
}
