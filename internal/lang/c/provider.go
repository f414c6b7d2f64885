// Package c implements the C/header language provider: symbol and
// reference extraction, including a comment/string byte-range lexer and a
// regex fallback that recovers subscript accesses the grammar misses.
package c

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	c_sitter "github.com/smacker/go-tree-sitter/c"

	"github.com/snipeproj/snipe/engine/model"
	"github.com/snipeproj/snipe/internal/lang/provider"
)

// Provider implements provider.LanguageProvider for C and C headers.
type Provider struct{}

// New returns a C/header language Provider.
func New() *Provider { return &Provider{} }

var _ provider.LanguageProvider = (*Provider)(nil)

func (*Provider) Lang() string         { return "c" }
func (*Provider) Extensions() []string { return []string{".c", ".h"} }

func (*Provider) SitterLanguage() *sitter.Language {
	return c_sitter.GetLanguage()
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

// typeString rebuilds the declared-type text of a declaration node from its
// primitive/sized/struct/pointer pieces.
func typeString(declNode *sitter.Node, source []byte) string {
	var parts []string
	for _, c := range children(declNode) {
		switch c.Type() {
		case "primitive_type", "sized_type_specifier", "type_identifier", "struct_specifier":
			parts = append(parts, srcAt(c, source))
		case "pointer_declarator":
			if c.ChildCount() > 0 {
				parts = append(parts, "*")
			}
		}
	}
	if len(parts) == 0 {
		return "int"
	}
	return strings.Join(parts, " ")
}

func arraySizeFromDeclarator(decl *sitter.Node, source []byte) *int {
	if decl == nil {
		return nil
	}
	if decl.Type() == "array_declarator" {
		if sizeNode := decl.ChildByFieldName("size"); sizeNode != nil {
			if v, err := strconv.ParseInt(srcAt(sizeNode, source), 0, 64); err == nil {
				n := int(v)
				return &n
			}
		}
		for _, sub := range children(decl) {
			if sub.Type() == "number_literal" {
				if v, err := strconv.ParseInt(srcAt(sub, source), 0, 64); err == nil {
					n := int(v)
					return &n
				}
				return nil
			}
		}
	}
	for _, c := range children(decl) {
		if c.Type() == "array_declarator" {
			return arraySizeFromDeclarator(c, source)
		}
	}
	return nil
}

func identifierFromDeclarator(decl *sitter.Node, source []byte) string {
	if decl == nil {
		return ""
	}
	if decl.Type() == "identifier" {
		return srcAt(decl, source)
	}
	for _, c := range children(decl) {
		if c.Type() == "identifier" {
			return srcAt(c, source)
		}
		if sub := identifierFromDeclarator(c, source); sub != "" {
			return sub
		}
	}
	return ""
}

// arraySizeRegex is the declaration-line fallback used when the Tree-sitter
// grammar didn't expose a literal array size directly (e.g. "int arr[10];"
// parsed in a shape the walker below doesn't special-case).
var arraySizeRegex = func(name string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\s*\[\s*(\d+)\s*\]`)
}

// ExtractSymbols walks the parsed buffer, recording function definitions,
// top-level declarations (variables, arrays, externs) and struct
// definitions with their members.
func (*Provider) ExtractSymbols(tree *sitter.Tree, source []byte, file string) []model.Symbol {
	var out []model.Symbol
	if tree == nil || tree.RootNode() == nil {
		return out
	}

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "function_definition":
			declarator := n.ChildByFieldName("declarator")
			if declarator != nil && declarator.Type() == "function_declarator" {
				idNode := declarator.ChildByFieldName("declarator")
				if idNode != nil && idNode.Type() == "identifier" {
					name := srcAt(idNode, source)
					var params []model.Param
					if paramsNode := declarator.ChildByFieldName("parameters"); paramsNode != nil {
						for _, c := range children(paramsNode) {
							if c.Type() != "parameter_declaration" {
								continue
							}
							pdecl := c.ChildByFieldName("declarator")
							if pname := identifierFromDeclarator(pdecl, source); pname != "" {
								params = append(params, model.Param{
									Name: pname,
									Type: typeString(c, source),
								})
							}
						}
					}
					out = append(out, model.Symbol{
						Name:   name,
						Kind:   model.KindFunction,
						Type:   typeString(n, source),
						File:   file,
						Line:   lineOf(n, source),
						Params: params,
					})
				}
			}

		case "declaration":
			typeStr := typeString(n, source)
			isExtern := false
			for _, c := range children(n) {
				if c.Type() == "storage_class_specifier" && srcAt(c, source) == "extern" {
					isExtern = true
				}
			}
			declList := n.ChildByFieldName("declarator")
			if declList == nil {
				declList = n.ChildByFieldName("init_declarator_list")
			}
			if declList != nil {
				if declList.Type() == "identifier" {
					out = append(out, model.Symbol{
						Name: srcAt(declList, source), Kind: model.KindVariable,
						Type: typeStr, File: file, Line: lineOf(n, source), IsExtern: isExtern,
					})
				} else {
					for _, c := range children(declList) {
						switch c.Type() {
						case "init_declarator":
							d := c.ChildByFieldName("declarator")
							if d == nil {
								d = c
							}
							size := arraySizeFromDeclarator(d, source)
							if name := identifierFromDeclarator(d, source); name != "" {
								kind := model.KindVariable
								if size != nil {
									kind = model.KindArray
								}
								out = append(out, model.Symbol{
									Name: name, Kind: kind, Type: typeStr,
									File: file, Line: lineOf(n, source),
									ArraySize: size, IsExtern: isExtern,
								})
							}
						case "identifier":
							out = append(out, model.Symbol{
								Name: srcAt(c, source), Kind: model.KindVariable, Type: typeStr,
								File: file, Line: lineOf(n, source), IsExtern: isExtern,
							})
						}
					}
				}
			}

		case "struct_specifier":
			if nameNode := n.ChildByFieldName("name"); nameNode != nil {
				name := srcAt(nameNode, source)
				var members []model.Field
				if body := n.ChildByFieldName("body"); body != nil {
					for _, fieldDecl := range children(body) {
						if fieldDecl.Type() != "field_declaration" {
							continue
						}
						fieldType := typeString(fieldDecl, source)
						fieldDeclarator := fieldDecl.ChildByFieldName("declarator")
						if fieldDeclarator == nil {
							continue
						}
						var fieldName string
						if fieldDeclarator.Type() == "field_identifier" {
							fieldName = srcAt(fieldDeclarator, source)
						} else {
							fieldName = identifierFromDeclarator(fieldDeclarator, source)
						}
						if fieldName != "" {
							members = append(members, model.Field{Name: fieldName, Type: fieldType})
						}
					}
				}
				out = append(out, model.Symbol{
					Name: name, Kind: model.KindStruct, Type: "struct",
					File: file, Line: lineOf(n, source), Members: members,
				})
			}
		}

		for _, c := range children(n) {
			walk(c)
		}
	}

	walk(tree.RootNode())

	lines := strings.Split(string(source), "\n")
	for i := range out {
		if out[i].ArraySize != nil {
			continue
		}
		idx := out[i].Line - 1
		if idx < 0 || idx >= len(lines) {
			continue
		}
		m := arraySizeRegex(out[i].Name).FindStringSubmatch(lines[idx])
		if m == nil {
			continue
		}
		if v, err := strconv.Atoi(m[1]); err == nil {
			out[i].ArraySize = &v
			out[i].Kind = model.KindArray
		}
	}

	return out
}

func inferExprType(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	switch n.Type() {
	case "number_literal":
		txt := srcAt(n, source)
		low := strings.ToLower(txt)
		if strings.Contains(txt, ".") || strings.Contains(low, "e") || strings.Contains(low, "f") {
			return "float"
		}
		return "int"
	case "char_literal", "string_literal":
		return "char"
	case "identifier":
		return ""
	}
	for _, c := range children(n) {
		if t := inferExprType(c, source); t != "" {
			return t
		}
	}
	return "int"
}

var formatSpecifierRegex = regexp.MustCompile(`%[diouxXeEfFgGaAcspnl*]`)

var printfFamily = map[string]int{
	"printf": 0, "scanf": 0,
	"fprintf": 1, "fscanf": 1, "sprintf": 1, "sscanf": 1,
	"snprintf": 2,
}

// commentAndStringRanges returns the byte ranges of C comments and string
// literals, so the regex subscript fallback below can skip matches that
// fall inside them.
func commentAndStringRanges(source []byte) [][2]int {
	var ranges [][2]int
	n := len(source)
	i := 0
	for i < n {
		if i < n-1 && source[i] == '/' && source[i+1] == '/' {
			start := i
			i += 2
			for i < n && source[i] != '\n' {
				i++
			}
			ranges = append(ranges, [2]int{start, i})
			continue
		}
		if i < n-1 && source[i] == '/' && source[i+1] == '*' {
			start := i
			i += 2
			for i < n-1 && !(source[i] == '*' && source[i+1] == '/') {
				i++
			}
			i = min(i+2, n)
			ranges = append(ranges, [2]int{start, i})
			continue
		}
		if source[i] == '"' || source[i] == '\'' {
			quote := source[i]
			start := i
			i++
			for i < n {
				if source[i] == '\\' {
					i += 2
					continue
				}
				if source[i] == quote {
					i++
					break
				}
				i++
			}
			ranges = append(ranges, [2]int{start, i})
			continue
		}
		i++
	}
	return ranges
}

func positionInRanges(pos int, ranges [][2]int) bool {
	for _, r := range ranges {
		if pos >= r[0] && pos < r[1] {
			return true
		}
	}
	return false
}

// isArrayDeclaratorContext reports whether the subscript ending at
// matchEnd is immediately followed (ignoring whitespace) by a statement
// terminator, i.e. it is an array-size declarator ("int arr[10];") rather
// than a subscript access.
func isArrayDeclaratorContext(source []byte, matchEnd int) bool {
	n := len(source)
	i := matchEnd
	for i < n && (source[i] == ' ' || source[i] == '\t' || source[i] == '\n' || source[i] == '\r') {
		i++
	}
	return i < n && source[i] == ';'
}

var subscriptRegex = regexp.MustCompile(`([a-zA-Z_][a-zA-Z0-9_]*)\s*\[\s*(\d+)\s*\]`)

// ExtractReferences walks the parsed buffer and records calls (plus printf
// family format-string references), subscript reads and writes, and struct
// member access; then runs a regex fallback over the raw source for
// identifier[number] subscripts the grammar missed, deduplicating against
// what the walk already found.
func (*Provider) ExtractReferences(tree *sitter.Tree, source []byte, file string) []model.Reference {
	var out []model.Reference
	if tree == nil || tree.RootNode() == nil {
		return out
	}

	subscriptParts := func(n *sitter.Node) (arr, idx *sitter.Node) {
		arr = n.ChildByFieldName("argument")
		idx = n.ChildByFieldName("index")
		if (arr == nil || idx == nil) && n.ChildCount() >= 4 {
			arr = n.Child(0)
			idx = n.Child(2)
		}
		return
	}

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "call_expression", "call":
			fn := n.ChildByFieldName("function")
			if fn != nil && fn.Type() == "identifier" {
				name := srcAt(fn, source)
				args := n.ChildByFieldName("arguments")
				var argChildren []*sitter.Node
				if args != nil {
					for _, c := range children(args) {
						switch c.Type() {
						case "(", ")", ",":
							continue
						}
						argChildren = append(argChildren, c)
					}
				}
				nargs := len(argChildren)
				out = append(out, model.Reference{Kind: model.RefCall, Name: name, Line: lineOf(n, source), ArgCount: nargs})

				if fmtIdx, ok := printfFamily[name]; ok && fmtIdx < len(argChildren) {
					fmtNode := argChildren[fmtIdx]
					if fmtNode.Type() == "string_literal" {
						fmtStr := strings.Trim(srcAt(fmtNode, source), `"`)
						specs := formatSpecifierRegex.FindAllString(strings.ReplaceAll(fmtStr, "%%", ""), -1)
						out = append(out, model.Reference{
							Kind: model.RefFormatCall, Name: name, Line: lineOf(n, source),
							ArgCount:         nargs - fmtIdx - 1,
							FormatSpecifiers: len(specs),
							FormatString:     fmtStr,
						})
					}
				}
			}

		case "subscript_expression", "subscript":
			if arr, idx := subscriptParts(n); arr != nil && idx != nil {
				ref := model.Reference{Kind: model.RefArrayAccess, Name: srcAt(arr, source), Line: lineOf(n, source)}
				if v, err := strconv.ParseInt(srcAt(idx, source), 0, 64); err == nil {
					ref.IndexValue = int(v)
					ref.HasIndexValue = true
				}
				out = append(out, ref)
			}

		case "assignment_expression":
			left := n.ChildByFieldName("left")
			right := n.ChildByFieldName("right")
			if left != nil && right != nil && (left.Type() == "subscript_expression" || left.Type() == "subscript") {
				if arrNode, idxNode := subscriptParts(left); arrNode != nil && idxNode != nil {
					ref := model.Reference{
						Kind: model.RefArrayWrite, Name: srcAt(arrNode, source), Line: lineOf(n, source),
						InferredType: inferExprType(right, source),
					}
					if v, err := strconv.ParseInt(srcAt(idxNode, source), 0, 64); err == nil {
						ref.IndexValue = int(v)
						ref.HasIndexValue = true
					}
					if right.Type() == "identifier" {
						ref.RHSName = srcAt(right, source)
						ref.HasRHSName = true
					}
					out = append(out, ref)
				}
			}

		case "field_expression":
			obj := n.ChildByFieldName("argument")
			fieldNode := n.ChildByFieldName("field")
			if obj != nil && fieldNode != nil {
				out = append(out, model.Reference{
					Kind: model.RefMemberAccess, Name: srcAt(obj, source), Line: lineOf(n, source),
					MemberName: srcAt(fieldNode, source),
				})
			}
		}

		for _, c := range children(n) {
			walk(c)
		}
	}

	walk(tree.RootNode())

	type seenKey struct {
		name  string
		line  int
		index int
		has   bool
	}
	existing := make(map[seenKey]struct{})
	for _, r := range out {
		if r.Kind != model.RefArrayAccess {
			continue
		}
		existing[seenKey{r.Name, r.Line, r.IndexValue, r.HasIndexValue}] = struct{}{}
	}

	skipRanges := commentAndStringRanges(source)
	for _, m := range subscriptRegex.FindAllSubmatchIndex(source, -1) {
		start, end := m[0], m[1]
		if positionInRanges(start, skipRanges) {
			continue
		}
		if isArrayDeclaratorContext(source, end) {
			continue
		}
		name := string(source[m[2]:m[3]])
		line := bytes.Count(source[:start], []byte("\n")) + 1
		ref := model.Reference{Kind: model.RefArrayAccess, Name: name, Line: line}
		if v, err := strconv.ParseInt(string(source[m[4]:m[5]]), 10, 64); err == nil {
			ref.IndexValue = int(v)
			ref.HasIndexValue = true
		}
		key := seenKey{ref.Name, ref.Line, ref.IndexValue, ref.HasIndexValue}
		if _, ok := existing[key]; ok {
			continue
		}
		existing[key] = struct{}{}
		out = append(out, ref)
	}

	return out
}
