package types

import (
	"fmt"
	"strings"
)

// maxPrintDepth bounds recursive printing of cyclic/self-referential types
// (spec §9): beyond this depth we print "..." instead of recursing further.
const maxPrintDepth = 24

// Print renders a human-readable form of id, used to fill diagnostic
// message templates (spec §4.8). It never panics on malformed or cyclic
// input; at worst it truncates with "...".
func (s *Store) Print(id TypeId) string {
	return s.print(id, 0)
}

func (s *Store) print(id TypeId, depth int) string {
	if depth > maxPrintDepth {
		return "..."
	}
	if IsIntrinsic(id) {
		return id.String()
	}
	switch d := s.Underlying(id).(type) {
	case nil:
		return id.String()
	case LiteralString:
		return fmt.Sprintf("%q", d.Value)
	case LiteralNumber:
		return trimFloat(d.Value)
	case LiteralBigInt:
		return d.Value + "n"
	case Array:
		return s.print(d.Elem, depth+1) + "[]"
	case Tuple:
		parts := make([]string, len(d.Elems))
		for i, e := range d.Elems {
			p := s.print(e.Type, depth+1)
			if e.Rest {
				p = "..." + p
			}
			if e.Optional {
				p += "?"
			}
			if e.Label != "" {
				p = e.Label + ": " + p
			}
			parts[i] = p
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case Union:
		return joinTypes(s, d.Members, " | ", depth)
	case Intersection:
		return joinTypes(s, d.Members, " & ", depth)
	case Object:
		return s.printObjectLike(d.Props, d.StringIndex, d.NumberIndex, depth)
	case Function:
		return s.printSignature(d.Sig, depth)
	case Callable:
		if len(d.CallSigs) > 0 {
			return s.printSignature(d.CallSigs[0], depth)
		}
		return s.printObjectLike(d.Props, d.StringIndex, d.NumberIndex, depth)
	case TypeParameter:
		return d.Name
	case Infer:
		return "infer " + d.Name
	case Application:
		args := make([]string, len(d.Args))
		for i, a := range d.Args {
			args[i] = s.print(a, depth+1)
		}
		return s.print(d.Base, depth+1) + "<" + strings.Join(args, ", ") + ">"
	case Lazy:
		return fmt.Sprintf("<def#%d>", d.DefID)
	case Conditional:
		return fmt.Sprintf("%s extends %s ? %s : %s",
			s.print(d.Check, depth+1), s.print(d.Extends, depth+1),
			s.print(d.TrueBranch, depth+1), s.print(d.FalseBranch, depth+1))
	case Mapped:
		return fmt.Sprintf("{ [%s in %s]: %s }", d.Param, s.print(d.Constraint, depth+1), s.print(d.Template, depth+1))
	case IndexAccess:
		return s.print(d.Object, depth+1) + "[" + s.print(d.Index, depth+1) + "]"
	case KeyOf:
		return "keyof " + s.print(d.Inner, depth+1)
	case ReadonlyType:
		return "readonly " + s.print(d.Inner, depth+1)
	case NoInfer:
		return "NoInfer<" + s.print(d.Inner, depth+1) + ">"
	case TemplateLiteral:
		var b strings.Builder
		b.WriteByte('`')
		for _, sp := range d.Spans {
			if sp.Type == NoType {
				b.WriteString(sp.Text)
			} else {
				b.WriteString("${" + s.print(sp.Type, depth+1) + "}")
			}
		}
		b.WriteByte('`')
		return b.String()
	case StringIntrinsic:
		names := [...]string{"Uppercase", "Lowercase", "Capitalize", "Uncapitalize"}
		name := "StringIntrinsic"
		if int(d.Kind) < len(names) {
			name = names[d.Kind]
		}
		return name + "<" + s.print(d.Arg, depth+1) + ">"
	case Enum:
		return fmt.Sprintf("enum#%d", d.DefID)
	case TypeQuery:
		return "typeof " + d.SymbolRef
	case UniqueSymbol:
		return "unique symbol"
	case ThisType:
		return "this"
	case ModuleNamespace:
		return "namespace " + d.SymbolRef
	case Recursive:
		return fmt.Sprintf("^%d", d.Index)
	case BoundParameter:
		return fmt.Sprintf("#%d", d.Index)
	default:
		return id.String()
	}
}

func joinTypes(s *Store, ids []TypeId, sep string, depth int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = s.print(id, depth+1)
	}
	return strings.Join(parts, sep)
}

func (s *Store) printObjectLike(props []Property, stringIdx, numberIdx *IndexInfo, depth int) string {
	parts := make([]string, 0, len(props)+2)
	for _, p := range props {
		name := s.atoms.Lookup(p.Name)
		mark := ""
		if p.Readonly {
			mark = "readonly "
		}
		opt := ""
		if p.Optional {
			opt = "?"
		}
		parts = append(parts, fmt.Sprintf("%s%s%s: %s", mark, name, opt, s.print(p.Type, depth+1)))
	}
	if stringIdx != nil {
		parts = append(parts, "[key: string]: "+s.print(stringIdx.ValueType, depth+1))
	}
	if numberIdx != nil {
		parts = append(parts, "[key: number]: "+s.print(numberIdx.ValueType, depth+1))
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

func (s *Store) printSignature(sig Signature, depth int) string {
	params := make([]string, len(sig.Params))
	for i, p := range sig.Params {
		opt := ""
		if p.Optional {
			opt = "?"
		}
		rest := ""
		if p.Rest {
			rest = "..."
		}
		params[i] = fmt.Sprintf("%s%s%s: %s", rest, p.Name, opt, s.print(p.Type, depth+1))
	}
	return "(" + strings.Join(params, ", ") + ") => " + s.print(sig.Return, depth+1)
}
