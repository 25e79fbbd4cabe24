package types

// templateExpansionCap bounds the Cartesian product a template literal
// type may expand to before falling back to the general `string` type
// (spec §4.1, §3.3.1).
const templateExpansionCap = 1_000

// TemplateLiteral constructs a template-literal type, applying the
// normalisation rules of spec §3.3.1: adjacent text spans are merged,
// nested templates are spliced, null/undefined/void interpolations become
// literal text, empty-string interpolations are elided, any/unknown
// interpolations widen the whole type to string, and never absorbs to
// never. When every interpolation is a literal string / literal-string
// union / stringifiable intrinsic, the result expands to a concrete string
// literal or union of string literals by Cartesian product (spec §4.1).
func (s *Store) TemplateLiteral(spans []TemplateSpan) TypeId {
	spliced := s.spliceNestedTemplates(spans)

	textual := make([]TemplateSpan, 0, len(spliced))
	for _, sp := range spliced {
		if sp.Type == NoType {
			textual = append(textual, sp)
			continue
		}
		switch sp.Type {
		case Never:
			return Never
		case Any, Unknown:
			return String
		case Null:
			textual = append(textual, TemplateSpan{Text: "null", Type: NoType})
			continue
		case Undefined, Void:
			textual = append(textual, TemplateSpan{Text: "undefined", Type: NoType})
			continue
		}
		if lit, ok := s.Underlying(sp.Type).(LiteralString); ok && lit.Value == "" {
			continue // empty-string interpolation elided
		}
		textual = append(textual, sp)
	}

	merged := mergeAdjacentText(textual)

	if strs, ok := s.expandToStrings(merged); ok {
		if len(strs) > templateExpansionCap {
			return String
		}
		ids := make([]TypeId, len(strs))
		for i, str := range strs {
			ids[i] = s.LiteralString(str)
		}
		return s.Union(ids)
	}

	return s.intern(templateKey(merged), TemplateLiteral{Spans: merged})
}

func (s *Store) spliceNestedTemplates(spans []TemplateSpan) []TemplateSpan {
	out := make([]TemplateSpan, 0, len(spans))
	for _, sp := range spans {
		if sp.Type != NoType {
			if inner, ok := s.Underlying(sp.Type).(TemplateLiteral); ok {
				out = append(out, s.spliceNestedTemplates(inner.Spans)...)
				continue
			}
		}
		out = append(out, sp)
	}
	return out
}

func mergeAdjacentText(spans []TemplateSpan) []TemplateSpan {
	out := make([]TemplateSpan, 0, len(spans))
	for _, sp := range spans {
		if sp.Type == NoType && len(out) > 0 && out[len(out)-1].Type == NoType {
			out[len(out)-1].Text += sp.Text
			continue
		}
		out = append(out, sp)
	}
	return out
}

// expandToStrings returns every concrete string the spans can denote, or
// ok=false if some interpolation isn't reducible to a finite literal set.
func (s *Store) expandToStrings(spans []TemplateSpan) ([]string, bool) {
	results := []string{""}
	for _, sp := range spans {
		if sp.Type == NoType {
			for i := range results {
				results[i] += sp.Text
			}
			continue
		}
		candidates, ok := s.candidateStrings(sp.Type)
		if !ok {
			return nil, false
		}
		next := make([]string, 0, len(results)*len(candidates))
		for _, prefix := range results {
			for _, c := range candidates {
				next = append(next, prefix+c)
				if len(next) > templateExpansionCap {
					return next, true // caller enforces the cap
				}
			}
		}
		results = next
	}
	return results, true
}

func (s *Store) candidateStrings(id TypeId) ([]string, bool) {
	switch id {
	case True:
		return []string{"true"}, true
	case False:
		return []string{"false"}, true
	}
	switch d := s.Underlying(id).(type) {
	case LiteralString:
		return []string{d.Value}, true
	case LiteralNumber:
		return []string{formatNumberLiteral(d.Value)}, true
	case LiteralBigInt:
		return []string{d.Value}, true
	case Union:
		var out []string
		for _, m := range d.Members {
			cs, ok := s.candidateStrings(m)
			if !ok {
				return nil, false
			}
			out = append(out, cs...)
		}
		return out, true
	default:
		return nil, false
	}
}

func formatNumberLiteral(v float64) string {
	// %g matches JS's default numeric-to-string for the literal values a
	// template-literal type interpolation realistically carries.
	return trimFloat(v)
}

func templateKey(spans []TemplateSpan) string {
	key := "tmpl:"
	for _, sp := range spans {
		if sp.Type == NoType {
			key += "T(" + sp.Text + ")"
		} else {
			key += "V(" + sp.Type.String() + ")"
		}
	}
	return key
}
