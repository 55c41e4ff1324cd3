package gospec

// MessageMap returns nil when v holds no FieldError. Otherwise it returns a
// value shaped like v that keeps only the failing paths: maps keep failing
// keys, sequences keep their length with nil at passing indices, and each
// FieldError is replaced by its message.
func MessageMap(v any) any {
	if !HasError(v) {
		return nil
	}
	return messageTree(v)
}

func messageTree(v any) any {
	switch t := v.(type) {
	case *FieldError:
		return t.Message
	case map[string]any:
		out := make(map[string]any)
		for k, vv := range t {
			if HasError(vv) {
				out[k] = messageTree(vv)
			}
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			if HasError(vv) {
				out[i] = messageTree(vv)
			}
		}
		return out
	}
	return nil
}

// MessageSeq returns nil when v holds no FieldError. Otherwise it returns one
// "dotted.path message" line per failing leaf, depth first, keys in order.
// A FieldError at the root renders as its bare message.
func MessageSeq(v any) []string {
	mm := MessageMap(v)
	if mm == nil {
		return nil
	}
	var out []string
	walkMessages(mm, pathRef{}, func(at pathRef, msg string) {
		if len(at.parts) == 0 {
			out = append(out, msg)
			return
		}
		out = append(out, at.Dotted()+" "+msg)
	})
	return out
}

func walkMessages(v any, at pathRef, fn func(at pathRef, msg string)) {
	switch t := v.(type) {
	case string:
		fn(at, t)
	case map[string]any:
		for _, k := range sortedKeys(t) {
			walkMessages(t[k], at.Field(k), fn)
		}
	case []any:
		for i, vv := range t {
			if vv != nil {
				walkMessages(vv, at.Index(i), fn)
			}
		}
	}
}
