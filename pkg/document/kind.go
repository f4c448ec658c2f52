package document

// Kind classifies a document value for shape dispatch. The substitution
// walker switches exhaustively over Kind, so every supported container
// shape is handled explicitly; anything else is KindOther and passes
// through substitution untouched.
type Kind int

const (
	KindOther Kind = iota
	KindString
	KindStringList
	KindStringTable
	KindDocument
	KindDocumentList
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindStringList:
		return "string list"
	case KindStringTable:
		return "string table"
	case KindDocument:
		return "document"
	case KindDocumentList:
		return "document list"
	default:
		return "other"
	}
}

// KindOf reports the shape of a document value.
func KindOf(v any) Kind {
	switch v.(type) {
	case string:
		return KindString
	case []string:
		return KindStringList
	case [][]string:
		return KindStringTable
	case *Document:
		return KindDocument
	case []*Document:
		return KindDocumentList
	default:
		return KindOther
	}
}

// Normalize narrows a []any to the most specific container shape its
// elements allow: []string, [][]string, or []*Document. Mixed or empty
// lists are returned unchanged.
func Normalize(list []any) any {
	if len(list) == 0 {
		return list
	}
	switch list[0].(type) {
	case string:
		out := make([]string, len(list))
		for i, e := range list {
			s, ok := e.(string)
			if !ok {
				return list
			}
			out[i] = s
		}
		return out
	case []string:
		out := make([][]string, len(list))
		for i, e := range list {
			row, ok := e.([]string)
			if !ok {
				return list
			}
			out[i] = row
		}
		return out
	case *Document:
		out := make([]*Document, len(list))
		for i, e := range list {
			d, ok := e.(*Document)
			if !ok {
				return list
			}
			out[i] = d
		}
		return out
	default:
		return list
	}
}
