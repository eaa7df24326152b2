package scene

import "golang.org/x/net/html"

// KeyAttr is set on every element a Layer binds, so clients can address elements by
// their data key.
const KeyAttr = "data-key"

// Bound is an element bound to the data at Index.
type Bound struct {
	Index int
	Key   string
	El    *html.Node
}

// Selection is the result of a join. Enter and Update are in data order, Exit holds
// elements whose key is no longer present and which have already been detached.
type Selection struct {
	Enter  []Bound
	Update []Bound
	Exit   []*html.Node
}

// Layer is a <g> element whose children of one tag are bound to data keys.
type Layer struct {
	group *html.Node
	tag   string
	elems map[string]*html.Node
}

// NewLayer appends a group to parent and returns it as a Layer binding tag elements.
func NewLayer(parent *html.Node, tag string, attrs ...string) *Layer {
	return &Layer{
		group: Append(parent, El("g", attrs...)),
		tag:   tag,
		elems: make(map[string]*html.Node),
	}
}

func (l *Layer) Group() *html.Node {
	return l.group
}

// Join binds keys to the layer's elements. Elements are created for new keys and
// appended, elements for missing keys are removed. Elements for keys that persist
// are left untouched. A key repeated in keys is bound once, to its first index.
func (l *Layer) Join(keys []string) Selection {
	var sel Selection
	live := make(map[string]struct{}, len(keys))
	for i, k := range keys {
		if _, dup := live[k]; dup {
			continue
		}
		live[k] = struct{}{}
		if el, ok := l.elems[k]; ok {
			sel.Update = append(sel.Update, Bound{Index: i, Key: k, El: el})
			continue
		}
		el := Append(l.group, El(l.tag, KeyAttr, k))
		l.elems[k] = el
		sel.Enter = append(sel.Enter, Bound{Index: i, Key: k, El: el})
	}
	for c := l.group.FirstChild; c != nil; c = c.NextSibling {
		k, _ := Attr(c, KeyAttr)
		if _, ok := live[k]; !ok {
			sel.Exit = append(sel.Exit, c)
		}
	}
	for _, el := range sel.Exit {
		k, _ := Attr(el, KeyAttr)
		delete(l.elems, k)
		Remove(el)
	}
	return sel
}

// Get returns the element bound to key.
func (l *Layer) Get(key string) (*html.Node, bool) {
	el, ok := l.elems[key]
	return el, ok
}

func (l *Layer) Len() int {
	return len(l.elems)
}

// Each calls fn for the bound elements in document order.
func (l *Layer) Each(fn func(key string, el *html.Node)) {
	for c := l.group.FirstChild; c != nil; c = c.NextSibling {
		k, _ := Attr(c, KeyAttr)
		fn(k, c)
	}
}
