package proxy

import (
	"fmt"

	"github.com/vango-dev/cosmos/internal/errors"
)

type instance struct {
	typ   *Type
	proxy Proxy
	scope *Scope
}

// Host mounts a proxy chain and keeps its instances alive across renders.
//
// On every Render the host walks the chain from the first proxy. An instance
// is reused when the element at its position has the same Type; otherwise
// that instance and everything after it are disposed and rebuilt. Instances
// past the point where a proxy returns Text are disposed as well.
//
// A Host is not safe for concurrent use.
type Host struct {
	root    *Scope
	mounted []*instance
}

// NewHost creates a host whose scopes descend from parent (which may be nil).
func NewHost(parent *Scope) *Host {
	return &Host{root: NewScope(parent)}
}

// Render renders props through the chain in props.NextProxy and returns the
// component output. A panic in a proxy or the component is returned as an
// E302 error wrapping the panic value.
func (h *Host) Render(props Props) (out string, err error) {
	current := props.NextProxy.Value().Name
	defer func() {
		if r := recover(); r != nil {
			err = renderPanic(current, r)
		}
	}()

	var node Node = props.Forward()
	for depth := 0; ; depth++ {
		switch n := node.(type) {
		case *Element:
			current = n.Type.Name
			inst := h.instanceAt(depth, n)
			node = inst.proxy.Render(n.Props)
		case Text:
			h.truncate(depth)
			return string(n), nil
		default:
			h.truncate(depth)
			return "", nil
		}
	}
}

// instanceAt returns the instance mounted at depth for el, constructing and
// attaching a new one when needed.
func (h *Host) instanceAt(depth int, el *Element) *instance {
	if depth < len(h.mounted) && h.mounted[depth].typ == el.Type {
		return h.mounted[depth]
	}
	h.truncate(depth)

	parent := h.root
	if depth > 0 {
		parent = h.mounted[depth-1].scope
	}
	scope := NewScope(parent)

	defer func() {
		if r := recover(); r != nil {
			scope.Dispose()
			if len(h.mounted) > depth {
				h.mounted = h.mounted[:depth]
			}
			panic(r)
		}
	}()

	p := el.Type.New(el.Props, scope)
	if d, ok := p.(Detacher); ok {
		scope.OnCleanup(d.OnDetach)
	}

	inst := &instance{typ: el.Type, proxy: p, scope: scope}
	h.mounted = append(h.mounted, inst)

	if a, ok := p.(Attacher); ok {
		a.OnAttach()
	}
	return inst
}

// truncate disposes every instance at or after depth, innermost first.
func (h *Host) truncate(depth int) {
	for i := len(h.mounted) - 1; i >= depth; i-- {
		h.mounted[i].scope.Dispose()
	}
	if depth < len(h.mounted) {
		h.mounted = h.mounted[:depth]
	}
}

// Unmount disposes every mounted instance. The host can be rendered again.
func (h *Host) Unmount() {
	h.truncate(0)
}

// Scope returns the innermost mounted scope, or the host's root scope when
// nothing is mounted.
func (h *Host) Scope() *Scope {
	if len(h.mounted) == 0 {
		return h.root
	}
	return h.mounted[len(h.mounted)-1].scope
}

// Depth returns the number of mounted instances, the component included.
func (h *Host) Depth() int {
	return len(h.mounted)
}

func renderPanic(name string, r any) error {
	cause, ok := r.(error)
	if !ok {
		cause = fmt.Errorf("%v", r)
	}
	return errors.New("E302").WithSubject(name).Wrap(cause)
}
