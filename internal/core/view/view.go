// Package view defines the opaque view-tree contract between the
// session controller and its view-building collaborators.
package view

import (
	"context"
	"encoding/json"

	"github.com/edvros/viewgate-go/internal/core/domain"
)

// Field ids every view tree must expose so the credential-capture
// wiring works uniformly across the login and content views. The
// content view's fields may be inert placeholders.
const (
	FieldUsername = "username"
	FieldPassword = "password"
)

// Node is one element of a view tree. The session controller never
// inspects nodes beyond the id contract; their meaning belongs entirely
// to the rendering layer of the surrounding application.
type Node struct {
	ID       string            `json:"id,omitempty"`
	Kind     string            `json:"kind"`
	Text     string            `json:"text,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []*Node           `json:"children,omitempty"`
}

// Tree is a view tree produced by a provider. It is treated as an
// immutable blob by the controller: built fresh on every transition,
// placed into the render target, and never cached.
type Tree struct {
	Nodes []*Node `json:"nodes"`
}

// MarshalJSON renders the tree for transport to the client.
func (t *Tree) MarshalJSON() ([]byte, error) {
	type alias Tree
	return json.Marshal((*alias)(t))
}

// HasField reports whether any node in the tree carries the given id.
func (t *Tree) HasField(id string) bool {
	if t == nil {
		return false
	}
	var walk func(nodes []*Node) bool
	walk = func(nodes []*Node) bool {
		for _, n := range nodes {
			if n == nil {
				continue
			}
			if n.ID == id {
				return true
			}
			if walk(n.Children) {
				return true
			}
		}
		return false
	}
	return walk(t.Nodes)
}

// Options carries provider-specific build configuration. The controller
// passes it through opaquely.
type Options map[string]any

// Provider builds a view tree. Providers may be stateful or
// configuration-driven, which is why trees are rebuilt on every
// transition instead of cached.
type Provider interface {
	// BuildLayout returns a freshly built view tree.
	BuildLayout(ctx context.Context, opts Options) (*Tree, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, opts Options) (*Tree, error)

// BuildLayout implements Provider.
func (f ProviderFunc) BuildLayout(ctx context.Context, opts Options) (*Tree, error) {
	return f(ctx, opts)
}

// VerifyProvider builds one layout from the provider and checks the
// addressable-field contract. It is meant to run at integration time
// (wiring or integration tests), not on the hot path: a provider that
// fails here is a configuration error, not a runtime condition.
func VerifyProvider(ctx context.Context, p Provider) error {
	tree, err := p.BuildLayout(ctx, nil)
	if err != nil {
		return domain.ErrViewBuildFailed.WithCause(err)
	}
	if tree == nil {
		return domain.ErrMalformedCollaborator.WithDetails("provider returned nil tree")
	}
	for _, id := range []string{FieldUsername, FieldPassword} {
		if !tree.HasField(id) {
			return domain.ErrMalformedCollaborator.WithDetails("missing addressable field " + id)
		}
	}
	return nil
}
