// Package view defines the opaque view-tree contract.
package view

import "context"

// LoginProvider is the reference logged-out view: a credential form
// with addressable username and password inputs.
type LoginProvider struct {
	// Prompt is shown above the form. Empty means no prompt.
	Prompt string
}

// BuildLayout implements Provider.
func (p *LoginProvider) BuildLayout(_ context.Context, _ Options) (*Tree, error) {
	nodes := []*Node{}
	if p.Prompt != "" {
		nodes = append(nodes, &Node{Kind: "label", Text: p.Prompt})
	}
	nodes = append(nodes,
		&Node{ID: "username_label", Kind: "label", Text: "Email Address:", Attrs: map[string]string{"for": FieldUsername}},
		&Node{ID: FieldUsername, Kind: "input", Attrs: map[string]string{"type": "text"}},
		&Node{ID: "password_label", Kind: "label", Text: "Password:", Attrs: map[string]string{"for": FieldPassword}},
		&Node{ID: FieldPassword, Kind: "input", Attrs: map[string]string{"type": "password"}},
	)
	return &Tree{Nodes: nodes}, nil
}

// ContentProvider is the reference logged-in view. It wraps arbitrary
// application content and appends the inert credential placeholders the
// uniform input contract requires.
type ContentProvider struct {
	// Content is the application's own layout. Nil means an empty page.
	Content []*Node
}

// BuildLayout implements Provider.
func (p *ContentProvider) BuildLayout(_ context.Context, _ Options) (*Tree, error) {
	nodes := make([]*Node, 0, len(p.Content)+2)
	nodes = append(nodes, p.Content...)
	// Inert stores keep the credential wiring addressable while logged in.
	nodes = append(nodes,
		&Node{ID: FieldUsername, Kind: "store", Attrs: map[string]string{"data": "dummy"}},
		&Node{ID: FieldPassword, Kind: "store", Attrs: map[string]string{"data": "dummy"}},
	)
	return &Tree{Nodes: nodes}, nil
}
