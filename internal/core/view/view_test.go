// Package view defines the opaque view-tree contract.
package view

import (
	"context"
	"errors"
	"testing"

	"github.com/edvros/viewgate-go/internal/core/domain"
)

func TestTreeHasField(t *testing.T) {
	tree := &Tree{Nodes: []*Node{
		{Kind: "div", Children: []*Node{
			{ID: "username", Kind: "input"},
		}},
		{ID: "password", Kind: "input"},
	}}

	if !tree.HasField("username") {
		t.Error("HasField(username) = false, want true (nested)")
	}
	if !tree.HasField("password") {
		t.Error("HasField(password) = false, want true")
	}
	if tree.HasField("missing") {
		t.Error("HasField(missing) = true, want false")
	}

	var nilTree *Tree
	if nilTree.HasField("username") {
		t.Error("nil tree should have no fields")
	}
}

func TestLoginProviderContract(t *testing.T) {
	p := &LoginProvider{Prompt: "Please sign in"}
	if err := VerifyProvider(context.Background(), p); err != nil {
		t.Fatalf("VerifyProvider(login) error = %v", err)
	}

	tree, err := p.BuildLayout(context.Background(), nil)
	if err != nil {
		t.Fatalf("BuildLayout() error = %v", err)
	}
	if len(tree.Nodes) != 5 {
		t.Errorf("login tree has %d nodes, want 5", len(tree.Nodes))
	}
}

func TestContentProviderContract(t *testing.T) {
	p := &ContentProvider{Content: []*Node{
		{ID: "chk1", Kind: "checklist"},
		{ID: "reset", Kind: "button", Text: "Reset"},
	}}
	if err := VerifyProvider(context.Background(), p); err != nil {
		t.Fatalf("VerifyProvider(content) error = %v", err)
	}

	tree, _ := p.BuildLayout(context.Background(), nil)
	// Application content plus the two inert credential stores.
	if len(tree.Nodes) != 4 {
		t.Errorf("content tree has %d nodes, want 4", len(tree.Nodes))
	}
}

func TestVerifyProviderMalformed(t *testing.T) {
	bad := ProviderFunc(func(context.Context, Options) (*Tree, error) {
		return &Tree{Nodes: []*Node{{ID: "username", Kind: "input"}}}, nil
	})
	err := VerifyProvider(context.Background(), bad)
	if !errors.Is(err, domain.ErrMalformedCollaborator) {
		t.Errorf("VerifyProvider error = %v, want ErrMalformedCollaborator", err)
	}
}

func TestVerifyProviderBuildFailure(t *testing.T) {
	boom := errors.New("boom")
	bad := ProviderFunc(func(context.Context, Options) (*Tree, error) {
		return nil, boom
	})
	err := VerifyProvider(context.Background(), bad)
	if !errors.Is(err, domain.ErrViewBuildFailed) {
		t.Errorf("VerifyProvider error = %v, want ErrViewBuildFailed", err)
	}
	if !errors.Is(err, boom) {
		t.Error("VerifyProvider should preserve the build cause")
	}
}

func TestProvidersRebuildFreshTrees(t *testing.T) {
	p := &LoginProvider{}
	a, _ := p.BuildLayout(context.Background(), nil)
	b, _ := p.BuildLayout(context.Background(), nil)
	if a == b {
		t.Error("BuildLayout() returned the same tree twice; trees must be rebuilt per call")
	}
}
