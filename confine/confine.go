// Package confine resolves user-supplied relative paths against the storage
// root. Every filesystem-touching component of the daemon accepts only
// Claims, never raw strings, so a path that escapes the root cannot be
// constructed outside this package.
package confine

import (
	"path/filepath"
	"strings"

	"github.com/drivenas/nasd/codes"
	"github.com/drivenas/nasd/helpers"
)

// A Claim is an absolute filesystem path guaranteed by construction to lie
// within the storage root.
type Claim struct {
	abs string
	rel string // slash-separated, "" for the root itself
}

// Abs returns the confined absolute path.
func (c Claim) Abs() string {
	return c.abs
}

// Rel returns the path relative to the storage root, slash-separated.
// It is empty for the root itself.
func (c Claim) Rel() string {
	return c.rel
}

// EncodedRel returns the relative path with every segment percent-encoded,
// the form used in URLs and redirect targets.
func (c Claim) EncodedRel() string {
	return helpers.EncodePath(c.rel)
}

// Base returns the last segment of the path.
func (c Claim) Base() string {
	return filepath.Base(c.abs)
}

// IsRoot reports whether the claim is the storage root itself.
func (c Claim) IsRoot() bool {
	return c.rel == ""
}

// IsWithin reports whether the claim equals the ancestor or lies below it.
func (c Claim) IsWithin(ancestor Claim) bool {
	if c.abs == ancestor.abs {
		return true
	}
	return strings.HasPrefix(c.abs, ancestor.abs+string(filepath.Separator))
}

// Resolver turns encoded relative paths into Claims.
type Resolver struct {
	root string
}

// NewResolver returns a Resolver confining paths to the given root directory.
func NewResolver(root string) (*Resolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &Resolver{root: filepath.Clean(abs)}, nil
}

// Root returns the claim for the storage root itself.
func (r *Resolver) Root() Claim {
	return Claim{abs: r.root}
}

// Resolve percent-decodes the relative path, joins it to the storage root,
// canonicalizes the result and accepts it only if it stays inside the root.
// The confinement check runs on the canonical path, never on the raw string.
func (r *Resolver) Resolve(encodedRel string) (Claim, error) {
	decoded, err := helpers.DecodePath(encodedRel)
	if err != nil {
		return Claim{}, codes.NewErr(codes.BadInputData, "malformed path encoding")
	}
	return r.ResolveDecoded(decoded)
}

// ResolveDecoded behaves like Resolve for an already decoded relative path.
func (r *Resolver) ResolveDecoded(rel string) (Claim, error) {
	abs := filepath.Clean(filepath.Join(r.root, filepath.FromSlash(rel)))
	if abs != r.root && !strings.HasPrefix(abs, r.root+string(filepath.Separator)) {
		return Claim{}, codes.NewErr(codes.ConfinementViolation, "")
	}
	return Claim{abs: abs, rel: r.relOf(abs)}, nil
}

// Parent returns the claim of the containing directory, clamped at the root.
func (r *Resolver) Parent(c Claim) Claim {
	if c.IsRoot() {
		return c
	}
	abs := filepath.Dir(c.abs)
	return Claim{abs: abs, rel: r.relOf(abs)}
}

// Child returns the claim for a directly named entry of a directory claim.
// The name must be a single path segment.
func (r *Resolver) Child(dir Claim, name string) (Claim, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return Claim{}, codes.NewErr(codes.InvalidName, "")
	}
	abs := filepath.Join(dir.abs, name)
	return Claim{abs: abs, rel: r.relOf(abs)}, nil
}

func (r *Resolver) relOf(abs string) string {
	if abs == r.root {
		return ""
	}
	return filepath.ToSlash(strings.TrimPrefix(abs, r.root+string(filepath.Separator)))
}
