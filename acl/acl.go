// Package acl decides what a user may view or modify at a given confined
// location. The policy is a pure function over the drive-permission table
// loaded at process start; it has no side effects and is safe to call once
// per listed child item.
package acl

import (
	"strings"

	"github.com/drivenas/nasd/config"
	"github.com/drivenas/nasd/confine"
	"github.com/drivenas/nasd/entities"
)

// Decision is the outcome of a policy check. Modify implies view in every
// rule this policy implements.
type Decision struct {
	CanView   bool
	CanModify bool
}

// Policy evaluates drive permissions for confined paths.
type Policy struct {
	drives map[string]config.Drive
}

// New returns a Policy for the given drive-permission table.
func New(drives []config.Drive) *Policy {
	table := make(map[string]config.Drive, len(drives))
	for _, drive := range drives {
		table[drive.Name] = drive
	}
	return &Policy{drives: table}
}

// Drive returns the permission entry for a drive name.
func (p *Policy) Drive(name string) (config.Drive, bool) {
	drive, ok := p.drives[name]
	return drive, ok
}

// Check returns the access decision for the user at the claimed path.
//
// Superusers can do everything. The storage root itself is viewable by any
// authenticated user but never writable: it only exposes the drive markers,
// not their contents. On an allowed drive, a standard user has full access
// at or below their dedicated folder (drive/username), view-only access at
// the drive root, and no access anywhere else. A public drive is viewable
// everywhere by any authenticated user, never writable through this rule.
func (p *Policy) Check(user *entities.User, claim confine.Claim) Decision {
	if user.Superuser {
		return Decision{CanView: true, CanModify: true}
	}

	rel := claim.Rel()
	if rel == "" {
		return Decision{CanView: true}
	}

	driveName := rel
	if i := strings.IndexByte(rel, '/'); i >= 0 {
		driveName = rel[:i]
	}

	permission, ok := p.drives[driveName]
	if !ok {
		return Decision{}
	}

	if containsUser(permission.AllowedUsers, user.Username) {
		dedicated := driveName + "/" + user.Username
		if rel == dedicated || strings.HasPrefix(rel, dedicated+"/") {
			return Decision{CanView: true, CanModify: true}
		}
		if rel == driveName {
			return Decision{CanView: true}
		}
	}
	if permission.Public {
		return Decision{CanView: true}
	}
	return Decision{}
}

// VisibleNames filters a directory listing according to the policy.
//
// At the storage root only the drives the user can view are shown. At the
// root of a dedicated-folder drive a standard user only sees their own
// subfolder. Anywhere deeper the permission was already established for the
// directory as a whole, so every entry is shown.
func (p *Policy) VisibleNames(user *entities.User, resolver *confine.Resolver, dir confine.Claim, names []string) []string {
	visible := make([]string, 0, len(names))

	switch {
	case dir.IsRoot():
		for _, name := range names {
			child, err := resolver.Child(dir, name)
			if err != nil {
				continue
			}
			if p.Check(user, child).CanView {
				visible = append(visible, name)
			}
		}
	case resolver.Parent(dir).IsRoot():
		permission := p.drives[dir.Base()]
		for _, name := range names {
			if permission.DedicatedFolder && !user.Superuser && name != user.Username {
				continue
			}
			visible = append(visible, name)
		}
	default:
		visible = append(visible, names...)
	}
	return visible
}

func containsUser(users []string, username string) bool {
	for _, u := range users {
		if u == username {
			return true
		}
	}
	return false
}
