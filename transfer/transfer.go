// Package transfer orchestrates multi-item copy/cut/paste and bulk delete.
// A staged selection is held per user session until a paste consumes it;
// per-item failures feed an aggregate instead of aborting the batch.
package transfer

import (
	"os"
	"path"

	"github.com/drivenas/nasd/acl"
	"github.com/drivenas/nasd/codes"
	"github.com/drivenas/nasd/confine"
	"github.com/drivenas/nasd/entities"
	"github.com/drivenas/nasd/fileops"
	"github.com/drivenas/nasd/helpers"

	"github.com/sirupsen/logrus"
)

type (
	// Pending is the session-scoped record of items staged for a copy or
	// cut, awaiting a paste target. It is consumed exactly once.
	Pending struct {
		Operation  entities.Operation `json:"operation"`
		Items      []string           `json:"items"`       // encoded paths relative to the storage root
		SourcePath string             `json:"source_path"` // encoded directory the items were staged from
	}

	// Store holds at most one Pending per user session.
	Store interface {
		Get(username string) (*Pending, bool)
		Set(username string, pending *Pending)
		Clear(username string)
	}

	// SkippedItem names an item that was not transferred and why.
	SkippedItem struct {
		Name   string
		Reason codes.Code
	}

	// PasteResult aggregates the outcome of one paste cycle.
	PasteResult struct {
		Operation entities.Operation
		Success   int
		Failed    int
		Skipped   []SkippedItem
	}

	// BulkDeleteResult aggregates the outcome of a bulk delete.
	BulkDeleteResult struct {
		Deleted int
		Failed  []string
	}

	// Engine runs the staged-transfer state machine.
	Engine struct {
		resolver *confine.Resolver
		policy   *acl.Policy
		ops      *fileops.Operations
		store    Store
		log      *logrus.Entry
	}
)

// NewEngine returns an Engine.
func NewEngine(resolver *confine.Resolver, policy *acl.Policy, ops *fileops.Operations, store Store, log *logrus.Entry) *Engine {
	return &Engine{resolver: resolver, policy: policy, ops: ops, store: store, log: log}
}

// Stage records the selection for a later paste. The last staged selection
// wins; an empty selection stages nothing.
func (e *Engine) Stage(user *entities.User, operation entities.Operation, sourcePath string, items []string) (int, error) {
	if len(items) == 0 {
		return 0, codes.NewErr(codes.BadInputData, "no items selected")
	}
	e.store.Set(user.Username, &Pending{
		Operation:  operation,
		Items:      items,
		SourcePath: sourcePath,
	})
	return len(items), nil
}

// Staged returns the pending transfer without consuming it.
func (e *Engine) Staged(user *entities.User) (*Pending, bool) {
	return e.store.Get(user.Username)
}

// Paste consumes the pending transfer and copies or moves every staged item
// into the target directory. Items are processed in staging order and
// individual failures never abort the batch. The pending transfer is
// restored verbatim only when the paste fails because the user cannot
// modify the target; in every other outcome it stays consumed.
func (e *Engine) Paste(user *entities.User, target confine.Claim) (*PasteResult, error) {
	pending, ok := e.store.Get(user.Username)
	if !ok {
		return nil, codes.NewErr(codes.NotFound, "no items staged for paste or the selection expired")
	}
	e.store.Clear(user.Username)

	if !e.policy.Check(user, target).CanModify {
		e.store.Set(user.Username, pending)
		return nil, codes.NewErr(codes.Denied, "")
	}

	result := &PasteResult{Operation: pending.Operation}
	for _, encodedItem := range pending.Items {
		name := displayName(encodedItem)

		source, err := e.resolver.Resolve(encodedItem)
		if err != nil {
			e.log.WithField("path", encodedItem).WithError(err).Warn("staged item escapes the storage root")
			result.Failed++
			continue
		}
		name = source.Base()

		// a folder cannot be pasted into itself or its own descendant
		if target.IsWithin(source) {
			result.Skipped = append(result.Skipped, SkippedItem{Name: name, Reason: codes.RecursiveTarget})
			result.Failed++
			continue
		}

		destination, err := e.resolver.Child(target, name)
		if err != nil {
			result.Failed++
			continue
		}
		if _, err := os.Stat(destination.Abs()); err == nil {
			result.Skipped = append(result.Skipped, SkippedItem{Name: name, Reason: codes.AlreadyExists})
			result.Failed++
			continue
		}

		if pending.Operation == entities.OperationCut {
			err = e.ops.Move(source, destination)
		} else {
			err = e.ops.Copy(source, destination)
		}
		if err != nil {
			e.log.WithField("item", name).WithError(err).Error("cannot transfer item")
			result.Failed++
			continue
		}
		result.Success++
	}
	return result, nil
}

// BulkDelete deletes every listed item independently, applying the same
// per-item confinement and root-protection rules as a single delete, and
// continues past individual failures.
func (e *Engine) BulkDelete(user *entities.User, dir confine.Claim, items []string) (*BulkDeleteResult, error) {
	if len(items) == 0 {
		return nil, codes.NewErr(codes.BadInputData, "no items selected")
	}
	if !e.policy.Check(user, dir).CanModify {
		return nil, codes.NewErr(codes.Denied, "")
	}

	result := &BulkDeleteResult{}
	for _, encodedItem := range items {
		name := displayName(encodedItem)

		claim, err := e.resolver.Resolve(encodedItem)
		if err != nil {
			e.log.WithField("path", encodedItem).WithError(err).Warn("item escapes the storage root")
			result.Failed = append(result.Failed, name)
			continue
		}
		name = claim.Base()

		if _, err := e.ops.Delete(claim); err != nil {
			result.Failed = append(result.Failed, name)
			continue
		}
		result.Deleted++
	}
	return result, nil
}

func displayName(encodedItem string) string {
	decoded, err := helpers.DecodePath(encodedItem)
	if err != nil {
		decoded = encodedItem
	}
	return path.Base(decoded)
}
