// Package simple implements the drives controller on top of the local
// filesystem: paths are confined to the storage root, every operation is
// gated by the access policy and bulk work is delegated to the transfer
// and archiver engines.
package simple

import (
	"io"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/drivenas/nasd/acl"
	"github.com/drivenas/nasd/archiver"
	"github.com/drivenas/nasd/codes"
	"github.com/drivenas/nasd/config"
	"github.com/drivenas/nasd/confine"
	"github.com/drivenas/nasd/entities"
	"github.com/drivenas/nasd/fileops"
	"github.com/drivenas/nasd/helpers"
	"github.com/drivenas/nasd/services/drives/drivescontroller"
	"github.com/drivenas/nasd/transfer"
	"github.com/drivenas/nasd/transfer/cachestore"

	"github.com/sirupsen/logrus"
)

const lastModifiedLayout = "2006-01-02 15:04:05"

type controller struct {
	resolver *confine.Resolver
	policy   *acl.Policy
	ops      *fileops.Operations
	engine   *transfer.Engine
	archiver *archiver.Engine
	log      *logrus.Entry
}

// New returns a DrivesController serving the configured storage root.
func New(conf *config.Config) (drivescontroller.DrivesController, error) {
	dirs := conf.GetDirectives()

	if err := os.MkdirAll(dirs.Storage.Root, 0755); err != nil {
		return nil, err
	}
	resolver, err := confine.NewResolver(dirs.Storage.Root)
	if err != nil {
		return nil, err
	}

	log := helpers.GetAppLogger(conf)
	policy := acl.New(dirs.Storage.Drives)
	ops := fileops.New(resolver, log)
	store := cachestore.New(time.Duration(dirs.Storage.TransferTTLSeconds) * time.Second)

	return &controller{
		resolver: resolver,
		policy:   policy,
		ops:      ops,
		engine:   transfer.NewEngine(resolver, policy, ops, store, log),
		archiver: archiver.NewEngine(resolver, log),
		log:      log,
	}, nil
}

func (c *controller) List(user *entities.User, path string) (*drivescontroller.ListResult, error) {
	dir, err := c.resolver.Resolve(path)
	if err != nil {
		return nil, err
	}
	decision := c.policy.Check(user, dir)
	if !decision.CanView {
		return nil, codes.NewErr(codes.Denied, "you do not have permission to view this content")
	}
	entry, err := c.ops.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !entry.IsDir {
		return nil, codes.NewErr(codes.BadInputData, "object is not a folder")
	}

	osEntries, err := os.ReadDir(dir.Abs())
	if err != nil {
		return nil, err
	}
	names := []string{}
	for _, osEntry := range osEntries {
		// dotfiles stay out of listings
		if strings.HasPrefix(osEntry.Name(), ".") {
			continue
		}
		names = append(names, osEntry.Name())
	}
	names = c.policy.VisibleNames(user, c.resolver, dir, names)

	items := []*entities.ItemInfo{}
	for _, name := range names {
		child, err := c.resolver.Child(dir, name)
		if err != nil {
			continue
		}
		childEntry, err := c.ops.Stat(child)
		if err != nil {
			continue
		}
		size := ""
		if !childEntry.IsDir {
			size = helpers.ConvertBytes(childEntry.Size)
		}
		items = append(items, &entities.ItemInfo{
			Name:         name,
			Path:         child.EncodedRel(),
			IsDir:        childEntry.IsDir,
			Size:         size,
			LastModified: childEntry.ModTime.Format(lastModifiedLayout),
			CanModify:    c.policy.Check(user, child).CanModify,
		})
	}
	sortItems(items)

	return &drivescontroller.ListResult{
		Path:      dir.EncodedRel(),
		Parent:    c.resolver.Parent(dir).EncodedRel(),
		CanModify: decision.CanModify,
		Items:     items,
	}, nil
}

// sortItems orders directories before files, each group alphabetically
// ignoring case.
func sortItems(items []*entities.ItemInfo) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].IsDir != items[j].IsDir {
			return items[i].IsDir
		}
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
}

func (c *controller) Download(user *entities.User, path string) (*drivescontroller.FileStream, error) {
	claim, err := c.resolver.Resolve(path)
	if err != nil {
		return nil, err
	}
	if !c.policy.Check(user, claim).CanView {
		return nil, codes.NewErr(codes.Denied, "you do not have permission to view this content")
	}
	entry, err := c.ops.Stat(claim)
	if err != nil {
		return nil, err
	}
	if entry.IsDir {
		return nil, codes.NewErr(codes.BadInputData, "object is a folder")
	}

	fd, err := os.Open(claim.Abs())
	if err != nil {
		return nil, err
	}
	mimeType := mime.TypeByExtension(filepath.Ext(claim.Base()))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return &drivescontroller.FileStream{
		ReadCloser: fd,
		Name:       claim.Base(),
		Size:       entry.Size,
		MimeType:   mimeType,
	}, nil
}

func (c *controller) DownloadFolder(user *entities.User, path string, w io.Writer) (string, error) {
	claim, err := c.resolver.Resolve(path)
	if err != nil {
		return "", err
	}
	if !c.policy.Check(user, claim).CanView {
		return "", codes.NewErr(codes.Denied, "you cannot download this folder")
	}
	if err := c.ops.WriteFolderArchive(claim, w); err != nil {
		return "", err
	}
	return claim.Base(), nil
}

func (c *controller) CreateFolder(user *entities.User, dirPath, name string) error {
	dir, err := c.resolver.Resolve(dirPath)
	if err != nil {
		return err
	}
	if !c.policy.Check(user, dir).CanModify {
		return codes.NewErr(codes.Denied, "you cannot create a folder in this location")
	}
	_, err = c.ops.CreateFolder(dir, name)
	return err
}

func (c *controller) Rename(user *entities.User, itemPath, newName string) (*drivescontroller.RenameResult, error) {
	item, err := c.resolver.Resolve(itemPath)
	if err != nil {
		return nil, err
	}
	if item.IsRoot() {
		return nil, codes.NewErr(codes.ForbiddenTarget, "cannot rename the storage root")
	}
	// the rename happens in the containing directory, so the permission
	// check runs against the parent. This keeps a user from renaming their
	// own dedicated folder out from under themselves.
	if !c.policy.Check(user, c.resolver.Parent(item)).CanModify {
		return nil, codes.NewErr(codes.Denied, "you cannot modify content in this location")
	}
	oldName := item.Base()
	target, err := c.ops.Rename(item, newName)
	if err != nil {
		return nil, err
	}
	return &drivescontroller.RenameResult{OldName: oldName, NewName: target.Base()}, nil
}

func (c *controller) Delete(user *entities.User, itemPath string) (*drivescontroller.DeleteResult, error) {
	item, err := c.resolver.Resolve(itemPath)
	if err != nil {
		return nil, err
	}
	if item.IsRoot() {
		return nil, codes.NewErr(codes.ForbiddenTarget, "cannot delete the storage root")
	}
	// deletion happens in the containing directory, same parent rule as Rename
	if !c.policy.Check(user, c.resolver.Parent(item)).CanModify {
		return nil, codes.NewErr(codes.Denied, "you cannot modify content in this location")
	}
	entry, err := c.ops.Delete(item)
	if err != nil {
		return nil, err
	}
	return &drivescontroller.DeleteResult{Name: item.Base(), IsDir: entry.IsDir}, nil
}

func (c *controller) Upload(user *entities.User, dirPath, fileName string, r io.Reader) (string, error) {
	dir, err := c.resolver.Resolve(dirPath)
	if err != nil {
		return "", err
	}
	if !c.policy.Check(user, dir).CanModify {
		return "", codes.NewErr(codes.Denied, "you cannot modify content in this location")
	}
	final, err := c.ops.Upload(dir, fileName, r)
	if err != nil {
		return "", err
	}
	return final.Base(), nil
}

func (c *controller) Stage(user *entities.User, operation entities.Operation, dirPath string, items []string) (int, error) {
	return c.engine.Stage(user, operation, dirPath, items)
}

func (c *controller) Staged(user *entities.User) (*transfer.Pending, bool) {
	return c.engine.Staged(user)
}

func (c *controller) Paste(user *entities.User, dirPath string) (*transfer.PasteResult, error) {
	dir, err := c.resolver.Resolve(dirPath)
	if err != nil {
		return nil, err
	}
	return c.engine.Paste(user, dir)
}

func (c *controller) BulkDelete(user *entities.User, dirPath string, items []string) (*transfer.BulkDeleteResult, error) {
	dir, err := c.resolver.Resolve(dirPath)
	if err != nil {
		return nil, err
	}
	return c.engine.BulkDelete(user, dir, items)
}

func (c *controller) Compress(user *entities.User, dirPath string, items []string) (*archiver.CompressResult, error) {
	dir, err := c.resolver.Resolve(dirPath)
	if err != nil {
		return nil, err
	}
	if !c.policy.Check(user, dir).CanModify {
		return nil, codes.NewErr(codes.Denied, "you cannot modify content in this location")
	}
	return c.archiver.Compress(dir, items)
}

func (c *controller) Extract(user *entities.User, dirPath, archivePath string) (*archiver.ExtractResult, error) {
	dir, err := c.resolver.Resolve(dirPath)
	if err != nil {
		return nil, err
	}
	if !c.policy.Check(user, dir).CanModify {
		return nil, codes.NewErr(codes.Denied, "you cannot modify content in this location")
	}
	archive, err := c.resolver.Resolve(archivePath)
	if err != nil {
		return nil, err
	}
	return c.archiver.Extract(dir, archive)
}
