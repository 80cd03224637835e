// Package fileops implements the single-item filesystem primitives: create
// folder, rename, delete, atomic upload, recursive copy, move and folder
// zip-streaming. It performs no permission checks; callers gate every
// operation through the access policy first.
package fileops

import (
	"archive/zip"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/drivenas/nasd/codes"
	"github.com/drivenas/nasd/confine"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Entry is a file or directory resolved once by stat and consumed uniformly
// by all operations.
type Entry struct {
	Claim   confine.Claim
	IsDir   bool
	Size    int64
	ModTime time.Time
}

// Operations performs confined filesystem mutations.
type Operations struct {
	resolver *confine.Resolver
	log      *logrus.Entry
}

// New returns Operations bound to a resolver.
func New(resolver *confine.Resolver, log *logrus.Entry) *Operations {
	return &Operations{resolver: resolver, log: log}
}

// ValidateName rejects names that are empty, contain parent references or
// separators, or start with a hidden-file marker.
func ValidateName(name string) error {
	if name == "" || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return codes.NewErr(codes.InvalidName, "")
	}
	return nil
}

// Stat resolves a claim to a tagged file-or-directory entry.
func (o *Operations) Stat(claim confine.Claim) (*Entry, error) {
	finfo, err := os.Stat(claim.Abs())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, codes.NewErr(codes.NotFound, err.Error())
		}
		return nil, err
	}
	return &Entry{Claim: claim, IsDir: finfo.IsDir(), Size: finfo.Size(), ModTime: finfo.ModTime()}, nil
}

// CreateFolder creates exactly one directory level under dir.
func (o *Operations) CreateFolder(dir confine.Claim, name string) (confine.Claim, error) {
	if err := ValidateName(name); err != nil {
		return confine.Claim{}, err
	}
	target, err := o.resolver.Child(dir, name)
	if err != nil {
		return confine.Claim{}, err
	}
	if _, err := os.Stat(target.Abs()); err == nil {
		return confine.Claim{}, codes.NewErr(codes.AlreadyExists, "")
	}
	if err := os.Mkdir(target.Abs(), 0755); err != nil {
		return confine.Claim{}, err
	}
	return target, nil
}

// Rename atomically renames an item to a sibling name.
func (o *Operations) Rename(old confine.Claim, newName string) (confine.Claim, error) {
	if err := ValidateName(newName); err != nil {
		return confine.Claim{}, err
	}
	target, err := o.resolver.Child(o.resolver.Parent(old), newName)
	if err != nil {
		return confine.Claim{}, err
	}
	if _, err := os.Stat(target.Abs()); err == nil {
		return confine.Claim{}, codes.NewErr(codes.AlreadyExists, "")
	}
	if err := os.Rename(old.Abs(), target.Abs()); err != nil {
		if os.IsNotExist(err) {
			return confine.Claim{}, codes.NewErr(codes.NotFound, err.Error())
		}
		return confine.Claim{}, err
	}
	return target, nil
}

// Delete removes a file or recursively removes a directory. It refuses to
// delete the storage root itself.
func (o *Operations) Delete(target confine.Claim) (*Entry, error) {
	if target.IsRoot() {
		return nil, codes.NewErr(codes.ForbiddenTarget, "refusing to delete the storage root")
	}
	entry, err := o.Stat(target)
	if err != nil {
		return nil, err
	}
	if entry.IsDir {
		err = os.RemoveAll(target.Abs())
	} else {
		err = os.Remove(target.Abs())
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Upload writes the stream to a uniquely named temporary file in the final
// directory and atomically renames it into place, so a partially written
// file is never visible under the final name. Missing intermediate
// directories of relName are created.
func (o *Operations) Upload(dir confine.Claim, relName string, r io.Reader) (confine.Claim, error) {
	final, err := o.resolver.ResolveDecoded(path.Join(dir.Rel(), relName))
	if err != nil {
		return confine.Claim{}, err
	}
	if !final.IsWithin(dir) || final.Abs() == dir.Abs() {
		return confine.Claim{}, codes.NewErr(codes.InvalidName, "")
	}

	finalDir := filepath.Dir(final.Abs())
	if err := os.MkdirAll(finalDir, 0755); err != nil {
		return confine.Claim{}, err
	}

	tempPath := filepath.Join(finalDir, uuid.New().String()+".tmp")
	fd, err := os.Create(tempPath)
	if err != nil {
		return confine.Claim{}, err
	}
	if _, err := io.Copy(fd, r); err != nil {
		fd.Close()
		os.Remove(tempPath)
		return confine.Claim{}, err
	}
	if err := fd.Close(); err != nil {
		os.Remove(tempPath)
		return confine.Claim{}, err
	}
	if err := os.Rename(tempPath, final.Abs()); err != nil {
		os.Remove(tempPath)
		return confine.Claim{}, err
	}
	o.log.WithField("path", final.Rel()).Debug("upload renamed into place")
	return final, nil
}

// WriteFolderArchive streams a zip of the whole subtree to w. The folder's
// own name is the sole top-level entry inside the archive.
func (o *Operations) WriteFolderArchive(folder confine.Claim, w io.Writer) error {
	entry, err := o.Stat(folder)
	if err != nil {
		return err
	}
	if !entry.IsDir {
		return codes.NewErr(codes.BadInputData, "object is not a folder")
	}

	zw := zip.NewWriter(w)
	base := filepath.Dir(folder.Abs())
	err = filepath.Walk(folder.Abs(), func(p string, finfo os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		arcname, err := filepath.Rel(base, p)
		if err != nil {
			return err
		}
		return writeZipEntry(zw, p, filepath.ToSlash(arcname), finfo)
	})
	if err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// Copy copies a file preserving mode and mtime, or a directory tree
// recursively.
func (o *Operations) Copy(src, dst confine.Claim) error {
	entry, err := o.Stat(src)
	if err != nil {
		return err
	}
	if entry.IsDir {
		return o.copyTree(src.Abs(), dst.Abs())
	}
	return o.copyFile(src.Abs(), dst.Abs())
}

// Move atomically renames an item to a new confined location.
func (o *Operations) Move(src, dst confine.Claim) error {
	if err := os.Rename(src.Abs(), dst.Abs()); err != nil {
		if os.IsNotExist(err) {
			return codes.NewErr(codes.NotFound, err.Error())
		}
		return err
	}
	return nil
}

func (o *Operations) copyTree(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := o.copyTree(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := o.copyFile(srcPath, dstPath); err != nil {
			return err
		}
	}
	return os.Chtimes(dst, time.Now(), srcInfo.ModTime())
}

func (o *Operations) copyFile(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, time.Now(), srcInfo.ModTime())
}

func writeZipEntry(zw *zip.Writer, p, arcname string, finfo os.FileInfo) error {
	header, err := zip.FileInfoHeader(finfo)
	if err != nil {
		return err
	}
	header.Name = arcname
	if finfo.IsDir() {
		header.Name += "/"
		_, err = zw.CreateHeader(header)
		return err
	}
	header.Method = zip.Deflate
	dst, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	fd, err := os.Open(p)
	if err != nil {
		return err
	}
	defer fd.Close()
	_, err = io.Copy(dst, fd)
	return err
}
