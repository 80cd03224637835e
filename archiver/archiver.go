// Package archiver builds and unpacks zip archives inside the storage root.
package archiver

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/drivenas/nasd/codes"
	"github.com/drivenas/nasd/confine"
	"github.com/drivenas/nasd/helpers"

	"github.com/sirupsen/logrus"
)

var (
	// ErrNothingCompressed is returned when no selected item contributed a
	// single entry to the archive.
	ErrNothingCompressed = codes.NewErr(codes.BadInputData, "no items could be compressed")

	// ErrWriteDenied is returned when the filesystem refuses to take the
	// extracted files.
	ErrWriteDenied = codes.NewErr(codes.Denied, "no permission to write extracted files")
)

type (
	// CompressResult reports one compress cycle.
	CompressResult struct {
		ArchiveName string
		Selected    int
	}

	// ExtractResult reports one extract cycle.
	ExtractResult struct {
		Entries  int
		TopLevel string // first entry's top path segment, "" for an empty archive
	}

	// Engine compresses selections into archives and extracts archives,
	// keeping every path it touches confined to the storage root.
	Engine struct {
		resolver *confine.Resolver
		log      *logrus.Entry
	}
)

// NewEngine returns an Engine bound to a resolver.
func NewEngine(resolver *confine.Resolver, log *logrus.Entry) *Engine {
	return &Engine{resolver: resolver, log: log}
}

// Compress writes the selected items into a new zip archive in dir. A single
// selected item names the archive after itself; a multi-item selection gets
// a timestamped name. Missing items are skipped silently; directories are
// walked with entries named relative to the item's parent and plain files
// are added under their basename. An archive that ends up empty is removed.
func (e *Engine) Compress(dir confine.Claim, items []string) (*CompressResult, error) {
	if len(items) == 0 {
		return nil, codes.NewErr(codes.BadInputData, "no items selected")
	}

	archiveName := "Compressed_folder_" + time.Now().Format("20060102_150405") + ".zip"
	if len(items) == 1 {
		if decoded, err := helpers.DecodePath(items[0]); err == nil {
			archiveName = path.Base(decoded) + ".zip"
		}
	}
	archive, err := e.resolver.Child(dir, archiveName)
	if err != nil {
		return nil, err
	}

	fd, err := os.Create(archive.Abs())
	if err != nil {
		return nil, codes.NewErr(codes.Internal, err.Error())
	}
	zw := zip.NewWriter(fd)

	written := 0
	for _, encodedItem := range items {
		claim, err := e.resolver.Resolve(encodedItem)
		if err != nil {
			e.log.WithField("path", encodedItem).WithError(err).Warn("selected item escapes the storage root")
			continue
		}
		count, err := e.addItem(zw, claim)
		if err != nil {
			zw.Close()
			fd.Close()
			os.Remove(archive.Abs())
			return nil, codes.NewErr(codes.Internal, err.Error())
		}
		written += count
	}

	if err := zw.Close(); err != nil {
		fd.Close()
		os.Remove(archive.Abs())
		return nil, codes.NewErr(codes.Internal, err.Error())
	}
	if err := fd.Close(); err != nil {
		os.Remove(archive.Abs())
		return nil, codes.NewErr(codes.Internal, err.Error())
	}
	if written == 0 {
		os.Remove(archive.Abs())
		return nil, ErrNothingCompressed
	}
	return &CompressResult{ArchiveName: archiveName, Selected: len(items)}, nil
}

// addItem adds one selected item to the archive and returns the number of
// entries written. A missing item contributes nothing.
func (e *Engine) addItem(zw *zip.Writer, claim confine.Claim) (int, error) {
	finfo, err := os.Stat(claim.Abs())
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	if !finfo.IsDir() {
		if err := writeEntry(zw, claim.Abs(), claim.Base(), finfo); err != nil {
			return 0, err
		}
		return 1, nil
	}

	count := 0
	base := filepath.Dir(claim.Abs())
	err = filepath.Walk(claim.Abs(), func(p string, finfo os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		arcname, err := filepath.Rel(base, p)
		if err != nil {
			return err
		}
		if err := writeEntry(zw, p, filepath.ToSlash(arcname), finfo); err != nil {
			return err
		}
		count++
		return nil
	})
	return count, err
}

// Extract unpacks a zip archive into dest. Only names ending in ".zip" are
// accepted and every entry must land inside dest.
func (e *Engine) Extract(dest, archive confine.Claim) (*ExtractResult, error) {
	if !strings.HasSuffix(archive.Base(), ".zip") {
		return nil, codes.NewErr(codes.BadInputData, "only zip archives can be extracted")
	}
	if _, err := os.Stat(archive.Abs()); err != nil {
		if os.IsNotExist(err) {
			return nil, codes.NewErr(codes.NotFound, err.Error())
		}
		return nil, codes.NewErr(codes.Internal, err.Error())
	}

	zr, err := zip.OpenReader(archive.Abs())
	if err != nil {
		if errors.Is(err, zip.ErrFormat) {
			return nil, codes.NewErr(codes.CorruptArchive, "file is not a valid zip archive")
		}
		return nil, codes.NewErr(codes.Internal, err.Error())
	}
	defer zr.Close()

	result := &ExtractResult{}
	for _, entry := range zr.File {
		target, err := e.resolver.ResolveDecoded(path.Join(dest.Rel(), entry.Name))
		if err != nil {
			return nil, err
		}
		if !target.IsWithin(dest) {
			e.log.WithField("entry", entry.Name).Warn("archive entry escapes the destination")
			return nil, codes.NewErr(codes.ConfinementViolation, "archive entry escapes the destination")
		}
		if result.Entries == 0 {
			result.TopLevel = topSegment(entry.Name)
		}
		if err := e.extractEntry(entry, target); err != nil {
			return nil, err
		}
		result.Entries++
	}
	return result, nil
}

func (e *Engine) extractEntry(entry *zip.File, target confine.Claim) error {
	if entry.FileInfo().IsDir() {
		if err := os.MkdirAll(target.Abs(), 0755); err != nil {
			return wrapExtractErr(err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(target.Abs()), 0755); err != nil {
		return wrapExtractErr(err)
	}

	in, err := entry.Open()
	if err != nil {
		if errors.Is(err, zip.ErrFormat) || errors.Is(err, zip.ErrChecksum) || errors.Is(err, zip.ErrAlgorithm) {
			return codes.NewErr(codes.CorruptArchive, err.Error())
		}
		return wrapExtractErr(err)
	}
	defer in.Close()

	out, err := os.Create(target.Abs())
	if err != nil {
		return wrapExtractErr(err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(target.Abs())
		if errors.Is(err, zip.ErrFormat) || errors.Is(err, zip.ErrChecksum) {
			return codes.NewErr(codes.CorruptArchive, err.Error())
		}
		return wrapExtractErr(err)
	}
	return wrapExtractErr(out.Close())
}

func wrapExtractErr(err error) error {
	if err == nil {
		return nil
	}
	if os.IsPermission(err) {
		return ErrWriteDenied
	}
	return codes.NewErr(codes.Internal, err.Error())
}

func topSegment(name string) string {
	name = strings.TrimPrefix(name, "/")
	if i := strings.Index(name, "/"); i >= 0 {
		return name[:i]
	}
	return name
}

func writeEntry(zw *zip.Writer, p, arcname string, finfo os.FileInfo) error {
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
