package drivescontroller

import (
	"io"

	"github.com/drivenas/nasd/archiver"
	"github.com/drivenas/nasd/entities"
	"github.com/drivenas/nasd/transfer"
)

type (
	// DrivesController is the interface drives controllers must implement
	// to serve the file-manager operations. All paths are percent-encoded
	// and relative to the storage root.
	DrivesController interface {
		List(user *entities.User, path string) (*ListResult, error)
		Download(user *entities.User, path string) (*FileStream, error)
		DownloadFolder(user *entities.User, path string, w io.Writer) (string, error)
		CreateFolder(user *entities.User, dirPath, name string) error
		Rename(user *entities.User, itemPath, newName string) (*RenameResult, error)
		Delete(user *entities.User, itemPath string) (*DeleteResult, error)
		Upload(user *entities.User, dirPath, fileName string, r io.Reader) (string, error)
		Stage(user *entities.User, operation entities.Operation, dirPath string, items []string) (int, error)
		Staged(user *entities.User) (*transfer.Pending, bool)
		Paste(user *entities.User, dirPath string) (*transfer.PasteResult, error)
		BulkDelete(user *entities.User, dirPath string, items []string) (*transfer.BulkDeleteResult, error)
		Compress(user *entities.User, dirPath string, items []string) (*archiver.CompressResult, error)
		Extract(user *entities.User, dirPath, archivePath string) (*archiver.ExtractResult, error)
	}

	// ListResult is the content of one directory prepared for display.
	ListResult struct {
		Path      string               `json:"path"`
		Parent    string               `json:"parent"`
		CanModify bool                 `json:"can_modify"`
		Items     []*entities.ItemInfo `json:"items"`
	}

	// FileStream carries an open file ready to be sent to the client.
	// The caller owns the ReadCloser.
	FileStream struct {
		ReadCloser io.ReadCloser
		Name       string
		Size       int64
		MimeType   string
	}

	// RenameResult reports a completed rename.
	RenameResult struct {
		OldName string
		NewName string
	}

	// DeleteResult reports a completed delete.
	DeleteResult struct {
		Name  string
		IsDir bool
	}
)
