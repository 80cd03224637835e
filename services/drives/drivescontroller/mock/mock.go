package mock

import (
	"io"

	"github.com/drivenas/nasd/archiver"
	"github.com/drivenas/nasd/entities"
	"github.com/drivenas/nasd/services/drives/drivescontroller"
	"github.com/drivenas/nasd/transfer"
	"github.com/stretchr/testify/mock"
)

// DrivesController mocks a DrivesController.
type DrivesController struct {
	mock.Mock
}

// List mocks the List call.
func (m *DrivesController) List(user *entities.User, path string) (*drivescontroller.ListResult, error) {
	args := m.Called()
	return args.Get(0).(*drivescontroller.ListResult), args.Error(1)
}

// Download mocks the Download call.
func (m *DrivesController) Download(user *entities.User, path string) (*drivescontroller.FileStream, error) {
	args := m.Called()
	return args.Get(0).(*drivescontroller.FileStream), args.Error(1)
}

// DownloadFolder mocks the DownloadFolder call.
func (m *DrivesController) DownloadFolder(user *entities.User, path string, w io.Writer) (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

// CreateFolder mocks the CreateFolder call.
func (m *DrivesController) CreateFolder(user *entities.User, dirPath, name string) error {
	args := m.Called()
	return args.Error(0)
}

// Rename mocks the Rename call.
func (m *DrivesController) Rename(user *entities.User, itemPath, newName string) (*drivescontroller.RenameResult, error) {
	args := m.Called()
	return args.Get(0).(*drivescontroller.RenameResult), args.Error(1)
}

// Delete mocks the Delete call.
func (m *DrivesController) Delete(user *entities.User, itemPath string) (*drivescontroller.DeleteResult, error) {
	args := m.Called()
	return args.Get(0).(*drivescontroller.DeleteResult), args.Error(1)
}

// Upload mocks the Upload call.
func (m *DrivesController) Upload(user *entities.User, dirPath, fileName string, r io.Reader) (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

// Stage mocks the Stage call.
func (m *DrivesController) Stage(user *entities.User, operation entities.Operation, dirPath string, items []string) (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

// Staged mocks the Staged call.
func (m *DrivesController) Staged(user *entities.User) (*transfer.Pending, bool) {
	args := m.Called()
	return args.Get(0).(*transfer.Pending), args.Bool(1)
}

// Paste mocks the Paste call.
func (m *DrivesController) Paste(user *entities.User, dirPath string) (*transfer.PasteResult, error) {
	args := m.Called()
	return args.Get(0).(*transfer.PasteResult), args.Error(1)
}

// BulkDelete mocks the BulkDelete call.
func (m *DrivesController) BulkDelete(user *entities.User, dirPath string, items []string) (*transfer.BulkDeleteResult, error) {
	args := m.Called()
	return args.Get(0).(*transfer.BulkDeleteResult), args.Error(1)
}

// Compress mocks the Compress call.
func (m *DrivesController) Compress(user *entities.User, dirPath string, items []string) (*archiver.CompressResult, error) {
	args := m.Called()
	return args.Get(0).(*archiver.CompressResult), args.Error(1)
}

// Extract mocks the Extract call.
func (m *DrivesController) Extract(user *entities.User, dirPath, archivePath string) (*archiver.ExtractResult, error) {
	args := m.Called()
	return args.Get(0).(*archiver.ExtractResult), args.Error(1)
}
