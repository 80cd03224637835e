package drives

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/drivenas/nasd/archiver"
	"github.com/drivenas/nasd/codes"
	"github.com/drivenas/nasd/config"
	defaul "github.com/drivenas/nasd/config/default"
	mock_configsource "github.com/drivenas/nasd/config/mock"
	"github.com/drivenas/nasd/entities"
	"github.com/drivenas/nasd/keys"
	"github.com/drivenas/nasd/services/drives/drivescontroller"
	mock_drivescontroller "github.com/drivenas/nasd/services/drives/drivescontroller/mock"
	"github.com/drivenas/nasd/transfer"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

var (
	defaultDirs = defaul.DefaultDirectives
	demoUser    = &entities.User{Username: "demo"}
)

type testObject struct {
	mockDrivesController *mock_drivescontroller.DrivesController
	mockConfigSource     *mock_configsource.Source
	service              *svc
	conf                 *config.Config
}

func newObject(t *testing.T) *testObject {
	o := &testObject{}
	o.mockDrivesController = &mock_drivescontroller.DrivesController{}
	o.mockConfigSource = &mock_configsource.Source{}
	o.conf = config.New([]config.Source{o.mockConfigSource})
	return o
}

func (o *testObject) setupService(t *testing.T) {
	dirs := defaultDirs
	dirs.Storage.Root = t.TempDir()
	o.mockConfigSource.On("LoadDirectives").Return(&dirs, nil)
	require.Nil(t, o.conf.LoadDirectives())

	service, err := New(o.conf)
	require.Nil(t, err)
	o.service = service.(*svc)
	o.service.drivesController = o.mockDrivesController
}

func (o *testObject) newRequest(t *testing.T, method, url, body string) *http.Request {
	var r *http.Request
	var err error
	if body == "" {
		r, err = http.NewRequest(method, url, nil)
	} else {
		r, err = http.NewRequest(method, url, strings.NewReader(body))
	}
	require.Nil(t, err)
	r = keys.SetLog(r, logrus.WithField("test", "test"))
	return keys.SetUser(r, demoUser)
}

func decodeControl(t *testing.T, w *httptest.ResponseRecorder) *ControlResponse {
	res := &ControlResponse{}
	require.Nil(t, json.NewDecoder(w.Body).Decode(res))
	return res
}

func requireMessage(t *testing.T, res *ControlResponse, level entities.FeedbackLevel, fragment string) {
	for _, m := range res.Messages {
		if m.Level == level && strings.Contains(m.Text, fragment) {
			return
		}
	}
	t.Fatalf("no %s message containing %q in %+v", level, fragment, res.Messages)
}

func TestNew(t *testing.T) {
	o := newObject(t)
	o.setupService(t)
	require.Equal(t, ServiceName, o.service.Name())
}

func TestEndpoints(t *testing.T) {
	o := newObject(t)
	o.setupService(t)

	eps := o.service.Endpoints()
	require.NotNil(t, eps)
	for url, m := range eps {
		require.NotEmpty(t, url)
		for method, handler := range m {
			require.NotEmpty(t, method)
			require.NotNil(t, handler)
		}
	}
}

func TestEndpoints_requireAuthentication(t *testing.T) {
	o := newObject(t)
	o.setupService(t)

	r, err := http.NewRequest("GET", "/list/", nil)
	require.Nil(t, err)
	r = keys.SetLog(r, logrus.WithField("test", "test"))

	w := httptest.NewRecorder()
	o.service.Endpoints()["/list/{path:.*}"]["GET"](w, r)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestList(t *testing.T) {
	o := newObject(t)
	o.setupService(t)

	o.mockDrivesController.On("List").Return(&drivescontroller.ListResult{
		Path:      "TestDrive/demo",
		Parent:    "TestDrive",
		CanModify: true,
		Items: []*entities.ItemInfo{
			{Name: "docs", IsDir: true},
			{Name: "a.txt", Size: "5.00 B"},
		},
	}, nil)

	r := o.newRequest(t, "GET", "/list/TestDrive/demo", "")
	w := httptest.NewRecorder()
	o.service.List(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	res := &drivescontroller.ListResult{}
	require.Nil(t, json.NewDecoder(w.Body).Decode(res))
	require.Equal(t, "TestDrive", res.Parent)
	require.Len(t, res.Items, 2)
}

func TestList_withDenied(t *testing.T) {
	o := newObject(t)
	o.setupService(t)

	o.mockDrivesController.On("List").
		Return((*drivescontroller.ListResult)(nil), codes.NewErr(codes.Denied, ""))

	r := o.newRequest(t, "GET", "/list/TestDrive/paco", "")
	w := httptest.NewRecorder()
	o.service.List(w, r)
	require.Equal(t, http.StatusForbidden, w.Code)
	requireMessage(t, decodeControl(t, w), entities.FeedbackError, "Access denied")
}

func TestDownload(t *testing.T) {
	o := newObject(t)
	o.setupService(t)

	o.mockDrivesController.On("Download").Return(&drivescontroller.FileStream{
		ReadCloser: io.NopCloser(strings.NewReader("payload")),
		Name:       "a.txt",
		Size:       7,
		MimeType:   "text/plain; charset=utf-8",
	}, nil)

	r := o.newRequest(t, "GET", "/download/TestDrive/demo/a.txt", "")
	w := httptest.NewRecorder()
	o.service.Download(w, r)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "payload", w.Body.String())
	require.Contains(t, w.Header().Get("Content-Disposition"), "a.txt")
}

func TestDownload_withNotFound(t *testing.T) {
	o := newObject(t)
	o.setupService(t)

	o.mockDrivesController.On("Download").
		Return((*drivescontroller.FileStream)(nil), codes.NewErr(codes.NotFound, ""))

	r := o.newRequest(t, "GET", "/download/TestDrive/demo/nope", "")
	w := httptest.NewRecorder()
	o.service.Download(w, r)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateFolder(t *testing.T) {
	o := newObject(t)
	o.setupService(t)

	o.mockDrivesController.On("CreateFolder").Return(nil)

	r := o.newRequest(t, "POST", "/createfolder", `{"current_path":"TestDrive/demo","folder_name":"docs"}`)
	w := httptest.NewRecorder()
	o.service.CreateFolder(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	res := decodeControl(t, w)
	require.Equal(t, "TestDrive/demo", res.Redirect)
	requireMessage(t, res, entities.FeedbackSuccess, "Folder 'docs' created successfully")
}

func TestCreateFolder_withExisting(t *testing.T) {
	o := newObject(t)
	o.setupService(t)

	o.mockDrivesController.On("CreateFolder").Return(codes.NewErr(codes.AlreadyExists, ""))

	r := o.newRequest(t, "POST", "/createfolder", `{"current_path":"TestDrive/demo","folder_name":"docs"}`)
	w := httptest.NewRecorder()
	o.service.CreateFolder(w, r)
	require.Equal(t, http.StatusBadRequest, w.Code)
	requireMessage(t, decodeControl(t, w), entities.FeedbackError, "already exists")
}

func TestCreateFolder_withTraversal(t *testing.T) {
	o := newObject(t)
	o.setupService(t)

	o.mockDrivesController.On("CreateFolder").Return(codes.NewErr(codes.ConfinementViolation, ""))

	r := o.newRequest(t, "POST", "/createfolder", `{"current_path":"..%2F..","folder_name":"docs"}`)
	w := httptest.NewRecorder()
	o.service.CreateFolder(w, r)
	require.Equal(t, http.StatusForbidden, w.Code)
	requireMessage(t, decodeControl(t, w), entities.FeedbackError, "Path traversal detected")
}

func TestRename(t *testing.T) {
	o := newObject(t)
	o.setupService(t)

	o.mockDrivesController.On("Rename").
		Return(&drivescontroller.RenameResult{OldName: "old.txt", NewName: "new.txt"}, nil)

	r := o.newRequest(t, "POST", "/rename", `{"current_path":"TestDrive/demo","target_path":"TestDrive/demo/old.txt","new_name":"new.txt"}`)
	w := httptest.NewRecorder()
	o.service.Rename(w, r)
	require.Equal(t, http.StatusOK, w.Code)
	requireMessage(t, decodeControl(t, w), entities.FeedbackSuccess, "renamed from 'old.txt' to 'new.txt'")
}

func TestRename_withEmptyName(t *testing.T) {
	o := newObject(t)
	o.setupService(t)

	r := o.newRequest(t, "POST", "/rename", `{"current_path":"TestDrive/demo","target_path":"TestDrive/demo/old.txt","new_name":""}`)
	w := httptest.NewRecorder()
	o.service.Rename(w, r)
	require.Equal(t, http.StatusBadRequest, w.Code)
	requireMessage(t, decodeControl(t, w), entities.FeedbackError, "New name cannot be empty")
}

func TestDelete_file(t *testing.T) {
	o := newObject(t)
	o.setupService(t)

	o.mockDrivesController.On("Delete").
		Return(&drivescontroller.DeleteResult{Name: "a.txt", IsDir: false}, nil)

	r := o.newRequest(t, "POST", "/delete", `{"current_path":"TestDrive/demo","target_path":"TestDrive/demo/a.txt"}`)
	w := httptest.NewRecorder()
	o.service.Delete(w, r)
	require.Equal(t, http.StatusOK, w.Code)
	requireMessage(t, decodeControl(t, w), entities.FeedbackSuccess, "File 'a.txt' deleted successfully")
}

func TestDelete_folder(t *testing.T) {
	o := newObject(t)
	o.setupService(t)

	o.mockDrivesController.On("Delete").
		Return(&drivescontroller.DeleteResult{Name: "docs", IsDir: true}, nil)

	r := o.newRequest(t, "POST", "/delete", `{"current_path":"TestDrive/demo","target_path":"TestDrive/demo/docs"}`)
	w := httptest.NewRecorder()
	o.service.Delete(w, r)
	require.Equal(t, http.StatusOK, w.Code)
	requireMessage(t, decodeControl(t, w), entities.FeedbackSuccess, "Folder 'docs' and its contents deleted successfully")
}

func TestDelete_withRootTarget(t *testing.T) {
	o := newObject(t)
	o.setupService(t)

	o.mockDrivesController.On("Delete").
		Return((*drivescontroller.DeleteResult)(nil), codes.NewErr(codes.ForbiddenTarget, ""))

	r := o.newRequest(t, "POST", "/delete", `{"current_path":"","target_path":""}`)
	w := httptest.NewRecorder()
	o.service.Delete(w, r)
	require.Equal(t, http.StatusForbidden, w.Code)
	requireMessage(t, decodeControl(t, w), entities.FeedbackError, "root directory or outside boundary")
}

func TestUpload(t *testing.T) {
	o := newObject(t)
	o.setupService(t)

	o.mockDrivesController.On("Upload").Return("a.txt", nil)

	r := o.newRequest(t, "PUT", "/upload/TestDrive/demo?filename=a.txt", "payload")
	w := httptest.NewRecorder()
	o.service.Upload(w, r)
	require.Equal(t, http.StatusCreated, w.Code)
	requireMessage(t, decodeControl(t, w), entities.FeedbackSuccess, "uploaded successfully")
}

func TestUpload_withoutFileName(t *testing.T) {
	o := newObject(t)
	o.setupService(t)

	r := o.newRequest(t, "PUT", "/upload/TestDrive/demo", "payload")
	w := httptest.NewRecorder()
	o.service.Upload(w, r)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCopy(t *testing.T) {
	o := newObject(t)
	o.setupService(t)

	o.mockDrivesController.On("Stage").Return(2, nil)

	r := o.newRequest(t, "POST", "/copy", `{"current_path":"TestDrive/demo","items":["TestDrive/demo/a.txt","TestDrive/demo/b.txt"]}`)
	w := httptest.NewRecorder()
	o.service.Copy(w, r)
	require.Equal(t, http.StatusOK, w.Code)
	requireMessage(t, decodeControl(t, w), entities.FeedbackInfo, "Ready to copy '2' item(s)")
}

func TestCut_withEmptySelection(t *testing.T) {
	o := newObject(t)
	o.setupService(t)

	o.mockDrivesController.On("Stage").Return(0, codes.NewErr(codes.BadInputData, ""))

	r := o.newRequest(t, "POST", "/cut", `{"current_path":"TestDrive/demo","items":[]}`)
	w := httptest.NewRecorder()
	o.service.Cut(w, r)
	require.Equal(t, http.StatusBadRequest, w.Code)
	requireMessage(t, decodeControl(t, w), entities.FeedbackWarning, "No items were selected for cutting")
}

func TestPaste(t *testing.T) {
	o := newObject(t)
	o.setupService(t)

	o.mockDrivesController.On("Paste").Return(&transfer.PasteResult{
		Operation: entities.OperationCut,
		Success:   3,
	}, nil)

	r := o.newRequest(t, "POST", "/paste", `{"current_path":"TestDrive/demo/dst"}`)
	w := httptest.NewRecorder()
	o.service.Paste(w, r)
	require.Equal(t, http.StatusOK, w.Code)
	requireMessage(t, decodeControl(t, w), entities.FeedbackSuccess, "Successfully 'moved' '3' item(s)")
}

func TestPaste_withSkippedAndFailed(t *testing.T) {
	o := newObject(t)
	o.setupService(t)

	o.mockDrivesController.On("Paste").Return(&transfer.PasteResult{
		Operation: entities.OperationCopy,
		Success:   1,
		Failed:    2,
		Skipped: []transfer.SkippedItem{
			{Name: "folder", Reason: codes.RecursiveTarget},
			{Name: "a.txt", Reason: codes.AlreadyExists},
		},
	}, nil)

	r := o.newRequest(t, "POST", "/paste", `{"current_path":"TestDrive/demo"}`)
	w := httptest.NewRecorder()
	o.service.Paste(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	res := decodeControl(t, w)
	requireMessage(t, res, entities.FeedbackWarning, "into itself or its sub-directory")
	requireMessage(t, res, entities.FeedbackWarning, "already exists in the target location")
	requireMessage(t, res, entities.FeedbackWarning, "'1' item(s) successfully 'copied', but '2' item(s) failed")
}

func TestPaste_withExpiredSelection(t *testing.T) {
	o := newObject(t)
	o.setupService(t)

	o.mockDrivesController.On("Paste").
		Return((*transfer.PasteResult)(nil), codes.NewErr(codes.NotFound, ""))

	r := o.newRequest(t, "POST", "/paste", `{"current_path":"TestDrive/demo"}`)
	w := httptest.NewRecorder()
	o.service.Paste(w, r)
	require.Equal(t, http.StatusNotFound, w.Code)
	requireMessage(t, decodeControl(t, w), entities.FeedbackError, "session expired")
}

func TestPaste_withDeniedTarget(t *testing.T) {
	o := newObject(t)
	o.setupService(t)

	o.mockDrivesController.On("Paste").
		Return((*transfer.PasteResult)(nil), codes.NewErr(codes.Denied, ""))

	r := o.newRequest(t, "POST", "/paste", `{"current_path":"TestDrive"}`)
	w := httptest.NewRecorder()
	o.service.Paste(w, r)
	require.Equal(t, http.StatusForbidden, w.Code)
	requireMessage(t, decodeControl(t, w), entities.FeedbackError, "target location")
}

func TestBulkDelete(t *testing.T) {
	o := newObject(t)
	o.setupService(t)

	o.mockDrivesController.On("BulkDelete").Return(&transfer.BulkDeleteResult{Deleted: 4}, nil)

	r := o.newRequest(t, "POST", "/bulkdelete", `{"current_path":"TestDrive/demo","items":["TestDrive/demo/a.txt"]}`)
	w := httptest.NewRecorder()
	o.service.BulkDelete(w, r)
	require.Equal(t, http.StatusOK, w.Code)
	requireMessage(t, decodeControl(t, w), entities.FeedbackSuccess, "Successfully deleted '4' item(s)")
}

func TestBulkDelete_reportsFirstFiveFailures(t *testing.T) {
	o := newObject(t)
	o.setupService(t)

	o.mockDrivesController.On("BulkDelete").Return(&transfer.BulkDeleteResult{
		Deleted: 1,
		Failed:  []string{"a", "b", "c", "d", "e", "f", "g"},
	}, nil)

	r := o.newRequest(t, "POST", "/bulkdelete", `{"current_path":"TestDrive/demo","items":["x"]}`)
	w := httptest.NewRecorder()
	o.service.BulkDelete(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	res := decodeControl(t, w)
	requireMessage(t, res, entities.FeedbackError, "a, b, c, d, e")
	for _, m := range res.Messages {
		require.NotContains(t, m.Text, "f, g")
	}
}

func TestCompress(t *testing.T) {
	o := newObject(t)
	o.setupService(t)

	o.mockDrivesController.On("Compress").
		Return(&archiver.CompressResult{ArchiveName: "docs.zip", Selected: 1}, nil)

	r := o.newRequest(t, "POST", "/compress", `{"current_path":"TestDrive/demo","items":["TestDrive/demo/docs"]}`)
	w := httptest.NewRecorder()
	o.service.Compress(w, r)
	require.Equal(t, http.StatusOK, w.Code)
	requireMessage(t, decodeControl(t, w), entities.FeedbackSuccess, "compressed 1 item(s) into 'docs.zip'")
}

func TestCompress_withEmptySelection(t *testing.T) {
	o := newObject(t)
	o.setupService(t)

	r := o.newRequest(t, "POST", "/compress", `{"current_path":"TestDrive/demo","items":[]}`)
	w := httptest.NewRecorder()
	o.service.Compress(w, r)
	require.Equal(t, http.StatusBadRequest, w.Code)
	requireMessage(t, decodeControl(t, w), entities.FeedbackWarning, "selected for compression")
}

func TestCompress_withNothingCompressed(t *testing.T) {
	o := newObject(t)
	o.setupService(t)

	o.mockDrivesController.On("Compress").
		Return((*archiver.CompressResult)(nil), archiver.ErrNothingCompressed)

	r := o.newRequest(t, "POST", "/compress", `{"current_path":"TestDrive/demo","items":["TestDrive/demo/missing"]}`)
	w := httptest.NewRecorder()
	o.service.Compress(w, r)
	require.Equal(t, http.StatusBadRequest, w.Code)
	requireMessage(t, decodeControl(t, w), entities.FeedbackWarning, "found to compress")
}

func TestExtract(t *testing.T) {
	o := newObject(t)
	o.setupService(t)

	o.mockDrivesController.On("Extract").
		Return(&archiver.ExtractResult{Entries: 12, TopLevel: "docs"}, nil)

	r := o.newRequest(t, "POST", "/extract", `{"current_path":"TestDrive/demo","zip_path":"TestDrive/demo/docs.zip"}`)
	w := httptest.NewRecorder()
	o.service.Extract(w, r)
	require.Equal(t, http.StatusOK, w.Code)
	requireMessage(t, decodeControl(t, w), entities.FeedbackSuccess, "extracted '12' files/folders from 'docs.zip' into the folder: docs")
}

func TestExtract_withCorruptArchive(t *testing.T) {
	o := newObject(t)
	o.setupService(t)

	o.mockDrivesController.On("Extract").
		Return((*archiver.ExtractResult)(nil), codes.NewErr(codes.CorruptArchive, ""))

	r := o.newRequest(t, "POST", "/extract", `{"current_path":"TestDrive/demo","zip_path":"TestDrive/demo/bad.zip"}`)
	w := httptest.NewRecorder()
	o.service.Extract(w, r)
	require.Equal(t, http.StatusBadRequest, w.Code)
	requireMessage(t, decodeControl(t, w), entities.FeedbackError, "corrupted or not a valid archive")
}

func TestExtract_withInvalidArchive(t *testing.T) {
	o := newObject(t)
	o.setupService(t)

	o.mockDrivesController.On("Extract").
		Return((*archiver.ExtractResult)(nil), codes.NewErr(codes.BadInputData, ""))

	r := o.newRequest(t, "POST", "/extract", `{"current_path":"TestDrive/demo","zip_path":"TestDrive/demo/a.txt"}`)
	w := httptest.NewRecorder()
	o.service.Extract(w, r)
	require.Equal(t, http.StatusBadRequest, w.Code)
	requireMessage(t, decodeControl(t, w), entities.FeedbackError, "not a valid ZIP archive or does not exist")
}
