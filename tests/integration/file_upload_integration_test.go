package integration

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/kartlink/kartlink-api/services"
	"github.com/kartlink/kartlink-api/utils"
)

// FileStorageIntegrationTestSuite exercises the storage abstraction with the
// real local disk driver.
type FileStorageIntegrationTestSuite struct {
	suite.Suite
	root    string
	storage *services.LocalStorage
}

// SetupTest runs before each test
func (suite *FileStorageIntegrationTestSuite) SetupTest() {
	suite.root = suite.T().TempDir()
	suite.storage = services.NewLocalStorage(suite.root, "http://localhost:8080/storage")
}

// makeFileHeader builds a real multipart.FileHeader the way gin hands it to
// controllers.
func (suite *FileStorageIntegrationTestSuite) makeFileHeader(filename string, content []byte) *multipart.FileHeader {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", "application/octet-stream")
	part, err := writer.CreatePart(h)
	suite.NoError(err)
	_, err = part.Write(content)
	suite.NoError(err)
	suite.NoError(writer.Close())

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(int64(len(content)) + 1024)
	suite.NoError(err)

	suite.Require().NotEmpty(form.File["file"])
	return form.File["file"][0]
}

// TestSaveWritesFileToDisk verifies the file lands under the directory prefix
func (suite *FileStorageIntegrationTestSuite) TestSaveWritesFileToDisk() {
	fileHeader := suite.makeFileHeader("receipt.png", []byte("proof bytes"))

	relPath, err := suite.storage.Save(fileHeader, "orders/proofs")
	suite.NoError(err)
	assert.True(suite.T(), strings.HasPrefix(relPath, "orders/proofs/"))
	assert.True(suite.T(), strings.HasSuffix(relPath, ".png"))

	content, err := os.ReadFile(filepath.Join(suite.root, filepath.FromSlash(relPath)))
	suite.NoError(err)
	assert.Equal(suite.T(), []byte("proof bytes"), content)
}

// TestSaveGeneratesUniqueNames verifies two uploads never collide
func (suite *FileStorageIntegrationTestSuite) TestSaveGeneratesUniqueNames() {
	first, err := suite.storage.Save(suite.makeFileHeader("logo.png", []byte("a")), "orders/logos")
	suite.NoError(err)
	second, err := suite.storage.Save(suite.makeFileHeader("logo.png", []byte("b")), "orders/logos")
	suite.NoError(err)

	assert.NotEqual(suite.T(), first, second)
}

// TestURLJoinsBase verifies the public URL shape
func (suite *FileStorageIntegrationTestSuite) TestURLJoinsBase() {
	assert.Equal(suite.T(),
		"http://localhost:8080/storage/orders/logos/abc.png",
		suite.storage.URL("orders/logos/abc.png"))
	assert.Equal(suite.T(), "", suite.storage.URL(""))
}

// TestDeleteRemovesFile verifies deletion and its tolerance of missing files
func (suite *FileStorageIntegrationTestSuite) TestDeleteRemovesFile() {
	relPath, err := suite.storage.Save(suite.makeFileHeader("brief.pdf", []byte("brief")), "orders/briefs")
	suite.NoError(err)

	suite.NoError(suite.storage.Delete(relPath))
	_, err = os.Stat(filepath.Join(suite.root, filepath.FromSlash(relPath)))
	assert.True(suite.T(), os.IsNotExist(err))

	// Deleting twice is not an error
	suite.NoError(suite.storage.Delete(relPath))
	suite.NoError(suite.storage.Delete(""))
}

// TestValidationGuardsStorage verifies invalid uploads never reach storage
func (suite *FileStorageIntegrationTestSuite) TestValidationGuardsStorage() {
	fileHeader := suite.makeFileHeader("script.sh", []byte("#!/bin/sh"))
	err := utils.ValidateUploadedFile(fileHeader)
	assert.Error(suite.T(), err)

	oversized := suite.makeFileHeader("huge.png", []byte("x"))
	oversized.Size = utils.MaxFileSize + 1
	err = utils.ValidateUploadedFile(oversized)
	assert.Error(suite.T(), err)
}

// TestFileStorageIntegrationTestSuite runs the test suite
func TestFileStorageIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(FileStorageIntegrationTestSuite))
}
