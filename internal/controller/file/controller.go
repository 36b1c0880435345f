// Package file provides HTTP handlers for file-related operations.
package file

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/shadowkingaftab/connect-hire/internal/database"
	"github.com/shadowkingaftab/connect-hire/internal/model"
	"github.com/shadowkingaftab/connect-hire/internal/utilities"
)

const (
	// ResumeObjectPrefix is the GCS folder for uploaded resumes
	ResumeObjectPrefix = "resumes"
	logoObjectPrefix   = "logos"
)

var allowedResumeExtensions = []string{".pdf"}

// FileController handles file related endpoints
type FileController struct {
	DB      *database.DBinstanceStruct
	Storage StorageClient
	Log     *logrus.Logger
}

// NewFileController creates a new instance of FileController
func NewFileController(db *database.DBinstanceStruct, storage StorageClient, log *logrus.Logger) *FileController {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &FileController{
		DB:      db,
		Storage: storage,
		Log:     log,
	}
}

// ObjectName builds the storage object name for a stored file
func ObjectName(prefix string, f model.File) string {
	return fmt.Sprintf("%s/%d%s", prefix, f.ID, f.Extension)
}

// UploadResume handles the process of uploading a resume file for a seeker and
// updating the seeker's profile in the database. The bytes are kept in the DB
// row and mirrored to cloud storage so shortlist emails can mint signed links.
// @Summary Upload resume file for job seeker
// @Description Only file that smaller than 10 MB with .pdf extension is permitted
// @Tags Seeker
// @Accept mpfd
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param resume formData file true "Upload your resume file"
// @Success 200 {object} model.SeekerUser "Successfully upload resume"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as job seeker"
// @Failure 413 {object} utilities.ErrorResponse "File size is larger than 10 MB"
// @Failure 415 {object} utilities.ErrorResponse "File extension is not allowed"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /files/resume [post]
func (fc *FileController) UploadResume(c *gin.Context) {

	var seeker model.SeekerUser

	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	// Retrieve original profile from DB
	if err := fc.DB.Preload("User").Where("user_id = ?", user.ID.String()).First(&seeker).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve user information from database: %s", err.Error()),
		})
		return
	}

	rawFile, err := c.FormFile("resume")
	var maxBytesError *http.MaxBytesError
	if errors.As(err, &maxBytesError) {
		c.JSON(http.StatusRequestEntityTooLarge, utilities.ErrorResponse{
			Error: "File size exceeds the allowed limit",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve file: %s", err.Error()),
		})
		return
	}

	ext := strings.ToLower(filepath.Ext(rawFile.Filename))
	if !utilities.Contains(allowedResumeExtensions, ext) {
		c.JSON(http.StatusUnsupportedMediaType, utilities.ErrorResponse{
			Error: fmt.Sprintf("File extension '%s' is not allowed", ext),
		})
		return
	}

	f, err := rawFile.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Cannot open file"})
		return
	}
	defer f.Close()

	fileBytes, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Cannot read file"})
		return
	}

	seeker.Resume.Content = fileBytes
	seeker.Resume.Extension = ext

	if err := fc.DB.Session(&gorm.Session{FullSaveAssociations: true}).Save(&seeker).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update user information: %s", err.Error()),
		})
		return
	}

	// Mirror to cloud storage; the DB copy stays the source of truth
	if fc.Storage != nil {
		objectName := ObjectName(ResumeObjectPrefix, seeker.Resume)
		if err := fc.Storage.UploadFile(objectName, bytes.NewReader(fileBytes)); err != nil {
			fc.Log.WithField("object", objectName).WithError(err).Warn("resume mirror upload failed")
		}
	}

	c.JSON(http.StatusOK, seeker)
}

// GetFile serves a stored file as an attachment download.
// @Summary Download a stored file by id
// @Tags File
// @Produce octet-stream
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "File id"
// @Success 200 {file} binary "File content"
// @Failure 404 {object} utilities.ErrorResponse "File not found"
// @Router /files/{id} [get]
func (fc *FileController) GetFile(c *gin.Context) {
	var file model.File
	id := c.Param("id")

	if err := fc.DB.First(&file, id).Error; err != nil {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "File not found"})
		return
	}

	c.Writer.Header().Set("Content-Disposition", "attachment; filename="+fmt.Sprint(file.ID)+file.Extension)
	c.Writer.Header().Set("Content-Type", "application/octet-stream")
	c.Writer.Header().Set("Content-Length", fmt.Sprint(len(file.Content)))

	if _, err := c.Writer.Write(file.Content); err != nil {
		fc.Log.WithError(err).Warn("failed to write file response")
	}
}
