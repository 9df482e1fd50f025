package utils

import (
	"io"
	"mime/multipart"
	"net/http"
)

const maxUploadBytes = 32 << 20

// UploadResult is what a multipart /import or /export request carried.
type UploadResult struct {
	File     string
	SaveFile bool
	Format   string
}

// ReadUploadForm reads the uploaded file plus the form values controlling
// what to do with it. Missing parts come back as zero values.
func ReadUploadForm(r *http.Request, fileKey string) UploadResult {
	result := UploadResult{}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil || r.MultipartForm == nil {
		return result
	}

	var fileHeader *multipart.FileHeader
	for key, value := range r.MultipartForm.File {
		if key == fileKey && len(value) > 0 {
			fileHeader = value[0]
		}
	}

	for key, value := range r.MultipartForm.Value {
		if len(value) == 0 {
			continue
		}
		switch key {
		case "saveFile":
			result.SaveFile = value[0] == "true"
		case "format":
			result.Format = value[0]
		}
	}

	if fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			return result
		}
		defer file.Close()

		if content, err := io.ReadAll(file); err == nil {
			result.File = string(content)
		}
	}

	return result
}
