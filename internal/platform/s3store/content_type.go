package s3store

import "strings"

// contentTypes maps attachment filename extensions to MIME types.
var contentTypes = map[string]string{
	"pdf":  "application/pdf",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"txt":  "text/plain",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"zip":  "application/zip",
	"csv":  "text/csv",
}

// ContentType resolves a filename to the MIME type its attachment is
// stored under. Unrecognized or missing extensions fall back to the
// generic binary type.
func ContentType(filename string) string {
	ext := ""
	if dot := strings.LastIndex(filename, "."); dot >= 0 {
		ext = strings.ToLower(filename[dot+1:])
	}

	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
