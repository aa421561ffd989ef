package s3store

import "testing"

func TestContentType(t *testing.T) {
	t.Parallel() // Enable parallel execution

	cases := []struct {
		filename string
		want     string
	}{
		{"report.pdf", "application/pdf"},
		{"notes.txt", "text/plain"},
		{"photo.JPG", "image/jpeg"},
		{"photo.jpeg", "image/jpeg"},
		{"diagram.png", "image/png"},
		{"archive.zip", "application/zip"},
		{"data.csv", "text/csv"},
		{"letter.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"unknown.xyz", "application/octet-stream"},
		{"noextension", "application/octet-stream"},
	}

	for _, tc := range cases {
		if got := ContentType(tc.filename); got != tc.want {
			t.Errorf("ContentType(%q) = %q, want %q", tc.filename, got, tc.want)
		}
	}
}
