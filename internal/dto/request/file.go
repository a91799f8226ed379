package request

import "io"

// File is one uploaded multipart part, detached from net/http.
type File struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}
