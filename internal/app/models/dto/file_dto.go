package dto

// UploadedImage describes a stored upload
type UploadedImage struct {
	Filename     string `json:"filename" example:"2f1c6a8e-7d1b-4e0c-9b7a-0c1d2e3f4a5b.png"`
	Path         string `json:"path" example:"/uploads/2f1c6a8e-7d1b-4e0c-9b7a-0c1d2e3f4a5b.png"`
	OriginalName string `json:"originalName" example:"diagram.png"`
	MimeType     string `json:"mimeType" example:"image/png"`
	Size         int64  `json:"size" example:"48213"`
}

// UploadResponse wraps an uploaded image
type UploadResponse struct {
	Image UploadedImage `json:"image"`
}
