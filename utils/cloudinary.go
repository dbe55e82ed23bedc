package utils

import (
	"context"
	"os"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// InitCloudinary builds the Cloudinary client from environment credentials.
func InitCloudinary() (*cloudinary.Cloudinary, error) {
	return cloudinary.NewFromParams(
		os.Getenv("CLOUDINARY_CLOUD_NAME"),
		os.Getenv("CLOUDINARY_API_KEY"),
		os.Getenv("CLOUDINARY_API_SECRET"))
}

// UploadDoctorImage uploads a doctor profile picture and returns its secure
// URL. Images are resized to a thumbnail on upload.
func UploadDoctorImage(ctx context.Context, file interface{}, publicID string) (string, error) {
	cld, err := InitCloudinary()
	if err != nil {
		return "", err
	}

	resp, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:       publicID,
		Folder:         "doctors",
		Transformation: "c_thumb,w_300,h_300",
	})
	if err != nil {
		return "", err
	}
	return resp.SecureURL, nil
}
