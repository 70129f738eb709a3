package repository

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultContentType = "application/octet-stream"

// Photo is a stored image with what is needed to serve it back.
type Photo struct {
	Data        []byte
	Filename    string
	ContentType string
}

// PhotoRepository keeps listing photos in GridFS.
type PhotoRepository struct {
	DB *mongo.Database
}

func NewPhotoRepository(client *mongo.Client, dbName string) *PhotoRepository {
	return &PhotoRepository{DB: client.Database(dbName)}
}

func (r *PhotoRepository) bucket(ctx context.Context) (*gridfs.Bucket, error) {
	bucket, err := gridfs.NewBucket(r.DB, options.GridFSBucket().SetName("photos"))
	if err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = bucket.SetWriteDeadline(deadline)
		_ = bucket.SetReadDeadline(deadline)
	}
	return bucket, nil
}

// UploadPhoto stores the content of file and returns its id.
func (r *PhotoRepository) UploadPhoto(ctx context.Context, file io.Reader, filename, contentType string, hostID int64) (string, error) {
	bucket, err := r.bucket(ctx)
	if err != nil {
		return "", fmt.Errorf("PhotoRepository.UploadPhoto: %w", err)
	}

	opts := options.GridFSUpload().SetMetadata(bson.M{"contentType": contentType, "hostId": hostID})
	stream, err := bucket.OpenUploadStream(filename, opts)
	if err != nil {
		return "", fmt.Errorf("PhotoRepository.UploadPhoto: %w", err)
	}
	defer stream.Close()

	if _, err := io.Copy(stream, file); err != nil {
		_ = stream.Abort()
		return "", fmt.Errorf("PhotoRepository.UploadPhoto: %w", err)
	}

	return stream.FileID.(primitive.ObjectID).Hex(), nil
}

func (r *PhotoRepository) DownloadPhoto(ctx context.Context, photoID string) (*Photo, error) {
	objID, err := primitive.ObjectIDFromHex(photoID)
	if err != nil {
		return nil, ErrNotFound
	}

	bucket, err := r.bucket(ctx)
	if err != nil {
		return nil, fmt.Errorf("PhotoRepository.DownloadPhoto: %w", err)
	}

	stream, err := bucket.OpenDownloadStream(objID)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("PhotoRepository.DownloadPhoto: %w", err)
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("PhotoRepository.DownloadPhoto: %w", err)
	}

	photo := &Photo{Data: data, ContentType: defaultContentType}
	if f := stream.GetFile(); f != nil {
		photo.Filename = f.Name
		if ct, ok := f.Metadata.Lookup("contentType").StringValueOK(); ok && ct != "" {
			photo.ContentType = ct
		}
	}
	return photo, nil
}
