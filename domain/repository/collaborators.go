package repository

import (
	"context"
	"io"

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/model"
)

type IUser interface {
	GetByID(ctx context.Context, id string) (model.User, error)
}

// IMediaStorage stores binary video assets.
type IMediaStorage interface {
	// Upload returns the public URL and the storage reference of the object.
	Upload(ctx context.Context, name string, content io.Reader, size int64, contentType string) (url string, ref string, err error)
	Remove(ctx context.Context, ref string) error
}

// IEventPublisher delivers engagement events. Delivery is best effort.
type IEventPublisher interface {
	Publish(ctx context.Context, event model.EngagementEvent) error
}
