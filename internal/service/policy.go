package service

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor is the authenticated caller of a service operation. It is read from the session by the
// API layer and passed down explicitly.
type Actor struct {
	UserID   string
	Username string
	IsAdmin  bool
}

// Owned is implemented by every resource that records the account allowed to mutate it.
type Owned interface {
	OwnerID() string
}

// Authorize succeeds iff the recorded creator and the acting user are the same id.
func Authorize(resourceCreatorID, actingUserID string) error {
	if resourceCreatorID != actingUserID {
		return ErrForbidden
	}
	return nil
}

// AuthorizeOwner checks that actor is signed in and owns resource.
func AuthorizeOwner(resource Owned, actor Actor) error {
	if _, err := actor.objectID(); err != nil {
		return err
	}
	return Authorize(resource.OwnerID(), actor.UserID)
}

// RequireAdmin gates account management. It is independent of resource ownership.
func RequireAdmin(actor Actor) error {
	if _, err := actor.objectID(); err != nil {
		return err
	}
	if !actor.IsAdmin {
		return ErrForbidden
	}
	return nil
}

func (a Actor) objectID() (primitive.ObjectID, error) {
	if a.UserID == "" {
		return primitive.NilObjectID, ErrUnauthenticated
	}
	id, err := primitive.ObjectIDFromHex(a.UserID)
	if err != nil {
		return primitive.NilObjectID, ErrUnauthenticated
	}
	return id, nil
}

// parseID turns a path id into an ObjectID. Malformed ids cannot match any document,
// so they report notFound.
func parseID(hex string, notFound error) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, notFound
	}
	return id, nil
}
