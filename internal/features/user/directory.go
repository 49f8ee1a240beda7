package user

import (
	"context"
	"errors"

	"github.com/AzizRahmanYaad/cbs-dashboard/internal/features/dailyreport"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Directory adapts the user store to the report module's identity and
// capability lookups, and to audit log actor resolution.
type Directory struct {
	Repo UserRepository
}

func NewDirectory(repo UserRepository) *Directory {
	return &Directory{Repo: repo}
}

func (d *Directory) FindEmployee(ctx context.Context, id primitive.ObjectID) (*dailyreport.Employee, error) {
	u, err := d.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, dailyreport.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &dailyreport.Employee{ID: u.ID, DisplayName: u.DisplayName()}, nil
}

// HasCapability maps roles to capabilities in one place. Only admins
// review other employees' reports or administer the system.
func (d *Directory) HasCapability(ctx context.Context, userID primitive.ObjectID, cap dailyreport.Capability) (bool, error) {
	u, err := d.Repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	if !u.Active {
		return false, nil
	}

	switch cap {
	case dailyreport.CanReview, dailyreport.CanAdminister:
		return u.HasRole(RoleAdmin), nil
	default:
		return false, nil
	}
}

func (d *Directory) UsernamesByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	var objectIDs []primitive.ObjectID
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			objectIDs = append(objectIDs, oid)
		}
	}

	users, err := d.Repo.FindByIDs(ctx, objectIDs)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID.Hex()] = u.Username
	}
	return names, nil
}
