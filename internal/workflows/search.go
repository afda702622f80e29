package workflows

import (
	"context"
	"fmt"

	werrors "github.com/PolarWolf314/wrench/internal/errors"
	"github.com/PolarWolf314/wrench/internal/models"
	"github.com/PolarWolf314/wrench/internal/search"
	"github.com/PolarWolf314/wrench/internal/services"
)

// SearchOptions configures the search workflow.
type SearchOptions struct {
	// Terms are matched word by word, all words must match.
	Terms string

	// Fields restricts the fields searched. Empty means all fields.
	Fields []search.Field

	// FavouriteOnly only searches resources marked as favourite.
	FavouriteOnly bool
}

// SearchResult contains the outcome of a search.
type SearchResult struct {
	// Resources are the matches, in server order.
	Resources []models.Resource

	// Total is the number of resources searched.
	Total int
}

// Search fetches the resources readable by the user and filters them.
func Search(ctx context.Context, sess *Session, opts SearchOptions) (*SearchResult, error) {
	resources, err := services.GetResources(ctx, sess.API, opts.FavouriteOnly)
	if err != nil {
		return nil, err
	}

	return &SearchResult{
		Resources: search.Search(resources, opts.Terms, opts.Fields...),
		Total:     len(resources),
	}, nil
}

// Decrypt returns resource with its cleartext secret.
//
// Returns ErrDecryption if the secret cannot be decrypted with the user key.
func Decrypt(ctx context.Context, sess *Session, resource models.Resource) (models.Resource, error) {
	return services.DecryptResource(ctx, sess.API, sess.Keyring, resource)
}

// FindResource returns the resource with the given ID.
func FindResource(ctx context.Context, sess *Session, id string) (models.Resource, error) {
	resources, err := services.GetResources(ctx, sess.API, false)
	if err != nil {
		return models.Resource{}, err
	}
	for _, r := range resources {
		if r.ID == id {
			return r, nil
		}
	}
	return models.Resource{}, fmt.Errorf("%w: no resource with id %s", werrors.ErrValidation, id)
}
