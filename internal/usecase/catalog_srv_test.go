package usecase

import (
	"context"
	"testing"

	"streaming-catalog/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenreService_UniqueNames(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	id := h.genre(t, "Drama")
	h.genre(t, "Comedy")

	_, err := h.svc.Genre.Create(ctx, &request.NameRequest{Name: " Drama "})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")

	_, err = h.svc.Genre.Update(ctx, id, &request.NameRequest{Name: "Comedy"})
	require.ErrorAs(t, err, &verr)

	renamed, err := h.svc.Genre.Update(ctx, id, &request.NameRequest{Name: "Drama & Romance"})
	require.NoError(t, err)
	assert.Equal(t, "Drama & Romance", renamed.Name)

	all, err := h.svc.Genre.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, h.svc.Genre.Delete(ctx, id))
	_, err = h.svc.Genre.GetByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, h.svc.Genre.Delete(ctx, id), ErrNotFound)
}

func TestCollectionService_CRUD(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	c, err := h.svc.Collection.Create(ctx, &request.NameRequest{Name: "New Releases"})
	require.NoError(t, err)

	_, err = h.svc.Collection.Create(ctx, &request.NameRequest{Name: "new releases"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	got, err := h.svc.Collection.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Releases", got.Name)

	_, err = h.svc.Collection.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFranchiseService_DetailsOrderedAndDeleteDetaches(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	f, err := h.svc.Franchise.Create(ctx, &request.NameRequest{Name: "Matrix"})
	require.NoError(t, err)

	for i, title := range []string{"Revolutions", "The Matrix", "Reloaded"} {
		order := []int{3, 1, 2}[i]
		_, err := h.svc.Content.Create(ctx, &request.ContentRequest{
			Title: title, ReleaseYear: 1999, Type: "movie", FranchiseID: f.ID, FranchiseOrder: &order,
			Poster: file("p.png"), Backdrop: file("b.png"),
		})
		require.NoError(t, err)
	}

	details, err := h.svc.Franchise.GetDetails(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, details.Contents, 3)
	assert.Equal(t, "The Matrix", details.Contents[0].Title)
	assert.Equal(t, "Revolutions", details.Contents[2].Title)

	list, err := h.svc.Franchise.GetAll(ctx, &request.PaginatedRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Pagination.Total)

	require.NoError(t, h.svc.Franchise.Delete(ctx, f.ID))
	contents, err := h.svc.Content.GetAll(ctx, &request.ContentQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), contents.Pagination.Total, "content survives its franchise")
	for _, c := range contents.Data {
		assert.Nil(t, c.FranchiseID)
	}
}
