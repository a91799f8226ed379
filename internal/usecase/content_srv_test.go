package usecase

import (
	"context"
	"errors"
	"testing"

	"streaming-catalog/internal/dto/request"
	"streaming-catalog/internal/dto/response"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (h *harness) genre(t *testing.T, name string) string {
	t.Helper()
	g, err := h.svc.Genre.Create(context.Background(), &request.NameRequest{Name: name})
	require.NoError(t, err)
	return g.ID
}

func (h *harness) content(t *testing.T, title, typ string, genreIDs ...string) uuid.UUID {
	t.Helper()
	id, err := h.svc.Content.Create(context.Background(), &request.ContentRequest{
		Title:       title,
		ReleaseYear: 2024,
		Type:        typ,
		GenreIDs:    genreIDs,
		Poster:      file("poster.png"),
		Backdrop:    file("backdrop.png"),
	})
	require.NoError(t, err)
	return id
}

func genreNames(genres []response.GenreResponse) []string {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return names
}

func TestContentService_CreateThenDetails(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	drama := h.genre(t, "Drama")
	crime := h.genre(t, "Crime")
	order := 2

	franchise, err := h.svc.Franchise.Create(ctx, &request.NameRequest{Name: "The Godfather"})
	require.NoError(t, err)

	id, err := h.svc.Content.Create(ctx, &request.ContentRequest{
		Title:          "The Godfather Part II",
		Description:    "Michael consolidates power.",
		ReleaseYear:    1974,
		AgeLimit:       18,
		Rating:         9.0,
		Type:           "Movie",
		FranchiseID:    franchise.ID,
		FranchiseOrder: &order,
		GenreIDs:       []string{drama, crime},
		Poster:         file("poster.jpg"),
		Backdrop:       file("backdrop.jpg"),
		Video:          file("movie.mp4"),
	})
	require.NoError(t, err)

	details, err := h.svc.Content.GetDetails(ctx, id.String())
	require.NoError(t, err)

	assert.Equal(t, "The Godfather Part II", details.Title)
	assert.Equal(t, 1974, details.ReleaseYear)
	assert.Equal(t, "movie", details.Type)
	assert.Equal(t, 9.0, details.Rating)
	assert.ElementsMatch(t, []string{"Drama", "Crime"}, genreNames(details.GenreList))
	require.NotNil(t, details.Franchise)
	assert.Equal(t, "The Godfather", details.Franchise.Name)
	assert.Equal(t, &order, details.FranchiseOrder)
	assert.Empty(t, details.Episodes)

	assert.True(t, h.store.has(details.PosterURL))
	assert.True(t, h.store.has(details.BackdropURL))
	assert.True(t, h.store.has(details.VideoURL))
}

func TestContentService_UpdateReplacesGenreSet(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	a, b, c := h.genre(t, "A"), h.genre(t, "B"), h.genre(t, "C")
	id := h.content(t, "Show", "series", a, c)

	ids := []string{a, b}
	err := h.svc.Content.Update(ctx, id.String(), &request.ContentUpdateRequest{
		Title:       "Show",
		ReleaseYear: 2024,
		Type:        "series",
		GenreIDs:    &ids,
	})
	require.NoError(t, err)

	details, err := h.svc.Content.GetDetails(ctx, id.String())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B"}, genreNames(details.GenreList))
}

func TestContentService_UpdateWithoutListsKeepsLinks(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	a := h.genre(t, "A")
	id := h.content(t, "Show", "series", a)

	err := h.svc.Content.Update(ctx, id.String(), &request.ContentUpdateRequest{
		Title: "Renamed", ReleaseYear: 2025, Type: "series",
	})
	require.NoError(t, err)

	details, err := h.svc.Content.GetDetails(ctx, id.String())
	require.NoError(t, err)
	assert.Equal(t, "Renamed", details.Title)
	assert.Equal(t, []string{"A"}, genreNames(details.GenreList))
}

func TestContentService_UpdateReplacesPosterFile(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	id := h.content(t, "Show", "movie")

	before, err := h.svc.Content.GetDetails(ctx, id.String())
	require.NoError(t, err)

	err = h.svc.Content.Update(ctx, id.String(), &request.ContentUpdateRequest{
		Title: "Show", ReleaseYear: 2024, Type: "movie", Poster: file("new.png"),
	})
	require.NoError(t, err)

	after, err := h.svc.Content.GetDetails(ctx, id.String())
	require.NoError(t, err)
	assert.NotEqual(t, before.PosterURL, after.PosterURL)
	assert.False(t, h.store.has(before.PosterURL))
	assert.True(t, h.store.has(after.PosterURL))
	assert.Equal(t, before.BackdropURL, after.BackdropURL)
}

func TestContentService_CreateRejectsUnknownReferences(t *testing.T) {
	h := newHarness()

	_, err := h.svc.Content.Create(context.Background(), &request.ContentRequest{
		Title:       "Orphan",
		ReleaseYear: 2024,
		Type:        "documentary",
		GenreIDs:    []string{uuid.NewString(), "not-a-uuid"},
		Poster:      file("p.png"),
		Backdrop:    file("b.png"),
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "type")
	assert.Contains(t, verr.Fields, "genreIds")
	assert.Zero(t, h.store.count(), "nothing is uploaded for a rejected request")
	assert.Empty(t, h.db.contents)
}

func TestContentService_CreateRejectsUnsupportedVideo(t *testing.T) {
	h := newHarness()

	_, err := h.svc.Content.Create(context.Background(), &request.ContentRequest{
		Title: "Clip", ReleaseYear: 2024, Type: "movie",
		Poster: file("p.png"), Backdrop: file("b.png"), Video: file("clip.exe"),
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "video")
	assert.Zero(t, h.store.count())
}

func TestContentService_UploadFailureRollsBack(t *testing.T) {
	h := newHarness()
	h.store.failOn = "images/backdrops"

	_, err := h.svc.Content.Create(context.Background(), &request.ContentRequest{
		Title: "Broken", ReleaseYear: 2024, Type: "movie",
		Poster: file("p.png"), Backdrop: file("b.png"),
	})

	require.Error(t, err)
	var verr *ValidationError
	assert.False(t, errors.As(err, &verr), "storage failures are not client errors")
	assert.Empty(t, h.db.contents, "no content row is written")
	assert.Zero(t, h.store.count(), "the stored poster is removed")
}

func TestContentService_PersistFailureRollsBack(t *testing.T) {
	h := newHarness()
	h.db.failContentCreate = errors.New("connection reset")

	_, err := h.svc.Content.Create(context.Background(), &request.ContentRequest{
		Title: "Broken", ReleaseYear: 2024, Type: "movie",
		Poster: file("p.png"), Backdrop: file("b.png"), Video: file("v.mkv"),
	})

	require.Error(t, err)
	assert.Zero(t, h.store.count())
}

func TestContentService_DeleteCascadesEpisodes(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	show := h.content(t, "Show", "series")
	other := h.content(t, "Other", "series")

	for n := 1; n <= 2; n++ {
		_, err := h.svc.Episode.Add(ctx, &request.EpisodeRequest{
			ContentID: show.String(), Number: n, Title: "Ep", Video: file("ep.mp4"),
		})
		require.NoError(t, err)
	}
	kept, err := h.svc.Episode.Add(ctx, &request.EpisodeRequest{ContentID: other.String(), Number: 1, Title: "Pilot"})
	require.NoError(t, err)

	require.NoError(t, h.svc.Content.Delete(ctx, show.String()))

	_, err = h.svc.Content.GetDetails(ctx, show.String())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = h.svc.Episode.GetByContent(ctx, show.String())
	assert.ErrorIs(t, err, ErrNotFound)

	remaining, err := h.svc.Episode.GetByContent(ctx, other.String())
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, kept.ID, remaining[0].ID)

	// only the other show's poster and backdrop are left
	assert.Equal(t, 2, h.store.count())
}

func TestContentService_GetAllFilters(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	drama := h.genre(t, "Drama")
	h.content(t, "Alpha", "movie", drama)
	h.content(t, "Beta", "series", drama)
	h.content(t, "Gamma", "movie")

	all, err := h.svc.Content.GetAll(ctx, &request.ContentQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Pagination.Total)
	assert.Equal(t, 1, all.Pagination.Page)

	movies, err := h.svc.Content.GetAll(ctx, &request.ContentQuery{Type: "Movie", GenreID: drama})
	require.NoError(t, err)
	require.Len(t, movies.Data, 1)
	assert.Equal(t, "Alpha", movies.Data[0].Title)
	assert.Equal(t, []string{"Drama"}, movies.Data[0].Genres)

	paged, err := h.svc.Content.GetAll(ctx, &request.ContentQuery{
		PaginatedRequest: request.PaginatedRequest{Page: 2, PerPage: 2},
	})
	require.NoError(t, err)
	assert.Len(t, paged.Data, 1)
	assert.Equal(t, 2, paged.Pagination.TotalPages)
}

func TestContentService_GetAllTypeFilterIgnoresCase(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.content(t, "Alpha", "movie")
	h.content(t, "Beta", "series")

	for _, typ := range []string{"series", "Series", "SERIES", " sErIeS "} {
		series, err := h.svc.Content.GetAll(ctx, &request.ContentQuery{Type: typ})
		require.NoError(t, err, typ)
		require.Len(t, series.Data, 1, typ)
		assert.Equal(t, "Beta", series.Data[0].Title)
	}

	_, err := h.svc.Content.GetAll(ctx, &request.ContentQuery{Type: "documentary"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "type")
}

func TestContentService_BadIDs(t *testing.T) {
	h := newHarness()

	_, err := h.svc.Content.GetDetails(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = h.svc.Content.Delete(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}
