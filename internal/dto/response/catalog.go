package response

import (
	"streaming-catalog/internal/data/entity"
)

type GenreResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CollectionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type FranchiseResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type FranchiseDetailResponse struct {
	FranchiseResponse
	Contents []ContentResponse `json:"contents"`
}

func GenreToResponse(genre *entity.Genre) GenreResponse {
	return GenreResponse{ID: genre.ID.String(), Name: genre.Name}
}

func GenresToResponse(genres []*entity.Genre) []GenreResponse {
	out := make([]GenreResponse, len(genres))
	for i, g := range genres {
		out[i] = GenreToResponse(g)
	}
	return out
}

func CollectionToResponse(collection *entity.Collection) CollectionResponse {
	return CollectionResponse{ID: collection.ID.String(), Name: collection.Name}
}

func CollectionsToResponse(collections []*entity.Collection) []CollectionResponse {
	out := make([]CollectionResponse, len(collections))
	for i, c := range collections {
		out[i] = CollectionToResponse(c)
	}
	return out
}

func FranchiseToResponse(franchise *entity.Franchise) FranchiseResponse {
	return FranchiseResponse{ID: franchise.ID.String(), Name: franchise.Name}
}
