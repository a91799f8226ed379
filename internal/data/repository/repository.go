package repository

import (
	"streaming-catalog/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User              UserRepository
	Role              RoleRepository
	OTP               OTPRepository
	Content           ContentRepository
	ContentGenre      ContentGenreRepository
	ContentCollection ContentCollectionRepository
	Episode           EpisodeRepository
	Franchise         FranchiseRepository
	Genre             GenreRepository
	Collection        CollectionRepository
	SubscriptionPlan  SubscriptionPlanRepository
	UserSubscription  UserSubscriptionRepository
	Rating            RatingRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:              NewUserRepository(db, log),
		Role:              NewRoleRepository(db, log),
		OTP:               NewOTPRepository(db, log),
		Content:           NewContentRepository(db, log),
		ContentGenre:      NewContentGenreRepository(db, log),
		ContentCollection: NewContentCollectionRepository(db, log),
		Episode:           NewEpisodeRepository(db, log),
		Franchise:         NewFranchiseRepository(db, log),
		Genre:             NewGenreRepository(db, log),
		Collection:        NewCollectionRepository(db, log),
		SubscriptionPlan:  NewSubscriptionPlanRepository(db, log),
		UserSubscription:  NewUserSubscriptionRepository(db, log),
		Rating:            NewRatingRepository(db, log),
	}
}
