package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"streaming-catalog/internal/data/entity"
	"streaming-catalog/internal/data/repository"
	"streaming-catalog/internal/dto/request"
	"streaming-catalog/internal/media"
	"streaming-catalog/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// memDB is an in-memory stand-in for the Postgres schema, including its cascades.
type memDB struct {
	mu sync.Mutex

	users              map[uuid.UUID]entity.User
	roles              map[string]entity.Role
	userRoles          map[uuid.UUID]map[uuid.UUID]bool
	otps               []*entity.OTP
	contents           map[uuid.UUID]entity.Content
	contentGenres      map[uuid.UUID][]uuid.UUID
	contentCollections map[uuid.UUID][]uuid.UUID
	episodes           map[uuid.UUID]entity.Episode
	franchises         map[uuid.UUID]entity.Franchise
	genres             map[uuid.UUID]entity.Genre
	collections        map[uuid.UUID]entity.Collection
	plans              map[uuid.UUID]entity.SubscriptionPlan
	subs               map[uuid.UUID]entity.UserSubscription
	ratings            map[uuid.UUID]entity.Rating

	failContentCreate       error
	failSubscriptionReplace error
}

func newMemDB() *memDB {
	db := &memDB{
		users:              map[uuid.UUID]entity.User{},
		roles:              map[string]entity.Role{},
		userRoles:          map[uuid.UUID]map[uuid.UUID]bool{},
		contents:           map[uuid.UUID]entity.Content{},
		contentGenres:      map[uuid.UUID][]uuid.UUID{},
		contentCollections: map[uuid.UUID][]uuid.UUID{},
		episodes:           map[uuid.UUID]entity.Episode{},
		franchises:         map[uuid.UUID]entity.Franchise{},
		genres:             map[uuid.UUID]entity.Genre{},
		collections:        map[uuid.UUID]entity.Collection{},
		plans:              map[uuid.UUID]entity.SubscriptionPlan{},
		subs:               map[uuid.UUID]entity.UserSubscription{},
		ratings:            map[uuid.UUID]entity.Rating{},
	}
	for _, name := range []string{entity.RoleUser, entity.RoleAdmin} {
		db.roles[name] = entity.Role{BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()}, Name: name}
	}
	return db
}

func (db *memDB) repository() *repository.Repository {
	return &repository.Repository{
		User:              memUsers{db},
		Role:              memRoles{db},
		OTP:               memOTPs{db},
		Content:           memContents{db},
		ContentGenre:      memLinks{db: db, genres: true},
		ContentCollection: memLinks{db: db},
		Episode:           memEpisodes{db},
		Franchise:         memFranchises{db},
		Genre:             memGenres{db},
		Collection:        memCollections{db},
		SubscriptionPlan:  memPlans{db},
		UserSubscription:  memSubs{db},
		Rating:            memRatings{db},
	}
}

func duplicate(constraint string) error {
	return fmt.Errorf("%w (%s)", repository.ErrDuplicate, constraint)
}

// ==================== USERS ====================

type memUsers struct{ db *memDB }

func (r memUsers) Create(_ context.Context, user *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if strings.EqualFold(u.Email, user.Email) {
			return duplicate("users_email_key")
		}
		if strings.EqualFold(u.Username, user.Username) {
			return duplicate("users_username_key")
		}
	}
	r.db.users[user.ID] = *user
	return nil
}

func (r memUsers) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r memUsers) find(match func(entity.User) bool) *entity.User {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if match(u) {
			return &u
		}
	}
	return nil
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return strings.EqualFold(u.Email, email) }), nil
}

func (r memUsers) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return strings.EqualFold(u.Username, username) }), nil
}

func (r memUsers) matching(search string) []*entity.User {
	var out []*entity.User
	for _, u := range r.db.users {
		if search == "" || strings.Contains(strings.ToLower(u.Username+" "+u.Email), strings.ToLower(search)) {
			u := u
			out = append(out, &u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func (r memUsers) FindAll(_ context.Context, limit, offset int, search string) ([]*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return page(r.matching(search), limit, offset), nil
}

func (r memUsers) CountAll(_ context.Context, search string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.matching(search))), nil
}

func (r memUsers) Update(_ context.Context, user *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	r.db.users[user.ID] = *user
	return nil
}

func (r memUsers) Delete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.users, id)
	delete(r.db.userRoles, id)
	return nil
}

func (r memUsers) UpdateLockout(_ context.Context, id uuid.UUID, failedCount int, lockoutEnd *time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.AccessFailedCount = failedCount
	u.LockoutEnd = lockoutEnd
	r.db.users[id] = u
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// ==================== ROLES & OTP ====================

type memRoles struct{ db *memDB }

func (r memRoles) FindByName(_ context.Context, name string) (*entity.Role, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	role, ok := r.db.roles[name]
	if !ok {
		return nil, nil
	}
	return &role, nil
}

func (r memRoles) FindNamesByUserID(_ context.Context, userID uuid.UUID) ([]string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var names []string
	for _, role := range r.db.roles {
		if r.db.userRoles[userID][role.ID] {
			names = append(names, role.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (r memRoles) AssignToUser(_ context.Context, userID, roleID uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.userRoles[userID] == nil {
		r.db.userRoles[userID] = map[uuid.UUID]bool{}
	}
	r.db.userRoles[userID][roleID] = true
	return nil
}

func (r memRoles) RemoveFromUser(_ context.Context, userID, roleID uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if !r.db.userRoles[userID][roleID] {
		return repository.ErrNotFound
	}
	delete(r.db.userRoles[userID], roleID)
	return nil
}

type memOTPs struct{ db *memDB }

func (r memOTPs) Create(_ context.Context, otp *entity.OTP) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o := *otp
	r.db.otps = append(r.db.otps, &o)
	return nil
}

func (r memOTPs) FindValid(_ context.Context, email, code string, otpType entity.OTPType) (*entity.OTP, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, o := range r.db.otps {
		if strings.EqualFold(o.Email, email) && o.OTPCode == code && o.OTPType == otpType &&
			!o.IsUsed && o.ExpiresAt.After(time.Now()) {
			found := *o
			return &found, nil
		}
	}
	return nil, nil
}

func (r memOTPs) MarkAsUsed(_ context.Context, otpID uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, o := range r.db.otps {
		if o.ID == otpID {
			o.IsUsed = true
		}
	}
	return nil
}

func (r memOTPs) InvalidateForUser(_ context.Context, userID uuid.UUID, otpType entity.OTPType) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, o := range r.db.otps {
		if o.UserID == userID && o.OTPType == otpType {
			o.IsUsed = true
		}
	}
	return nil
}

// ==================== CONTENT ====================

type memContents struct{ db *memDB }

func (r memContents) Create(_ context.Context, content *entity.Content) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failContentCreate != nil {
		return r.db.failContentCreate
	}
	r.db.contents[content.ID] = *content
	return nil
}

func (r memContents) FindByID(_ context.Context, id uuid.UUID) (*entity.Content, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.contents[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r memContents) Update(_ context.Context, content *entity.Content) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.contents[content.ID]; !ok {
		return repository.ErrNotFound
	}
	r.db.contents[content.ID] = *content
	return nil
}

func (r memContents) Delete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.contents[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.contents, id)
	delete(r.db.contentGenres, id)
	delete(r.db.contentCollections, id)
	for eid, e := range r.db.episodes {
		if e.ContentID == id {
			delete(r.db.episodes, eid)
		}
	}
	for rid, rt := range r.db.ratings {
		if rt.ContentID == id {
			delete(r.db.ratings, rid)
		}
	}
	return nil
}

func contains(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func (r memContents) filtered(filter entity.ContentFilter) []*entity.Content {
	var out []*entity.Content
	for _, c := range r.db.contents {
		switch {
		case filter.Type != "" && c.Type != filter.Type,
			filter.ReleaseYear != 0 && c.ReleaseYear != filter.ReleaseYear,
			filter.Search != "" && !strings.Contains(strings.ToLower(c.Title), strings.ToLower(filter.Search)),
			filter.GenreID != nil && !contains(r.db.contentGenres[c.ID], *filter.GenreID),
			filter.CollectionID != nil && !contains(r.db.contentCollections[c.ID], *filter.CollectionID),
			filter.FranchiseID != nil && (c.FranchiseID == nil || *c.FranchiseID != *filter.FranchiseID):
			continue
		}
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

func (r memContents) FindAll(_ context.Context, offset, limit int, filter entity.ContentFilter) ([]*entity.Content, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return page(r.filtered(filter), limit, offset), nil
}

func (r memContents) CountAll(_ context.Context, filter entity.ContentFilter) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.filtered(filter))), nil
}

func (r memContents) FindByFranchiseID(_ context.Context, franchiseID uuid.UUID) ([]*entity.Content, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := r.filtered(entity.ContentFilter{FranchiseID: &franchiseID})
	order := func(c *entity.Content) int {
		if c.FranchiseOrder == nil {
			return 1 << 30
		}
		return *c.FranchiseOrder
	}
	sort.SliceStable(out, func(i, j int) bool { return order(out[i]) < order(out[j]) })
	return out, nil
}

func (r memContents) UpdateRating(_ context.Context, contentID uuid.UUID, newRating float64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.contents[contentID]
	if !ok {
		return repository.ErrNotFound
	}
	c.Rating = newRating
	r.db.contents[contentID] = c
	return nil
}

// memLinks backs both bridge tables.
type memLinks struct {
	db     *memDB
	genres bool
}

func (r memLinks) ReplaceForContent(_ context.Context, contentID uuid.UUID, ids []uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, id := range ids {
		var ok bool
		if r.genres {
			_, ok = r.db.genres[id]
		} else {
			_, ok = r.db.collections[id]
		}
		if !ok {
			return repository.ErrReferenced
		}
	}
	if r.genres {
		r.db.contentGenres[contentID] = append([]uuid.UUID(nil), ids...)
	} else {
		r.db.contentCollections[contentID] = append([]uuid.UUID(nil), ids...)
	}
	return nil
}

// ==================== EPISODES ====================

type memEpisodes struct{ db *memDB }

func (r memEpisodes) clash(e *entity.Episode) bool {
	for _, other := range r.db.episodes {
		if other.ID != e.ID && other.ContentID == e.ContentID && other.Number == e.Number {
			return true
		}
	}
	return false
}

func (r memEpisodes) Create(_ context.Context, episode *entity.Episode) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.contents[episode.ContentID]; !ok {
		return repository.ErrReferenced
	}
	if r.clash(episode) {
		return duplicate("uq_episodes_content_number")
	}
	r.db.episodes[episode.ID] = *episode
	return nil
}

func (r memEpisodes) FindByID(_ context.Context, id uuid.UUID) (*entity.Episode, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	e, ok := r.db.episodes[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r memEpisodes) FindByContentID(_ context.Context, contentID uuid.UUID) ([]*entity.Episode, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Episode
	for _, e := range r.db.episodes {
		if e.ContentID == contentID {
			e := e
			out = append(out, &e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r memEpisodes) FindByContentAndNumber(_ context.Context, contentID uuid.UUID, number int) (*entity.Episode, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, e := range r.db.episodes {
		if e.ContentID == contentID && e.Number == number {
			return &e, nil
		}
	}
	return nil, nil
}

func (r memEpisodes) Update(_ context.Context, episode *entity.Episode) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.episodes[episode.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.clash(episode) {
		return duplicate("uq_episodes_content_number")
	}
	r.db.episodes[episode.ID] = *episode
	return nil
}

func (r memEpisodes) Delete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.episodes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.episodes, id)
	return nil
}

// ==================== FRANCHISES / GENRES / COLLECTIONS ====================

type memFranchises struct{ db *memDB }

func (r memFranchises) Create(_ context.Context, f *entity.Franchise) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.franchises[f.ID] = *f
	return nil
}

func (r memFranchises) FindByID(_ context.Context, id uuid.UUID) (*entity.Franchise, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	f, ok := r.db.franchises[id]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (r memFranchises) all() []*entity.Franchise {
	var out []*entity.Franchise
	for _, f := range r.db.franchises {
		f := f
		out = append(out, &f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r memFranchises) FindAll(_ context.Context, limit, offset int) ([]*entity.Franchise, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return page(r.all(), limit, offset), nil
}

func (r memFranchises) CountAll(context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.db.franchises)), nil
}

func (r memFranchises) Update(_ context.Context, f *entity.Franchise) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.franchises[f.ID]; !ok {
		return repository.ErrNotFound
	}
	r.db.franchises[f.ID] = *f
	return nil
}

func (r memFranchises) Delete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.franchises[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.franchises, id)
	for cid, c := range r.db.contents {
		if c.FranchiseID != nil && *c.FranchiseID == id {
			c.FranchiseID = nil
			r.db.contents[cid] = c
		}
	}
	return nil
}

type memGenres struct{ db *memDB }

func (r memGenres) Create(_ context.Context, g *entity.Genre) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, other := range r.db.genres {
		if strings.EqualFold(other.Name, g.Name) {
			return duplicate("genres_name_key")
		}
	}
	r.db.genres[g.ID] = *g
	return nil
}

func (r memGenres) FindByID(_ context.Context, id uuid.UUID) (*entity.Genre, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	g, ok := r.db.genres[id]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (r memGenres) FindByName(_ context.Context, name string) (*entity.Genre, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, g := range r.db.genres {
		if strings.EqualFold(g.Name, name) {
			return &g, nil
		}
	}
	return nil, nil
}

func (r memGenres) FindAll(context.Context) ([]*entity.Genre, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Genre
	for _, g := range r.db.genres {
		g := g
		out = append(out, &g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memGenres) FindByContentID(_ context.Context, contentID uuid.UUID) ([]*entity.Genre, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Genre
	for _, id := range r.db.contentGenres[contentID] {
		g := r.db.genres[id]
		out = append(out, &g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memGenres) Update(_ context.Context, g *entity.Genre) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.genres[g.ID] = *g
	return nil
}

func (r memGenres) Delete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.genres[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.genres, id)
	for cid, ids := range r.db.contentGenres {
		var kept []uuid.UUID
		for _, gid := range ids {
			if gid != id {
				kept = append(kept, gid)
			}
		}
		r.db.contentGenres[cid] = kept
	}
	return nil
}

type memCollections struct{ db *memDB }

func (r memCollections) Create(_ context.Context, c *entity.Collection) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, other := range r.db.collections {
		if strings.EqualFold(other.Name, c.Name) {
			return duplicate("collections_name_key")
		}
	}
	r.db.collections[c.ID] = *c
	return nil
}

func (r memCollections) FindByID(_ context.Context, id uuid.UUID) (*entity.Collection, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.collections[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r memCollections) FindByName(_ context.Context, name string) (*entity.Collection, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.collections {
		if strings.EqualFold(c.Name, name) {
			return &c, nil
		}
	}
	return nil, nil
}

func (r memCollections) FindAll(context.Context) ([]*entity.Collection, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Collection
	for _, c := range r.db.collections {
		c := c
		out = append(out, &c)
	}
	return out, nil
}

func (r memCollections) FindByContentID(_ context.Context, contentID uuid.UUID) ([]*entity.Collection, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Collection
	for _, id := range r.db.contentCollections[contentID] {
		c := r.db.collections[id]
		out = append(out, &c)
	}
	return out, nil
}

func (r memCollections) Update(_ context.Context, c *entity.Collection) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.collections[c.ID] = *c
	return nil
}

func (r memCollections) Delete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.collections[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.collections, id)
	return nil
}

// ==================== SUBSCRIPTIONS ====================

type memPlans struct{ db *memDB }

func (r memPlans) Create(_ context.Context, p *entity.SubscriptionPlan) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, other := range r.db.plans {
		if strings.EqualFold(other.Name, p.Name) {
			return duplicate("subscription_plans_name_key")
		}
	}
	r.db.plans[p.ID] = *p
	return nil
}

func (r memPlans) FindByID(_ context.Context, id uuid.UUID) (*entity.SubscriptionPlan, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.plans[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r memPlans) FindByName(_ context.Context, name string) (*entity.SubscriptionPlan, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.plans {
		if strings.EqualFold(p.Name, name) {
			return &p, nil
		}
	}
	return nil, nil
}

func (r memPlans) FindAll(context.Context) ([]*entity.SubscriptionPlan, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.SubscriptionPlan
	for _, p := range r.db.plans {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out, nil
}

func (r memPlans) Update(_ context.Context, p *entity.SubscriptionPlan) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.plans[p.ID] = *p
	return nil
}

func (r memPlans) Delete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.plans[id]; !ok {
		return repository.ErrNotFound
	}
	for _, s := range r.db.subs {
		if s.PlanID == id {
			return repository.ErrReferenced
		}
	}
	delete(r.db.plans, id)
	return nil
}

type memSubs struct{ db *memDB }

func (r memSubs) Create(_ context.Context, s *entity.UserSubscription) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.subs[s.ID] = *s
	return nil
}

func (r memSubs) FindActiveByUserID(_ context.Context, userID uuid.UUID, at time.Time) (*entity.UserSubscription, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range r.db.subs {
		if s.UserID == userID && s.IsActive(at) {
			return &s, nil
		}
	}
	return nil, nil
}

func (r memSubs) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.UserSubscription, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.UserSubscription
	for _, s := range r.db.subs {
		if s.UserID == userID {
			s := s
			out = append(out, &s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, nil
}

func (r memSubs) CountByPlanID(_ context.Context, planID uuid.UUID) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, s := range r.db.subs {
		if s.PlanID == planID {
			n++
		}
	}
	return n, nil
}

func (r memSubs) Update(_ context.Context, s *entity.UserSubscription) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.subs[s.ID] = *s
	return nil
}

func (r memSubs) Replace(_ context.Context, sub *entity.UserSubscription) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failSubscriptionReplace != nil {
		return r.db.failSubscriptionReplace
	}
	for id, s := range r.db.subs {
		if s.UserID == sub.UserID && s.IsActive(sub.StartDate) {
			s.EndDate = sub.StartDate
			s.AutoRenew = false
			r.db.subs[id] = s
		}
	}
	r.db.subs[sub.ID] = *sub
	return nil
}

// ==================== RATINGS ====================

type memRatings struct{ db *memDB }

func (r memRatings) Upsert(_ context.Context, rating *entity.Rating) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, existing := range r.db.ratings {
		if existing.UserID == rating.UserID && existing.ContentID == rating.ContentID {
			rating.ID = existing.ID
			rating.CreatedAt = existing.CreatedAt
			r.db.ratings[id] = *rating
			return nil
		}
	}
	r.db.ratings[rating.ID] = *rating
	return nil
}

func (r memRatings) FindByUserAndContent(_ context.Context, userID, contentID uuid.UUID) (*entity.Rating, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, rt := range r.db.ratings {
		if rt.UserID == userID && rt.ContentID == contentID {
			return &rt, nil
		}
	}
	return nil, nil
}

func (r memRatings) forContent(contentID uuid.UUID) []*entity.Rating {
	var out []*entity.Rating
	for _, rt := range r.db.ratings {
		if rt.ContentID == contentID {
			rt := rt
			out = append(out, &rt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func (r memRatings) FindByContentID(_ context.Context, contentID uuid.UUID, limit, offset int) ([]*entity.Rating, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return page(r.forContent(contentID), limit, offset), nil
}

func (r memRatings) CountByContentID(_ context.Context, contentID uuid.UUID) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.forContent(contentID))), nil
}

func (r memRatings) Delete(_ context.Context, userID, contentID uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, rt := range r.db.ratings {
		if rt.UserID == userID && rt.ContentID == contentID {
			delete(r.db.ratings, id)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r memRatings) GetContentRatingStats(_ context.Context, contentID uuid.UUID) (float64, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	ratings := r.forContent(contentID)
	if len(ratings) == 0 {
		return 0, 0, nil
	}
	sum := 0
	for _, rt := range ratings {
		sum += rt.Score
	}
	return float64(sum) / float64(len(ratings)), int64(len(ratings)), nil
}

// ==================== COLLABORATORS ====================

// fakeStore records stored media paths; failOn makes uploads into a folder fail.
type fakeStore struct {
	mu     sync.Mutex
	files  map[string]bool
	failOn string
	n      int
}

func newFakeStore() *fakeStore { return &fakeStore{files: map[string]bool{}} }

func (f *fakeStore) put(folder, ext string, r io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn != "" && folder == f.failOn {
		return "", fmt.Errorf("storage offline")
	}
	f.n++
	p := path.Join("/media", folder, fmt.Sprintf("%d%s", f.n, ext))
	f.files[p] = true
	return p, nil
}

func (f *fakeStore) remove(p string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, p)
}

func (f *fakeStore) has(p string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.files[p]
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.files)
}

type fakeImages struct{ store *fakeStore }

func (f fakeImages) Upload(_ context.Context, r io.Reader, opts media.ImageOptions) (string, error) {
	return f.store.put(path.Join("images", opts.Folder), ".webp", r)
}

func (f fakeImages) Delete(_ context.Context, p string) error {
	f.store.remove(p)
	return nil
}

type fakeVideos struct{ store *fakeStore }

func (f fakeVideos) Upload(_ context.Context, r io.Reader, filename string, _ int64) (string, error) {
	if !media.IsVideoFile(filename) {
		return "", media.ErrUnsupportedFormat
	}
	return f.store.put("videos", path.Ext(filename), r)
}

func (f fakeVideos) Delete(_ context.Context, p string) error {
	f.store.remove(p)
	return nil
}

type fakeTokens struct{}

func (fakeTokens) Generate(userID uuid.UUID, _ string, _ []string) (string, time.Time, error) {
	return "token-" + userID.String(), time.Now().Add(time.Hour), nil
}

type sentMail struct{ to, subject, body string }

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

func (m *fakeMailer) bySubject(subject string) []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sentMail
	for _, s := range m.sent {
		if s.subject == subject {
			out = append(out, s)
		}
	}
	return out
}

type fakeProvider struct {
	enabled bool
	body    json.RawMessage
	err     error
}

func (f fakeProvider) Enabled() bool { return f.enabled }

func (f fakeProvider) List(context.Context, string, string, int) (json.RawMessage, error) {
	return f.body, f.err
}

func (f fakeProvider) Search(context.Context, string, string, int) (json.RawMessage, error) {
	return f.body, f.err
}

func (f fakeProvider) Details(context.Context, string, int) (json.RawMessage, error) {
	return f.body, f.err
}

// ==================== HARNESS ====================

func testConfig() *utils.Config {
	return &utils.Config{
		Lockout: utils.LockoutConfig{MaxFailedAttempts: 5, DurationMinutes: 15},
		OTP:     utils.OTPConfig{ExpiryMinutes: 10, Length: 6},
		Media: utils.MediaConfig{
			PosterWidth: 500, PosterHeight: 750,
			BackdropWidth: 1920, BackdropHeight: 1080,
			AvatarSize: 256,
		},
	}
}

type harness struct {
	db     *memDB
	store  *fakeStore
	mailer *fakeMailer
	svc    *Service
}

func newHarness() *harness {
	db := newMemDB()
	store := newFakeStore()
	mailer := &fakeMailer{}
	svc := NewService(db.repository(), Dependencies{
		Tokens:   fakeTokens{},
		Images:   fakeImages{store},
		Videos:   fakeVideos{store},
		Mailer:   mailer,
		Metadata: fakeProvider{},
	}, testConfig(), zap.NewNop())
	return &harness{db: db, store: store, mailer: mailer, svc: svc}
}

func file(name string) *request.File {
	return &request.File{Filename: name, Content: strings.NewReader("bytes of " + name), Size: int64(len("bytes of " + name))}
}
