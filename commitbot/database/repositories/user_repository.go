package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DJN-1/discord-commit-bot/commitbot/database"
	"github.com/DJN-1/discord-commit-bot/commitbot/database/models"
	"github.com/DJN-1/discord-commit-bot/commitbot/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrUserNotFound = errors.New("user not registered")
	ErrUserExists   = errors.New("user already registered")
)

// Editable profile fields accepted by UpdateField.
const (
	FieldGithubID   = "github_id"
	FieldRepoName   = "repo_name"
	FieldGoalPerDay = "goal_per_day"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByDiscordID(ctx context.Context, discordID string) (*models.User, error)
	GetAll(ctx context.Context) ([]*models.User, error)
	Delete(ctx context.Context, discordID string) error
	UpdateField(ctx context.Context, discordID, field string, value any) error
	SetVacation(ctx context.Context, discordID string, onVacation bool) error
	RecordVerification(ctx context.Context, discordID, date string, rec models.Verification) error
	IncrementFails(ctx context.Context, discordID string, delta int) error
	ResetWeeklyFails(ctx context.Context) error
}

type userRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *database.DB) UserRepository {
	return &userRepository{coll: db.Collection("users")}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	start := time.Now()
	if user.History == nil {
		user.History = map[string]models.Verification{}
	}
	user.RegisteredAt = time.Now()

	_, err := r.coll.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		err = ErrUserExists
	}
	logger.LogQuery("users.create", time.Since(start), err)
	return err
}

func (r *userRepository) GetByDiscordID(ctx context.Context, discordID string) (*models.User, error) {
	start := time.Now()
	user := new(models.User)
	err := r.coll.FindOne(ctx, bson.M{"_id": discordID}).Decode(user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		err = ErrUserNotFound
	}
	logger.LogQuery("users.get", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	start := time.Now()
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		logger.LogQuery("users.get_all", time.Since(start), err)
		return nil, err
	}

	var users []*models.User
	err = cursor.All(ctx, &users)
	logger.LogQuery("users.get_all", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Delete(ctx context.Context, discordID string) error {
	start := time.Now()
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": discordID})
	if err == nil && res.DeletedCount == 0 {
		err = ErrUserNotFound
	}
	logger.LogQuery("users.delete", time.Since(start), err)
	return err
}

func (r *userRepository) UpdateField(ctx context.Context, discordID, field string, value any) error {
	switch field {
	case FieldGithubID, FieldRepoName, FieldGoalPerDay:
	default:
		return fmt.Errorf("unknown profile field %q", field)
	}
	return r.updateOne(ctx, "users.update_field", discordID, bson.M{"$set": bson.M{field: value}})
}

func (r *userRepository) SetVacation(ctx context.Context, discordID string, onVacation bool) error {
	return r.updateOne(ctx, "users.set_vacation", discordID, bson.M{"$set": bson.M{"on_vacation": onVacation}})
}

// RecordVerification writes exactly one history field so concurrent
// updates to counters or other days are never clobbered.
func (r *userRepository) RecordVerification(ctx context.Context, discordID, date string, rec models.Verification) error {
	return r.updateOne(ctx, "users.record_verification", discordID, bson.M{
		"$set": bson.M{"history." + date: rec},
	})
}

// IncrementFails adjusts both counters atomically by a signed delta; the
// store applies the increment server-side so concurrent writers never
// lose updates.
func (r *userRepository) IncrementFails(ctx context.Context, discordID string, delta int) error {
	return r.updateOne(ctx, "users.increment_fails", discordID, bson.M{
		"$inc": bson.M{"weekly_fail": delta, "total_fail": delta},
	})
}

func (r *userRepository) ResetWeeklyFails(ctx context.Context) error {
	start := time.Now()
	_, err := r.coll.UpdateMany(ctx, bson.M{}, bson.M{"$set": bson.M{"weekly_fail": 0}})
	logger.LogQuery("users.reset_weekly_fails", time.Since(start), err)
	return err
}

func (r *userRepository) updateOne(ctx context.Context, op, discordID string, update bson.M) error {
	start := time.Now()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": discordID}, update)
	if err == nil && res.MatchedCount == 0 {
		err = ErrUserNotFound
	}
	logger.LogQuery(op, time.Since(start), err)
	return err
}
