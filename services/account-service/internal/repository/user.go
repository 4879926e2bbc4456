package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/pakin/account-api/services/account-service/internal/model"
)

// ErrNotFound is returned when no user document matches the given filter.
// The Mongo implementation maps the driver's not-found error onto it so
// usecases never depend on driver error types.
var ErrNotFound = errors.New("user not found")

// UserRepository defines the database operations of the account service.
//
// ConfirmUser and ResetPassword express their read-then-update sequence as a
// single filter+update call. The store applies them atomically per document,
// which is what makes the single-use token guarantee hold under concurrent
// requests.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)

	// DeleteUnconfirmedUser removes an unconfirmed account for the email,
	// if one exists. Confirmed accounts are never deleted.
	DeleteUnconfirmedUser(ctx context.Context, email string) error

	// GetPendingConfirmation finds an unconfirmed account whose
	// confirmation token has not yet expired.
	GetPendingConfirmation(ctx context.Context, email string, now time.Time) (*model.User, error)

	// ConfirmUser marks the account confirmed and clears the confirmation
	// token pair, provided the token matches, has not expired and the
	// account is not already confirmed.
	ConfirmUser(ctx context.Context, email, token string, now time.Time) (*model.User, error)

	// SetPasswordResetToken records an outstanding password reset.
	SetPasswordResetToken(ctx context.Context, id, token string, requestedAt, expiresAt time.Time) error

	// ResetPassword replaces the password hash and clears all three reset
	// fields, provided the reset token matches and has not expired.
	ResetPassword(ctx context.Context, email, token, passwordHash string, now time.Time) (*model.User, error)

	// UpdatePassword replaces the password hash for a signed-in user.
	UpdatePassword(ctx context.Context, id, passwordHash string, now time.Time) error
}

const userCollection = "users"

type userMongoRepository struct {
	db *mongo.Database
}

// NewUserMongoRepository creates the Mongo-backed user repository and ensures
// the unique email index exists.
func NewUserMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) UserRepository {
	collection := db.Collection(userCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create user indexes")
	}

	return &userMongoRepository{db: db}
}

func (r *userMongoRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.db.Collection(userCollection).InsertOne(ctx, user)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		user.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return user, nil
}

func (r *userMongoRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *userMongoRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userMongoRepository) ListUsers(ctx context.Context) ([]*model.User, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "signup_date", Value: 1}})

	cursor, err := r.db.Collection(userCollection).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*model.User
	for cursor.Next(ctx) {
		var user model.User
		if err := cursor.Decode(&user); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userMongoRepository) DeleteUnconfirmedUser(ctx context.Context, email string) error {
	_, err := r.db.Collection(userCollection).DeleteOne(ctx, bson.M{
		"email":     email,
		"confirmed": false,
	})
	return err
}

func (r *userMongoRepository) GetPendingConfirmation(
	ctx context.Context,
	email string,
	now time.Time,
) (*model.User, error) {
	return r.findOne(ctx, bson.M{
		"email":                      email,
		"confirmed":                  false,
		"confirmation_token_expires": bson.M{"$gt": now},
	})
}

func (r *userMongoRepository) ConfirmUser(
	ctx context.Context,
	email, token string,
	now time.Time,
) (*model.User, error) {
	filter := bson.M{
		"email":                      email,
		"confirmation_token":         token,
		"confirmation_token_expires": bson.M{"$gt": now},
		"confirmed":                  false,
	}
	update := bson.M{
		"$set": bson.M{
			"confirmed":      true,
			"confirmed_date": now,
			"updated_at":     now,
		},
		"$unset": bson.M{
			"confirmation_token":         "",
			"confirmation_token_expires": "",
		},
	}

	return r.findOneAndUpdate(ctx, filter, update)
}

func (r *userMongoRepository) SetPasswordResetToken(
	ctx context.Context,
	id, token string,
	requestedAt, expiresAt time.Time,
) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	update := bson.M{
		"$set": bson.M{
			"reset_password_token":        token,
			"reset_password_expires":      expiresAt,
			"password_reset_request_date": requestedAt,
			"updated_at":                  requestedAt,
		},
	}

	result, err := r.db.Collection(userCollection).UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *userMongoRepository) ResetPassword(
	ctx context.Context,
	email, token, passwordHash string,
	now time.Time,
) (*model.User, error) {
	filter := bson.M{
		"email":                  email,
		"reset_password_token":   token,
		"reset_password_expires": bson.M{"$gt": now},
	}
	update := bson.M{
		"$set": bson.M{
			"password_hash":       passwordHash,
			"password_reset_date": now,
			"updated_at":          now,
		},
		"$unset": bson.M{
			"reset_password_token":        "",
			"reset_password_expires":      "",
			"password_reset_request_date": "",
		},
	}

	return r.findOneAndUpdate(ctx, filter, update)
}

func (r *userMongoRepository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
	now time.Time,
) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	update := bson.M{
		"$set": bson.M{
			"password_hash":         passwordHash,
			"password_last_updated": now,
			"updated_at":            now,
		},
	}

	result, err := r.db.Collection(userCollection).UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *userMongoRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	result := r.db.Collection(userCollection).FindOne(ctx, filter)
	if err := result.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*model.User, error) {
	result := r.db.Collection(userCollection).FindOneAndUpdate(
		ctx,
		filter,
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if err := result.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}
