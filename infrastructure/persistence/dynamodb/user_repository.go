package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"yaplog-backend/application/ports"
	"yaplog-backend/domain/identity"
	pkgerrors "yaplog-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

const accountSK = "PROFILE"

// UserRepository implements ports.UserRepository using DynamoDB. Accounts
// are keyed by email; GSI1 resolves verification tokens and GSI2 resolves
// password-reset tokens, both sparse.
type UserRepository struct {
	client     *dynamodb.Client
	tableName  string
	indexName  string
	resetIndex string
	logger     *zap.Logger
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(client *dynamodb.Client, tableName, indexName, resetIndex string, logger *zap.Logger) ports.UserRepository {
	return &UserRepository{
		client:     client,
		tableName:  tableName,
		indexName:  indexName,
		resetIndex: resetIndex,
		logger:     logger,
	}
}

type userItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	GSI1PK     string `dynamodbav:"GSI1PK,omitempty"`
	GSI1SK     string `dynamodbav:"GSI1SK,omitempty"`
	GSI2PK     string `dynamodbav:"GSI2PK,omitempty"`
	GSI2SK     string `dynamodbav:"GSI2SK,omitempty"`
	EntityType string `dynamodbav:"EntityType"`

	UserID       string `dynamodbav:"UserID"`
	Name         string `dynamodbav:"Name"`
	Email        string `dynamodbav:"Email"`
	PasswordHash string `dynamodbav:"PasswordHash"`

	EmailVerified       bool   `dynamodbav:"EmailVerified"`
	VerificationToken   string `dynamodbav:"VerificationToken,omitempty"`
	VerificationExpires string `dynamodbav:"VerificationExpires,omitempty"`
	LastVerificationAt  string `dynamodbav:"LastVerificationAt,omitempty"`

	ResetToken   string `dynamodbav:"ResetToken,omitempty"`
	ResetExpires string `dynamodbav:"ResetExpires,omitempty"`

	CreatedAt string `dynamodbav:"CreatedAt"`
}

func accountPK(email string) string {
	return fmt.Sprintf("ACCOUNT#%s", strings.ToLower(email))
}

func verifyTokenGSI(token string) string {
	return fmt.Sprintf("VERIFY#%s", token)
}

func resetTokenGSI(token string) string {
	return fmt.Sprintf("RESET#%s", token)
}

// Insert persists a new account, failing with a conflict when the email
// is already registered.
func (r *UserRepository) Insert(ctx context.Context, user *identity.User) error {
	av, err := attributevalue.MarshalMap(r.toItem(user))
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal user", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return pkgerrors.NewConflictError("email is already registered")
		}
		r.logger.Error("Failed to save user to DynamoDB",
			zap.String("userID", user.ID()),
			zap.Error(err),
		)
		return pkgerrors.NewDatabaseError("insert user", err)
	}

	return nil
}

// Update overwrites the stored account state. Token attributes are sparse,
// so clearing a token also drops the account out of the token index.
func (r *UserRepository) Update(ctx context.Context, user *identity.User) error {
	av, err := attributevalue.MarshalMap(r.toItem(user))
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal user", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return pkgerrors.NewNotFoundError("user")
		}
		return pkgerrors.NewDatabaseError("update user", err)
	}

	return nil
}

// FindByEmail retrieves an account by its email address
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: accountPK(email)},
			"SK": &types.AttributeValueMemberS{Value: accountSK},
		},
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get user", err)
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError("user")
	}

	return r.unmarshalUser(out.Item)
}

// FindByVerificationToken resolves an account from a pending email
// verification token.
func (r *UserRepository) FindByVerificationToken(ctx context.Context, token string) (*identity.User, error) {
	return r.queryTokenIndex(ctx, r.indexName, "GSI1PK", verifyTokenGSI(token))
}

// FindByResetToken resolves an account from a pending password-reset token.
func (r *UserRepository) FindByResetToken(ctx context.Context, token string) (*identity.User, error) {
	return r.queryTokenIndex(ctx, r.resetIndex, "GSI2PK", resetTokenGSI(token))
}

func (r *UserRepository) queryTokenIndex(ctx context.Context, index, keyName, keyValue string) (*identity.User, error) {
	keyCond := expression.Key(keyName).Equal(expression.Value(keyValue))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("build query", err)
	}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("query token index", err)
	}
	if len(out.Items) == 0 {
		return nil, pkgerrors.NewNotFoundError("user")
	}

	return r.unmarshalUser(out.Items[0])
}

func (r *UserRepository) toItem(user *identity.User) userItem {
	item := userItem{
		PK:            accountPK(user.Email()),
		SK:            accountSK,
		EntityType:    "ACCOUNT",
		UserID:        user.ID(),
		Name:          user.Name(),
		Email:         user.Email(),
		PasswordHash:  user.PasswordHash(),
		EmailVerified: user.EmailVerified(),
		CreatedAt:     user.CreatedAt().UTC().Format(time.RFC3339Nano),
	}

	if user.VerificationToken() != "" {
		item.GSI1PK = verifyTokenGSI(user.VerificationToken())
		item.GSI1SK = accountSK
		item.VerificationToken = user.VerificationToken()
		item.VerificationExpires = user.VerificationExpires().UTC().Format(time.RFC3339Nano)
	}
	if !user.LastVerificationAt().IsZero() {
		item.LastVerificationAt = user.LastVerificationAt().UTC().Format(time.RFC3339Nano)
	}
	if user.ResetToken() != "" {
		item.GSI2PK = resetTokenGSI(user.ResetToken())
		item.GSI2SK = accountSK
		item.ResetToken = user.ResetToken()
		item.ResetExpires = user.ResetExpires().UTC().Format(time.RFC3339Nano)
	}

	return item
}

func (r *UserRepository) unmarshalUser(raw map[string]types.AttributeValue) (*identity.User, error) {
	var item userItem
	if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
		return nil, pkgerrors.NewDatabaseError("unmarshal user item", err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, item.CreatedAt)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("parse user timestamps", err)
	}

	parseOptional := func(s string) time.Time {
		if s == "" {
			return time.Time{}
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}
		}
		return t
	}

	return identity.ReconstructUser(
		item.UserID, item.Name, item.Email, item.PasswordHash,
		item.EmailVerified,
		item.VerificationToken, parseOptional(item.VerificationExpires), parseOptional(item.LastVerificationAt),
		item.ResetToken, parseOptional(item.ResetExpires),
		createdAt,
	)
}
