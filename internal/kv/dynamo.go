package kv

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/nikmy/klaro/pkg/errors"
)

// dynamoAPI is the part of *dynamodb.Client the backend uses.
type dynamoAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

type dynamoItem struct {
	Key       string `dynamodbav:"key"`
	Value     []byte `dynamodbav:"value"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

// Dynamo stores each key as one item of a table whose hash key is "key" (S).
type Dynamo struct {
	client dynamoAPI
	table  string
}

func NewDynamo(ctx context.Context, cfg DynamoConfig) (*Dynamo, error) {
	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.WrapFail(err, "load aws config")
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return newDynamo(client, cfg.Table), nil
}

func newDynamo(client dynamoAPI, table string) *Dynamo {
	return &Dynamo{client: client, table: table}
}

func (d *Dynamo) key(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"key": &types.AttributeValueMemberS{Value: key},
	}
}

func (d *Dynamo) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(d.table),
		Key:            d.key(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, errors.WrapFailf(err, "get item %q", key)
	}
	if out.Item == nil {
		return nil, ErrNoKey
	}

	var item dynamoItem
	err = attributevalue.UnmarshalMap(out.Item, &item)
	if err != nil {
		return nil, errors.WrapFailf(err, "unmarshal item %q", key)
	}
	return item.Value, nil
}

func (d *Dynamo) Has(ctx context.Context, key string) (bool, error) {
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(d.table),
		Key:            d.key(key),
		ConsistentRead: aws.Bool(true),
		// "key" is a reserved word.
		ProjectionExpression:     aws.String("#k"),
		ExpressionAttributeNames: map[string]string{"#k": "key"},
	})
	if err != nil {
		return false, errors.WrapFailf(err, "get item key %q", key)
	}
	return out.Item != nil, nil
}

func (d *Dynamo) Put(ctx context.Context, key string, value []byte) error {
	item, err := attributevalue.MarshalMap(dynamoItem{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return errors.WrapFailf(err, "marshal item %q", key)
	}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      item,
	})
	return errors.WrapFailf(err, "put item %q", key)
}

func (d *Dynamo) Delete(ctx context.Context, key string) (bool, error) {
	out, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(d.table),
		Key:          d.key(key),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return false, errors.WrapFailf(err, "delete item %q", key)
	}
	return len(out.Attributes) > 0, nil
}

func (d *Dynamo) Close(context.Context) error {
	return nil
}
