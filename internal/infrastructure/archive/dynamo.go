// Package archive persists completed quotes.
package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/anshumaan69/tenderflow/internal/domain"
)

// DefaultTable is used when no table name is configured
const DefaultTable = "rfp_quotes"

// PutItemAPI is the subset of *dynamodb.Client used by the archive
type PutItemAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

type lineItem struct {
	ID         string `dynamodbav:"id"`
	ProductID  string `dynamodbav:"product_id,omitempty"`
	Name       string `dynamodbav:"name"`
	Kind       string `dynamodbav:"kind"`
	Quantity   int    `dynamodbav:"quantity"`
	UnitPrice  int64  `dynamodbav:"unit_price"`
	Total      int64  `dynamodbav:"total"`
	Status     string `dynamodbav:"status"`
	Confidence int    `dynamodbav:"confidence"`
	Notes      string `dynamodbav:"notes,omitempty"`
}

type quoteItem struct {
	ID          string     `dynamodbav:"id"`
	Industry    string     `dynamodbav:"industry"`
	Strategy    string     `dynamodbav:"strategy"`
	GrandTotal  int64      `dynamodbav:"grand_total"`
	ItemCount   int        `dynamodbav:"item_count"`
	Items       []lineItem `dynamodbav:"items"`
	GeneratedAt string     `dynamodbav:"generated_at"`
}

// DynamoArchive stores one item per quote.
//
// Table requirements:
//   - PK: id (string)
type DynamoArchive struct {
	ddb       PutItemAPI
	tableName string
}

var _ domain.QuoteArchive = (*DynamoArchive)(nil)

// NewDynamoArchive creates an archive writing to tableName
func NewDynamoArchive(ddb PutItemAPI, tableName string) *DynamoArchive {
	if tableName == "" {
		tableName = DefaultTable
	}
	return &DynamoArchive{ddb: ddb, tableName: tableName}
}

// NewDynamoClient creates a DynamoDB client from an AWS config
func NewDynamoClient(cfg aws.Config) *dynamodb.Client {
	return dynamodb.NewFromConfig(cfg)
}

// Save writes the quote; a quote ID is written at most once
func (a *DynamoArchive) Save(ctx context.Context, quote *domain.QuoteResult) error {
	if quote == nil || quote.ID == "" {
		return fmt.Errorf("%w: quote id is required", domain.ErrInvalidRequest)
	}

	av, err := attributevalue.MarshalMap(toQuoteItem(quote))
	if err != nil {
		return fmt.Errorf("failed to marshal quote: %w", err)
	}

	_, err = a.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(a.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to archive quote %s: %w", quote.ID, err)
	}
	return nil
}

func toQuoteItem(q *domain.QuoteResult) quoteItem {
	items := make([]lineItem, 0, len(q.Items))
	for _, it := range q.Items {
		items = append(items, lineItem{
			ID:         it.ID,
			ProductID:  it.ProductID,
			Name:       it.Name,
			Kind:       string(it.Kind),
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			Total:      it.Total,
			Status:     string(it.Status),
			Confidence: it.Confidence,
			Notes:      it.Notes,
		})
	}

	return quoteItem{
		ID:          q.ID,
		Industry:    q.Industry,
		Strategy:    q.Strategy,
		GrandTotal:  q.GrandTotal(),
		ItemCount:   len(items),
		Items:       items,
		GeneratedAt: q.GeneratedAt.UTC().Format(time.RFC3339),
	}
}
