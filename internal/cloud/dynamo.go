package cloud

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/juju/clock"
	"github.com/juju/retry"

	"github.com/melih-ucgun/bedrock/internal/core"
)

// ErrTableNeverActive, poll bütçesi tükendiğinde döner. Tükenme sessizce
// geçiştirilmez; pipeline bu hatayla durur.
var ErrTableNeverActive = errors.New("lock table never reached ACTIVE")

// errNotActive marks a poll round that should be retried.
var errNotActive = errors.New("table not ACTIVE yet")

// TableAPI is the slice of the DynamoDB client the lock-table step needs.
type TableAPI interface {
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// TableStatus, tablonun durumunu döner; tablo yoksa exists=false.
func TableStatus(ctx context.Context, api TableAPI, name string) (types.TableStatus, bool, error) {
	out, err := api.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)})
	if err != nil {
		var nf *types.ResourceNotFoundException
		if errors.As(err, &nf) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("describe table %s: %w", name, err)
	}
	return out.Table.TableStatus, true, nil
}

// EnsureTable creates the Terraform lock table if needed: LockID string
// hash key, on-demand billing. An existing table is a skip.
func EnsureTable(ctx context.Context, api TableAPI, name string) (bool, error) {
	_, err := api.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(name),
		AttributeDefinitions: []types.AttributeDefinition{{
			AttributeName: aws.String("LockID"),
			AttributeType: types.ScalarAttributeTypeS,
		}},
		KeySchema: []types.KeySchemaElement{{
			AttributeName: aws.String("LockID"),
			KeyType:       types.KeyTypeHash,
		}},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			return false, nil
		}
		return false, fmt.Errorf("create table %s: %w", name, err)
	}
	return true, nil
}

// WaitActive polls the table status at fixed intervals until it reads
// ACTIVE. Budget exhaustion returns ErrTableNeverActive; API failures
// other than "not active/not found yet" abort immediately.
func WaitActive(ctx context.Context, api TableAPI, name string, attempts int, delay time.Duration, clk clock.Clock, logger core.Logger) error {
	err := retry.Call(retry.CallArgs{
		Func: func() error {
			status, exists, err := TableStatus(ctx, api, name)
			if err != nil {
				return err
			}
			if !exists {
				return fmt.Errorf("%w (not created)", errNotActive)
			}
			if status != types.TableStatusActive {
				return fmt.Errorf("%w (status %s)", errNotActive, status)
			}
			return nil
		},
		IsFatalError: func(err error) bool {
			return !errors.Is(err, errNotActive)
		},
		NotifyFunc: func(err error, attempt int) {
			logger.Debug(fmt.Sprintf("waiting for table %s (attempt %d): %v", name, attempt, err))
		},
		Attempts: attempts,
		Delay:    delay,
		Clock:    clk,
		Stop:     ctx.Done(),
	})

	switch {
	case err == nil:
		return nil
	case retry.IsAttemptsExceeded(err):
		return fmt.Errorf("%w after %d attempts", ErrTableNeverActive, attempts)
	case retry.IsRetryStopped(err):
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	default:
		return err
	}
}
