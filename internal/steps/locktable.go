package steps

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/juju/clock"

	"github.com/melih-ucgun/bedrock/internal/cloud"
	"github.com/melih-ucgun/bedrock/internal/config"
	"github.com/melih-ucgun/bedrock/internal/core"
)

// LockTableStep, Terraform state kilitleri için DynamoDB tablosunu kurar
// ve ACTIVE olana kadar sınırlı bir bütçeyle bekler. Bütçe tükenirse adım
// başarısız olur; "muhtemelen birazdan hazır olur" diye devam edilmez.
type LockTableStep struct {
	core.BaseStep
	API      cloud.TableAPI
	Table    string
	Attempts int
	Delay    time.Duration
	Clock    clock.Clock
}

func NewLockTableStep(api cloud.TableAPI, cfg config.BackendConfig, clk clock.Clock) *LockTableStep {
	return &LockTableStep{
		BaseStep: core.BaseStep{StepName: "lock-table", StepKind: "lock-table"},
		API:      api,
		Table:    cfg.LockTable,
		Attempts: cfg.PollAttempts,
		Delay:    cfg.PollDelay(),
		Clock:    clk,
	}
}

func (s *LockTableStep) Validate() error {
	if s.Table == "" {
		return fmt.Errorf("lock-table step: table name is required")
	}
	if s.Attempts <= 0 {
		return fmt.Errorf("lock-table step: poll_attempts must be positive")
	}
	return nil
}

func (s *LockTableStep) Check(ctx *core.RunContext) (bool, error) {
	status, exists, err := cloud.TableStatus(ctx, s.API, s.Table)
	if err != nil {
		return false, err
	}
	if !exists || status != types.TableStatusActive {
		// CREATING durumundaki tabloyu Apply bekleyecek.
		return false, nil
	}

	ctx.SetOutput(OutLockTable, s.Table)
	return true, nil
}

func (s *LockTableStep) Apply(ctx *core.RunContext) (core.Result, error) {
	created, err := cloud.EnsureTable(ctx, s.API, s.Table)
	if err != nil {
		return core.Result{}, err
	}

	if err := cloud.WaitActive(ctx, s.API, s.Table, s.Attempts, s.Delay, s.Clock, ctx.Logger); err != nil {
		return core.Result{}, err
	}

	ctx.SetOutput(OutLockTable, s.Table)

	if created {
		return core.SuccessChange(fmt.Sprintf("table %s created and ACTIVE", s.Table)), nil
	}
	return core.SuccessChange(fmt.Sprintf("table %s became ACTIVE", s.Table)), nil
}
