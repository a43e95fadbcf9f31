package steps

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/melih-ucgun/bedrock/internal/cloud"
	"github.com/melih-ucgun/bedrock/internal/config"
	"github.com/melih-ucgun/bedrock/internal/core"
	"github.com/melih-ucgun/bedrock/internal/state"
)

// BucketStep, Terraform state'inin yaşayacağı S3 bucket'ını versiyonlama
// açık şekilde hazır eder. Üretilen rastgele ad outputs.json'a yazılır;
// sonraki çalışmalar yeni bucket üretmek yerine aynı adı kullanır.
type BucketStep struct {
	core.BaseStep
	API    cloud.BucketAPI
	Region string
	Fixed  string // konfigürasyonda sabitlenen ad
	Prefix string
	Store  *state.Store

	resolved string
}

func NewBucketStep(api cloud.BucketAPI, cfg config.BackendConfig, store *state.Store) *BucketStep {
	return &BucketStep{
		BaseStep: core.BaseStep{StepName: "s3-bucket", StepKind: "s3-bucket"},
		API:      api,
		Region:   cfg.Region,
		Fixed:    cfg.Bucket,
		Prefix:   cfg.BucketPrefix,
		Store:    store,
	}
}

func (s *BucketStep) Validate() error {
	if s.Region == "" {
		return fmt.Errorf("s3-bucket step: region is required")
	}
	if s.Fixed == "" && s.Prefix == "" {
		return fmt.Errorf("s3-bucket step: either bucket or bucket_prefix must be set")
	}
	return nil
}

// resolveName decides which bucket this run manages: the configured
// name, the name persisted by an earlier run, or a fresh generated one.
func (s *BucketStep) resolveName() (string, error) {
	if s.resolved != "" {
		return s.resolved, nil
	}
	if s.Fixed != "" {
		s.resolved = s.Fixed
		return s.resolved, nil
	}

	if s.Store != nil {
		persisted, err := s.Store.LoadOutputs()
		if err != nil {
			return "", fmt.Errorf("load persisted outputs: %w", err)
		}
		if name := persisted.Get(OutBucket); name != "" {
			s.resolved = name
			return s.resolved, nil
		}
	}

	// Bucket adları küresel olarak tekil; kısa bir rastgele sonek yeter.
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	s.resolved = s.Prefix + "-" + suffix
	return s.resolved, nil
}

func (s *BucketStep) Check(ctx *core.RunContext) (bool, error) {
	name, err := s.resolveName()
	if err != nil {
		return false, err
	}

	exists, err := cloud.BucketExists(ctx, s.API, name)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	versioned, err := cloud.VersioningEnabled(ctx, s.API, name)
	if err != nil {
		return false, err
	}
	if !versioned {
		return false, nil
	}

	s.publish(ctx, name)
	return true, nil
}

func (s *BucketStep) Apply(ctx *core.RunContext) (core.Result, error) {
	name, err := s.resolveName()
	if err != nil {
		return core.Result{}, err
	}

	created, err := cloud.EnsureBucket(ctx, s.API, name, s.Region)
	if err != nil {
		return core.Result{}, err
	}
	versioned, err := cloud.EnableVersioning(ctx, s.API, name)
	if err != nil {
		return core.Result{}, err
	}

	// Adı hemen kalıcılaştır: pipeline daha sonra başarısız olsa bile
	// tekrar çalıştırma aynı bucket'ı bulur, yenisini üretmez.
	if s.Store != nil {
		if err := s.Store.MergeOutputs(map[string]string{OutBucket: name}); err != nil {
			return core.Result{}, fmt.Errorf("persist bucket name: %w", err)
		}
	}
	s.publish(ctx, name)

	switch {
	case created:
		return core.SuccessChange(fmt.Sprintf("bucket %s created in %s, versioning enabled", name, s.Region)), nil
	case versioned:
		return core.SuccessChange(fmt.Sprintf("versioning enabled on existing bucket %s", name)), nil
	default:
		return core.SuccessNoChange(fmt.Sprintf("bucket %s already in place", name)), nil
	}
}

// Verify confirms the bucket answers HeadBucket with versioning on.
func (s *BucketStep) Verify(ctx *core.RunContext) error {
	name, err := s.resolveName()
	if err != nil {
		return err
	}
	exists, err := cloud.BucketExists(ctx, s.API, name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("bucket %s not visible after create", name)
	}
	versioned, err := cloud.VersioningEnabled(ctx, s.API, name)
	if err != nil {
		return err
	}
	if !versioned {
		return fmt.Errorf("versioning not enabled on %s", name)
	}
	return nil
}

func (s *BucketStep) publish(ctx *core.RunContext, name string) {
	ctx.SetOutput(OutBucket, name)
}
