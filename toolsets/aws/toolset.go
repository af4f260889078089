package aws

import (
	"context"
	"errors"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	awslib "iamkit/internal/aws"
	"iamkit/internal/mcp"
	awsiam "iamkit/toolsets/aws/iam"
	awssts "iamkit/toolsets/aws/sts"
)

type Toolset struct {
	ctx mcp.ToolsetContext
}

func New() *Toolset {
	return &Toolset{}
}

func init() {
	mcp.MustRegisterToolset("aws", func() mcp.Toolset {
		return New()
	})
}

func (t *Toolset) ID() string {
	return "aws"
}

func (t *Toolset) Version() string {
	return "0.1.0"
}

func (t *Toolset) Init(ctx mcp.ToolsetContext) error {
	if ctx.Clients == nil {
		return errors.New("missing aws client pool")
	}
	t.ctx = ctx
	return nil
}

func (t *Toolset) Register(reg mcp.Registry) error {
	specs := awsiam.ToolSpecs(t.ctx, t.ID(), t.iamClient)
	specs = append(specs, awssts.ToolSpecs(t.ctx, t.ID(), t.stsClient)...)
	for _, tool := range specs {
		if err := reg.Add(tool); err != nil {
			return fmt.Errorf("register %s: %w", tool.Name, err)
		}
	}
	return nil
}

func (t *Toolset) iamClient(ctx context.Context, region string) (awsiam.API, string, error) {
	client, usedRegion, err := awslib.Client(ctx, t.ctx.Clients, "iam", region, func(cfg sdkaws.Config) *iam.Client {
		return iam.NewFromConfig(cfg)
	})
	if err != nil {
		return nil, "", err
	}
	return client, usedRegion, nil
}

func (t *Toolset) stsClient(ctx context.Context, region string) (awssts.API, string, error) {
	client, usedRegion, err := awslib.Client(ctx, t.ctx.Clients, "sts", region, func(cfg sdkaws.Config) *sts.Client {
		return sts.NewFromConfig(cfg)
	})
	if err != nil {
		return nil, "", err
	}
	return client, usedRegion, nil
}
