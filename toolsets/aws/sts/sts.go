package awssts

import (
	"context"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"iamkit/internal/invoke"
	"iamkit/internal/mcp"
)

type API interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
	AssumeRole(ctx context.Context, params *sts.AssumeRoleInput, optFns ...func(*sts.Options)) (*sts.AssumeRoleOutput, error)
}

var _ API = (*sts.Client)(nil)

type ClientFunc func(ctx context.Context, region string) (API, string, error)

type Service struct {
	ctx       mcp.ToolsetContext
	client    ClientFunc
	toolsetID string
}

func ToolSpecs(ctx mcp.ToolsetContext, toolsetID string, client ClientFunc) []mcp.ToolSpec {
	svc := &Service{ctx: ctx, client: client, toolsetID: toolsetID}
	return []mcp.ToolSpec{
		{
			Name:        "aws.sts.get_caller_identity",
			Description: "Show the account and principal the resolved credentials belong to.",
			ToolsetID:   toolsetID,
			InputSchema: schemaGetCallerIdentity(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleGetCallerIdentity,
		},
		{
			Name:        "aws.sts.assume_role",
			Description: "Assume an IAM role and return temporary credentials.",
			ToolsetID:   toolsetID,
			InputSchema: schemaAssumeRole(),
			Safety:      mcp.SafetyRiskyWrite,
			Target:      "roleArn",
			Handler:     svc.handleAssumeRole,
		},
	}
}

func (s *Service) handleGetCallerIdentity(ctx context.Context, req mcp.ToolRequest) mcp.ToolResult {
	const op = "aws.sts.get_caller_identity"
	client, region, err := s.clientFor(ctx, req.Arguments)
	if err != nil {
		return mcp.Single(invoke.Failure(op, mcp.ClientFault(err)), region)
	}
	env := invoke.Do(ctx, op, client.GetCallerIdentity, &sts.GetCallerIdentityInput{}, func(out *sts.GetCallerIdentityOutput) any {
		return map[string]any{
			"account": aws.ToString(out.Account),
			"arn":     aws.ToString(out.Arn),
			"userId":  aws.ToString(out.UserId),
		}
	})
	return mcp.Single(env, region)
}

func (s *Service) handleAssumeRole(ctx context.Context, req mcp.ToolRequest) mcp.ToolResult {
	const op = "aws.sts.assume_role"
	fail := func(err error) mcp.ToolResult {
		return mcp.Single(invoke.Failure(op, err), "")
	}
	roleArn, err := req.Arguments.Required("roleArn")
	if err != nil {
		return fail(err)
	}
	sessionName, err := req.Arguments.Required("sessionName")
	if err != nil {
		return fail(err)
	}
	duration, err := req.Arguments.Int32("durationSeconds")
	if err != nil {
		return fail(err)
	}
	input := &sts.AssumeRoleInput{
		RoleArn:         aws.String(roleArn),
		RoleSessionName: aws.String(sessionName),
		DurationSeconds: duration,
		ExternalId:      req.Arguments.String("externalId"),
		Policy:          req.Arguments.String("policy"),
	}
	client, region, err := s.clientFor(ctx, req.Arguments)
	if err != nil {
		return mcp.Single(invoke.Failure(op, mcp.ClientFault(err)), region)
	}
	env := invoke.Do(ctx, op, client.AssumeRole, input, func(out *sts.AssumeRoleOutput) any {
		payload := map[string]any{"packedPolicySize": out.PackedPolicySize}
		if out.AssumedRoleUser != nil {
			payload["assumedRoleUser"] = map[string]any{
				"arn":           aws.ToString(out.AssumedRoleUser.Arn),
				"assumedRoleId": aws.ToString(out.AssumedRoleUser.AssumedRoleId),
			}
		}
		if out.Credentials != nil {
			payload["credentials"] = map[string]any{
				"accessKeyId":     aws.ToString(out.Credentials.AccessKeyId),
				"secretAccessKey": aws.ToString(out.Credentials.SecretAccessKey),
				"sessionToken":    aws.ToString(out.Credentials.SessionToken),
				"expiration":      aws.ToTime(out.Credentials.Expiration),
			}
		}
		if out.SourceIdentity != nil {
			payload["sourceIdentity"] = aws.ToString(out.SourceIdentity)
		}
		return payload
	})
	return mcp.Single(env, region, roleArn)
}

func (s *Service) clientFor(ctx context.Context, args mcp.Args) (API, string, error) {
	if s.client == nil {
		return nil, "", errors.New("sts client not configured")
	}
	region := ""
	if value := args.String("region"); value != nil {
		region = strings.TrimSpace(*value)
	}
	return s.client(ctx, region)
}
