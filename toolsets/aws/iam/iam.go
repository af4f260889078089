package awsiam

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/iam"

	"iamkit/internal/invoke"
	"iamkit/internal/mcp"
)

// ClientFunc returns the IAM client for region (empty for the configured default)
// and the region it resolved to.
type ClientFunc func(ctx context.Context, region string) (API, string, error)

type Service struct {
	ctx       mcp.ToolsetContext
	client    ClientFunc
	toolsetID string
}

func ToolSpecs(ctx mcp.ToolsetContext, toolsetID string, client ClientFunc) []mcp.ToolSpec {
	svc := &Service{ctx: ctx, client: client, toolsetID: toolsetID}
	var specs []mcp.ToolSpec
	specs = append(specs, svc.roleSpecs()...)
	specs = append(specs, svc.userSpecs()...)
	specs = append(specs, svc.groupSpecs()...)
	specs = append(specs, svc.policySpecs()...)
	specs = append(specs, svc.instanceProfileSpecs()...)
	specs = append(specs, svc.simulationSpecs()...)
	specs = append(specs, svc.accountSpecs()...)
	return specs
}

type operation interface {
	handler(s *Service, name string) mcp.ToolHandler
	paged() bool
}

func (s *Service) spec(short, description string, safety mcp.ToolSafety, target string, fields []param, op operation) mcp.ToolSpec {
	name := "aws.iam." + short
	return mcp.ToolSpec{
		Name:        name,
		Description: description,
		ToolsetID:   s.toolsetID,
		InputSchema: inputSchema(fields, op.paged(), safety),
		Safety:      safety,
		Target:      target,
		Paged:       op.paged(),
		Handler:     op.handler(s, name),
	}
}

func (s *Service) clientFor(ctx context.Context, args mcp.Args) (API, string, error) {
	if s.client == nil {
		return nil, "", errors.New("iam client not configured")
	}
	region := ""
	if value := args.String("region"); value != nil {
		region = strings.TrimSpace(*value)
	}
	return s.client(ctx, region)
}

func (s *Service) paging() (int32, int) {
	if s.ctx.Config == nil {
		return 0, 0
	}
	return int32(s.ctx.Config.Paging.DefaultPageSize), s.ctx.Config.Paging.MaxPages
}

// single is an operation performing exactly one request.
type single[In, Out any] struct {
	Build  func(*binder) *In
	Call   func(API, context.Context, *In, ...func(*iam.Options)) (*Out, error)
	Result func(*Out) any
}

func (o single[In, Out]) paged() bool { return false }

func (o single[In, Out]) handler(s *Service, name string) mcp.ToolHandler {
	return func(ctx context.Context, req mcp.ToolRequest) mcp.ToolResult {
		b := bind(req.Arguments)
		in := o.Build(b)
		if b.err != nil {
			return mcp.Single(invoke.Failure(name, b.err), "")
		}
		client, region, err := s.clientFor(ctx, req.Arguments)
		if err != nil {
			return mcp.Single(invoke.Failure(name, mcp.ClientFault(err)), region)
		}
		call := func(ctx context.Context, in *In, optFns ...func(*iam.Options)) (*Out, error) {
			return o.Call(client, ctx, in, optFns...)
		}
		return mcp.Single(invoke.Do(ctx, name, call, in, o.Result), region)
	}
}

// list is an operation whose results span pages joined by a marker.
type list[In, Out, Item any] struct {
	Build      func(*binder) *In
	Call       func(API, context.Context, *In, ...func(*iam.Options)) (*Out, error)
	SetMarker  func(*In, *string)
	SetMax     func(*In, *int32)
	NextMarker func(*Out) *string
	Truncated  func(*Out) bool
	Items      func(*Out) []Item
	Payload    func(*Out, []Item) any
}

func (o list[In, Out, Item]) paged() bool { return true }

func (o list[In, Out, Item]) handler(s *Service, name string) mcp.ToolHandler {
	return func(ctx context.Context, req mcp.ToolRequest) mcp.ToolResult {
		b := bind(req.Arguments)
		in := o.Build(b)
		if b.err != nil {
			return mcp.Single(invoke.Failure(name, b.err), "")
		}
		opts, err := req.Arguments.PageOptions()
		if err != nil {
			return mcp.Single(invoke.Failure(name, err), "")
		}
		opts.Progress = req.Progress
		client, region, err := s.clientFor(ctx, req.Arguments)
		if err != nil {
			return mcp.Single(invoke.Failure(name, mcp.ClientFault(err)), region)
		}
		pageSize, maxPages := s.paging()
		pager := invoke.Pager[In, Out, Item, func(*iam.Options)]{
			Operation: name,
			Call: func(ctx context.Context, in *In, optFns ...func(*iam.Options)) (*Out, error) {
				return o.Call(client, ctx, in, optFns...)
			},
			SetMarker:       o.SetMarker,
			SetPageSize:     o.SetMax,
			NextMarker:      o.NextMarker,
			Truncated:       o.Truncated,
			Items:           o.Items,
			Payload:         o.Payload,
			DefaultPageSize: pageSize,
			MaxPages:        maxPages,
		}
		summary := pager.Run(ctx, in, opts, req.Emit)
		return mcp.ToolResult{Envelopes: summary.Envelopes, Metadata: mcp.ToolMetadata{Region: region}}
	}
}

// decodeDocument undoes the URL encoding IAM applies to policy documents.
func decodeDocument(value *string) *string {
	if value == nil || *value == "" {
		return value
	}
	decoded, err := url.QueryUnescape(*value)
	if err != nil {
		return value
	}
	return &decoded
}

// parsedDocument decodes a policy document and parses it when it is valid JSON.
func parsedDocument(value *string) any {
	decoded := decodeDocument(value)
	if decoded == nil {
		return nil
	}
	var parsed any
	if err := json.Unmarshal([]byte(*decoded), &parsed); err != nil {
		return *decoded
	}
	return parsed
}
