package aws

import (
	"context"
	"fmt"
	"os"
	"strings"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	sdkconfig "github.com/aws/aws-sdk-go-v2/config"
)

const defaultRegion = "us-east-1"

// Settings selects the credentials and endpoint used to build SDK clients.
type Settings struct {
	Profile     string
	Region      string
	EndpointURL string
}

// ResolveRegion returns the first non-empty of the candidates, then AWS_REGION and
// AWS_DEFAULT_REGION.
func ResolveRegion(candidates ...string) string {
	for _, region := range candidates {
		if region = strings.TrimSpace(region); region != "" {
			return region
		}
	}
	if region := strings.TrimSpace(os.Getenv("AWS_REGION")); region != "" {
		return region
	}
	return strings.TrimSpace(os.Getenv("AWS_DEFAULT_REGION"))
}

func ResolveProfile(explicit string) string {
	if profile := strings.TrimSpace(explicit); profile != "" {
		return profile
	}
	profile := strings.TrimSpace(os.Getenv("AWS_PROFILE"))
	if profile == "" {
		profile = strings.TrimSpace(os.Getenv("AWS_DEFAULT_PROFILE"))
	}
	return profile
}

func LoadConfig(ctx context.Context, settings Settings) (sdkaws.Config, error) {
	loadOpts := []func(*sdkconfig.LoadOptions) error{}
	if profile := ResolveProfile(settings.Profile); profile != "" {
		loadOpts = append(loadOpts, sdkconfig.WithSharedConfigProfile(profile))
	}
	if region := ResolveRegion(settings.Region); region != "" {
		loadOpts = append(loadOpts, sdkconfig.WithRegion(region))
	}
	cfg, err := sdkconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return cfg, fmt.Errorf("load aws config: %w", err)
	}
	if strings.TrimSpace(cfg.Region) == "" {
		cfg.Region = defaultRegion
	}
	if endpoint := strings.TrimSpace(settings.EndpointURL); endpoint != "" {
		cfg.BaseEndpoint = sdkaws.String(endpoint)
	}
	return cfg, nil
}
