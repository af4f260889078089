package policy

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

var ErrToolNotAllowed = errors.New("tool not allowed")

type User struct {
	ID           string
	AllowedTools []string
}

// Authorizer restricts which operations may run. Patterns use path.Match syntax
// against the operation name, e.g. "aws.iam.list_*". No patterns allows everything.
type Authorizer struct {
	allowed []string
}

func NewAuthorizer(allowed ...string) *Authorizer {
	var patterns []string
	for _, pattern := range allowed {
		if pattern = strings.TrimSpace(pattern); pattern != "" {
			patterns = append(patterns, pattern)
		}
	}
	return &Authorizer{allowed: patterns}
}

func (a *Authorizer) Authenticate(apiKey string) (User, error) {
	_ = apiKey
	return User{ID: "local"}, nil
}

func (a *Authorizer) AuthorizeTool(user User, toolsetID, toolName string) error {
	if a != nil && len(a.allowed) > 0 && !matchAny(a.allowed, toolName) {
		return fmt.Errorf("%w: %s is outside the configured allowed_tools", ErrToolNotAllowed, toolName)
	}
	if len(user.AllowedTools) > 0 && !matchAny(user.AllowedTools, toolName) {
		return fmt.Errorf("%w: %s is not permitted for %s", ErrToolNotAllowed, toolName, user.ID)
	}
	_ = toolsetID
	return nil
}

func matchAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if ok, err := path.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}
