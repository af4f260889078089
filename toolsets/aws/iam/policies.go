package awsiam

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"

	"iamkit/internal/invoke"
	"iamkit/internal/mcp"
)

// policyEntity is one principal a managed policy is attached to.
type policyEntity struct {
	Type string `json:"type"`
	Name string `json:"name"`
	ID   string `json:"id"`
}

func (s *Service) policySpecs() []mcp.ToolSpec {
	policyArn := required(str("policyArn", "ARN of the managed policy."))
	versionID := required(str("versionId", "Policy version, for example v2."))
	usageFilter := enum("policyUsageFilter", "Only count attachments of this kind.", "PermissionsPolicy", "PermissionsBoundary")

	return []mcp.ToolSpec{
		s.spec("create_policy", "Create a customer managed policy.", mcp.SafetyWrite, "policyName",
			params(
				required(str("policyName", "Name of the policy.")),
				required(document("policyDocument", "Policy document as JSON.")),
				str("description", "Policy description."),
				str("path", "Path for the policy."),
				tagList("tags"),
			),
			single[iam.CreatePolicyInput, iam.CreatePolicyOutput]{
				Build: func(b *binder) *iam.CreatePolicyInput {
					return &iam.CreatePolicyInput{
						PolicyName:     b.required("policyName"),
						PolicyDocument: b.document("policyDocument"),
						Description:    b.optional("description"),
						Path:           b.optional("path"),
						Tags:           b.tags("tags"),
					}
				},
				Call:   API.CreatePolicy,
				Result: func(out *iam.CreatePolicyOutput) any { return out.Policy },
			}),
		s.spec("get_policy", "Get a managed policy.", mcp.SafetyReadOnly, "policyArn",
			params(policyArn),
			single[iam.GetPolicyInput, iam.GetPolicyOutput]{
				Build: func(b *binder) *iam.GetPolicyInput {
					return &iam.GetPolicyInput{PolicyArn: b.required("policyArn")}
				},
				Call:   API.GetPolicy,
				Result: func(out *iam.GetPolicyOutput) any { return out.Policy },
			}),
		s.spec("delete_policy", "Delete a managed policy. It must be detached and have no other versions.", mcp.SafetyDestructive, "policyArn",
			params(policyArn),
			single[iam.DeletePolicyInput, iam.DeletePolicyOutput]{
				Build: func(b *binder) *iam.DeletePolicyInput {
					return &iam.DeletePolicyInput{PolicyArn: b.required("policyArn")}
				},
				Call:   API.DeletePolicy,
				Result: invoke.Void[iam.DeletePolicyOutput],
			}),
		s.spec("list_policies", "List managed policies.", mcp.SafetyReadOnly, "",
			params(
				enum("scope", "Which policies to list.", "All", "AWS", "Local"),
				boolean("onlyAttached", "Only list policies attached to a principal."),
				str("pathPrefix", "Only return policies under this path."),
				usageFilter,
			),
			list[iam.ListPoliciesInput, iam.ListPoliciesOutput, types.Policy]{
				Build: func(b *binder) *iam.ListPoliciesInput {
					return &iam.ListPoliciesInput{
						Scope:             enumOf(b, "scope", types.PolicyScopeType("").Values()),
						OnlyAttached:      b.flag("onlyAttached"),
						PathPrefix:        b.optional("pathPrefix"),
						PolicyUsageFilter: enumOf(b, "policyUsageFilter", types.PolicyUsageType("").Values()),
					}
				},
				Call:       API.ListPolicies,
				SetMarker:  func(in *iam.ListPoliciesInput, m *string) { in.Marker = m },
				SetMax:     func(in *iam.ListPoliciesInput, n *int32) { in.MaxItems = n },
				NextMarker: func(out *iam.ListPoliciesOutput) *string { return out.Marker },
				Truncated:  func(out *iam.ListPoliciesOutput) bool { return out.IsTruncated },
				Items:      func(out *iam.ListPoliciesOutput) []types.Policy { return out.Policies },
			}),
		s.spec("create_policy_version", "Create a new version of a managed policy.", mcp.SafetyRiskyWrite, "policyArn",
			params(policyArn,
				required(document("policyDocument", "Policy document as JSON.")),
				boolean("setAsDefault", "Make the new version the default."),
			),
			single[iam.CreatePolicyVersionInput, iam.CreatePolicyVersionOutput]{
				Build: func(b *binder) *iam.CreatePolicyVersionInput {
					return &iam.CreatePolicyVersionInput{
						PolicyArn:      b.required("policyArn"),
						PolicyDocument: b.document("policyDocument"),
						SetAsDefault:   b.flag("setAsDefault"),
					}
				},
				Call:   API.CreatePolicyVersion,
				Result: func(out *iam.CreatePolicyVersionOutput) any { return policyVersionView(out.PolicyVersion) },
			}),
		s.spec("get_policy_version", "Get one version of a managed policy with its decoded document.", mcp.SafetyReadOnly, "policyArn",
			params(policyArn, versionID),
			single[iam.GetPolicyVersionInput, iam.GetPolicyVersionOutput]{
				Build: func(b *binder) *iam.GetPolicyVersionInput {
					return &iam.GetPolicyVersionInput{PolicyArn: b.required("policyArn"), VersionId: b.required("versionId")}
				},
				Call:   API.GetPolicyVersion,
				Result: func(out *iam.GetPolicyVersionOutput) any { return policyVersionView(out.PolicyVersion) },
			}),
		s.spec("list_policy_versions", "List the versions of a managed policy.", mcp.SafetyReadOnly, "policyArn",
			params(policyArn),
			list[iam.ListPolicyVersionsInput, iam.ListPolicyVersionsOutput, types.PolicyVersion]{
				Build: func(b *binder) *iam.ListPolicyVersionsInput {
					return &iam.ListPolicyVersionsInput{PolicyArn: b.required("policyArn")}
				},
				Call:       API.ListPolicyVersions,
				SetMarker:  func(in *iam.ListPolicyVersionsInput, m *string) { in.Marker = m },
				SetMax:     func(in *iam.ListPolicyVersionsInput, n *int32) { in.MaxItems = n },
				NextMarker: func(out *iam.ListPolicyVersionsOutput) *string { return out.Marker },
				Truncated:  func(out *iam.ListPolicyVersionsOutput) bool { return out.IsTruncated },
				Items:      func(out *iam.ListPolicyVersionsOutput) []types.PolicyVersion { return out.Versions },
			}),
		s.spec("delete_policy_version", "Delete a non-default version of a managed policy.", mcp.SafetyDestructive, "policyArn",
			params(policyArn, versionID),
			single[iam.DeletePolicyVersionInput, iam.DeletePolicyVersionOutput]{
				Build: func(b *binder) *iam.DeletePolicyVersionInput {
					return &iam.DeletePolicyVersionInput{PolicyArn: b.required("policyArn"), VersionId: b.required("versionId")}
				},
				Call:   API.DeletePolicyVersion,
				Result: invoke.Void[iam.DeletePolicyVersionOutput],
			}),
		s.spec("set_default_policy_version", "Make a version the default of a managed policy.", mcp.SafetyRiskyWrite, "policyArn",
			params(policyArn, versionID),
			single[iam.SetDefaultPolicyVersionInput, iam.SetDefaultPolicyVersionOutput]{
				Build: func(b *binder) *iam.SetDefaultPolicyVersionInput {
					return &iam.SetDefaultPolicyVersionInput{PolicyArn: b.required("policyArn"), VersionId: b.required("versionId")}
				},
				Call:   API.SetDefaultPolicyVersion,
				Result: invoke.Void[iam.SetDefaultPolicyVersionOutput],
			}),
		s.spec("list_entities_for_policy", "List the users, groups and roles a managed policy is attached to.", mcp.SafetyReadOnly, "policyArn",
			params(policyArn,
				enum("entityFilter", "Only list this kind of entity.", "User", "Role", "Group", "LocalManagedPolicy", "AWSManagedPolicy"),
				str("pathPrefix", "Only return entities under this path."),
				usageFilter,
			),
			list[iam.ListEntitiesForPolicyInput, iam.ListEntitiesForPolicyOutput, policyEntity]{
				Build: func(b *binder) *iam.ListEntitiesForPolicyInput {
					return &iam.ListEntitiesForPolicyInput{
						PolicyArn:         b.required("policyArn"),
						EntityFilter:      enumOf(b, "entityFilter", types.EntityType("").Values()),
						PathPrefix:        b.optional("pathPrefix"),
						PolicyUsageFilter: enumOf(b, "policyUsageFilter", types.PolicyUsageType("").Values()),
					}
				},
				Call:       API.ListEntitiesForPolicy,
				SetMarker:  func(in *iam.ListEntitiesForPolicyInput, m *string) { in.Marker = m },
				SetMax:     func(in *iam.ListEntitiesForPolicyInput, n *int32) { in.MaxItems = n },
				NextMarker: func(out *iam.ListEntitiesForPolicyOutput) *string { return out.Marker },
				Truncated:  func(out *iam.ListEntitiesForPolicyOutput) bool { return out.IsTruncated },
				Items:      policyEntities,
			}),
	}
}

func policyEntities(out *iam.ListEntitiesForPolicyOutput) []policyEntity {
	entities := make([]policyEntity, 0, len(out.PolicyUsers)+len(out.PolicyGroups)+len(out.PolicyRoles))
	for _, user := range out.PolicyUsers {
		entities = append(entities, policyEntity{Type: "user", Name: aws.ToString(user.UserName), ID: aws.ToString(user.UserId)})
	}
	for _, group := range out.PolicyGroups {
		entities = append(entities, policyEntity{Type: "group", Name: aws.ToString(group.GroupName), ID: aws.ToString(group.GroupId)})
	}
	for _, role := range out.PolicyRoles {
		entities = append(entities, policyEntity{Type: "role", Name: aws.ToString(role.RoleName), ID: aws.ToString(role.RoleId)})
	}
	return entities
}

func policyVersionView(version *types.PolicyVersion) any {
	if version == nil {
		return nil
	}
	return map[string]any{
		"VersionId":        version.VersionId,
		"IsDefaultVersion": version.IsDefaultVersion,
		"CreateDate":       version.CreateDate,
		"Document":         parsedDocument(version.Document),
	}
}
