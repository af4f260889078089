package awsiam

import (
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"

	"iamkit/internal/invoke"
	"iamkit/internal/mcp"
)

func (s *Service) roleSpecs() []mcp.ToolSpec {
	roleName := required(str("roleName", "Name of the role."))
	policyArn := required(str("policyArn", "ARN of the managed policy."))
	policyName := required(str("policyName", "Name of the inline policy."))
	pathPrefix := str("pathPrefix", "Only return entities under this path.")

	return []mcp.ToolSpec{
		s.spec("create_role", "Create an IAM role with a trust policy.", mcp.SafetyWrite, "roleName",
			params(roleName,
				required(document("assumeRolePolicyDocument", "Trust policy as JSON.")),
				str("description", "Role description."),
				num("maxSessionDuration", "Maximum session duration in seconds (3600-43200)."),
				str("path", "Path for the role."),
				str("permissionsBoundary", "ARN of the permissions boundary policy."),
				tagList("tags"),
			),
			single[iam.CreateRoleInput, iam.CreateRoleOutput]{
				Build: func(b *binder) *iam.CreateRoleInput {
					return &iam.CreateRoleInput{
						RoleName:                 b.required("roleName"),
						AssumeRolePolicyDocument: b.document("assumeRolePolicyDocument"),
						Description:              b.optional("description"),
						MaxSessionDuration:       b.int32("maxSessionDuration"),
						Path:                     b.optional("path"),
						PermissionsBoundary:      b.optional("permissionsBoundary"),
						Tags:                     b.tags("tags"),
					}
				},
				Call:   API.CreateRole,
				Result: func(out *iam.CreateRoleOutput) any { return roleView(out.Role) },
			}),
		s.spec("get_role", "Get an IAM role with its decoded trust policy.", mcp.SafetyReadOnly, "roleName",
			params(roleName),
			single[iam.GetRoleInput, iam.GetRoleOutput]{
				Build: func(b *binder) *iam.GetRoleInput {
					return &iam.GetRoleInput{RoleName: b.required("roleName")}
				},
				Call:   API.GetRole,
				Result: func(out *iam.GetRoleOutput) any { return roleView(out.Role) },
			}),
		s.spec("update_role", "Update the description or maximum session duration of a role.", mcp.SafetyRiskyWrite, "roleName",
			params(roleName,
				str("description", "New description."),
				num("maxSessionDuration", "Maximum session duration in seconds (3600-43200)."),
			),
			single[iam.UpdateRoleInput, iam.UpdateRoleOutput]{
				Build: func(b *binder) *iam.UpdateRoleInput {
					return &iam.UpdateRoleInput{
						RoleName:           b.required("roleName"),
						Description:        b.optional("description"),
						MaxSessionDuration: b.int32("maxSessionDuration"),
					}
				},
				Call:   API.UpdateRole,
				Result: invoke.Void[iam.UpdateRoleOutput],
			}),
		s.spec("update_role_description", "Replace the description of a role.", mcp.SafetyWrite, "roleName",
			params(roleName, required(str("description", "New description."))),
			single[iam.UpdateRoleDescriptionInput, iam.UpdateRoleDescriptionOutput]{
				Build: func(b *binder) *iam.UpdateRoleDescriptionInput {
					return &iam.UpdateRoleDescriptionInput{
						RoleName:    b.required("roleName"),
						Description: b.required("description"),
					}
				},
				Call:   API.UpdateRoleDescription,
				Result: func(out *iam.UpdateRoleDescriptionOutput) any { return roleView(out.Role) },
			}),
		s.spec("update_assume_role_policy", "Replace the trust policy of a role.", mcp.SafetyRiskyWrite, "roleName",
			params(roleName, required(document("policyDocument", "Trust policy as JSON."))),
			single[iam.UpdateAssumeRolePolicyInput, iam.UpdateAssumeRolePolicyOutput]{
				Build: func(b *binder) *iam.UpdateAssumeRolePolicyInput {
					return &iam.UpdateAssumeRolePolicyInput{
						RoleName:       b.required("roleName"),
						PolicyDocument: b.document("policyDocument"),
					}
				},
				Call:   API.UpdateAssumeRolePolicy,
				Result: invoke.Void[iam.UpdateAssumeRolePolicyOutput],
			}),
		s.spec("delete_role", "Delete an IAM role. Policies and instance profiles must be detached first.", mcp.SafetyDestructive, "roleName",
			params(roleName),
			single[iam.DeleteRoleInput, iam.DeleteRoleOutput]{
				Build: func(b *binder) *iam.DeleteRoleInput {
					return &iam.DeleteRoleInput{RoleName: b.required("roleName")}
				},
				Call:   API.DeleteRole,
				Result: invoke.Void[iam.DeleteRoleOutput],
			}),
		s.spec("list_roles", "List IAM roles.", mcp.SafetyReadOnly, "",
			params(pathPrefix),
			list[iam.ListRolesInput, iam.ListRolesOutput, types.Role]{
				Build: func(b *binder) *iam.ListRolesInput {
					return &iam.ListRolesInput{PathPrefix: b.optional("pathPrefix")}
				},
				Call:       API.ListRoles,
				SetMarker:  func(in *iam.ListRolesInput, m *string) { in.Marker = m },
				SetMax:     func(in *iam.ListRolesInput, n *int32) { in.MaxItems = n },
				NextMarker: func(out *iam.ListRolesOutput) *string { return out.Marker },
				Truncated:  func(out *iam.ListRolesOutput) bool { return out.IsTruncated },
				Items:      func(out *iam.ListRolesOutput) []types.Role { return out.Roles },
				Payload:    func(_ *iam.ListRolesOutput, roles []types.Role) any { return roleViews(roles) },
			}),
		s.spec("attach_role_policy", "Attach a managed policy to a role.", mcp.SafetyRiskyWrite, "roleName",
			params(roleName, policyArn),
			single[iam.AttachRolePolicyInput, iam.AttachRolePolicyOutput]{
				Build: func(b *binder) *iam.AttachRolePolicyInput {
					return &iam.AttachRolePolicyInput{RoleName: b.required("roleName"), PolicyArn: b.required("policyArn")}
				},
				Call:   API.AttachRolePolicy,
				Result: invoke.Void[iam.AttachRolePolicyOutput],
			}),
		s.spec("detach_role_policy", "Detach a managed policy from a role.", mcp.SafetyRiskyWrite, "roleName",
			params(roleName, policyArn),
			single[iam.DetachRolePolicyInput, iam.DetachRolePolicyOutput]{
				Build: func(b *binder) *iam.DetachRolePolicyInput {
					return &iam.DetachRolePolicyInput{RoleName: b.required("roleName"), PolicyArn: b.required("policyArn")}
				},
				Call:   API.DetachRolePolicy,
				Result: invoke.Void[iam.DetachRolePolicyOutput],
			}),
		s.spec("list_attached_role_policies", "List managed policies attached to a role.", mcp.SafetyReadOnly, "roleName",
			params(roleName, pathPrefix),
			list[iam.ListAttachedRolePoliciesInput, iam.ListAttachedRolePoliciesOutput, types.AttachedPolicy]{
				Build: func(b *binder) *iam.ListAttachedRolePoliciesInput {
					return &iam.ListAttachedRolePoliciesInput{RoleName: b.required("roleName"), PathPrefix: b.optional("pathPrefix")}
				},
				Call:       API.ListAttachedRolePolicies,
				SetMarker:  func(in *iam.ListAttachedRolePoliciesInput, m *string) { in.Marker = m },
				SetMax:     func(in *iam.ListAttachedRolePoliciesInput, n *int32) { in.MaxItems = n },
				NextMarker: func(out *iam.ListAttachedRolePoliciesOutput) *string { return out.Marker },
				Truncated:  func(out *iam.ListAttachedRolePoliciesOutput) bool { return out.IsTruncated },
				Items:      func(out *iam.ListAttachedRolePoliciesOutput) []types.AttachedPolicy { return out.AttachedPolicies },
			}),
		s.spec("put_role_policy", "Create or replace an inline policy on a role.", mcp.SafetyRiskyWrite, "roleName",
			params(roleName, policyName, required(document("policyDocument", "Policy document as JSON."))),
			single[iam.PutRolePolicyInput, iam.PutRolePolicyOutput]{
				Build: func(b *binder) *iam.PutRolePolicyInput {
					return &iam.PutRolePolicyInput{
						RoleName:       b.required("roleName"),
						PolicyName:     b.required("policyName"),
						PolicyDocument: b.document("policyDocument"),
					}
				},
				Call:   API.PutRolePolicy,
				Result: invoke.Void[iam.PutRolePolicyOutput],
			}),
		s.spec("get_role_policy", "Get an inline policy of a role.", mcp.SafetyReadOnly, "roleName",
			params(roleName, policyName),
			single[iam.GetRolePolicyInput, iam.GetRolePolicyOutput]{
				Build: func(b *binder) *iam.GetRolePolicyInput {
					return &iam.GetRolePolicyInput{RoleName: b.required("roleName"), PolicyName: b.required("policyName")}
				},
				Call: API.GetRolePolicy,
				Result: func(out *iam.GetRolePolicyOutput) any {
					return map[string]any{
						"RoleName":       out.RoleName,
						"PolicyName":     out.PolicyName,
						"PolicyDocument": parsedDocument(out.PolicyDocument),
					}
				},
			}),
		s.spec("delete_role_policy", "Delete an inline policy from a role.", mcp.SafetyDestructive, "roleName",
			params(roleName, policyName),
			single[iam.DeleteRolePolicyInput, iam.DeleteRolePolicyOutput]{
				Build: func(b *binder) *iam.DeleteRolePolicyInput {
					return &iam.DeleteRolePolicyInput{RoleName: b.required("roleName"), PolicyName: b.required("policyName")}
				},
				Call:   API.DeleteRolePolicy,
				Result: invoke.Void[iam.DeleteRolePolicyOutput],
			}),
		s.spec("list_role_policies", "List inline policy names of a role.", mcp.SafetyReadOnly, "roleName",
			params(roleName),
			list[iam.ListRolePoliciesInput, iam.ListRolePoliciesOutput, string]{
				Build: func(b *binder) *iam.ListRolePoliciesInput {
					return &iam.ListRolePoliciesInput{RoleName: b.required("roleName")}
				},
				Call:       API.ListRolePolicies,
				SetMarker:  func(in *iam.ListRolePoliciesInput, m *string) { in.Marker = m },
				SetMax:     func(in *iam.ListRolePoliciesInput, n *int32) { in.MaxItems = n },
				NextMarker: func(out *iam.ListRolePoliciesOutput) *string { return out.Marker },
				Truncated:  func(out *iam.ListRolePoliciesOutput) bool { return out.IsTruncated },
				Items:      func(out *iam.ListRolePoliciesOutput) []string { return out.PolicyNames },
			}),
		s.spec("tag_role", "Add or overwrite tags on a role.", mcp.SafetyWrite, "roleName",
			params(roleName, required(tagList("tags"))),
			single[iam.TagRoleInput, iam.TagRoleOutput]{
				Build: func(b *binder) *iam.TagRoleInput {
					return &iam.TagRoleInput{RoleName: b.required("roleName"), Tags: b.requiredTags("tags")}
				},
				Call:   API.TagRole,
				Result: invoke.Void[iam.TagRoleOutput],
			}),
		s.spec("untag_role", "Remove tags from a role.", mcp.SafetyWrite, "roleName",
			params(roleName, required(strList("tagKeys", "Tag keys to remove."))),
			single[iam.UntagRoleInput, iam.UntagRoleOutput]{
				Build: func(b *binder) *iam.UntagRoleInput {
					return &iam.UntagRoleInput{RoleName: b.required("roleName"), TagKeys: b.requiredStrings("tagKeys")}
				},
				Call:   API.UntagRole,
				Result: invoke.Void[iam.UntagRoleOutput],
			}),
		s.spec("list_role_tags", "List tags on a role.", mcp.SafetyReadOnly, "roleName",
			params(roleName),
			list[iam.ListRoleTagsInput, iam.ListRoleTagsOutput, types.Tag]{
				Build: func(b *binder) *iam.ListRoleTagsInput {
					return &iam.ListRoleTagsInput{RoleName: b.required("roleName")}
				},
				Call:       API.ListRoleTags,
				SetMarker:  func(in *iam.ListRoleTagsInput, m *string) { in.Marker = m },
				SetMax:     func(in *iam.ListRoleTagsInput, n *int32) { in.MaxItems = n },
				NextMarker: func(out *iam.ListRoleTagsOutput) *string { return out.Marker },
				Truncated:  func(out *iam.ListRoleTagsOutput) bool { return out.IsTruncated },
				Items:      func(out *iam.ListRoleTagsOutput) []types.Tag { return out.Tags },
			}),
		s.spec("put_role_permissions_boundary", "Set the permissions boundary of a role.", mcp.SafetyRiskyWrite, "roleName",
			params(roleName, required(str("permissionsBoundary", "ARN of the boundary policy."))),
			single[iam.PutRolePermissionsBoundaryInput, iam.PutRolePermissionsBoundaryOutput]{
				Build: func(b *binder) *iam.PutRolePermissionsBoundaryInput {
					return &iam.PutRolePermissionsBoundaryInput{
						RoleName:            b.required("roleName"),
						PermissionsBoundary: b.required("permissionsBoundary"),
					}
				},
				Call:   API.PutRolePermissionsBoundary,
				Result: invoke.Void[iam.PutRolePermissionsBoundaryOutput],
			}),
		s.spec("delete_role_permissions_boundary", "Remove the permissions boundary of a role.", mcp.SafetyRiskyWrite, "roleName",
			params(roleName),
			single[iam.DeleteRolePermissionsBoundaryInput, iam.DeleteRolePermissionsBoundaryOutput]{
				Build: func(b *binder) *iam.DeleteRolePermissionsBoundaryInput {
					return &iam.DeleteRolePermissionsBoundaryInput{RoleName: b.required("roleName")}
				},
				Call:   API.DeleteRolePermissionsBoundary,
				Result: invoke.Void[iam.DeleteRolePermissionsBoundaryOutput],
			}),
		s.spec("create_service_linked_role", "Create the service-linked role of an AWS service.", mcp.SafetyWrite, "awsServiceName",
			params(
				required(str("awsServiceName", "Service principal, for example elasticbeanstalk.amazonaws.com.")),
				str("customSuffix", "Suffix appended to the role name."),
				str("description", "Role description."),
			),
			single[iam.CreateServiceLinkedRoleInput, iam.CreateServiceLinkedRoleOutput]{
				Build: func(b *binder) *iam.CreateServiceLinkedRoleInput {
					return &iam.CreateServiceLinkedRoleInput{
						AWSServiceName: b.required("awsServiceName"),
						CustomSuffix:   b.optional("customSuffix"),
						Description:    b.optional("description"),
					}
				},
				Call:   API.CreateServiceLinkedRole,
				Result: func(out *iam.CreateServiceLinkedRoleOutput) any { return roleView(out.Role) },
			}),
		s.spec("delete_service_linked_role", "Submit a service-linked role for deletion.", mcp.SafetyDestructive, "roleName",
			params(roleName),
			single[iam.DeleteServiceLinkedRoleInput, iam.DeleteServiceLinkedRoleOutput]{
				Build: func(b *binder) *iam.DeleteServiceLinkedRoleInput {
					return &iam.DeleteServiceLinkedRoleInput{RoleName: b.required("roleName")}
				},
				Call: API.DeleteServiceLinkedRole,
				Result: func(out *iam.DeleteServiceLinkedRoleOutput) any {
					return map[string]any{"DeletionTaskId": out.DeletionTaskId}
				},
			}),
		s.spec("get_service_linked_role_deletion_status", "Get the status of a service-linked role deletion.", mcp.SafetyReadOnly, "deletionTaskId",
			params(required(str("deletionTaskId", "Task id returned by delete_service_linked_role."))),
			single[iam.GetServiceLinkedRoleDeletionStatusInput, iam.GetServiceLinkedRoleDeletionStatusOutput]{
				Build: func(b *binder) *iam.GetServiceLinkedRoleDeletionStatusInput {
					return &iam.GetServiceLinkedRoleDeletionStatusInput{DeletionTaskId: b.required("deletionTaskId")}
				},
				Call: API.GetServiceLinkedRoleDeletionStatus,
				Result: func(out *iam.GetServiceLinkedRoleDeletionStatusOutput) any {
					return map[string]any{"Status": out.Status, "Reason": out.Reason}
				},
			}),
	}
}

func roleView(role *types.Role) any {
	if role == nil {
		return nil
	}
	view := *role
	view.AssumeRolePolicyDocument = decodeDocument(role.AssumeRolePolicyDocument)
	return view
}

func roleViews(roles []types.Role) []types.Role {
	out := make([]types.Role, 0, len(roles))
	for _, role := range roles {
		role.AssumeRolePolicyDocument = decodeDocument(role.AssumeRolePolicyDocument)
		out = append(out, role)
	}
	return out
}
