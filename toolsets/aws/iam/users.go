package awsiam

import (
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"

	"iamkit/internal/invoke"
	"iamkit/internal/mcp"
)

func (s *Service) userSpecs() []mcp.ToolSpec {
	userName := required(str("userName", "Name of the user."))
	policyArn := required(str("policyArn", "ARN of the managed policy."))
	policyName := required(str("policyName", "Name of the inline policy."))
	accessKeyID := required(str("accessKeyId", "Access key id."))

	return []mcp.ToolSpec{
		s.spec("create_user", "Create an IAM user.", mcp.SafetyWrite, "userName",
			params(userName,
				str("path", "Path for the user."),
				str("permissionsBoundary", "ARN of the permissions boundary policy."),
				tagList("tags"),
			),
			single[iam.CreateUserInput, iam.CreateUserOutput]{
				Build: func(b *binder) *iam.CreateUserInput {
					return &iam.CreateUserInput{
						UserName:            b.required("userName"),
						Path:                b.optional("path"),
						PermissionsBoundary: b.optional("permissionsBoundary"),
						Tags:                b.tags("tags"),
					}
				},
				Call:   API.CreateUser,
				Result: func(out *iam.CreateUserOutput) any { return out.User },
			}),
		s.spec("get_user", "Get an IAM user; without userName, the calling user.", mcp.SafetyReadOnly, "userName",
			params(str("userName", "Name of the user.")),
			single[iam.GetUserInput, iam.GetUserOutput]{
				Build: func(b *binder) *iam.GetUserInput {
					return &iam.GetUserInput{UserName: b.optional("userName")}
				},
				Call:   API.GetUser,
				Result: func(out *iam.GetUserOutput) any { return out.User },
			}),
		s.spec("update_user", "Rename a user or change its path.", mcp.SafetyRiskyWrite, "userName",
			params(userName,
				str("newUserName", "New user name."),
				str("newPath", "New path."),
			),
			single[iam.UpdateUserInput, iam.UpdateUserOutput]{
				Build: func(b *binder) *iam.UpdateUserInput {
					return &iam.UpdateUserInput{
						UserName:    b.required("userName"),
						NewUserName: b.optional("newUserName"),
						NewPath:     b.optional("newPath"),
					}
				},
				Call:   API.UpdateUser,
				Result: invoke.Void[iam.UpdateUserOutput],
			}),
		s.spec("delete_user", "Delete an IAM user. Keys, policies and group memberships must be removed first.", mcp.SafetyDestructive, "userName",
			params(userName),
			single[iam.DeleteUserInput, iam.DeleteUserOutput]{
				Build: func(b *binder) *iam.DeleteUserInput {
					return &iam.DeleteUserInput{UserName: b.required("userName")}
				},
				Call:   API.DeleteUser,
				Result: invoke.Void[iam.DeleteUserOutput],
			}),
		s.spec("list_users", "List IAM users.", mcp.SafetyReadOnly, "",
			params(str("pathPrefix", "Only return users under this path.")),
			list[iam.ListUsersInput, iam.ListUsersOutput, types.User]{
				Build: func(b *binder) *iam.ListUsersInput {
					return &iam.ListUsersInput{PathPrefix: b.optional("pathPrefix")}
				},
				Call:       API.ListUsers,
				SetMarker:  func(in *iam.ListUsersInput, m *string) { in.Marker = m },
				SetMax:     func(in *iam.ListUsersInput, n *int32) { in.MaxItems = n },
				NextMarker: func(out *iam.ListUsersOutput) *string { return out.Marker },
				Truncated:  func(out *iam.ListUsersOutput) bool { return out.IsTruncated },
				Items:      func(out *iam.ListUsersOutput) []types.User { return out.Users },
			}),
		s.spec("attach_user_policy", "Attach a managed policy to a user.", mcp.SafetyRiskyWrite, "userName",
			params(userName, policyArn),
			single[iam.AttachUserPolicyInput, iam.AttachUserPolicyOutput]{
				Build: func(b *binder) *iam.AttachUserPolicyInput {
					return &iam.AttachUserPolicyInput{UserName: b.required("userName"), PolicyArn: b.required("policyArn")}
				},
				Call:   API.AttachUserPolicy,
				Result: invoke.Void[iam.AttachUserPolicyOutput],
			}),
		s.spec("detach_user_policy", "Detach a managed policy from a user.", mcp.SafetyRiskyWrite, "userName",
			params(userName, policyArn),
			single[iam.DetachUserPolicyInput, iam.DetachUserPolicyOutput]{
				Build: func(b *binder) *iam.DetachUserPolicyInput {
					return &iam.DetachUserPolicyInput{UserName: b.required("userName"), PolicyArn: b.required("policyArn")}
				},
				Call:   API.DetachUserPolicy,
				Result: invoke.Void[iam.DetachUserPolicyOutput],
			}),
		s.spec("list_attached_user_policies", "List managed policies attached to a user.", mcp.SafetyReadOnly, "userName",
			params(userName, str("pathPrefix", "Only return policies under this path.")),
			list[iam.ListAttachedUserPoliciesInput, iam.ListAttachedUserPoliciesOutput, types.AttachedPolicy]{
				Build: func(b *binder) *iam.ListAttachedUserPoliciesInput {
					return &iam.ListAttachedUserPoliciesInput{UserName: b.required("userName"), PathPrefix: b.optional("pathPrefix")}
				},
				Call:       API.ListAttachedUserPolicies,
				SetMarker:  func(in *iam.ListAttachedUserPoliciesInput, m *string) { in.Marker = m },
				SetMax:     func(in *iam.ListAttachedUserPoliciesInput, n *int32) { in.MaxItems = n },
				NextMarker: func(out *iam.ListAttachedUserPoliciesOutput) *string { return out.Marker },
				Truncated:  func(out *iam.ListAttachedUserPoliciesOutput) bool { return out.IsTruncated },
				Items:      func(out *iam.ListAttachedUserPoliciesOutput) []types.AttachedPolicy { return out.AttachedPolicies },
			}),
		s.spec("put_user_policy", "Create or replace an inline policy on a user.", mcp.SafetyRiskyWrite, "userName",
			params(userName, policyName, required(document("policyDocument", "Policy document as JSON."))),
			single[iam.PutUserPolicyInput, iam.PutUserPolicyOutput]{
				Build: func(b *binder) *iam.PutUserPolicyInput {
					return &iam.PutUserPolicyInput{
						UserName:       b.required("userName"),
						PolicyName:     b.required("policyName"),
						PolicyDocument: b.document("policyDocument"),
					}
				},
				Call:   API.PutUserPolicy,
				Result: invoke.Void[iam.PutUserPolicyOutput],
			}),
		s.spec("delete_user_policy", "Delete an inline policy from a user.", mcp.SafetyDestructive, "userName",
			params(userName, policyName),
			single[iam.DeleteUserPolicyInput, iam.DeleteUserPolicyOutput]{
				Build: func(b *binder) *iam.DeleteUserPolicyInput {
					return &iam.DeleteUserPolicyInput{UserName: b.required("userName"), PolicyName: b.required("policyName")}
				},
				Call:   API.DeleteUserPolicy,
				Result: invoke.Void[iam.DeleteUserPolicyOutput],
			}),
		s.spec("list_user_policies", "List inline policy names of a user.", mcp.SafetyReadOnly, "userName",
			params(userName),
			list[iam.ListUserPoliciesInput, iam.ListUserPoliciesOutput, string]{
				Build: func(b *binder) *iam.ListUserPoliciesInput {
					return &iam.ListUserPoliciesInput{UserName: b.required("userName")}
				},
				Call:       API.ListUserPolicies,
				SetMarker:  func(in *iam.ListUserPoliciesInput, m *string) { in.Marker = m },
				SetMax:     func(in *iam.ListUserPoliciesInput, n *int32) { in.MaxItems = n },
				NextMarker: func(out *iam.ListUserPoliciesOutput) *string { return out.Marker },
				Truncated:  func(out *iam.ListUserPoliciesOutput) bool { return out.IsTruncated },
				Items:      func(out *iam.ListUserPoliciesOutput) []string { return out.PolicyNames },
			}),
		s.spec("tag_user", "Add or overwrite tags on a user.", mcp.SafetyWrite, "userName",
			params(userName, required(tagList("tags"))),
			single[iam.TagUserInput, iam.TagUserOutput]{
				Build: func(b *binder) *iam.TagUserInput {
					return &iam.TagUserInput{UserName: b.required("userName"), Tags: b.requiredTags("tags")}
				},
				Call:   API.TagUser,
				Result: invoke.Void[iam.TagUserOutput],
			}),
		s.spec("untag_user", "Remove tags from a user.", mcp.SafetyWrite, "userName",
			params(userName, required(strList("tagKeys", "Tag keys to remove."))),
			single[iam.UntagUserInput, iam.UntagUserOutput]{
				Build: func(b *binder) *iam.UntagUserInput {
					return &iam.UntagUserInput{UserName: b.required("userName"), TagKeys: b.requiredStrings("tagKeys")}
				},
				Call:   API.UntagUser,
				Result: invoke.Void[iam.UntagUserOutput],
			}),
		s.spec("list_groups_for_user", "List the groups a user belongs to.", mcp.SafetyReadOnly, "userName",
			params(userName),
			list[iam.ListGroupsForUserInput, iam.ListGroupsForUserOutput, types.Group]{
				Build: func(b *binder) *iam.ListGroupsForUserInput {
					return &iam.ListGroupsForUserInput{UserName: b.required("userName")}
				},
				Call:       API.ListGroupsForUser,
				SetMarker:  func(in *iam.ListGroupsForUserInput, m *string) { in.Marker = m },
				SetMax:     func(in *iam.ListGroupsForUserInput, n *int32) { in.MaxItems = n },
				NextMarker: func(out *iam.ListGroupsForUserOutput) *string { return out.Marker },
				Truncated:  func(out *iam.ListGroupsForUserOutput) bool { return out.IsTruncated },
				Items:      func(out *iam.ListGroupsForUserOutput) []types.Group { return out.Groups },
			}),
		s.spec("create_access_key", "Create an access key for a user. The secret is only returned once.", mcp.SafetyRiskyWrite, "userName",
			params(str("userName", "Name of the user; defaults to the caller.")),
			single[iam.CreateAccessKeyInput, iam.CreateAccessKeyOutput]{
				Build: func(b *binder) *iam.CreateAccessKeyInput {
					return &iam.CreateAccessKeyInput{UserName: b.optional("userName")}
				},
				Call:   API.CreateAccessKey,
				Result: func(out *iam.CreateAccessKeyOutput) any { return out.AccessKey },
			}),
		s.spec("list_access_keys", "List access key metadata of a user.", mcp.SafetyReadOnly, "userName",
			params(str("userName", "Name of the user; defaults to the caller.")),
			list[iam.ListAccessKeysInput, iam.ListAccessKeysOutput, types.AccessKeyMetadata]{
				Build: func(b *binder) *iam.ListAccessKeysInput {
					return &iam.ListAccessKeysInput{UserName: b.optional("userName")}
				},
				Call:       API.ListAccessKeys,
				SetMarker:  func(in *iam.ListAccessKeysInput, m *string) { in.Marker = m },
				SetMax:     func(in *iam.ListAccessKeysInput, n *int32) { in.MaxItems = n },
				NextMarker: func(out *iam.ListAccessKeysOutput) *string { return out.Marker },
				Truncated:  func(out *iam.ListAccessKeysOutput) bool { return out.IsTruncated },
				Items:      func(out *iam.ListAccessKeysOutput) []types.AccessKeyMetadata { return out.AccessKeyMetadata },
			}),
		s.spec("update_access_key", "Activate or deactivate an access key.", mcp.SafetyRiskyWrite, "accessKeyId",
			params(accessKeyID,
				required(enum("status", "New key status.", "Active", "Inactive")),
				str("userName", "Owner of the key; defaults to the caller."),
			),
			single[iam.UpdateAccessKeyInput, iam.UpdateAccessKeyOutput]{
				Build: func(b *binder) *iam.UpdateAccessKeyInput {
					return &iam.UpdateAccessKeyInput{
						AccessKeyId: b.required("accessKeyId"),
						Status:      requiredEnum(b, "status", types.StatusType("").Values()),
						UserName:    b.optional("userName"),
					}
				},
				Call:   API.UpdateAccessKey,
				Result: invoke.Void[iam.UpdateAccessKeyOutput],
			}),
		s.spec("delete_access_key", "Delete an access key.", mcp.SafetyDestructive, "accessKeyId",
			params(accessKeyID, str("userName", "Owner of the key; defaults to the caller.")),
			single[iam.DeleteAccessKeyInput, iam.DeleteAccessKeyOutput]{
				Build: func(b *binder) *iam.DeleteAccessKeyInput {
					return &iam.DeleteAccessKeyInput{AccessKeyId: b.required("accessKeyId"), UserName: b.optional("userName")}
				},
				Call:   API.DeleteAccessKey,
				Result: invoke.Void[iam.DeleteAccessKeyOutput],
			}),
		s.spec("create_login_profile", "Create a console password for a user.", mcp.SafetyRiskyWrite, "userName",
			params(userName,
				required(str("password", "Initial console password.")),
				boolean("passwordResetRequired", "Require a new password at next sign-in."),
			),
			single[iam.CreateLoginProfileInput, iam.CreateLoginProfileOutput]{
				Build: func(b *binder) *iam.CreateLoginProfileInput {
					return &iam.CreateLoginProfileInput{
						UserName:              b.required("userName"),
						Password:              b.secret("password"),
						PasswordResetRequired: b.flag("passwordResetRequired"),
					}
				},
				Call:   API.CreateLoginProfile,
				Result: func(out *iam.CreateLoginProfileOutput) any { return out.LoginProfile },
			}),
		s.spec("delete_login_profile", "Delete the console password of a user.", mcp.SafetyDestructive, "userName",
			params(userName),
			single[iam.DeleteLoginProfileInput, iam.DeleteLoginProfileOutput]{
				Build: func(b *binder) *iam.DeleteLoginProfileInput {
					return &iam.DeleteLoginProfileInput{UserName: b.required("userName")}
				},
				Call:   API.DeleteLoginProfile,
				Result: invoke.Void[iam.DeleteLoginProfileOutput],
			}),
	}
}
