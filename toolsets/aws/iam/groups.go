package awsiam

import (
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"

	"iamkit/internal/invoke"
	"iamkit/internal/mcp"
)

func (s *Service) groupSpecs() []mcp.ToolSpec {
	groupName := required(str("groupName", "Name of the group."))
	userName := required(str("userName", "Name of the user."))
	policyArn := required(str("policyArn", "ARN of the managed policy."))

	return []mcp.ToolSpec{
		s.spec("create_group", "Create an IAM group.", mcp.SafetyWrite, "groupName",
			params(groupName, str("path", "Path for the group.")),
			single[iam.CreateGroupInput, iam.CreateGroupOutput]{
				Build: func(b *binder) *iam.CreateGroupInput {
					return &iam.CreateGroupInput{GroupName: b.required("groupName"), Path: b.optional("path")}
				},
				Call:   API.CreateGroup,
				Result: func(out *iam.CreateGroupOutput) any { return out.Group },
			}),
		s.spec("get_group", "Get an IAM group and its members.", mcp.SafetyReadOnly, "groupName",
			params(groupName),
			list[iam.GetGroupInput, iam.GetGroupOutput, types.User]{
				Build: func(b *binder) *iam.GetGroupInput {
					return &iam.GetGroupInput{GroupName: b.required("groupName")}
				},
				Call:       API.GetGroup,
				SetMarker:  func(in *iam.GetGroupInput, m *string) { in.Marker = m },
				SetMax:     func(in *iam.GetGroupInput, n *int32) { in.MaxItems = n },
				NextMarker: func(out *iam.GetGroupOutput) *string { return out.Marker },
				Truncated:  func(out *iam.GetGroupOutput) bool { return out.IsTruncated },
				Items:      func(out *iam.GetGroupOutput) []types.User { return out.Users },
				Payload: func(out *iam.GetGroupOutput, users []types.User) any {
					return map[string]any{"Group": out.Group, "Users": users}
				},
			}),
		s.spec("delete_group", "Delete an IAM group. Members and policies must be removed first.", mcp.SafetyDestructive, "groupName",
			params(groupName),
			single[iam.DeleteGroupInput, iam.DeleteGroupOutput]{
				Build: func(b *binder) *iam.DeleteGroupInput {
					return &iam.DeleteGroupInput{GroupName: b.required("groupName")}
				},
				Call:   API.DeleteGroup,
				Result: invoke.Void[iam.DeleteGroupOutput],
			}),
		s.spec("list_groups", "List IAM groups.", mcp.SafetyReadOnly, "",
			params(str("pathPrefix", "Only return groups under this path.")),
			list[iam.ListGroupsInput, iam.ListGroupsOutput, types.Group]{
				Build: func(b *binder) *iam.ListGroupsInput {
					return &iam.ListGroupsInput{PathPrefix: b.optional("pathPrefix")}
				},
				Call:       API.ListGroups,
				SetMarker:  func(in *iam.ListGroupsInput, m *string) { in.Marker = m },
				SetMax:     func(in *iam.ListGroupsInput, n *int32) { in.MaxItems = n },
				NextMarker: func(out *iam.ListGroupsOutput) *string { return out.Marker },
				Truncated:  func(out *iam.ListGroupsOutput) bool { return out.IsTruncated },
				Items:      func(out *iam.ListGroupsOutput) []types.Group { return out.Groups },
			}),
		s.spec("add_user_to_group", "Add a user to a group.", mcp.SafetyRiskyWrite, "groupName",
			params(groupName, userName),
			single[iam.AddUserToGroupInput, iam.AddUserToGroupOutput]{
				Build: func(b *binder) *iam.AddUserToGroupInput {
					return &iam.AddUserToGroupInput{GroupName: b.required("groupName"), UserName: b.required("userName")}
				},
				Call:   API.AddUserToGroup,
				Result: invoke.Void[iam.AddUserToGroupOutput],
			}),
		s.spec("remove_user_from_group", "Remove a user from a group.", mcp.SafetyRiskyWrite, "groupName",
			params(groupName, userName),
			single[iam.RemoveUserFromGroupInput, iam.RemoveUserFromGroupOutput]{
				Build: func(b *binder) *iam.RemoveUserFromGroupInput {
					return &iam.RemoveUserFromGroupInput{GroupName: b.required("groupName"), UserName: b.required("userName")}
				},
				Call:   API.RemoveUserFromGroup,
				Result: invoke.Void[iam.RemoveUserFromGroupOutput],
			}),
		s.spec("attach_group_policy", "Attach a managed policy to a group.", mcp.SafetyRiskyWrite, "groupName",
			params(groupName, policyArn),
			single[iam.AttachGroupPolicyInput, iam.AttachGroupPolicyOutput]{
				Build: func(b *binder) *iam.AttachGroupPolicyInput {
					return &iam.AttachGroupPolicyInput{GroupName: b.required("groupName"), PolicyArn: b.required("policyArn")}
				},
				Call:   API.AttachGroupPolicy,
				Result: invoke.Void[iam.AttachGroupPolicyOutput],
			}),
		s.spec("detach_group_policy", "Detach a managed policy from a group.", mcp.SafetyRiskyWrite, "groupName",
			params(groupName, policyArn),
			single[iam.DetachGroupPolicyInput, iam.DetachGroupPolicyOutput]{
				Build: func(b *binder) *iam.DetachGroupPolicyInput {
					return &iam.DetachGroupPolicyInput{GroupName: b.required("groupName"), PolicyArn: b.required("policyArn")}
				},
				Call:   API.DetachGroupPolicy,
				Result: invoke.Void[iam.DetachGroupPolicyOutput],
			}),
		s.spec("list_attached_group_policies", "List managed policies attached to a group.", mcp.SafetyReadOnly, "groupName",
			params(groupName, str("pathPrefix", "Only return policies under this path.")),
			list[iam.ListAttachedGroupPoliciesInput, iam.ListAttachedGroupPoliciesOutput, types.AttachedPolicy]{
				Build: func(b *binder) *iam.ListAttachedGroupPoliciesInput {
					return &iam.ListAttachedGroupPoliciesInput{GroupName: b.required("groupName"), PathPrefix: b.optional("pathPrefix")}
				},
				Call:       API.ListAttachedGroupPolicies,
				SetMarker:  func(in *iam.ListAttachedGroupPoliciesInput, m *string) { in.Marker = m },
				SetMax:     func(in *iam.ListAttachedGroupPoliciesInput, n *int32) { in.MaxItems = n },
				NextMarker: func(out *iam.ListAttachedGroupPoliciesOutput) *string { return out.Marker },
				Truncated:  func(out *iam.ListAttachedGroupPoliciesOutput) bool { return out.IsTruncated },
				Items:      func(out *iam.ListAttachedGroupPoliciesOutput) []types.AttachedPolicy { return out.AttachedPolicies },
			}),
	}
}
