package awsiam

import (
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"

	"iamkit/internal/invoke"
	"iamkit/internal/mcp"
)

// authorizationDetail is one entry of the account authorization report.
type authorizationDetail struct {
	Type   string `json:"type"`
	Detail any    `json:"detail"`
}

func (s *Service) accountSpecs() []mcp.ToolSpec {
	alias := required(str("accountAlias", "Account alias."))

	return []mcp.ToolSpec{
		s.spec("get_account_summary", "Get IAM entity usage and quotas for the account.", mcp.SafetyReadOnly, "",
			nil,
			single[iam.GetAccountSummaryInput, iam.GetAccountSummaryOutput]{
				Build:  func(*binder) *iam.GetAccountSummaryInput { return &iam.GetAccountSummaryInput{} },
				Call:   API.GetAccountSummary,
				Result: func(out *iam.GetAccountSummaryOutput) any { return out.SummaryMap },
			}),
		s.spec("get_account_password_policy", "Get the account password policy.", mcp.SafetyReadOnly, "",
			nil,
			single[iam.GetAccountPasswordPolicyInput, iam.GetAccountPasswordPolicyOutput]{
				Build:  func(*binder) *iam.GetAccountPasswordPolicyInput { return &iam.GetAccountPasswordPolicyInput{} },
				Call:   API.GetAccountPasswordPolicy,
				Result: func(out *iam.GetAccountPasswordPolicyOutput) any { return out.PasswordPolicy },
			}),
		s.spec("list_account_aliases", "List the account aliases.", mcp.SafetyReadOnly, "",
			nil,
			list[iam.ListAccountAliasesInput, iam.ListAccountAliasesOutput, string]{
				Build:      func(*binder) *iam.ListAccountAliasesInput { return &iam.ListAccountAliasesInput{} },
				Call:       API.ListAccountAliases,
				SetMarker:  func(in *iam.ListAccountAliasesInput, m *string) { in.Marker = m },
				SetMax:     func(in *iam.ListAccountAliasesInput, n *int32) { in.MaxItems = n },
				NextMarker: func(out *iam.ListAccountAliasesOutput) *string { return out.Marker },
				Truncated:  func(out *iam.ListAccountAliasesOutput) bool { return out.IsTruncated },
				Items:      func(out *iam.ListAccountAliasesOutput) []string { return out.AccountAliases },
			}),
		s.spec("create_account_alias", "Create the account alias.", mcp.SafetyWrite, "accountAlias",
			params(alias),
			single[iam.CreateAccountAliasInput, iam.CreateAccountAliasOutput]{
				Build: func(b *binder) *iam.CreateAccountAliasInput {
					return &iam.CreateAccountAliasInput{AccountAlias: b.required("accountAlias")}
				},
				Call:   API.CreateAccountAlias,
				Result: invoke.Void[iam.CreateAccountAliasOutput],
			}),
		s.spec("delete_account_alias", "Delete the account alias.", mcp.SafetyDestructive, "accountAlias",
			params(alias),
			single[iam.DeleteAccountAliasInput, iam.DeleteAccountAliasOutput]{
				Build: func(b *binder) *iam.DeleteAccountAliasInput {
					return &iam.DeleteAccountAliasInput{AccountAlias: b.required("accountAlias")}
				},
				Call:   API.DeleteAccountAlias,
				Result: invoke.Void[iam.DeleteAccountAliasOutput],
			}),
		s.spec("get_account_authorization_details", "Report every user, group, role and managed policy with their policies.", mcp.SafetyReadOnly, "",
			params(strList("filter", "Entity kinds to include: User, Role, Group, LocalManagedPolicy, AWSManagedPolicy.")),
			list[iam.GetAccountAuthorizationDetailsInput, iam.GetAccountAuthorizationDetailsOutput, authorizationDetail]{
				Build: func(b *binder) *iam.GetAccountAuthorizationDetailsInput {
					return &iam.GetAccountAuthorizationDetailsInput{Filter: entityFilter(b, "filter")}
				},
				Call:       API.GetAccountAuthorizationDetails,
				SetMarker:  func(in *iam.GetAccountAuthorizationDetailsInput, m *string) { in.Marker = m },
				SetMax:     func(in *iam.GetAccountAuthorizationDetailsInput, n *int32) { in.MaxItems = n },
				NextMarker: func(out *iam.GetAccountAuthorizationDetailsOutput) *string { return out.Marker },
				Truncated:  func(out *iam.GetAccountAuthorizationDetailsOutput) bool { return out.IsTruncated },
				Items:      authorizationDetails,
			}),
	}
}

func entityFilter(b *binder, key string) []types.EntityType {
	names := b.strings(key)
	if len(names) == 0 {
		return nil
	}
	out := make([]types.EntityType, 0, len(names))
	for _, name := range names {
		sub := bind(mcp.Args{key: name})
		value := enumOf(sub, key, types.EntityType("").Values())
		b.fail(sub.err)
		out = append(out, value)
	}
	return out
}

func authorizationDetails(out *iam.GetAccountAuthorizationDetailsOutput) []authorizationDetail {
	details := make([]authorizationDetail, 0, len(out.UserDetailList)+len(out.GroupDetailList)+len(out.RoleDetailList)+len(out.Policies))
	for _, user := range out.UserDetailList {
		user.UserPolicyList = policyDetails(user.UserPolicyList)
		details = append(details, authorizationDetail{Type: "user", Detail: user})
	}
	for _, group := range out.GroupDetailList {
		group.GroupPolicyList = policyDetails(group.GroupPolicyList)
		details = append(details, authorizationDetail{Type: "group", Detail: group})
	}
	for _, role := range out.RoleDetailList {
		role.AssumeRolePolicyDocument = decodeDocument(role.AssumeRolePolicyDocument)
		role.RolePolicyList = policyDetails(role.RolePolicyList)
		details = append(details, authorizationDetail{Type: "role", Detail: role})
	}
	for _, policy := range out.Policies {
		versions := make([]types.PolicyVersion, 0, len(policy.PolicyVersionList))
		for _, version := range policy.PolicyVersionList {
			version.Document = decodeDocument(version.Document)
			versions = append(versions, version)
		}
		policy.PolicyVersionList = versions
		details = append(details, authorizationDetail{Type: "policy", Detail: policy})
	}
	return details
}

func policyDetails(policies []types.PolicyDetail) []types.PolicyDetail {
	out := make([]types.PolicyDetail, 0, len(policies))
	for _, policy := range policies {
		policy.PolicyDocument = decodeDocument(policy.PolicyDocument)
		out = append(out, policy)
	}
	return out
}
