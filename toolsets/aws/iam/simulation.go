package awsiam

import (
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"

	"iamkit/internal/invoke"
	"iamkit/internal/mcp"
)

func simulationParams(extra ...param) []param {
	return append(extra,
		required(strList("actionNames", "Actions to evaluate, for example s3:GetObject.")),
		strList("resourceArns", "Resources to evaluate against; defaults to *."),
		str("resourcePolicy", "Resource-based policy as JSON."),
		str("resourceOwner", "Account id that owns the simulated resources."),
		str("resourceHandlingOption", "Resource scenario for EC2 simulations."),
		str("callerArn", "Principal ARN to simulate the call as."),
		contextEntryList("contextEntries"),
		strList("permissionsBoundaryPolicyInputList", "Permissions boundary documents as JSON."),
	)
}

func (s *Service) simulationSpecs() []mcp.ToolSpec {
	return []mcp.ToolSpec{
		s.spec("simulate_principal_policy", "Simulate the policies of a user, group or role against actions.", mcp.SafetyReadOnly, "policySourceArn",
			simulationParams(
				required(str("policySourceArn", "ARN of the user, group or role to simulate.")),
				strList("policyInputList", "Extra policy documents as JSON."),
			),
			list[iam.SimulatePrincipalPolicyInput, iam.SimulatePrincipalPolicyOutput, types.EvaluationResult]{
				Build: func(b *binder) *iam.SimulatePrincipalPolicyInput {
					return &iam.SimulatePrincipalPolicyInput{
						PolicySourceArn:                    b.required("policySourceArn"),
						ActionNames:                        b.requiredStrings("actionNames"),
						PolicyInputList:                    b.documents("policyInputList"),
						PermissionsBoundaryPolicyInputList: b.documents("permissionsBoundaryPolicyInputList"),
						ResourceArns:                       b.strings("resourceArns"),
						ResourcePolicy:                     b.optionalDocument("resourcePolicy"),
						ResourceOwner:                      b.optional("resourceOwner"),
						ResourceHandlingOption:             b.optional("resourceHandlingOption"),
						CallerArn:                          b.optional("callerArn"),
						ContextEntries:                     b.contextEntries("contextEntries"),
					}
				},
				Call:       API.SimulatePrincipalPolicy,
				SetMarker:  func(in *iam.SimulatePrincipalPolicyInput, m *string) { in.Marker = m },
				SetMax:     func(in *iam.SimulatePrincipalPolicyInput, n *int32) { in.MaxItems = n },
				NextMarker: func(out *iam.SimulatePrincipalPolicyOutput) *string { return out.Marker },
				Truncated:  func(out *iam.SimulatePrincipalPolicyOutput) bool { return out.IsTruncated },
				Items:      func(out *iam.SimulatePrincipalPolicyOutput) []types.EvaluationResult { return out.EvaluationResults },
			}),
		s.spec("simulate_custom_policy", "Simulate policy documents against actions.", mcp.SafetyReadOnly, "",
			simulationParams(required(strList("policyInputList", "Policy documents as JSON."))),
			list[iam.SimulateCustomPolicyInput, iam.SimulateCustomPolicyOutput, types.EvaluationResult]{
				Build: func(b *binder) *iam.SimulateCustomPolicyInput {
					in := &iam.SimulateCustomPolicyInput{
						ActionNames:                        b.requiredStrings("actionNames"),
						PolicyInputList:                    b.documents("policyInputList"),
						PermissionsBoundaryPolicyInputList: b.documents("permissionsBoundaryPolicyInputList"),
						ResourceArns:                       b.strings("resourceArns"),
						ResourcePolicy:                     b.optionalDocument("resourcePolicy"),
						ResourceOwner:                      b.optional("resourceOwner"),
						ResourceHandlingOption:             b.optional("resourceHandlingOption"),
						CallerArn:                          b.optional("callerArn"),
						ContextEntries:                     b.contextEntries("contextEntries"),
					}
					if b.err == nil && len(in.PolicyInputList) == 0 {
						b.fail(invoke.Required("policyInputList"))
					}
					return in
				},
				Call:       API.SimulateCustomPolicy,
				SetMarker:  func(in *iam.SimulateCustomPolicyInput, m *string) { in.Marker = m },
				SetMax:     func(in *iam.SimulateCustomPolicyInput, n *int32) { in.MaxItems = n },
				NextMarker: func(out *iam.SimulateCustomPolicyOutput) *string { return out.Marker },
				Truncated:  func(out *iam.SimulateCustomPolicyOutput) bool { return out.IsTruncated },
				Items:      func(out *iam.SimulateCustomPolicyOutput) []types.EvaluationResult { return out.EvaluationResults },
			}),
		s.spec("get_context_keys_for_principal_policy", "List the condition keys referenced by a principal's policies.", mcp.SafetyReadOnly, "policySourceArn",
			params(
				required(str("policySourceArn", "ARN of the user, group or role.")),
				strList("policyInputList", "Extra policy documents as JSON."),
			),
			single[iam.GetContextKeysForPrincipalPolicyInput, iam.GetContextKeysForPrincipalPolicyOutput]{
				Build: func(b *binder) *iam.GetContextKeysForPrincipalPolicyInput {
					return &iam.GetContextKeysForPrincipalPolicyInput{
						PolicySourceArn: b.required("policySourceArn"),
						PolicyInputList: b.documents("policyInputList"),
					}
				},
				Call:   API.GetContextKeysForPrincipalPolicy,
				Result: func(out *iam.GetContextKeysForPrincipalPolicyOutput) any { return out.ContextKeyNames },
			}),
	}
}
