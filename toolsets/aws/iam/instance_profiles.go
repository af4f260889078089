package awsiam

import (
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"

	"iamkit/internal/invoke"
	"iamkit/internal/mcp"
)

func (s *Service) instanceProfileSpecs() []mcp.ToolSpec {
	profileName := required(str("instanceProfileName", "Name of the instance profile."))
	roleName := required(str("roleName", "Name of the role."))

	return []mcp.ToolSpec{
		s.spec("create_instance_profile", "Create an instance profile.", mcp.SafetyWrite, "instanceProfileName",
			params(profileName, str("path", "Path for the instance profile."), tagList("tags")),
			single[iam.CreateInstanceProfileInput, iam.CreateInstanceProfileOutput]{
				Build: func(b *binder) *iam.CreateInstanceProfileInput {
					return &iam.CreateInstanceProfileInput{
						InstanceProfileName: b.required("instanceProfileName"),
						Path:                b.optional("path"),
						Tags:                b.tags("tags"),
					}
				},
				Call:   API.CreateInstanceProfile,
				Result: func(out *iam.CreateInstanceProfileOutput) any { return instanceProfileView(out.InstanceProfile) },
			}),
		s.spec("get_instance_profile", "Get an instance profile and its role.", mcp.SafetyReadOnly, "instanceProfileName",
			params(profileName),
			single[iam.GetInstanceProfileInput, iam.GetInstanceProfileOutput]{
				Build: func(b *binder) *iam.GetInstanceProfileInput {
					return &iam.GetInstanceProfileInput{InstanceProfileName: b.required("instanceProfileName")}
				},
				Call:   API.GetInstanceProfile,
				Result: func(out *iam.GetInstanceProfileOutput) any { return instanceProfileView(out.InstanceProfile) },
			}),
		s.spec("delete_instance_profile", "Delete an instance profile. Its role must be removed first.", mcp.SafetyDestructive, "instanceProfileName",
			params(profileName),
			single[iam.DeleteInstanceProfileInput, iam.DeleteInstanceProfileOutput]{
				Build: func(b *binder) *iam.DeleteInstanceProfileInput {
					return &iam.DeleteInstanceProfileInput{InstanceProfileName: b.required("instanceProfileName")}
				},
				Call:   API.DeleteInstanceProfile,
				Result: invoke.Void[iam.DeleteInstanceProfileOutput],
			}),
		s.spec("add_role_to_instance_profile", "Add a role to an instance profile.", mcp.SafetyRiskyWrite, "instanceProfileName",
			params(profileName, roleName),
			single[iam.AddRoleToInstanceProfileInput, iam.AddRoleToInstanceProfileOutput]{
				Build: func(b *binder) *iam.AddRoleToInstanceProfileInput {
					return &iam.AddRoleToInstanceProfileInput{
						InstanceProfileName: b.required("instanceProfileName"),
						RoleName:            b.required("roleName"),
					}
				},
				Call:   API.AddRoleToInstanceProfile,
				Result: invoke.Void[iam.AddRoleToInstanceProfileOutput],
			}),
		s.spec("remove_role_from_instance_profile", "Remove a role from an instance profile.", mcp.SafetyRiskyWrite, "instanceProfileName",
			params(profileName, roleName),
			single[iam.RemoveRoleFromInstanceProfileInput, iam.RemoveRoleFromInstanceProfileOutput]{
				Build: func(b *binder) *iam.RemoveRoleFromInstanceProfileInput {
					return &iam.RemoveRoleFromInstanceProfileInput{
						InstanceProfileName: b.required("instanceProfileName"),
						RoleName:            b.required("roleName"),
					}
				},
				Call:   API.RemoveRoleFromInstanceProfile,
				Result: invoke.Void[iam.RemoveRoleFromInstanceProfileOutput],
			}),
		s.spec("list_instance_profiles", "List instance profiles.", mcp.SafetyReadOnly, "",
			params(str("pathPrefix", "Only return instance profiles under this path.")),
			list[iam.ListInstanceProfilesInput, iam.ListInstanceProfilesOutput, types.InstanceProfile]{
				Build: func(b *binder) *iam.ListInstanceProfilesInput {
					return &iam.ListInstanceProfilesInput{PathPrefix: b.optional("pathPrefix")}
				},
				Call:       API.ListInstanceProfiles,
				SetMarker:  func(in *iam.ListInstanceProfilesInput, m *string) { in.Marker = m },
				SetMax:     func(in *iam.ListInstanceProfilesInput, n *int32) { in.MaxItems = n },
				NextMarker: func(out *iam.ListInstanceProfilesOutput) *string { return out.Marker },
				Truncated:  func(out *iam.ListInstanceProfilesOutput) bool { return out.IsTruncated },
				Items:      func(out *iam.ListInstanceProfilesOutput) []types.InstanceProfile { return out.InstanceProfiles },
				Payload: func(_ *iam.ListInstanceProfilesOutput, profiles []types.InstanceProfile) any {
					return instanceProfileViews(profiles)
				},
			}),
		s.spec("list_instance_profiles_for_role", "List the instance profiles that contain a role.", mcp.SafetyReadOnly, "roleName",
			params(roleName),
			list[iam.ListInstanceProfilesForRoleInput, iam.ListInstanceProfilesForRoleOutput, types.InstanceProfile]{
				Build: func(b *binder) *iam.ListInstanceProfilesForRoleInput {
					return &iam.ListInstanceProfilesForRoleInput{RoleName: b.required("roleName")}
				},
				Call:       API.ListInstanceProfilesForRole,
				SetMarker:  func(in *iam.ListInstanceProfilesForRoleInput, m *string) { in.Marker = m },
				SetMax:     func(in *iam.ListInstanceProfilesForRoleInput, n *int32) { in.MaxItems = n },
				NextMarker: func(out *iam.ListInstanceProfilesForRoleOutput) *string { return out.Marker },
				Truncated:  func(out *iam.ListInstanceProfilesForRoleOutput) bool { return out.IsTruncated },
				Items:      func(out *iam.ListInstanceProfilesForRoleOutput) []types.InstanceProfile { return out.InstanceProfiles },
				Payload: func(_ *iam.ListInstanceProfilesForRoleOutput, profiles []types.InstanceProfile) any {
					return instanceProfileViews(profiles)
				},
			}),
	}
}

func instanceProfileView(profile *types.InstanceProfile) any {
	if profile == nil {
		return nil
	}
	view := *profile
	view.Roles = roleViews(profile.Roles)
	return view
}

func instanceProfileViews(profiles []types.InstanceProfile) []types.InstanceProfile {
	out := make([]types.InstanceProfile, 0, len(profiles))
	for _, profile := range profiles {
		profile.Roles = roleViews(profile.Roles)
		out = append(out, profile)
	}
	return out
}
