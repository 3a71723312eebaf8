package models

// ownerCampaignTransitions lists the status moves a campaign owner may make
// without an administrator.
var ownerCampaignTransitions = map[CampaignStatus]CampaignStatus{
	CampaignStatusApproved: CampaignStatusFunding,
	CampaignStatusFunding:  CampaignStatusCompleted,
}

// CanSetCampaignStatus decides whether actor may move a campaign owned by
// ownerID from one status to another. Admins may set any status.
func CanSetCampaignStatus(actor Actor, ownerID uint, from, to CampaignStatus) bool {
	if actor.IsAdmin() {
		return true
	}
	if !actor.Owns(ownerID) {
		return false
	}
	next, ok := ownerCampaignTransitions[from]
	return ok && next == to
}

// CanAssignRole reports whether actor may give a profile the role. Only
// admins hand out the admin role or change an existing role.
func CanAssignRole(actor Actor, role string) bool {
	if actor.IsAdmin() {
		return true
	}
	return role != RoleAdmin
}
