package models

// Permission constants
const (
	// Campaign permissions
	PermissionCampaignRead  = "campaign:read"
	PermissionCampaignWrite = "campaign:write"

	// Investment permissions
	PermissionInvestmentWrite = "investment:write"

	// Payment permissions
	PermissionPaymentWrite = "payment:write"

	// Payout permissions
	PermissionPayoutRequest = "payout:request"

	// AI permissions
	PermissionAIUse = "ai:use"

	// Admin permissions
	PermissionReadAdmin  = "admin:read"
	PermissionWriteAdmin = "admin:write"
)

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{
			PermissionReadAdmin,
			PermissionWriteAdmin,
			PermissionCampaignRead,
			PermissionCampaignWrite,
			PermissionInvestmentWrite,
			PermissionPaymentWrite,
			PermissionPayoutRequest,
			PermissionAIUse,
		}
	case RoleInnovator:
		return []string{
			PermissionCampaignRead,
			PermissionCampaignWrite,
			PermissionPaymentWrite,
			PermissionPayoutRequest,
			PermissionAIUse,
		}
	case RoleInvestor, RoleInstitution:
		return []string{
			PermissionCampaignRead,
			PermissionInvestmentWrite,
			PermissionPaymentWrite,
			PermissionPayoutRequest,
			PermissionAIUse,
		}
	case RoleGrantmaker:
		return []string{
			PermissionCampaignRead,
			PermissionInvestmentWrite,
			PermissionPaymentWrite,
			PermissionAIUse,
		}
	case RolePublic:
		return []string{
			PermissionCampaignRead,
		}
	default:
		return []string{}
	}
}
