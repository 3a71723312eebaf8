package cache

import "fmt"

// GenerateKey builds keys of the form entity:keyType:value.
func GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

func ProfileExternalKey(externalID string) string {
	return GenerateKey("profile", "external", externalID)
}

func ProfileIDKey(id uint) string {
	return GenerateKey("profile", "id", id)
}

func CampaignKey(id uint) string {
	return GenerateKey("campaign", "id", id)
}
