package model

// Setting keys stored in the settings table.
const (
	SettingGatewayKeyID          = "gateway_key_id"
	SettingGatewayKeySecret      = "gateway_key_secret"
	SettingGatewayTestMode       = "gateway_test_mode"
	SettingWhatsAppAccessToken   = "whatsapp_access_token"
	SettingWhatsAppPhoneNumberID = "whatsapp_phone_number_id"
	SettingWhatsAppVerifyToken   = "whatsapp_verify_token"
	SettingWhatsAppAppSecret     = "whatsapp_app_secret"
	SettingStoreName             = "store_name"
)

// DryRunCredential marks a messaging credential that must never reach the provider.
const DryRunCredential = "dry-run"

// Settings is the resolved operator configuration for one operation.
type Settings struct {
	GatewayKeyID          string
	GatewayKeySecret      string
	GatewayTestMode       bool
	WhatsAppAccessToken   string
	WhatsAppPhoneNumberID string
	WhatsAppVerifyToken   string
	WhatsAppAppSecret     string
	StoreName             string
}

// WhatsAppDryRun reports whether outbound messages should be simulated.
func (s Settings) WhatsAppDryRun() bool {
	return s.WhatsAppAccessToken == "" || s.WhatsAppAccessToken == DryRunCredential
}
