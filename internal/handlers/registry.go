package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	PropertyHandler     *PropertyHandler
	SubscriptionHandler *SubscriptionHandler
	AdminHandler        *AdminHandler
	ReportHandler       *ReportHandler
	HealthHandler       *HealthHandler
}
