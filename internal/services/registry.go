package services

import (
	"rentify_backend/internal/auth"
	"rentify_backend/internal/email"
	"rentify_backend/internal/metrics"
	"rentify_backend/internal/payment"
	"rentify_backend/internal/plans"
	"rentify_backend/internal/repositories"
	"rentify_backend/internal/storage"
	"rentify_backend/internal/validator"
)

// Repositories - все репозитории, нужные сервисам.
type Repositories struct {
	Users         repositories.UserRepository
	Properties    repositories.PropertyRepository
	Views         repositories.PropertyViewRepository
	Subscriptions repositories.SubscriptionRepository
	Reports       repositories.ReportRepository
}

// Dependencies - внешние коллабораторы сервисов.
type Dependencies struct {
	Tokens    *auth.TokenManager
	Images    storage.ImageStore
	Payments  payment.Gateway
	Plans     *plans.Catalog
	Notifier  *email.Notifier
	Validator *validator.Validator
	Metrics   *metrics.Metrics
	Clock     Clock
	MaxImages int
}

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService         AuthService
	PropertyService     PropertyService
	SubscriptionService SubscriptionService
	AdminService        AdminService
	ReportService       ReportService
	AccessPolicy        *AccessPolicy
}

func NewServiceContainer(repos Repositories, deps Dependencies) *ServiceContainer {
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	if deps.Plans == nil {
		deps.Plans = plans.Default()
	}

	access := NewAccessPolicy(repos.Subscriptions, repos.Views, repos.Properties, deps.Metrics, deps.Clock)

	return &ServiceContainer{
		AuthService:     NewAuthService(repos.Users, deps.Tokens, deps.Validator),
		PropertyService: NewPropertyService(repos.Properties, access, deps.Images, deps.Validator, deps.Metrics, deps.MaxImages),
		SubscriptionService: NewSubscriptionService(
			repos.Subscriptions, repos.Users, deps.Plans, deps.Payments,
			deps.Notifier, deps.Validator, deps.Metrics, deps.Clock,
		),
		AdminService:  NewAdminService(repos.Users, repos.Properties, deps.Notifier, deps.Validator),
		ReportService: NewReportService(repos.Reports, repos.Properties, deps.Validator, deps.Clock),
		AccessPolicy:  access,
	}
}
